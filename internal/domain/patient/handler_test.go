package patient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *mockRepo, *mockOrderCounter) {
	svc, repo, orders := newTestService()
	return NewHandler(svc), repo, orders
}

func jsonRequest(method, target, body string) (*http.Request, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return req, httptest.NewRecorder()
}

const validPatientJSON = `{
	"name": "Jane Doe",
	"dateOfBirth": "1990-01-01",
	"gender": "female",
	"phone": "+1 555-123-4567",
	"email": "jane@example.com",
	"address": {"street": "1 Main St", "city": "Springfield", "state": "IL", "zipCode": "62701", "country": "US"},
	"paymentMethod": "cash"
}`

func TestCreatePatientHandler(t *testing.T) {
	h, _, _ := newTestHandler()
	e := echo.New()
	req, rec := jsonRequest(http.MethodPost, "/patients", validPatientJSON)
	c := e.NewContext(req, rec)

	if err := h.CreatePatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var got Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ID <= 0 {
		t.Errorf("expected assigned id, got %d", got.ID)
	}
	if got.SyncStatus != "pending" {
		t.Errorf("expected pending syncStatus, got %s", got.SyncStatus)
	}
}

func TestCreatePatientHandler_ValidationError(t *testing.T) {
	h, _, _ := newTestHandler()
	e := echo.New()
	req, rec := jsonRequest(http.MethodPost, "/patients", `{"name": "No Contact Details"}`)
	c := e.NewContext(req, rec)

	err := h.CreatePatient(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestGetPatientHandler(t *testing.T) {
	h, _, _ := newTestHandler()
	e := echo.New()

	req, rec := jsonRequest(http.MethodPost, "/patients", validPatientJSON)
	if err := h.CreatePatient(e.NewContext(req, rec)); err != nil {
		t.Fatalf("seed create: %v", err)
	}

	req, rec = jsonRequest(http.MethodGet, "/patients/1", "")
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := h.GetPatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got Patient
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Name != "Jane Doe" {
		t.Errorf("expected Jane Doe, got %s", got.Name)
	}
}

func TestGetPatientHandler_NotFound(t *testing.T) {
	h, _, _ := newTestHandler()
	e := echo.New()
	req, rec := jsonRequest(http.MethodGet, "/patients/99", "")
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("99")

	err := h.GetPatient(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404 HTTPError, got %v", err)
	}
}

func TestGetPatientHandler_BadID(t *testing.T) {
	h, _, _ := newTestHandler()
	e := echo.New()
	for _, raw := range []string{"abc", "0", "-3"} {
		req, rec := jsonRequest(http.MethodGet, "/patients/"+raw, "")
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(raw)

		err := h.GetPatient(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusBadRequest {
			t.Errorf("id %q: expected 400 HTTPError, got %v", raw, err)
		}
	}
}

func TestListPatientsHandler(t *testing.T) {
	h, _, _ := newTestHandler()
	e := echo.New()

	for i := 0; i < 3; i++ {
		body := strings.Replace(validPatientJSON, "jane@example.com", "jane"+strconv.Itoa(i)+"@example.com", 1)
		req, rec := jsonRequest(http.MethodPost, "/patients", body)
		if err := h.CreatePatient(e.NewContext(req, rec)); err != nil {
			t.Fatalf("seed create: %v", err)
		}
	}

	req, rec := jsonRequest(http.MethodGet, "/patients?limit=2&offset=0", "")
	if err := h.ListPatients(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp struct {
		Data    []Patient `json:"data"`
		Total   int       `json:"total"`
		HasMore bool      `json:"has_more"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 3 || len(resp.Data) != 2 || !resp.HasMore {
		t.Errorf("expected total=3 page=2 has_more, got total=%d page=%d has_more=%v", resp.Total, len(resp.Data), resp.HasMore)
	}
}

func TestListPatientsHandler_Search(t *testing.T) {
	h, _, _ := newTestHandler()
	e := echo.New()

	req, rec := jsonRequest(http.MethodPost, "/patients", validPatientJSON)
	h.CreatePatient(e.NewContext(req, rec))
	body := strings.NewReplacer("Jane Doe", "Bob Jones", "jane@example.com", "bob@example.com").Replace(validPatientJSON)
	req, rec = jsonRequest(http.MethodPost, "/patients", body)
	h.CreatePatient(e.NewContext(req, rec))

	req, rec = jsonRequest(http.MethodGet, "/patients?q=bob", "")
	if err := h.ListPatients(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp struct {
		Data  []Patient `json:"data"`
		Total int       `json:"total"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Total != 1 || resp.Data[0].Name != "Bob Jones" {
		t.Errorf("expected single Bob Jones match, got %+v", resp)
	}
}

func TestUpdatePatientHandler(t *testing.T) {
	h, _, _ := newTestHandler()
	e := echo.New()

	req, rec := jsonRequest(http.MethodPost, "/patients", validPatientJSON)
	h.CreatePatient(e.NewContext(req, rec))

	req, rec = jsonRequest(http.MethodPut, "/patients/1", `{"name": "Jane Smith"}`)
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := h.UpdatePatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got Patient
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Name != "Jane Smith" || got.Email != "jane@example.com" {
		t.Errorf("expected merged patch, got %+v", got)
	}
}

func TestDeletePatientHandler_Conflict(t *testing.T) {
	h, _, orders := newTestHandler()
	e := echo.New()

	req, rec := jsonRequest(http.MethodPost, "/patients", validPatientJSON)
	h.CreatePatient(e.NewContext(req, rec))
	orders.counts[1] = 1

	req, rec = jsonRequest(http.MethodDelete, "/patients/1", "")
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := h.DeletePatient(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusConflict {
		t.Fatalf("expected 409 HTTPError, got %v", err)
	}
}

func TestDeletePatientHandler(t *testing.T) {
	h, repo, _ := newTestHandler()
	e := echo.New()

	req, rec := jsonRequest(http.MethodPost, "/patients", validPatientJSON)
	h.CreatePatient(e.NewContext(req, rec))

	req, rec = jsonRequest(http.MethodDelete, "/patients/1", "")
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := h.DeletePatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if len(repo.patients) != 0 {
		t.Error("expected patient removed")
	}
}
