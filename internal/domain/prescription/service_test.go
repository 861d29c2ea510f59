package prescription

import (
	"context"
	"testing"

	"github.com/rxdesk/rxdesk/internal/platform/apperr"
)

type mockRepo struct {
	seq   int64
	rows  map[int64]*Prescription
	order []int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{rows: make(map[int64]*Prescription)}
}

func (m *mockRepo) Create(_ context.Context, p *Prescription) (int64, error) {
	m.seq++
	p.ID = m.seq
	clone := *p
	m.rows[p.ID] = &clone
	m.order = append(m.order, p.ID)
	return p.ID, nil
}

func (m *mockRepo) Get(_ context.Context, id int64) (*Prescription, bool, error) {
	p, ok := m.rows[id]
	if !ok {
		return nil, false, nil
	}
	clone := *p
	return &clone, true, nil
}

func (m *mockRepo) Update(_ context.Context, id int64, p *Prescription) (bool, error) {
	if _, ok := m.rows[id]; !ok {
		return false, nil
	}
	clone := *p
	clone.ID = id
	m.rows[id] = &clone
	return true, nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	delete(m.rows, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockRepo) All(_ context.Context) ([]*Prescription, error) {
	out := make([]*Prescription, 0, len(m.order))
	for _, id := range m.order {
		clone := *m.rows[id]
		out = append(out, &clone)
	}
	return out, nil
}

func (m *mockRepo) FindByStatus(_ context.Context, status Status) ([]*Prescription, error) {
	var out []*Prescription
	for _, id := range m.order {
		if m.rows[id].Status == status {
			clone := *m.rows[id]
			out = append(out, &clone)
		}
	}
	return out, nil
}

func validPrescription() *Prescription {
	return &Prescription{
		PatientName: "Jane Doe",
		DoctorName:  "Dr. Sarah Johnson",
		Medication:  "Amoxicillin 500mg",
		Dosage:      "500mg",
		Frequency:   "Twice daily",
		StartDate:   "2024-03-01",
		EndDate:     "2024-03-14",
	}
}

func TestCreatePrescription(t *testing.T) {
	svc := NewService(newMockRepo())
	p := validPrescription()

	id, err := svc.Create(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id <= 0 {
		t.Errorf("expected positive id, got %d", id)
	}
	if p.Status != StatusActive {
		t.Errorf("expected default active, got %s", p.Status)
	}
	if p.LastModified == 0 {
		t.Error("expected lastModified to be stamped")
	}
}

func TestCreatePrescription_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Prescription)
	}{
		{"blank patient", func(p *Prescription) { p.PatientName = " " }},
		{"blank doctor", func(p *Prescription) { p.DoctorName = "" }},
		{"blank medication", func(p *Prescription) { p.Medication = "" }},
		{"blank dosage", func(p *Prescription) { p.Dosage = "" }},
		{"blank frequency", func(p *Prescription) { p.Frequency = "" }},
		{"blank start date", func(p *Prescription) { p.StartDate = "" }},
		{"bad status", func(p *Prescription) { p.Status = "paused" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(newMockRepo())
			p := validPrescription()
			tc.mutate(p)
			if _, err := svc.Create(context.Background(), p); !apperr.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpdatePrescription(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()
	id, _ := svc.Create(ctx, validPrescription())
	before, _ := svc.Get(ctx, id)

	status := StatusCompleted
	updated, err := svc.Update(ctx, id, Patch{Status: &status})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", updated.Status)
	}
	if updated.LastModified <= before.LastModified {
		t.Errorf("expected lastModified to strictly increase: %d -> %d", before.LastModified, updated.LastModified)
	}
}

func TestSearchPrescriptions(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()
	svc.Create(ctx, validPrescription())
	other := validPrescription()
	other.PatientName = "Bob Jones"
	other.DoctorName = "Dr. Chen"
	other.Medication = "Lisinopril 10mg"
	svc.Create(ctx, other)

	byDoctor, _ := svc.Search(ctx, "chen")
	if len(byDoctor) != 1 || byDoctor[0].PatientName != "Bob Jones" {
		t.Errorf("expected doctor match, got %+v", byDoctor)
	}
	byMed, _ := svc.Search(ctx, "amoxi")
	if len(byMed) != 1 || byMed[0].PatientName != "Jane Doe" {
		t.Errorf("expected medication match, got %+v", byMed)
	}
	all, _ := svc.Search(ctx, "")
	if len(all) != 2 {
		t.Errorf("expected blank query to return all, got %d", len(all))
	}
}

func TestActivePrescriptions(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()
	id, _ := svc.Create(ctx, validPrescription())
	svc.Create(ctx, validPrescription())

	status := StatusCancelled
	svc.Update(ctx, id, Patch{Status: &status})

	active, err := svc.Active(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(active) != 1 {
		t.Errorf("expected 1 active prescription, got %d", len(active))
	}
}
