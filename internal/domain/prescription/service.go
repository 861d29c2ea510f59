package prescription

import (
	"context"
	"strings"
	"time"

	"github.com/rxdesk/rxdesk/internal/platform/apperr"
)

var validStatuses = map[Status]bool{
	StatusActive: true, StatusCompleted: true, StatusCancelled: true,
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// SetClock overrides the timestamp source. Intended for tests.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

func validateNew(p *Prescription) error {
	for field, value := range map[string]string{
		"patientName": p.PatientName,
		"doctorName":  p.DoctorName,
		"medication":  p.Medication,
		"dosage":      p.Dosage,
		"frequency":   p.Frequency,
		"startDate":   p.StartDate,
	} {
		if strings.TrimSpace(value) == "" {
			return apperr.Validationf("%s is required", field)
		}
	}
	if p.Status != "" && !validStatuses[p.Status] {
		return apperr.Validationf("invalid status: %s", p.Status)
	}
	return nil
}

func (s *Service) stamp(prev int64) int64 {
	ms := s.now().UnixMilli()
	if ms <= prev {
		ms = prev + 1
	}
	return ms
}

func (s *Service) Create(ctx context.Context, p *Prescription) (int64, error) {
	if err := validateNew(p); err != nil {
		return 0, err
	}
	if p.Status == "" {
		p.Status = StatusActive
	}
	p.LastModified = s.stamp(0)
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id int64) (*Prescription, error) {
	p, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFoundf("prescription %d not found", id)
	}
	return p, nil
}

func (s *Service) GetAll(ctx context.Context) ([]*Prescription, error) {
	return s.repo.All(ctx)
}

func (s *Service) Update(ctx context.Context, id int64, patch Patch) (*Prescription, error) {
	existing, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFoundf("prescription %d not found", id)
	}
	if patch.Status != nil && *patch.Status != "" && !validStatuses[*patch.Status] {
		return nil, apperr.Validationf("invalid status: %s", *patch.Status)
	}

	patch.apply(existing)
	existing.LastModified = s.stamp(existing.LastModified)

	ok, err = s.repo.Update(ctx, id, existing)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFoundf("prescription %d not found", id)
	}
	return existing, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	_, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFoundf("prescription %d not found", id)
	}
	return s.repo.Delete(ctx, id)
}

// Search matches the query as a case-insensitive substring of patient name,
// doctor name or medication. A blank query returns every prescription.
func (s *Service) Search(ctx context.Context, query string) ([]*Prescription, error) {
	if strings.TrimSpace(query) == "" {
		return s.repo.All(ctx)
	}
	all, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	lower := strings.ToLower(query)
	var out []*Prescription
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.PatientName), lower) ||
			strings.Contains(strings.ToLower(p.DoctorName), lower) ||
			strings.Contains(strings.ToLower(p.Medication), lower) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Active returns prescriptions currently being dispensed against.
func (s *Service) Active(ctx context.Context) ([]*Prescription, error) {
	return s.repo.FindByStatus(ctx, StatusActive)
}
