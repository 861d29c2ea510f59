package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/rxdesk/rxdesk/internal/platform/apperr"
)

var validStatuses = map[StockStatus]bool{
	StockIn: true, StockLow: true, StockOut: true,
}

// Service fronts the medication collection. Presence checks on name and
// category, enum check on the stock status; everything else is operator
// judgement.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// SetClock overrides the timestamp source. Intended for tests.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

func validateNew(m *Medication) error {
	if strings.TrimSpace(m.Name) == "" {
		return apperr.Validationf("name is required")
	}
	if strings.TrimSpace(m.Category) == "" {
		return apperr.Validationf("category is required")
	}
	if m.Quantity < 0 {
		return apperr.Validationf("quantity cannot be negative")
	}
	if m.Price < 0 {
		return apperr.Validationf("price cannot be negative")
	}
	if m.Status != "" && !validStatuses[m.Status] {
		return apperr.Validationf("invalid stock status: %s", m.Status)
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

func (s *Service) Create(ctx context.Context, m *Medication) (int64, error) {
	if err := validateNew(m); err != nil {
		return 0, err
	}
	if m.Status == "" {
		m.Status = StockIn
	}
	m.LastModified = s.stamp(0)
	return s.repo.Create(ctx, m)
}

func (s *Service) Get(ctx context.Context, id int64) (*Medication, error) {
	m, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFoundf("medication %d not found", id)
	}
	return m, nil
}

func (s *Service) GetAll(ctx context.Context) ([]*Medication, error) {
	return s.repo.All(ctx)
}

func (s *Service) Update(ctx context.Context, id int64, patch Patch) (*Medication, error) {
	existing, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFoundf("medication %d not found", id)
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, apperr.Validationf("name cannot be blank")
	}
	if patch.Category != nil && strings.TrimSpace(*patch.Category) == "" {
		return nil, apperr.Validationf("category cannot be blank")
	}
	if patch.Quantity != nil && *patch.Quantity < 0 {
		return nil, apperr.Validationf("quantity cannot be negative")
	}
	if patch.Price != nil && *patch.Price < 0 {
		return nil, apperr.Validationf("price cannot be negative")
	}
	if patch.Status != nil && *patch.Status != "" && !validStatuses[*patch.Status] {
		return nil, apperr.Validationf("invalid stock status: %s", *patch.Status)
	}

	patch.apply(existing)
	existing.LastModified = s.stamp(existing.LastModified)

	ok, err = s.repo.Update(ctx, id, existing)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFoundf("medication %d not found", id)
	}
	return existing, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	_, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFoundf("medication %d not found", id)
	}
	return s.repo.Delete(ctx, id)
}

// Search matches the query as a case-insensitive substring of name,
// category or supplier. A blank query returns every medication.
func (s *Service) Search(ctx context.Context, query string) ([]*Medication, error) {
	if strings.TrimSpace(query) == "" {
		return s.repo.All(ctx)
	}
	all, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	lower := strings.ToLower(query)
	var out []*Medication
	for _, m := range all {
		if strings.Contains(strings.ToLower(m.Name), lower) ||
			strings.Contains(strings.ToLower(m.Category), lower) ||
			strings.Contains(strings.ToLower(m.Supplier), lower) {
			out = append(out, m)
		}
	}
	return out, nil
}

// LowStock returns the medications flagged low by the operator.
func (s *Service) LowStock(ctx context.Context) ([]*Medication, error) {
	return s.repo.FindByStatus(ctx, StockLow)
}

// OutOfStock returns the medications flagged out of stock.
func (s *Service) OutOfStock(ctx context.Context) ([]*Medication, error) {
	return s.repo.FindByStatus(ctx, StockOut)
}
