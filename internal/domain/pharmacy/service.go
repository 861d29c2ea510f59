package pharmacy

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/rxdesk/rxdesk/internal/platform/apperr"
)

var (
	emailRx = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRx = regexp.MustCompile(`^\+?[\d\s-]{10,}$`)
)

var validStaffStatuses = map[StaffStatus]bool{
	StaffActive: true, StaffOnLeave: true, StaffOffDuty: true,
}

// DefaultInfo is served until the operator saves their own details.
var DefaultInfo = Info{
	Name:           "MediCare Pharmacy",
	Address:        "123 Healthcare Street, Medical District, Bulawayo",
	Phone:          "+263 78 426 2096",
	Email:          "info@medicare-pharmacy.com",
	License:        "PH123456",
	OperatingHours: "Mon-Sat: 8:00 AM - 10:00 PM, Sun: 9:00 AM - 8:00 PM",
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

func (s *Service) stamp(prev int64) int64 {
	ms := s.now().UnixMilli()
	if ms <= prev {
		ms = prev + 1
	}
	return ms
}

// GetInfo returns the stored pharmacy details, falling back to DefaultInfo
// before the first save.
func (s *Service) GetInfo(ctx context.Context) (*Info, error) {
	info, ok, err := s.repo.GetInfo(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		cp := DefaultInfo
		return &cp, nil
	}
	return info, nil
}

func (s *Service) UpdateInfo(ctx context.Context, patch InfoPatch) (*Info, error) {
	info, err := s.GetInfo(ctx)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, apperr.Validationf("name cannot be blank")
	}
	if patch.Email != nil && *patch.Email != "" && !emailRx.MatchString(*patch.Email) {
		return nil, apperr.Validationf("invalid email format")
	}
	if patch.Phone != nil && *patch.Phone != "" && !phoneRx.MatchString(*patch.Phone) {
		return nil, apperr.Validationf("invalid phone format")
	}
	patch.apply(info)
	info.LastModified = s.stamp(info.LastModified)
	if err := s.repo.PutInfo(ctx, info); err != nil {
		return nil, err
	}
	return info, nil
}

func validateStaff(m *StaffMember) error {
	if strings.TrimSpace(m.Name) == "" {
		return apperr.Validationf("name is required")
	}
	if strings.TrimSpace(m.Role) == "" {
		return apperr.Validationf("role is required")
	}
	if m.Status != "" && !validStaffStatuses[m.Status] {
		return apperr.Validationf("invalid staff status: %s", m.Status)
	}
	return nil
}

func (s *Service) AddStaff(ctx context.Context, m *StaffMember) (int64, error) {
	if err := validateStaff(m); err != nil {
		return 0, err
	}
	if m.Status == "" {
		m.Status = StaffActive
	}
	m.LastModified = s.stamp(0)
	return s.repo.CreateStaff(ctx, m)
}

func (s *Service) GetStaff(ctx context.Context, id int64) (*StaffMember, error) {
	m, ok, err := s.repo.GetStaff(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFoundf("staff member %d not found", id)
	}
	return m, nil
}

func (s *Service) ListStaff(ctx context.Context) ([]*StaffMember, error) {
	return s.repo.AllStaff(ctx)
}

func (s *Service) UpdateStaff(ctx context.Context, id int64, patch StaffPatch) (*StaffMember, error) {
	existing, ok, err := s.repo.GetStaff(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFoundf("staff member %d not found", id)
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, apperr.Validationf("name cannot be blank")
	}
	if patch.Status != nil && *patch.Status != "" && !validStaffStatuses[*patch.Status] {
		return nil, apperr.Validationf("invalid staff status: %s", *patch.Status)
	}

	patch.apply(existing)
	existing.LastModified = s.stamp(existing.LastModified)

	ok, err = s.repo.UpdateStaff(ctx, id, existing)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFoundf("staff member %d not found", id)
	}
	return existing, nil
}

func (s *Service) DeleteStaff(ctx context.Context, id int64) error {
	_, ok, err := s.repo.GetStaff(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFoundf("staff member %d not found", id)
	}
	return s.repo.DeleteStaff(ctx, id)
}
