package patient

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/rxdesk/rxdesk/internal/platform/apperr"
	"github.com/rxdesk/rxdesk/internal/store"
)

var (
	emailRx = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRx = regexp.MustCompile(`^\+?[\d\s-]{10,}$`)
)

var validGenders = map[Gender]bool{
	GenderMale: true, GenderFemale: true, GenderOther: true,
}

var validPaymentMethods = map[PaymentMethod]bool{
	PaymentMedicalAid: true, PaymentCash: true, PaymentCreditCard: true,
}

var validStatuses = map[Status]bool{
	StatusActive: true, StatusInactive: true,
}

// OrderCounter reports how many orders reference a patient. The order package
// satisfies it; keeping the interface here avoids an import cycle.
type OrderCounter interface {
	CountByPatient(ctx context.Context, patientID int64) (int, error)
}

// Service is the validation gate in front of the patient collection. All
// patient mutations go through it.
type Service struct {
	repo   Repository
	orders OrderCounter
	now    func() time.Time
}

func NewService(repo Repository, orders OrderCounter) *Service {
	return &Service{repo: repo, orders: orders, now: time.Now}
}

// SetClock overrides the timestamp source. Intended for tests.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

func notBlank(value interface{}) error {
	str, _ := value.(string)
	if strings.TrimSpace(str) == "" {
		return errors.New("cannot be blank")
	}
	return nil
}

func validateNew(p *Patient) error {
	err := validation.Errors{
		"name":           validation.Validate(p.Name, validation.By(notBlank)),
		"dateOfBirth":    validation.Validate(p.DateOfBirth, validation.By(notBlank)),
		"phone":          validation.Validate(p.Phone, validation.By(notBlank), validation.Match(phoneRx)),
		"email":          validation.Validate(p.Email, validation.By(notBlank), validation.Match(emailRx)),
		"address.street": validation.Validate(p.Address.Street, validation.By(notBlank)),
		"address.city":   validation.Validate(p.Address.City, validation.By(notBlank)),
	}.Filter()
	if err != nil {
		return err
	}
	if p.Gender != "" && !validGenders[p.Gender] {
		return errors.New("invalid gender: " + string(p.Gender))
	}
	if p.PaymentMethod != "" && !validPaymentMethods[p.PaymentMethod] {
		return errors.New("invalid payment method: " + string(p.PaymentMethod))
	}
	if p.Status != "" && !validStatuses[p.Status] {
		return errors.New("invalid status: " + string(p.Status))
	}
	return nil
}

// stamp returns the current unix-millisecond timestamp, always strictly
// greater than prev so successive mutations of one record are ordered.
func (s *Service) stamp(prev int64) int64 {
	ms := s.now().UnixMilli()
	if ms <= prev {
		ms = prev + 1
	}
	return ms
}

// Create validates p, stamps it pending with a fresh timestamp and inserts
// it. The store assigns the identifier.
func (s *Service) Create(ctx context.Context, p *Patient) (int64, error) {
	if err := validateNew(p); err != nil {
		return 0, apperr.Wrap(apperr.KindValidation, err, "invalid patient")
	}
	if p.Status == "" {
		p.Status = StatusActive
	}
	p.SyncStatus = store.SyncPending
	p.SyncAttempts = 0
	p.LastModified = s.stamp(0)
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id int64) (*Patient, error) {
	p, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFoundf("patient %d not found", id)
	}
	return p, nil
}

func (s *Service) GetAll(ctx context.Context) ([]*Patient, error) {
	return s.repo.All(ctx)
}

// Update merges patch into the stored record. Email and phone are
// re-validated only when the patch carries them non-empty.
func (s *Service) Update(ctx context.Context, id int64, patch Patch) (*Patient, error) {
	existing, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFoundf("patient %d not found", id)
	}
	if patch.Email != nil && *patch.Email != "" && !emailRx.MatchString(*patch.Email) {
		return nil, apperr.Validationf("invalid email format")
	}
	if patch.Phone != nil && *patch.Phone != "" && !phoneRx.MatchString(*patch.Phone) {
		return nil, apperr.Validationf("invalid phone number format")
	}
	if patch.Gender != nil && *patch.Gender != "" && !validGenders[*patch.Gender] {
		return nil, apperr.Validationf("invalid gender: %s", *patch.Gender)
	}
	if patch.PaymentMethod != nil && *patch.PaymentMethod != "" && !validPaymentMethods[*patch.PaymentMethod] {
		return nil, apperr.Validationf("invalid payment method: %s", *patch.PaymentMethod)
	}
	if patch.Status != nil && *patch.Status != "" && !validStatuses[*patch.Status] {
		return nil, apperr.Validationf("invalid status: %s", *patch.Status)
	}

	patch.apply(existing)
	existing.SyncStatus = store.SyncPending
	existing.LastModified = s.stamp(existing.LastModified)

	ok, err = s.repo.Update(ctx, id, existing)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFoundf("patient %d not found", id)
	}
	return existing, nil
}

// Delete removes the patient unless orders still reference it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	_, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFoundf("patient %d not found", id)
	}
	n, err := s.orders.CountByPatient(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperr.Conflictf("cannot delete patient with existing orders")
	}
	return s.repo.Delete(ctx, id)
}

// Search matches the query as a case-insensitive substring of name or email,
// or a raw substring of the phone number. A blank query returns every
// patient.
func (s *Service) Search(ctx context.Context, query string) ([]*Patient, error) {
	if strings.TrimSpace(query) == "" {
		return s.repo.All(ctx)
	}
	all, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	lower := strings.ToLower(query)
	var out []*Patient
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), lower) ||
			strings.Contains(p.Phone, query) ||
			strings.Contains(strings.ToLower(p.Email), lower) {
			out = append(out, p)
		}
	}
	return out, nil
}

// PendingSync returns the patients whose local changes have not been pushed.
func (s *Service) PendingSync(ctx context.Context) ([]*Patient, error) {
	return s.repo.FindBySyncStatus(ctx, store.SyncPending)
}

// FailedSync returns the patients whose last push attempt failed.
func (s *Service) FailedSync(ctx context.Context) ([]*Patient, error) {
	return s.repo.FindBySyncStatus(ctx, store.SyncError)
}

// MarkSynced records a successful push. It does not count as a local
// mutation: the modification timestamp is left alone.
func (s *Service) MarkSynced(ctx context.Context, id int64) error {
	p, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFoundf("patient %d not found", id)
	}
	p.SyncStatus = store.SyncSynced
	p.SyncAttempts = 0
	_, err = s.repo.Update(ctx, id, p)
	return err
}

// MarkSyncError records a failed push and bumps the attempt counter used for
// retry backoff.
func (s *Service) MarkSyncError(ctx context.Context, id int64) error {
	p, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFoundf("patient %d not found", id)
	}
	p.SyncStatus = store.SyncError
	p.SyncAttempts++
	_, err = s.repo.Update(ctx, id, p)
	return err
}
