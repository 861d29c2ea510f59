package order

import (
	"context"
	"strings"
	"time"

	"github.com/rxdesk/rxdesk/internal/platform/apperr"
	"github.com/rxdesk/rxdesk/internal/store"
)

var validPaymentMethods = map[PaymentMethod]bool{
	PaymentMedicalAid: true, PaymentCash: true, PaymentCreditCard: true,
}

var validPaymentStatuses = map[PaymentStatus]bool{
	PaymentPending: true, PaymentPaid: true, PaymentFailed: true,
}

var validStatuses = map[Status]bool{
	StatusPending: true, StatusProcessing: true, StatusCompleted: true, StatusCancelled: true,
}

// Service fronts the order collection. Validation here is deliberately
// lighter than the patient gate: presence of the patient reference and a
// well-formed item list, plus enum checks.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// SetClock overrides the timestamp source. Intended for tests.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

func validateNew(o *Order) error {
	if o.PatientID <= 0 {
		return apperr.Validationf("patientId is required")
	}
	if len(o.Items) == 0 {
		return apperr.Validationf("order must contain at least one item")
	}
	for i, it := range o.Items {
		if strings.TrimSpace(it.Medication) == "" {
			return apperr.Validationf("item %d: medication is required", i)
		}
		if it.Quantity <= 0 {
			return apperr.Validationf("item %d: quantity must be positive", i)
		}
	}
	if o.PaymentMethod != "" && !validPaymentMethods[o.PaymentMethod] {
		return apperr.Validationf("invalid payment method: %s", o.PaymentMethod)
	}
	if o.PaymentStatus != "" && !validPaymentStatuses[o.PaymentStatus] {
		return apperr.Validationf("invalid payment status: %s", o.PaymentStatus)
	}
	if o.OrderStatus != "" && !validStatuses[o.OrderStatus] {
		return apperr.Validationf("invalid order status: %s", o.OrderStatus)
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

func (s *Service) Create(ctx context.Context, o *Order) (int64, error) {
	if err := validateNew(o); err != nil {
		return 0, err
	}
	if o.PaymentStatus == "" {
		o.PaymentStatus = PaymentPending
	}
	if o.OrderStatus == "" {
		o.OrderStatus = StatusPending
	}
	if o.OrderDate == "" {
		o.OrderDate = s.now().Format("2006-01-02")
	}
	o.SyncStatus = store.SyncPending
	o.SyncAttempts = 0
	o.LastModified = s.stamp(0)
	return s.repo.Create(ctx, o)
}

func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	o, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFoundf("order %d not found", id)
	}
	return o, nil
}

func (s *Service) GetAll(ctx context.Context) ([]*Order, error) {
	return s.repo.All(ctx)
}

func (s *Service) Update(ctx context.Context, id int64, patch Patch) (*Order, error) {
	existing, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFoundf("order %d not found", id)
	}
	if patch.Items != nil {
		if len(*patch.Items) == 0 {
			return nil, apperr.Validationf("order must contain at least one item")
		}
		for i, it := range *patch.Items {
			if strings.TrimSpace(it.Medication) == "" {
				return nil, apperr.Validationf("item %d: medication is required", i)
			}
			if it.Quantity <= 0 {
				return nil, apperr.Validationf("item %d: quantity must be positive", i)
			}
		}
	}
	if patch.PaymentMethod != nil && *patch.PaymentMethod != "" && !validPaymentMethods[*patch.PaymentMethod] {
		return nil, apperr.Validationf("invalid payment method: %s", *patch.PaymentMethod)
	}
	if patch.PaymentStatus != nil && *patch.PaymentStatus != "" && !validPaymentStatuses[*patch.PaymentStatus] {
		return nil, apperr.Validationf("invalid payment status: %s", *patch.PaymentStatus)
	}
	if patch.OrderStatus != nil && *patch.OrderStatus != "" && !validStatuses[*patch.OrderStatus] {
		return nil, apperr.Validationf("invalid order status: %s", *patch.OrderStatus)
	}

	patch.apply(existing)
	existing.SyncStatus = store.SyncPending
	existing.LastModified = s.stamp(existing.LastModified)

	ok, err = s.repo.Update(ctx, id, existing)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFoundf("order %d not found", id)
	}
	return existing, nil
}

// Delete removes the order. Orders are leaves: nothing references them, so
// there is no guard here.
func (s *Service) Delete(ctx context.Context, id int64) error {
	_, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFoundf("order %d not found", id)
	}
	return s.repo.Delete(ctx, id)
}

// ListByPatient returns every order referencing the given patient.
func (s *Service) ListByPatient(ctx context.Context, patientID int64) ([]*Order, error) {
	return s.repo.FindByPatient(ctx, patientID)
}

// CountByPatient reports how many orders reference a patient. The patient
// service uses it as its delete-time referential guard.
func (s *Service) CountByPatient(ctx context.Context, patientID int64) (int, error) {
	orders, err := s.repo.FindByPatient(ctx, patientID)
	if err != nil {
		return 0, err
	}
	return len(orders), nil
}

// Search matches the query as a case-insensitive prefix of the denormalized
// patient name. A blank query returns every order.
func (s *Service) Search(ctx context.Context, query string) ([]*Order, error) {
	if strings.TrimSpace(query) == "" {
		return s.repo.All(ctx)
	}
	return s.repo.FindByPatientNamePrefix(ctx, query)
}

// PendingSync returns the orders whose local changes have not been pushed.
func (s *Service) PendingSync(ctx context.Context) ([]*Order, error) {
	return s.repo.FindBySyncStatus(ctx, store.SyncPending)
}

// FailedSync returns the orders whose last push attempt failed.
func (s *Service) FailedSync(ctx context.Context) ([]*Order, error) {
	return s.repo.FindBySyncStatus(ctx, store.SyncError)
}

// MarkSynced records a successful push without touching the modification
// timestamp.
func (s *Service) MarkSynced(ctx context.Context, id int64) error {
	o, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFoundf("order %d not found", id)
	}
	o.SyncStatus = store.SyncSynced
	o.SyncAttempts = 0
	_, err = s.repo.Update(ctx, id, o)
	return err
}

// MarkSyncError records a failed push and bumps the attempt counter used for
// retry backoff.
func (s *Service) MarkSyncError(ctx context.Context, id int64) error {
	o, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFoundf("order %d not found", id)
	}
	o.SyncStatus = store.SyncError
	o.SyncAttempts++
	_, err = s.repo.Update(ctx, id, o)
	return err
}
