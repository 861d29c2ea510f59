package order

import (
	"context"

	"github.com/rxdesk/rxdesk/internal/store"
)

type Repository interface {
	Create(ctx context.Context, o *Order) (int64, error)
	Get(ctx context.Context, id int64) (*Order, bool, error)
	Update(ctx context.Context, id int64, o *Order) (bool, error)
	Delete(ctx context.Context, id int64) error
	All(ctx context.Context) ([]*Order, error)
	FindByPatient(ctx context.Context, patientID int64) ([]*Order, error)
	FindByPatientNamePrefix(ctx context.Context, prefix string) ([]*Order, error)
	FindBySyncStatus(ctx context.Context, status store.SyncStatus) ([]*Order, error)
}
