package patient

import (
	"context"

	"github.com/rxdesk/rxdesk/internal/store"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) (int64, error)
	Get(ctx context.Context, id int64) (*Patient, bool, error)
	Update(ctx context.Context, id int64, p *Patient) (bool, error)
	Delete(ctx context.Context, id int64) error
	All(ctx context.Context) ([]*Patient, error)
	FindBySyncStatus(ctx context.Context, status store.SyncStatus) ([]*Patient, error)
}
