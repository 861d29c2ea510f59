package inventory

import "context"

type Repository interface {
	Create(ctx context.Context, m *Medication) (int64, error)
	Get(ctx context.Context, id int64) (*Medication, bool, error)
	Update(ctx context.Context, id int64, m *Medication) (bool, error)
	Delete(ctx context.Context, id int64) error
	All(ctx context.Context) ([]*Medication, error)
	FindByStatus(ctx context.Context, status StockStatus) ([]*Medication, error)
}
