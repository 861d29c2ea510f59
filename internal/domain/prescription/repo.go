package prescription

import "context"

type Repository interface {
	Create(ctx context.Context, p *Prescription) (int64, error)
	Get(ctx context.Context, id int64) (*Prescription, bool, error)
	Update(ctx context.Context, id int64, p *Prescription) (bool, error)
	Delete(ctx context.Context, id int64) error
	All(ctx context.Context) ([]*Prescription, error)
	FindByStatus(ctx context.Context, status Status) ([]*Prescription, error)
}
