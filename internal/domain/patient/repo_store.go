package patient

import (
	"context"
	"strconv"

	"github.com/rxdesk/rxdesk/internal/store"
)

var schema = store.Schema{
	Name:    "patients",
	Indexes: []string{"name", "phone", "email", "status", "syncStatus", "lastModified"},
}

func indexValues(p *Patient) map[string]string {
	return map[string]string{
		"name":         p.Name,
		"phone":        p.Phone,
		"email":        p.Email,
		"status":       string(p.Status),
		"syncStatus":   string(p.SyncStatus),
		"lastModified": strconv.FormatInt(p.LastModified, 10),
	}
}

type storeRepo struct {
	table *store.Table[*Patient]
}

// NewStoreRepo binds the patient collection to the record store engine.
func NewStoreRepo(ctx context.Context, engine store.Engine) (Repository, error) {
	table, err := store.NewTable(ctx, engine, schema, indexValues)
	if err != nil {
		return nil, err
	}
	return &storeRepo{table: table}, nil
}

func (r *storeRepo) Create(ctx context.Context, p *Patient) (int64, error) {
	return r.table.Add(ctx, p)
}

func (r *storeRepo) Get(ctx context.Context, id int64) (*Patient, bool, error) {
	return r.table.Get(ctx, id)
}

func (r *storeRepo) Update(ctx context.Context, id int64, p *Patient) (bool, error) {
	return r.table.Update(ctx, id, p)
}

func (r *storeRepo) Delete(ctx context.Context, id int64) error {
	return r.table.Delete(ctx, id)
}

func (r *storeRepo) All(ctx context.Context) ([]*Patient, error) {
	return r.table.All(ctx)
}

func (r *storeRepo) FindBySyncStatus(ctx context.Context, status store.SyncStatus) ([]*Patient, error) {
	return r.table.FindEquals(ctx, "syncStatus", string(status))
}
