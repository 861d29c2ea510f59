package inventory

import (
	"context"
	"strconv"

	"github.com/rxdesk/rxdesk/internal/store"
)

var schema = store.Schema{
	Name:    "medications",
	Indexes: []string{"name", "category", "status", "lastModified"},
}

func indexValues(m *Medication) map[string]string {
	return map[string]string{
		"name":         m.Name,
		"category":     m.Category,
		"status":       string(m.Status),
		"lastModified": strconv.FormatInt(m.LastModified, 10),
	}
}

type storeRepo struct {
	table *store.Table[*Medication]
}

// NewStoreRepo binds the medication collection to the record store engine.
func NewStoreRepo(ctx context.Context, engine store.Engine) (Repository, error) {
	table, err := store.NewTable(ctx, engine, schema, indexValues)
	if err != nil {
		return nil, err
	}
	return &storeRepo{table: table}, nil
}

func (r *storeRepo) Create(ctx context.Context, m *Medication) (int64, error) {
	return r.table.Add(ctx, m)
}

func (r *storeRepo) Get(ctx context.Context, id int64) (*Medication, bool, error) {
	return r.table.Get(ctx, id)
}

func (r *storeRepo) Update(ctx context.Context, id int64, m *Medication) (bool, error) {
	return r.table.Update(ctx, id, m)
}

func (r *storeRepo) Delete(ctx context.Context, id int64) error {
	return r.table.Delete(ctx, id)
}

func (r *storeRepo) All(ctx context.Context) ([]*Medication, error) {
	return r.table.All(ctx)
}

func (r *storeRepo) FindByStatus(ctx context.Context, status StockStatus) ([]*Medication, error) {
	return r.table.FindEquals(ctx, "status", string(status))
}
