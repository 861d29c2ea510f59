package order

import (
	"context"
	"strconv"

	"github.com/rxdesk/rxdesk/internal/store"
)

var schema = store.Schema{
	Name:    "orders",
	Indexes: []string{"patientId", "patientName", "orderDate", "orderStatus", "syncStatus", "lastModified"},
}

func indexValues(o *Order) map[string]string {
	return map[string]string{
		"patientId":    strconv.FormatInt(o.PatientID, 10),
		"patientName":  o.PatientName,
		"orderDate":    o.OrderDate,
		"orderStatus":  string(o.OrderStatus),
		"syncStatus":   string(o.SyncStatus),
		"lastModified": strconv.FormatInt(o.LastModified, 10),
	}
}

type storeRepo struct {
	table *store.Table[*Order]
}

// NewStoreRepo binds the order collection to the record store engine.
func NewStoreRepo(ctx context.Context, engine store.Engine) (Repository, error) {
	table, err := store.NewTable(ctx, engine, schema, indexValues)
	if err != nil {
		return nil, err
	}
	return &storeRepo{table: table}, nil
}

func (r *storeRepo) Create(ctx context.Context, o *Order) (int64, error) {
	return r.table.Add(ctx, o)
}

func (r *storeRepo) Get(ctx context.Context, id int64) (*Order, bool, error) {
	return r.table.Get(ctx, id)
}

func (r *storeRepo) Update(ctx context.Context, id int64, o *Order) (bool, error) {
	return r.table.Update(ctx, id, o)
}

func (r *storeRepo) Delete(ctx context.Context, id int64) error {
	return r.table.Delete(ctx, id)
}

func (r *storeRepo) All(ctx context.Context) ([]*Order, error) {
	return r.table.All(ctx)
}

func (r *storeRepo) FindByPatient(ctx context.Context, patientID int64) ([]*Order, error) {
	return r.table.FindEquals(ctx, "patientId", strconv.FormatInt(patientID, 10))
}

func (r *storeRepo) FindByPatientNamePrefix(ctx context.Context, prefix string) ([]*Order, error) {
	return r.table.FindPrefixFold(ctx, "patientName", prefix)
}

func (r *storeRepo) FindBySyncStatus(ctx context.Context, status store.SyncStatus) ([]*Order, error) {
	return r.table.FindEquals(ctx, "syncStatus", string(status))
}
