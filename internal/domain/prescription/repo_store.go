package prescription

import (
	"context"
	"strconv"

	"github.com/rxdesk/rxdesk/internal/store"
)

var schema = store.Schema{
	Name:    "prescriptions",
	Indexes: []string{"patientName", "doctorName", "medication", "status", "lastModified"},
}

func indexValues(p *Prescription) map[string]string {
	return map[string]string{
		"patientName":  p.PatientName,
		"doctorName":   p.DoctorName,
		"medication":   p.Medication,
		"status":       string(p.Status),
		"lastModified": strconv.FormatInt(p.LastModified, 10),
	}
}

type storeRepo struct {
	table *store.Table[*Prescription]
}

func NewStoreRepo(ctx context.Context, engine store.Engine) (Repository, error) {
	table, err := store.NewTable(ctx, engine, schema, indexValues)
	if err != nil {
		return nil, err
	}
	return &storeRepo{table: table}, nil
}

func (r *storeRepo) Create(ctx context.Context, p *Prescription) (int64, error) {
	return r.table.Add(ctx, p)
}

func (r *storeRepo) Get(ctx context.Context, id int64) (*Prescription, bool, error) {
	return r.table.Get(ctx, id)
}

func (r *storeRepo) Update(ctx context.Context, id int64, p *Prescription) (bool, error) {
	return r.table.Update(ctx, id, p)
}

func (r *storeRepo) Delete(ctx context.Context, id int64) error {
	return r.table.Delete(ctx, id)
}

func (r *storeRepo) All(ctx context.Context) ([]*Prescription, error) {
	return r.table.All(ctx)
}

func (r *storeRepo) FindByStatus(ctx context.Context, status Status) ([]*Prescription, error) {
	return r.table.FindEquals(ctx, "status", string(status))
}
