package pharmacy

import (
	"context"
	"strconv"

	"github.com/rxdesk/rxdesk/internal/store"
)

var infoSchema = store.Schema{
	Name: "pharmacy",
}

var staffSchema = store.Schema{
	Name:    "staff",
	Indexes: []string{"name", "role", "status", "lastModified"},
}

func staffIndexValues(s *StaffMember) map[string]string {
	return map[string]string{
		"name":         s.Name,
		"role":         s.Role,
		"status":       string(s.Status),
		"lastModified": strconv.FormatInt(s.LastModified, 10),
	}
}

type storeRepo struct {
	info  *store.Table[*Info]
	staff *store.Table[*StaffMember]
}

// NewStoreRepo binds the pharmacy info and staff collections to the record
// store engine.
func NewStoreRepo(ctx context.Context, engine store.Engine) (Repository, error) {
	info, err := store.NewTable(ctx, engine, infoSchema, func(*Info) map[string]string { return nil })
	if err != nil {
		return nil, err
	}
	staff, err := store.NewTable(ctx, engine, staffSchema, staffIndexValues)
	if err != nil {
		return nil, err
	}
	return &storeRepo{info: info, staff: staff}, nil
}

func (r *storeRepo) GetInfo(ctx context.Context) (*Info, bool, error) {
	rows, err := r.info.All(ctx)
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return rows[0], true, nil
}

func (r *storeRepo) PutInfo(ctx context.Context, info *Info) error {
	existing, ok, err := r.GetInfo(ctx)
	if err != nil {
		return err
	}
	if !ok {
		_, err = r.info.Add(ctx, info)
		return err
	}
	info.ID = existing.ID
	_, err = r.info.Update(ctx, existing.ID, info)
	return err
}

func (r *storeRepo) CreateStaff(ctx context.Context, s *StaffMember) (int64, error) {
	return r.staff.Add(ctx, s)
}

func (r *storeRepo) GetStaff(ctx context.Context, id int64) (*StaffMember, bool, error) {
	return r.staff.Get(ctx, id)
}

func (r *storeRepo) UpdateStaff(ctx context.Context, id int64, s *StaffMember) (bool, error) {
	return r.staff.Update(ctx, id, s)
}

func (r *storeRepo) DeleteStaff(ctx context.Context, id int64) error {
	return r.staff.Delete(ctx, id)
}

func (r *storeRepo) AllStaff(ctx context.Context) ([]*StaffMember, error) {
	return r.staff.All(ctx)
}
