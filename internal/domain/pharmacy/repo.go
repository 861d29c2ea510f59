package pharmacy

import "context"

type Repository interface {
	// GetInfo returns the singleton info record, or absent if it has never
	// been written.
	GetInfo(ctx context.Context) (*Info, bool, error)
	PutInfo(ctx context.Context, info *Info) error

	CreateStaff(ctx context.Context, s *StaffMember) (int64, error)
	GetStaff(ctx context.Context, id int64) (*StaffMember, bool, error)
	UpdateStaff(ctx context.Context, id int64, s *StaffMember) (bool, error)
	DeleteStaff(ctx context.Context, id int64) error
	AllStaff(ctx context.Context) ([]*StaffMember, error)
}
