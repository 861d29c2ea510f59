package pharmacy

// Info holds the pharmacy's own details. There is exactly one of these per
// installation.
type Info struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	License        string `json:"license"`
	OperatingHours string `json:"operatingHours"`
	LastModified   int64  `json:"lastModified"`
}

func (i *Info) RecordID() int64      { return i.ID }
func (i *Info) SetRecordID(id int64) { i.ID = id }

type StaffStatus string

const (
	StaffActive  StaffStatus = "active"
	StaffOnLeave StaffStatus = "on-leave"
	StaffOffDuty StaffStatus = "off-duty"
)

type StaffMember struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Role         string      `json:"role"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone"`
	Status       StaffStatus `json:"status"`
	LastModified int64       `json:"lastModified"`
}

func (s *StaffMember) RecordID() int64      { return s.ID }
func (s *StaffMember) SetRecordID(id int64) { s.ID = id }

type InfoPatch struct {
	Name           *string `json:"name,omitempty"`
	Address        *string `json:"address,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Email          *string `json:"email,omitempty"`
	License        *string `json:"license,omitempty"`
	OperatingHours *string `json:"operatingHours,omitempty"`
}

func (p InfoPatch) apply(rec *Info) {
	if p.Name != nil {
		rec.Name = *p.Name
	}
	if p.Address != nil {
		rec.Address = *p.Address
	}
	if p.Phone != nil {
		rec.Phone = *p.Phone
	}
	if p.Email != nil {
		rec.Email = *p.Email
	}
	if p.License != nil {
		rec.License = *p.License
	}
	if p.OperatingHours != nil {
		rec.OperatingHours = *p.OperatingHours
	}
}

type StaffPatch struct {
	Name   *string      `json:"name,omitempty"`
	Role   *string      `json:"role,omitempty"`
	Email  *string      `json:"email,omitempty"`
	Phone  *string      `json:"phone,omitempty"`
	Status *StaffStatus `json:"status,omitempty"`
}

func (p StaffPatch) apply(rec *StaffMember) {
	if p.Name != nil {
		rec.Name = *p.Name
	}
	if p.Role != nil {
		rec.Role = *p.Role
	}
	if p.Email != nil {
		rec.Email = *p.Email
	}
	if p.Phone != nil {
		rec.Phone = *p.Phone
	}
	if p.Status != nil {
		rec.Status = *p.Status
	}
}
