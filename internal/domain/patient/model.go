package patient

import (
	"github.com/rxdesk/rxdesk/internal/store"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type PaymentMethod string

const (
	PaymentMedicalAid PaymentMethod = "medical_aid"
	PaymentCash       PaymentMethod = "cash"
	PaymentCreditCard PaymentMethod = "credit_card"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type Dependent struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	DateOfBirth  string `json:"dateOfBirth"`
}

// MedicalAid is the optional insurance subrecord carried by patients paying
// through a medical aid scheme.
type MedicalAid struct {
	Provider         string      `json:"provider"`
	PolicyNumber     string      `json:"policyNumber"`
	GroupNumber      string      `json:"groupNumber"`
	MembershipNumber string      `json:"membershipNumber"`
	PlanType         string      `json:"planType"`
	ExpiryDate       string      `json:"expiryDate"`
	Dependents       []Dependent `json:"dependents"`
	CoPayPercentage  float64     `json:"coPayPercentage"`
	AnnualLimit      float64     `json:"annualLimit"`
	RemainingBalance float64     `json:"remainingBalance"`
}

// Patient is a pharmacy customer record. Identifiers are assigned by the
// record store; sync fields track propagation to the (simulated) remote
// system.
type Patient struct {
	ID             int64            `json:"id"`
	Name           string           `json:"name"`
	DateOfBirth    string           `json:"dateOfBirth"`
	Gender         Gender           `json:"gender"`
	Phone          string           `json:"phone"`
	Email          string           `json:"email"`
	Address        Address          `json:"address"`
	MedicalHistory string           `json:"medicalHistory"`
	Allergies      []string         `json:"allergies"`
	PaymentMethod  PaymentMethod    `json:"paymentMethod"`
	MedicalAid     *MedicalAid      `json:"medicalAid,omitempty"`
	Status         Status           `json:"status"`
	SyncStatus     store.SyncStatus `json:"syncStatus"`
	SyncAttempts   int              `json:"syncAttempts,omitempty"`
	LastModified   int64            `json:"lastModified"`
}

func (p *Patient) RecordID() int64      { return p.ID }
func (p *Patient) SetRecordID(id int64) { p.ID = id }

// Patch carries the fields of a partial update; nil fields are left
// untouched by the merge.
type Patch struct {
	Name           *string        `json:"name,omitempty"`
	DateOfBirth    *string        `json:"dateOfBirth,omitempty"`
	Gender         *Gender        `json:"gender,omitempty"`
	Phone          *string        `json:"phone,omitempty"`
	Email          *string        `json:"email,omitempty"`
	Address        *Address       `json:"address,omitempty"`
	MedicalHistory *string        `json:"medicalHistory,omitempty"`
	Allergies      *[]string      `json:"allergies,omitempty"`
	PaymentMethod  *PaymentMethod `json:"paymentMethod,omitempty"`
	MedicalAid     *MedicalAid    `json:"medicalAid,omitempty"`
	Status         *Status        `json:"status,omitempty"`
}

func (p Patch) apply(rec *Patient) {
	if p.Name != nil {
		rec.Name = *p.Name
	}
	if p.DateOfBirth != nil {
		rec.DateOfBirth = *p.DateOfBirth
	}
	if p.Gender != nil {
		rec.Gender = *p.Gender
	}
	if p.Phone != nil {
		rec.Phone = *p.Phone
	}
	if p.Email != nil {
		rec.Email = *p.Email
	}
	if p.Address != nil {
		rec.Address = *p.Address
	}
	if p.MedicalHistory != nil {
		rec.MedicalHistory = *p.MedicalHistory
	}
	if p.Allergies != nil {
		rec.Allergies = *p.Allergies
	}
	if p.PaymentMethod != nil {
		rec.PaymentMethod = *p.PaymentMethod
	}
	if p.MedicalAid != nil {
		rec.MedicalAid = p.MedicalAid
	}
	if p.Status != nil {
		rec.Status = *p.Status
	}
}
