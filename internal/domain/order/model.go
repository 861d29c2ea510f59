package order

import (
	"github.com/rxdesk/rxdesk/internal/store"
)

type PaymentMethod string

const (
	PaymentMedicalAid PaymentMethod = "medical_aid"
	PaymentCash       PaymentMethod = "cash"
	PaymentCreditCard PaymentMethod = "credit_card"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Item is one line of an order.
type Item struct {
	ID           string  `json:"id"`
	Medication   string  `json:"medication"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
	Dosage       string  `json:"dosage"`
	Instructions string  `json:"instructions"`
}

// Order is a dispensed-medication order. PatientName is denormalized from
// the patient record at creation time so listings avoid a join.
type Order struct {
	ID            int64            `json:"id"`
	PatientID     int64            `json:"patientId"`
	PatientName   string           `json:"patientName"`
	Items         []Item           `json:"items"`
	TotalAmount   float64          `json:"totalAmount"`
	PaymentMethod PaymentMethod    `json:"paymentMethod"`
	PaymentStatus PaymentStatus    `json:"paymentStatus"`
	OrderStatus   Status           `json:"orderStatus"`
	OrderDate     string           `json:"orderDate"`
	DeliveryDate  string           `json:"deliveryDate,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	SyncStatus    store.SyncStatus `json:"syncStatus"`
	SyncAttempts  int              `json:"syncAttempts,omitempty"`
	LastModified  int64            `json:"lastModified"`
}

func (o *Order) RecordID() int64      { return o.ID }
func (o *Order) SetRecordID(id int64) { o.ID = id }

// Patch carries the fields of a partial update; nil fields are left
// untouched by the merge.
type Patch struct {
	PatientID     *int64         `json:"patientId,omitempty"`
	PatientName   *string        `json:"patientName,omitempty"`
	Items         *[]Item        `json:"items,omitempty"`
	TotalAmount   *float64       `json:"totalAmount,omitempty"`
	PaymentMethod *PaymentMethod `json:"paymentMethod,omitempty"`
	PaymentStatus *PaymentStatus `json:"paymentStatus,omitempty"`
	OrderStatus   *Status        `json:"orderStatus,omitempty"`
	OrderDate     *string        `json:"orderDate,omitempty"`
	DeliveryDate  *string        `json:"deliveryDate,omitempty"`
	Notes         *string        `json:"notes,omitempty"`
}

func (p Patch) apply(rec *Order) {
	if p.PatientID != nil {
		rec.PatientID = *p.PatientID
	}
	if p.PatientName != nil {
		rec.PatientName = *p.PatientName
	}
	if p.Items != nil {
		rec.Items = *p.Items
	}
	if p.TotalAmount != nil {
		rec.TotalAmount = *p.TotalAmount
	}
	if p.PaymentMethod != nil {
		rec.PaymentMethod = *p.PaymentMethod
	}
	if p.PaymentStatus != nil {
		rec.PaymentStatus = *p.PaymentStatus
	}
	if p.OrderStatus != nil {
		rec.OrderStatus = *p.OrderStatus
	}
	if p.OrderDate != nil {
		rec.OrderDate = *p.OrderDate
	}
	if p.DeliveryDate != nil {
		rec.DeliveryDate = *p.DeliveryDate
	}
	if p.Notes != nil {
		rec.Notes = *p.Notes
	}
}
