package inventory

// Stock levels are set by the operator when editing the record, not derived
// from quantity.
type StockStatus string

const (
	StockIn  StockStatus = "In Stock"
	StockLow StockStatus = "Low Stock"
	StockOut StockStatus = "Out of Stock"
)

// Medication is an inventory line. Unlike patients and orders, medications
// are not pushed to the remote system and carry no sync bookkeeping.
type Medication struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Quantity     int         `json:"quantity"`
	Category     string      `json:"category"`
	Status       StockStatus `json:"status"`
	Price        float64     `json:"price"`
	Supplier     string      `json:"supplier"`
	ExpiryDate   string      `json:"expiryDate"`
	BatchNumber  string      `json:"batchNumber"`
	LastModified int64       `json:"lastModified"`
}

func (m *Medication) RecordID() int64      { return m.ID }
func (m *Medication) SetRecordID(id int64) { m.ID = id }

// Patch carries the fields of a partial update; nil fields are left
// untouched by the merge.
type Patch struct {
	Name        *string      `json:"name,omitempty"`
	Quantity    *int         `json:"quantity,omitempty"`
	Category    *string      `json:"category,omitempty"`
	Status      *StockStatus `json:"status,omitempty"`
	Price       *float64     `json:"price,omitempty"`
	Supplier    *string      `json:"supplier,omitempty"`
	ExpiryDate  *string      `json:"expiryDate,omitempty"`
	BatchNumber *string      `json:"batchNumber,omitempty"`
}

func (p Patch) apply(rec *Medication) {
	if p.Name != nil {
		rec.Name = *p.Name
	}
	if p.Quantity != nil {
		rec.Quantity = *p.Quantity
	}
	if p.Category != nil {
		rec.Category = *p.Category
	}
	if p.Status != nil {
		rec.Status = *p.Status
	}
	if p.Price != nil {
		rec.Price = *p.Price
	}
	if p.Supplier != nil {
		rec.Supplier = *p.Supplier
	}
	if p.ExpiryDate != nil {
		rec.ExpiryDate = *p.ExpiryDate
	}
	if p.BatchNumber != nil {
		rec.BatchNumber = *p.BatchNumber
	}
}
