package prescription

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Prescription records a doctor's standing instruction to dispense. It is a
// local register only and is not pushed to the remote system.
type Prescription struct {
	ID           int64  `json:"id"`
	PatientName  string `json:"patientName"`
	DoctorName   string `json:"doctorName"`
	Medication   string `json:"medication"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Status       Status `json:"status"`
	LastModified int64  `json:"lastModified"`
}

func (p *Prescription) RecordID() int64      { return p.ID }
func (p *Prescription) SetRecordID(id int64) { p.ID = id }

type Patch struct {
	PatientName *string `json:"patientName,omitempty"`
	DoctorName  *string `json:"doctorName,omitempty"`
	Medication  *string `json:"medication,omitempty"`
	Dosage      *string `json:"dosage,omitempty"`
	Frequency   *string `json:"frequency,omitempty"`
	StartDate   *string `json:"startDate,omitempty"`
	EndDate     *string `json:"endDate,omitempty"`
	Status      *Status `json:"status,omitempty"`
}

func (p Patch) apply(rec *Prescription) {
	if p.PatientName != nil {
		rec.PatientName = *p.PatientName
	}
	if p.DoctorName != nil {
		rec.DoctorName = *p.DoctorName
	}
	if p.Medication != nil {
		rec.Medication = *p.Medication
	}
	if p.Dosage != nil {
		rec.Dosage = *p.Dosage
	}
	if p.Frequency != nil {
		rec.Frequency = *p.Frequency
	}
	if p.StartDate != nil {
		rec.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		rec.EndDate = *p.EndDate
	}
	if p.Status != nil {
		rec.Status = *p.Status
	}
}
