// Package dashboard aggregates headline numbers for the console's landing
// page.
package dashboard

import (
	"context"

	"github.com/rxdesk/rxdesk/internal/domain/inventory"
	"github.com/rxdesk/rxdesk/internal/domain/order"
	"github.com/rxdesk/rxdesk/internal/domain/patient"
	"github.com/rxdesk/rxdesk/internal/domain/prescription"
)

type Stats struct {
	TotalPatients       int                  `json:"totalPatients"`
	ActivePatients      int                  `json:"activePatients"`
	TotalOrders         int                  `json:"totalOrders"`
	OrdersByStatus      map[order.Status]int `json:"ordersByStatus"`
	Revenue             float64              `json:"revenue"`
	TotalMedications    int                  `json:"totalMedications"`
	LowStock            int                  `json:"lowStock"`
	OutOfStock          int                  `json:"outOfStock"`
	ActivePrescriptions int                  `json:"activePrescriptions"`
	PendingSync         int                  `json:"pendingSync"`
	FailedSync          int                  `json:"failedSync"`
}

type Service struct {
	patients      *patient.Service
	orders        *order.Service
	inventory     *inventory.Service
	prescriptions *prescription.Service
}

func NewService(patients *patient.Service, orders *order.Service, inv *inventory.Service, rx *prescription.Service) *Service {
	return &Service{patients: patients, orders: orders, inventory: inv, prescriptions: rx}
}

// Stats walks every collection once. The store is process-local, so the
// full scans are cheap.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{OrdersByStatus: make(map[order.Status]int)}

	patients, err := s.patients.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalPatients = len(patients)
	for _, p := range patients {
		if p.Status == patient.StatusActive {
			stats.ActivePatients++
		}
		switch p.SyncStatus {
		case "pending":
			stats.PendingSync++
		case "error":
			stats.FailedSync++
		}
	}

	orders, err := s.orders.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalOrders = len(orders)
	for _, o := range orders {
		stats.OrdersByStatus[o.OrderStatus]++
		if o.PaymentStatus == order.PaymentPaid {
			stats.Revenue += o.TotalAmount
		}
		switch o.SyncStatus {
		case "pending":
			stats.PendingSync++
		case "error":
			stats.FailedSync++
		}
	}

	meds, err := s.inventory.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalMedications = len(meds)
	for _, m := range meds {
		switch m.Status {
		case inventory.StockLow:
			stats.LowStock++
		case inventory.StockOut:
			stats.OutOfStock++
		}
	}

	active, err := s.prescriptions.Active(ctx)
	if err != nil {
		return nil, err
	}
	stats.ActivePrescriptions = len(active)

	return stats, nil
}
