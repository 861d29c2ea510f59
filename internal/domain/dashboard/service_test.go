package dashboard

import (
	"context"
	"testing"

	"github.com/rxdesk/rxdesk/internal/domain/inventory"
	"github.com/rxdesk/rxdesk/internal/domain/order"
	"github.com/rxdesk/rxdesk/internal/domain/patient"
	"github.com/rxdesk/rxdesk/internal/domain/prescription"
	"github.com/rxdesk/rxdesk/internal/store"
)

// Wired against the in-memory engine end to end rather than mocks: the
// dashboard is pure aggregation, so this doubles as a smoke test of the
// store-backed repositories.
func newFixture(t *testing.T) (*Service, *patient.Service, *order.Service, *inventory.Service, *prescription.Service) {
	t.Helper()
	ctx := context.Background()
	engine := store.NewMemory()
	t.Cleanup(func() { engine.Close() })

	patientRepo, err := patient.NewStoreRepo(ctx, engine)
	if err != nil {
		t.Fatalf("patient repo: %v", err)
	}
	orderRepo, err := order.NewStoreRepo(ctx, engine)
	if err != nil {
		t.Fatalf("order repo: %v", err)
	}
	invRepo, err := inventory.NewStoreRepo(ctx, engine)
	if err != nil {
		t.Fatalf("inventory repo: %v", err)
	}
	rxRepo, err := prescription.NewStoreRepo(ctx, engine)
	if err != nil {
		t.Fatalf("prescription repo: %v", err)
	}

	orders := order.NewService(orderRepo)
	patients := patient.NewService(patientRepo, orders)
	inv := inventory.NewService(invRepo)
	rx := prescription.NewService(rxRepo)
	return NewService(patients, orders, inv, rx), patients, orders, inv, rx
}

func TestStats_Empty(t *testing.T) {
	svc, _, _, _, _ := newFixture(t)
	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalPatients != 0 || stats.TotalOrders != 0 || stats.Revenue != 0 {
		t.Errorf("expected zeroed stats, got %+v", stats)
	}
}

func TestStats(t *testing.T) {
	svc, patients, orders, inv, rx := newFixture(t)
	ctx := context.Background()

	pid, err := patients.Create(ctx, &patient.Patient{
		Name:        "Jane Doe",
		DateOfBirth: "1990-01-01",
		Phone:       "+1 555-123-4567",
		Email:       "jane@example.com",
		Address:     patient.Address{Street: "1 Main St", City: "Springfield"},
	})
	if err != nil {
		t.Fatalf("create patient: %v", err)
	}

	paid := order.PaymentPaid
	oid, err := orders.Create(ctx, &order.Order{
		PatientID:   pid,
		PatientName: "Jane Doe",
		Items:       []order.Item{{Medication: "Paracetamol", Quantity: 1, Price: 10}},
		TotalAmount: 10,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if _, err := orders.Update(ctx, oid, order.Patch{PaymentStatus: &paid}); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if _, err := orders.Create(ctx, &order.Order{
		PatientID:   pid,
		PatientName: "Jane Doe",
		Items:       []order.Item{{Medication: "Ibuprofen", Quantity: 2, Price: 5}},
		TotalAmount: 10,
	}); err != nil {
		t.Fatalf("create order: %v", err)
	}

	if _, err := inv.Create(ctx, &inventory.Medication{Name: "Paracetamol", Category: "Analgesics", Status: inventory.StockLow}); err != nil {
		t.Fatalf("create medication: %v", err)
	}
	if _, err := inv.Create(ctx, &inventory.Medication{Name: "Insulin", Category: "Diabetes", Status: inventory.StockOut}); err != nil {
		t.Fatalf("create medication: %v", err)
	}

	if _, err := rx.Create(ctx, &prescription.Prescription{
		PatientName: "Jane Doe",
		DoctorName:  "Dr. Chen",
		Medication:  "Paracetamol",
		Dosage:      "500mg",
		Frequency:   "Twice daily",
		StartDate:   "2024-03-01",
	}); err != nil {
		t.Fatalf("create prescription: %v", err)
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalPatients != 1 || stats.ActivePatients != 1 {
		t.Errorf("unexpected patient counts: %+v", stats)
	}
	if stats.TotalOrders != 2 || stats.OrdersByStatus[order.StatusPending] != 2 {
		t.Errorf("unexpected order counts: %+v", stats)
	}
	if stats.Revenue != 10 {
		t.Errorf("expected revenue from paid orders only, got %f", stats.Revenue)
	}
	if stats.LowStock != 1 || stats.OutOfStock != 1 || stats.TotalMedications != 2 {
		t.Errorf("unexpected inventory counts: %+v", stats)
	}
	if stats.ActivePrescriptions != 1 {
		t.Errorf("expected 1 active prescription, got %d", stats.ActivePrescriptions)
	}
	// 1 patient + 2 orders mutated and never synced.
	if stats.PendingSync != 3 {
		t.Errorf("expected 3 pending records, got %d", stats.PendingSync)
	}
}
