package storage

import (
	"context"
	"testing"
	"time"

	"github.com/driverhub/driverhub/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return store
}

func testDelivery(id, driverID, customer, status string, createdAt time.Time) *models.Delivery {
	return &models.Delivery{
		ID:            id,
		DriverID:      driverID,
		CustomerName:  customer,
		CustomerPhone: "+1-555-0123",
		Address:       "123 Oak St",
		Latitude:      40.7128,
		Longitude:     -74.0060,
		OrderDetails:  "2x Pizza",
		Status:        status,
		CreatedAt:     createdAt,
	}
}

func TestDeliveryRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created := testDelivery("del_01", "d1", "Sarah", "pending", time.Now().UTC().Truncate(time.Second))
	if err := store.CreateDelivery(ctx, created); err != nil {
		t.Fatalf("CreateDelivery: %v", err)
	}

	got, err := store.ListDeliveriesByDriver(ctx, "d1", 0)
	if err != nil {
		t.Fatalf("ListDeliveriesByDriver: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(got))
	}
	d := got[0]
	if d.ID != created.ID || d.DriverID != created.DriverID || d.CustomerName != created.CustomerName ||
		d.CustomerPhone != created.CustomerPhone || d.Address != created.Address ||
		d.Latitude != created.Latitude || d.Longitude != created.Longitude ||
		d.OrderDetails != created.OrderDetails || d.Status != created.Status {
		t.Errorf("round-trip mismatch: got %+v, want %+v", d, created)
	}
	if !d.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("created_at mismatch: got %v, want %v", d.CreatedAt, created.CreatedAt)
	}
}

func TestListDeliveriesOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"del_a", "del_b", "del_c"} {
		d := testDelivery(id, "d1", "Sarah", "pending", base.Add(time.Duration(i)*time.Minute))
		if err := store.CreateDelivery(ctx, d); err != nil {
			t.Fatalf("CreateDelivery %s: %v", id, err)
		}
	}

	got, err := store.ListDeliveriesByDriver(ctx, "d1", 0)
	if err != nil {
		t.Fatalf("ListDeliveriesByDriver: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 deliveries, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].CreatedAt.After(got[i-1].CreatedAt) {
			t.Errorf("deliveries not in descending created_at order: %v before %v", got[i-1].CreatedAt, got[i].CreatedAt)
		}
	}
	if got[0].ID != "del_c" {
		t.Errorf("expected most recent delivery first, got %s", got[0].ID)
	}
}

func TestListDeliveriesOtherDriverExcluded(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	store.CreateDelivery(ctx, testDelivery("del_1", "d1", "Sarah", "pending", now))
	store.CreateDelivery(ctx, testDelivery("del_2", "d2", "Maya", "pending", now))

	got, err := store.ListDeliveriesByDriver(ctx, "d1", 0)
	if err != nil {
		t.Fatalf("ListDeliveriesByDriver: %v", err)
	}
	if len(got) != 1 || got[0].ID != "del_1" {
		t.Errorf("expected only d1 deliveries, got %+v", got)
	}
}

func TestUpdateDeliveryStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	store.CreateDelivery(ctx, testDelivery("del_1", "d1", "Sarah", "pending", now))

	if err := store.UpdateDeliveryStatus(ctx, "del_1", "delivered"); err != nil {
		t.Fatalf("UpdateDeliveryStatus: %v", err)
	}

	got, _ := store.ListDeliveriesByDriver(ctx, "d1", 0)
	if got[0].Status != "delivered" {
		t.Errorf("expected status delivered, got %s", got[0].Status)
	}
	if got[0].Address != "123 Oak St" {
		t.Errorf("status update touched other fields: %+v", got[0])
	}
}

func TestUpdateDeliveryStatusMissingID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	store.CreateDelivery(ctx, testDelivery("del_1", "d1", "Sarah", "pending", now))

	// Unknown ID is a silent no-op, not an error.
	if err := store.UpdateDeliveryStatus(ctx, "del_nope", "delivered"); err != nil {
		t.Fatalf("UpdateDeliveryStatus on missing id: %v", err)
	}

	got, _ := store.ListDeliveriesByDriver(ctx, "d1", 0)
	if len(got) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(got))
	}
	if got[0].Status != "pending" {
		t.Errorf("no-op update changed a record: %+v", got[0])
	}
}

func TestUpdateDeliveryStatusStoresArbitraryValue(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.CreateDelivery(ctx, testDelivery("del_1", "d1", "Sarah", "pending", time.Now().UTC()))

	if err := store.UpdateDeliveryStatus(ctx, "del_1", "on_hold"); err != nil {
		t.Fatalf("UpdateDeliveryStatus: %v", err)
	}
	got, _ := store.ListDeliveriesByDriver(ctx, "d1", 0)
	if got[0].Status != "on_hold" {
		t.Errorf("expected verbatim status on_hold, got %s", got[0].Status)
	}
}

func TestActiveCustomers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	store.CreateDelivery(ctx, testDelivery("del_1", "d1", "Alice", "pending", base))
	store.CreateDelivery(ctx, testDelivery("del_2", "d1", "Alice", "delivered", base.Add(time.Minute)))
	store.CreateDelivery(ctx, testDelivery("del_3", "d1", "Bob", "in_progress", base.Add(2*time.Minute)))
	store.CreateDelivery(ctx, testDelivery("del_4", "d2", "Carol", "pending", base.Add(3*time.Minute)))

	got, err := store.ActiveCustomers(ctx, "d1")
	if err != nil {
		t.Fatalf("ActiveCustomers: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 active customers, got %d: %+v", len(got), got)
	}

	names := map[string]models.ActiveCustomer{}
	for _, c := range got {
		names[c.CustomerName] = c
	}
	if _, ok := names["Alice"]; !ok {
		t.Error("Alice missing from active customers")
	}
	if _, ok := names["Bob"]; !ok {
		t.Error("Bob missing from active customers")
	}
	if names["Bob"].DeliveryID != "del_3" {
		t.Errorf("Bob representative delivery: got %s, want del_3", names["Bob"].DeliveryID)
	}
}

func TestActiveCustomersRepresentativeIsSmallestID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	d1 := testDelivery("del_1", "d1", "Alice", "pending", base)
	d1.OrderDetails = "1x Salad"
	d2 := testDelivery("del_2", "d1", "Alice", "in_progress", base.Add(time.Minute))
	d2.OrderDetails = "3x Tacos"
	store.CreateDelivery(ctx, d1)
	store.CreateDelivery(ctx, d2)

	got, err := store.ActiveCustomers(ctx, "d1")
	if err != nil {
		t.Fatalf("ActiveCustomers: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 active customer, got %d", len(got))
	}
	if got[0].DeliveryID != "del_1" || got[0].LatestOrder != "1x Salad" {
		t.Errorf("representative should be smallest-ID record, got %+v", got[0])
	}
}

func TestActiveCustomersEmpty(t *testing.T) {
	store := newTestStore(t)

	got, err := store.ActiveCustomers(context.Background(), "d1")
	if err != nil {
		t.Fatalf("ActiveCustomers: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no active customers, got %+v", got)
	}
}

func testMessage(id, driverID, customer, text, sender string, ts time.Time) *models.Message {
	return &models.Message{
		ID:           id,
		DriverID:     driverID,
		CustomerName: customer,
		Text:         text,
		Sender:       sender,
		Timestamp:    ts,
	}
}

func TestMessagesOrderingAscending(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	store.CreateMessage(ctx, testMessage("msg_2", "d1", "Sarah", "Thanks", "customer", base.Add(time.Minute)))
	store.CreateMessage(ctx, testMessage("msg_1", "d1", "Sarah", "On my way", "driver", base))

	got, err := store.ListMessagesByDriver(ctx, "d1", 0)
	if err != nil {
		t.Fatalf("ListMessagesByDriver: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if got[0].ID != "msg_1" || got[1].ID != "msg_2" {
		t.Errorf("messages not in ascending timestamp order: %s, %s", got[0].ID, got[1].ID)
	}
}

func TestConversationFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	store.CreateMessage(ctx, testMessage("msg_1", "d1", "Sarah", "On my way", "driver", base))
	store.CreateMessage(ctx, testMessage("msg_2", "d1", "Maya", "Hello", "driver", base.Add(time.Minute)))
	store.CreateMessage(ctx, testMessage("msg_3", "d2", "Sarah", "Hi", "driver", base.Add(2*time.Minute)))
	store.CreateMessage(ctx, testMessage("msg_4", "d1", "sarah", "lowercase", "driver", base.Add(3*time.Minute)))

	got, err := store.ListConversation(ctx, "d1", "Sarah", 0)
	if err != nil {
		t.Fatalf("ListConversation: %v", err)
	}
	if len(got) != 1 || got[0].ID != "msg_1" {
		t.Errorf("conversation filter wrong, got %+v", got)
	}
}

func TestListMessagesLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	store.CreateMessage(ctx, testMessage("msg_1", "d1", "Sarah", "a", "driver", base))
	store.CreateMessage(ctx, testMessage("msg_2", "d1", "Sarah", "b", "driver", base.Add(time.Minute)))
	store.CreateMessage(ctx, testMessage("msg_3", "d1", "Sarah", "c", "driver", base.Add(2*time.Minute)))

	got, err := store.ListMessagesByDriver(ctx, "d1", 2)
	if err != nil {
		t.Fatalf("ListMessagesByDriver: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected limit of 2 to apply, got %d messages", len(got))
	}
}

func TestGetDriverStats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	store.CreateDelivery(ctx, testDelivery("del_1", "d1", "Alice", "pending", base))
	store.CreateDelivery(ctx, testDelivery("del_2", "d1", "Alice", "in_progress", base.Add(time.Minute)))
	store.CreateDelivery(ctx, testDelivery("del_3", "d1", "Bob", "delivered", base.Add(2*time.Minute)))
	store.CreateMessage(ctx, testMessage("msg_1", "d1", "Alice", "hi", "driver", base))

	stats, err := store.GetDriverStats(ctx, "d1")
	if err != nil {
		t.Fatalf("GetDriverStats: %v", err)
	}
	if stats.TotalDeliveries != 3 {
		t.Errorf("TotalDeliveries: got %d, want 3", stats.TotalDeliveries)
	}
	if stats.PendingCount != 1 || stats.InProgressCount != 1 || stats.DeliveredCount != 1 {
		t.Errorf("status counts wrong: %+v", stats)
	}
	if stats.ActiveCustomers != 1 {
		t.Errorf("ActiveCustomers: got %d, want 1", stats.ActiveCustomers)
	}
	if stats.TotalMessages != 1 {
		t.Errorf("TotalMessages: got %d, want 1", stats.TotalMessages)
	}
}
