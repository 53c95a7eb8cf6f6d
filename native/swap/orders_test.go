package swap

import (
	"math/big"
	"testing"
	"time"
)

func newTestOrders() *Orders {
	orders := NewOrders(newMockStorage())
	orders.SetClock(func() time.Time { return time.Unix(1700000000, 0) })
	return orders
}

func TestCreateOrderAssignsMonotonicIDs(t *testing.T) {
	orders := newTestOrders()
	for want := uint64(1); want <= 5; want++ {
		id, err := orders.Create(testOwner, "USD", "EUR", big.NewInt(100), big.NewInt(0))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if id != want {
			t.Fatalf("id: got %d, want %d", id, want)
		}
	}
	counter, err := orders.Counter()
	if err != nil {
		t.Fatalf("counter: %v", err)
	}
	if counter != 5 {
		t.Fatalf("counter: got %d, want 5", counter)
	}
}

func TestCreateOrderRejectsNonPositiveAmount(t *testing.T) {
	orders := newTestOrders()
	if _, err := orders.Create(testOwner, "USD", "EUR", big.NewInt(0), big.NewInt(0)); err != ErrInvalidAmount {
		t.Fatalf("zero amount: expected ErrInvalidAmount, got %v", err)
	}
	if _, err := orders.Create(testOwner, "USD", "EUR", big.NewInt(-5), big.NewInt(0)); err != ErrInvalidAmount {
		t.Fatalf("negative amount: expected ErrInvalidAmount, got %v", err)
	}
	if _, err := orders.Create(testOwner, "USD", "EUR", nil, big.NewInt(0)); err != ErrInvalidAmount {
		t.Fatalf("nil amount: expected ErrInvalidAmount, got %v", err)
	}
}

func TestCreateOrderDefersPairValidation(t *testing.T) {
	orders := newTestOrders()
	// Neither registration nor pool existence is checked at creation time.
	id, err := orders.Create(testOwner, "ZZZ", "QQQ", big.NewInt(1), big.NewInt(0))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	order, err := orders.Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if order.Status != OrderStatusPending {
		t.Fatalf("status: got %s, want pending", order.Status)
	}
}

func TestGetOrderNotFound(t *testing.T) {
	orders := newTestOrders()
	if _, err := orders.Get(7); err != ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestByOwnerFiltersScan(t *testing.T) {
	orders := newTestOrders()
	if _, err := orders.Create("alice", "USD", "EUR", big.NewInt(10), big.NewInt(0)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := orders.Create("bob", "USD", "EUR", big.NewInt(20), big.NewInt(0)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := orders.Create("alice", "EUR", "USD", big.NewInt(30), big.NewInt(0)); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := orders.ByOwner("alice")
	if err != nil {
		t.Fatalf("by owner: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(got))
	}
	if got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("ids: got %d,%d want 1,3", got[0].ID, got[1].ID)
	}
}

func TestOwnerIndexMatchesScan(t *testing.T) {
	orders := newTestOrders()
	owners := []string{"alice", "bob", "alice", "carol", "alice"}
	for _, owner := range owners {
		if _, err := orders.Create(owner, "USD", "EUR", big.NewInt(1), big.NewInt(0)); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	scanned, err := orders.ByOwner("alice")
	if err != nil {
		t.Fatalf("by owner: %v", err)
	}
	indexed, err := orders.IDsByOwner("alice")
	if err != nil {
		t.Fatalf("ids by owner: %v", err)
	}
	if len(scanned) != len(indexed) {
		t.Fatalf("index/scan mismatch: %d vs %d", len(indexed), len(scanned))
	}
	for i, order := range scanned {
		if order.ID != indexed[i] {
			t.Fatalf("index entry %d: got %d, want %d", i, indexed[i], order.ID)
		}
	}
}

func TestByOwnerEmpty(t *testing.T) {
	orders := newTestOrders()
	got, err := orders.ByOwner("nobody")
	if err != nil {
		t.Fatalf("by owner: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no orders, got %d", len(got))
	}
}
