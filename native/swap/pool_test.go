package swap

import (
	"math/big"
	"testing"

	"swapledger/native/common"
)

func TestCanonicalKeySymmetric(t *testing.T) {
	pairs := [][2]string{
		{"USD", "EUR"},
		{"eur", "usd"},
		{"BTC", "ETH"},
		{"A1", "Z9"},
	}
	for _, pair := range pairs {
		forward, err := CanonicalKey(pair[0], pair[1])
		if err != nil {
			t.Fatalf("canonical key %v: %v", pair, err)
		}
		reverse, err := CanonicalKey(pair[1], pair[0])
		if err != nil {
			t.Fatalf("canonical key reversed %v: %v", pair, err)
		}
		if forward != reverse {
			t.Fatalf("key not symmetric: %q != %q", forward, reverse)
		}
	}
}

func TestCanonicalKeyOrdering(t *testing.T) {
	key, err := CanonicalKey("USD", "EUR")
	if err != nil {
		t.Fatalf("canonical key: %v", err)
	}
	if key != "EUR/USD" {
		t.Fatalf("expected EUR/USD, got %q", key)
	}
}

func TestCanonicalKeyRejectsSamePair(t *testing.T) {
	if _, err := CanonicalKey("USD", "usd"); err != ErrInvalidPair {
		t.Fatalf("expected ErrInvalidPair, got %v", err)
	}
}

func TestCreatePoolRequiresAdmin(t *testing.T) {
	pools := NewPools(newMockStorage(), testAdmin)
	err := pools.CreateOrReplace("mallory", "USD", "EUR", big.NewInt(1), big.NewInt(1), 30)
	if err != common.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCreatePoolValidatesInputs(t *testing.T) {
	pools := NewPools(newMockStorage(), testAdmin)
	if err := pools.CreateOrReplace(testAdmin, "USD", "EUR", big.NewInt(0), big.NewInt(1), 30); err != ErrInvalidReserve {
		t.Fatalf("zero reserve: expected ErrInvalidReserve, got %v", err)
	}
	if err := pools.CreateOrReplace(testAdmin, "USD", "EUR", big.NewInt(1), big.NewInt(1), 10_000); err != ErrInvalidFee {
		t.Fatalf("fee: expected ErrInvalidFee, got %v", err)
	}
}

func TestGetPoolCanonicalFields(t *testing.T) {
	pools := NewPools(newMockStorage(), testAdmin)
	if err := pools.CreateOrReplace(testAdmin, "USD", "EUR", big.NewInt(100), big.NewInt(200), 25); err != nil {
		t.Fatalf("create pool: %v", err)
	}
	pool, ok, err := pools.Get("usd", "eur")
	if err != nil {
		t.Fatalf("get pool: %v", err)
	}
	if !ok {
		t.Fatal("expected pool to exist")
	}
	if pool.AssetA != "EUR" || pool.AssetB != "USD" {
		t.Fatalf("fields not canonical: %s/%s", pool.AssetA, pool.AssetB)
	}
	if pool.ReserveA.Cmp(big.NewInt(100)) != 0 || pool.ReserveB.Cmp(big.NewInt(200)) != 0 {
		t.Fatalf("reserves not stored as supplied: %s/%s", pool.ReserveA, pool.ReserveB)
	}
	if pool.FeeBps != 25 {
		t.Fatalf("fee: got %d, want 25", pool.FeeBps)
	}
}

func TestGetPoolMissing(t *testing.T) {
	pools := NewPools(newMockStorage(), testAdmin)
	_, ok, err := pools.Get("USD", "EUR")
	if err != nil {
		t.Fatalf("get pool: %v", err)
	}
	if ok {
		t.Fatal("expected no pool")
	}
}

func TestCreatePoolReplacesWholesale(t *testing.T) {
	pools := NewPools(newMockStorage(), testAdmin)
	if err := pools.CreateOrReplace(testAdmin, "USD", "EUR", big.NewInt(100), big.NewInt(200), 25); err != nil {
		t.Fatalf("create pool: %v", err)
	}
	if err := pools.CreateOrReplace(testAdmin, "EUR", "USD", big.NewInt(5), big.NewInt(7), 50); err != nil {
		t.Fatalf("replace pool: %v", err)
	}
	pool, ok, err := pools.Get("USD", "EUR")
	if err != nil || !ok {
		t.Fatalf("get pool: ok=%v err=%v", ok, err)
	}
	if pool.ReserveA.Cmp(big.NewInt(5)) != 0 || pool.ReserveB.Cmp(big.NewInt(7)) != 0 || pool.FeeBps != 50 {
		t.Fatalf("pool not replaced: %s/%s fee %d", pool.ReserveA, pool.ReserveB, pool.FeeBps)
	}
}
