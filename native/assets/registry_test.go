package assets

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"

	"swapledger/native/common"
)

type mockStorage struct {
	kv map[string][]byte
}

func newMockStorage() *mockStorage {
	return &mockStorage{kv: make(map[string][]byte)}
}

func (m *mockStorage) KVPut(key []byte, value interface{}) error {
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return err
	}
	m.kv[string(key)] = encoded
	return nil
}

func (m *mockStorage) KVGet(key []byte, out interface{}) (bool, error) {
	encoded, ok := m.kv[string(key)]
	if !ok {
		return false, nil
	}
	if out == nil {
		return true, nil
	}
	if err := rlp.DecodeBytes(encoded, out); err != nil {
		return false, err
	}
	return true, nil
}

func (m *mockStorage) KVHas(key []byte) (bool, error) {
	_, ok := m.kv[string(key)]
	return ok, nil
}

const (
	testAdmin  = "admin1"
	testIssuer = "issuer1"
	testOwner  = "owner1"
)

func TestRegisterAndGet(t *testing.T) {
	registry := NewRegistry(newMockStorage(), testAdmin)
	if err := registry.Register(testAdmin, "usd", testIssuer, big.NewInt(10_000_000)); err != nil {
		t.Fatalf("register: %v", err)
	}
	asset, err := registry.Get("USD")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if asset.Code != "USD" {
		t.Fatalf("code not normalised: %q", asset.Code)
	}
	if asset.Issuer != testIssuer {
		t.Fatalf("issuer: got %q", asset.Issuer)
	}
	if asset.ReferencePrice.Cmp(big.NewInt(10_000_000)) != 0 {
		t.Fatalf("price: got %s", asset.ReferencePrice)
	}
	if asset.Balance.Sign() != 0 {
		t.Fatalf("registry balance should start at zero, got %s", asset.Balance)
	}
}

func TestRegisterRequiresAdmin(t *testing.T) {
	registry := NewRegistry(newMockStorage(), testAdmin)
	if err := registry.Register("mallory", "USD", testIssuer, big.NewInt(1)); err != common.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestRegisterOverwrites(t *testing.T) {
	registry := NewRegistry(newMockStorage(), testAdmin)
	if err := registry.Register(testAdmin, "USD", testIssuer, big.NewInt(1)); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(testAdmin, "USD", "issuer2", big.NewInt(2)); err != nil {
		t.Fatalf("re-register: %v", err)
	}
	asset, err := registry.Get("USD")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if asset.Issuer != "issuer2" || asset.ReferencePrice.Cmp(big.NewInt(2)) != 0 {
		t.Fatalf("record not overwritten: %q %s", asset.Issuer, asset.ReferencePrice)
	}
}

func TestSetPrice(t *testing.T) {
	registry := NewRegistry(newMockStorage(), testAdmin)
	if err := registry.Register(testAdmin, "USD", testIssuer, big.NewInt(1)); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.SetPrice(testAdmin, "USD", big.NewInt(42)); err != nil {
		t.Fatalf("set price: %v", err)
	}
	asset, err := registry.Get("USD")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if asset.ReferencePrice.Cmp(big.NewInt(42)) != 0 {
		t.Fatalf("price: got %s, want 42", asset.ReferencePrice)
	}
}

func TestSetPriceUnknownAsset(t *testing.T) {
	registry := NewRegistry(newMockStorage(), testAdmin)
	if err := registry.SetPrice(testAdmin, "ZZZ", big.NewInt(1)); err != ErrAssetNotFound {
		t.Fatalf("expected ErrAssetNotFound, got %v", err)
	}
}

func TestSetPriceRequiresAdmin(t *testing.T) {
	registry := NewRegistry(newMockStorage(), testAdmin)
	if err := registry.Register(testAdmin, "USD", testIssuer, big.NewInt(1)); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.SetPrice("mallory", "USD", big.NewInt(2)); err != common.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestGetUnknownAsset(t *testing.T) {
	registry := NewRegistry(newMockStorage(), testAdmin)
	if _, err := registry.Get("ZZZ"); err != ErrAssetNotFound {
		t.Fatalf("expected ErrAssetNotFound, got %v", err)
	}
}

func TestRegisterRejectsInvalidCode(t *testing.T) {
	registry := NewRegistry(newMockStorage(), testAdmin)
	for _, code := range []string{"", "US/D", "toolongassetcode", "us d"} {
		if err := registry.Register(testAdmin, code, testIssuer, big.NewInt(1)); err == nil {
			t.Fatalf("expected error for code %q", code)
		}
	}
}
