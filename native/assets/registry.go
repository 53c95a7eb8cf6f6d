package assets

import (
	"fmt"
	"math/big"
	"strings"

	"swapledger/native/common"
)

type storedAsset struct {
	Code           string
	Issuer         string
	Balance        string
	ReferencePrice string
}

// Registry maintains the set of supported assets and their reference prices.
// All mutating operations are restricted to the configured administrator.
type Registry struct {
	store Storage
	admin string
}

// NewRegistry constructs a registry bound to the provided storage backend.
// The admin address gates Register and SetPrice.
func NewRegistry(store Storage, admin string) *Registry {
	return &Registry{store: store, admin: strings.TrimSpace(admin)}
}

// Register stores the asset record for the supplied code. Re-registering an
// existing code overwrites the record wholesale; assets are never deleted.
func (r *Registry) Register(caller, code, issuer string, initialPrice *big.Int) error {
	if r == nil {
		return fmt.Errorf("assets: registry not initialised")
	}
	if err := r.requireAdmin(caller); err != nil {
		return err
	}
	normalized, err := common.NormalizeAssetCode(code)
	if err != nil {
		return fmt.Errorf("assets: %w", err)
	}
	trimmedIssuer, err := common.NormalizeAddress(issuer)
	if err != nil {
		return fmt.Errorf("assets: issuer: %w", err)
	}
	if initialPrice == nil || initialPrice.Sign() < 0 {
		return ErrInvalidPrice
	}
	stored := storedAsset{
		Code:           normalized,
		Issuer:         trimmedIssuer,
		Balance:        "0",
		ReferencePrice: initialPrice.String(),
	}
	return r.store.KVPut(assetKey(normalized), stored)
}

// SetPrice replaces the stored reference price for the supplied code.
func (r *Registry) SetPrice(caller, code string, newPrice *big.Int) error {
	if r == nil {
		return fmt.Errorf("assets: registry not initialised")
	}
	if err := r.requireAdmin(caller); err != nil {
		return err
	}
	normalized, err := common.NormalizeAssetCode(code)
	if err != nil {
		return fmt.Errorf("assets: %w", err)
	}
	if newPrice == nil || newPrice.Sign() < 0 {
		return ErrInvalidPrice
	}
	key := assetKey(normalized)
	var stored storedAsset
	ok, err := r.store.KVGet(key, &stored)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAssetNotFound
	}
	stored.ReferencePrice = newPrice.String()
	return r.store.KVPut(key, stored)
}

// Get retrieves the asset record for the supplied code.
func (r *Registry) Get(code string) (*Asset, error) {
	if r == nil {
		return nil, fmt.Errorf("assets: registry not initialised")
	}
	normalized, err := common.NormalizeAssetCode(code)
	if err != nil {
		return nil, fmt.Errorf("assets: %w", err)
	}
	var stored storedAsset
	ok, err := r.store.KVGet(assetKey(normalized), &stored)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAssetNotFound
	}
	return fromStoredAsset(&stored)
}

// Exists reports whether the supplied code is registered.
func (r *Registry) Exists(code string) (bool, error) {
	if r == nil {
		return false, fmt.Errorf("assets: registry not initialised")
	}
	normalized, err := common.NormalizeAssetCode(code)
	if err != nil {
		return false, nil
	}
	return r.store.KVHas(assetKey(normalized))
}

func (r *Registry) requireAdmin(caller string) error {
	if r.admin == "" || strings.TrimSpace(caller) != r.admin {
		return common.ErrUnauthorized
	}
	return nil
}

func fromStoredAsset(stored *storedAsset) (*Asset, error) {
	if stored == nil {
		return nil, fmt.Errorf("assets: stored asset nil")
	}
	balance, err := parseAmount(stored.Balance)
	if err != nil {
		return nil, fmt.Errorf("assets: balance: %w", err)
	}
	price, err := parseAmount(stored.ReferencePrice)
	if err != nil {
		return nil, fmt.Errorf("assets: price: %w", err)
	}
	return &Asset{
		Code:           strings.TrimSpace(stored.Code),
		Issuer:         strings.TrimSpace(stored.Issuer),
		Balance:        balance,
		ReferencePrice: price,
	}, nil
}

func parseAmount(value string) (*big.Int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return big.NewInt(0), nil
	}
	amount, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer amount %q", value)
	}
	if amount.Sign() < 0 {
		return nil, fmt.Errorf("amount must not be negative")
	}
	return amount, nil
}
