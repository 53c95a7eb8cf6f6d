package swap

import (
	"fmt"
	"math/big"
	"strings"

	"swapledger/native/common"
)

// PairSeparator joins the two codes of a canonical pool key. It is not a valid
// asset-code character, so distinct pairs can never collide.
const PairSeparator = "/"

type storedPool struct {
	AssetA   string
	AssetB   string
	ReserveA string
	ReserveB string
	FeeBps   uint32
}

// Pools persists one SwapPool per unordered asset pair. Pool creation is
// restricted to the configured administrator; reserves are mutated only by
// swap execution.
type Pools struct {
	store Storage
	admin string
}

// NewPools constructs a pool store bound to the provided storage backend.
func NewPools(store Storage, admin string) *Pools {
	return &Pools{store: store, admin: strings.TrimSpace(admin)}
}

// CanonicalKey returns the order-independent pool key for the supplied pair:
// the lexicographically smaller code, the separator, then the larger code.
func CanonicalKey(a, b string) (string, error) {
	codeA, err := common.NormalizeAssetCode(a)
	if err != nil {
		return "", ErrInvalidPair
	}
	codeB, err := common.NormalizeAssetCode(b)
	if err != nil {
		return "", ErrInvalidPair
	}
	if codeA == codeB {
		return "", ErrInvalidPair
	}
	if codeA > codeB {
		codeA, codeB = codeB, codeA
	}
	return codeA + PairSeparator + codeB, nil
}

// CreateOrReplace stores a fresh pool for the unordered pair, wholesale. The
// AssetA/AssetB fields are set in canonical order regardless of argument
// order; callers must supply reserves already aligned with that order.
func (p *Pools) CreateOrReplace(caller, a, b string, reserveA, reserveB *big.Int, feeBps uint32) error {
	if p == nil {
		return fmt.Errorf("swap: pool store not initialised")
	}
	if p.admin == "" || strings.TrimSpace(caller) != p.admin {
		return common.ErrUnauthorized
	}
	canonical, err := CanonicalKey(a, b)
	if err != nil {
		return err
	}
	if reserveA == nil || reserveA.Sign() <= 0 || reserveB == nil || reserveB.Sign() <= 0 {
		return ErrInvalidReserve
	}
	if feeBps >= FeeDenominator {
		return ErrInvalidFee
	}
	assetA, assetB, ok := strings.Cut(canonical, PairSeparator)
	if !ok {
		return ErrInvalidPair
	}
	stored := storedPool{
		AssetA:   assetA,
		AssetB:   assetB,
		ReserveA: reserveA.String(),
		ReserveB: reserveB.String(),
		FeeBps:   feeBps,
	}
	return p.store.KVPut(poolKey(canonical), stored)
}

// Get retrieves the pool for the unordered pair. The boolean return reports
// whether a pool exists; a missing pool is not an error.
func (p *Pools) Get(a, b string) (*SwapPool, bool, error) {
	if p == nil {
		return nil, false, fmt.Errorf("swap: pool store not initialised")
	}
	canonical, err := CanonicalKey(a, b)
	if err != nil {
		return nil, false, err
	}
	var stored storedPool
	ok, err := p.store.KVGet(poolKey(canonical), &stored)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	pool, err := fromStoredPool(&stored)
	if err != nil {
		return nil, false, err
	}
	return pool, true, nil
}

// put persists mutated reserves. Only the execution engine calls this.
func (p *Pools) put(pool *SwapPool) error {
	if pool == nil {
		return fmt.Errorf("swap: pool must not be nil")
	}
	canonical, err := CanonicalKey(pool.AssetA, pool.AssetB)
	if err != nil {
		return err
	}
	stored := storedPool{
		AssetA:   pool.AssetA,
		AssetB:   pool.AssetB,
		ReserveA: pool.ReserveA.String(),
		ReserveB: pool.ReserveB.String(),
		FeeBps:   pool.FeeBps,
	}
	return p.store.KVPut(poolKey(canonical), stored)
}

func fromStoredPool(stored *storedPool) (*SwapPool, error) {
	if stored == nil {
		return nil, fmt.Errorf("swap: stored pool nil")
	}
	reserveA, err := parseAmount(stored.ReserveA)
	if err != nil {
		return nil, fmt.Errorf("swap: reserve A: %w", err)
	}
	reserveB, err := parseAmount(stored.ReserveB)
	if err != nil {
		return nil, fmt.Errorf("swap: reserve B: %w", err)
	}
	return &SwapPool{
		AssetA:   strings.TrimSpace(stored.AssetA),
		AssetB:   strings.TrimSpace(stored.AssetB),
		ReserveA: reserveA,
		ReserveB: reserveB,
		FeeBps:   stored.FeeBps,
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
