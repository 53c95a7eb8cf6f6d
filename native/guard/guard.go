package guard

import (
	"fmt"
	"math/big"
	"strings"

	"swapledger/native/common"
)

// Storage abstracts the subset of state manager functionality required by the
// account guard.
type Storage interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
}

var spendingRecordPrefix = []byte("guard/spending/")

// Default limits applied to accounts that never configured their own,
// expressed in base units with seven decimal places.
var (
	DefaultDailyLimit   = big.NewInt(1_000_0000000)
	DefaultMonthlyLimit = big.NewInt(10_000_0000000)
)

// SpendingInfo tracks an account's spending limits, accrued spend, and freeze
// flag.
type SpendingInfo struct {
	DailyLimit   *big.Int
	MonthlyLimit *big.Int
	DailySpent   *big.Int
	MonthlySpent *big.Int
	Frozen       bool
}

// Copy returns a deep copy to avoid callers mutating shared pointers.
func (s *SpendingInfo) Copy() *SpendingInfo {
	if s == nil {
		return nil
	}
	clone := *s
	for _, pair := range []struct {
		dst **big.Int
		src *big.Int
	}{
		{&clone.DailyLimit, s.DailyLimit},
		{&clone.MonthlyLimit, s.MonthlyLimit},
		{&clone.DailySpent, s.DailySpent},
		{&clone.MonthlySpent, s.MonthlySpent},
	} {
		if pair.src != nil {
			*pair.dst = new(big.Int).Set(pair.src)
		}
	}
	return &clone
}

type storedSpendingInfo struct {
	DailyLimit   string
	MonthlyLimit string
	DailySpent   string
	MonthlySpent string
	Frozen       bool
}

// Guard maintains per-account spending limits and freeze flags. The ledger
// consults it before any operation that spends value; the guard itself is
// simple CRUD over one record per account.
type Guard struct {
	store Storage
	auth  common.Authorizer
}

// NewGuard constructs a guard bound to the provided storage backend. Mutating
// operations are gated by the supplied authorizer.
func NewGuard(store Storage, auth common.Authorizer) *Guard {
	return &Guard{store: store, auth: auth}
}

// Initialize writes the default spending record for the owner. Re-initialising
// resets limits, counters, and the freeze flag.
func (g *Guard) Initialize(owner string) error {
	info := defaultSpendingInfo()
	return g.mutate(owner, func(current *SpendingInfo) {
		*current = *info
	})
}

// SetDailyLimit replaces the owner's daily spending limit.
func (g *Guard) SetDailyLimit(owner string, limit *big.Int) error {
	if limit == nil || limit.Sign() < 0 {
		return fmt.Errorf("guard: limit must not be negative")
	}
	return g.mutate(owner, func(info *SpendingInfo) {
		info.DailyLimit = new(big.Int).Set(limit)
	})
}

// SetMonthlyLimit replaces the owner's monthly spending limit.
func (g *Guard) SetMonthlyLimit(owner string, limit *big.Int) error {
	if limit == nil || limit.Sign() < 0 {
		return fmt.Errorf("guard: limit must not be negative")
	}
	return g.mutate(owner, func(info *SpendingInfo) {
		info.MonthlyLimit = new(big.Int).Set(limit)
	})
}

// Freeze marks the account frozen; ValidateSpend rejects all spends until
// Unfreeze.
func (g *Guard) Freeze(owner string) error {
	return g.mutate(owner, func(info *SpendingInfo) {
		info.Frozen = true
	})
}

// Unfreeze clears the freeze flag.
func (g *Guard) Unfreeze(owner string) error {
	return g.mutate(owner, func(info *SpendingInfo) {
		info.Frozen = false
	})
}

// IsFrozen reports whether the account is currently frozen.
func (g *Guard) IsFrozen(owner string) (bool, error) {
	info, err := g.SpendingInfo(owner)
	if err != nil {
		return false, err
	}
	return info.Frozen, nil
}

// ValidateSpend reports whether spending the supplied base-unit amount fits
// within the account's limits. A frozen account never validates. The counters
// are not accrued here; call RecordSpend once the spend commits.
func (g *Guard) ValidateSpend(owner string, amount *big.Int) (bool, error) {
	if amount == nil || amount.Sign() < 0 {
		return false, fmt.Errorf("guard: amount must not be negative")
	}
	info, err := g.SpendingInfo(owner)
	if err != nil {
		return false, err
	}
	if info.Frozen {
		return false, nil
	}
	daily := new(big.Int).Add(info.DailySpent, amount)
	if daily.Cmp(info.DailyLimit) > 0 {
		return false, nil
	}
	monthly := new(big.Int).Add(info.MonthlySpent, amount)
	if monthly.Cmp(info.MonthlyLimit) > 0 {
		return false, nil
	}
	return true, nil
}

// RecordSpend accrues a committed spend against the daily and monthly
// counters. Resetting the counters at period boundaries is an external
// scheduler's concern.
func (g *Guard) RecordSpend(owner string, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("guard: amount must not be negative")
	}
	normalized, err := common.NormalizeAddress(owner)
	if err != nil {
		return fmt.Errorf("guard: owner: %w", err)
	}
	info, err := g.SpendingInfo(normalized)
	if err != nil {
		return err
	}
	info.DailySpent = new(big.Int).Add(info.DailySpent, amount)
	info.MonthlySpent = new(big.Int).Add(info.MonthlySpent, amount)
	return g.persist(normalized, info)
}

// SpendingInfo returns the stored record for the owner, or the defaults when
// none exists.
func (g *Guard) SpendingInfo(owner string) (*SpendingInfo, error) {
	if g == nil {
		return nil, fmt.Errorf("guard: not initialised")
	}
	normalized, err := common.NormalizeAddress(owner)
	if err != nil {
		return nil, fmt.Errorf("guard: owner: %w", err)
	}
	var stored storedSpendingInfo
	ok, err := g.store.KVGet(spendingKey(normalized), &stored)
	if err != nil {
		return nil, err
	}
	if !ok {
		return defaultSpendingInfo(), nil
	}
	return fromStoredSpendingInfo(&stored)
}

func (g *Guard) mutate(owner string, apply func(*SpendingInfo)) error {
	if g == nil {
		return fmt.Errorf("guard: not initialised")
	}
	normalized, err := common.NormalizeAddress(owner)
	if err != nil {
		return fmt.Errorf("guard: owner: %w", err)
	}
	if g.auth != nil {
		if err := g.auth.RequireAuthorized(normalized); err != nil {
			return err
		}
	}
	info, err := g.SpendingInfo(normalized)
	if err != nil {
		return err
	}
	apply(info)
	return g.persist(normalized, info)
}

func (g *Guard) persist(owner string, info *SpendingInfo) error {
	stored := storedSpendingInfo{
		DailyLimit:   info.DailyLimit.String(),
		MonthlyLimit: info.MonthlyLimit.String(),
		DailySpent:   info.DailySpent.String(),
		MonthlySpent: info.MonthlySpent.String(),
		Frozen:       info.Frozen,
	}
	return g.store.KVPut(spendingKey(owner), stored)
}

func spendingKey(owner string) []byte {
	buf := make([]byte, len(spendingRecordPrefix)+len(owner))
	copy(buf, spendingRecordPrefix)
	copy(buf[len(spendingRecordPrefix):], owner)
	return buf
}

func defaultSpendingInfo() *SpendingInfo {
	return &SpendingInfo{
		DailyLimit:   new(big.Int).Set(DefaultDailyLimit),
		MonthlyLimit: new(big.Int).Set(DefaultMonthlyLimit),
		DailySpent:   big.NewInt(0),
		MonthlySpent: big.NewInt(0),
	}
}

func fromStoredSpendingInfo(stored *storedSpendingInfo) (*SpendingInfo, error) {
	if stored == nil {
		return nil, fmt.Errorf("guard: stored record nil")
	}
	info := &SpendingInfo{Frozen: stored.Frozen}
	for _, field := range []struct {
		dst  **big.Int
		src  string
		name string
	}{
		{&info.DailyLimit, stored.DailyLimit, "daily limit"},
		{&info.MonthlyLimit, stored.MonthlyLimit, "monthly limit"},
		{&info.DailySpent, stored.DailySpent, "daily spent"},
		{&info.MonthlySpent, stored.MonthlySpent, "monthly spent"},
	} {
		value, err := parseAmount(field.src)
		if err != nil {
			return nil, fmt.Errorf("guard: %s: %w", field.name, err)
		}
		*field.dst = value
	}
	return info, nil
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
