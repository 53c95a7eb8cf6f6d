package assets

import "math/big"

// PriceDecimals is the fixed-point scale for reference prices: one unit of an
// asset is priced in base units carrying seven decimal places.
const PriceDecimals = 7

// PriceScale is 10^PriceDecimals, the divisor applied when converting a
// balance/price product into base units.
var PriceScale = big.NewInt(10_000_000)

// Asset describes a registered asset: its issuer and the current reference
// price of one unit, expressed in base units with seven decimal places. The
// registry-level balance is informational only; per-account balances live in
// portfolios.
type Asset struct {
	Code           string
	Issuer         string
	Balance        *big.Int
	ReferencePrice *big.Int
}

// Copy returns a deep copy to avoid callers mutating shared pointers.
func (a *Asset) Copy() *Asset {
	if a == nil {
		return nil
	}
	clone := *a
	if a.Balance != nil {
		clone.Balance = new(big.Int).Set(a.Balance)
	}
	if a.ReferencePrice != nil {
		clone.ReferencePrice = new(big.Int).Set(a.ReferencePrice)
	}
	return &clone
}

// Holding is an asset snapshot held inside a portfolio. Balance is the
// account's held amount; ReferencePrice records the registry price at the time
// of the last mutation.
type Holding struct {
	Code           string
	Issuer         string
	Balance        *big.Int
	ReferencePrice *big.Int
}

// Copy returns a deep copy of the holding.
func (h *Holding) Copy() *Holding {
	if h == nil {
		return nil
	}
	clone := *h
	if h.Balance != nil {
		clone.Balance = new(big.Int).Set(h.Balance)
	}
	if h.ReferencePrice != nil {
		clone.ReferencePrice = new(big.Int).Set(h.ReferencePrice)
	}
	return &clone
}

// Portfolio aggregates one account's holdings. TotalValue is a derived cache:
// it is recomputed from scratch on every mutation as the sum of each holding's
// balance multiplied by the asset's current registry price, divided by
// PriceScale with truncation. It is a projection, never a source of truth.
type Portfolio struct {
	Owner       string
	Holdings    map[string]*Holding
	TotalValue  *big.Int
	LastUpdated int64
}

// Copy returns a deep copy of the portfolio.
func (p *Portfolio) Copy() *Portfolio {
	if p == nil {
		return nil
	}
	clone := &Portfolio{
		Owner:       p.Owner,
		Holdings:    make(map[string]*Holding, len(p.Holdings)),
		LastUpdated: p.LastUpdated,
	}
	if p.TotalValue != nil {
		clone.TotalValue = new(big.Int).Set(p.TotalValue)
	}
	for code, holding := range p.Holdings {
		clone.Holdings[code] = holding.Copy()
	}
	return clone
}

// BalanceOf returns the held balance for the supplied asset code, or zero when
// the portfolio has no such holding.
func (p *Portfolio) BalanceOf(code string) *big.Int {
	if p == nil {
		return big.NewInt(0)
	}
	holding, ok := p.Holdings[code]
	if !ok || holding.Balance == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(holding.Balance)
}
