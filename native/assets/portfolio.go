package assets

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
	"time"

	"swapledger/native/common"
)

type storedHolding struct {
	Code           string
	Issuer         string
	Balance        string
	ReferencePrice string
}

type storedPortfolio struct {
	Owner       string
	Holdings    []storedHolding
	TotalValue  string
	LastUpdated uint64
}

// Portfolios persists per-account holdings and their derived valuation.
type Portfolios struct {
	store    Storage
	registry *Registry
	auth     common.Authorizer
	clock    func() time.Time
}

// NewPortfolios constructs a portfolio store. Balance mutations are priced
// against the supplied registry and gated by the supplied authorizer.
func NewPortfolios(store Storage, registry *Registry, auth common.Authorizer) *Portfolios {
	return &Portfolios{store: store, registry: registry, auth: auth, clock: time.Now}
}

// SetClock overrides the time source (primarily for deterministic testing).
func (p *Portfolios) SetClock(clock func() time.Time) {
	if p == nil || clock == nil {
		return
	}
	p.clock = clock
}

// Get returns the stored portfolio for the owner, or a freshly constructed
// empty one. The empty portfolio is not persisted until its first mutation.
func (p *Portfolios) Get(owner string) (*Portfolio, error) {
	if p == nil {
		return nil, fmt.Errorf("assets: portfolio store not initialised")
	}
	normalized, err := common.NormalizeAddress(owner)
	if err != nil {
		return nil, fmt.Errorf("assets: owner: %w", err)
	}
	var stored storedPortfolio
	ok, err := p.store.KVGet(portfolioKey(normalized), &stored)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Portfolio{
			Owner:      normalized,
			Holdings:   make(map[string]*Holding),
			TotalValue: big.NewInt(0),
		}, nil
	}
	return fromStoredPortfolio(&stored)
}

// SetBalance replaces the owner's held balance for the supplied asset code,
// recomputes the cached total valuation over every holding at current registry
// prices, stamps the update time, and persists the whole record.
func (p *Portfolios) SetBalance(owner, code string, newBalance *big.Int) error {
	if p == nil {
		return fmt.Errorf("assets: portfolio store not initialised")
	}
	normalized, err := common.NormalizeAddress(owner)
	if err != nil {
		return fmt.Errorf("assets: owner: %w", err)
	}
	if p.auth != nil {
		if err := p.auth.RequireAuthorized(normalized); err != nil {
			return err
		}
	}
	if newBalance == nil || newBalance.Sign() < 0 {
		return ErrInvalidBalance
	}
	asset, err := p.registry.Get(code)
	if err != nil {
		return err
	}
	portfolio, err := p.Get(normalized)
	if err != nil {
		return err
	}
	portfolio.Holdings[asset.Code] = &Holding{
		Code:           asset.Code,
		Issuer:         asset.Issuer,
		Balance:        new(big.Int).Set(newBalance),
		ReferencePrice: new(big.Int).Set(asset.ReferencePrice),
	}
	total, err := p.valuation(portfolio)
	if err != nil {
		return err
	}
	portfolio.TotalValue = total
	portfolio.LastUpdated = p.clock().UTC().Unix()
	return p.persist(portfolio)
}

// ApplySwap debits the owner's fromCode holding and credits the toCode
// holding as one record write, recomputing the cached valuation once. The
// caller is trusted: no authorizer check happens here, matching execution
// semantics where anyone may trigger a pending order.
func (p *Portfolios) ApplySwap(owner, fromCode string, debit *big.Int, toCode string, credit *big.Int) error {
	if p == nil {
		return fmt.Errorf("assets: portfolio store not initialised")
	}
	normalized, err := common.NormalizeAddress(owner)
	if err != nil {
		return fmt.Errorf("assets: owner: %w", err)
	}
	if debit == nil || debit.Sign() < 0 || credit == nil || credit.Sign() < 0 {
		return ErrInvalidBalance
	}
	fromAsset, err := p.registry.Get(fromCode)
	if err != nil {
		return err
	}
	toAsset, err := p.registry.Get(toCode)
	if err != nil {
		return err
	}
	portfolio, err := p.Get(normalized)
	if err != nil {
		return err
	}
	newFrom := new(big.Int).Sub(portfolio.BalanceOf(fromAsset.Code), debit)
	if newFrom.Sign() < 0 {
		return ErrInsufficientBalance
	}
	newTo := new(big.Int).Add(portfolio.BalanceOf(toAsset.Code), credit)
	portfolio.Holdings[fromAsset.Code] = &Holding{
		Code:           fromAsset.Code,
		Issuer:         fromAsset.Issuer,
		Balance:        newFrom,
		ReferencePrice: new(big.Int).Set(fromAsset.ReferencePrice),
	}
	portfolio.Holdings[toAsset.Code] = &Holding{
		Code:           toAsset.Code,
		Issuer:         toAsset.Issuer,
		Balance:        newTo,
		ReferencePrice: new(big.Int).Set(toAsset.ReferencePrice),
	}
	total, err := p.valuation(portfolio)
	if err != nil {
		return err
	}
	portfolio.TotalValue = total
	portfolio.LastUpdated = p.clock().UTC().Unix()
	return p.persist(portfolio)
}

// valuation recomputes the portfolio value from scratch at current registry
// prices. Recomputing rather than applying deltas keeps the cache equal to the
// defining sum after every mutation, at the cost of a scan over holdings.
func (p *Portfolios) valuation(portfolio *Portfolio) (*big.Int, error) {
	total := big.NewInt(0)
	product := new(big.Int)
	for code, holding := range portfolio.Holdings {
		if holding == nil || holding.Balance == nil {
			continue
		}
		asset, err := p.registry.Get(code)
		if err != nil {
			return nil, fmt.Errorf("assets: valuation of %s: %w", code, err)
		}
		product.Mul(holding.Balance, asset.ReferencePrice)
		product.Quo(product, PriceScale)
		total.Add(total, product)
	}
	return total, nil
}

func (p *Portfolios) persist(portfolio *Portfolio) error {
	stored := toStoredPortfolio(portfolio)
	return p.store.KVPut(portfolioKey(portfolio.Owner), stored)
}

func toStoredPortfolio(portfolio *Portfolio) *storedPortfolio {
	codes := make([]string, 0, len(portfolio.Holdings))
	for code := range portfolio.Holdings {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	holdings := make([]storedHolding, 0, len(codes))
	for _, code := range codes {
		holding := portfolio.Holdings[code]
		if holding == nil {
			continue
		}
		holdings = append(holdings, storedHolding{
			Code:           holding.Code,
			Issuer:         holding.Issuer,
			Balance:        amountString(holding.Balance),
			ReferencePrice: amountString(holding.ReferencePrice),
		})
	}
	return &storedPortfolio{
		Owner:       portfolio.Owner,
		Holdings:    holdings,
		TotalValue:  amountString(portfolio.TotalValue),
		LastUpdated: sanitizeUnix(portfolio.LastUpdated),
	}
}

func fromStoredPortfolio(stored *storedPortfolio) (*Portfolio, error) {
	if stored == nil {
		return nil, fmt.Errorf("assets: stored portfolio nil")
	}
	total, err := parseAmount(stored.TotalValue)
	if err != nil {
		return nil, fmt.Errorf("assets: total value: %w", err)
	}
	portfolio := &Portfolio{
		Owner:       strings.TrimSpace(stored.Owner),
		Holdings:    make(map[string]*Holding, len(stored.Holdings)),
		TotalValue:  total,
		LastUpdated: int64(stored.LastUpdated),
	}
	for i := range stored.Holdings {
		entry := &stored.Holdings[i]
		balance, err := parseAmount(entry.Balance)
		if err != nil {
			return nil, fmt.Errorf("assets: holding %s balance: %w", entry.Code, err)
		}
		price, err := parseAmount(entry.ReferencePrice)
		if err != nil {
			return nil, fmt.Errorf("assets: holding %s price: %w", entry.Code, err)
		}
		code := strings.TrimSpace(entry.Code)
		portfolio.Holdings[code] = &Holding{
			Code:           code,
			Issuer:         strings.TrimSpace(entry.Issuer),
			Balance:        balance,
			ReferencePrice: price,
		}
	}
	return portfolio, nil
}

func amountString(value *big.Int) string {
	if value == nil {
		return "0"
	}
	return value.String()
}

func sanitizeUnix(value int64) uint64 {
	if value < 0 {
		return 0
	}
	return uint64(value)
}
