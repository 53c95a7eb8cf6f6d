package swap

import (
	"fmt"
	"math/big"

	"swapledger/events"
	"swapledger/native/assets"
)

var feeDenominator = big.NewInt(FeeDenominator)

// Quote computes the constant-product output amount for amountIn supplied
// against the given reserves, with the fee taken on the input leg:
//
//	inAfterFee = amountIn * (10000 - feeBps) / 10000
//	amountOut  = reserveOut * inAfterFee / (reserveIn + inAfterFee)
//
// Both divisions truncate toward zero, biasing quotes downward in the taker's
// disfavour. big.Int arithmetic makes the intermediate product exact, so the
// only failure mode is a zero denominator.
func Quote(reserveIn, reserveOut, amountIn *big.Int, feeBps uint32) (*big.Int, error) {
	if reserveIn == nil || reserveOut == nil || amountIn == nil {
		return nil, fmt.Errorf("swap: quote operands must not be nil")
	}
	if amountIn.Sign() < 0 {
		return nil, ErrInvalidAmount
	}
	if feeBps >= FeeDenominator {
		return nil, ErrInvalidFee
	}
	inAfterFee := new(big.Int).Mul(amountIn, big.NewInt(int64(FeeDenominator-feeBps)))
	inAfterFee.Quo(inAfterFee, feeDenominator)
	denominator := new(big.Int).Add(reserveIn, inAfterFee)
	if denominator.Sign() == 0 {
		return nil, ErrDivideByZero
	}
	amountOut := new(big.Int).Mul(reserveOut, inAfterFee)
	amountOut.Quo(amountOut, denominator)
	return amountOut, nil
}

// Engine orchestrates swap execution: it reads pools and orders, applies the
// quote, and commits reserve, balance, and status mutations as one logical
// unit. The engine itself holds no state beyond its collaborators.
type Engine struct {
	pools      *Pools
	orders     *Orders
	portfolios *assets.Portfolios
	registry   *assets.Registry
	emitter    events.Emitter
}

// NewEngine constructs an execution engine over the supplied stores.
func NewEngine(pools *Pools, orders *Orders, portfolios *assets.Portfolios, registry *assets.Registry) *Engine {
	return &Engine{
		pools:      pools,
		orders:     orders,
		portfolios: portfolios,
		registry:   registry,
		emitter:    events.NoopEmitter{},
	}
}

// SetEmitter wires an event sink for executed and rejected orders.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if e == nil || emitter == nil {
		return
	}
	e.emitter = emitter
}

// Execute attempts to fill the order with the supplied id. The boolean result
// distinguishes economic outcomes: true means the swap was applied, false
// means execution was rejected without mutation (stale status, missing pool,
// slippage, or insufficient balance) and the order remains pending. Structural
// problems (unknown id, storage failures) surface as errors.
func (e *Engine) Execute(id uint64) (bool, error) {
	if e == nil {
		return false, fmt.Errorf("swap: engine not initialised")
	}
	order, err := e.orders.Get(id)
	if err != nil {
		return false, err
	}
	if order.Status != OrderStatusPending {
		e.reject(id, "already executed")
		return false, nil
	}
	pool, ok, err := e.pools.Get(order.FromAsset, order.ToAsset)
	if err != nil {
		return false, err
	}
	if !ok {
		e.reject(id, "no pool")
		return false, nil
	}
	// The quote is taken against the reserves in their stored (canonical)
	// order, without resolving which side FromAsset sits on. Kept for
	// compatibility; see DESIGN.md before changing it.
	amountOut, err := Quote(pool.ReserveA, pool.ReserveB, order.Amount, pool.FeeBps)
	if err != nil {
		return false, err
	}
	if amountOut.Cmp(order.MinReceive) < 0 {
		e.reject(id, "slippage")
		return false, nil
	}
	// Everything below this point stages toward state mutation. Resolve both
	// legs against the registry and verify the debit is coverable first, so a
	// failure leaves no partial write behind.
	for _, code := range []string{order.FromAsset, order.ToAsset} {
		registered, err := e.registry.Exists(code)
		if err != nil {
			return false, err
		}
		if !registered {
			return false, fmt.Errorf("swap: asset %s: %w", code, assets.ErrAssetNotFound)
		}
	}
	portfolio, err := e.portfolios.Get(order.Owner)
	if err != nil {
		return false, err
	}
	if portfolio.BalanceOf(order.FromAsset).Cmp(order.Amount) < 0 {
		e.reject(id, "insufficient balance")
		return false, nil
	}
	pool.ReserveA = new(big.Int).Add(pool.ReserveA, order.Amount)
	pool.ReserveB = new(big.Int).Sub(pool.ReserveB, amountOut)
	if err := e.pools.put(pool); err != nil {
		return false, err
	}
	if err := e.portfolios.ApplySwap(order.Owner, order.FromAsset, order.Amount, order.ToAsset, amountOut); err != nil {
		return false, err
	}
	order.Status = OrderStatusCompleted
	if err := e.orders.put(order); err != nil {
		return false, err
	}
	e.emitter.Emit(events.OrderExecuted{
		ID:        order.ID,
		Owner:     order.Owner,
		From:      order.FromAsset,
		To:        order.ToAsset,
		AmountIn:  new(big.Int).Set(order.Amount),
		AmountOut: amountOut,
	})
	return true, nil
}

// QuotePublic is the read-only counterpart of Execute steps 3-4: it returns
// the output amount the pool would currently produce for amountIn, or zero
// when no pool exists for the pair.
func (e *Engine) QuotePublic(fromAsset, toAsset string, amountIn *big.Int) (*big.Int, error) {
	if e == nil {
		return nil, fmt.Errorf("swap: engine not initialised")
	}
	pool, ok, err := e.pools.Get(fromAsset, toAsset)
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	return Quote(pool.ReserveA, pool.ReserveB, amountIn, pool.FeeBps)
}

func (e *Engine) reject(id uint64, reason string) {
	e.emitter.Emit(events.OrderRejected{ID: id, Reason: reason})
}
