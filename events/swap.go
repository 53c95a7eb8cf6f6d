package events

import "math/big"

const (
	// TypeAssetRegistered is emitted when the administrator registers or
	// overwrites an asset record.
	TypeAssetRegistered = "assets.registered"
	// TypeAssetPriceUpdated is emitted when an asset's reference price changes.
	TypeAssetPriceUpdated = "assets.price_updated"
	// TypeOrderCreated is emitted when a new pending swap order is recorded.
	TypeOrderCreated = "swap.order_created"
	// TypeOrderExecuted is emitted when an order completes successfully.
	TypeOrderExecuted = "swap.order_executed"
	// TypeOrderRejected is emitted when execution is rejected economically
	// (missing pool, slippage, stale status); the order stays pending.
	TypeOrderRejected = "swap.order_rejected"
)

// AssetRegistered reports a new or overwritten asset record.
type AssetRegistered struct {
	Code   string
	Issuer string
}

// EventType satisfies the events.Event interface.
func (AssetRegistered) EventType() string { return TypeAssetRegistered }

// AssetPriceUpdated reports a reference price change.
type AssetPriceUpdated struct {
	Code  string
	Price *big.Int
}

// EventType satisfies the events.Event interface.
func (AssetPriceUpdated) EventType() string { return TypeAssetPriceUpdated }

// OrderCreated reports a freshly recorded pending order.
type OrderCreated struct {
	ID    uint64
	Owner string
	From  string
	To    string
}

// EventType satisfies the events.Event interface.
func (OrderCreated) EventType() string { return TypeOrderCreated }

// OrderExecuted reports a completed swap with the realised output amount.
type OrderExecuted struct {
	ID        uint64
	Owner     string
	From      string
	To        string
	AmountIn  *big.Int
	AmountOut *big.Int
}

// EventType satisfies the events.Event interface.
func (OrderExecuted) EventType() string { return TypeOrderExecuted }

// OrderRejected reports a non-fatal execution rejection.
type OrderRejected struct {
	ID     uint64
	Reason string
}

// EventType satisfies the events.Event interface.
func (OrderRejected) EventType() string { return TypeOrderRejected }
