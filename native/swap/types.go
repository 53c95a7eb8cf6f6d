package swap

import "math/big"

// FeeDenominator is the basis-point scale applied to pool fee rates.
const FeeDenominator = 10_000

// SwapPool holds the reserves for one unordered asset pair. AssetA and AssetB
// are always stored in canonical (lexicographic) order; callers supplying
// initial reserves must align them with that order.
type SwapPool struct {
	AssetA   string
	AssetB   string
	ReserveA *big.Int
	ReserveB *big.Int
	FeeBps   uint32
}

// Copy returns a deep copy to avoid callers mutating shared pointers.
func (p *SwapPool) Copy() *SwapPool {
	if p == nil {
		return nil
	}
	clone := *p
	if p.ReserveA != nil {
		clone.ReserveA = new(big.Int).Set(p.ReserveA)
	}
	if p.ReserveB != nil {
		clone.ReserveB = new(big.Int).Set(p.ReserveB)
	}
	return &clone
}

// OrderStatus captures the lifecycle state of a swap order.
type OrderStatus string

const (
	// OrderStatusPending identifies orders that have been created but not executed.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusCompleted marks orders whose swap has been applied.
	OrderStatusCompleted OrderStatus = "completed"
	// OrderStatusCancelled marks orders withdrawn by an external collaborator.
	// The execution engine itself never transitions into this state.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// SwapOrder records a user's intent to swap Amount units of FromAsset for at
// least MinReceive units of ToAsset. Orders are append-only: ids come from a
// strictly increasing counter and records are never deleted.
type SwapOrder struct {
	ID         uint64
	Owner      string
	FromAsset  string
	ToAsset    string
	Amount     *big.Int
	MinReceive *big.Int
	CreatedAt  int64
	Status     OrderStatus
}

// Copy returns a deep copy of the order.
func (o *SwapOrder) Copy() *SwapOrder {
	if o == nil {
		return nil
	}
	clone := *o
	if o.Amount != nil {
		clone.Amount = new(big.Int).Set(o.Amount)
	}
	if o.MinReceive != nil {
		clone.MinReceive = new(big.Int).Set(o.MinReceive)
	}
	return &clone
}
