package swap

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"strings"
	"time"

	"swapledger/native/common"
)

type storedOrder struct {
	ID         uint64
	Owner      string
	FromAsset  string
	ToAsset    string
	Amount     string
	MinReceive string
	CreatedAt  uint64
	Status     string
}

// Orders is the append-only ledger of swap orders. Ids come from a global
// counter persisted alongside the records; ids are never reused and records
// are never deleted.
type Orders struct {
	store Storage
	clock func() time.Time
}

// NewOrders constructs an order ledger bound to the provided storage backend.
func NewOrders(store Storage) *Orders {
	return &Orders{store: store, clock: time.Now}
}

// SetClock overrides the time source (primarily for deterministic testing).
func (o *Orders) SetClock(clock func() time.Time) {
	if o == nil || clock == nil {
		return
	}
	o.clock = clock
}

// Create assigns the next order id and persists a new pending order. Neither
// asset registration nor pool existence is checked here; both are deferred to
// execution time.
func (o *Orders) Create(owner, fromAsset, toAsset string, amount, minReceive *big.Int) (uint64, error) {
	if o == nil {
		return 0, fmt.Errorf("swap: order ledger not initialised")
	}
	normalizedOwner, err := common.NormalizeAddress(owner)
	if err != nil {
		return 0, fmt.Errorf("swap: owner: %w", err)
	}
	from, err := common.NormalizeAssetCode(fromAsset)
	if err != nil {
		return 0, ErrInvalidPair
	}
	to, err := common.NormalizeAssetCode(toAsset)
	if err != nil {
		return 0, ErrInvalidPair
	}
	if amount == nil || amount.Sign() <= 0 {
		return 0, ErrInvalidAmount
	}
	if minReceive == nil {
		minReceive = big.NewInt(0)
	}
	if minReceive.Sign() < 0 {
		return 0, fmt.Errorf("swap: min receive must not be negative")
	}
	counter, err := o.Counter()
	if err != nil {
		return 0, err
	}
	id := counter + 1
	if err := o.store.KVPut(orderCounterKey, id); err != nil {
		return 0, err
	}
	stored := storedOrder{
		ID:         id,
		Owner:      normalizedOwner,
		FromAsset:  from,
		ToAsset:    to,
		Amount:     amount.String(),
		MinReceive: minReceive.String(),
		CreatedAt:  sanitizeUnix(o.clock().UTC().Unix()),
		Status:     string(OrderStatusPending),
	}
	if err := o.store.KVPut(orderKey(id), stored); err != nil {
		return 0, err
	}
	// Secondary owner index, maintained alongside creation so lookups do not
	// have to scan the whole id space.
	encoded := make([]byte, 8)
	binary.BigEndian.PutUint64(encoded, id)
	if err := o.store.KVAppend(ownerOrdersKey(normalizedOwner), encoded); err != nil {
		return 0, err
	}
	return id, nil
}

// Get retrieves the order for the supplied id.
func (o *Orders) Get(id uint64) (*SwapOrder, error) {
	if o == nil {
		return nil, fmt.Errorf("swap: order ledger not initialised")
	}
	var stored storedOrder
	ok, err := o.store.KVGet(orderKey(id), &stored)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrOrderNotFound
	}
	return fromStoredOrder(&stored)
}

// Counter returns the highest order id assigned so far.
func (o *Orders) Counter() (uint64, error) {
	if o == nil {
		return 0, fmt.Errorf("swap: order ledger not initialised")
	}
	var counter uint64
	if _, err := o.store.KVGet(orderCounterKey, &counter); err != nil {
		return 0, err
	}
	return counter, nil
}

// ByOwner scans every assigned order id and returns the orders belonging to
// the supplied owner, in id order. Linear in the total order count; callers
// with large ledgers should prefer IDsByOwner.
func (o *Orders) ByOwner(owner string) ([]*SwapOrder, error) {
	if o == nil {
		return nil, fmt.Errorf("swap: order ledger not initialised")
	}
	normalized, err := common.NormalizeAddress(owner)
	if err != nil {
		return nil, fmt.Errorf("swap: owner: %w", err)
	}
	counter, err := o.Counter()
	if err != nil {
		return nil, err
	}
	orders := make([]*SwapOrder, 0)
	for id := uint64(1); id <= counter; id++ {
		order, err := o.Get(id)
		if err == ErrOrderNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		if order.Owner == normalized {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

// IDsByOwner returns the order ids recorded in the owner index, in creation
// order.
func (o *Orders) IDsByOwner(owner string) ([]uint64, error) {
	if o == nil {
		return nil, fmt.Errorf("swap: order ledger not initialised")
	}
	normalized, err := common.NormalizeAddress(owner)
	if err != nil {
		return nil, fmt.Errorf("swap: owner: %w", err)
	}
	var entries [][]byte
	if err := o.store.KVGetList(ownerOrdersKey(normalized), &entries); err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(entries))
	for _, entry := range entries {
		if len(entry) != 8 {
			return nil, fmt.Errorf("swap: malformed owner index entry")
		}
		ids = append(ids, binary.BigEndian.Uint64(entry))
	}
	return ids, nil
}

// put persists a mutated order record. Only the execution engine calls this.
func (o *Orders) put(order *SwapOrder) error {
	if order == nil {
		return fmt.Errorf("swap: order must not be nil")
	}
	stored := storedOrder{
		ID:         order.ID,
		Owner:      order.Owner,
		FromAsset:  order.FromAsset,
		ToAsset:    order.ToAsset,
		Amount:     order.Amount.String(),
		MinReceive: order.MinReceive.String(),
		CreatedAt:  sanitizeUnix(order.CreatedAt),
		Status:     string(order.Status),
	}
	return o.store.KVPut(orderKey(order.ID), stored)
}

func fromStoredOrder(stored *storedOrder) (*SwapOrder, error) {
	if stored == nil {
		return nil, fmt.Errorf("swap: stored order nil")
	}
	amount, err := parseAmount(stored.Amount)
	if err != nil {
		return nil, fmt.Errorf("swap: amount: %w", err)
	}
	minReceive, err := parseAmount(stored.MinReceive)
	if err != nil {
		return nil, fmt.Errorf("swap: min receive: %w", err)
	}
	return &SwapOrder{
		ID:         stored.ID,
		Owner:      strings.TrimSpace(stored.Owner),
		FromAsset:  strings.TrimSpace(stored.FromAsset),
		ToAsset:    strings.TrimSpace(stored.ToAsset),
		Amount:     amount,
		MinReceive: minReceive,
		CreatedAt:  int64(stored.CreatedAt),
		Status:     OrderStatus(strings.TrimSpace(stored.Status)),
	}, nil
}

func sanitizeUnix(value int64) uint64 {
	if value < 0 {
		return 0
	}
	return uint64(value)
}
