package ledger

import (
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"

	"swapledger/config"
	"swapledger/events"
	"swapledger/native/assets"
	"swapledger/native/common"
	"swapledger/native/guard"
	"swapledger/native/swap"
	"swapledger/observability"
	"swapledger/observability/logging"
	"swapledger/state"
	"swapledger/storage"
)

var (
	// ErrAlreadyInitialized indicates Initialize was called on a ledger that
	// already has an administrator configured.
	ErrAlreadyInitialized = errors.New("ledger: already initialized")
	// ErrNotInitialized indicates a privileged operation ran before bootstrap.
	ErrNotInitialized = errors.New("ledger: not initialized")
	// ErrSpendBlocked indicates the account guard rejected a spend (frozen
	// account or spending limit breach).
	ErrSpendBlocked = errors.New("ledger: spend blocked by account guard")
)

var adminKey = []byte("ledger/admin")

// Ledger wires the asset registry, portfolio store, pool store, order ledger,
// execution engine, and account guard behind one caller-facing surface. Every
// operation, reads included, is serialized under one mutex: a mutating call
// completes fully, or fails with no observable effect, before the next call is
// admitted.
type Ledger struct {
	mu            sync.Mutex
	manager       *state.Manager
	admin         string
	auth          common.Authorizer
	registry      *assets.Registry
	portfolios    *assets.Portfolios
	pools         *swap.Pools
	orders        *swap.Orders
	engine        *swap.Engine
	guard         *guard.Guard
	emitter       events.Emitter
	metrics       *observability.SwapMetrics
	log           *slog.Logger
	defaultFeeBps uint32
}

// New constructs a ledger over the supplied database. If a previous bootstrap
// stored an administrator, it is loaded and privileged operations work
// immediately; otherwise Initialize must be called first.
func New(db storage.Database, auth common.Authorizer) (*Ledger, error) {
	manager := state.NewManager(db)
	l := &Ledger{
		manager: manager,
		auth:    auth,
		emitter: events.NoopEmitter{},
		metrics: observability.Swap(),
		log:     slog.Default(),
	}
	var admin string
	if _, err := manager.KVGet(adminKey, &admin); err != nil {
		return nil, err
	}
	l.wire(admin)
	return l, nil
}

// Open builds a ledger from the supplied configuration: it opens the LevelDB
// store under DataDir and bootstraps the administrator when none is stored
// yet.
func Open(cfg *config.Config, auth common.Authorizer) (*Ledger, storage.Database, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("ledger: config required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}
	l, err := New(db, auth)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	l.SetLogger(logging.Setup("swapledger", cfg.Environment))
	if err := l.SetDefaultFeeBps(cfg.DefaultFeeBps); err != nil {
		db.Close()
		return nil, nil, err
	}
	if l.admin == "" {
		if err := l.Initialize(cfg.AdminAddress); err != nil {
			db.Close()
			return nil, nil, err
		}
	}
	return l, db, nil
}

// SetLogger overrides the structured logger.
func (l *Ledger) SetLogger(logger *slog.Logger) {
	if l == nil || logger == nil {
		return
	}
	l.log = logger
}

// SetEmitter wires an event sink for ledger state changes.
func (l *Ledger) SetEmitter(emitter events.Emitter) {
	if l == nil || emitter == nil {
		return
	}
	l.emitter = emitter
	if l.engine != nil {
		l.engine.SetEmitter(emitter)
	}
}

// Initialize stores the administrator identity. It may be called exactly once
// per backing store; later calls fail regardless of the supplied address.
func (l *Ledger) Initialize(admin string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	normalized, err := common.NormalizeAddress(admin)
	if err != nil {
		return fmt.Errorf("ledger: admin: %w", err)
	}
	if l.admin != "" {
		return ErrAlreadyInitialized
	}
	if err := l.manager.KVPut(adminKey, normalized); err != nil {
		return err
	}
	l.wire(normalized)
	l.log.Info("ledger initialized", "admin", normalized)
	return nil
}

// TransferAdmin hands the administrator role to a new identity. Only the
// current administrator may call it.
func (l *Ledger) TransferAdmin(caller, newAdmin string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.requireBootstrap(); err != nil {
		return err
	}
	if strings.TrimSpace(caller) != l.admin {
		return common.ErrUnauthorized
	}
	normalized, err := common.NormalizeAddress(newAdmin)
	if err != nil {
		return fmt.Errorf("ledger: admin: %w", err)
	}
	if err := l.manager.KVPut(adminKey, normalized); err != nil {
		return err
	}
	l.wire(normalized)
	l.log.Info("admin transferred", "admin", normalized)
	return nil
}

// Admin returns the configured administrator address, empty before bootstrap.
func (l *Ledger) Admin() string {
	if l == nil {
		return ""
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.admin
}

// SetDefaultFeeBps configures the fee rate applied by CreatePoolDefaultFee.
func (l *Ledger) SetDefaultFeeBps(fee uint32) error {
	if fee >= swap.FeeDenominator {
		return swap.ErrInvalidFee
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.defaultFeeBps = fee
	return nil
}

// wire (re)builds the module graph for the supplied admin identity.
func (l *Ledger) wire(admin string) {
	l.admin = strings.TrimSpace(admin)
	l.registry = assets.NewRegistry(l.manager, l.admin)
	l.portfolios = assets.NewPortfolios(l.manager, l.registry, l.auth)
	l.pools = swap.NewPools(l.manager, l.admin)
	l.orders = swap.NewOrders(l.manager)
	l.engine = swap.NewEngine(l.pools, l.orders, l.portfolios, l.registry)
	l.engine.SetEmitter(l.emitter)
	l.guard = guard.NewGuard(l.manager, l.auth)
}

// Guard exposes the account guard collaborator for limit and freeze
// management.
func (l *Ledger) Guard() *guard.Guard {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.guard
}

// Registry exposes read access to the asset registry.
func (l *Ledger) Registry() *assets.Registry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.registry
}

// RegisterAsset registers or overwrites an asset record. Admin only.
func (l *Ledger) RegisterAsset(caller, code, issuer string, initialPrice *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.requireBootstrap(); err != nil {
		return err
	}
	if err := l.registry.Register(caller, code, issuer, initialPrice); err != nil {
		return err
	}
	l.emitter.Emit(events.AssetRegistered{Code: strings.ToUpper(strings.TrimSpace(code)), Issuer: strings.TrimSpace(issuer)})
	return nil
}

// SetPrice replaces an asset's reference price. Admin only.
func (l *Ledger) SetPrice(caller, code string, newPrice *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.requireBootstrap(); err != nil {
		return err
	}
	if err := l.registry.SetPrice(caller, code, newPrice); err != nil {
		return err
	}
	l.emitter.Emit(events.AssetPriceUpdated{Code: strings.ToUpper(strings.TrimSpace(code)), Price: new(big.Int).Set(newPrice)})
	return nil
}

// GetAsset retrieves a registered asset record.
func (l *Ledger) GetAsset(code string) (*assets.Asset, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.registry.Get(code)
}

// GetPortfolio returns the owner's portfolio, or an empty unpersisted one.
func (l *Ledger) GetPortfolio(owner string) (*assets.Portfolio, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.portfolios.Get(owner)
}

// SetBalance replaces the owner's holding for the supplied asset and refreshes
// the cached valuation. Balance decreases are treated as spends and must pass
// the account guard.
func (l *Ledger) SetBalance(owner, code string, newBalance *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	current, err := l.portfolios.Get(owner)
	if err != nil {
		return err
	}
	if newBalance != nil {
		if delta := new(big.Int).Sub(current.BalanceOf(strings.ToUpper(strings.TrimSpace(code))), newBalance); delta.Sign() > 0 {
			value, err := l.baseValue(code, delta)
			if err != nil {
				return err
			}
			ok, err := l.guard.ValidateSpend(owner, value)
			if err != nil {
				return err
			}
			if !ok {
				return ErrSpendBlocked
			}
		}
	}
	return l.portfolios.SetBalance(owner, code, newBalance)
}

// CreateOrder records a new pending swap order and returns its id.
func (l *Ledger) CreateOrder(owner, fromAsset, toAsset string, amount, minReceive *big.Int) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.auth != nil {
		normalized, err := common.NormalizeAddress(owner)
		if err != nil {
			return 0, fmt.Errorf("ledger: owner: %w", err)
		}
		if err := l.auth.RequireAuthorized(normalized); err != nil {
			return 0, err
		}
	}
	id, err := l.orders.Create(owner, fromAsset, toAsset, amount, minReceive)
	if err != nil {
		return 0, err
	}
	l.metrics.ObserveOrderCreated()
	l.emitter.Emit(events.OrderCreated{ID: id, Owner: strings.TrimSpace(owner), From: fromAsset, To: toAsset})
	l.log.Info("order created", "id", id, "owner", strings.TrimSpace(owner))
	return id, nil
}

// ExecuteOrder attempts to fill a pending order. The boolean reports the
// economic outcome; structural problems (unknown id, storage failure) are
// errors. A frozen owner or a spending-limit breach rejects execution without
// mutation, like any other economic rejection.
func (l *Ledger) ExecuteOrder(id uint64) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	order, err := l.orders.Get(id)
	if err != nil {
		return false, err
	}
	spendValue := big.NewInt(0)
	if order.Status == swap.OrderStatusPending {
		// The debit value only prices against the registry when the from
		// asset is registered; execution of unregistered pairs fails later on
		// its own terms.
		if value, err := l.baseValue(order.FromAsset, order.Amount); err == nil {
			spendValue = value
		}
		ok, err := l.guard.ValidateSpend(order.Owner, spendValue)
		if err != nil {
			return false, err
		}
		if !ok {
			l.metrics.ObserveOrderRejected("guard")
			l.emitter.Emit(events.OrderRejected{ID: id, Reason: "guard"})
			return false, nil
		}
	}
	executed, err := l.engine.Execute(id)
	if err != nil {
		return false, err
	}
	if !executed {
		l.metrics.ObserveOrderRejected("engine")
		return false, nil
	}
	if err := l.guard.RecordSpend(order.Owner, spendValue); err != nil {
		return false, err
	}
	l.metrics.ObserveOrderExecuted()
	l.log.Info("order executed", "id", id, "owner", order.Owner)
	return true, nil
}

// GetOrdersByOwner returns every order belonging to the owner, in id order.
func (l *Ledger) GetOrdersByOwner(owner string) ([]*swap.SwapOrder, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.orders.ByOwner(owner)
}

// CreateOrReplacePool stores a fresh pool for the unordered pair. Admin only.
func (l *Ledger) CreateOrReplacePool(caller, a, b string, reserveA, reserveB *big.Int, feeBps uint32) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.requireBootstrap(); err != nil {
		return err
	}
	return l.pools.CreateOrReplace(caller, a, b, reserveA, reserveB, feeBps)
}

// CreatePoolDefaultFee stores a fresh pool charging the configured default fee
// rate. Admin only.
func (l *Ledger) CreatePoolDefaultFee(caller, a, b string, reserveA, reserveB *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.requireBootstrap(); err != nil {
		return err
	}
	return l.pools.CreateOrReplace(caller, a, b, reserveA, reserveB, l.defaultFeeBps)
}

// GetPool retrieves the pool for the unordered pair, if one exists.
func (l *Ledger) GetPool(a, b string) (*swap.SwapPool, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pools.Get(a, b)
}

// QuotePublic returns the output the pool would currently produce for
// amountIn, or zero when no pool exists.
func (l *Ledger) QuotePublic(fromAsset, toAsset string, amountIn *big.Int) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.metrics.ObserveQuote()
	return l.engine.QuotePublic(fromAsset, toAsset, amountIn)
}

func (l *Ledger) requireBootstrap() error {
	if l.admin == "" {
		return ErrNotInitialized
	}
	return nil
}

// baseValue converts an asset amount into base units at the current reference
// price, truncating.
func (l *Ledger) baseValue(code string, amount *big.Int) (*big.Int, error) {
	asset, err := l.registry.Get(code)
	if err != nil {
		return nil, err
	}
	if amount == nil {
		return big.NewInt(0), nil
	}
	value := new(big.Int).Mul(amount, asset.ReferencePrice)
	return value.Quo(value, assets.PriceScale), nil
}
