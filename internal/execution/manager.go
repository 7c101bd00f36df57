package execution

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/account"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/broker"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/logger"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/sizing"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/strategy"
)

// Journal persists order outcomes. Implemented by the sqlite store; a nil
// journal disables persistence.
type Journal interface {
	RecordOrder(ctx context.Context, accountID string, order *broker.Order, sized sizing.Result, reason string) error
}

// FillCallback is invoked after a successful placement. Injected; never
// hard-wired to a delivery channel.
type FillCallback func(acc *account.Account, order *broker.Order)

// ActiveOrder is a registry entry consumable by reporting collaborators.
type ActiveOrder struct {
	AccountID string
	Order     broker.Order
}

// OrderManager orchestrates sizing, validation, gating and placement for
// each signal, and owns the per-account daily counters and the
// active-orders registry.
type OrderManager struct {
	sizer   *sizing.Sizer
	gate    *Gate
	journal Journal
	onFill  FillCallback

	mu     sync.RWMutex
	active map[string]ActiveOrder

	nowFn func() time.Time
}

type ManagerParams struct {
	Sizer   *sizing.Sizer
	Gate    *Gate
	Journal Journal
	OnFill  FillCallback
}

func NewOrderManager(p ManagerParams) *OrderManager {
	return &OrderManager{
		sizer:   p.Sizer,
		gate:    p.Gate,
		journal: p.Journal,
		onFill:  p.OnFill,
		active:  make(map[string]ActiveOrder),
		nowFn:   time.Now,
	}
}

// SetClock overrides the time source for tests.
func (m *OrderManager) SetClock(now func() time.Time) {
	m.nowFn = now
}

// HandleSignal runs one signal through the full pipeline. Error semantics
// follow the taxonomy: *ValidationError and *BlockedError drop the signal,
// *broker.NetworkError aborts this signal only, a *sizing.SizingError is
// logged loudly and execution proceeds with the fallback size.
func (m *OrderManager) HandleSignal(ctx context.Context, acc *account.Account, sig strategy.TradingSignal, quote broker.PriceQuote) (*broker.Order, error) {
	if !acc.Tradable() {
		return nil, &ValidationError{Code: "account_unbound", Message: "account has no bound broker"}
	}

	entry := quote.Ask
	if sig.Side == strategy.SideSell {
		entry = quote.Bid
	}

	summary, err := acc.Broker.AccountInfo(ctx)
	if err != nil {
		return nil, err
	}
	positions, err := acc.Broker.OpenPositions(ctx)
	if err != nil {
		return nil, err
	}

	sized, sizeErr := m.sizer.Size(sizing.Input{
		Balance:        summary.Balance,
		RiskCeilingPct: acc.Limits.MaxRiskPerTradePct,
		Entry:          entry,
		Stop:           sig.StopLoss,
		Confidence:     sig.Confidence,
		Instrument:     sig.Instrument,
	})
	if sizeErr != nil {
		var se *sizing.SizingError
		if errors.As(sizeErr, &se) {
			// Upstream signal bug: proceed on the fallback size, but make
			// sure it cannot pass unnoticed.
			logger.Errorf("account %s: %v (signal from %s)", acc.ID, se, sig.Strategy)
		} else {
			return nil, sizeErr
		}
	}

	now := m.nowFn()
	if err := ValidateTrade(acc, summary, sized, len(positions), now); err != nil {
		return nil, err
	}

	// The gate runs immediately before submission: the flags are mutable
	// at runtime and must be honored per order, not per cycle.
	decision := m.gate.Check()
	if !decision.Allowed {
		logger.Infof("account %s: %s %s blocked by gate (%s)", acc.ID, sig.Side, sig.Instrument, decision.Reason)
		return nil, &BlockedError{Decision: decision}
	}

	units := sized.Units
	if sig.Side == strategy.SideSell {
		units = -units
	}
	order, err := acc.Broker.PlaceMarketOrder(ctx, broker.OrderRequest{
		Instrument: sig.Instrument,
		Units:      units,
		StopLoss:   sig.StopLoss,
		TakeProfit: sig.TakeProfit,
		ClientTag:  sig.Strategy,
	})
	if err != nil {
		return nil, err
	}

	m.record(acc, order, sized, string(decision.Reason))
	if m.journal != nil {
		if jerr := m.journal.RecordOrder(ctx, acc.ID, order, sized, string(decision.Reason)); jerr != nil {
			logger.Warnf("order journal write failed for %s: %v", order.ID, jerr)
		}
	}
	if order.Status == broker.OrderStatusFilled && m.onFill != nil {
		m.onFill(acc, order)
	}
	logger.Infof("account %s: %s %s units=%d status=%s risk=%.2f (%.2f%%) order=%s",
		acc.ID, sig.Side, sig.Instrument, units, order.Status, sized.RiskAmount, sized.RiskPct, order.ID)
	return order, nil
}

// record registers the order and bumps the daily counter. Counters are
// mutated only here.
func (m *OrderManager) record(acc *account.Account, order *broker.Order, _ sizing.Result, _ string) {
	acc.IncrementDailyTrades(m.nowFn())
	if order.ID == "" {
		return
	}
	m.mu.Lock()
	m.active[order.ID] = ActiveOrder{AccountID: acc.ID, Order: *order}
	m.mu.Unlock()
}

// ActiveOrders snapshots the registry.
func (m *OrderManager) ActiveOrders() []ActiveOrder {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ActiveOrder, 0, len(m.active))
	for _, ao := range m.active {
		out = append(out, ao)
	}
	return out
}

// Lookup returns a registry entry by order id.
func (m *OrderManager) Lookup(orderID string) (ActiveOrder, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ao, ok := m.active[orderID]
	return ao, ok
}
