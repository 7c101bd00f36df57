// Package paper implements a deterministic, network-free broker used for
// simulated accounts. Market orders fill synchronously; every quote is
// canned and marked non-tradeable so downstream consumers can tell it from
// live data.
package paper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/broker"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/pkg/instrument"
)

const defaultBalance = 100000

// Canned mid prices per instrument. Unknown instruments fall back to 1.0.
var cannedMids = map[string]float64{
	"EUR_USD": 1.1000,
	"GBP_USD": 1.2700,
	"USD_JPY": 148.50,
	"AUD_USD": 0.6600,
	"USD_CAD": 1.3600,
	"USD_CHF": 0.8800,
	"NZD_USD": 0.6100,
	"EUR_GBP": 0.8600,
	"EUR_JPY": 163.40,
	"XAU_USD": 2350.00,
	"XAG_USD": 28.10,
}

type Broker struct {
	mu        sync.Mutex
	balance   float64
	currency  string
	positions map[string]*broker.Position
	nowFn     func() time.Time
}

func New() *Broker {
	return &Broker{
		balance:   defaultBalance,
		currency:  "USD",
		positions: make(map[string]*broker.Position),
		nowFn:     time.Now,
	}
}

func (b *Broker) Name() string { return "paper" }

// SetClock overrides the time source for tests.
func (b *Broker) SetClock(now func() time.Time) {
	b.mu.Lock()
	b.nowFn = now
	b.mu.Unlock()
}

func (b *Broker) AccountInfo(_ context.Context) (broker.AccountSummary, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return broker.AccountSummary{
		ID:              "paper",
		Balance:         b.balance,
		Currency:        b.currency,
		MarginAvailable: b.balance,
		OpenTradeCount:  len(b.positions),
		OpenPositions:   len(b.positions),
		UpdatedAt:       b.nowFn(),
	}, nil
}

func (b *Broker) Prices(_ context.Context, instruments []string, _ bool) (map[string]broker.PriceQuote, error) {
	b.mu.Lock()
	now := b.nowFn()
	b.mu.Unlock()
	out := make(map[string]broker.PriceQuote, len(instruments))
	for _, in := range instruments {
		norm := instrument.Normalize(in)
		if norm == "" {
			continue
		}
		mid, ok := cannedMids[norm]
		if !ok {
			mid = 1.0
		}
		half := mid * 0.00005
		out[norm] = broker.PriceQuote{
			Instrument: norm,
			Bid:        mid - half,
			Ask:        mid + half,
			Time:       now,
			Tradeable:  false,
		}
	}
	return out, nil
}

func (b *Broker) PlaceMarketOrder(ctx context.Context, req broker.OrderRequest) (*broker.Order, error) {
	return b.fill(ctx, broker.OrderTypeMarket, req)
}

func (b *Broker) PlaceLimitOrder(ctx context.Context, req broker.OrderRequest) (*broker.Order, error) {
	return b.fill(ctx, broker.OrderTypeLimit, req)
}

func (b *Broker) PlaceStopOrder(ctx context.Context, req broker.OrderRequest) (*broker.Order, error) {
	return b.fill(ctx, broker.OrderTypeStop, req)
}

// fill synthesizes a FILLED order. No async fill delay is modeled: the
// order is PENDING only inside this call.
func (b *Broker) fill(ctx context.Context, typ broker.OrderType, req broker.OrderRequest) (*broker.Order, error) {
	norm := instrument.Normalize(req.Instrument)
	if norm == "" {
		return nil, &broker.ConfigurationError{Field: "instrument", Reason: "cannot be empty"}
	}
	if req.Units == 0 {
		return nil, fmt.Errorf("order units cannot be zero")
	}
	quotes, _ := b.Prices(ctx, []string{norm}, false)
	q := quotes[norm]
	price := q.Ask
	if req.Units < 0 {
		price = q.Bid
	}
	if typ != broker.OrderTypeMarket && req.Price > 0 {
		price = req.Price
	}

	b.mu.Lock()
	now := b.nowFn()
	order := &broker.Order{
		ID:         uuid.NewString(),
		Instrument: norm,
		Units:      req.Units,
		Type:       typ,
		Status:     broker.OrderStatusFilled,
		Price:      price,
		StopLoss:   instrument.RoundPrice(norm, req.StopLoss),
		TakeProfit: instrument.RoundPrice(norm, req.TakeProfit),
		CreateTime: now,
		FillTime:   now,
		TradeID:    uuid.NewString(),
	}
	pos, ok := b.positions[norm]
	if !ok {
		pos = &broker.Position{Instrument: norm, AveragePrice: price}
		b.positions[norm] = pos
	}
	pos.Units += req.Units
	pos.TradeIDs = append(pos.TradeIDs, order.TradeID)
	if pos.Units == 0 {
		delete(b.positions, norm)
	}
	b.mu.Unlock()
	return order, nil
}

func (b *Broker) OpenPositions(_ context.Context) ([]broker.Position, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]broker.Position, 0, len(b.positions))
	for _, p := range b.positions {
		out = append(out, *p)
	}
	return out, nil
}

func (b *Broker) ClosePosition(_ context.Context, inst string) error {
	norm := instrument.Normalize(inst)
	b.mu.Lock()
	delete(b.positions, norm)
	b.mu.Unlock()
	return nil
}

func (b *Broker) UpdateProtectiveOrders(_ context.Context, _ string, _, _ float64) error {
	return nil
}
