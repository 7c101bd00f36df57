package broker

import "time"

// AccountSummary is a snapshot of broker-side account state.
type AccountSummary struct {
	ID              string
	Balance         float64
	Currency        string
	UnrealizedPL    float64
	RealizedPL      float64
	MarginUsed      float64
	MarginAvailable float64
	OpenTradeCount  int
	OpenPositions   int
	UpdatedAt       time.Time
}

// PriceQuote is a two-sided quote for one instrument.
type PriceQuote struct {
	Instrument string
	Bid        float64
	Ask        float64
	Time       time.Time
	Tradeable  bool // false for synthetic/paper quotes and halted markets
}

// Spread returns ask minus bid.
func (q PriceQuote) Spread() float64 {
	return q.Ask - q.Bid
}

// Mid returns the midpoint price.
func (q PriceQuote) Mid() float64 {
	return (q.Ask + q.Bid) / 2
}

// Stale reports whether the quote is older than maxAge at the given time.
func (q PriceQuote) Stale(maxAge time.Duration, now time.Time) bool {
	if q.Time.IsZero() {
		return true
	}
	return now.Sub(q.Time) > maxAge
}

// Valid reports whether the quote satisfies ask > bid > 0.
func (q PriceQuote) Valid() bool {
	return q.Bid > 0 && q.Ask > q.Bid
}

type OrderType string

const (
	OrderTypeMarket OrderType = "MARKET"
	OrderTypeLimit  OrderType = "LIMIT"
	OrderTypeStop   OrderType = "STOP"
)

type OrderStatus string

// Order lifecycle: PENDING transitions to exactly one terminal state and
// never transitions again.
const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusFilled    OrderStatus = "FILLED"
	OrderStatusRejected  OrderStatus = "REJECTED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusExpired   OrderStatus = "EXPIRED"
)

// Terminal reports whether the status is an end state.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusFilled, OrderStatusRejected, OrderStatusCancelled, OrderStatusExpired:
		return true
	default:
		return false
	}
}

// Order is a broker order. Units are signed: positive = buy, negative = sell.
type Order struct {
	ID         string
	Instrument string
	Units      int
	Type       OrderType
	Status     OrderStatus
	Price      float64
	StopLoss   float64
	TakeProfit float64
	CreateTime time.Time
	FillTime   time.Time // zero unless FILLED
	TradeID    string    // linked trade, if the broker reports one
}

// Position is an open net position on one instrument.
type Position struct {
	Instrument   string
	Units        int
	AveragePrice float64
	UnrealizedPL float64
	TradeIDs     []string
}
