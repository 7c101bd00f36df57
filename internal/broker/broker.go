// Package broker defines a common abstraction over retail FX brokers.
// The execution core talks only to this interface so a simulated (paper)
// backend and the real networked backend stay interchangeable.
package broker

import "context"

type Broker interface {
	Name() string

	AccountInfo(ctx context.Context) (AccountSummary, error)

	// Prices returns the latest quote per instrument. Implementations may
	// serve cached quotes younger than their freshness window unless
	// forceRefresh is set. Staleness checks are the caller's job.
	Prices(ctx context.Context, instruments []string, forceRefresh bool) (map[string]PriceQuote, error)

	PlaceMarketOrder(ctx context.Context, req OrderRequest) (*Order, error)

	PlaceLimitOrder(ctx context.Context, req OrderRequest) (*Order, error)

	PlaceStopOrder(ctx context.Context, req OrderRequest) (*Order, error)

	OpenPositions(ctx context.Context) ([]Position, error)

	ClosePosition(ctx context.Context, instrument string) error

	UpdateProtectiveOrders(ctx context.Context, tradeID string, stopLoss, takeProfit float64) error
}

// OrderRequest carries everything a broker needs to submit an order.
// Units are signed: positive buys, negative sells.
type OrderRequest struct {
	Instrument string
	Units      int
	Price      float64 // limit/stop trigger price, unused for market orders
	StopLoss   float64 // 0 = no stop loss
	TakeProfit float64 // 0 = no take profit
	ClientTag  string
}
