package oanda

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/broker"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(Config{
		APIURL:    srv.URL,
		APIKey:    "test-key",
		AccountID: "001-001-1234567-001",
	})
	require.NoError(t, err)
	c.minInterval = 0 // no throttling in tests
	return c, srv
}

func TestNewClientValidation(t *testing.T) {
	var cfgErr *broker.ConfigurationError

	_, err := NewClient(Config{APIKey: "k", AccountID: "a"})
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "api_url", cfgErr.Field)

	_, err = NewClient(Config{APIURL: "https://example.com", AccountID: "a"})
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "api_key", cfgErr.Field)

	_, err = NewClient(Config{APIURL: "https://example.com", APIKey: "k"})
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "account_id", cfgErr.Field)
}

func TestAccountInfoParsesStringNumerics(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/accounts/001-001-1234567-001/summary", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Write([]byte(`{"account":{
			"id":"001-001-1234567-001",
			"balance":"10023.4567",
			"currency":"usd",
			"unrealizedPL":"-12.5",
			"pl":"250.75",
			"marginUsed":"400.25",
			"marginAvailable":"9623.2",
			"openTradeCount":3,
			"openPositionCount":2
		}}`))
	})

	summary, err := c.AccountInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "001-001-1234567-001", summary.ID)
	assert.InDelta(t, 10023.4567, summary.Balance, 1e-9)
	assert.Equal(t, "USD", summary.Currency)
	assert.InDelta(t, -12.5, summary.UnrealizedPL, 1e-9)
	assert.InDelta(t, 400.25, summary.MarginUsed, 1e-9)
	assert.Equal(t, 3, summary.OpenTradeCount)
	assert.Equal(t, 2, summary.OpenPositions)
}

func TestPricesServesCacheUntilStale(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"prices":[{
			"instrument":"EUR_USD",
			"time":"2026-05-01T12:00:00.000000000Z",
			"tradeable":true,
			"bids":[{"price":"1.09990"}],
			"asks":[{"price":"1.10010"}]
		}]}`))
	})
	fixed := time.Date(2026, 5, 1, 12, 0, 1, 0, time.UTC)
	c.nowFn = func() time.Time { return fixed }

	first, err := c.Prices(context.Background(), []string{"eur/usd"}, false)
	require.NoError(t, err)
	require.Contains(t, first, "EUR_USD")
	assert.InDelta(t, 1.0999, first["EUR_USD"].Bid, 1e-9)
	assert.True(t, first["EUR_USD"].Tradeable)
	assert.Equal(t, 1, calls)

	// Within the freshness window the cache answers.
	_, err = c.Prices(context.Background(), []string{"EUR_USD"}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	// forceRefresh always goes to the network.
	_, err = c.Prices(context.Background(), []string{"EUR_USD"}, true)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	// Past the freshness window the cache is bypassed.
	c.nowFn = func() time.Time { return fixed.Add(10 * time.Second) }
	_, err = c.Prices(context.Background(), []string{"EUR_USD"}, false)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestPlaceMarketOrderDecodesFill(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/accounts/001-001-1234567-001/orders", r.URL.Path)
		body := gjson.ParseBytes(mustRead(t, r))
		assert.Equal(t, "MARKET", body.Get("order.type").String())
		assert.Equal(t, "EUR_USD", body.Get("order.instrument").String())
		assert.Equal(t, "1000", body.Get("order.units").String())
		assert.Equal(t, "FOK", body.Get("order.timeInForce").String())
		assert.Equal(t, "1.09500", body.Get("order.stopLossOnFill.price").String())
		assert.Equal(t, "momentum", body.Get("order.clientExtensions.tag").String())

		w.Write([]byte(`{
			"orderCreateTransaction":{"id":"42","time":"2026-05-01T12:00:00.123456789Z"},
			"orderFillTransaction":{
				"orderID":"42",
				"time":"2026-05-01T12:00:00.234567891Z",
				"price":"1.10005",
				"tradeOpened":{"tradeID":"43"}
			}
		}`))
	})

	order, err := c.PlaceMarketOrder(context.Background(), broker.OrderRequest{
		Instrument: "EUR_USD",
		Units:      1000,
		StopLoss:   1.0950,
		TakeProfit: 1.1100,
		ClientTag:  "momentum",
	})
	require.NoError(t, err)
	assert.Equal(t, "42", order.ID)
	assert.Equal(t, broker.OrderStatusFilled, order.Status)
	assert.Equal(t, "43", order.TradeID)
	assert.InDelta(t, 1.10005, order.Price, 1e-9)
	assert.Equal(t, 234567000, order.FillTime.Nanosecond())
}

func TestPlaceMarketOrderDecodesCancelAndReject(t *testing.T) {
	responses := []string{
		`{"orderCancelTransaction":{"orderID":"50","reason":"TIME_IN_FORCE_EXPIRED"}}`,
		`{"orderCancelTransaction":{"orderID":"51","reason":"INSUFFICIENT_LIQUIDITY"}}`,
		`{"orderRejectTransaction":{"id":"52","rejectReason":"UNITS_INVALID"}}`,
	}
	idx := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(responses[idx]))
		idx++
	})

	req := broker.OrderRequest{Instrument: "EUR_USD", Units: 1000}

	order, err := c.PlaceMarketOrder(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, broker.OrderStatusExpired, order.Status)
	assert.Equal(t, "50", order.ID)

	order, err = c.PlaceMarketOrder(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, broker.OrderStatusCancelled, order.Status)

	order, err = c.PlaceMarketOrder(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, broker.OrderStatusRejected, order.Status)
	assert.Equal(t, "52", order.ID)
}

func TestPlaceLimitOrderRequiresPrice(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	_, err := c.PlaceLimitOrder(context.Background(), broker.OrderRequest{Instrument: "EUR_USD", Units: 100})
	assert.Error(t, err)
}

func TestHTTPErrorsBecomeNetworkErrors(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errorMessage":"Insufficient authorization"}`, http.StatusUnauthorized)
	})

	_, err := c.AccountInfo(context.Background())
	var netErr *broker.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Contains(t, netErr.Error(), "401")
}

func TestCircuitOpensAfterRepeatedFailures(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	for i := 0; i < breakerThreshold; i++ {
		_, err := c.AccountInfo(context.Background())
		require.Error(t, err)
	}

	_, err := c.AccountInfo(context.Background())
	var netErr *broker.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Contains(t, netErr.Error(), "circuit open")
}

func mustRead(t *testing.T, r *http.Request) []byte {
	t.Helper()
	data, err := io.ReadAll(r.Body)
	if err != nil {
		t.Fatalf("reading request body: %v", err)
	}
	return data
}
