package oanda

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestOpenPositionsDecodesLongAndShort(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/accounts/001-001-1234567-001/openPositions", r.URL.Path)
		w.Write([]byte(`{"positions":[
			{
				"instrument":"EUR_USD",
				"unrealizedPL":"12.5",
				"long":{"units":"2000","averagePrice":"1.10010","tradeIDs":["11","12"]},
				"short":{"units":"0"}
			},
			{
				"instrument":"USD_JPY",
				"unrealizedPL":"-3.2",
				"long":{"units":"0"},
				"short":{"units":"-1500","averagePrice":"148.250","tradeIDs":["20"]}
			},
			{
				"instrument":"GBP_USD",
				"unrealizedPL":"0",
				"long":{"units":"0"},
				"short":{"units":"0"}
			}
		]}`))
	})

	positions, err := c.OpenPositions(context.Background())
	require.NoError(t, err)
	require.Len(t, positions, 2, "flat instruments are skipped")

	assert.Equal(t, "EUR_USD", positions[0].Instrument)
	assert.Equal(t, 2000, positions[0].Units)
	assert.InDelta(t, 1.1001, positions[0].AveragePrice, 1e-9)
	assert.Equal(t, []string{"11", "12"}, positions[0].TradeIDs)

	assert.Equal(t, "USD_JPY", positions[1].Instrument)
	assert.Equal(t, -1500, positions[1].Units)
	assert.InDelta(t, -3.2, positions[1].UnrealizedPL, 1e-9)
}

func TestClosePositionSendsALLForHeldSide(t *testing.T) {
	var closeBody gjson.Result
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			w.Write([]byte(`{"positions":[
				{"instrument":"EUR_USD","unrealizedPL":"0",
				 "long":{"units":"2000","averagePrice":"1.1","tradeIDs":["1"]},
				 "short":{"units":"0"}}
			]}`))
		case r.Method == http.MethodPut:
			assert.Equal(t, "/v3/accounts/001-001-1234567-001/positions/EUR_USD/close", r.URL.Path)
			closeBody = gjson.ParseBytes(mustRead(t, r))
			w.Write([]byte(`{}`))
		}
	})

	require.NoError(t, c.ClosePosition(context.Background(), "eur/usd"))
	assert.Equal(t, "ALL", closeBody.Get("longUnits").String())
	assert.False(t, closeBody.Get("shortUnits").Exists())
}

func TestClosePositionNoopWhenFlat(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method, "no close call expected for a flat book")
		w.Write([]byte(`{"positions":[]}`))
	})
	assert.NoError(t, c.ClosePosition(context.Background(), "EUR_USD"))
}

func TestUpdateProtectiveOrdersRoundsToInstrument(t *testing.T) {
	var updateBody gjson.Result
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			assert.Equal(t, "/v3/accounts/001-001-1234567-001/trades/77", r.URL.Path)
			w.Write([]byte(`{"trade":{"instrument":"USD_JPY"}}`))
		case r.Method == http.MethodPut:
			assert.Equal(t, "/v3/accounts/001-001-1234567-001/trades/77/orders", r.URL.Path)
			updateBody = gjson.ParseBytes(mustRead(t, r))
			w.Write([]byte(`{}`))
		}
	})

	require.NoError(t, c.UpdateProtectiveOrders(context.Background(), "77", 148.12345, 149.98765))
	assert.Equal(t, "148.123", updateBody.Get("stopLoss.price").String())
	assert.Equal(t, "149.988", updateBody.Get("takeProfit.price").String())
}

func TestUpdateProtectiveOrdersRequiresTradeID(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	err := c.UpdateProtectiveOrders(context.Background(), "", 1.1, 1.2)
	assert.Error(t, err)
}
