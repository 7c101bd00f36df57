package oanda

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/broker"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/pkg/instrument"
)

type orderPayload struct {
	Order orderBody `json:"order"`
}

type orderBody struct {
	Type         string           `json:"type"`
	Instrument   string           `json:"instrument"`
	Units        string           `json:"units"`
	Price        string           `json:"price,omitempty"`
	TimeInForce  string           `json:"timeInForce"`
	PositionFill string           `json:"positionFill"`
	StopLoss     *protectivePrice `json:"stopLossOnFill,omitempty"`
	TakeProfit   *protectivePrice `json:"takeProfitOnFill,omitempty"`
	ClientExt    *clientExtension `json:"clientExtensions,omitempty"`
}

type protectivePrice struct {
	Price string `json:"price"`
}

type clientExtension struct {
	Tag string `json:"tag,omitempty"`
}

func (c *Client) PlaceMarketOrder(ctx context.Context, req broker.OrderRequest) (*broker.Order, error) {
	return c.placeOrder(ctx, broker.OrderTypeMarket, req)
}

func (c *Client) PlaceLimitOrder(ctx context.Context, req broker.OrderRequest) (*broker.Order, error) {
	return c.placeOrder(ctx, broker.OrderTypeLimit, req)
}

func (c *Client) PlaceStopOrder(ctx context.Context, req broker.OrderRequest) (*broker.Order, error) {
	return c.placeOrder(ctx, broker.OrderTypeStop, req)
}

func (c *Client) placeOrder(ctx context.Context, typ broker.OrderType, req broker.OrderRequest) (*broker.Order, error) {
	inst := instrument.Normalize(req.Instrument)
	if inst == "" {
		return nil, &broker.ConfigurationError{Field: "instrument", Reason: "cannot be empty"}
	}
	if req.Units == 0 {
		return nil, fmt.Errorf("order units cannot be zero")
	}
	body := orderBody{
		Type:         string(typ),
		Instrument:   inst,
		Units:        strconv.Itoa(req.Units),
		TimeInForce:  "FOK",
		PositionFill: "DEFAULT",
	}
	if typ != broker.OrderTypeMarket {
		if req.Price <= 0 {
			return nil, fmt.Errorf("%s order requires a trigger price", typ)
		}
		body.Price = formatPrice(inst, req.Price)
		body.TimeInForce = "GTC"
	}
	// Protective prices must match the instrument's precision or the broker
	// rejects the whole order.
	if req.StopLoss > 0 {
		body.StopLoss = &protectivePrice{Price: formatPrice(inst, req.StopLoss)}
	}
	if req.TakeProfit > 0 {
		body.TakeProfit = &protectivePrice{Price: formatPrice(inst, req.TakeProfit)}
	}
	if req.ClientTag != "" {
		body.ClientExt = &clientExtension{Tag: req.ClientTag}
	}

	var raw json.RawMessage
	if err := c.doRequest(ctx, "POST", c.accountPath("/orders"), orderPayload{Order: body}, &raw); err != nil {
		return nil, err
	}
	return decodeOrderResult(raw, inst, req, typ, c), nil
}

// decodeOrderResult maps the transaction envelope OANDA returns into an
// Order. The shape varies by outcome (fill, cancel, create), so the looser
// fields go through gjson.
func decodeOrderResult(raw json.RawMessage, inst string, req broker.OrderRequest, typ broker.OrderType, c *Client) *broker.Order {
	doc := gjson.ParseBytes(raw)
	order := &broker.Order{
		Instrument: inst,
		Units:      req.Units,
		Type:       typ,
		Status:     broker.OrderStatusPending,
		Price:      req.Price,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
		CreateTime: c.nowFn(),
	}
	if id := doc.Get("orderCreateTransaction.id"); id.Exists() {
		order.ID = id.String()
		if ts, ok := parseBrokerTime(doc.Get("orderCreateTransaction.time").String()); ok {
			order.CreateTime = ts
		}
	}
	if fill := doc.Get("orderFillTransaction"); fill.Exists() {
		order.Status = broker.OrderStatusFilled
		if ts, ok := parseBrokerTime(fill.Get("time").String()); ok {
			order.FillTime = ts
		}
		if p := fill.Get("price"); p.Exists() {
			order.Price = p.Float()
		}
		if tid := fill.Get("tradeOpened.tradeID"); tid.Exists() {
			order.TradeID = tid.String()
		}
		if order.ID == "" {
			order.ID = fill.Get("orderID").String()
		}
	} else if cancel := doc.Get("orderCancelTransaction"); cancel.Exists() {
		order.Status = broker.OrderStatusCancelled
		if cancel.Get("reason").String() == "TIME_IN_FORCE_EXPIRED" {
			order.Status = broker.OrderStatusExpired
		}
		if order.ID == "" {
			order.ID = cancel.Get("orderID").String()
		}
	} else if reject := doc.Get("orderRejectTransaction"); reject.Exists() {
		order.Status = broker.OrderStatusRejected
		if order.ID == "" {
			order.ID = reject.Get("id").String()
		}
	}
	return order
}

func formatPrice(inst string, price float64) string {
	return strconv.FormatFloat(instrument.RoundPrice(inst, price), 'f', instrument.PricePrecision(inst), 64)
}
