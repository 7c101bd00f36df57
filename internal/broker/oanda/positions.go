package oanda

import (
	"context"

	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/broker"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/pkg/convert"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/pkg/instrument"
)

type positionsResponse struct {
	Positions []struct {
		Instrument   string `json:"instrument"`
		UnrealizedPL string `json:"unrealizedPL"`
		Long         struct {
			Units        string   `json:"units"`
			AveragePrice string   `json:"averagePrice"`
			TradeIDs     []string `json:"tradeIDs"`
		} `json:"long"`
		Short struct {
			Units        string   `json:"units"`
			AveragePrice string   `json:"averagePrice"`
			TradeIDs     []string `json:"tradeIDs"`
		} `json:"short"`
	} `json:"positions"`
}

func (c *Client) OpenPositions(ctx context.Context) ([]broker.Position, error) {
	var resp positionsResponse
	if err := c.doRequest(ctx, "GET", c.accountPath("/openPositions"), nil, &resp); err != nil {
		return nil, err
	}
	out := make([]broker.Position, 0, len(resp.Positions))
	for _, p := range resp.Positions {
		pos := broker.Position{
			Instrument:   instrument.Normalize(p.Instrument),
			UnrealizedPL: convert.ToFloat64(p.UnrealizedPL),
		}
		longUnits := convert.ToInt(p.Long.Units)
		shortUnits := convert.ToInt(p.Short.Units)
		switch {
		case longUnits != 0:
			pos.Units = longUnits
			pos.AveragePrice = convert.ToFloat64(p.Long.AveragePrice)
			pos.TradeIDs = p.Long.TradeIDs
		case shortUnits != 0:
			pos.Units = shortUnits
			pos.AveragePrice = convert.ToFloat64(p.Short.AveragePrice)
			pos.TradeIDs = p.Short.TradeIDs
		default:
			continue
		}
		out = append(out, pos)
	}
	return out, nil
}

type closePositionPayload struct {
	LongUnits  string `json:"longUnits,omitempty"`
	ShortUnits string `json:"shortUnits,omitempty"`
}

// ClosePosition flattens the net position on one instrument.
func (c *Client) ClosePosition(ctx context.Context, inst string) error {
	norm := instrument.Normalize(inst)
	positions, err := c.OpenPositions(ctx)
	if err != nil {
		return err
	}
	payload := closePositionPayload{}
	for _, p := range positions {
		if p.Instrument != norm {
			continue
		}
		if p.Units > 0 {
			payload.LongUnits = "ALL"
		} else if p.Units < 0 {
			payload.ShortUnits = "ALL"
		}
	}
	if payload.LongUnits == "" && payload.ShortUnits == "" {
		return nil
	}
	return c.doRequest(ctx, "PUT", c.accountPath("/positions/"+norm+"/close"), payload, nil)
}

type protectiveUpdatePayload struct {
	StopLoss   *protectivePrice `json:"stopLoss,omitempty"`
	TakeProfit *protectivePrice `json:"takeProfit,omitempty"`
}

// UpdateProtectiveOrders replaces the stop-loss and/or take-profit on an
// open trade. Zero values leave the corresponding order untouched.
func (c *Client) UpdateProtectiveOrders(ctx context.Context, tradeID string, stopLoss, takeProfit float64) error {
	if tradeID == "" {
		return &broker.ConfigurationError{Field: "trade_id", Reason: "cannot be empty"}
	}
	trade, err := c.tradeInstrument(ctx, tradeID)
	if err != nil {
		return err
	}
	payload := protectiveUpdatePayload{}
	if stopLoss > 0 {
		payload.StopLoss = &protectivePrice{Price: formatPrice(trade, stopLoss)}
	}
	if takeProfit > 0 {
		payload.TakeProfit = &protectivePrice{Price: formatPrice(trade, takeProfit)}
	}
	if payload.StopLoss == nil && payload.TakeProfit == nil {
		return nil
	}
	return c.doRequest(ctx, "PUT", c.accountPath("/trades/"+tradeID+"/orders"), payload, nil)
}

type tradeResponse struct {
	Trade struct {
		Instrument string `json:"instrument"`
	} `json:"trade"`
}

func (c *Client) tradeInstrument(ctx context.Context, tradeID string) (string, error) {
	var resp tradeResponse
	if err := c.doRequest(ctx, "GET", c.accountPath("/trades/"+tradeID), nil, &resp); err != nil {
		return "", err
	}
	return instrument.Normalize(resp.Trade.Instrument), nil
}
