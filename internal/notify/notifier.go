// Package notify delivers fill notifications. The execution core only
// knows the callback signature; delivery channels live here.
package notify

import (
	"fmt"

	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/account"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/broker"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/execution"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/logger"
)

type Notifier interface {
	SendText(text string) error
}

// FillCallback adapts a Notifier into the order manager's fill hook.
// Delivery failures are logged, never propagated into the pipeline.
func FillCallback(n Notifier) execution.FillCallback {
	if n == nil {
		return nil
	}
	return func(acc *account.Account, order *broker.Order) {
		side := "BUY"
		units := order.Units
		if units < 0 {
			side = "SELL"
			units = -units
		}
		msg := fmt.Sprintf("*Order filled*\naccount: %s\n%s %d %s @ %.5f\nSL %.5f / TP %.5f\norder: %s",
			acc.ID, side, units, order.Instrument, order.Price, order.StopLoss, order.TakeProfit, order.ID)
		if err := n.SendText(msg); err != nil {
			logger.Warnf("fill notification failed for order %s: %v", order.ID, err)
		}
	}
}
