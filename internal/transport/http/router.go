package monhttp

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/account"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/execution"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/store"
)

type Router struct {
	Accounts *account.Manager
	Orders   *execution.OrderManager
	Gate     *execution.Gate
	Journal  *store.Store
}

func (r *Router) Register(group *gin.RouterGroup) {
	if group == nil {
		return
	}
	group.GET("/accounts", r.handleAccounts)
	group.GET("/orders/active", r.handleActiveOrders)
	group.GET("/orders", r.handleOrderHistory)
	group.GET("/gate", r.handleGate)
}

type accountView struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Tradable    bool   `json:"tradable"`
	Broker      string `json:"broker,omitempty"`
	Strategy    string `json:"strategy,omitempty"`
	DailyTrades int    `json:"daily_trades"`
	DailyLimit  int    `json:"daily_trade_limit"`
	BindingNote string `json:"binding_note,omitempty"`
}

func (r *Router) handleAccounts(c *gin.Context) {
	now := time.Now()
	out := make([]accountView, 0)
	for _, acc := range r.Accounts.Accounts() {
		view := accountView{
			ID:          acc.ID,
			Name:        acc.Name,
			Tradable:    acc.Tradable(),
			DailyLimit:  acc.Limits.DailyTradeLimit,
			BindingNote: acc.BindingNote,
		}
		if acc.Tradable() {
			view.Broker = acc.Broker.Name()
			view.DailyTrades = acc.DailyTradesUsed(now)
		}
		if acc.Strategy != nil {
			view.Strategy = acc.Strategy.Name()
		}
		out = append(out, view)
	}
	c.JSON(http.StatusOK, gin.H{"accounts": out})
}

func (r *Router) handleActiveOrders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"orders": r.Orders.ActiveOrders()})
}

func (r *Router) handleOrderHistory(c *gin.Context) {
	if r.Journal == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "order journal disabled"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	records, err := r.Journal.RecentOrders(c.Request.Context(), c.Query("account"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": records})
}

func (r *Router) handleGate(c *gin.Context) {
	d := r.Gate.Check()
	c.JSON(http.StatusOK, gin.H{
		"allowed": d.Allowed,
		"mode":    d.Mode,
		"reason":  d.Reason,
	})
}
