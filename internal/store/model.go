package store

// OrderRecord is one journaled order outcome.
type OrderRecord struct {
	ID            int64   `gorm:"column:id;primaryKey"`
	OrderID       string  `gorm:"column:order_id;uniqueIndex"`
	AccountID     string  `gorm:"column:account_id;index"`
	Instrument    string  `gorm:"column:instrument"`
	Units         int     `gorm:"column:units"`
	Type          string  `gorm:"column:order_type"`
	Status        string  `gorm:"column:status"`
	Price         float64 `gorm:"column:price"`
	StopLoss      float64 `gorm:"column:stop_loss"`
	TakeProfit    float64 `gorm:"column:take_profit"`
	RiskAmount    float64 `gorm:"column:risk_amount"`
	RiskPct       float64 `gorm:"column:risk_pct"`
	GateReason    string  `gorm:"column:gate_reason"`
	TradeID       string  `gorm:"column:trade_id"`
	CreatedAtUnix int64   `gorm:"column:created_at"`
	FilledAtUnix  int64   `gorm:"column:filled_at"`
}

func (OrderRecord) TableName() string { return "orders" }

// DailyCounterRecord snapshots an account's trade count for one UTC date,
// so a restart mid-day resumes from the persisted count.
type DailyCounterRecord struct {
	ID         int64  `gorm:"column:id;primaryKey"`
	AccountID  string `gorm:"column:account_id;uniqueIndex:idx_counter_day,priority:1"`
	Date       string `gorm:"column:date;uniqueIndex:idx_counter_day,priority:2"`
	TradeCount int    `gorm:"column:trade_count"`
	UpdatedAt  int64  `gorm:"column:updated_at"`
}

func (DailyCounterRecord) TableName() string { return "daily_counters" }
