// Package store persists order outcomes and daily counters with Gorm over
// SQLite.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/broker"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/sizing"
)

type Store struct {
	db *gorm.DB
}

// Open initializes the SQLite journal at path, creating directories and
// migrating tables as needed.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("store: path cannot be empty")
	}
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store: open failed: %w", err)
	}
	if err := db.AutoMigrate(&OrderRecord{}, &DailyCounterRecord{}); err != nil {
		return nil, fmt.Errorf("store: migrate failed: %w", err)
	}
	return &Store{db: db}, nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// RecordOrder journals one placed order and upserts the account's daily
// counter. Satisfies execution.Journal.
func (s *Store) RecordOrder(ctx context.Context, accountID string, order *broker.Order, sized sizing.Result, reason string) error {
	if order == nil {
		return nil
	}
	rec := OrderRecord{
		OrderID:       order.ID,
		AccountID:     accountID,
		Instrument:    order.Instrument,
		Units:         order.Units,
		Type:          string(order.Type),
		Status:        string(order.Status),
		Price:         order.Price,
		StopLoss:      order.StopLoss,
		TakeProfit:    order.TakeProfit,
		RiskAmount:    sized.RiskAmount,
		RiskPct:       sized.RiskPct,
		GateReason:    reason,
		TradeID:       order.TradeID,
		CreatedAtUnix: order.CreateTime.Unix(),
	}
	if !order.FillTime.IsZero() {
		rec.FilledAtUnix = order.FillTime.Unix()
	}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}},
		UpdateAll: true,
	}).Create(&rec).Error; err != nil {
		return err
	}

	date := order.CreateTime.UTC().Format("2006-01-02")
	counter := DailyCounterRecord{
		AccountID:  accountID,
		Date:       date,
		TradeCount: 1,
		UpdatedAt:  time.Now().Unix(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "account_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]any{
			"trade_count": gorm.Expr("trade_count + 1"),
			"updated_at":  time.Now().Unix(),
		}),
	}).Create(&counter).Error
}

// RecentOrders returns the newest journaled orders, optionally filtered by
// account.
func (s *Store) RecentOrders(ctx context.Context, accountID string, limit int) ([]OrderRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	q := s.db.WithContext(ctx).Model(&OrderRecord{}).Order("created_at DESC").Limit(limit)
	if accountID != "" {
		q = q.Where("account_id = ?", accountID)
	}
	var out []OrderRecord
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// DailyCount returns the persisted trade count for an account and UTC date.
func (s *Store) DailyCount(ctx context.Context, accountID, date string) (int, error) {
	var rec DailyCounterRecord
	err := s.db.WithContext(ctx).
		Where("account_id = ? AND date = ?", accountID, date).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return rec.TradeCount, nil
}
