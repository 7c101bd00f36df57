// Package market maintains a concurrency-safe per-instrument price cache
// fed by a refresh task and policed by a validation task.
package market

import (
	"sync"
	"time"

	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/broker"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/pkg/instrument"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/strategy"
)

const defaultHistoryMax = 200

// Cache holds the latest quote and a rolling mid-price history per
// instrument. It has multiple writers (refresh task) and readers
// (validation task, scan loop), so every access goes through the lock.
type Cache struct {
	mu         sync.RWMutex
	quotes     map[string]broker.PriceQuote
	history    map[string][]float64
	historyMax int
}

func NewCache() *Cache {
	return &Cache{
		quotes:     make(map[string]broker.PriceQuote),
		history:    make(map[string][]float64),
		historyMax: defaultHistoryMax,
	}
}

// Put stores a quote and appends its mid price to the history.
func (c *Cache) Put(q broker.PriceQuote) {
	norm := instrument.Normalize(q.Instrument)
	if norm == "" || !q.Valid() {
		return
	}
	c.mu.Lock()
	c.quotes[norm] = q
	h := append(c.history[norm], q.Mid())
	if len(h) > c.historyMax {
		h = h[len(h)-c.historyMax:]
	}
	c.history[norm] = h
	c.mu.Unlock()
}

// Get returns the cached quote for one instrument.
func (c *Cache) Get(inst string) (broker.PriceQuote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	q, ok := c.quotes[instrument.Normalize(inst)]
	return q, ok
}

// Drop removes an instrument's quote, keeping its history.
func (c *Cache) Drop(inst string) {
	c.mu.Lock()
	delete(c.quotes, instrument.Normalize(inst))
	c.mu.Unlock()
}

// Snapshot assembles the strategy view: quote map plus history copies.
func (c *Cache) Snapshot(now time.Time) strategy.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap := strategy.Snapshot{
		Time:    now,
		Quotes:  make(map[string]broker.PriceQuote, len(c.quotes)),
		History: make(map[string][]float64, len(c.history)),
	}
	for k, v := range c.quotes {
		snap.Quotes[k] = v
	}
	for k, v := range c.history {
		h := make([]float64, len(v))
		copy(h, v)
		snap.History[k] = h
	}
	return snap
}

// Instruments lists instruments currently carrying a quote.
func (c *Cache) Instruments() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.quotes))
	for k := range c.quotes {
		out = append(out, k)
	}
	return out
}
