package account

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDailyCounterRollsOncePerUTCDate(t *testing.T) {
	acc := &Account{ID: "a1"}
	day1 := time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC)

	acc.IncrementDailyTrades(day1)
	acc.IncrementDailyTrades(day1.Add(30 * time.Minute))
	assert.Equal(t, 2, acc.DailyTradesUsed(day1.Add(time.Hour)))

	// Crossing UTC midnight resets exactly once.
	day2 := time.Date(2026, 3, 11, 0, 5, 0, 0, time.UTC)
	assert.Equal(t, 0, acc.DailyTradesUsed(day2))
	assert.Equal(t, 1, acc.IncrementDailyTrades(day2))
	assert.Equal(t, 1, acc.DailyTradesUsed(day2.Add(time.Hour)), "same date must not reset again")
}

func TestDailyCounterUsesUTCNotLocal(t *testing.T) {
	acc := &Account{ID: "a1"}
	// 23:30 UTC-5 is 04:30 UTC the next day; the counter keys on UTC.
	loc := time.FixedZone("UTC-5", -5*3600)
	late := time.Date(2026, 3, 10, 23, 30, 0, 0, loc)

	acc.IncrementDailyTrades(late)
	sameUTCDay := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, acc.DailyTradesUsed(sameUTCDay))
}

func TestTradable(t *testing.T) {
	var nilAcc *Account
	assert.False(t, nilAcc.Tradable())
	assert.False(t, (&Account{ID: "a"}).Tradable())
}
