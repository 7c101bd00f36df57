// Package sizing converts account balance, risk limits and signal
// confidence into an order size in base units.
package sizing

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/config"
	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/pkg/instrument"
)

// SizingError flags degenerate inputs (zero stop distance). The caller
// receives a minimum-size fallback result alongside it; the error exists
// so the condition gets logged loudly, since it points at a bug in the
// signal generator.
type SizingError struct {
	Instrument string
	Reason     string
}

func (e *SizingError) Error() string {
	return fmt.Sprintf("sizing %s: %s", e.Instrument, e.Reason)
}

// Input is one sizing request.
type Input struct {
	Balance        float64
	RiskCeilingPct float64 // account's max risk per trade, percent
	Entry          float64
	Stop           float64
	Confidence     float64 // [0,1]
	Instrument     string
}

// Result is the sized trade. Derived, never persisted.
type Result struct {
	Units            int
	RiskAmount       float64
	RiskPct          float64 // realized effective risk percent
	StopDistance     float64 // native price units
	StopDistancePips float64
	Notional         float64
	FallbackUsed     bool
}

type Sizer struct {
	threshold   float64
	floorPct    float64
	maxLeverage float64
	minUnits    int
	maxUnits    int
}

func NewSizer(cfg config.SizingConfig) *Sizer {
	return &Sizer{
		threshold:   cfg.ConfidenceThreshold,
		floorPct:    cfg.RiskFloorPct,
		maxLeverage: cfg.MaxLeverage,
		minUnits:    cfg.MinUnits,
		maxUnits:    cfg.MaxUnits,
	}
}

// EffectiveRiskPct applies the confidence ramp: below the threshold the
// risk percent climbs linearly from the floor toward the ceiling; at or
// above the threshold the full ceiling applies.
func (s *Sizer) EffectiveRiskPct(ceilingPct, confidence float64) float64 {
	if ceilingPct <= s.floorPct {
		return ceilingPct
	}
	c := confidence
	if c < 0 {
		c = 0
	}
	if c > 1 {
		c = 1
	}
	if c >= s.threshold {
		return ceilingPct
	}
	return s.floorPct + (c/s.threshold)*(ceilingPct-s.floorPct)
}

// Size computes the unit count for one trade. A zero stop distance yields
// the minimum-size fallback plus a *SizingError; it never divides by zero.
func (s *Sizer) Size(in Input) (Result, error) {
	effPct := s.EffectiveRiskPct(in.RiskCeilingPct, in.Confidence)
	riskAmount := in.Balance * effPct / 100
	stopDistance := math.Abs(in.Entry - in.Stop)
	pip := instrument.PipSize(in.Instrument)

	res := Result{
		RiskAmount:   riskAmount,
		RiskPct:      effPct,
		StopDistance: stopDistance,
	}
	if pip > 0 {
		res.StopDistancePips = stopDistance / pip
	}

	if stopDistance == 0 || in.Entry <= 0 {
		res.Units = s.minUnits
		res.Notional = float64(s.minUnits) * in.Entry
		res.FallbackUsed = true
		return res, &SizingError{Instrument: in.Instrument, Reason: "zero stop distance, using minimum size"}
	}

	rawUnits := riskAmount / stopDistance
	leverageCap := in.Balance * s.maxLeverage / in.Entry
	units := clipUnits(rawUnits, leverageCap, s.minUnits, s.maxUnits)

	res.Units = units
	res.Notional = float64(units) * in.Entry
	return res, nil
}

// clipUnits applies the leverage cap and the absolute bounds. Comparisons
// run through decimal so boundary values land deterministically.
func clipUnits(raw, leverageCap float64, minUnits, maxUnits int) int {
	rawDec := decimal.NewFromFloat(raw)
	capDec := decimal.NewFromFloat(leverageCap)
	if rawDec.Cmp(capDec) > 0 {
		rawDec = capDec
	}
	units := int(rawDec.IntPart())
	if units < minUnits {
		units = minUnits
	}
	if units > maxUnits {
		units = maxUnits
	}
	return units
}
