// Package instrument classifies FX instruments and carries their quoting
// conventions: pip size and the decimal precision protective orders must be
// rounded to before submission.
package instrument

import (
	"math"
	"strings"
)

type Class int

const (
	ClassStandard Class = iota
	ClassJPY
	ClassMetalGold
	ClassMetalSilver
)

func (c Class) String() string {
	switch c {
	case ClassJPY:
		return "jpy"
	case ClassMetalGold:
		return "gold"
	case ClassMetalSilver:
		return "silver"
	default:
		return "standard"
	}
}

type Instrument struct {
	Base  string
	Quote string
}

// Parse accepts "EUR_USD", "EUR/USD" or "EURUSD" and returns the pair.
func Parse(s string) Instrument {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return Instrument{}
	}
	for _, sep := range []string{"_", "/", "-"} {
		if parts := strings.SplitN(s, sep, 2); len(parts) == 2 {
			return Instrument{Base: strings.TrimSpace(parts[0]), Quote: strings.TrimSpace(parts[1])}
		}
	}
	if len(s) == 6 {
		return Instrument{Base: s[:3], Quote: s[3:]}
	}
	return Instrument{}
}

// Normalize returns the broker wire form, e.g. "EUR_USD".
func Normalize(s string) string {
	in := Parse(s)
	if in.Base == "" || in.Quote == "" {
		return strings.ToUpper(strings.TrimSpace(s))
	}
	return in.Base + "_" + in.Quote
}

func Classify(s string) Class {
	in := Parse(s)
	switch {
	case in.Base == "XAU":
		return ClassMetalGold
	case in.Base == "XAG":
		return ClassMetalSilver
	case in.Quote == "JPY":
		return ClassJPY
	default:
		return ClassStandard
	}
}

// PipSize returns the conventional pip for the instrument class.
func PipSize(s string) float64 {
	switch Classify(s) {
	case ClassJPY, ClassMetalGold:
		return 0.01
	case ClassMetalSilver:
		return 0.001
	default:
		return 0.0001
	}
}

// PricePrecision returns the decimal precision the broker accepts for
// protective order prices on this instrument.
func PricePrecision(s string) int {
	switch Classify(s) {
	case ClassJPY:
		return 3
	case ClassMetalGold, ClassMetalSilver:
		return 2
	default:
		return 5
	}
}

// RoundPrice rounds a price to the instrument's accepted precision.
func RoundPrice(s string, price float64) float64 {
	scale := math.Pow10(PricePrecision(s))
	return math.Round(price*scale) / scale
}

// IsValid reports whether the string parses into a base/quote pair.
func IsValid(s string) bool {
	in := Parse(s)
	return in.Base != "" && in.Quote != ""
}
