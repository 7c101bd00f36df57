package sizing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/config"
)

func testSizer() *Sizer {
	return NewSizer(config.SizingConfig{
		ConfidenceThreshold: 0.8,
		RiskFloorPct:        0.3,
		MaxLeverage:         20,
		MinUnits:            1,
		MaxUnits:            500000,
	})
}

func TestEffectiveRiskPctRamp(t *testing.T) {
	s := testSizer()

	tests := []struct {
		name       string
		ceiling    float64
		confidence float64
		want       float64
	}{
		{"zero confidence gets floor", 1.0, 0, 0.3},
		{"at threshold gets ceiling", 1.0, 0.8, 1.0},
		{"above threshold gets ceiling", 1.0, 0.95, 1.0},
		{"full confidence gets ceiling", 1.0, 1.0, 1.0},
		{"midway ramps linearly", 1.0, 0.4, 0.3 + 0.5*0.7},
		{"negative confidence clamps to floor", 1.0, -0.5, 0.3},
		{"confidence above one clamps to ceiling", 1.0, 1.5, 1.0},
		{"ceiling below floor returns ceiling", 0.2, 0.5, 0.2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, s.EffectiveRiskPct(tc.ceiling, tc.confidence), 1e-9)
		})
	}
}

func TestEffectiveRiskPctMonotone(t *testing.T) {
	s := testSizer()
	prev := -1.0
	for c := 0.0; c <= 1.0; c += 0.05 {
		got := s.EffectiveRiskPct(1.0, c)
		assert.GreaterOrEqual(t, got, prev, "ramp must not decrease at confidence %.2f", c)
		assert.GreaterOrEqual(t, got, 0.3)
		assert.LessOrEqual(t, got, 1.0)
		prev = got
	}
}

func TestSizeWorkedExample(t *testing.T) {
	s := testSizer()
	// 10k balance at 1% risk and a 50-pip stop on EUR_USD: risk 100 over a
	// 0.0050 stop distance is 20000 units.
	res, err := s.Size(Input{
		Balance:        10000,
		RiskCeilingPct: 1.0,
		Entry:          1.1000,
		Stop:           1.0950,
		Confidence:     0.9,
		Instrument:     "EUR_USD",
	})
	require.NoError(t, err)
	assert.Equal(t, 20000, res.Units)
	assert.InDelta(t, 100.0, res.RiskAmount, 1e-9)
	assert.InDelta(t, 1.0, res.RiskPct, 1e-9)
	assert.InDelta(t, 0.0050, res.StopDistance, 1e-9)
	assert.InDelta(t, 50, res.StopDistancePips, 1e-6)
	assert.False(t, res.FallbackUsed)
}

func TestSizeZeroStopDistanceFallsBack(t *testing.T) {
	s := testSizer()
	res, err := s.Size(Input{
		Balance:        10000,
		RiskCeilingPct: 1.0,
		Entry:          1.1000,
		Stop:           1.1000,
		Confidence:     0.9,
		Instrument:     "EUR_USD",
	})
	var se *SizingError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "EUR_USD", se.Instrument)
	assert.True(t, res.FallbackUsed)
	assert.Equal(t, 1, res.Units)
}

func TestSizeLeverageCap(t *testing.T) {
	s := testSizer()
	// A 1-pip stop would ask for 1,000,000 units; leverage caps it at
	// 20x balance / entry.
	res, err := s.Size(Input{
		Balance:        10000,
		RiskCeilingPct: 1.0,
		Entry:          1.0000,
		Stop:           0.9999,
		Confidence:     0.9,
		Instrument:     "EUR_USD",
	})
	require.NoError(t, err)
	assert.Equal(t, 200000, res.Units)
}

func TestSizeUnitBounds(t *testing.T) {
	s := NewSizer(config.SizingConfig{
		ConfidenceThreshold: 0.8,
		RiskFloorPct:        0.3,
		MaxLeverage:         50,
		MinUnits:            1000,
		MaxUnits:            5000,
	})

	small, err := s.Size(Input{
		Balance: 100, RiskCeilingPct: 0.5, Entry: 1.2, Stop: 1.1, Confidence: 1, Instrument: "EUR_USD",
	})
	require.NoError(t, err)
	assert.Equal(t, 1000, small.Units, "tiny raw size clips up to min units")

	big, err := s.Size(Input{
		Balance: 1000000, RiskCeilingPct: 2, Entry: 1.2, Stop: 1.1995, Confidence: 1, Instrument: "EUR_USD",
	})
	require.NoError(t, err)
	assert.Equal(t, 5000, big.Units, "huge raw size clips down to max units")
}

func TestSizeJPYPipDistance(t *testing.T) {
	s := testSizer()
	res, err := s.Size(Input{
		Balance:        10000,
		RiskCeilingPct: 1.0,
		Entry:          148.500,
		Stop:           148.250,
		Confidence:     1.0,
		Instrument:     "USD_JPY",
	})
	require.NoError(t, err)
	assert.InDelta(t, 25, res.StopDistancePips, 1e-6, "JPY pip is 0.01")
}
