package execution

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fxgdesigns1/AI-QUANT-sub000/internal/config"
)

func TestEvaluateTruthTable(t *testing.T) {
	tests := []struct {
		name    string
		flags   config.Flags
		allowed bool
		reason  Reason
	}{
		{
			name:    "paper enabled",
			flags:   config.Flags{Mode: config.ModePaper, PaperExecutionEnabled: true},
			allowed: true,
			reason:  ReasonPaperOK,
		},
		{
			name:    "paper disabled",
			flags:   config.Flags{Mode: config.ModePaper, PaperExecutionEnabled: false},
			allowed: false,
			reason:  ReasonPaperDisabled,
		},
		{
			name: "paper ignores live flags",
			flags: config.Flags{
				Mode: config.ModePaper, PaperExecutionEnabled: true,
				LiveTradingEnabled: true, LiveTradingConfirmed: true,
			},
			allowed: true,
			reason:  ReasonPaperOK,
		},
		{
			name: "live fully confirmed",
			flags: config.Flags{
				Mode: config.ModeLive, LiveTradingEnabled: true, LiveTradingConfirmed: true,
			},
			allowed: true,
			reason:  ReasonLiveOK,
		},
		{
			name:    "live not enabled",
			flags:   config.Flags{Mode: config.ModeLive, LiveTradingConfirmed: true},
			allowed: false,
			reason:  ReasonLiveNotEnabled,
		},
		{
			name:    "live enabled but unconfirmed",
			flags:   config.Flags{Mode: config.ModeLive, LiveTradingEnabled: true},
			allowed: false,
			reason:  ReasonLiveNotConfirmed,
		},
		{
			name:    "live neither flag",
			flags:   config.Flags{Mode: config.ModeLive},
			allowed: false,
			reason:  ReasonLiveNotEnabled,
		},
		{
			name: "live ignores paper switch",
			flags: config.Flags{
				Mode: config.ModeLive, PaperExecutionEnabled: true,
				LiveTradingEnabled: true, LiveTradingConfirmed: true,
			},
			allowed: true,
			reason:  ReasonLiveOK,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := Evaluate(tc.flags)
			assert.Equal(t, tc.allowed, d.Allowed)
			assert.Equal(t, tc.reason, d.Reason)
			assert.Equal(t, tc.flags.Mode, d.Mode)
		})
	}
}

func TestGateReadsFlagsFresh(t *testing.T) {
	src := &mutableFlags{flags: config.Flags{Mode: config.ModePaper, PaperExecutionEnabled: true}}
	g := NewGate(src)

	assert.True(t, g.Check().Allowed)

	src.flags.PaperExecutionEnabled = false
	d := g.Check()
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonPaperDisabled, d.Reason)
}

type mutableFlags struct {
	flags config.Flags
}

func (m *mutableFlags) TradingFlags() config.Flags { return m.flags }
