package threshold

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name             string
		used, soft, hard float64
		grace            string
		want             Severity
	}{
		{name: "well below", used: 10, soft: 100, hard: 200, want: Normal},
		{name: "just below warning", used: 74.9, soft: 100, hard: 200, want: Normal},
		{name: "warning", used: 75, soft: 100, hard: 200, want: Warning},
		{name: "soft exceeded with grace", used: 120, soft: 100, hard: 200, grace: "6days", want: Warning},
		{name: "soft exceeded clock grace", used: 120, soft: 100, hard: 200, grace: "13:45", want: Warning},
		{name: "soft exceeded grace none", used: 120, soft: 100, hard: 200, grace: "none", want: Critical},
		{name: "soft exceeded grace expired", used: 120, soft: 100, hard: 200, grace: "expired", want: Critical},
		{name: "soft exceeded zero grace", used: 120, soft: 100, hard: 200, grace: "0:00", want: Critical},
		{name: "soft exceeded no grace reported", used: 120, soft: 100, hard: 200, want: Critical},
		{name: "hard reached", used: 200, soft: 100, hard: 200, grace: "6days", want: Critical},
		{name: "hard exceeded", used: 250, soft: 100, hard: 200, grace: "6days", want: Critical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := Evaluate(tt.used, tt.soft, tt.hard, tt.grace)
			assert.Equal(t, tt.want, u.Severity)
		})
	}
}

func TestEvaluatePercentages(t *testing.T) {
	u := Evaluate(250, 100, 200, "")
	assert.InDelta(t, 250.0, u.PctSoft, 1e-9)
	assert.InDelta(t, 125.0, u.PctHard, 1e-9)
	assert.True(t, u.SoftExceeded)

	// 只有硬限制时按硬限制计算软限制使用率
	u = Evaluate(50, 0, 200, "")
	assert.InDelta(t, 25.0, u.PctSoft, 1e-9)
	assert.InDelta(t, 25.0, u.PctHard, 1e-9)
	assert.Equal(t, Normal, u.Severity)

	u = Evaluate(50, 0, 0, "")
	assert.Zero(t, u.PctSoft)
	assert.Equal(t, Normal, u.Severity)
}

func TestGraceRemaining(t *testing.T) {
	remaining := []string{"6days", "1day", "13:45", "0:01", "6d23h59m", "2weeks"}
	for _, g := range remaining {
		assert.True(t, GraceRemaining(g), g)
	}

	expired := []string{"", "none", "None", "expired", "-", "0:00", "0days", "0mins", "0d0h0m"}
	for _, g := range expired {
		assert.False(t, GraceRemaining(g), g)
	}
}

func TestFormatGrace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1days", "1 day"},
		{"1day", "1 day"},
		{"6days", "6 days"},
		{"1hours", "1 hour"},
		{"2hours", "2 hours"},
		{"1minutes", "1 minute"},
		{"30minutes", "30 minutes"},
		{"1mins", "1 minute"},
		{"5mins", "5 minutes"},
		{"13:45", "13 hours 45 minutes"},
		{"1:01", "1 hour 1 minute"},
		{"24:00", "1 day"},
		{"50:30", "2 days 2 hours 30 minutes"},
		{"0:00", "0 minutes"},
		{"6d23h59m", "6 days 23 hours 59 minutes"},
		{"1d", "1 day"},
		{"2weeks", "2 weeks"},
		{"none", "none"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatGrace(tt.in), "FormatGrace(%q)", tt.in)
	}
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "normal", Normal.String())
	assert.Equal(t, "warning", Warning.String())
	assert.Equal(t, "critical", Critical.String())
}
