package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/dronesim/internal/dynamo"
)

// FormatClock renders seconds as hh:mm:ss, truncating fractions.
func FormatClock(seconds float64) string {
	s := int(math.Floor(math.Max(0, seconds)))
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, s/60%60, s%60)
}

// StatusLine is the plain per-step report. Weight and thrust are shown in
// kilograms.
func StatusLine(r dynamo.Record) string {
	return strings.Join(statusFields(r), "  |  ")
}

func statusFields(r dynamo.Record) []string {
	return []string{
		FormatClock(r.Time),
		fmt.Sprintf("%.2fAh", r.RemainingCapacity),
		fmt.Sprintf("%.2f%%", r.ChargePercentage*100),
		fmt.Sprintf("%.1f W total draw", r.TotalPowerDraw),
		fmt.Sprintf("%.1f kg weight", r.Weight/1000),
		fmt.Sprintf("%.1f kg thrust", r.Thrust/1000),
		fmt.Sprintf("%.1f W from battery", r.BatteryPowerDraw),
		fmt.Sprintf("%.1f W from generator", r.GeneratorPowerDraw),
		fmt.Sprintf("%.1f L fuel remaining", r.RemainingFuel),
	}
}

// StyledStatusLine colors the clock and charge fields for a terminal.
func StyledStatusLine(r dynamo.Record, minCharge float64) string {
	fields := statusFields(r)
	fields[0] = MetricLabel.Render(fields[0])
	fields[2] = chargeStyle(r.ChargePercentage, minCharge).Render(fields[2])
	return strings.Join(fields, Subtle.Render("  |  "))
}
