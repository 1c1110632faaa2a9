// Package export renders flight records as standalone SVG charts.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/dronesim/internal/dynamo"
)

type Point struct{ X, Y float64 }

// Series is one polyline of a chart.
type Series struct {
	Name   string
	Color  string
	Points []Point
}

// FromRecords builds a series against elapsed time in minutes.
func FromRecords(name, color string, records []dynamo.Record, value func(dynamo.Record) float64) Series {
	s := Series{Name: name, Color: color, Points: make([]Point, len(records))}
	for i, r := range records {
		s.Points[i] = Point{X: (r.Time + r.Dt) / 60, Y: value(r)}
	}
	return s
}

// LineChart draws every series on shared axes scaled to fit them all, with a
// legend in the top left corner. It returns "" when no series has two points.
func LineChart(title string, series []Series, width, height int) string {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	drawable := 0
	for _, s := range series {
		if len(s.Points) < 2 {
			continue
		}
		drawable++
		for _, p := range s.Points {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	if drawable == 0 {
		return ""
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<text x="%d" y="20" fill="#ffffff" font-family="monospace" font-size="14" text-anchor="middle">%s</text>
`, width, height, width, height, width/2, escape(title))

	legendY := 40
	for _, s := range series {
		if len(s.Points) < 2 {
			continue
		}
		sb.WriteString(`<path fill="none" stroke="` + s.Color + `" stroke-width="1.5" d="M`)
		for i, p := range s.Points {
			x := (p.X - minX) / rangeX * float64(width)
			y := float64(height) - (p.Y-minY)/rangeY*float64(height)
			if i == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")

		fmt.Fprintf(&sb, `<text x="10" y="%d" fill="%s" font-family="monospace" font-size="12">%s (%.4g to %.4g)</text>
`, legendY, s.Color, escape(s.Name), seriesMin(s), seriesMax(s))
		legendY += 16
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// PowerChart plots the total, battery and generator power of a flight.
func PowerChart(records []dynamo.Record, width, height int) string {
	return LineChart("power draw (W) vs time (min)", []Series{
		FromRecords("total", "#ffffff", records, func(r dynamo.Record) float64 { return r.TotalPowerDraw }),
		FromRecords("battery", "#ff4444", records, func(r dynamo.Record) float64 { return r.BatteryPowerDraw }),
		FromRecords("generator", "#00ff88", records, func(r dynamo.Record) float64 { return r.GeneratorPowerDraw }),
	}, width, height)
}

// ChargeChart plots bank charge and fuel level as percentages.
func ChargeChart(records []dynamo.Record, tankCapacity float64, width, height int) string {
	series := []Series{
		FromRecords("charge %", "#00ccff", records, func(r dynamo.Record) float64 { return r.ChargePercentage * 100 }),
	}
	if tankCapacity > 0 {
		series = append(series, FromRecords("fuel %", "#ffcc00", records, func(r dynamo.Record) float64 {
			return r.RemainingFuel / tankCapacity * 100
		}))
	}
	return LineChart("charge and fuel (%) vs time (min)", series, width, height)
}

func seriesMin(s Series) float64 {
	v := math.Inf(1)
	for _, p := range s.Points {
		v = math.Min(v, p.Y)
	}
	return v
}

func seriesMax(s Series) float64 {
	v := math.Inf(-1)
	for _, p := range s.Points {
		v = math.Max(v, p.Y)
	}
	return v
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return escaper.Replace(s) }
