// Package chart renders prosocial-fraction series as PNG line charts.
package chart

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/talgya/groupsim/internal/engine"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("chart: no samples")

// Line is one named series.
type Line struct {
	Name    string
	Samples []engine.Sample
}

var palette = []drawing.Color{
	chart.ColorBlue,
	chart.ColorRed,
	chart.ColorGreen,
	{R: 255, G: 165, B: 0, A: 255},
	chart.ColorBlack,
}

// Render draws the lines with ticks on the x axis and the contributor share
// of the population, fixed to [0, 1], on the y axis.
func Render(w io.Writer, title string, lines ...Line) error {
	maxTick := 1
	var series []chart.Series
	for i, l := range lines {
		if len(l.Samples) == 0 {
			continue
		}
		xs := make([]float64, len(l.Samples))
		ys := make([]float64, len(l.Samples))
		for j, s := range l.Samples {
			xs[j] = float64(s.Tick)
			ys[j] = s.ProsocialFraction
			if s.Tick > maxTick {
				maxTick = s.Tick
			}
		}
		// A single point cannot be stroked; repeat it so it shows as a stub.
		if len(xs) == 1 {
			xs = append(xs, xs[0]+1)
			ys = append(ys, ys[0])
		}
		series = append(series, chart.ContinuousSeries{
			Name:    l.Name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: palette[i%len(palette)],
				StrokeWidth: 2.0,
			},
		})
	}
	if len(series) == 0 {
		return ErrNoData
	}

	graph := chart.Chart{
		Title:  title,
		Width:  800,
		Height: 450,
		XAxis: chart.XAxis{
			Name:  "ticks",
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxTick)},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%d", int(f))
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Name:  "% of population",
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Series: series,
	}
	if len(series) > 1 {
		graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
