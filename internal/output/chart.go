package output

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/d-chambers/simplefire/internal/domain"
)

// RenderGrowthChart renders a PNG line chart of net worth and passive income
// over the simulated horizon. Returns raw PNG bytes.
func RenderGrowthChart(plan *domain.FirePlan) ([]byte, error) {
	if len(plan.Rows) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(plan.Rows))
	}

	xValues := make([]float64, len(plan.Rows))
	netWorthY := make([]float64, len(plan.Rows))
	passiveY := make([]float64, len(plan.Rows))

	for i, row := range plan.Rows {
		xValues[i] = float64(row.Year)
		netWorthY[i] = row.NetWorth.InexactFloat64()
		passiveY[i] = row.PassiveIncome.InexactFloat64()
	}

	netWorthSeries := chart.ContinuousSeries{
		Name: "Net Worth",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: netWorthY,
	}

	passiveSeries := chart.ContinuousSeries{
		Name: "Passive Income",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"), // gray-400
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues,
		YValues: passiveY,
	}

	graph := chart.Chart{
		Title:  "FIRE Projection",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0fk", f/1000)
				}
				return ""
			},
		},
		Series: []chart.Series{
			netWorthSeries,
			passiveSeries,
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
