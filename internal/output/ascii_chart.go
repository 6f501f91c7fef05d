package output

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/d-chambers/simplefire/internal/domain"
)

const (
	chartWidth  = 72
	chartHeight = 16
	yAxisWidth  = 10
)

var (
	axisStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	legendStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// ChartFormatter renders the plan as an ASCII line chart of net worth and
// passive income across the horizon.
type ChartFormatter struct{}

func (c ChartFormatter) Name() string { return "chart" }

func (c ChartFormatter) Format(plan *domain.FirePlan) ([]byte, error) {
	if len(plan.Rows) < 2 {
		return nil, fmt.Errorf("need at least 2 simulated years to chart, got %d", len(plan.Rows))
	}

	netWorth := make([]float64, len(plan.Rows))
	passive := make([]float64, len(plan.Rows))
	for i, row := range plan.Rows {
		netWorth[i] = row.NetWorth.InexactFloat64()
		passive[i] = row.PassiveIncome.InexactFloat64()
	}

	var buf bytes.Buffer
	fmt.Fprintln(&buf, titleStyle.Render("NET WORTH PROJECTION"))
	fmt.Fprintln(&buf)
	renderSeries(&buf, [][]float64{netWorth, passive})
	fmt.Fprintf(&buf, "%s\n", xAxisLabels(plan))
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, legendStyle.Render("Legend: ● Net Worth  ■ Passive Income"))
	return buf.Bytes(), nil
}

func renderSeries(buf *bytes.Buffer, series [][]float64) {
	minVal, maxVal := seriesBounds(series)

	grid := make([][]rune, chartHeight)
	for i := range grid {
		grid[i] = make([]rune, chartWidth)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	chars := []rune{'●', '■', '▲'}
	for s, points := range series {
		char := chars[s%len(chars)]
		prevX, prevY := -1, -1
		for i, point := range points {
			x := int(float64(i) / float64(len(points)-1) * float64(chartWidth-1))
			y := chartHeight - 1 - int((point-minVal)/(maxVal-minVal)*float64(chartHeight-1))
			if x >= 0 && x < chartWidth && y >= 0 && y < chartHeight {
				grid[y][x] = char
			}
			if prevX >= 0 {
				drawLine(grid, prevX, prevY, x, y, char)
			}
			prevX, prevY = x, y
		}
	}

	valueRange := maxVal - minVal
	for i, row := range grid {
		yValue := maxVal - (float64(i)/float64(chartHeight-1))*valueRange
		label := fmt.Sprintf("%*s", yAxisWidth, formatAxisValue(yValue))
		fmt.Fprintf(buf, "%s │ %s\n", axisStyle.Render(label), string(row))
	}
	fmt.Fprintf(buf, "%s └%s\n", strings.Repeat(" ", yAxisWidth), strings.Repeat("─", chartWidth))
}

func seriesBounds(series [][]float64) (float64, float64) {
	minVal := math.Inf(1)
	maxVal := math.Inf(-1)
	for _, points := range series {
		for _, p := range points {
			minVal = math.Min(minVal, p)
			maxVal = math.Max(maxVal, p)
		}
	}
	// padding keeps the extremes off the chart border
	pad := (maxVal - minVal) * 0.05
	if pad == 0 {
		pad = 1
	}
	return minVal - pad, maxVal + pad
}

// drawLine connects two grid points with Bresenham's algorithm, keeping
// already set cells intact.
func drawLine(grid [][]rune, x0, y0, x1, y1 int, char rune) {
	dx := intAbs(x1 - x0)
	dy := intAbs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy
	x, y := x0, y0
	for {
		if x >= 0 && x < len(grid[0]) && y >= 0 && y < len(grid) && grid[y][x] == ' ' {
			grid[y][x] = char
		}
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

func xAxisLabels(plan *domain.FirePlan) string {
	first := plan.Rows[0].Year
	last := plan.Rows[len(plan.Rows)-1].Year
	mid := first + (last-first)/2
	line := fmt.Sprintf("%s%d%s%d%s%d",
		strings.Repeat(" ", yAxisWidth+3),
		first,
		strings.Repeat(" ", chartWidth/2-8),
		mid,
		strings.Repeat(" ", chartWidth/2-8),
		last)
	return axisStyle.Render(line)
}

func formatAxisValue(value float64) string {
	switch {
	case math.Abs(value) >= 1e6:
		return fmt.Sprintf("$%.1fM", value/1e6)
	case math.Abs(value) >= 1e3:
		return fmt.Sprintf("$%.0fK", value/1e3)
	default:
		return fmt.Sprintf("$%.0f", value)
	}
}

func intAbs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
