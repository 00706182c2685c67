package http

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/couchcryptid/city-temp-map/internal/domain"
)

var monthTicks = []chart.Tick{
	{Value: 1, Label: "Jan"},
	{Value: 2, Label: "Feb"},
	{Value: 3, Label: "Mar"},
	{Value: 4, Label: "Apr"},
	{Value: 5, Label: "May"},
	{Value: 6, Label: "Jun"},
	{Value: 7, Label: "Jul"},
	{Value: 8, Label: "Aug"},
	{Value: 9, Label: "Sep"},
	{Value: 10, Label: "Oct"},
	{Value: 11, Label: "Nov"},
	{Value: 12, Label: "Dec"},
}

var chartLineColor = drawing.Color{R: 217, G: 89, B: 26, A: 255}

// renderCityChart draws one city's monthly series as a PNG sized for a
// marker popup. Months without a value leave gaps in the x range rather
// than plotting as zero.
func renderCityChart(rec domain.CityRecord) (*bytes.Buffer, error) {
	var xs, ys []float64
	for i, v := range rec.MonthValues() {
		if v == nil {
			continue
		}
		xs = append(xs, float64(i+1))
		ys = append(ys, *v)
	}
	if len(xs) == 0 {
		return nil, fmt.Errorf("no monthly values for %s", rec.City)
	}

	minY, maxY := ys[0], ys[0]
	for _, y := range ys[1:] {
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s, %s", rec.City, rec.Country),
		Width:  420,
		Height: 260,
		XAxis: chart.XAxis{
			Ticks: monthTicks,
			Range: &chart.ContinuousRange{Min: 1, Max: 12},
		},
		YAxis: chart.YAxis{
			Name: "°C",
			// Padding keeps a flat series from collapsing the range.
			Range: &chart.ContinuousRange{Min: minY - 3, Max: maxY + 3},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name: "Monthly mean",
				Style: chart.Style{
					StrokeColor: chartLineColor,
					StrokeWidth: 2.5,
					DotColor:    chartLineColor,
					DotWidth:    4,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}

	if rec.YearlyAvg != nil {
		graph.Series = append(graph.Series, chart.ContinuousSeries{
			Name: "Yearly mean",
			Style: chart.Style{
				StrokeColor:     chart.ColorAlternateGray,
				StrokeWidth:     1,
				StrokeDashArray: []float64{4, 3},
			},
			XValues: []float64{1, 12},
			YValues: []float64{*rec.YearlyAvg, *rec.YearlyAvg},
		})
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return &buf, nil
}
