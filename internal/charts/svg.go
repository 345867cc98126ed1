package charts

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"happydash.dev/internal/happiness"
)

// Static chart names served as SVG.
const (
	StaticPreference = "preference"
	StaticDensity    = "density"
	StaticComparison = "comparison"
)

// StaticKind maps a static chart name onto the view that feeds it.
func StaticKind(name string) (happiness.ViewKind, error) {
	switch name {
	case StaticPreference:
		return happiness.KindPreference, nil
	case StaticDensity, StaticComparison:
		return happiness.KindComparison, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownChart, name)
}

// RenderSVG writes the named static chart for view.
func RenderSVG(w io.Writer, name string, view happiness.View) error {
	switch name {
	case StaticPreference:
		return RenderBarSVG(w, "Countries within the Region, Ranked by Your Preference",
			view.Query.Indicator, view.Rows)
	case StaticDensity:
		return RenderBarSVG(w, "Ranked by Population Density", happiness.Density, byValueDesc(view.Rows, happiness.Density))
	case StaticComparison:
		return RenderComparisonSVG(w, view.Rows)
	}
	return fmt.Errorf("%w: %q", ErrUnknownChart, name)
}

// RenderBarSVG draws one bar per row holding a numeric indicator value, in row order.
func RenderBarSVG(w io.Writer, title, indicator string, rows []happiness.Ranked) error {
	bars := make([]chart.Value, 0, len(rows))
	low, high := 0.0, math.Inf(-1)
	for _, row := range rows {
		v, ok := row.Record.Number(indicator)
		if !ok {
			continue
		}
		bars = append(bars, chart.Value{Label: row.Record.Country, Value: v})
		low = math.Min(low, v)
		high = math.Max(high, v)
	}
	if len(bars) == 0 {
		return fmt.Errorf("%w: no %q values", ErrNoData, indicator)
	}
	if high <= low {
		high = low + 1
	}

	const barWidth, barSpacing = 28, 12
	graph := chart.BarChart{
		Title:      title,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 96}},
		Width:      160 + len(bars)*(barWidth+barSpacing),
		Height:     480,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		XAxis:      chart.Style{TextRotationDegrees: 45},
		YAxis: chart.YAxis{
			Name:  indicator,
			Range: &chart.ContinuousRange{Min: low, Max: high * 1.05},
		},
		Bars: bars,
	}
	return graph.Render(chart.SVG, w)
}

// errorPoints pairs each score with its distance to the lower and upper whisker.
type errorPoints struct {
	plotter.XYs
	plotter.XErrors
}

// RenderComparisonSVG draws the happiness score of each row with its
// confidence interval, highest score at the top.
func RenderComparisonSVG(w io.Writer, rows []happiness.Ranked) error {
	var points errorPoints
	var names []string
	for _, row := range rows {
		score, ok := row.Record.Number(happiness.LadderScore)
		if !ok {
			continue
		}
		low, ok := row.Record.Number(happiness.LowerWhisker)
		if !ok {
			low = score
		}
		high, ok := row.Record.Number(happiness.UpperWhisker)
		if !ok {
			high = score
		}
		points.XYs = append(points.XYs, plotter.XY{X: score, Y: float64(len(names))})
		points.XErrors = append(points.XErrors, struct{ Low, High float64 }{
			Low:  math.Max(score-low, 0),
			High: math.Max(high-score, 0),
		})
		names = append(names, row.Record.Country)
	}
	if len(names) == 0 {
		return fmt.Errorf("%w: no %q values", ErrNoData, happiness.LadderScore)
	}

	p := plot.New()
	p.Title.Text = "Ranked by Happiness Scores"
	p.X.Label.Text = "Happiness Score"
	p.Add(plotter.NewGrid())

	bars, err := plotter.NewXErrorBars(points)
	if err != nil {
		return fmt.Errorf("building error bars: %w", err)
	}
	bars.LineStyle.Width = vg.Points(1.5)

	scatter, err := plotter.NewScatter(points.XYs)
	if err != nil {
		return fmt.Errorf("building score points: %w", err)
	}
	scatter.GlyphStyle.Shape = draw.BoxGlyph{}
	scatter.GlyphStyle.Radius = vg.Points(3)

	p.Add(bars, scatter)
	p.NominalY(names...)

	height := vg.Length(len(names))*0.3*vg.Inch + 1.5*vg.Inch
	writer, err := p.WriterTo(6*vg.Inch, height, "svg")
	if err != nil {
		return fmt.Errorf("creating svg writer: %w", err)
	}
	_, err = writer.WriteTo(w)
	return err
}

// byValueDesc orders rows by indicator, highest first; rows without a value go last.
func byValueDesc(rows []happiness.Ranked, indicator string) []happiness.Ranked {
	sorted := append([]happiness.Ranked(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, aok := sorted[i].Record.Number(indicator)
		b, bok := sorted[j].Record.Number(indicator)
		if !aok || !bok {
			return aok && !bok
		}
		return a > b
	})
	return sorted
}
