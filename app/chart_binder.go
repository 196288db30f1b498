package app

import (
	"fmt"
	"math"
	"sort"

	"dialysisdash/domain/chart"
	"dialysisdash/domain/facility"
	"dialysisdash/internal/errors"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// ChartBinder turns a (risk factor, stratification) selection into the three
// linked chart descriptors. It only reads the dataset.
type ChartBinder struct {
	dataset *facility.Dataset
	catalog facility.Catalog
}

// NewChartBinder creates a binder over a loaded dataset
func NewChartBinder(dataset *facility.Dataset, catalog facility.Catalog) *ChartBinder {
	return &ChartBinder{dataset: dataset, catalog: catalog}
}

// Bind builds the scatter and the two mean-per-category bar charts
func (b *ChartBinder) Bind(riskFactor, stratification facility.Field) (chart.Set, error) {
	if !b.catalog.IsRiskFactor(riskFactor) {
		return chart.Set{}, errors.InvalidInput(fmt.Sprintf("unknown risk factor %q", riskFactor))
	}
	if !b.catalog.IsStratification(stratification) {
		return chart.Set{}, errors.InvalidInput(fmt.Sprintf("unknown stratification %q", stratification))
	}

	outcome := b.catalog.Outcome
	xs, okX := b.dataset.NumericValues(riskFactor)
	ys, okY := b.dataset.NumericValues(outcome)
	groups, okG := b.dataset.TextValues(stratification)
	labels, okL := b.dataset.TextValues(facility.FieldFacilityInfo)
	if !okX || !okY || !okG || !okL {
		return chart.Set{}, errors.InternalError("selected fields are not readable from the dataset")
	}

	categories, colors := categoryColors(groups)

	rfLabel := b.catalog.LabelOf(string(riskFactor))
	stLabel := b.catalog.LabelOf(string(stratification))

	scatter := chart.Descriptor{
		ID:         chart.PanelScatter,
		Kind:       chart.KindScatter,
		Title:      fmt.Sprintf("%s vs %s by %s", outcome, rfLabel, stLabel),
		XField:     string(riskFactor),
		YField:     string(outcome),
		ColorField: string(stratification),
		XLabel:     rfLabel,
		YLabel:     string(outcome),
		Series:     scatterSeries(categories, colors, groups, xs, ys, labels),
	}

	outcomeBars := chart.Descriptor{
		ID:         chart.PanelOutcomeBars,
		Kind:       chart.KindBar,
		Title:      fmt.Sprintf("Average %s by %s", outcome, stLabel),
		XField:     string(stratification),
		YField:     string(outcome),
		ColorField: string(stratification),
		XLabel:     stLabel,
		YLabel:     fmt.Sprintf("avg of %s", outcome),
		Bars:       meanBars(categories, colors, groups, ys),
	}

	riskBars := chart.Descriptor{
		ID:         chart.PanelRiskFactorBar,
		Kind:       chart.KindBar,
		Title:      fmt.Sprintf("Average %s by %s", rfLabel, stLabel),
		XField:     string(stratification),
		YField:     string(riskFactor),
		ColorField: string(stratification),
		XLabel:     stLabel,
		YLabel:     fmt.Sprintf("avg of %s", riskFactor),
		Bars:       meanBars(categories, colors, groups, xs),
	}

	return chart.Set{
		RiskFactor:     string(riskFactor),
		Stratification: string(stratification),
		Charts:         []chart.Descriptor{scatter, outcomeBars, riskBars},
	}, nil
}

// categoryColors orders categories by first appearance and assigns palette
// colors in that order, so a category has the same color in every panel.
func categoryColors(groups []string) ([]string, map[string]string) {
	var categories []string
	colors := make(map[string]string)
	for _, g := range groups {
		if _, ok := colors[g]; ok {
			continue
		}
		colors[g] = chart.ColorAt(len(categories))
		categories = append(categories, g)
	}
	return categories, colors
}

func scatterSeries(categories []string, colors map[string]string, groups []string, xs, ys []float64, labels []string) []chart.Series {
	byCategory := make(map[string]*chart.Series, len(categories))
	series := make([]chart.Series, len(categories))
	for i, c := range categories {
		series[i] = chart.Series{Name: c, Color: colors[c]}
		byCategory[c] = &series[i]
	}

	for i, g := range groups {
		s := byCategory[g]
		s.Points = append(s.Points, chart.Point{X: xs[i], Y: ys[i], Label: labels[i]})
	}

	for i := range series {
		series[i].Trend = fitTrend(series[i].Points)
	}
	return series
}

// fitTrend fits an ordinary least squares line through the points. Groups
// with fewer than two points or no spread in x get no line.
func fitTrend(points []chart.Point) *chart.TrendLine {
	if len(points) < 2 {
		return nil
	}
	x := make([]float64, len(points))
	y := make([]float64, len(points))
	for i, p := range points {
		x[i], y[i] = p.X, p.Y
	}

	if v := stat.Variance(x, nil); v == 0 || math.IsNaN(v) {
		return nil
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	r2 := stat.RSquared(x, y, nil, alpha, beta)
	if math.IsNaN(r2) {
		// constant y: the fit is exact
		r2 = 1
	}

	x0, x1 := x[0], x[0]
	for _, v := range x[1:] {
		x0 = math.Min(x0, v)
		x1 = math.Max(x1, v)
	}

	return &chart.TrendLine{
		Intercept: alpha,
		Slope:     beta,
		RSquared:  r2,
		X0:        x0,
		X1:        x1,
		N:         len(points),
	}
}

// meanBars averages values per category and orders bars by ascending mean,
// breaking ties by category name.
func meanBars(categories []string, colors map[string]string, groups []string, values []float64) []chart.Bar {
	buckets := make(map[string]stats.Float64Data, len(categories))
	for i, g := range groups {
		buckets[g] = append(buckets[g], values[i])
	}

	bars := make([]chart.Bar, 0, len(categories))
	for _, c := range categories {
		mean, err := stats.Mean(buckets[c])
		if err != nil {
			continue
		}
		bars = append(bars, chart.Bar{
			Category: c,
			Color:    colors[c],
			Mean:     mean,
			Count:    len(buckets[c]),
		})
	}

	sort.SliceStable(bars, func(i, j int) bool {
		if bars[i].Mean != bars[j].Mean {
			return bars[i].Mean < bars[j].Mean
		}
		return bars[i].Category < bars[j].Category
	})
	return bars
}
