package plot

import (
	"bytes"
	"image/color"
	"testing"

	"dialysisdash/domain/chart"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestRenderScatterPNG(t *testing.T) {
	d := chart.Descriptor{
		ID:     chart.PanelScatter,
		Kind:   chart.KindScatter,
		Title:  "SRR vs Staff Patient Ratio (Facility) by Census Region",
		XLabel: "Staff Patient Ratio (Facility)",
		YLabel: "SRR",
		Series: []chart.Series{
			{
				Name:   "Northeast",
				Color:  chart.Palette[0],
				Points: []chart.Point{{X: 0.2, Y: 1.1}, {X: 0.25, Y: 0.9}},
				Trend:  &chart.TrendLine{Intercept: 3.1, Slope: -10, X0: 0.2, X1: 0.25, N: 2},
			},
			{Name: "South", Color: chart.Palette[1], Points: []chart.Point{{X: 0.3, Y: 0.8}}},
			{Name: "Empty", Color: chart.Palette[2]},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewRenderer().Render(&buf, d, FormatPNG))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestRenderBarsSVG(t *testing.T) {
	d := chart.Descriptor{
		ID:    chart.PanelOutcomeBars,
		Kind:  chart.KindBar,
		Title: "Average SRR by Census Region",
		Bars: []chart.Bar{
			{Category: "South", Color: chart.Palette[1], Mean: 0.875, Count: 4},
			{Category: "West", Color: chart.Palette[2], Mean: 1.2, Count: 3},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewRenderer().Render(&buf, d, FormatSVG))
	assert.Contains(t, buf.String(), "<svg")
}

func TestRenderUnknownKind(t *testing.T) {
	var buf bytes.Buffer
	err := NewRenderer().Render(&buf, chart.Descriptor{ID: "x", Kind: "pie"}, FormatPNG)
	assert.Error(t, err)
}

func TestParseHexColor(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 0x63, G: 0x6E, B: 0xFA, A: 255}, parseHexColor("#636EFA"))
	assert.Equal(t, color.Gray{Y: 128}, parseHexColor("teal"))
	assert.Equal(t, color.Gray{Y: 128}, parseHexColor("#zzzzzz"))
}
