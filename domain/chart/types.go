// Package chart holds render-ready chart descriptors. They carry data
// bindings and computed values only; drawing is left to the client or to the
// PNG renderer.
package chart

// Kind is the chart type
type Kind string

const (
	KindScatter Kind = "scatter"
	KindBar     Kind = "bar"
)

// Panel IDs, one per chart container on the page
const (
	PanelScatter       = "scatter_graph"
	PanelOutcomeBars   = "histogram_graph"
	PanelRiskFactorBar = "histogram2_graph"
)

// Descriptor is one chart panel.
type Descriptor struct {
	ID         string `json:"id"`
	Kind       Kind   `json:"kind"`
	Title      string `json:"title"`
	XField     string `json:"x_field"`
	YField     string `json:"y_field"`
	ColorField string `json:"color_field"`
	XLabel     string `json:"x_label"`
	YLabel     string `json:"y_label"`

	// Series is set for scatter charts, one per category.
	Series []Series `json:"series,omitempty"`
	// Bars is set for bar charts, in display order.
	Bars []Bar `json:"bars,omitempty"`
}

// Fields returns every record field the descriptor binds to.
func (d Descriptor) Fields() []string {
	return []string{d.XField, d.YField, d.ColorField}
}

// Series is one colored group of scatter points.
type Series struct {
	Name   string     `json:"name"`
	Color  string     `json:"color"`
	Points []Point    `json:"points"`
	Trend  *TrendLine `json:"trend,omitempty"`
}

// Point is a single facility on the scatter.
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label"`
}

// TrendLine is an ordinary-least-squares fit y = Intercept + Slope*x drawn
// between X0 and X1.
type TrendLine struct {
	Intercept float64 `json:"intercept"`
	Slope     float64 `json:"slope"`
	RSquared  float64 `json:"r_squared"`
	X0        float64 `json:"x0"`
	X1        float64 `json:"x1"`
	N         int     `json:"n"`
}

// At evaluates the fitted line.
func (t TrendLine) At(x float64) float64 {
	return t.Intercept + t.Slope*x
}

// Bar is the mean of a field for one category.
type Bar struct {
	Category string  `json:"category"`
	Color    string  `json:"color"`
	Mean     float64 `json:"mean"`
	Count    int     `json:"count"`
}

// Set is the three linked panels for one (risk factor, stratification) pair.
type Set struct {
	RiskFactor     string       `json:"risk_factor"`
	Stratification string       `json:"stratification"`
	Charts         []Descriptor `json:"charts"`
}

// Get returns the panel with the given ID.
func (s Set) Get(id string) (Descriptor, bool) {
	for _, d := range s.Charts {
		if d.ID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Palette is the qualitative color sequence assigned to categories in
// first-appearance order.
var Palette = []string{
	"#636EFA", "#EF553B", "#00CC96", "#AB63FA", "#FFA15A",
	"#19D3F3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52",
}

// ColorAt returns the palette color for the i-th category, cycling.
func ColorAt(i int) string {
	return Palette[i%len(Palette)]
}
