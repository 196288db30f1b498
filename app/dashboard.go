package app

import (
	"fmt"
	"time"

	"dialysisdash/domain/chart"
	"dialysisdash/domain/facility"
	"dialysisdash/internal/errors"
)

// DefaultPageSize is the number of rows per table page
const DefaultPageSize = 10

// ViewState is the full selection tuple the page renders from. Empty fields
// fall back to the catalog defaults.
type ViewState struct {
	Arrangement    chart.Arrangement `json:"arrangement" form:"arrangement"`
	RiskFactor     facility.Field    `json:"risk_factor" form:"risk_factor"`
	Stratification facility.Field    `json:"stratification" form:"stratification"`
	Page           int               `json:"page" form:"page"`
}

// View is everything the page shows for one ViewState
type View struct {
	State  ViewState    `json:"state"`
	Layout chart.Layout `json:"layout"`
	Charts chart.Set    `json:"charts"`
	Table  TablePage    `json:"table"`
}

// TablePage is one page of the read-only data table
type TablePage struct {
	Columns   []string   `json:"columns"`
	Rows      [][]string `json:"rows"`
	Page      int        `json:"page"`
	PageSize  int        `json:"page_size"`
	PageCount int        `json:"page_count"`
	TotalRows int        `json:"total_rows"`
}

// BindObserver is told about every chart bind; used for metrics
type BindObserver interface {
	ObserveBind(riskFactor, stratification string, elapsed time.Duration, err error)
}

// Dashboard is the view-model over the shared read-only dataset. Each method
// is a pure function of its inputs and the dataset, so an arrangement change
// only touches Layout, a field change only Charts and a page change only Table.
type Dashboard struct {
	dataset  *facility.Dataset
	catalog  facility.Catalog
	binder   *ChartBinder
	pageSize int
	observer BindObserver
}

// DashboardOption configures a Dashboard
type DashboardOption func(*Dashboard)

// WithPageSize overrides the table page size
func WithPageSize(n int) DashboardOption {
	return func(d *Dashboard) {
		if n > 0 {
			d.pageSize = n
		}
	}
}

// WithBindObserver registers an observer for chart binds
func WithBindObserver(o BindObserver) DashboardOption {
	return func(d *Dashboard) {
		d.observer = o
	}
}

// NewDashboard builds the view-model once at startup
func NewDashboard(dataset *facility.Dataset, catalog facility.Catalog, opts ...DashboardOption) *Dashboard {
	d := &Dashboard{
		dataset:  dataset,
		catalog:  catalog,
		binder:   NewChartBinder(dataset, catalog),
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Catalog returns the option catalog the dashboard validates against
func (d *Dashboard) Catalog() facility.Catalog {
	return d.catalog
}

// RowCount returns the number of loaded facilities
func (d *Dashboard) RowCount() int {
	return d.dataset.Len()
}

// Defaults returns the initial selection
func (d *Dashboard) Defaults() ViewState {
	return ViewState{
		Arrangement:    chart.Arrangement(d.catalog.Arrangements[0].Value),
		RiskFactor:     facility.Field(d.catalog.RiskFactors[0].Value),
		Stratification: facility.Field(d.catalog.Stratifications[0].Value),
	}
}

// Normalize fills empty selections with defaults
func (d *Dashboard) Normalize(state ViewState) ViewState {
	def := d.Defaults()
	if state.Arrangement == "" {
		state.Arrangement = def.Arrangement
	}
	if state.RiskFactor == "" {
		state.RiskFactor = def.RiskFactor
	}
	if state.Stratification == "" {
		state.Stratification = def.Stratification
	}
	return state
}

// Layout returns the panel arrangement
func (d *Dashboard) Layout(arrangement chart.Arrangement) (chart.Layout, error) {
	if !d.catalog.IsArrangement(string(arrangement)) {
		return chart.Layout{}, errors.InvalidInput(fmt.Sprintf("unknown arrangement %q", arrangement))
	}
	return SelectLayout(arrangement)
}

// Charts returns the three linked chart descriptors
func (d *Dashboard) Charts(riskFactor, stratification facility.Field) (chart.Set, error) {
	start := time.Now()
	set, err := d.binder.Bind(riskFactor, stratification)
	if d.observer != nil {
		d.observer.ObserveBind(string(riskFactor), string(stratification), time.Since(start), err)
	}
	return set, err
}

// Table returns one page of every loaded column. The page index is clamped
// to the valid range.
func (d *Dashboard) Table(page int) TablePage {
	total := d.dataset.Len()
	pageCount := (total + d.pageSize - 1) / d.pageSize
	if pageCount == 0 {
		pageCount = 1
	}
	if page < 0 {
		page = 0
	}
	if page > pageCount-1 {
		page = pageCount - 1
	}

	start := page * d.pageSize
	end := min(start+d.pageSize, total)
	rows := make([][]string, 0, end-start)
	for i := start; i < end; i++ {
		rows = append(rows, d.dataset.Row(i))
	}

	return TablePage{
		Columns:   d.dataset.Columns(),
		Rows:      rows,
		Page:      page,
		PageSize:  d.pageSize,
		PageCount: pageCount,
		TotalRows: total,
	}
}

// Render produces the whole view for a selection tuple
func (d *Dashboard) Render(state ViewState) (*View, error) {
	state = d.Normalize(state)

	layout, err := d.Layout(state.Arrangement)
	if err != nil {
		return nil, err
	}
	charts, err := d.Charts(state.RiskFactor, state.Stratification)
	if err != nil {
		return nil, err
	}
	table := d.Table(state.Page)
	state.Page = table.Page

	return &View{
		State:  state,
		Layout: layout,
		Charts: charts,
		Table:  table,
	}, nil
}
