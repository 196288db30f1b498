package ui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dialysisdash/adapters/excel"
	"dialysisdash/app"
	"dialysisdash/domain/chart"
	"dialysisdash/domain/facility"
	"dialysisdash/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSV = `Name,City,StateCode,Network,Region,Division,ProfitStatus,HospitalAffiliation,TotalStaff,TotalPatients,TotalStations,SRR,PctgBlack,PctgHispanic,PctgBlackACS,PctgHispanicACS,PctgPoorEnglish,UnemploymentRate,PctgFamilyBelowFPL,ProviderID
Alpha Dialysis,Boston,MA,1,Northeast,New England,Profit,Yes,20,100,20,1.10,30,10,25,12,3.5,4.1,9.0,P01
Beta Kidney,Atlanta,GA,6,South,South Atlantic,Profit,No,15,50,10,0.90,55,5,48,6,1.2,5.0,14.5,P02
Gamma Renal,Denver,CO,15,West,Mountain,Non-Profit,No,12,60,12,1.30,8,35,7,30,6.0,3.9,10.2,P03
Delta Care,Houston,TX,14,South,West South Central,Profit,Yes,30,120,24,0.80,35,40,30,38,12.0,4.8,16.0,P04
Epsilon,Chicago,IL,10,Midwest,East North Central,Non-Profit,Yes,18,90,15,1.00,45,20,40,22,5.5,6.2,13.0,P05
Zeta,Seattle,WA,16,West,Pacific,Profit,No,10,40,8,1.20,10,12,9,11,4.0,3.5,8.0,P06
`

func init() {
	gin.SetMode(gin.TestMode)
}

type countingObserver struct {
	routes map[string]int
}

func (o *countingObserver) ObserveRequest(route string, code int) {
	o.routes[route]++
}

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "facilities.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0o644))

	ds, _, err := app.NewLoader(excel.NewDataReader(path), nil).Load(context.Background())
	require.NoError(t, err)

	dashboard := app.NewDashboard(ds, facility.DefaultCatalog(), app.WithPageSize(4))
	s, err := NewServer(dashboard, opts...)
	require.NoError(t, err)
	return s
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestIndexPage(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, "<h2>Dialysis Dashboard</h2>")
	assert.Contains(t, body, "Explore Socioeconomic Factors of Unplanned Hospital Readmission.")
	assert.Contains(t, body, `<div id="scatter_graph_div" class="row">`)
	assert.Contains(t, body, `<option value="StaffPatientRatio" selected>`)
	assert.Contains(t, body, "<td>Alpha Dialysis</td>")
	assert.NotContains(t, body, "<td>Epsilon</td>")
	assert.Contains(t, body, "Endnote: This is developed using Go:")
	assert.Contains(t, body, "<h6")
}

func TestIndexPageHonorsQuery(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/?arrangement=side&risk_factor=PctgBlack&stratification=Division&page=1")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, `<div id="histogram2_graph_div" class="four columns">`)
	assert.Contains(t, body, `<option value="PctgBlack" selected>`)
	assert.Contains(t, body, `<option value="Division" selected>`)
	assert.Contains(t, body, "<td>Epsilon</td>")
	assert.NotContains(t, body, "<td>Alpha Dialysis</td>")
}

func TestIndexPageRejectsBadSelection(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/?risk_factor=Region")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(t, s, "/?page=two")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(t), "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, 6.0, body["rows"])
}

func TestAPIOptions(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/options")
	require.Equal(t, http.StatusOK, rec.Code)

	opts := decode[optionsResponse](t, rec)
	assert.Len(t, opts.Catalog.RiskFactors, 9)
	assert.Len(t, opts.Catalog.Stratifications, 6)
	assert.Equal(t, chart.ArrangementStacked, opts.Defaults.Arrangement)
	assert.Equal(t, 6, opts.Rows)
}

func TestAPILayout(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/api/layout?arrangement=side")
	require.Equal(t, http.StatusOK, rec.Code)
	layout := decode[chart.Layout](t, rec)
	for _, id := range chart.PanelIDs() {
		assert.Equal(t, "four columns", layout.ClassFor(id))
	}

	rec = get(t, s, "/api/layout")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "row", decode[chart.Layout](t, rec).ClassFor(chart.PanelScatter))

	rec = get(t, s, "/api/layout?arrangement=grid")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errors.CodeInvalidInput, decode[errorResponse](t, rec).Code)
}

func TestAPICharts(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/api/charts?risk_factor=PctgHispanic&stratification=ProfitStatus")
	require.Equal(t, http.StatusOK, rec.Code)
	set := decode[chart.Set](t, rec)
	assert.Equal(t, "PctgHispanic", set.RiskFactor)
	require.Len(t, set.Charts, 3)
	assert.Equal(t, chart.PanelScatter, set.Charts[0].ID)
	assert.Equal(t, "ProfitStatus", set.Charts[0].ColorField)

	rec = get(t, s, "/api/charts?risk_factor=SRR")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errors.CodeInvalidInput, decode[errorResponse](t, rec).Code)
}

func TestAPITable(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/api/table?page=1")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[app.TablePage](t, rec)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.PageCount)
	assert.Len(t, page.Rows, 2)
	assert.Equal(t, "Epsilon", page.Rows[0][0])

	rec = get(t, s, "/api/table?page=42")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[app.TablePage](t, rec).Page)

	rec = get(t, s, "/api/table?page=last")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPIView(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/view?arrangement=side&stratification=Network")
	require.Equal(t, http.StatusOK, rec.Code)

	view := decode[app.View](t, rec)
	assert.Equal(t, chart.ArrangementSideBySide, view.State.Arrangement)
	assert.Equal(t, facility.FieldStaffPatientRatio, view.State.RiskFactor)
	assert.Equal(t, facility.FieldNetwork, view.State.Stratification)
	assert.Equal(t, "four columns", view.Layout.ClassFor(chart.PanelOutcomeBars))
	assert.Len(t, view.Table.Rows, 4)
}

func TestAPIUnknownEndpoint(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/facilities")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, errors.CodeNotFound, decode[errorResponse](t, rec).Code)
}

func TestChartImage(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/charts/histogram_graph.png?stratification=Region")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG"))

	assert.Equal(t, http.StatusNotFound, get(t, s, "/charts/pie_graph.png").Code)
	assert.Equal(t, http.StatusNotFound, get(t, s, "/charts/scatter_graph.svg").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, s, "/charts/scatter_graph.png?stratification=SRR").Code)
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/healthz")
	assert.Len(t, rec.Header().Get(requestIDHeader), 36)

	const id = "6f1c2d3e-4a5b-4c6d-8e7f-901234567890"
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, id)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(requestIDHeader))
}

func TestRequestObserver(t *testing.T) {
	obs := &countingObserver{routes: map[string]int{}}
	s := newTestServer(t, WithRequestObserver(obs))

	get(t, s, "/healthz")
	get(t, s, "/api/table")
	get(t, s, "/api/table?page=1")
	get(t, s, "/nowhere")

	assert.Equal(t, 1, obs.routes["/healthz"])
	assert.Equal(t, 2, obs.routes["/api/table"])
	assert.Equal(t, 1, obs.routes["unmatched"])
}

func TestStaticAssets(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/static/js/dashboard.js")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/charts?")

	assert.Equal(t, http.StatusOK, get(t, s, "/static/css/dashboard.css").Code)
}
