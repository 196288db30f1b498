package ui

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"dialysisdash/app"
	"dialysisdash/domain/chart"
	"dialysisdash/domain/facility"
	"dialysisdash/internal/errors"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// API serves the dashboard JSON endpoints. Each endpoint recomputes one
// region of the page so the client only refetches what a widget affects.
type API struct {
	router    *chi.Mux
	dashboard *app.Dashboard
}

// optionsResponse is everything the client needs to build the dropdowns
type optionsResponse struct {
	Catalog  facility.Catalog `json:"catalog"`
	Defaults app.ViewState    `json:"defaults"`
	Rows     int              `json:"rows"`
}

// errorResponse is the body of every non-2xx API reply
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func newAPI(dashboard *app.Dashboard) *API {
	a := &API{
		router:    chi.NewRouter(),
		dashboard: dashboard,
	}
	a.router.Use(middleware.Recoverer)
	a.router.Route("/api", func(r chi.Router) {
		r.Get("/options", a.handleOptions)
		r.Get("/layout", a.handleLayout)
		r.Get("/charts", a.handleCharts)
		r.Get("/table", a.handleTable)
		r.Get("/view", a.handleView)
	})
	a.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errors.NotFound("endpoint "+r.URL.Path))
	})
	return a
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

func (a *API) handleOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, optionsResponse{
		Catalog:  a.dashboard.Catalog(),
		Defaults: a.dashboard.Defaults(),
		Rows:     a.dashboard.RowCount(),
	})
}

func (a *API) handleLayout(w http.ResponseWriter, r *http.Request) {
	state, err := stateFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}
	state = a.dashboard.Normalize(state)

	layout, err := a.dashboard.Layout(state.Arrangement)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, layout)
}

func (a *API) handleCharts(w http.ResponseWriter, r *http.Request) {
	state, err := stateFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}
	state = a.dashboard.Normalize(state)

	set, err := a.dashboard.Charts(state.RiskFactor, state.Stratification)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

func (a *API) handleTable(w http.ResponseWriter, r *http.Request) {
	state, err := stateFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a.dashboard.Table(state.Page))
}

func (a *API) handleView(w http.ResponseWriter, r *http.Request) {
	state, err := stateFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := a.dashboard.Render(state)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// stateFromQuery reads a selection tuple; absent values stay empty
func stateFromQuery(q url.Values) (app.ViewState, error) {
	state := app.ViewState{
		Arrangement:    chart.Arrangement(q.Get("arrangement")),
		RiskFactor:     facility.Field(q.Get("risk_factor")),
		Stratification: facility.Field(q.Get("stratification")),
	}
	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return state, errors.InvalidInput("page must be an integer, got " + strconv.Quote(raw))
		}
		state.Page = page
	}
	return state, nil
}

// statusFor maps error codes onto HTTP statuses
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if status == http.StatusInternalServerError {
		log.Printf("[API] internal error: %v", err)
		code = errors.CodeInternalError
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] failed to encode response: %v", err)
	}
}
