package ui

import (
	"bytes"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"dialysisdash/adapters/plot"
	"dialysisdash/app"
	"dialysisdash/domain/chart"
	"dialysisdash/domain/facility"
	"dialysisdash/internal/errors"

	"github.com/gin-gonic/gin"
)

// indexPage is the data behind templates/index.html
type indexPage struct {
	Title      string
	Subtitle   string
	View       *app.View
	Catalog    facility.Catalog
	PanelIDs   []string
	ChartsJSON template.JS
	Endnote    template.HTML
}

// handleIndex renders the full page for the selection in the query string
func (s *Server) handleIndex(c *gin.Context) {
	var state app.ViewState
	if err := c.ShouldBindQuery(&state); err != nil {
		s.abortWithError(c, errors.InvalidInput("invalid query: "+err.Error()))
		return
	}

	view, err := s.dashboard.Render(state)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	charts, err := json.Marshal(view.Charts)
	if err != nil {
		s.abortWithError(c, errors.Wrap(err, "failed to encode charts"))
		return
	}

	s.renderTemplate(c, "index.html", indexPage{
		Title:      pageTitle,
		Subtitle:   pageSubtitle,
		View:       view,
		Catalog:    s.dashboard.Catalog(),
		PanelIDs:   chart.PanelIDs(),
		ChartsJSON: template.JS(charts),
		Endnote:    s.endnote,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "rows": s.dashboard.RowCount()})
}

// handleChartImage serves /charts/<panel>.png for the selected fields
func (s *Server) handleChartImage(c *gin.Context) {
	file := c.Param("file")
	id, ok := strings.CutSuffix(file, ".png")
	if !ok {
		s.abortWithError(c, errors.NotFound("chart image "+file))
		return
	}

	state, err := stateFromQuery(c.Request.URL.Query())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	state = s.dashboard.Normalize(state)

	set, err := s.dashboard.Charts(state.RiskFactor, state.Stratification)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	desc, ok := set.Get(id)
	if !ok {
		s.abortWithError(c, errors.NotFound("chart "+id))
		return
	}

	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, desc, plot.FormatPNG); err != nil {
		s.abortWithError(c, errors.Wrap(err, "failed to render chart"))
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (s *Server) abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		code = errors.CodeInternalError
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: err.Error(), Code: code})
}
