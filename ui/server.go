package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"dialysisdash/adapters/plot"
	"dialysisdash/app"
	"dialysisdash/internal"

	"github.com/gin-gonic/gin"
)

//go:embed templates/* static/* content/*
var embeddedFiles embed.FS

const (
	pageTitle    = "Dialysis Dashboard"
	pageSubtitle = "Explore Socioeconomic Factors of Unplanned Hospital Readmission."
)

// RequestObserver is told about every served request
type RequestObserver interface {
	ObserveRequest(route string, code int)
}

// Server is the dashboard web server
type Server struct {
	router    *gin.Engine
	dashboard *app.Dashboard
	renderer  *plot.Renderer
	templates *template.Template
	endnote   template.HTML
	observer  RequestObserver
	logger    *internal.Logger
}

// Option configures a Server
type Option func(*Server)

// WithRequestObserver counts requests, typically into prometheus
func WithRequestObserver(o RequestObserver) Option {
	return func(s *Server) {
		s.observer = o
	}
}

// WithLogger overrides the default logger
func WithLogger(l *internal.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer wires routes over a ready dashboard
func NewServer(dashboard *app.Dashboard, opts ...Option) (*Server, error) {
	s := &Server{
		router:    gin.New(),
		dashboard: dashboard,
		renderer:  plot.NewRenderer(),
		logger:    internal.DefaultLogger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("Server")

	templates, err := template.New("").Funcs(templateFuncs()).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	s.templates = templates

	endnote, err := renderMarkdown(embeddedFiles, "content/endnote.md")
	if err != nil {
		return nil, fmt.Errorf("failed to render endnote: %w", err)
	}
	s.endnote = endnote

	if err := s.setupMiddleware(); err != nil {
		return nil, err
	}
	s.setupRoutes()
	return s, nil
}

// setupMiddleware configures gin middleware and static assets
func (s *Server) setupMiddleware() error {
	s.router.Use(gin.Recovery())
	s.router.Use(requestID())
	s.router.Use(s.accessLog())

	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		return fmt.Errorf("failed to create static filesystem: %w", err)
	}
	s.router.StaticFS("/static", http.FS(staticFS))
	return nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/charts/:file", s.handleChartImage)

	// JSON API lives on a chi router
	s.router.Any("/api/*path", gin.WrapH(newAPI(s.dashboard)))
}

// Handler exposes the router for http.Server and tests
func (s *Server) Handler() http.Handler {
	return s.router
}
