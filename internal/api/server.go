package api

import (
	"context"
	"image"
	"log/slog"
	"net/http"
	"sync"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/smazurov/camview/internal/api/models"
	"github.com/smazurov/camview/internal/capture"
	"github.com/smazurov/camview/internal/devices"
	"github.com/smazurov/camview/internal/events"
	"github.com/smazurov/camview/internal/logging"
	"github.com/smazurov/camview/internal/version"
	"github.com/smazurov/camview/internal/view"
)

// Camera is the capture side the API drives. *capture.Worker satisfies it.
type Camera interface {
	Info() capture.Info
	Frames() uint64
	Get(p capture.Param) float64
	Range(p capture.Param) (lo, hi float64, ok bool)
	Set(p capture.Param, v float64) bool
}

// Viewer is the presentation side the API drives. *view.Controller
// satisfies it.
type Viewer interface {
	State() view.State
	Rotate() int
	SetFlipVertical(on bool)
	SetFlipHorizontal(on bool)
	SetMode(m view.Mode)
	ResetZoom()
	ClearROI()
	HandlePointer(ev view.PointerEvent) (image.Point, error)
	Save() (view.SaveResult, error)
	SaveAs(path string) (view.SaveResult, error)
	Compose() *image.RGBA
}

// Options configures the API server.
type Options struct {
	AuthUsername      string
	AuthPassword      string
	Camera            Camera
	Viewer            Viewer
	EventBus          *events.Bus
	FindDevices       func() ([]devices.DeviceInfo, error)
	PrometheusHandler http.Handler // Optional Prometheus metrics handler
}

// Server is the huma v2 control API.
type Server struct {
	api        huma.API
	mux        *http.ServeMux
	mu         sync.Mutex
	httpServer *http.Server
	options    *Options
	camera     Camera
	viewer     Viewer
	eventBus   *events.Bus
	logger     *slog.Logger
}

// NewServer creates a new API server with Huma v2 using Go 1.22+ native routing
func NewServer(opts *Options) *Server {
	mux := http.NewServeMux()

	corsConfig := DefaultCORSConfig()
	AddCORSHandler(mux, corsConfig)

	config := huma.DefaultConfig("camview API", version.Version)
	config.Info.Description = "Control API for the camview webcam viewer"
	// Empty servers list will make OpenAPI use relative paths, working with any host
	config.Servers = []*huma.Server{}
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"basicAuth": {
			Type:   "http",
			Scheme: "basic",
		},
	}

	api := humago.New(mux, config)

	bus := opts.EventBus
	if bus == nil {
		bus = events.New()
	}

	server := &Server{
		api:      api,
		mux:      mux,
		options:  opts,
		camera:   opts.Camera,
		viewer:   opts.Viewer,
		eventBus: bus,
		logger:   logging.GetLogger("api"),
	}

	// CORS first, then request logging, then auth
	api.UseMiddleware(NewCORSMiddleware(corsConfig))
	api.UseMiddleware(HTTPLoggingMiddleware)
	if opts.AuthUsername != "" && opts.AuthPassword != "" {
		api.UseMiddleware(server.basicAuthMiddleware(opts.AuthUsername, opts.AuthPassword))
	}

	if opts.PrometheusHandler != nil {
		mux.Handle("GET /metrics", opts.PrometheusHandler)
	}

	server.registerRoutes()

	return server
}

// GetMux returns the underlying HTTP ServeMux for additional setup
func (s *Server) GetMux() *http.ServeMux {
	return s.mux
}

// GetAPI returns the Huma API instance
func (s *Server) GetAPI() huma.API {
	return s.api
}

// Start serves the API on addr until Stop is called.
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting camview API server", "addr", addr)
	s.logger.Info("OpenAPI documentation available", "url", "http://"+addr+"/docs")

	srv := &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	return srv.ListenAndServe()
}

// Stop closes the listener and all open connections, SSE streams included.
func (s *Server) Stop() error {
	s.logger.Info("Stopping API server")
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv != nil {
		return srv.Close()
	}
	return nil
}

// registerRoutes sets up all API endpoints
func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Health",
		Description: "Check API health status",
		Tags:        []string{"health"},
		Security:    []map[string][]string{}, // Empty security = no auth required
	}, func(ctx context.Context, input *struct{}) (*models.HealthResponse, error) {
		return &models.HealthResponse{
			Body: models.HealthData{
				Status:  "ok",
				Message: "API is healthy",
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-version",
		Method:      http.MethodGet,
		Path:        "/api/version",
		Summary:     "Version",
		Description: "Get application version information",
		Tags:        []string{"system"},
		Security:    []map[string][]string{},
	}, func(ctx context.Context, input *struct{}) (*models.VersionResponse, error) {
		return &models.VersionResponse{Body: version.Get()}, nil
	})

	if s.options.FindDevices != nil {
		s.registerDeviceRoutes()
	}
	if s.camera != nil {
		s.registerCameraRoutes()
	}
	if s.viewer != nil {
		s.registerViewRoutes()
		s.registerPreviewRoutes()
	}
	s.registerSSERoutes()
	s.registerLogRoutes()
}

// withAuth returns security requirement for basic auth
func withAuth() []map[string][]string {
	return []map[string][]string{
		{"basicAuth": {}},
	}
}
