package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/nerrad567/gray-logic-daylight/internal/daemon"
	"github.com/nerrad567/gray-logic-daylight/internal/desktop"
	"github.com/nerrad567/gray-logic-daylight/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-daylight/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-daylight/internal/infrastructure/metrics"
	"github.com/nerrad567/gray-logic-daylight/internal/schedule"
	"github.com/nerrad567/gray-logic-daylight/internal/solar"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Daemon is the part of the daemon service the API drives.
type Daemon interface {
	Snapshot() daemon.Snapshot
	Schedule() (*schedule.Schedule, *schedule.Run, error)
	Regenerate(ctx context.Context, trigger daemon.Trigger) (*schedule.Run, error)
	SetNightMode(on bool)
	NightMode() bool
	CurrentWallpaper(t time.Time) (string, error)
	Themes() ([]string, error)
	SetTheme(name string) error
}

// HealthChecker is implemented by infrastructure clients reported on /health.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config config.APIConfig
	Logger *logging.Logger
	Daemon Daemon
	Runs   schedule.Repository

	// Calculator answers /solar; its Mode is the default for the mode parameter.
	Calculator solar.Calculator

	// Optional.
	Metrics         *metrics.Metrics
	Checks          map[string]HealthChecker
	InstalledThemes func() (desktop.Installed, error)
	Now             func() time.Time
	Version         string
}

// Server is the HTTP API server.
//
// The server is created with New() and started with Start().
type Server struct {
	cfg             config.APIConfig
	logger          *logging.Logger
	daemon          Daemon
	runs            schedule.Repository
	calc            solar.Calculator
	metrics         *metrics.Metrics
	checks          map[string]HealthChecker
	installedThemes func() (desktop.Installed, error)
	now             func() time.Time
	version         string
	server          *http.Server
	listener        net.Listener
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Daemon == nil {
		return nil, fmt.Errorf("daemon is required")
	}
	if deps.Runs == nil {
		return nil, fmt.Errorf("run repository is required")
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	return &Server{
		cfg:             deps.Config,
		logger:          deps.Logger,
		daemon:          deps.Daemon,
		runs:            deps.Runs,
		calc:            deps.Calculator,
		metrics:         deps.Metrics,
		checks:          deps.Checks,
		installedThemes: deps.InstalledThemes,
		now:             deps.Now,
		version:         deps.Version,
	}, nil
}

// Handler returns the routed handler without starting a listener.
func (s *Server) Handler() http.Handler {
	return s.buildRouter()
}

// Start binds the listener and serves in a background goroutine.
// The server can be stopped with Close().
//
// Returns:
//   - error: If the address cannot be bound
func (s *Server) Start(_ context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("binding API listener: %w", err)
	}
	s.listener = ln

	s.logger.Info("API server starting", "address", ln.Addr().String())
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}
	return nil
}
