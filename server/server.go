package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/hrygo/vnchrono/internal/profile"
	"github.com/hrygo/vnchrono/plugin/chrono/vn"
	apierrors "github.com/hrygo/vnchrono/server/internal/errors"
	"github.com/hrygo/vnchrono/server/internal/observability"
	vnmiddleware "github.com/hrygo/vnchrono/server/middleware"
	apiv1 "github.com/hrygo/vnchrono/server/router/api/v1"
)

// idleClientTTL is how long a rate limited client is remembered without traffic.
const idleClientTTL = 10 * time.Minute

type Server struct {
	Profile *profile.Profile
	Logger  *slog.Logger

	echoServer   *echo.Echo
	apiV1Service *apiv1.APIV1Service
	rateLimiter  *vnmiddleware.RateLimiter
	listener     net.Listener
	serveErr     chan error

	runnerCancelFuncs []context.CancelFunc
}

func NewServer(ctx context.Context, profile *profile.Profile, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		Profile:  profile,
		Logger:   logger,
		serveErr: make(chan error, 1),
	}

	echoServer := echo.New()
	echoServer.Debug = profile.IsDev()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.HTTPErrorHandler = apiv1.ErrorHandler
	// Rate limit buckets are keyed by the peer address, never by client headers.
	echoServer.IPExtractor = echo.ExtractIPDirect()
	echoServer.Use(middleware.Recover())
	echoServer.Use(middleware.RequestID())
	s.echoServer = echoServer

	// Room for JSON escaping on top of the text limit.
	bodyLimit := fmt.Sprintf("%dK", max(profile.MaxTextBytes*8/1024, 64))

	s.apiV1Service = apiv1.NewAPIV1Service(profile, logger, vn.Recognizers())
	s.rateLimiter = vnmiddleware.NewRateLimiter(profile.RateLimitPerSecond, profile.RateLimitBurst)

	echoServer.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "version": profile.Version})
	})

	s.apiV1Service.RegisterRoutes(echoServer,
		observability.Middleware(logger, s.apiV1Service.Metrics),
		middleware.BodyLimit(bodyLimit),
		s.rateLimiter.Middleware(func(echo.Context) error {
			return apierrors.RateLimitExceeded()
		}),
	)

	s.startBackgroundRunners(ctx)
	return s, nil
}

// Handler exposes the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echoServer
}

func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.Profile.Address())
	if err != nil {
		return errors.Wrap(err, "failed to listen")
	}
	s.listener = listener

	go func() {
		s.echoServer.Listener = listener
		if err := s.echoServer.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Error("failed to start echo server", slog.String("error", err.Error()))
			s.serveErr <- errors.Wrap(err, "echo server stopped")
		}
	}()
	s.Logger.InfoContext(ctx, "server started", slog.String("address", listener.Addr().String()))
	return nil
}

func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	s.Logger.Info("server shutting down")

	for _, cancelFunc := range s.runnerCancelFuncs {
		if cancelFunc != nil {
			cancelFunc()
		}
	}

	if err := s.echoServer.Shutdown(ctx); err != nil {
		s.Logger.Error("failed to shutdown server", slog.String("error", err.Error()))
	}
	s.apiV1Service.Close()

	s.Logger.Info("server stopped properly")
}

// Err receives the error that stopped serving, if serving stops before
// Shutdown.
func (s *Server) Err() <-chan error {
	return s.serveErr
}

// Addr returns the listening address once started.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) startBackgroundRunners(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.runnerCancelFuncs = append(s.runnerCancelFuncs, cancel)

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.rateLimiter.Forget(idleClientTTL); n > 0 {
					s.Logger.Debug("forgot idle clients", slog.Int("count", n))
				}
			}
		}
	}()
}
