package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/hrygo/parsedate/internal/profile"
	"github.com/hrygo/parsedate/plugin/datetime"
	"github.com/hrygo/parsedate/plugin/datetime/cache"
	"github.com/hrygo/parsedate/server/middleware"
	apiv1 "github.com/hrygo/parsedate/server/router/api/v1"
	"github.com/hrygo/parsedate/server/runner/janitor"
)

// limiterIdle is how long a client may stay silent before its rate limiter
// is forgotten.
const limiterIdle = 10 * time.Minute

type Server struct {
	Profile *profile.Profile

	echoServer *echo.Echo
	apiV1      *apiv1.APIV1Service
	janitor    *janitor.Runner
	listener   net.Listener
	cancel     context.CancelFunc
	logger     *slog.Logger
}

func NewServer(ctx context.Context, profile *profile.Profile, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		Profile: profile,
		logger:  logger,
		janitor: janitor.NewRunner(time.Minute, logger),
	}

	serviceOpts := []datetime.ServiceOption{datetime.WithLogger(logger)}
	if profile.CacheSize > 0 {
		specCache := cache.NewLRUCache[datetime.PartialSpec](profile.CacheSize, profile.CacheTTL)
		serviceOpts = append(serviceOpts, datetime.WithCache(specCache))
		s.janitor.Add("parse cache", janitor.SweepFunc(specCache.CleanupExpired))
	}
	service := datetime.NewService(serviceOpts...)

	limiter := middleware.NewRateLimiter(profile.RateLimit, profile.RateBurst)
	s.janitor.Add("rate limiter", janitor.SweepFunc(func() int { return limiter.Prune(limiterIdle) }))

	echoServer := echo.New()
	echoServer.Debug = profile.IsDev()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Use(echomiddleware.Recover())
	echoServer.Use(echomiddleware.BodyLimit(fmt.Sprintf("%dK", max(1, 4*profile.MaxInputLength/1024))))
	echoServer.Use(limiter.Middleware())
	s.echoServer = echoServer

	s.apiV1 = apiv1.NewAPIV1Service(profile, service, logger)
	s.apiV1.Register(echoServer)

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to create server")
	}
	return s, nil
}

// Handler exposes the HTTP handler, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.echoServer
}

// Addr returns the listening address once Start has been called.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start(ctx context.Context) error {
	address := net.JoinHostPort(s.Profile.Addr, fmt.Sprintf("%d", s.Profile.Port))
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrap(err, "failed to listen")
	}
	s.listener = listener

	ctx, s.cancel = context.WithCancel(ctx)
	go s.janitor.Run(ctx)

	s.echoServer.Listener = listener
	go func() {
		if err := s.echoServer.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("failed to start echo server", "error", err)
		}
	}()
	s.logger.Info("parsedate server started", "addr", listener.Addr().String(), "version", s.Profile.Version)
	return nil
}

func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	s.logger.Info("server shutting down")
	if s.cancel != nil {
		s.cancel()
	}
	if err := s.echoServer.Shutdown(ctx); err != nil {
		s.logger.Error("failed to shutdown server", slog.String("error", err.Error()))
	}
	s.logger.Info("server stopped properly")
}
