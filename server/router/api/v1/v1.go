package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/hrygo/parsedate/internal/profile"
	"github.com/hrygo/parsedate/plugin/datetime"
	"github.com/hrygo/parsedate/server/internal/observability"
)

// HeaderRequestID carries the request ID in requests and responses.
const HeaderRequestID = "X-Request-ID"

type APIV1Service struct {
	Profile  *profile.Profile
	Resolver datetime.Resolver
	Metrics  *observability.Metrics
	Logger   *slog.Logger
}

func NewAPIV1Service(profile *profile.Profile, resolver datetime.Resolver, logger *slog.Logger) *APIV1Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &APIV1Service{
		Profile:  profile,
		Resolver: resolver,
		Metrics:  observability.NewMetrics(),
		Logger:   logger,
	}
}

// Register registers the API routes with the given Echo instance.
func (s *APIV1Service) Register(echoServer *echo.Echo) {
	echoServer.GET("/healthz", s.Health)

	apiGroup := echoServer.Group("/api/v1", s.requestContext)
	apiGroup.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, HeaderRequestID},
	}))
	apiGroup.GET("/resolve", s.ResolveDate)
	apiGroup.POST("/resolve", s.ResolveDate)
	apiGroup.GET("/stats", s.Stats)
}

// requestContext attaches an observability.RequestContext to every request
// and logs its completion.
func (s *APIV1Service) requestContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		path := c.Path()
		var reqCtx *observability.RequestContext
		if id := req.Header.Get(HeaderRequestID); id != "" {
			reqCtx = observability.NewRequestContextWithID(s.Logger, id, path, c.RealIP())
		} else {
			reqCtx = observability.NewRequestContext(s.Logger, path, c.RealIP())
		}
		c.SetRequest(req.WithContext(observability.WithRequestContext(req.Context(), reqCtx)))
		c.Response().Header().Set(HeaderRequestID, reqCtx.RequestID)

		err := next(c)
		reqCtx.Debug("request completed",
			slog.String("method", req.Method),
			slog.Int("status", c.Response().Status),
			slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()),
		)
		return err
	}
}

// Health reports that the server is up.
func (s *APIV1Service) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.Profile.Version,
	})
}

// Stats reports request counters.
func (s *APIV1Service) Stats(c echo.Context) error {
	snapshot := s.Metrics.Snapshot()
	return c.JSON(http.StatusOK, struct {
		*observability.MetricsSnapshot
		SuccessRate float64 `json:"successRate"`
	}{snapshot, snapshot.SuccessRate()})
}
