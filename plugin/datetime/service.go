package datetime

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/parsedate/plugin/datetime/cache"
	"github.com/hrygo/parsedate/server/timezone"
)

// Request is one date string to resolve.
type Request struct {
	// Input is the date string.
	Input string

	// Now is the base instant. The zero value means the current time.
	Now time.Time

	// Timezone is the ambient IANA zone. Empty keeps Now's location.
	Timezone string
}

// Result is a resolved date string.
type Result struct {
	Time time.Time
	Spec PartialSpec
}

// Resolver resolves date strings.
// Consumers: the HTTP API and the CLI.
type Resolver interface {
	Resolve(ctx context.Context, req Request) (*Result, error)
}

// Service implements Resolver. Parsed inputs are cached, since a
// PartialSpec does not depend on the base instant.
type Service struct {
	cache   *cache.LRUCache[PartialSpec]
	logger  *slog.Logger
	now     func() time.Time
	resolve []Option
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithCache caches parsed inputs in c.
func WithCache(c *cache.LRUCache[PartialSpec]) ServiceOption {
	return func(s *Service) {
		s.cache = c
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock sets the source of the current time.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// WithResolveOptions passes opts to every resolution.
func WithResolveOptions(opts ...Option) ServiceOption {
	return func(s *Service) {
		s.resolve = append(s.resolve, opts...)
	}
}

// NewService creates a new resolution service.
func NewService(opts ...ServiceOption) *Service {
	s := &Service{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve parses and resolves req.Input.
func (s *Service) Resolve(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	now := req.Now
	if now.IsZero() {
		now = s.now()
	}
	if req.Timezone != "" {
		loc, err := timezone.ParseTimezone(req.Timezone)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidTimezone, "ambient zone %q", req.Timezone)
		}
		now = now.In(loc)
	}

	spec, cached, err := s.parse(req.Input)
	if err != nil {
		s.logger.DebugContext(ctx, "date string rejected",
			slog.String("input", req.Input),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	t, err := spec.Resolve(now, s.resolve...)
	if err != nil {
		s.logger.DebugContext(ctx, "date string not resolvable",
			slog.String("input", req.Input),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.DebugContext(ctx, "date string resolved",
		slog.String("input", req.Input),
		slog.Int("items", len(spec.Items)),
		slog.Bool("cached", cached),
		slog.Time("result", t),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return &Result{Time: t, Spec: spec}, nil
}

func (s *Service) parse(input string) (PartialSpec, bool, error) {
	if s.cache != nil {
		if spec, ok := s.cache.Get(input); ok {
			return spec, true, nil
		}
	}
	spec, err := Parse(input)
	if err != nil {
		return PartialSpec{}, false, err
	}
	if s.cache != nil {
		s.cache.Set(input, spec, 0)
	}
	return spec, false, nil
}

// Ensure Service implements Resolver
var _ Resolver = (*Service)(nil)
