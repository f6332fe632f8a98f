package v1

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/parsedate/plugin/datetime"
	apierrors "github.com/hrygo/parsedate/server/internal/errors"
	"github.com/hrygo/parsedate/server/internal/observability"
)

// ResolveRequest is the body of POST /api/v1/resolve, or the query of
// GET /api/v1/resolve.
type ResolveRequest struct {
	// Date is the date string. Empty resolves to the start of today.
	Date string `json:"date" query:"date"`
	// Now is an RFC 3339 base instant. Empty means the server clock.
	Now string `json:"now,omitempty" query:"now"`
	// Timezone is the ambient IANA zone. Empty means the server default.
	Timezone string `json:"timezone,omitempty" query:"timezone"`
}

// ResolveResponse is a resolved date string.
type ResolveResponse struct {
	Time  string   `json:"time"`
	Unix  int64    `json:"unix"`
	Zone  string   `json:"zone"`
	Items []string `json:"items"`
}

// ErrorResponse is the body of every failed API request.
type ErrorResponse struct {
	Code     apierrors.ErrorCode `json:"code"`
	Message  string              `json:"message"`
	Position *int                `json:"position,omitempty"`
}

// ResolveDate resolves a date string.
func (s *APIV1Service) ResolveDate(c echo.Context) error {
	var req ResolveRequest
	if err := c.Bind(&req); err != nil {
		return s.fail(c, apierrors.Wrap(err, apierrors.ErrCodeInvalidArgument, "malformed request"))
	}
	if limit := s.Profile.MaxInputLength; limit > 0 && len(req.Date) > limit {
		return s.fail(c, apierrors.InvalidArgument("date string too long").WithContext("limit", limit))
	}

	dreq := datetime.Request{Input: req.Date, Timezone: req.Timezone}
	if dreq.Timezone == "" {
		dreq.Timezone = s.Profile.Timezone
	}
	if req.Now != "" {
		now, err := time.Parse(time.RFC3339Nano, req.Now)
		if err != nil {
			return s.fail(c, apierrors.Wrap(err, apierrors.ErrCodeInvalidArgument, "now must be an RFC 3339 timestamp"))
		}
		dreq.Now = now
	}

	result, err := s.Resolver.Resolve(c.Request().Context(), dreq)
	if err != nil {
		return s.fail(c, apierrors.FromError(err))
	}

	resp := ResolveResponse{
		Time:  result.Time.Format(time.RFC3339Nano),
		Unix:  result.Time.Unix(),
		Zone:  result.Time.Location().String(),
		Items: make([]string, 0, len(result.Spec.Items)),
	}
	for _, it := range result.Spec.Items {
		resp.Items = append(resp.Items, it.String())
	}
	s.record(c, "")
	return c.JSON(http.StatusOK, resp)
}

func (s *APIV1Service) fail(c echo.Context, apiErr *apierrors.APIError) error {
	s.record(c, apiErr.Code)

	resp := ErrorResponse{Code: apiErr.Code, Message: apiErr.Message}
	if pos, ok := apiErr.Context["position"].(int); ok {
		resp.Position = &pos
	}
	if reqCtx, ok := observability.FromContext(c.Request().Context()); ok {
		attrs := []slog.Attr{slog.String(observability.LogFieldErrorCode, string(apiErr.Code))}
		if apiErr.Code == apierrors.ErrCodeInternal {
			reqCtx.Error("request failed", apiErr, attrs...)
		} else {
			reqCtx.Info("request rejected", append(attrs, slog.String("error", apiErr.Error()))...)
		}
	}
	return c.JSON(apiErr.HTTPStatus(), resp)
}

func (s *APIV1Service) record(c echo.Context, code apierrors.ErrorCode) {
	var elapsed time.Duration
	if reqCtx, ok := observability.FromContext(c.Request().Context()); ok {
		elapsed = reqCtx.Duration()
	}
	s.Metrics.RecordRequest(string(code), elapsed)
}
