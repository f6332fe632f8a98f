package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/parsedate/internal/profile"
	"github.com/hrygo/parsedate/plugin/datetime"
)

var testNow = time.Date(2024, time.January, 17, 14, 30, 0, 0, time.UTC)

func newTestServer(resolver datetime.Resolver) (*echo.Echo, *APIV1Service) {
	e := echo.New()
	svc := NewAPIV1Service(&profile.Profile{
		Version:        "test",
		Timezone:       "Europe/Paris",
		MaxInputLength: 32,
	}, resolver, nil)
	svc.Register(e)
	return e, svc
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestResolveDate(t *testing.T) {
	resolver := new(datetime.MockResolver)
	e, svc := newTestServer(resolver)

	spec, err := datetime.Parse("tomorrow")
	require.NoError(t, err)
	result := &datetime.Result{Time: time.Date(2024, time.January, 18, 14, 30, 0, 0, time.UTC), Spec: spec}

	resolver.On("Resolve", mock.Anything, datetime.Request{
		Input:    "tomorrow",
		Now:      testNow,
		Timezone: "Europe/Paris",
	}).Return(result, nil).Once()

	rec := do(e, http.MethodPost, "/api/v1/resolve", `{"date":"tomorrow","now":"2024-01-17T14:30:00Z"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))

	var resp ResolveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2024-01-18T14:30:00Z", resp.Time)
	assert.Equal(t, result.Time.Unix(), resp.Unix)
	assert.Equal(t, "UTC", resp.Zone)
	assert.Equal(t, []string{"relative +1 day"}, resp.Items)

	resolver.AssertExpectations(t)
	assert.Equal(t, int64(1), svc.Metrics.Snapshot().RequestTotal)
}

func TestResolveDate_Query(t *testing.T) {
	resolver := new(datetime.MockResolver)
	e, _ := newTestServer(resolver)

	resolver.On("Resolve", mock.Anything, mock.MatchedBy(func(req datetime.Request) bool {
		return req.Input == "next friday" && req.Timezone == "Asia/Tokyo" && req.Now.IsZero()
	})).Return(&datetime.Result{Time: testNow}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resolve?date=next+friday&timezone=Asia/Tokyo", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "req-42", rec.Header().Get(HeaderRequestID))
	resolver.AssertExpectations(t)
}

func TestResolveDate_Errors(t *testing.T) {
	parseErr := &datetime.ParseError{Input: "(x", Pos: 0, Msg: "unterminated comment"}
	resolutionErr := &datetime.ResolutionError{Input: "Feb 30", Msg: "invalid calendar date"}

	tests := []struct {
		name     string
		body     string
		err      error
		status   int
		code     string
		position *int
	}{
		{
			name:     "parse error",
			body:     `{"date":"(x"}`,
			err:      parseErr,
			status:   http.StatusUnprocessableEntity,
			code:     "PARSE_ERROR",
			position: new(int),
		},
		{
			name:   "resolution error",
			body:   `{"date":"Feb 30"}`,
			err:    resolutionErr,
			status: http.StatusUnprocessableEntity,
			code:   "RESOLUTION_ERROR",
		},
		{
			name:   "invalid timezone",
			body:   `{"date":"now","timezone":"Mars/Base"}`,
			err:    datetime.ErrInvalidTimezone,
			status: http.StatusBadRequest,
			code:   "INVALID_ARGUMENT",
		},
		{
			name:   "canceled",
			body:   `{"date":"now"}`,
			err:    context.Canceled,
			status: 499,
			code:   "CONTEXT_CANCELED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := new(datetime.MockResolver)
			e, svc := newTestServer(resolver)
			resolver.On("Resolve", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			rec := do(e, http.MethodPost, "/api/v1/resolve", tt.body)
			assert.Equal(t, tt.status, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, string(resp.Code))
			assert.Equal(t, tt.position, resp.Position)
			assert.Equal(t, int64(1), svc.Metrics.Snapshot().Failures[tt.code])
		})
	}
}

func TestResolveDate_InvalidArguments(t *testing.T) {
	resolver := new(datetime.MockResolver)
	e, _ := newTestServer(resolver)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"date":`},
		{"bad now", `{"date":"now","now":"yesterday"}`},
		{"too long", `{"date":"` + strings.Repeat("1 day ", 10) + `"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, http.MethodPost, "/api/v1/resolve", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "INVALID_ARGUMENT")
		})
	}
	resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}

func TestResolveDate_WithService(t *testing.T) {
	svc := datetime.NewService(datetime.WithClock(func() time.Time { return testNow }))
	e, _ := newTestServer(svc)

	rec := do(e, http.MethodPost, "/api/v1/resolve", `{"date":"2024-07-01 12:00"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ResolveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2024-07-01T12:00:00+02:00", resp.Time)
	assert.Equal(t, "Europe/Paris", resp.Zone)
	assert.Equal(t, []string{"date 2024-07-01 time 12:00:00"}, resp.Items)

	rec = do(e, http.MethodPost, "/api/v1/resolve", `{"date":"10:30 (oops"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"code":"PARSE_ERROR","message":"unterminated comment","position":6}`, rec.Body.String())
}

func TestHealthAndStats(t *testing.T) {
	e, _ := newTestServer(new(datetime.MockResolver))

	rec := do(e, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","version":"test"}`, rec.Body.String())

	rec = do(e, http.MethodGet, "/api/v1/stats", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"requestTotal":0`)
	assert.Contains(t, rec.Body.String(), `"successRate":100`)
}
