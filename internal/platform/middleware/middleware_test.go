package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"
)

type MiddlewareSuite struct {
	suite.Suite
}

func TestMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(MiddlewareSuite))
}

const chromeOnMacUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func (s *MiddlewareSuite) TestRequestID() {
	s.Run("generates an id when none is supplied", func() {
		var seen string
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetRequestID(r.Context())
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		s.NotEmpty(seen)
		s.Equal(seen, rec.Header().Get("X-Request-ID"))
	})

	s.Run("honors an inbound X-Request-ID", func() {
		var seen string
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetRequestID(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "req-42")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		s.Equal("req-42", seen)
	})
}

func (s *MiddlewareSuite) TestClientDevice() {
	s.Run("parses the User-Agent into a device summary", func() {
		var seen DeviceInfo
		handler := ClientDevice(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetDevice(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("User-Agent", chromeOnMacUA)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		s.Equal("Chrome", seen.Browser)
		s.Contains(seen.OS, "Mac OS X")
		s.False(seen.Mobile)
		s.False(seen.Bot)
	})

	s.Run("an absent context yields the zero summary", func() {
		s.Equal(DeviceInfo{}, GetDevice(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
	})

	s.Run("an injected summary round-trips", func() {
		ctx := WithDevice(context.Background(), DeviceInfo{Browser: "Firefox", Mobile: true})
		s.Equal("Firefox", GetDevice(ctx).Browser)
		s.True(GetDevice(ctx).Mobile)
	})
}

func (s *MiddlewareSuite) TestLogger() {
	s.Run("logs one enriched line per request", func() {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))

		handler := ClientDevice(Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})))

		req := httptest.NewRequest(http.MethodGet, "/donors", nil)
		req.Header.Set("User-Agent", chromeOnMacUA)
		req = req.WithContext(WithRequestID(req.Context(), "req-42"))
		handler.ServeHTTP(httptest.NewRecorder(), req)

		var line map[string]any
		s.Require().NoError(json.Unmarshal(buf.Bytes(), &line))
		s.Equal("GET", line["method"])
		s.Equal("/donors", line["path"])
		s.Equal(float64(http.StatusTeapot), line["status"])
		s.Equal("req-42", line["request_id"])
		s.Equal("Chrome", line["device_browser"])
		s.Contains(line["device_os"], "Mac OS X")
		s.Equal(false, line["device_mobile"])
	})

	s.Run("defaults to 200 when the handler never writes a header", func() {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))

		handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		var line map[string]any
		s.Require().NoError(json.Unmarshal(buf.Bytes(), &line))
		s.Equal(float64(http.StatusOK), line["status"])
	})
}

func (s *MiddlewareSuite) TestRecovery() {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	s.Equal(http.StatusInternalServerError, rec.Code)
	s.JSONEq(`{"message":"internal error"}`, rec.Body.String())
	s.Contains(buf.String(), "panic recovered")
}
