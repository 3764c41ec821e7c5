package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/loandesk/loandesk/pkg/api"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestChainOrder(t *testing.T) {
	t.Parallel()

	var order []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), tag("first"), tag("second"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestRateLimitExceeded(t *testing.T) {
	t.Parallel()

	cfg := RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2}
	h := RateLimit(cfg, IPKeyExtractor)(okHandler())

	do := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	t.Run("allows up to burst then rejects", func(t *testing.T) {
		require.Equal(t, http.StatusOK, do("10.0.0.1:1000").Code)
		require.Equal(t, http.StatusOK, do("10.0.0.1:1000").Code)

		rec := do("10.0.0.1:1000")
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.NotEmpty(t, rec.Header().Get("Retry-After"))
		require.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))

		var resp api.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.False(t, resp.Success)
		require.Equal(t, "TOO_MANY_REQUESTS", resp.Error.Code)
	})

	t.Run("keys are independent", func(t *testing.T) {
		require.Equal(t, http.StatusOK, do("10.0.0.2:1000").Code)
	})
}

func TestIPKeyExtractor(t *testing.T) {
	t.Parallel()

	t.Run("prefers X-Forwarded-For", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.9:1000"
		req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
		require.Equal(t, "203.0.113.5", IPKeyExtractor(req))
	})

	t.Run("falls back to X-Real-IP", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.9:1000"
		req.Header.Set("X-Real-IP", "203.0.113.7")
		require.Equal(t, "203.0.113.7", IPKeyExtractor(req))
	})

	t.Run("strips the port from RemoteAddr", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.9:1000"
		require.Equal(t, "10.0.0.9", IPKeyExtractor(req))
	})
}

func TestParseRateLimitFromEnv(t *testing.T) {
	def := RateLimitConfig{RequestsPerWindow: 10, Window: time.Minute, Burst: 10}

	t.Run("defaults pass through", func(t *testing.T) {
		require.Equal(t, def, ParseRateLimitFromEnv("TESTPROFILE", def))
	})

	t.Run("env values override", func(t *testing.T) {
		t.Setenv("RATELIMIT_TESTPROFILE_REQUESTS", "99")
		t.Setenv("RATELIMIT_TESTPROFILE_WINDOW_SEC", "30")
		t.Setenv("RATELIMIT_TESTPROFILE_BURST", "5")

		cfg := ParseRateLimitFromEnv("TESTPROFILE", def)
		require.Equal(t, 99, cfg.RequestsPerWindow)
		require.Equal(t, 30*time.Second, cfg.Window)
		require.Equal(t, 5, cfg.Burst)
	})

	t.Run("invalid values are ignored", func(t *testing.T) {
		t.Setenv("RATELIMIT_TESTPROFILE_REQUESTS", "banana")
		require.Equal(t, def, ParseRateLimitFromEnv("TESTPROFILE", def))
	})
}
