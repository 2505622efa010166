package http

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/photobridge/internal/domain"
	"github.com/bnema/photobridge/internal/port/mocks"
	"github.com/bnema/photobridge/internal/service"
)

func TestServer_Healthz(t *testing.T) {
	env := newTestEnv(t, Options{APIToken: "secret"})

	rec := env.do(t, http.MethodGet, "/healthz", "")

	// Health checks still go through the token check.
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestServer_Token(t *testing.T) {
	env := newTestEnv(t, Options{APIToken: "secret"})

	tests := []struct {
		name     string
		header   string
		target   string
		wantCode int
	}{
		{name: "missing", target: "/albums", wantCode: http.StatusUnauthorized},
		{name: "wrong", header: "Bearer nope", target: "/albums", wantCode: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic secret", target: "/albums", wantCode: http.StatusUnauthorized},
		{name: "query token", target: "/albums?access_token=secret", wantCode: http.StatusOK},
		{name: "header token", header: "Bearer secret", target: "/albums", wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantCode == http.StatusOK {
				env.lib.EXPECT().Albums(mock.Anything).Return(nil, nil).Once()
				env.lib.EXPECT().FetchAssets(mock.Anything, domain.FetchParams{}).
					Return(mocks.NewStaticFetchResult(), nil).Once()
			}
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			env.server.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestServer_WriteRateLimit(t *testing.T) {
	env := newTestEnv(t, Options{WritesPerMinute: 1})

	send := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/assets/delete", strings.NewReader(`{"localIdentifiers":[]}`))
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		env.server.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusBadRequest, send("10.0.0.1:5000").Code)

	rec := send("10.0.0.1:5001")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, CodeRateLimited, errorCode(t, rec))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// Another client has its own budget.
	assert.Equal(t, http.StatusBadRequest, send("10.0.0.2:5000").Code)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.5:41000"
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")

	assert.Equal(t, "192.168.1.5", clientIP(req, false))
	assert.Equal(t, "203.0.113.9", clientIP(req, true))

	req.RemoteAddr = "pipe"
	assert.Equal(t, "pipe", clientIP(req, false))
}

func TestServer_Routes(t *testing.T) {
	env := newTestEnv(t, Options{})

	rec := env.do(t, http.MethodGet, "/assets/query", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = env.do(t, http.MethodGet, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func readUntil(t *testing.T, r *bufio.Reader, prefix string) string {
	t.Helper()
	lines := make(chan string)
	go func() {
		defer close(lines)
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			line = strings.TrimRight(line, "\n")
			if strings.HasPrefix(line, prefix) {
				lines <- line
				return
			}
		}
	}()
	select {
	case line, ok := <-lines:
		require.True(t, ok, "stream closed before %q", prefix)
		return line
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %q", prefix)
		return ""
	}
}

func TestSSE_Events(t *testing.T) {
	env := newTestEnv(t, Options{})
	ts := httptest.NewServer(env.server)
	t.Cleanup(ts.Close)

	tests := []struct {
		name  string
		query string
	}{
		{name: "all assets", query: ""},
		{name: "single asset", query: "?id=ASSET-1%2FL0%2F001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(ts.URL + "/events" + tt.query)
			require.NoError(t, err)
			defer resp.Body.Close() //nolint:errcheck

			assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
			body := bufio.NewReader(resp.Body)
			readUntil(t, body, ": connected")

			// Not the subscribed asset: a single-asset stream skips it.
			env.bus.Publish("ASSET-9/L0/001", service.Event{Type: service.EventInserted, LocalIdentifier: "ASSET-9/L0/001"})
			env.bus.Publish("ASSET-1/L0/001", service.Event{Type: service.EventUpdated, LocalIdentifier: "ASSET-1/L0/001"})

			if tt.query == "" {
				assert.Equal(t, "event: inserted", readUntil(t, body, "event:"))
				readUntil(t, body, "data:")
			}
			assert.Equal(t, "event: updated", readUntil(t, body, "event:"))
			assert.Equal(t, `data: {"type":"updated","localIdentifier":"ASSET-1/L0/001"}`, readUntil(t, body, "data:"))
		})
	}
}

func TestSSEWrite_MultiLine(t *testing.T) {
	rec := httptest.NewRecorder()

	sseWrite(rec, "note", "one\ntwo")

	assert.Equal(t, "event: note\ndata: one\ndata: two\n\n", rec.Body.String())
	assert.True(t, rec.Flushed)
}
