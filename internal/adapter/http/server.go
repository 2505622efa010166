package http

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/photobridge/internal/adapter/http/middleware"
	"github.com/bnema/photobridge/internal/adapter/http/ratelimit"
)

type Options struct {
	MaxUploadMB int
	// APIToken, when set, is required as a bearer token on every request.
	APIToken string
	// WritesPerMinute bounds save and delete requests per client.
	WritesPerMinute int
	BehindProxy     bool
}

type Server struct {
	mux         *http.ServeMux
	handler     http.Handler
	handlers    *Handlers
	sseHandler  *SSEHandler
	writeLimit  *ratelimit.Limiter
	behindProxy bool
}

func NewServer(assets AssetService, importer Importer, events EventSubscriber, opts Options) *Server {
	mux := http.NewServeMux()

	if opts.WritesPerMinute <= 0 {
		opts.WritesPerMinute = 60
	}

	s := &Server{
		mux:         mux,
		handlers:    NewHandlers(assets, importer, opts.MaxUploadMB),
		sseHandler:  NewSSEHandler(events),
		writeLimit:  ratelimit.NewLimiter(opts.WritesPerMinute, time.Minute),
		behindProxy: opts.BehindProxy,
	}

	s.registerRoutes()
	s.handler = middleware.SecurityHeaders(middleware.BearerToken(opts.APIToken, mux))

	return s
}

// Identifiers contain slashes; clients escape them as %2F in path segments.
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.mux.HandleFunc("POST /assets/query", s.handlers.Query())
	s.mux.HandleFunc("POST /assets/resolve", s.handlers.Resolve())
	s.mux.HandleFunc("GET /assets/{id}/edition", s.handlers.Edition())
	s.mux.HandleFunc("PATCH /assets/{id}", s.handlers.Update())
	s.mux.HandleFunc("POST /assets/delete", s.limited(s.handlers.Delete()))
	s.mux.HandleFunc("POST /assets/save", s.limited(s.handlers.Save()))

	s.mux.HandleFunc("GET /albums", s.handlers.Albums())
	s.mux.HandleFunc("GET /photos", s.handlers.Photos())

	s.mux.HandleFunc("GET /events", s.sseHandler.Events())
}

func (s *Server) limited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		allowed, wait := s.writeLimit.Allow(clientIP(r, s.behindProxy))
		if !allowed {
			w.Header().Set("Retry-After", strconv.Itoa(int(wait.Seconds())+1))
			writeError(w, http.StatusTooManyRequests, CodeRateLimited, "too many requests")
			return
		}
		next(w, r)
	}
}

func clientIP(r *http.Request, behindProxy bool) string {
	if behindProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			first, _, _ := strings.Cut(fwd, ",")
			return strings.TrimSpace(first)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	s.writeLimit.Stop()
}
