package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/identity"
	"github.com/jonathan/resume-builder/internal/server/middleware"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
	"github.com/jonathan/resume-builder/internal/store"
)

// retentionSweepInterval is how often the background retention sweep runs
// when retention is enabled.
const retentionSweepInterval = 6 * time.Hour

// Server represents the HTTP server.
type Server struct {
	httpServer  *http.Server
	sessions    *store.SessionStore
	resolver    *identity.Resolver
	rateLimiter *ratelimit.Limiter
	validator   *validator.Validate
	retention   time.Duration
	closeKV     func()
	stopSweep   chan struct{}
}

// Config holds server configuration.
type Config struct {
	Port                int
	DataDir             string
	DatabaseURL         string
	OnInvalidCredential identity.Policy
	RetentionDays       int
	PruneOnWrite        bool
}

// New creates a new server instance, opening the configured storage backend.
func New(cfg Config) (*Server, error) {
	kv, closeKV, err := openBackend(cfg)
	if err != nil {
		return nil, err
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		// Without a secret every credential fails verification; anonymous
		// sessions still work.
		log.Printf("[auth] %v; all credentials will resolve per the %q policy", err, cfg.OnInvalidCredential)
		jwtConfig = &config.JWTConfig{ExpirationHours: 24}
	}
	resolver := identity.NewResolver(jwtConfig, cfg.OnInvalidCredential)

	sessions := store.NewSessionStore(kv, store.Options{PruneOnWrite: cfg.PruneOnWrite})

	s := newServer(cfg, sessions, resolver)
	s.closeKV = closeKV
	return s, nil
}

// openBackend picks the storage backend: Postgres when a database URL is
// configured, the file-backed store otherwise.
func openBackend(cfg Config) (store.KV, func(), error) {
	if cfg.DatabaseURL != "" {
		kv, err := store.ConnectPostgres(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open postgres backend: %w", err)
		}
		return kv, kv.Close, nil
	}

	dir := cfg.DataDir
	if dir == "" {
		dir = "uploads"
	}
	kv, err := store.NewFileKV(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file backend: %w", err)
	}
	return kv, func() {}, nil
}

// newServer wires routes and middleware around already-constructed
// dependencies. Tests use this directly with an in-memory backend.
func newServer(cfg Config, sessions *store.SessionStore, resolver *identity.Resolver) *Server {
	s := &Server{
		sessions:    sessions,
		resolver:    resolver,
		rateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
		validator:   validator.New(),
	}
	if cfg.RetentionDays > 0 {
		s.retention = time.Duration(cfg.RetentionDays) * 24 * time.Hour
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /save", s.handleSave)
	mux.HandleFunc("POST /start-fresh", s.handleStartFresh)
	mux.HandleFunc("GET /get-user-data", s.handleGetUserData)
	mux.HandleFunc("GET /session/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /session/{id}", s.handleDeleteSession)
	mux.HandleFunc("POST /generate-resume", s.handleGenerateResume)
	mux.HandleFunc("POST /generate-resume/pdf", s.handleGenerateResumePDF)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(middleware.WithCredential(mux)))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // PDF export can take a while
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	if s.retention > 0 {
		s.stopSweep = make(chan struct{})
		go s.retentionSweep()
	}

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.stopSweep != nil {
		close(s.stopSweep)
	}
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.closeKV != nil {
		s.closeKV()
	}
	log.Println("Server stopped")
	return nil
}

// retentionSweep periodically prunes superseded records that have been idle
// longer than the configured retention.
func (s *Server) retentionSweep() {
	ticker := time.NewTicker(retentionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			removed, err := s.sessions.PruneStale(ctx, s.retention)
			cancel()
			if err != nil {
				log.Printf("[retention] sweep failed: %v", err)
				continue
			}
			if removed > 0 {
				log.Printf("[retention] removed %d stale records", removed)
			}
		case <-s.stopSweep:
			return
		}
	}
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]any{"success": false, "message": message})
}

// failWith maps a core error to its transport response.
func (s *Server) failWith(w http.ResponseWriter, err error) {
	log.Printf("[error] %v", err)
	s.errorResponse(w, HTTPStatus(err), err.Error())
}

// extractClientID extracts the client identifier (IP) from the request.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}
	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
