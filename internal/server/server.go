// internal/server/server.go
package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"sahachari/internal/common/auth"
	"sahachari/internal/common/errors"
	commonhttp "sahachari/internal/common/http"
	"sahachari/internal/common/logger"
	"sahachari/internal/common/metrics"
	gyankosh "sahachari/internal/generators/gyan-kosh"
	"sahachari/internal/generators/rupdrishti"
	speechtotext "sahachari/internal/generators/speech-to-text"
	storymaker "sahachari/internal/generators/story-maker"
	texttospeech "sahachari/internal/generators/text-to-speech"
	worksheetcreator "sahachari/internal/generators/worksheet-creator"
	"sahachari/internal/library"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger is a dependency checked by /ready.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers groups the content endpoints served behind the auth gate.
type Handlers struct {
	Story      *storymaker.Handler
	Worksheet  *worksheetcreator.Handler
	Answer     *gyankosh.Handler
	VisualAid  *rupdrishti.Handler
	Transcribe *speechtotext.Handler
	Speech     *texttospeech.Handler
	Library    *library.Handler
}

type Options struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
	ReadyTimeout   time.Duration
}

// Server owns the router. Build it once at startup.
type Server struct {
	router   chi.Router
	verifier auth.Verifier
	checks   map[string]Pinger
	errors   *errors.HTTPErrorHandler
	logger   logger.Logger
	opts     Options
}

// New wires every route. checks may be empty, in which case /ready always
// reports ready.
func New(opts Options, handlers Handlers, verifier auth.Verifier, checks map[string]Pinger, errHandler *errors.HTTPErrorHandler, log logger.Logger) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 120 * time.Second
	}
	if opts.ReadyTimeout <= 0 {
		opts.ReadyTimeout = 3 * time.Second
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	s := &Server{
		router:   chi.NewRouter(),
		verifier: verifier,
		checks:   checks,
		errors:   errHandler,
		logger:   log,
		opts:     opts,
	}
	s.routes(handlers)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes(h Handlers) {
	r := s.router

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.opts.RequestTimeout))

	r.Get("/health", s.health)
	r.Get("/ready", s.ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(s.verifier, s.errors, s.logger))

		r.Route("/api/ai", func(r chi.Router) {
			if h.Story != nil {
				r.Post("/story", h.Story.Handle)
				r.Post("/story/demo", h.Story.HandleDemo)
			}
			if h.Worksheet != nil {
				r.Post("/worksheet", h.Worksheet.Handle)
			}
			if h.Answer != nil {
				r.Post("/gyan-kosh", h.Answer.Handle)
				r.Get("/gyan-kosh/recent", h.Answer.HandleRecent)
			}
			if h.VisualAid != nil {
				r.Post("/rupdrishti", h.VisualAid.Handle)
			}
			if h.Transcribe != nil {
				r.Post("/speech-to-text", h.Transcribe.Handle)
			}
			if h.Speech != nil {
				r.Post("/text-to-speech", h.Speech.Handle)
			}
		})

		if h.Library != nil {
			r.Route("/api/library", h.Library.Routes)
		}
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	commonhttp.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.opts.ReadyTimeout)
	defer cancel()

	checks := make(map[string]string, len(s.checks))
	healthy := true
	for name, p := range s.checks {
		if err := p.Ping(ctx); err != nil {
			healthy = false
			checks[name] = err.Error()
			s.logger.Warn("readiness check failed", map[string]interface{}{
				"check": name,
				"error": err.Error(),
			})
			continue
		}
		checks[name] = "ok"
	}

	if !healthy {
		commonhttp.WriteJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "not ready",
			"checks": checks,
		})
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ready",
		"checks": checks,
	})
}

// requestLogger logs each request once it completes and counts it by route
// pattern, so path parameters do not explode the label set.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()

			fields := map[string]interface{}{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     status,
				"durationMs": time.Since(start).Milliseconds(),
				"requestId":  middleware.GetReqID(r.Context()),
			}
			if status >= http.StatusInternalServerError {
				s.logger.Warn("request completed with server error", fields)
				return
			}
			s.logger.Info("request completed", fields)
		}()

		next.ServeHTTP(ww, r)
	})
}
