// Package api exposes the schematization pipeline over HTTP.
//
// # Endpoints
//
//	POST /v1/route    topology JSON body, returns one rendered format
//	GET  /healthz     liveness probe
//	GET  /version     build information
//	GET  /metrics     prometheus metrics, when a gatherer is configured
//
// /v1/route accepts the query parameters format (json, svg, dot, pdf, png;
// default json), labels, grid, refresh and cell_size. Responses carry the
// run id in X-Run-ID and X-Cache: hit or miss.
//
// Errors are JSON objects of the form
//
//	{"error": {"code": "NO_ROUTE", "message": "..."}}
//
// with the status code from [errors.HTTPStatus].
package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/octigrid/pkg/buildinfo"
	"github.com/matzehuels/octigrid/pkg/config"
	"github.com/matzehuels/octigrid/pkg/errors"
	"github.com/matzehuels/octigrid/pkg/observability"
	"github.com/matzehuels/octigrid/pkg/pipeline"
)

// Defaults for [Server].
const (
	DefaultTimeout      = 60 * time.Second
	DefaultMaxBodyBytes = 8 << 20
	DefaultFormat       = pipeline.FormatJSON
)

// Server serves the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	cfg      config.Config
	logger   *log.Logger
	gatherer prometheus.Gatherer
	timeout  time.Duration
	maxBody  int64
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics serves /metrics from g.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithTimeout bounds the time spent on one routing request.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithMaxBodyBytes limits the size of topology uploads.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// New creates a server that runs requests through runner with cfg.
func New(runner *pipeline.Runner, cfg config.Config, opts ...Option) *Server {
	s := &Server{
		runner:  runner,
		cfg:     cfg,
		logger:  log.Default(),
		timeout: DefaultTimeout,
		maxBody: DefaultMaxBodyBytes,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Get("/version", s.version)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	r.Route("/v1", func(r chi.Router) {
		r.Post("/route", s.route)
	})
	return r
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		pattern := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			pattern = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		observability.API().OnRequest(r.Context(), r.Method, pattern, status, d)
		s.logger.Debug("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"route", pattern,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", d)
	})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) version(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) route(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	g, err := s.runner.Read(ctx, "request", body)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.runner.Execute(ctx, g, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	format := opts.Formats[0]
	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.Header().Set("X-Run-ID", res.RunID)
	if res.CacheInfo.RenderHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Artifacts[format]); err != nil {
		s.logger.Warn("write response", "err", err)
	}
}

// options reads the query parameters over the server configuration.
func (s *Server) options(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Config:  s.cfg,
		Formats: []string{DefaultFormat},
		Logger:  s.logger,
	}
	if f := q.Get("format"); f != "" {
		if err := errors.ValidateFormat(f, pipeline.Formats...); err != nil {
			return opts, err
		}
		opts.Formats = []string{f}
	}

	flags := []struct {
		name string
		dst  *bool
	}{
		{"labels", &opts.Labels},
		{"grid", &opts.Grid},
		{"refresh", &opts.Refresh},
	}
	for _, fl := range flags {
		v := q.Get(fl.name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "%s must be a boolean, got %q", fl.name, v)
		}
		*fl.dst = b
	}

	if v := q.Get("cell_size"); v != "" {
		cs, err := strconv.ParseFloat(v, 64)
		if err != nil || cs <= 0 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "cell_size must be a positive number, got %q", v)
		}
		opts.Config.Lattice.CellSize = cs
	}
	return opts, nil
}

type errorBody struct {
	Error struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)

	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		status, code = http.StatusRequestEntityTooLarge, errors.ErrCodeInvalidInput
	}
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", middleware.GetReqID(r.Context()), "err", err)
	}

	var body errorBody
	body.Error.Code = code
	body.Error.Message = errors.UserMessage(err)
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
