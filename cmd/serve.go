package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/site-analyzer/internal/analyzer"
	"github.com/sells-group/site-analyzer/internal/config"
	"github.com/sells-group/site-analyzer/internal/fetcher"
	"github.com/sells-group/site-analyzer/internal/metrics"
	"github.com/sells-group/site-analyzer/internal/model"
)

const (
	userEmailHeader = "X-User-Email"
	maxRequestBytes = 1 << 20
	shutdownTimeout = 10 * time.Second
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP analysis API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(config.ModeServe); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m := metrics.New(reg)

		withGenerate := cfg.Generate.APIKey != ""
		if !withGenerate {
			zap.L().Warn("no generation API key configured, serving score-only analyses")
		}

		a, err := buildAnalyzer(cfg, wiring{generate: withGenerate, metrics: m})
		if err != nil {
			return err
		}

		h := &apiHandler{
			analyzer: a,
			access:   cfg.Access,
			limiter:  newLimiter(cfg.Server.RatePerMinute),
		}
		mux := buildMux(h, muxOptions{
			corsOrigins: cfg.Server.CORSOrigins,
			timeout:     time.Duration(cfg.Server.RequestTimeoutSecs) * time.Second,
			metrics:     m,
			gatherer:    reg,
		})

		return startServer(ctx, mux, resolvePort(servePort, cfg.Server.Port))
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// resolvePort prefers the flag value over the configured port.
func resolvePort(flagPort, cfgPort int) int {
	if flagPort != 0 {
		return flagPort
	}
	return cfgPort
}

// newLimiter allows perMinute analyses per minute with a burst of the same
// size. A non-positive rate disables limiting.
func newLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
}

type muxOptions struct {
	corsOrigins []string
	timeout     time.Duration
	metrics     *metrics.Metrics
	gatherer    prometheus.Gatherer
}

func buildMux(h *apiHandler, opts muxOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	if len(opts.corsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", userEmailHeader, middleware.RequestIDHeader},
			ExposedHeaders: []string{middleware.RequestIDHeader},
			MaxAge:         300,
		}))
	}
	r.Use(opts.metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if opts.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		if opts.timeout > 0 {
			r.Use(middleware.Timeout(opts.timeout))
		}
		r.Post("/analyze", h.analyze)
	})

	return r
}

type analyzeRequest struct {
	URL          string `json:"url"`
	SkipGenerate bool   `json:"skip_generate"`
}

type apiHandler struct {
	analyzer *analyzer.Analyzer
	access   config.AccessConfig
	limiter  *rate.Limiter
}

func (h *apiHandler) analyze(w http.ResponseWriter, r *http.Request) {
	if h.access.LoginRequired {
		email := strings.TrimSpace(r.Header.Get(userEmailHeader))
		if email == "" {
			writeError(w, http.StatusUnauthorized, userEmailHeader+" header is required")
			return
		}
		if !h.access.Allows(email) {
			writeError(w, http.StatusForbidden, "email is not authorized")
			return
		}
	}

	var req analyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	if h.limiter != nil {
		res := h.limiter.Reserve()
		if d := res.Delay(); d > 0 {
			res.Cancel()
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(d.Seconds()))))
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
	}

	bundle, err := h.run(r.Context(), req)
	if err != nil {
		zap.L().Warn("api analysis failed",
			zap.String("url", req.URL),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, bundle)
}

func (h *apiHandler) run(ctx context.Context, req analyzeRequest) (*model.Bundle, error) {
	if req.SkipGenerate || !h.analyzer.Generates() {
		res, err := h.analyzer.Analyze(ctx, req.URL)
		if err != nil {
			return nil, err
		}
		return &model.Bundle{Analysis: *res}, nil
	}
	return h.analyzer.Run(ctx, req.URL)
}

// statusForError maps an analysis failure to a response status. Upstream
// 4xx responses mean the site itself refused the request.
func statusForError(err error) int {
	var fe *fetcher.FetchError
	if errors.As(err, &fe) {
		if fe.StatusCode >= 400 && fe.StatusCode < 500 {
			return http.StatusUnprocessableEntity
		}
		return http.StatusBadGateway
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Debug("write response failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// startServer serves handler on port until ctx is canceled, then shuts
// down gracefully.
func startServer(ctx context.Context, handler http.Handler, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return eris.Wrap(err, "server shutdown")
		}
		return nil
	})
	return g.Wait()
}
