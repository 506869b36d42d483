package cli

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	qrerrors "github.com/qrframe/qrframe/pkg/errors"
	"github.com/qrframe/qrframe/pkg/pipeline"
	"github.com/qrframe/qrframe/pkg/qr"
)

// defaultServeAddr is the listen address when neither flag nor config set one.
const defaultServeAddr = ":8080"

// shutdownTimeout bounds graceful shutdown on SIGINT/SIGTERM.
const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command running the HTTP encoding service.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP encoding service",
		Long: `Run an HTTP service exposing the encode pipeline.

GET /qr renders a single artifact from query parameters with the matching
content type. POST /api/v1/encode accepts pipeline options as JSON and
returns all rendered artifacts; PNG data is base64-encoded.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Serve.Addr
			}
			if addr == "" {
				addr = defaultServeAddr
			}
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default \":8080\")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

// runServe starts the HTTP server and blocks until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	srv := &server{runner: runner, cli: c}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

// server holds the HTTP handlers and their shared state.
type server struct {
	runner *pipeline.Runner
	cli    *CLI
}

// routes builds the chi router with middleware and endpoints.
func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/qr", s.handleQR)
	r.Post("/api/v1/encode", s.handleEncode)

	return r
}

// requestID assigns a UUID to each request for log correlation.
func (s *server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(withRequestID(r.Context(), id)))
	})
}

// logRequests logs each request with its duration and request ID.
func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.cli.Logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Microsecond),
			"id", requestIDFromContext(r.Context()))
	})
}

// handleHealth reports service liveness.
func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleQR renders a single artifact straight from query parameters, so a
// code can be embedded with a plain <img> tag or fetched with curl.
//
//	GET /qr?data=hello&format=svg&ecc=M&border=2&invert=1
func (s *server) handleQR(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := q.Get("data")
	if err := qrerrors.ValidateData(data); err != nil {
		writeError(w, err)
		return
	}

	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}

	opts := pipeline.Options{
		Text:    data,
		ECC:     strings.ToUpper(q.Get("ecc")),
		Formats: []string{format},
	}
	if v := q.Get("border"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "border must be an integer"})
			return
		}
		if n == 0 {
			n = qr.NoBorder
		}
		opts.Border = n
	}
	if v := q.Get("invert"); v == "1" || v == "true" {
		opts.Invert = true
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", artifactContentType(format))
	_, _ = w.Write(result.Artifacts[format])
}

// artifactContentType maps a format to its response content type.
func artifactContentType(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatPNG:
		return "image/png"
	default:
		return "text/plain; charset=utf-8"
	}
}

// encodeResponse is the JSON payload for a successful encode.
type encodeResponse struct {
	ID        string            `json:"id"`
	Version   int               `json:"version"`
	Size      int               `json:"size"`
	DarkCount int               `json:"dark_count"`
	Cached    bool              `json:"cached"`
	Artifacts map[string]string `json:"artifacts"`
}

// errorResponse is the JSON payload for a failed request.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// handleEncode runs the pipeline for a JSON options payload.
func (s *server) handleEncode(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	if opts.Bytes == nil {
		if err := qrerrors.ValidateData(opts.Text); err != nil {
			writeError(w, err)
			return
		}
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := encodeResponse{
		ID:        requestIDFromContext(r.Context()),
		Version:   result.Stats.Version,
		Size:      result.Stats.Size,
		DarkCount: result.Stats.DarkCount,
		Cached:    result.CacheInfo.AllHit(),
		Artifacts: make(map[string]string, len(result.Artifacts)),
	}
	for format, data := range result.Artifacts {
		if format == pipeline.FormatPNG {
			resp.Artifacts[format] = base64.StdEncoding.EncodeToString(data)
		} else {
			resp.Artifacts[format] = string(data)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// writeError maps pipeline errors to HTTP status codes.
// Validation failures surface as 400; anything else is a 500.
func writeError(w http.ResponseWriter, err error) {
	code := qrerrors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case qrerrors.ErrCodeInvalidInput, qrerrors.ErrCodeInvalidEccLevel,
		qrerrors.ErrCodeInvalidFormat, qrerrors.ErrCodeInvalidVersion,
		qrerrors.ErrCodeInvalidMask, qrerrors.ErrCodeInvalidBorder,
		qrerrors.ErrCodeUnsupportedInput:
		status = http.StatusBadRequest
	case qrerrors.ErrCodeEncodingFailed:
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, errorResponse{Error: qrerrors.UserMessage(err), Code: string(code)})
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestIDKey is the context key for the request ID.
const requestIDKey ctxKey = 1

// withRequestID attaches a request ID to the context.
func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// requestIDFromContext retrieves the request ID, or "" when absent.
func requestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
