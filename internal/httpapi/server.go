// Package httpapi serves the vanishing point strategies over HTTP.
//
// Routes:
//
//	GET  /                                 service banner
//	GET  /healthz                          liveness
//	POST /vanishing-point                  exact strategy, JSON array of lines
//	POST /manual-vanishing-point           averaged strategy, JSON array of lines
//	POST /semi-automated-vanishing-point   automated strategy, image upload
//
// Estimates are returned as {"x_van": .., "y_van": ..}. The automated
// route answers null when no estimate could be made. Client errors are 400
// with {"detail": msg}; anything else is 500 with a generic detail.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"

	"github.com/ironsheep/vanishing-point-mcp/internal/config"
	"github.com/ironsheep/vanishing-point-mcp/internal/imaging"
	"github.com/ironsheep/vanishing-point-mcp/internal/vanishing"
)

// RequestIDHeader carries the per-request id in both directions.
const RequestIDHeader = "X-Request-ID"

const internalDetail = "internal server error"

type ctxKey struct{}

// Server holds the read-only state shared by all requests.
type Server struct {
	cfg      *config.Config
	pipeline *vanishing.Pipeline
}

// NewServer builds a Server. A nil cfg uses the defaults.
func NewServer(cfg *config.Config, opts ...vanishing.Option) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if cfg.Debug() {
		opts = append([]vanishing.Option{vanishing.WithDebugf(log.Printf)}, opts...)
	}
	return &Server{
		cfg:      cfg,
		pipeline: vanishing.New(cfg.Pipeline, opts...),
	}
}

// ServeMux registers every route.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.homeHandler)
	mux.HandleFunc("GET /healthz", s.healthHandler)
	mux.HandleFunc("POST /vanishing-point", s.linesHandler(vanishing.Exact))
	mux.HandleFunc("POST /manual-vanishing-point", s.linesHandler(vanishing.Averaged))
	mux.HandleFunc("POST /semi-automated-vanishing-point", s.imageHandler)
	return mux
}

// Handler returns the mux wrapped with CORS, request ids and access
// logging.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.HTTP.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
	})
	return c.Handler(RequestIDMiddleware(LoggingMiddleware(s.ServeMux())))
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.HTTP.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.HTTP.ReadTimeout,
		WriteTimeout: s.cfg.HTTP.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("HTTP server listening on %s", s.cfg.HTTP.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Println("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs request id, method, path, status and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf("[%s] %d %s %s %.2fms",
			RequestID(r.Context()), lrw.statusCode, r.Method, r.URL.Path,
			float64(time.Since(start).Nanoseconds())/1e6)
	})
}

// RequestIDMiddleware assigns every request an id, reusing a valid
// incoming one, and echoes it in the response.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// RequestID returns the id assigned by RequestIDMiddleware, or "-".
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return "-"
}

func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"message": s.cfg.Server.Name + ": POST lines or an image to estimate a vanishing point",
	})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) linesHandler(strategy func([]vanishing.InputLine) (vanishing.Point, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.HTTP.MaxUploadBytes)

		var lines []vanishing.InputLine
		if err := json.NewDecoder(r.Body).Decode(&lines); err != nil {
			s.writeError(w, r, requestError(err))
			return
		}

		p, err := strategy(lines)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, p)
	}
}

func (s *Server) imageHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.HTTP.MaxUploadBytes)

	data, err := readUpload(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	img, _, err := imaging.DecodeBytes(data)
	if err != nil {
		s.writeError(w, r, &vanishing.InputError{Err: err})
		return
	}

	p, err := s.pipeline.Estimate(img)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	// p is nil when there is no estimate and encodes as null
	s.writeJSON(w, http.StatusOK, p)
}

// readUpload returns the "file" part of a multipart form, or the raw
// body for any other content type.
func readUpload(r *http.Request) ([]byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, requestError(err)
		}
		return data, nil
	}

	f, _, err := r.FormFile("file")
	if err != nil {
		return nil, requestError(err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return data, nil
}

// requestError classifies a failure to read the request as the client's.
func requestError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	return &vanishing.InputError{Err: fmt.Errorf("invalid request body: %w", err)}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to encode response: %v", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(map[string]string{"detail": internalDetail})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		log.Printf("failed to write response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		s.writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{
			"detail": fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
		})
	case vanishing.IsInputError(err):
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
	default:
		log.Printf("[%s] %s %s: %v", RequestID(r.Context()), r.Method, r.URL.Path, err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": internalDetail})
	}
}
