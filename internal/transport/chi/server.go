// Package chi exposes submission validation over HTTP: upload a JSON-lines
// file, receive the validation report. The endpoint shares the process-wide
// outline and corpus index, so validating over HTTP costs no corpus re-read.
package chi

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/domain"
	logpkg "github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/logger"
	"github.com/TREMA-UNH/car-convert-ranking-to-ordering/internal/usecase/validate"
)

// Server is the HTTP validation server.
type Server struct {
	router    chi.Router
	validator *validate.Service
	logger    *zap.Logger
}

// NewServer creates and configures the HTTP server.
func NewServer(validator *validate.Service, logger *zap.Logger) *Server {
	s := &Server{
		validator: validator,
		logger:    logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(jsonRecoverer(s.logger))
	r.Use(wideEventMiddleware(s.logger))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Post("/validate", s.handleValidate)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// handleValidate validates an uploaded JSON-lines submission. The body may be
// gzip-compressed (Content-Encoding: gzip).
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	body := r.Body
	if r.Header.Get("Content-Encoding") == "gzip" {
		zr, err := gzip.NewReader(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid gzip body: "+err.Error())
			return
		}
		defer zr.Close()
		body = zr
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "upload"
	}

	report, err := s.validator.ValidateStream(r.Context(), body, name)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedLine) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		logpkg.FromContext(r.Context()).Error("validation failed", zap.String("name", name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "validation failed")
		return
	}

	writeJSON(w, http.StatusOK, validationResponse{
		Name:        report.Name,
		Pages:       report.Pages,
		Correct:     report.Correct(),
		Diagnostics: report.Diagnostics,
	})
}

type validationResponse struct {
	Name        string              `json:"name"`
	Pages       int                 `json:"pages"`
	Correct     bool                `json:"correct"`
	Diagnostics []domain.Diagnostic `json:"diagnostics"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
