// Package httpapi wires internal/engine into a small JSON HTTP service:
// a single optimize endpoint, health probes, and a version endpoint.
// Structured request logging uses zerolog; job concurrency is gated by a
// weighted semaphore sized to the configured job limit.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/piwi3910/rectopt/internal/apierr"
	"github.com/piwi3910/rectopt/internal/config"
	"github.com/piwi3910/rectopt/internal/engine"
	"github.com/piwi3910/rectopt/internal/model"
	"github.com/piwi3910/rectopt/internal/svgrender"
)

// ServiceName and Version identify this build in the /version response.
const ServiceName = "rectopt"

// Version is the service release tag; set at build time via
// -ldflags "-X github.com/piwi3910/rectopt/internal/httpapi.Version=...".
var Version = "dev"

var validate = validator.New()

// Server bundles the dependencies every handler needs: configuration, the
// job concurrency gate, and a base logger each request derives its own
// request-scoped logger from.
type Server struct {
	settings config.Settings
	jobs     *semaphore.Weighted
	logger   zerolog.Logger
}

// New constructs a Server ready to be mounted on an *http.ServeMux.
func New(settings config.Settings, logger zerolog.Logger) *Server {
	return &Server{
		settings: settings,
		jobs:     semaphore.NewWeighted(int64(settings.MaxConcurrentJobs)),
		logger:   logger,
	}
}

// Mux builds the service's full route table.
func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/optimize", s.handleOptimize)
	mux.HandleFunc("GET /health/live", s.handleHealthLive)
	mux.HandleFunc("GET /health/ready", s.handleHealthReady)
	mux.HandleFunc("GET /version", s.handleVersion)
	return mux
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := uuid.NewString()
	log := s.logger.With().Str("request_id", requestID).Str("path", r.URL.Path).Logger()

	status, jobOutcome := s.runOptimize(w, r, log)

	log.Info().
		Str("method", r.Method).
		Int("status", status).
		Dur("duration", time.Since(start)).
		Str("job_outcome", jobOutcome).
		Msg("request handled")
}

// runOptimize performs the body-limit, decode, validate, concurrency-gate,
// engine-call, and render steps, returning the HTTP status written and a
// short outcome tag for logging.
func (s *Server) runOptimize(w http.ResponseWriter, r *http.Request, log zerolog.Logger) (int, string) {
	r.Body = http.MaxBytesReader(w, r.Body, s.settings.MaxBodyBytes)

	var req model.OptimizeRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		if err.Error() == "http: request body too large" {
			return writeError(w, apierr.Constraint("request body too large"))
		}
		return writeError(w, apierr.Validationf("invalid JSON body: %v", err))
	}

	if err := validate.Struct(req); err != nil {
		return writeError(w, apierr.Validationf("request failed validation: %v", err))
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(req.Params.TimeLimitMS+2000)*time.Millisecond)
	defer cancel()

	if err := s.jobs.Acquire(ctx, 1); err != nil {
		return writeError(w, apierr.Timeout("server is at capacity, try again shortly"))
	}
	defer s.jobs.Release(1)

	resp, err := engine.Optimize(req, s.settings.MaxInstances, s.settings.DefaultUnitScale)
	if err != nil {
		log.Warn().Err(err).Msg("optimize failed")
		return writeError(w, apierr.AsAPIError(err))
	}

	resp.Artifacts.SVG = svgrender.Render(resp.Solutions)

	writeJSON(w, http.StatusOK, resp)
	return http.StatusOK, "ok"
}

func (s *Server) handleHealthLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHealthReady(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": ServiceName,
		"version": Version,
		"dependencies": map[string]string{
			"rectpack":  "github.com/ForeverZer0/rectpack",
			"fpdf":      "github.com/go-pdf/fpdf",
			"excelize":  "github.com/xuri/excelize/v2",
			"dxf":       "github.com/yofu/dxf",
			"qrcode":    "github.com/skip2/go-qrcode",
			"validator": "github.com/go-playground/validator/v10",
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps an *apierr.Error onto the HTTP response and returns the
// status code written plus a short outcome tag for the access log.
func writeError(w http.ResponseWriter, err *apierr.Error) (int, string) {
	writeJSON(w, err.StatusCode, model.ErrorResponse{
		Status:    "error",
		ErrorCode: string(err.ErrorCode),
		Message:   err.Message,
		Details:   err.Details,
	})
	return err.StatusCode, string(err.ErrorCode)
}
