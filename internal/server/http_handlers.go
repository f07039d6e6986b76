package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"fitcheck/internal/errors"
)

// healthStatus is the /health response body.
type healthStatus struct {
	Status  string         `json:"status"`
	Version string         `json:"version"`
	Checks  map[string]any `json:"checks"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	checks := map[string]any{
		"engine": "ok",
	}
	healthy := true

	if s.provider != nil {
		info, err := s.provider.GetModelInfo(r.Context())
		switch {
		case err != nil:
			checks["ai_provider"] = "error"
			healthy = false
		case !info.Available:
			checks["ai_provider"] = "unavailable"
			healthy = false
		default:
			checks["ai_provider"] = "ok"
			checks["ai_model"] = info.Name
		}
	} else {
		checks["ai_provider"] = "disabled"
	}

	if s.reloader != nil {
		if s.reloader.Healthy() {
			checks["tls_certificates"] = "ok"
		} else {
			checks["tls_certificates"] = "error"
			healthy = false
		}
	}

	status := healthStatus{Status: "healthy", Version: s.version, Checks: checks}
	code := http.StatusOK
	if !healthy {
		status.Status = "degraded"
		code = http.StatusServiceUnavailable
	}

	s.writeJSON(w, code, status)
}

func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	stats := map[string]any{
		"version":              s.version,
		"rate_limiter_clients": s.limiter.Size(),
		"augmentation_enabled": s.provider != nil,
	}

	if breakered, ok := s.provider.(interface{ BreakerStats() map[string]any }); ok && s.provider != nil {
		stats["circuit_breaker"] = breakered.BreakerStats()
	}

	s.writeJSON(w, http.StatusOK, stats)
}

// parseJSONRequest decodes a request body into dst, translating size
// overruns into a specific status.
func (s *Server) parseJSONRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			s.writeErrorResponse(w, http.StatusRequestEntityTooLarge, "request body too large", "REQUEST_TOO_LARGE")
			return false
		}
		s.writeErrorResponse(w, http.StatusBadRequest, "invalid JSON request body", errors.ErrCodeInvalidRequest)
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.LogError(err, "failed to encode response")
	}
}

func (s *Server) writeErrorResponse(w http.ResponseWriter, code int, message, errorCode string) {
	s.writeJSON(w, code, ErrorResponse{Error: message, Code: errorCode})
}

// statusForError maps an application error to an HTTP status.
func statusForError(err error) int {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		switch appErr.Type {
		case errors.ErrorTypeValidation:
			return http.StatusBadRequest
		case errors.ErrorTypeAI, errors.ErrorTypeNetwork:
			return http.StatusBadGateway
		}
	}
	return http.StatusInternalServerError
}

func errorCodeOf(err error) string {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "INTERNAL_ERROR"
}
