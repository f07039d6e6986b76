// Package server exposes the analysis engine over HTTP: /analyze,
// /health and /stats, with API-key auth, rate limiting, size limits and
// optional TLS.
package server

import (
	"net/http"

	"fitcheck/internal/ai"
	"fitcheck/internal/config"
	"fitcheck/internal/engine"
	"fitcheck/internal/errors"
	"fitcheck/internal/insights"
	"fitcheck/internal/observability"
	"fitcheck/internal/types"
)

// AnalyzeRequest is the /analyze request body.
type AnalyzeRequest struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
	Seniority      string `json:"seniority,omitempty"`
	FileName       string `json:"fileName,omitempty"`
	IncludeReport  bool   `json:"includeReport,omitempty"`
}

// AnalyzeResponse is the /analyze response body.
type AnalyzeResponse struct {
	Result *types.AnalysisResult `json:"result"`
	Report *insights.Report      `json:"report,omitempty"`
}

// ErrorResponse is the error body for all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Server hosts the HTTP API.
type Server struct {
	cfg      *config.Config
	engine   *engine.Engine
	provider ai.InferenceProvider
	logger   *errors.Logger
	om       *observability.Manager
	limiter  *LimiterManager
	reloader *CertReloader

	httpServer *http.Server
	version    string
}

// NewServer assembles a server. The provider may be nil when
// augmentation is disabled; /health then reports it as absent.
func NewServer(cfg *config.Config, eng *engine.Engine, provider ai.InferenceProvider, logger *errors.Logger, om *observability.Manager, version string) *Server {
	return &Server{
		cfg:      cfg,
		engine:   eng,
		provider: provider,
		logger:   logger,
		om:       om,
		limiter:  NewLimiterManager(cfg.Server.RateLimit),
		version:  version,
	}
}
