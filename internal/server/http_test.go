package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fitcheck/internal/config"
	"fitcheck/internal/engine"
	"fitcheck/internal/errors"
	"fitcheck/internal/observability"
)

func testServer(t *testing.T, modify func(*config.Config)) *Server {
	t.Helper()

	cfg := &config.Config{
		Engine: config.EngineConfig{
			AugmentationBudget: 5 * time.Second,
			MaxKeywords:        30,
			MaxRequirements:    8,
		},
		Server: config.ServerConfig{
			Host:           "localhost",
			Port:           8080,
			MaxRequestSize: 1 << 20,
			RateLimit:      config.RateLimitConfig{Enabled: false},
			TLS:            config.TLSConfig{Mode: config.TLSModeDisabled},
		},
	}
	if modify != nil {
		modify(cfg)
	}

	logger := errors.NewLogger(slog.LevelError)
	om := observability.NewManager(&observability.Config{Enabled: false}, logger)
	eng := engine.New(cfg, nil, logger)

	return NewServer(cfg, eng, nil, logger, om, "test")
}

func analyzeBody() string {
	return `{
		"resumeText": "Jane Doe\njane@example.com\n(555) 123-4567\n\nExperience\n6 years of experience with Go, PostgreSQL and Docker.\n\nEducation\nBSc\n\nSkills\nGo, PostgreSQL, Docker",
		"jobDescription": "Requirements:\n- 5+ years of experience with Go\n- Knowledge of PostgreSQL required",
		"seniority": "senior",
		"fileName": "resume.pdf"
	}`
}

func TestAnalyzeEndpoint(t *testing.T) {
	s := testServer(t, nil)
	defer s.limiter.Close()
	mux := s.setupRoutes()

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(analyzeBody()))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp AnalyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Result == nil || resp.Result.ID == "" {
		t.Fatalf("incomplete result: %+v", resp.Result)
	}
	if resp.Report != nil {
		t.Error("report should be omitted unless requested")
	}
}

func TestAnalyzeEndpointWithReport(t *testing.T) {
	s := testServer(t, nil)
	defer s.limiter.Close()
	mux := s.setupRoutes()

	body := strings.Replace(analyzeBody(), "\"seniority\"", "\"includeReport\": true,\n\"seniority\"", 1)
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp AnalyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Report == nil || resp.Report.Readiness.Status == "" {
		t.Errorf("report missing: %+v", resp.Report)
	}
}

func TestAnalyzeEndpointValidation(t *testing.T) {
	s := testServer(t, nil)
	defer s.limiter.Close()
	mux := s.setupRoutes()

	tests := []struct {
		name string
		body string
		code int
	}{
		{"empty documents", `{"resumeText": "", "jobDescription": ""}`, http.StatusBadRequest},
		{"invalid json", `{not json`, http.StatusBadRequest},
		{"unknown field", `{"resumeText": "a", "jobDescription": "b", "bogus": 1}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			if rec.Code != tt.code {
				t.Errorf("status = %d, want %d (body: %s)", rec.Code, tt.code, rec.Body.String())
			}
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	s := testServer(t, func(cfg *config.Config) {
		cfg.Server.Auth = config.AuthConfig{Enabled: true, APIKeys: []string{"secret-key-123"}}
	})
	defer s.limiter.Close()
	mux := s.setupRoutes()

	tests := []struct {
		name   string
		header func(*http.Request)
		code   int
	}{
		{"no key", func(r *http.Request) {}, http.StatusUnauthorized},
		{"wrong key", func(r *http.Request) { r.Header.Set("X-API-Key", "nope") }, http.StatusUnauthorized},
		{"x-api-key", func(r *http.Request) { r.Header.Set("X-API-Key", "secret-key-123") }, http.StatusOK},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer secret-key-123") }, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(analyzeBody()))
			tt.header(req)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			if rec.Code != tt.code {
				t.Errorf("status = %d, want %d", rec.Code, tt.code)
			}
		})
	}
}

func TestRequestSizeLimit(t *testing.T) {
	s := testServer(t, func(cfg *config.Config) {
		cfg.Server.MaxRequestSize = 64
	})
	defer s.limiter.Close()
	mux := s.setupRoutes()

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(analyzeBody()))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	s := testServer(t, func(cfg *config.Config) {
		cfg.Server.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 60, Burst: 1}
	})
	defer s.limiter.Close()
	mux := s.setupRoutes()

	first := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(analyzeBody()))
	first.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, first)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d", rec.Code)
	}

	second := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(analyzeBody()))
	second.RemoteAddr = "10.0.0.1:1234"
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, second)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := testServer(t, nil)
	defer s.limiter.Close()
	mux := s.setupRoutes()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var status healthStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatal(err)
	}
	if status.Status != "healthy" {
		t.Errorf("status = %q", status.Status)
	}
	if status.Checks["ai_provider"] != "disabled" {
		t.Errorf("ai_provider check = %v, want disabled without provider", status.Checks["ai_provider"])
	}
}

func TestStatsEndpoint(t *testing.T) {
	s := testServer(t, nil)
	defer s.limiter.Close()
	mux := s.setupRoutes()

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var stats map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if stats["augmentation_enabled"] != false {
		t.Errorf("augmentation_enabled = %v", stats["augmentation_enabled"])
	}
}
