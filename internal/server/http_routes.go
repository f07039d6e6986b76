package server

import (
	"net/http"
	"strings"
)

// setupRoutes builds the mux with the middleware chain applied to the
// API endpoints.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	analyze := s.rateLimitMiddleware(s.authMiddleware(s.requestSizeLimitMiddleware(http.HandlerFunc(s.analyzeHandler))))
	mux.Handle("POST /analyze", analyze)

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.Handle("GET /stats", s.authMiddleware(http.HandlerFunc(s.statsHandler)))

	return mux
}

// clientKey identifies a client for rate limiting: the API key when
// present, the remote address otherwise.
func clientKey(r *http.Request) string {
	if key := extractAPIKey(r); key != "" {
		return key
	}
	host := r.RemoteAddr
	if idx := strings.LastIndex(host, ":"); idx > 0 {
		host = host[:idx]
	}
	return host
}

func extractAPIKey(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow(clientKey(r)) {
			s.om.RecordRateLimitHit(r.Context())
			s.writeErrorResponse(w, http.StatusTooManyRequests, "rate limit exceeded", "RATE_LIMITED")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.cfg.Server.Auth.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		key := extractAPIKey(r)
		if key == "" {
			s.writeErrorResponse(w, http.StatusUnauthorized, "missing API key", "UNAUTHORIZED")
			return
		}

		for _, allowed := range s.cfg.Server.Auth.APIKeys {
			if key == allowed {
				next.ServeHTTP(w, r)
				return
			}
		}

		s.logger.Warn("rejected request with invalid API key", "key", maskAPIKey(key))
		s.writeErrorResponse(w, http.StatusUnauthorized, "invalid API key", "UNAUTHORIZED")
	})
}

func (s *Server) requestSizeLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxRequestSize)
		next.ServeHTTP(w, r)
	})
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
