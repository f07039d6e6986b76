package server

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Start runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	tlsConfig, err := s.configureTLS()
	if err != nil {
		return err
	}

	mux := s.setupRoutes()
	handler := s.om.HTTPMiddleware()(mux)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
		TLSConfig:    tlsConfig,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server starting",
			"addr", s.httpServer.Addr,
			"tls_mode", s.cfg.Server.TLS.Mode,
		)

		var serveErr error
		if tlsConfig != nil {
			// certificates come from the reloader callback
			serveErr = s.httpServer.ListenAndServeTLS("", "")
		} else {
			serveErr = s.httpServer.ListenAndServe()
		}
		if serveErr != nil && serveErr != http.ErrServerClosed {
			errCh <- serveErr
		}
	}()

	select {
	case err := <-errCh:
		s.cleanup()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.logger.Info("HTTP server shutting down")
	err = s.httpServer.Shutdown(shutdownCtx)
	s.cleanup()
	return err
}

func (s *Server) cleanup() {
	s.limiter.Close()
	if s.reloader != nil {
		s.reloader.Stop()
	}
	if s.provider != nil {
		if err := s.provider.Close(); err != nil {
			s.logger.LogError(err, "failed to close inference provider")
		}
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
}
