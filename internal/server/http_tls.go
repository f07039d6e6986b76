package server

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"fitcheck/internal/config"
	"fitcheck/internal/errors"
)

var tlsVersions = map[string]uint16{
	"1.2": tls.VersionTLS12,
	"1.3": tls.VersionTLS13,
}

// configureTLS builds the tls.Config for the configured mode, wiring the
// certificate reloader when auto reload is on.
func (s *Server) configureTLS() (*tls.Config, error) {
	tlsCfg := s.cfg.Server.TLS
	if tlsCfg.Mode == config.TLSModeDisabled {
		return nil, nil
	}

	minVersion, ok := tlsVersions[tlsCfg.MinVersion]
	if !ok {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("unsupported TLS min version: %s", tlsCfg.MinVersion), nil)
	}

	out := &tls.Config{MinVersion: minVersion}

	reloader, err := NewCertReloader(tlsCfg.CertFile, tlsCfg.KeyFile, s.logger)
	if err != nil {
		return nil, err
	}
	s.reloader = reloader
	out.GetCertificate = reloader.GetCertificate

	if tlsCfg.AutoReload {
		if err := reloader.Watch(); err != nil {
			return nil, err
		}
		s.logger.Info("TLS certificate auto-reload enabled",
			"cert_file", tlsCfg.CertFile, "key_file", tlsCfg.KeyFile)
	}

	if tlsCfg.Mode == config.TLSModeMutual {
		caPEM, err := os.ReadFile(tlsCfg.ClientCAFile)
		if err != nil {
			return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
				fmt.Sprintf("failed to read client CA file: %s", tlsCfg.ClientCAFile), err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caPEM) {
			return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
				"client CA file contains no valid certificates", nil)
		}
		out.ClientCAs = pool
		out.ClientAuth = tls.RequireAndVerifyClientCert
	}

	return out, nil
}
