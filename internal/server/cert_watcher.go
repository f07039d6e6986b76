package server

import (
	"crypto/tls"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"fitcheck/internal/errors"
)

// CertReloader serves the current TLS key pair and reloads it when the
// certificate files change on disk.
type CertReloader struct {
	certFile string
	keyFile  string
	logger   *errors.Logger

	cert    atomic.Pointer[tls.Certificate]
	healthy atomic.Bool

	watcher  *fsnotify.Watcher
	stop     chan struct{}
	stopOnce sync.Once
}

// NewCertReloader loads the initial key pair.
func NewCertReloader(certFile, keyFile string, logger *errors.Logger) (*CertReloader, error) {
	r := &CertReloader{
		certFile: certFile,
		keyFile:  keyFile,
		logger:   logger,
		stop:     make(chan struct{}),
	}
	if err := r.reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// GetCertificate is the tls.Config callback.
func (r *CertReloader) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	cert := r.cert.Load()
	if cert == nil {
		return nil, errors.NewInternalError(errors.ErrCodeInvalidConfig, "no TLS certificate loaded", nil)
	}
	return cert, nil
}

// Healthy reports whether the last load or reload succeeded.
func (r *CertReloader) Healthy() bool {
	return r.healthy.Load()
}

func (r *CertReloader) reload() error {
	cert, err := tls.LoadX509KeyPair(r.certFile, r.keyFile)
	if err != nil {
		r.healthy.Store(false)
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("failed to load TLS key pair (%s, %s)", r.certFile, r.keyFile), err)
	}
	r.cert.Store(&cert)
	r.healthy.Store(true)
	return nil
}

// Watch starts watching the certificate files. Events are debounced so
// paired cert/key writes trigger a single reload.
func (r *CertReloader) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeInvalidConfig, "failed to create certificate watcher", err)
	}
	r.watcher = watcher

	for _, path := range []string{r.certFile, r.keyFile} {
		if err := watcher.Add(path); err != nil {
			watcher.Close()
			return errors.NewInternalError(errors.ErrCodeInvalidConfig,
				fmt.Sprintf("failed to watch certificate file: %s", path), err)
		}
	}

	go r.watchLoop()
	return nil
}

func (r *CertReloader) watchLoop() {
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-r.stop:
			return
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(500*time.Millisecond, func() {
				if err := r.reload(); err != nil {
					r.logger.LogError(err, "certificate reload failed")
					return
				}
				r.logger.Info("TLS certificates reloaded")
			})
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.logger.LogError(err, "certificate watcher error")
		}
	}
}

// Stop ends watching.
func (r *CertReloader) Stop() {
	r.stopOnce.Do(func() {
		close(r.stop)
		if r.watcher != nil {
			r.watcher.Close()
		}
	})
}
