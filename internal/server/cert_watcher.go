package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"resumerefiner/internal/errors"
	"resumerefiner/internal/observability"

	"github.com/fsnotify/fsnotify"
)

// certStore holds the currently loaded server certificate and swaps it
// atomically on reload, so in-flight handshakes keep a consistent pair.
type certStore struct {
	mu       sync.RWMutex
	cert     *tls.Certificate
	certFile string
	keyFile  string
}

func newCertStore(certFile, keyFile string) (*certStore, error) {
	s := &certStore{certFile: certFile, keyFile: keyFile}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload loads the certificate pair from disk. The previous pair stays
// active when loading fails.
func (s *certStore) Reload() error {
	cert, err := tls.LoadX509KeyPair(s.certFile, s.keyFile)
	if err != nil {
		return fmt.Errorf("failed to load cert/key pair: %w", err)
	}

	s.mu.Lock()
	s.cert = &cert
	s.mu.Unlock()
	return nil
}

// GetCertificate implements tls.Config.GetCertificate
func (s *certStore) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cert == nil {
		return nil, fmt.Errorf("no certificate loaded")
	}
	return s.cert, nil
}

// certWatcher watches the certificate files and reloads the store when they
// change. Events are debounced because rotations usually touch both files in
// quick succession (and some deployers write via rename).
type certWatcher struct {
	store    *certStore
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *errors.Logger
	metrics  *observability.Metrics

	mu         sync.Mutex
	reloads    int
	failures   int
	lastReload time.Time
	lastError  string
	done       chan struct{}
	stopOnce   sync.Once
}

// newCertWatcher starts watching the store's certificate files
func newCertWatcher(store *certStore, debounce time.Duration, metrics *observability.Metrics, logger *errors.Logger) (*certWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	cw := &certWatcher{
		store:    store,
		watcher:  fsw,
		debounce: debounce,
		logger:   logger,
		metrics:  metrics,
		done:     make(chan struct{}),
	}

	// Watch the parent directories rather than the files themselves so
	// rename-based rotation is seen.
	dirs := map[string]struct{}{
		filepath.Dir(store.certFile): {},
		filepath.Dir(store.keyFile):  {},
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}

	go cw.run()
	return cw, nil
}

func (cw *certWatcher) run() {
	var timer *time.Timer
	var timerC <-chan time.Time

	watched := map[string]struct{}{
		filepath.Clean(cw.store.certFile): {},
		filepath.Clean(cw.store.keyFile):  {},
	}

	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if _, relevant := watched[filepath.Clean(event.Name)]; !relevant {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			cw.logger.Debug("Certificate file changed", "file", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(cw.debounce)
				timerC = timer.C
			} else {
				timer.Reset(cw.debounce)
			}

		case <-timerC:
			cw.reload()
			timer = nil
			timerC = nil

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.logger.Warn("Certificate watcher error", "error", err)

		case <-cw.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func (cw *certWatcher) reload() {
	err := cw.store.Reload()

	cw.mu.Lock()
	cw.reloads++
	cw.lastReload = time.Now()
	if err != nil {
		cw.failures++
		cw.lastError = err.Error()
	} else {
		cw.lastError = ""
	}
	cw.mu.Unlock()

	if cw.metrics != nil {
		cw.metrics.RecordCertReload(context.Background(), err == nil)
	}

	if err != nil {
		cw.logger.LogError(err, "Failed to reload TLS certificates, keeping previous pair")
	} else {
		cw.logger.Info("TLS certificates reloaded successfully")
	}
}

// Status reports the watcher state for the health endpoint
func (cw *certWatcher) Status() map[string]any {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	status := map[string]any{
		"healthy":      cw.lastError == "",
		"auto_reload":  true,
		"reload_count": cw.reloads,
		"failures":     cw.failures,
	}
	if !cw.lastReload.IsZero() {
		status["last_reload"] = cw.lastReload
	}
	if cw.lastError != "" {
		status["last_error"] = cw.lastError
	}
	return status
}

// Stop closes the watcher
func (cw *certWatcher) Stop() error {
	var err error
	cw.stopOnce.Do(func() {
		close(cw.done)
		err = cw.watcher.Close()
	})
	return err
}
