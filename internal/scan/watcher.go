package scan

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 2 * time.Second

// Watcher triggers a rescan when contract files change on disk. Bursts of
// filesystem events (a copy of several contracts at once) collapse into a
// single scan via debouncing.
type Watcher struct {
	service  *Service
	watcher  *fsnotify.Watcher
	logger   *zap.Logger
	debounce time.Duration
}

// NewWatcher creates a watcher over the service's contracts directory.
func NewWatcher(service *Service, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating filesystem watcher: %w", err)
	}
	if err := fw.Add(service.cfg.ContractsDir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", service.cfg.ContractsDir, err)
	}
	return &Watcher{
		service:  service,
		watcher:  fw,
		logger:   logger,
		debounce: defaultDebounce,
	}, nil
}

// Run blocks until the context is cancelled, rescanning after each settled
// burst of contract file changes. Scan failures are logged and watching
// continues.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			if !isContractFile(event.Name) {
				continue
			}
			w.logger.Debug("contract change detected", zap.String("file", event.Name))
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))

		case <-timer.C:
			if _, err := w.service.ScanDir(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				w.logger.Error("rescan failed", zap.Error(err))
			}
		}
	}
}
