package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Backup writes a consistent snapshot of the database into dir and returns
// the snapshot path. Uses SQLite's VACUUM INTO so the copy is taken safely
// while the database is open.
func (s *Store) Backup(ctx context.Context, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}

	timestamp := strings.ReplaceAll(time.Now().UTC().Format(time.RFC3339), ":", "-")
	target := filepath.Join(dir, fmt.Sprintf("nominations-%s.db", timestamp))

	if _, err := s.db.ExecContext(ctx, `VACUUM INTO ?`, target); err != nil {
		return "", fmt.Errorf("vacuum into %s: %w", target, err)
	}

	s.logger.Info("database backup written", zap.String("path", target))
	return target, nil
}

// RunDailyBackup runs a backup immediately and then once per interval until
// the context is cancelled. Backup failures are logged and the loop continues.
func (s *Store) RunDailyBackup(ctx context.Context, dir string, interval time.Duration) {
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	if _, err := s.Backup(ctx, dir); err != nil {
		s.logger.Error("backup failed", zap.Error(err))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Backup(ctx, dir); err != nil {
				s.logger.Error("backup failed", zap.Error(err))
			}
		}
	}
}
