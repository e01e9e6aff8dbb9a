// Package backup copies the uploads folder into timestamped snapshots once a day and
// prunes snapshots past their retention.
package backup

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

const stampLayout = "2006-01-02_15-04-05"

type Config struct {
	SourceDir string
	BackupDir string
	Retention time.Duration
	Hour      int
	Minute    int
}

type Runner struct {
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

func New(cfg Config, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{cfg: cfg, logger: logger, now: time.Now}
}

// NextRun is the first Hour:Minute strictly after now, in now's location.
func NextRun(now time.Time, hour, min int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Run blocks until ctx is done, taking one snapshot per day.
func (r *Runner) Run(ctx context.Context) {
	for {
		next := NextRun(r.now(), r.cfg.Hour, r.cfg.Minute)
		r.logger.Info("⏳ next uploads backup scheduled", zap.Time("at", next))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if dest, err := r.Snapshot(); err != nil {
			r.logger.Error("❌ failed to back up uploads", zap.Error(err))
		} else {
			r.logger.Info("✅ uploads backed up", zap.String("dest", dest))
		}
		r.Prune()
	}
}

// Snapshot copies SourceDir into a new timestamped folder and returns its path.
func (r *Runner) Snapshot() (string, error) {
	dest := filepath.Join(r.cfg.BackupDir, r.now().Format(stampLayout))
	if err := copyDir(r.cfg.SourceDir, dest); err != nil {
		return "", fmt.Errorf("copy %s: %w", r.cfg.SourceDir, err)
	}
	return dest, nil
}

// Prune removes snapshot folders older than Retention and returns how many it removed.
func (r *Runner) Prune() int {
	entries, err := os.ReadDir(r.cfg.BackupDir)
	if err != nil {
		r.logger.Error("❌ failed to read backup directory", zap.Error(err))
		return 0
	}

	cutoff := r.now().Add(-r.cfg.Retention)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(r.cfg.BackupDir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			r.logger.Error("❌ failed to remove old backup", zap.String("path", path), zap.Error(err))
			continue
		}
		removed++
		r.logger.Info("🗑️ removed old backup", zap.String("path", path))
	}
	return removed
}

func copyDir(src, dest string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		destPath := filepath.Join(dest, entry.Name())
		if entry.IsDir() {
			err = copyDir(srcPath, destPath)
		} else {
			err = copyFile(srcPath, destPath)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
