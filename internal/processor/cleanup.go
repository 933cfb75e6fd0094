package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// workDirPrefix marks scratch directories created by a run.
const workDirPrefix = "cbb_"

// createWorkDir makes a fresh cbb_<uuid> directory under paths.temp, or the
// system temp dir when unset.
func (p *implProcessor) createWorkDir(ctx context.Context) (string, error) {
	base := p.cfg.Paths.Temp
	if base == "" {
		base = os.TempDir()
	}
	dir := filepath.Join(base, workDirPrefix+uuid.NewString())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create work dir: %w", err)
	}
	p.logger.Debug(ctx, "Created work dir: %s", dir)
	return dir, nil
}

// removeWorkDir deletes the work directory, logs warning if fails
func (p *implProcessor) removeWorkDir(ctx context.Context, dir string) {
	if err := os.RemoveAll(dir); err != nil {
		p.logger.Warn(ctx, "Failed to cleanup work dir %s: %v", dir, err)
	} else {
		p.logger.Debug(ctx, "Cleaned up work dir: %s", dir)
	}
}

// moveToArchived moves the source recording into paths.archived
func (p *implProcessor) moveToArchived(ctx context.Context, audioPath string) error {
	if err := os.MkdirAll(p.cfg.Paths.Archived, 0755); err != nil {
		return fmt.Errorf("create archived dir: %w", err)
	}
	destPath := filepath.Join(p.cfg.Paths.Archived, filepath.Base(audioPath))

	p.logger.Info(ctx, "Moving to archived folder: %s -> %s", audioPath, destPath)

	if err := os.Rename(audioPath, destPath); err != nil {
		return fmt.Errorf("move to archived: %w", err)
	}

	return nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func swapExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
