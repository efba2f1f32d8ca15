package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// archive moves a processed list file to the archived folder, logs warning if fails
func (p *implProcessor) archive(ctx context.Context, listPath string) {
	destPath, err := p.moveToArchived(listPath)
	if err != nil {
		p.logger.Warn(ctx, "Failed to move %s to archived folder: %v", listPath, err)
		return
	}
	p.logger.Info(ctx, "Archived: %s -> %s", listPath, destPath)
}

// moveToArchived never overwrites: an existing name gets a timestamp suffix
func (p *implProcessor) moveToArchived(listPath string) (string, error) {
	if err := os.MkdirAll(p.cfg.Paths.Archived, 0755); err != nil {
		return "", fmt.Errorf("create archived dir: %w", err)
	}

	filename := filepath.Base(listPath)
	destPath := filepath.Join(p.cfg.Paths.Archived, filename)
	if _, err := os.Stat(destPath); err == nil {
		ext := filepath.Ext(filename)
		stamped := fmt.Sprintf("%s-%s%s", strings.TrimSuffix(filename, ext), time.Now().Format("20060102-150405.000"), ext)
		destPath = filepath.Join(p.cfg.Paths.Archived, stamped)
	}

	if err := os.Rename(listPath, destPath); err != nil {
		return "", fmt.Errorf("move to archived: %w", err)
	}
	return destPath, nil
}
