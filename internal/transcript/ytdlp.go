package transcript

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/nguyentantai21042004/caption-digest/internal/config"
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"github.com/nguyentantai21042004/caption-digest/internal/models"
	"github.com/nguyentantai21042004/caption-digest/pkg/executor"
)

// YTDLP downloads captions with the yt-dlp command line tool.
type YTDLP struct {
	cfg      config.TranscriptConfig
	tempDir  string
	executor executor.Executor
	logger   logger.Logger
}

// NewYTDLP creates a Source backed by yt-dlp. Caption files are written
// under tempDir and removed after each fetch.
func NewYTDLP(cfg config.TranscriptConfig, tempDir string, exec executor.Executor, log logger.Logger) *YTDLP {
	return &YTDLP{
		cfg:      cfg,
		tempDir:  tempDir,
		executor: exec,
		logger:   log,
	}
}

// Fetch downloads manual or auto-generated captions for videoID.
func (y *YTDLP) Fetch(ctx context.Context, videoID string) (models.Transcript, error) {
	workDir, err := os.MkdirTemp(y.tempDir, "captions-"+videoID+"-")
	if err != nil {
		return models.Transcript{}, fmt.Errorf("create temp dir: %w", err)
	}
	defer y.cleanup(ctx, workDir)

	if y.cfg.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(y.cfg.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	// yt-dlp arguments
	// --skip-download: captions only, no media
	// --write-subs / --write-auto-subs: uploaded captions, then YouTube's ASR track
	// --sub-langs: preferred languages in order
	// --convert-subs srt: normalize vtt/ttml into SRT
	// -o: <id>.<lang>.srt inside the working directory
	args := []string{
		"--skip-download",
		"--write-subs",
		"--write-auto-subs",
		"--sub-langs", strings.Join(y.cfg.Languages, ","),
		"--convert-subs", "srt",
		"--no-playlist",
		"--no-warnings",
		"-o", "%(id)s.%(ext)s",
		WatchURL(videoID),
	}

	y.logger.Debug(ctx, "Fetching captions for %s (languages: %v)", videoID, y.cfg.Languages)

	if _, err := y.executor.ExecuteInDir(ctx, workDir, y.cfg.BinaryPath, args...); err != nil {
		if ctx.Err() != nil {
			return models.Transcript{}, ctx.Err()
		}
		if errors.Is(err, executor.ErrNotFound) {
			return models.Transcript{}, models.NewError(models.CodeTranscriptUnavailable,
				fmt.Sprintf("%s is not installed", y.cfg.BinaryPath), err)
		}
		return models.Transcript{}, models.NewError(models.CodeTranscriptUnavailable,
			fmt.Sprintf("download captions for %s", videoID), err)
	}

	srtPath, lang, err := y.pickCaptionFile(workDir, videoID)
	if err != nil {
		return models.Transcript{}, err
	}

	data, err := os.ReadFile(srtPath)
	if err != nil {
		return models.Transcript{}, fmt.Errorf("read captions: %w", err)
	}

	segments := ParseSRT(string(data))
	y.logger.Info(ctx, "Fetched %d caption segments for %s [%s]", len(segments), videoID, lang)

	return models.Transcript{
		VideoID:  videoID,
		Language: lang,
		Segments: segments,
	}, nil
}

// Version reports the installed yt-dlp version
func (y *YTDLP) Version(ctx context.Context) (string, error) {
	out, err := y.executor.Execute(ctx, y.cfg.BinaryPath, "--version")
	if err != nil {
		return "", fmt.Errorf("check %s: %w", y.cfg.BinaryPath, err)
	}
	return strings.TrimSpace(out), nil
}

// pickCaptionFile returns the SRT file for the most preferred language
func (y *YTDLP) pickCaptionFile(dir, videoID string) (string, string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.srt"))
	if err != nil {
		return "", "", fmt.Errorf("list captions: %w", err)
	}
	if len(matches) == 0 {
		return "", "", models.NewError(models.CodeTranscriptUnavailable,
			fmt.Sprintf("no captions available for %s", videoID), nil)
	}
	sort.Strings(matches)

	byLang := make(map[string]string, len(matches))
	for _, m := range matches {
		byLang[captionLanguage(filepath.Base(m), videoID)] = m
	}

	for _, lang := range y.cfg.Languages {
		if path, ok := byLang[lang]; ok {
			return path, lang, nil
		}
	}

	return matches[0], captionLanguage(filepath.Base(matches[0]), videoID), nil
}

// captionLanguage extracts "en" from "<id>.en.srt"
func captionLanguage(name, videoID string) string {
	name = strings.TrimSuffix(strings.TrimPrefix(name, videoID), ".srt")
	return strings.TrimPrefix(name, ".")
}

func (y *YTDLP) cleanup(ctx context.Context, dir string) {
	if err := os.RemoveAll(dir); err != nil {
		y.logger.Warn(ctx, "Failed to remove caption dir %s: %v", dir, err)
	}
}
