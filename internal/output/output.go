// Package output renders summaries to files.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/caption-digest/internal/config"
	"github.com/nguyentantai21042004/caption-digest/internal/models"
)

// Document is a summary plus the metadata printed around it
type Document struct {
	Title     string
	Source    string
	Summary   models.FinalSummary
	CreatedAt time.Time
}

var extensions = map[string]string{
	config.FormatText:     ".txt",
	config.FormatMarkdown: ".md",
	config.FormatDocx:     ".docx",
}

// Extension returns the file extension for format, including the dot.
func Extension(format string) string {
	return extensions[format]
}

// FormatFromPath infers the output format from a file extension
func FormatFromPath(path string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for format, e := range extensions {
		if e == ext {
			return format, true
		}
	}
	return "", false
}

// Write renders doc in format and writes it to path, creating parent directories.
func Write(path, format string, doc Document) error {
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	switch format {
	case config.FormatText:
		return os.WriteFile(path, []byte(Text(doc)), 0644)
	case config.FormatMarkdown:
		return os.WriteFile(path, []byte(Markdown(doc)), 0644)
	case config.FormatDocx:
		return writeDocx(path, doc)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// Text returns the bare summary followed by a newline
func Text(doc Document) string {
	return strings.TrimSpace(doc.Summary.Text) + "\n"
}

// Markdown renders the summary with a metadata header.
func Markdown(doc Document) string {
	var b strings.Builder

	// Header
	b.WriteString(fmt.Sprintf("# Summary: %s\n\n", doc.Title))

	// Metadata
	for _, line := range metadata(doc) {
		b.WriteString(fmt.Sprintf("**%s:** %s\n", line[0], line[1]))
	}
	b.WriteString("\n---\n\n")

	b.WriteString(strings.TrimSpace(doc.Summary.Text))
	b.WriteString("\n")

	return b.String()
}

func metadata(doc Document) [][2]string {
	var lines [][2]string
	if doc.Source != "" {
		lines = append(lines, [2]string{"Source", doc.Source})
	}
	lines = append(lines, [2]string{"Summarized", doc.CreatedAt.Format("2006-01-02 15:04:05")})

	s := doc.Summary
	if s.Chunks > 0 {
		chunks := fmt.Sprintf("%d", s.Chunks)
		if len(s.FailedChunks) > 0 {
			chunks += fmt.Sprintf(" (%d failed)", len(s.FailedChunks))
		}
		lines = append(lines, [2]string{"Chunks", chunks})
	}
	if s.Rounds > 1 {
		lines = append(lines, [2]string{"Rounds", fmt.Sprintf("%d", s.Rounds)})
	}
	if s.Truncated {
		lines = append(lines, [2]string{"Truncated", "yes"})
	}
	return lines
}
