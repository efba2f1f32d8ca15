package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/nguyentantai21042004/caption-digest/internal/models"
	"github.com/nguyentantai21042004/caption-digest/internal/output"
)

// Process summarizes every URL in listPath, then moves the list to the archive
func (p *implProcessor) Process(ctx context.Context, listPath string) error {
	startTime := time.Now()

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Processing URL list: %s", listPath)
	p.logger.Info(ctx, "========================================")

	urls, err := readURLList(listPath)
	if err != nil {
		return fmt.Errorf("read URL list: %w", err)
	}
	if len(urls) == 0 {
		p.logger.Warn(ctx, "No URLs found in %s", listPath)
		p.archive(ctx, listPath)
		return nil
	}

	report := p.ProcessURLs(ctx, urls)
	if ctx.Err() != nil {
		// Leave the list in place so it is picked up again on restart
		return ctx.Err()
	}

	p.archive(ctx, listPath)

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "List complete: %d success, %d failed", report.Succeeded, report.Failed)
	p.logger.Info(ctx, "Processing time: %s", time.Since(startTime).Round(time.Millisecond))
	p.logger.Info(ctx, "========================================")

	if report.Succeeded == 0 {
		return fmt.Errorf("all %d URLs in %s failed", report.Total, filepath.Base(listPath))
	}
	return nil
}

// ProcessURLs runs the pipeline once per URL. A failed URL is logged and skipped.
func (p *implProcessor) ProcessURLs(ctx context.Context, urls []string) Report {
	report := Report{Total: len(urls), Failures: make(map[string]error)}

	for i, url := range urls {
		if ctx.Err() != nil {
			report.Failed += len(urls) - i
			break
		}

		p.logger.Info(ctx, "[%d/%d] Summarizing: %s", i+1, len(urls), url)

		outPath, err := p.summarizeOne(ctx, url)
		if err != nil {
			p.logger.Error(ctx, "[%d/%d] %s failed (%s): %v", i+1, len(urls), url, models.CodeOf(err), err)
			report.Failed++
			report.Failures[url] = err
			continue
		}

		p.logger.Info(ctx, "[DONE] %s -> %s", url, outPath)
		report.Succeeded++
		report.Outputs = append(report.Outputs, outPath)
	}

	return report
}

func (p *implProcessor) summarizeOne(ctx context.Context, url string) (string, error) {
	summary, err := p.pipeline.Run(ctx, url)
	if err != nil {
		return "", err
	}

	format := p.cfg.Output.Format
	outPath := filepath.Join(p.cfg.Paths.Output, summary.VideoID+output.Extension(format))

	doc := output.Document{
		Title:   summary.VideoID,
		Source:  url,
		Summary: summary,
	}
	if err := output.Write(outPath, format, doc); err != nil {
		return "", fmt.Errorf("write summary: %w", err)
	}

	return outPath, nil
}
