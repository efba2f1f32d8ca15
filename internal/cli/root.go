package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nguyentantai21042004/caption-digest/internal/config"
	"github.com/nguyentantai21042004/caption-digest/internal/models"
	"github.com/nguyentantai21042004/caption-digest/internal/output"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X ...cli.Version=v1.2.3"
var Version = "dev"

// options holds the global flags shared by every subcommand
type options struct {
	configPath string
	logLevel   string
	provider   string
	model      string
	maxLength  int
	workers    int
}

// NewRootCommand builds the digest command tree
func NewRootCommand() *cobra.Command {
	opts := &options{}
	var outPath string

	root := &cobra.Command{
		Use:   "digest [url]",
		Short: "Summarize a YouTube video from its captions",
		Long: `Fetch the captions of a video, split them into model-sized chunks,
summarize each chunk and combine the partial summaries into one
summary of bounded length.

Examples:
  digest https://www.youtube.com/watch?v=dQw4w9WgXcQ
  digest -n 1500 https://youtu.be/dQw4w9WgXcQ
  digest -o notes/talk.docx https://youtu.be/dQw4w9WgXcQ
  digest --provider openai --workers 4 https://youtu.be/dQw4w9WgXcQ`,
		Version:       Version,
		Args:          exactlyOneURL,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDigest(cmd, opts, args[0], outPath)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "config.yaml", "config file (defaults apply when missing)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&opts.provider, "provider", "", "summarization provider: gemini, openai, anthropic, compat")
	pf.StringVar(&opts.model, "model", "", "model name for the provider")
	pf.IntVarP(&opts.maxLength, "max-length", "n", 0, "maximum summary length in characters")
	pf.IntVarP(&opts.workers, "workers", "w", 0, "chunks summarized concurrently")

	root.Flags().StringVarP(&outPath, "output", "o", "", "write the summary to a .txt, .md or .docx file instead of stdout")

	root.AddCommand(newWatchCommand(opts))
	root.AddCommand(newServeCommand(opts))

	return root
}

// Execute runs the command tree with ctx
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func exactlyOneURL(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return models.NewError(models.CodeInvalidInput,
			fmt.Sprintf("expected exactly one video URL, got %d arguments", len(args)), nil)
	}
	return nil
}

func runDigest(cmd *cobra.Command, opts *options, url, outPath string) error {
	ctx := cmd.Context()

	format := ""
	if outPath != "" {
		f, ok := output.FormatFromPath(outPath)
		if !ok {
			return models.NewError(models.CodeInvalidInput,
				fmt.Sprintf("unsupported output file %q: use .txt, .md or .docx", filepath.Base(outPath)), nil)
		}
		format = f
	}

	a, err := newApp(cmd, opts)
	if err != nil {
		return err
	}

	summary, err := a.pipeline.Run(ctx, url)
	if err != nil {
		return err
	}

	doc := output.Document{Title: summary.VideoID, Source: url, Summary: summary}
	if outPath == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), output.Text(doc))
		return err
	}

	if err := output.Write(outPath, format, doc); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	a.logger.Info(ctx, "Summary written to %s", outPath)
	return nil
}

// loadConfig reads the config file and applies flag overrides
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return nil, models.NewError(models.CodeInvalidInput, "load config", err)
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}
	if flags.Changed("provider") {
		cfg.Summarizer.Provider = opts.provider
	}
	if flags.Changed("model") {
		cfg.Summarizer.Model = opts.model
	}
	if flags.Changed("max-length") {
		if opts.maxLength <= 0 {
			return nil, models.NewError(models.CodeInvalidInput, "--max-length must be positive", nil)
		}
		cfg.Summary.MaxOutputLength = opts.maxLength
	}
	if flags.Changed("workers") {
		if opts.workers <= 0 {
			return nil, models.NewError(models.CodeInvalidInput, "--workers must be positive", nil)
		}
		cfg.Summary.ChunkWorkers = opts.workers
	}

	// Re-validate so overrides go through the same checks as the file
	if err := cfg.Validate(); err != nil {
		return nil, models.NewError(models.CodeInvalidInput, "invalid config", err)
	}

	return cfg, nil
}

func ensureDirectories(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
