package cmd

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/term"

	"project2text/pkg/compile"
	"project2text/pkg/logging"
	"project2text/pkg/version"
)

var compileCmd = &cobra.Command{
	Use:   "compile [directory]",
	Short: "Compile a project directory into output documents",
	Long: `Compile walks the given directory (default: the current directory), filters
files by the configured rules, and writes their contents into one or more
structured output documents.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompile,
}

func init() {
	flags := compileCmd.Flags()
	flags.StringP("output", "o", "project_files.md", "Output file name")
	flags.String("format", "markdown", "Output format: markdown, html, or json")
	flags.StringSlice("include", nil, "File extensions to include (e.g. .py,.txt)")
	flags.StringSlice("exclude", nil, "File extensions to exclude (e.g. .exe,.dll)")
	flags.StringSlice("exclude-dirs", compile.DefaultExcludedDirs, "Directory names to exclude")
	flags.StringSlice("exclude-files", nil, "File names to exclude")
	flags.StringSlice("pattern-include", nil, "Glob patterns to include (e.g. *.py,test_*.txt)")
	flags.StringSlice("pattern-exclude", nil, "Glob patterns to exclude (e.g. *.log,temp_*)")
	flags.StringSlice("ignore", nil, "Ignore patterns for files or directories (gitignore syntax)")
	flags.String("start-marker", compile.DefaultStartMarker, "Custom start marker for file content")
	flags.String("end-marker", compile.DefaultEndMarker, "Custom end marker for file content")
	flags.Bool("no-metadata", false, "Exclude file metadata from the output")
	flags.Int64("limit", 0, "Maximum size in bytes per output document (0 = unlimited)")
	flags.Int("max-file-size", 0, "Maximum size in KB of an individual input file (0 = unlimited)")
	flags.Int("workers", 0, "Number of ingestion workers (0 = number of CPUs)")
	flags.String("tokenizer", compile.TokenizerWords, "Token counter: words or tiktoken")
	flags.Bool("copy", false, "Copy the first output document to the clipboard")

	RootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	RootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	if debug, _ := cmd.Root().PersistentFlags().GetBool("debug"); debug {
		if err := logging.Setup(true, "project2text", version.Get().Version); err == nil {
			logger = logging.Logger
		}
	}

	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	cfg := compile.Configuration{
		RootDir:           root,
		Output:            viper.GetString("output"),
		Format:            compile.Format(viper.GetString("format")),
		IncludeExtensions: viper.GetStringSlice("include"),
		ExcludeExtensions: viper.GetStringSlice("exclude"),
		ExcludeDirs:       viper.GetStringSlice("exclude-dirs"),
		ExcludeFiles:      viper.GetStringSlice("exclude-files"),
		IncludePatterns:   viper.GetStringSlice("pattern-include"),
		ExcludePatterns:   viper.GetStringSlice("pattern-exclude"),
		IgnorePatterns:    viper.GetStringSlice("ignore"),
		StartMarker:       viper.GetString("start-marker"),
		EndMarker:         viper.GetString("end-marker"),
		IncludeMetadata:   !viper.GetBool("no-metadata"),
		LimitBytes:        viper.GetInt64("limit"),
		MaxFileSizeKB:     viper.GetInt("max-file-size"),
		MaxWorkers:        viper.GetInt("workers"),
		Tokenizer:         viper.GetString("tokenizer"),
	}

	var bar *progressbar.ProgressBar
	if term.IsTerminal(int(os.Stderr.Fd())) {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Processing files"),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionClearOnFinish(),
		)
		cfg.Observer = &progressObserver{bar: bar}
	}

	summary, err := compile.Run(cmd.Context(), cfg, logger)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return err
	}

	for _, chunk := range summary.Chunks {
		fmt.Printf("Generated '%s' - Size: %d bytes, Tokens: %d\n", chunk.Path, chunk.Bytes, chunk.Tokens)
	}
	fmt.Printf("Files included: %d (skipped binary: %d, skipped errors: %d)\n",
		summary.FilesIncluded, summary.SkippedBinary, summary.SkippedErrors)
	if summary.OversizeChunks > 0 {
		fmt.Printf("Warning: %d file(s) exceeded the chunk size limit and occupy their own parts\n",
			summary.OversizeChunks)
	}
	fmt.Printf("Total output size: %d bytes\n", summary.TotalBytes)
	fmt.Printf("Total number of tokens in output files: %d\n", summary.TotalTokens)

	if viper.GetBool("copy") && len(summary.Chunks) > 0 {
		data, err := os.ReadFile(summary.Chunks[0].Path)
		if err != nil {
			return fmt.Errorf("failed to read output for clipboard: %w", err)
		}
		if err := clipboard.WriteAll(string(data)); err != nil {
			logger.Warn("Failed to copy output to clipboard", zap.Error(err))
		} else {
			fmt.Printf("Copied '%s' to the clipboard\n", summary.Chunks[0].Path)
		}
	}

	return nil
}

// progressObserver adapts the core Observer callback to a terminal spinner.
type progressObserver struct {
	bar *progressbar.ProgressBar
}

func (p *progressObserver) OnFileProcessed(path string, outcome compile.Outcome) {
	_ = p.bar.Add(1)
	p.bar.Describe(fmt.Sprintf("Processed %s (%s)", path, outcome))
}
