package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// logger is set by Execute and shared by all commands.
var logger *zap.Logger

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "project2text",
	Short: "project2text compiles a project directory into structured documents",
	Long: `project2text concatenates the text files of a project directory into one or
more Markdown, HTML, or JSON documents, annotated with per-file metadata and
an ASCII directory tree. Output is split into sequential parts when a size
limit is configured.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it. The
// context cancels outstanding pipeline work on interrupt.
func Execute(ctx context.Context, l *zap.Logger) error {
	logger = l
	if logger == nil {
		logger = zap.NewNop()
	}
	return RootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initViper)
}

// initViper wires environment variables as flag defaults, so
// PROJECT2TEXT_FORMAT=json and --format json are interchangeable.
func initViper() {
	viper.SetEnvPrefix("project2text")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}
