// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configFile string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "late-repos",
		Short: "A CLI tool to find late project repositories in a GitHub organization.",
		Long: `late-repos scans the repositories of a GitHub organization and reports those
created inside a module's submission window but last updated after its deadline.

Module windows come from the settings file or from a dates file with one
"name,MM/DD/YYYY,MM/DD/YYYY" line per module.`,
	}

	// Persistent flags are available to all commands.
	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "Settings file: YAML, JSON, TOML or INI (default late-repos.yaml, then config.ini)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose/debug logging")

	rootCmd.AddCommand(newScanCmd(opts))
	rootCmd.AddCommand(newModulesCmd(opts))
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := newRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}

// newLogger writes human-readable log lines to w. Warnings are always shown;
// verbose adds debug output.
func newLogger(verbose bool, w io.Writer) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), level)
	return zap.New(core)
}
