package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/late-repos/internal/config"
	"github.com/naka-gawa/late-repos/internal/gateway"
	"github.com/naka-gawa/late-repos/internal/presenter"
	"github.com/naka-gawa/late-repos/internal/usecase"
)

func newScanCmd(opts *rootOptions) *cobra.Command {
	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Lists repositories created in a module window and updated after its deadline",
		Long: `Reads every repository of the configured organization and reports, per module,
those created between the module's start and end (plus the grace period) and
last updated after the module's end.`,
		Example: `  late-repos scan
  late-repos scan --dates dates.txt --name 3d-graphics --grace 3
  late-repos scan --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			nameFilter, _ := cmd.Flags().GetString("name")
			graceDays, _ := cmd.Flags().GetInt("grace")
			datesFile, _ := cmd.Flags().GetString("dates")
			format, _ := cmd.Flags().GetString("format")
			showProgress, _ := cmd.Flags().GetBool("progress")

			if err := config.ValidateGraceDays(graceDays); err != nil {
				return err
			}
			outputFormat, err := presenter.ParseFormat(format)
			if err != nil {
				return err
			}

			// Arguments are valid; from here on errors are not usage errors.
			cmd.SilenceUsage = true

			logger := newLogger(opts.verbose, cmd.ErrOrStderr())
			defer func() { _ = logger.Sync() }()

			cfg, err := config.Load(opts.configFile, logger)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			modules, err := cfg.LoadModules(datesFile, loc, logger)
			if err != nil {
				return err
			}

			writer, err := presenter.NewWriter(outputFormat, cmd.OutOrStdout(), loc)
			if err != nil {
				return err
			}

			githubGateway, err := gateway.NewGitHubGateway(cfg.Settings.Token, gateway.Options{
				Source:      gateway.Source(cfg.Settings.Source),
				UpdateField: gateway.UpdateField(cfg.Settings.UpdateField),
				APIURL:      cfg.Settings.APIURL,
				GraphQLURL:  cfg.Settings.GraphQLURL,
			}, logger)
			if err != nil {
				return fmt.Errorf("failed to create GitHub gateway: %w", err)
			}

			var progress usecase.Progress
			if showProgress && isatty.IsTerminal(os.Stderr.Fd()) {
				progress = presenter.NewProgressBar(cmd.ErrOrStderr())
			}

			scanner := usecase.NewScanner(githubGateway, progress, logger)
			report, err := scanner.Scan(ctx, cfg.Settings.OrgName, modules, usecase.Options{
				NameFilter: nameFilter,
				GraceDays:  graceDays,
			})
			if err != nil {
				return fmt.Errorf("failed to scan %s: %w", cfg.Settings.OrgName, err)
			}

			return writer.Write(report)
		},
	}

	formats := make([]string, 0, len(presenter.Formats))
	for _, f := range presenter.Formats {
		formats = append(formats, string(f))
	}

	scanCmd.Flags().StringP("name", "n", "", "Only examine repositories whose name contains this text (case-insensitive)")
	scanCmd.Flags().IntP("grace", "t", 0, "Admit repositories created up to this many days after a module's end")
	scanCmd.Flags().StringP("dates", "d", "", "Dates file with name,start,end lines (overrides the settings module)")
	scanCmd.Flags().StringP("format", "f", string(presenter.FormatText), "Output format ("+strings.Join(formats, "|")+")")
	scanCmd.Flags().Bool("progress", true, "Show a progress bar on stderr when it is a terminal")
	return scanCmd
}
