package cmd

import (
	"github.com/spf13/cobra"

	"github.com/naka-gawa/late-repos/internal/config"
	"github.com/naka-gawa/late-repos/internal/presenter"
	"github.com/naka-gawa/late-repos/internal/usecase"
)

func newModulesCmd(opts *rootOptions) *cobra.Command {
	modulesCmd := &cobra.Command{
		Use:   "modules",
		Short: "Prints the configured module windows without contacting GitHub",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			graceDays, _ := cmd.Flags().GetInt("grace")
			datesFile, _ := cmd.Flags().GetString("dates")
			if err := config.ValidateGraceDays(graceDays); err != nil {
				return err
			}
			cmd.SilenceUsage = true

			logger := newLogger(opts.verbose, cmd.ErrOrStderr())
			defer func() { _ = logger.Sync() }()

			cfg, err := config.Load(opts.configFile, logger)
			if err != nil {
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
			grace := usecase.Options{GraceDays: graceDays}.Grace()
			return presenter.WriteModules(cmd.OutOrStdout(), modules, grace, loc)
		},
	}

	modulesCmd.Flags().IntP("grace", "t", 0, "Grace days used to compute admission deadlines")
	modulesCmd.Flags().StringP("dates", "d", "", "Dates file with name,start,end lines (overrides the settings module)")
	return modulesCmd
}
