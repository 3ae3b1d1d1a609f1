package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/yukikurage/org-hierarchy-api/internal/config"
	"github.com/yukikurage/org-hierarchy-api/internal/database"
	"github.com/yukikurage/org-hierarchy-api/internal/logging"
)

// globalOptions are shared by every subcommand.
type globalOptions struct {
	envFiles   []string
	logLevel   string
	jsonOutput bool

	// open connects to the database and sets database.DB.
	open func(o *globalOptions) (*gorm.DB, error)
}

func openFromConfig(o *globalOptions) (*gorm.DB, error) {
	cfg, err := config.Load(o.envFiles...)
	if err != nil {
		return nil, err
	}
	if err := database.Connect(cfg); err != nil {
		return nil, err
	}
	return database.GetDB(), nil
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&globalOptions{open: openFromConfig})
}

func newRootCmdWith(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "orgctl",
		Short:         "Inspect and check the organization hierarchy",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := logging.New(opts.logLevel, opts.jsonOutput)
			logger.SetOutput(cmd.ErrOrStderr())
			cmd.SetContext(logging.WithLogger(cmd.Context(), logrus.NewEntry(logger)))
		},
	}
	cmd.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", nil, "env files to load before the environment (default .env, .env.local)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level")
	cmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "print results as JSON")

	cmd.AddCommand(newDepthCmd(opts))
	cmd.AddCommand(newSubtreeCmd(opts))
	cmd.AddCommand(newDescendantsCmd(opts))
	cmd.AddCommand(newValidateCmd(opts))
	cmd.AddCommand(newMigrateCmd(opts))
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
