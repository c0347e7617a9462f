package main

import (
	"fmt"

	"clinical-notes-be/internal/bootstrap"
	"clinical-notes-be/internal/config"
	"clinical-notes-be/internal/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	globalConfig    *config.Config
	globalContainer *bootstrap.Container
	verbose         bool
)

var rootCmd = &cobra.Command{
	Use:           "casectl",
	Short:         "Operate the clinical case embedding index",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" {
			return nil
		}

		globalConfig = config.Load()

		db, err := bootstrap.OpenDatabase(globalConfig)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}

		var log logger.ILogger = logger.NewNopLogger()
		if verbose {
			log = logger.NewZapLogger(globalConfig.App.LogFilePath, false)
		}

		container, err := bootstrap.NewContainer(db, globalConfig, log)
		if err != nil {
			return fmt.Errorf("failed to build container: %w", err)
		}
		globalContainer = container
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if globalContainer != nil {
			globalContainer.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to console and LOG_FILE_PATH")
}
