package main

import (
	"fmt"

	"clinical-notes-be/internal/entity"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var providerCmd = &cobra.Command{
	Use:   "provider",
	Short: "Inspect or switch the embedding provider",
}

var providerGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the provider the next embedding call will use",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := globalContainer.Selector.Current(cmd.Context())
		if err != nil {
			return err
		}
		color.Cyan("%s (%d dimensions)", p.ModelName(), p.Dimensions())
		return nil
	},
}

var providerSetCmd = &cobra.Command{
	Use:       "set <local|remote>",
	Short:     "Switch the embedding provider",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"local", "remote"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := globalContainer.SettingsService.Set(cmd.Context(), entity.AiConfigKeyEmbeddingProvider, args[0]); err != nil {
			return err
		}
		color.Green("Embedding provider set to %s", args[0])
		fmt.Println("Run `casectl reindex` to embed existing notes with the new provider.")
		return nil
	},
}

var providerKeyCmd = &cobra.Command{
	Use:   "set-key <api-key>",
	Short: "Store the API key used by the remote provider",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := globalContainer.SettingsService.Set(cmd.Context(), entity.AiConfigKeyOpenAIKey, args[0]); err != nil {
			return err
		}
		color.Green("Remote API key stored")
		return nil
	},
}

func init() {
	providerCmd.AddCommand(providerGetCmd, providerSetCmd, providerKeyCmd)
	rootCmd.AddCommand(providerCmd)
}
