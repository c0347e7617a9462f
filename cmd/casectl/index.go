package main

import (
	"context"
	"fmt"
	"os/signal"
	"sort"
	"syscall"

	"clinical-notes-be/internal/entity"
	"clinical-notes-be/internal/service"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	reindexBatch       int
	reindexConcurrency int
	reindexKind        string
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Bring every note's embedding up to date for the active provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		report, err := globalContainer.ReindexService.Reindex(ctx, service.ReindexOptions{
			BatchSize:   reindexBatch,
			Concurrency: reindexConcurrency,
			Kind:        entity.NoteKind(reindexKind),
		})
		if report != nil {
			color.Cyan("Model: %s", report.Model)
			if len(report.PerModel) > 1 {
				color.Yellow("Provider switched during run: %v", report.PerModel)
			}
			fmt.Printf("Scanned:   %d\n", report.Scanned)
			color.Green("Refreshed: %d", report.Refreshed)
			fmt.Printf("Current:   %d\n", report.Current)
			if report.Failed > 0 {
				color.Red("Failed:    %d", report.Failed)
				for id, msg := range report.Failures {
					color.Red("  %s: %s", id, msg)
				}
			}
		}
		return err
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show stored embeddings per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := globalContainer.ReindexService.Stats(cmd.Context())
		if err != nil {
			return err
		}

		color.Cyan("Active model: %s", stats.ActiveModel)
		fmt.Printf("Notes: %d\n", stats.Notes)

		models := make([]string, 0, len(stats.PerModel))
		for m := range stats.PerModel {
			models = append(models, m)
		}
		sort.Strings(models)
		for _, m := range models {
			line := fmt.Sprintf("  %-32s %d", m, stats.PerModel[m])
			if m == stats.ActiveModel {
				color.Green("%s", line)
			} else {
				fmt.Println(line)
			}
		}
		return nil
	},
}

func init() {
	reindexCmd.Flags().IntVar(&reindexBatch, "batch", 100, "notes loaded per page")
	reindexCmd.Flags().IntVar(&reindexConcurrency, "concurrency", 4, "notes embedded in parallel")
	reindexCmd.Flags().StringVar(&reindexKind, "kind", "", "only reindex notes of this kind (narrative, analytical)")

	rootCmd.AddCommand(reindexCmd)
	rootCmd.AddCommand(statsCmd)
}
