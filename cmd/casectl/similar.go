package main

import (
	"fmt"

	"clinical-notes-be/internal/dto"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var similarK int

var similarCmd = &cobra.Command{
	Use:   "similar <note-id>",
	Short: "List the stored cases most similar to a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid note id: %w", err)
		}

		res, err := globalContainer.SimilarCaseService.FindSimilar(cmd.Context(), &dto.SimilarCasesRequest{NoteId: id, K: similarK})
		if err != nil {
			return err
		}
		if res.Degraded {
			color.Yellow("Retrieval degraded, see logs (-v)")
		}
		if len(res.Results) == 0 {
			fmt.Println("No similar cases.")
			return nil
		}
		for i, r := range res.Results {
			fmt.Printf("%2d. %.4f  %s  %s\n", i+1, r.Score, r.NoteId, r.Title)
		}
		return nil
	},
}

func init() {
	similarCmd.Flags().IntVarP(&similarK, "k", "k", 0, "number of results (0 uses SEARCH_DEFAULT_TOP_K)")
	rootCmd.AddCommand(similarCmd)
}
