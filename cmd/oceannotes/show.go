package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kavia-common/simple-notes-app-45797-45806/internal/views"
	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/core"
)

var showJSON bool

var errNotFound = errors.New(views.NotFoundMessage)

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print a note",
	Long:  `Print a note by its ID. Outputs the title and content by default, or a JSON object with --json.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := withService(func(ctx context.Context, svc *core.Service) error {
			note, ok, err := svc.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s: %w", args[0], errNotFound)
			}

			if showJSON {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(note)
			}

			fmt.Printf("# %s\n\n%s\n", note.DisplayTitle(), note.Content)
			return nil
		})
		if err != nil {
			fatal("Failed to read note", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output in JSON format")
}
