package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/core"
)

var (
	editTitle   string
	editContent string
)

var editCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Change the title or content of a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var patch core.Patch
		if cmd.Flags().Changed("title") {
			patch.Title = &editTitle
		}
		if cmd.Flags().Changed("content") {
			patch.Content = &editContent
		}
		if patch.IsEmpty() {
			fatal("Nothing to change", errors.New("pass --title and/or --content"))
		}

		err := withService(func(ctx context.Context, svc *core.Service) error {
			note, ok, err := svc.Update(ctx, args[0], patch)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s: %w", args[0], errNotFound)
			}
			fmt.Printf("Note updated: %s\n", note.ID)
			return nil
		})
		if err != nil {
			fatal("Failed to update note", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVar(&editContent, "content", "", "New content")
}
