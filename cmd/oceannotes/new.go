package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/core"
)

var (
	newTitle   string
	newContent string
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a note and print its ID",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := withService(func(ctx context.Context, svc *core.Service) error {
			note, err := svc.Create(ctx, core.Fields{Title: newTitle, Content: newContent})
			if err != nil {
				return err
			}
			fmt.Println(note.ID)
			return nil
		})
		if err != nil {
			fatal("Failed to create note", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringVar(&newTitle, "title", core.DefaultTitle, "Note title")
	newCmd.Flags().StringVar(&newContent, "content", "", "Note content")
}
