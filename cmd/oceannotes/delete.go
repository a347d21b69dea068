package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kavia-common/simple-notes-app-45797-45806/internal/views"
	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/core"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note",
	Long: `Delete permanently removes a note. It asks for confirmation unless --yes is given.
Deleting an ID that does not exist changes nothing and is not an error.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := withService(func(ctx context.Context, svc *core.Service) error {
			return deleteNote(ctx, svc, args[0], deleteYes, os.Stdin, os.Stdout)
		})
		if err != nil {
			fatal("Failed to delete note", err)
		}
	},
}

// deleteNote removes id after asking on in, unless yes is set. Outcomes are
// reported on out.
func deleteNote(ctx context.Context, store views.NoteStore, id string, yes bool, in io.Reader, out io.Writer) error {
	if _, ok, err := store.Get(ctx, id); err != nil {
		return err
	} else if !ok {
		fmt.Fprintf(out, "No note with ID %s, nothing deleted.\n", id)
		return nil
	}

	var confirm views.ConfirmFunc
	if !yes {
		confirm = func() bool { return askConfirm(in, out, views.DeletePrompt) }
	}

	deleted, err := views.NewList(store, nil).Delete(ctx, id, confirm)
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Fprintln(out, "Cancelled.")
		return nil
	}
	fmt.Fprintf(out, "Note deleted: %s\n", id)
	return nil
}

// askConfirm prints prompt and reads a yes/no answer. Anything but y/yes is no.
func askConfirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Delete without asking")
}
