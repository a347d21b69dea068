package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kavia-common/simple-notes-app-45797-45806/internal/views"
	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/core"
)

var (
	listJSON  bool
	listQuery string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, most recently updated first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := withService(func(ctx context.Context, svc *core.Service) error {
			notes, err := svc.List(ctx)
			if err != nil {
				return err
			}
			notes = core.Filter(notes, listQuery)

			if listJSON {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(notes)
			}

			if len(notes) == 0 {
				fmt.Println(views.EmptyListMessage)
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, n := range notes {
				fmt.Fprintf(w, "%s\t%s\t%s\n", n.ID, n.DisplayTitle(), n.UpdatedAt.Local().Format("2006-01-02 15:04"))
			}
			return w.Flush()
		})
		if err != nil {
			fatal("Failed to list notes", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Only notes whose title or content contains this text")
}
