package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/core"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the store's internal state as JSON",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := withService(func(ctx context.Context, svc *core.Service) error {
			// List forces a load so corruption shows up in the report.
			if _, err := svc.List(ctx); err != nil {
				return err
			}

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(map[string]any{
				"component": svc.ComponentType(),
				"data_dir":  resolveDataDir(),
				"state":     svc.State(),
			})
		})
		if err != nil {
			fatal("Failed to report state", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(stateCmd)
}
