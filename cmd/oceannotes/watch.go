package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	changes "github.com/kavia-common/simple-notes-app-45797-45806/pkg/adapters/lifecycle"
	"github.com/kavia-common/simple-notes-app-45797-45806/pkg/core"
)

var watchTypes []string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print changes made to the notes by other processes",
	Long:  `Watch follows the stored collection and prints one line per outside change until interrupted. Only the fs adapter supports it.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := withService(func(ctx context.Context, svc *core.Service) error {
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
			defer stop()

			events, err := svc.Watch(ctx)
			if err != nil {
				return err
			}

			var types []core.EventType
			for _, t := range watchTypes {
				types = append(types, core.EventType(strings.ToUpper(t)))
			}

			src := changes.NewSource(events, changes.WithEventTypes(types...))
			if err := src.Start(ctx); err != nil {
				return err
			}

			for e := range src.Events() {
				fmt.Printf("%s %s\n", time.Now().Format(time.TimeOnly), e)
			}
			return nil
		})
		if err != nil {
			fatal("Failed to watch notes", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringSliceVar(&watchTypes, "type", nil, "Only report these change types (create, modify, delete)")
}
