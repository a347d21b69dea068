package main

import (
	"fmt"

	oceannotes "github.com/kavia-common/simple-notes-app-45797-45806"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of oceannotes",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("oceannotes version %s\n", oceannotes.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
