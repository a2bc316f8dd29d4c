package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/revio/revio"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of reviod",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("reviod version %s\n", strings.TrimSpace(revio.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
