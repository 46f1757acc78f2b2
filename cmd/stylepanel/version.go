package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/stylepanel"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of stylepanel",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("stylepanel version %s\n", strings.TrimSpace(stylepanel.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
