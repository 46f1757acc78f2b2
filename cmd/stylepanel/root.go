package main

import (
	"fmt"
	"os"

	"github.com/aretw0/stylepanel/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stylepanel",
	Short: "Stylepanel edits the layers of a map style document",
	Long: `Stylepanel opens one layer of a Mapbox GL / MapLibre style as a panel of
collapsible groups: layer settings, source binding, paint and layout properties
and the raw JSON. It runs in the terminal, over HTTP or as an MCP server.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (default ./"+cli.DefaultConfigFile+" when present)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("schema", "", "Schema document (yaml, json or jsonc); empty uses the built-in layout")
}

// loadConfig resolves the configuration: file and environment first, then
// the flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (cli.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := cli.LoadConfig(path)
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug, _ = cmd.Flags().GetBool("debug")
	}
	if cmd.Flags().Changed("schema") {
		cfg.Schema, _ = cmd.Flags().GetString("schema")
	}
	return cfg, nil
}
