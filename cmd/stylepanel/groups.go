package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/stylepanel/internal/cli"
	"github.com/spf13/cobra"
)

var groupsCmd = &cobra.Command{
	Use:   "groups [layer-type]",
	Short: "List the layer types or the groups of one type",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		provider, err := cli.LoadSchema(cfg.Schema)
		if err != nil {
			return err
		}
		jsonMode, _ := cmd.Flags().GetBool("json")
		out := cmd.OutOrStdout()

		if len(args) == 0 {
			types := provider.LayerTypes()
			if jsonMode {
				return json.NewEncoder(out).Encode(map[string]any{"layer_types": types})
			}
			fmt.Fprintln(out, strings.Join(types, "\n"))
			return nil
		}

		groups, ok := provider.Groups(args[0])
		if !ok {
			return fmt.Errorf("unknown layer type %q", args[0])
		}
		if jsonMode {
			return json.NewEncoder(out).Encode(groups)
		}
		for _, g := range groups {
			fmt.Fprintf(out, "%s (%s)\n", g.Title, g.Kind)
			for _, f := range g.Fields {
				fmt.Fprintf(out, "  %-28s %s\n", f.Name, f.ValueType().Name())
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(groupsCmd)
	groupsCmd.Flags().Bool("json", false, "Print JSON")
}
