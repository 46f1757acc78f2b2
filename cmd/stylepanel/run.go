package main

import (
	"fmt"

	"github.com/aretw0/stylepanel/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <style.json>",
	Short: "Edit one layer in the interactive panel",
	Long: `Opens the panel of --layer in the terminal. Every change is written back
to the style file, and the group visibility is saved per panel so the next
session opens the way this one was left.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		opts := cli.RunOptions{Config: cfg, StylePath: args[0]}
		opts.LayerID, _ = cmd.Flags().GetString("layer")
		opts.Output, _ = cmd.Flags().GetString("output")
		opts.PanelID, _ = cmd.Flags().GetString("panel")
		opts.Watch, _ = cmd.Flags().GetBool("watch")
		opts.JSON, _ = cmd.Flags().GetBool("json")
		opts.ReadOnly, _ = cmd.Flags().GetBool("read-only")
		opts.Confirm, _ = cmd.Flags().GetBool("confirm")
		opts.Fresh, _ = cmd.Flags().GetBool("fresh")

		if opts.LayerID == "" {
			return fmt.Errorf("--layer is required")
		}
		if opts.ReadOnly && opts.Confirm {
			return fmt.Errorf("--read-only and --confirm cannot be used together")
		}
		return cli.RunSession(opts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("layer", "l", "", "Layer id to edit")
	runCmd.Flags().StringP("output", "o", "", "Write changes here instead of in place (- for stdout)")
	runCmd.Flags().String("panel", "", "Panel id for saved visibility (default derived from file and layer)")
	runCmd.Flags().BoolP("watch", "w", false, "Reload the panel when the file changes on disk")
	runCmd.Flags().Bool("json", false, "Speak JSON lines on stdin/stdout")
	runCmd.Flags().Bool("read-only", false, "Reject commands that change the layer")
	runCmd.Flags().Bool("confirm", false, "Ask before destructive commands")
	runCmd.Flags().Bool("fresh", false, "Forget the saved visibility first")
}
