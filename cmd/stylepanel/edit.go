package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/stylepanel"
	"github.com/aretw0/stylepanel/internal/cli"
	"github.com/aretw0/stylepanel/pkg/observability"
	"github.com/aretw0/stylepanel/pkg/runner"
	"github.com/aretw0/stylepanel/pkg/style"
	"github.com/spf13/cobra"
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit <style.json>",
	Short: "Apply edits to one layer without the interactive panel",
	Long: `Applies the given edits to --layer in order and writes the document.
Values are parsed with the schema type of the field:

  stylepanel edit style.json -l water --set paint.fill-color=#0af --set minzoom=4
  stylepanel edit style.json -l water --filter '["==", "class", "lake"]' -o out.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		layerID, _ := cmd.Flags().GetString("layer")
		output, _ := cmd.Flags().GetString("output")
		if layerID == "" {
			return fmt.Errorf("--layer is required")
		}

		cmds, err := editCommands(cmd)
		if err != nil {
			return err
		}
		if len(cmds) == 0 {
			return fmt.Errorf("nothing to edit")
		}

		logger := cli.NewLogger(cfg)
		provider, err := cli.LoadSchema(cfg.Schema)
		if err != nil {
			return err
		}
		doc, err := style.ReadFile(args[0])
		if err != nil {
			return err
		}
		p, err := stylepanel.Open(doc, layerID,
			stylepanel.WithSchema(provider),
			stylepanel.WithLogger(logger),
			stylepanel.WithLifecycleHooks(observability.LoggingHooks(logger)),
		)
		if err != nil {
			return err
		}

		for _, c := range cmds {
			if _, err := runner.Execute(p, c); err != nil {
				return fmt.Errorf("%s: %w", c, err)
			}
		}
		if output == "" {
			output = args[0]
		}
		return cli.WriteDocument(output, p.Document().Pretty())
	},
}

// editCommands turns the flags into panel commands. Structural edits come
// first so --set resolves fields against the final layer type.
func editCommands(cmd *cobra.Command) ([]runner.Command, error) {
	var cmds []runner.Command
	for _, name := range []string{"type", "id", "source", "source-layer", "filter"} {
		if !cmd.Flags().Changed(name) {
			continue
		}
		v, _ := cmd.Flags().GetString(name)
		cmds = append(cmds, runner.Command{Name: name, Args: v})
	}

	sets, _ := cmd.Flags().GetStringArray("set")
	for _, s := range sets {
		path, value, ok := strings.Cut(s, "=")
		if !ok || path == "" {
			return nil, fmt.Errorf("--set %q: want path=value", s)
		}
		cmds = append(cmds, runner.Command{Name: "set", Args: path + " " + value})
	}
	return cmds, nil
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringP("layer", "l", "", "Layer id to edit")
	editCmd.Flags().StringArray("set", nil, "Set a field, as group.field=value (repeatable)")
	editCmd.Flags().String("type", "", "Change the layer type")
	editCmd.Flags().String("id", "", "Rename the layer")
	editCmd.Flags().String("source", "", "Bind another source")
	editCmd.Flags().String("source-layer", "", "Bind another source layer")
	editCmd.Flags().String("filter", "", "Replace the filter expression (JSON)")
	editCmd.Flags().StringP("output", "o", "", "Write the document here instead of in place (- for stdout)")
}
