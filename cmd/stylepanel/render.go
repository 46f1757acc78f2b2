package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/stylepanel"
	"github.com/aretw0/stylepanel/internal/cli"
	"github.com/aretw0/stylepanel/internal/presentation/graph"
	"github.com/aretw0/stylepanel/internal/presentation/tui"
	"github.com/aretw0/stylepanel/pkg/runner"
	"github.com/aretw0/stylepanel/pkg/style"
	"github.com/aretw0/stylepanel/pkg/visibility"
	"github.com/spf13/cobra"
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render <style.json>",
	Short: "Print the panel of one layer",
	Long: `Renders the panel of --layer once and exits. With --panel the group
visibility saved by an earlier session is applied. With --graph the whole
style is printed as a Mermaid diagram instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		layerID, _ := cmd.Flags().GetString("layer")
		panelID, _ := cmd.Flags().GetString("panel")
		jsonMode, _ := cmd.Flags().GetBool("json")
		graphMode, _ := cmd.Flags().GetBool("graph")
		out := cmd.OutOrStdout()

		doc, err := style.ReadFile(args[0])
		if err != nil {
			return err
		}
		if graphMode {
			fmt.Fprint(out, graph.GenerateMermaid(doc, &graph.Overlay{CurrentLayer: layerID}))
			return nil
		}
		if layerID == "" {
			return fmt.Errorf("--layer is required")
		}

		logger := cli.NewLogger(cfg)
		provider, err := cli.LoadSchema(cfg.Schema)
		if err != nil {
			return err
		}

		opts := []stylepanel.Option{stylepanel.WithSchema(provider), stylepanel.WithLogger(logger)}
		if panelID != "" {
			state, err := savedVisibility(cmd.Context(), cfg, panelID)
			if err != nil {
				return err
			}
			opts = append(opts, stylepanel.WithVisibility(state))
		}

		p, err := stylepanel.Open(doc, layerID, opts...)
		if err != nil {
			return err
		}
		frame := runner.NewFrame(p)

		if jsonMode {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(frame)
		}

		markdown := frame.Markdown()
		if out == os.Stdout && tui.IsTerminal(os.Stdout) {
			if rendered, err := tui.NewRenderer()(markdown); err == nil {
				markdown = rendered
			}
		}
		fmt.Fprint(out, markdown)
		return nil
	},
}

func savedVisibility(ctx context.Context, cfg cli.Config, panelID string) (visibility.State, error) {
	sessions, closer, err := cli.OpenSessions(ctx, cfg.Store, cli.NewLogger(cfg))
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	state, err := sessions.Load(ctx, panelID)
	if stylepanel.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return state.Groups, nil
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringP("layer", "l", "", "Layer id to render")
	renderCmd.Flags().String("panel", "", "Apply the group visibility saved under this panel id")
	renderCmd.Flags().Bool("json", false, "Print the frame as JSON")
	renderCmd.Flags().Bool("graph", false, "Print the source/layer graph as Mermaid")
}
