package main

import (
	"fmt"
	"sort"

	"github.com/aretw0/stylepanel/internal/cli"
	"github.com/spf13/cobra"
)

var panelsCmd = &cobra.Command{
	Use:   "panels",
	Short: "Manage saved panel visibility",
}

var panelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the panels with saved visibility",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		sessions, closer, err := cli.OpenSessions(cmd.Context(), cfg.Store, cli.NewLogger(cfg))
		if err != nil {
			return err
		}
		defer closer.Close()

		ids, err := sessions.List(cmd.Context())
		if err != nil {
			return err
		}
		sort.Strings(ids)
		for _, id := range ids {
			state, err := sessions.Load(cmd.Context(), id)
			if err != nil {
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d groups\n", id, state.LayerID, len(state.Groups))
		}
		return nil
	},
}

var panelsDeleteCmd = &cobra.Command{
	Use:   "delete <panel-id>...",
	Short: "Forget the saved visibility of panels",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		sessions, closer, err := cli.OpenSessions(cmd.Context(), cfg.Store, cli.NewLogger(cfg))
		if err != nil {
			return err
		}
		defer closer.Close()

		for _, id := range args {
			if err := sessions.Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("deleting panel %s: %w", id, err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(panelsCmd)
	panelsCmd.AddCommand(panelsListCmd, panelsDeleteCmd)
}
