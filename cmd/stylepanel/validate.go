package main

import (
	"fmt"

	"github.com/aretw0/stylepanel/internal/cli"
	"github.com/aretw0/stylepanel/pkg/style"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <style.json>",
	Short: "Check layer properties against the schema",
	Long:  `Checks every layer value the schema knows a type for and reports the ones that don't fit.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		provider, err := cli.LoadSchema(cfg.Schema)
		if err != nil {
			return err
		}
		doc, err := style.ReadFile(args[0])
		if err != nil {
			return err
		}
		if err := cli.ValidateDocument(doc, provider); err != nil {
			return fmt.Errorf("validation failed:\n%w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Style is valid! ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
