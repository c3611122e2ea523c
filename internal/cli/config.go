package cli

import (
	"fmt"
	"os"

	"github.com/boardsync/core/internal/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the loaded configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigShow()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigShow() error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if GetFormat() == string(output.FormatJSON) {
		return formatter().FormatConfig(os.Stdout, a.cfg)
	}

	out, err := yaml.Marshal(a.cfg)
	if err != nil {
		return fmt.Errorf("format configuration: %w", err)
	}
	fmt.Print(string(out))
	return nil
}
