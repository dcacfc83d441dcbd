package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdejongh/diffnorris/internal/platform"
	"github.com/sdejongh/diffnorris/pkg/config"
)

// NewConfigCommand creates the config command
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `View or create the diffnorris defaults file.`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigInitCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := config.LoadDefault()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Output Style: %s\n", orUnset(fc.Output.Style))
			fmt.Fprintf(out, "Color: %s\n", orUnset(fc.Output.Color))
			fmt.Fprintf(out, "Width: %d\n", fc.Output.Width)
			fmt.Fprintf(out, "Tab Size: %d\n", fc.Output.TabSize)
			fmt.Fprintf(out, "Ignore File Name Case: %v\n", fc.Compare.IgnoreFileNameCase)
			fmt.Fprintf(out, "Exclude Patterns: %d\n", len(fc.Exclude))
			fmt.Fprintf(out, "Logging Enabled: %v\n", fc.Logging.Enabled)
			fmt.Fprintf(out, "Log Format: %s\n", orUnset(fc.Logging.Format))
			fmt.Fprintf(out, "Log Level: %s\n", orUnset(fc.Logging.Level))

			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := platform.ConfigPath()
			if err := config.SaveToFile(config.Default(), path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created at: %s\n", path)
			return nil
		},
	}
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}
