package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-drift/navstack/pkg/config"
)

func newValidateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config>",
		Short: "Check a navigation config file",
		Long: `Check a YAML or TOML navigation config.

Every problem is reported at once: version, container kinds, animation
types, curves and directions, backdrop strategies and link targets.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderConfig(stylesFor(cmd, app), args[0], cfg))
			return nil
		},
	}
}
