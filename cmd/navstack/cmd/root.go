// Package cmd implements the navstack CLI commands.
//
// The root command dispatches to validate, which checks a config file, and
// simulate, which replays a script of navigation operations against the
// containers a config describes.
package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// App holds the global flag values.
type App struct {
	LogLevel string
	NoColor  bool
}

// NewRootCmd returns the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	app := &App{}
	cmd := &cobra.Command{
		Use:           "navstack",
		Short:         "Navigation stack config checker and simulator",
		Version:       Version + " (built " + BuildTime + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Check a config file
  navstack validate nav.yaml

  # Replay a script frame by frame
  navstack simulate --config nav.yaml script.yaml
`),
	}
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "log level (debug, info, warn, error); overrides the config")
	cmd.PersistentFlags().BoolVar(&app.NoColor, "no-color", false, "disable styled output")

	cmd.AddCommand(newValidateCmd(app))
	cmd.AddCommand(newSimulateCmd(app))
	return cmd
}

// Execute runs the CLI with os.Args.
func Execute() error {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		root.PrintErrln(newStyles(false).fail.Render("Error:"), err)
	}
	return err
}

func stylesFor(cmd *cobra.Command, app *App) styles {
	noColor := app.NoColor || os.Getenv("NO_COLOR") != ""
	if f, ok := cmd.OutOrStdout().(*os.File); !ok || f != os.Stdout {
		noColor = true
	}
	return newStyles(noColor)
}
