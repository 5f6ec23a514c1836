package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-drift/navstack/cmd/navstack/internal/app"
	"github.com/go-drift/navstack/cmd/navstack/internal/sim"
	"github.com/go-drift/navstack/pkg/config"
)

func newSimulateCmd(a *App) *cobra.Command {
	var (
		configPath string
		maxFrames  int
	)
	cmd := &cobra.Command{
		Use:   "simulate --config <config> <script>",
		Short: "Replay a navigation script frame by frame",
		Long: `Build the containers a config describes and replay a YAML script of
navigation operations against them with a fixed frame delta.

Actions: push, pop, preload, release (page and modal containers);
register, show, hide, unregister (sheet containers); open (links);
back; wait.

Resource keys always load unless listed under "missing" in the script.
A step marked expect_error must fail. The command fails at the first step
whose outcome differs from what the script expects.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			script, err := sim.LoadScript(args[0])
			if err != nil {
				return err
			}

			c := app.NewContainer(app.Options{
				Config:   cfg,
				Script:   script,
				LogLevel: a.LogLevel,
				LogOut:   cmd.ErrOrStderr(),
			})
			defer func() { _ = c.Shutdown() }()

			runner, err := c.Runner()
			if err != nil {
				return err
			}
			if maxFrames > 0 {
				runner.MaxFrames = maxFrames
			}

			st := stylesFor(cmd, a)
			results, runErr := runner.Run(script)
			for _, res := range results {
				fmt.Fprintln(cmd.OutOrStdout(), renderStep(st, res))
			}
			if runErr != nil {
				return runErr
			}
			fmt.Fprintln(cmd.OutOrStdout(), st.ok.Render(fmt.Sprintf("%d steps passed", len(results))))
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "navstack.yaml", "navigation config file")
	cmd.Flags().IntVar(&maxFrames, "max-frames", 0, "frames a single step may take (0 keeps the default)")
	return cmd
}
