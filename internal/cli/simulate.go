package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/boxscore/backend/internal/app"
	"github.com/boxscore/backend/internal/domain"
)

func newSimulateCmd(root *rootOptions) *cobra.Command {
	req := domain.SimulationRequest{}
	var output string

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate three-pointers made by both teams of a matchup",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			return withApp(root, func(ctx context.Context, a *app.App) error {
				res, err := a.Predictions.SimulateThrees(ctx, req)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if output != outputText {
					return writeStructured(out, output, res)
				}
				renderSimulation(out, res.Home)
				renderSimulation(out, res.Away)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&req.HomeTeam, "home", "", "home team abbreviation")
	cmd.Flags().StringVar(&req.AwayTeam, "away", "", "away team abbreviation")
	cmd.Flags().IntVar(&req.Iterations, "iterations", 0, "Monte Carlo iterations; defaults to SIM_ITERATIONS")
	cmd.Flags().Uint64Var(&req.Seed, "seed", 0, "random seed; 0 uses a fixed default")
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text, json or yaml")
	_ = cmd.MarkFlagRequired("home")
	_ = cmd.MarkFlagRequired("away")
	return cmd
}
