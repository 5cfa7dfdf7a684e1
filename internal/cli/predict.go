package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/boxscore/backend/internal/app"
	"github.com/boxscore/backend/internal/domain"
)

func newPredictCmd(root *rootOptions) *cobra.Command {
	var (
		home, away string
		modelName  string
		statName   string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict both teams of a matchup player by player",
		Example: "  boxscore predict --home BOS --away LAL\n" +
			"  boxscore predict --home DEN --away MIN --model polynomial --stat reb",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			mt, err := domain.ParseModelType(modelName)
			if err != nil {
				return err
			}
			st, err := domain.ParseStat(statName)
			if err != nil {
				return err
			}
			req := domain.PredictionRequest{HomeTeam: home, AwayTeam: away, Model: mt, Stat: st}
			if err := req.Validate(); err != nil {
				return err
			}

			return withApp(root, func(ctx context.Context, a *app.App) error {
				res, err := a.Predictions.PredictMatchup(ctx, req)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if output != outputText {
					return writeStructured(out, output, res)
				}
				renderTeamPrediction(out, res.Home, res.Request)
				renderTeamPrediction(out, res.Away, res.Request)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&home, "home", "", "home team abbreviation (e.g. BOS)")
	cmd.Flags().StringVar(&away, "away", "", "away team abbreviation (e.g. LAL)")
	cmd.Flags().StringVar(&modelName, "model", "xgboost", "model: xgboost, linear or polynomial")
	cmd.Flags().StringVar(&statName, "stat", "pts", "stat: pts, ast, reb or fg3m")
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text, json or yaml")
	_ = cmd.MarkFlagRequired("home")
	_ = cmd.MarkFlagRequired("away")
	return cmd
}
