package cli

import (
	"github.com/spf13/cobra"

	"github.com/boxscore/backend/internal/domain"
)

func newTeamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "teams",
		Short: "List team abbreviations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			renderTeams(cmd.OutOrStdout(), domain.Teams())
			return nil
		},
	}
}
