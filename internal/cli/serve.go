package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/boxscore/backend/internal/app"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(root, func(ctx context.Context, a *app.App) error {
				if port != "" {
					a.Config.Port = port
				}
				return a.Serve(ctx)
			})
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port; defaults to PORT")
	return cmd
}
