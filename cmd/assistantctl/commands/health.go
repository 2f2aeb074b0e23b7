package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the service is running",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			resp, err := opts.client().Health(ctx)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), red("✗ "+opts.server+" is not reachable"))
				return err
			}

			status := green("✓ " + resp.Status)
			if resp.Status != "healthy" {
				status = red("✗ " + resp.Status)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s %s\n", status, resp.Service, resp.Version)
			return nil
		},
	}
}
