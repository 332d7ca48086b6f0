package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gcswan/hindsight-cc/internal/logging"
	"github.com/gcswan/hindsight-cc/pkg/bankid"
)

func newIDCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "id",
		Short: "Print the bank ID for the current project",
		Long: `Print the bank ID for the current project on stdout.

The command always succeeds once configuration is valid: when nothing
can be detected it prints claude-code--default.

Examples:
  # Use in a hook
  BANK_ID="$(hindsight-bank id)"

  # Show resolution steps on stderr
  hindsight-bank id --debug`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := logging.FromContext(ctx)

			id := bankid.New(a.repo).Resolve(ctx, logger.Sink(ctx))

			_, err := fmt.Fprintln(cmd.OutOrStdout(), id)
			return err
		},
	}
}
