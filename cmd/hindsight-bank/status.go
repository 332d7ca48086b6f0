package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gcswan/hindsight-cc/internal/config"
	"github.com/gcswan/hindsight-cc/internal/logging"
	"github.com/gcswan/hindsight-cc/pkg/bankid"
	"github.com/gcswan/hindsight-cc/pkg/git"
)

// statusReport is the output of the status command.
type statusReport struct {
	bankid.Result
	Branch     string `json:"branch,omitempty"`
	RemoteURL  string `json:"remote_url,omitempty"`
	GitBackend string `json:"git_backend"`
	// Config is the effective configuration after file, env and flags.
	Config *config.Config `json:"config"`
}

func newStatusCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show how the bank ID for the current project is derived",
		Long: `Show the project directory and branch, the tier that produced the
identity, the origin remote URL and the resulting bank ID.

Credentials embedded in the remote URL are redacted.

Examples:
  # Human-readable
  hindsight-bank status

  # Machine-readable
  hindsight-bank status --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report := a.status(cmd.Context())
			if asJSON {
				return writeStatusJSON(cmd.OutOrStdout(), report)
			}
			return writeStatusText(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")

	return cmd
}

// status resolves the bank ID and looks up the origin URL for display.
func (a *app) status(ctx context.Context) statusReport {
	logger := logging.FromContext(ctx)

	result := bankid.New(a.repo).ResolveDetail(ctx, logger.Sink(ctx))
	report := statusReport{Result: result, GitBackend: a.cfg.Git.Backend, Config: a.cfg}

	if result.Root == "" {
		return report
	}
	ctx = logging.WithProjectDir(ctx, result.Root)

	if branch, err := git.Branch(result.Root); err == nil {
		report.Branch = branch
	}

	url, err := a.repo.RemoteURL(ctx, result.Root, bankid.OriginRemote)
	if err != nil {
		logger.Debug(ctx, "no origin remote", zap.Error(err))
		return report
	}
	report.RemoteURL = logging.RedactString(strings.TrimSpace(url))
	return report
}

func writeStatusJSON(w io.Writer, report statusReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func writeStatusText(w io.Writer, report statusReport) error {
	dir := orNone(report.Root)
	_, err := fmt.Fprintf(w,
		"Project directory: %s\nBranch:            %s\nIdentity source:   %s\nIdentity:          %s\nRemote URL:        %s\nGit backend:       %s\nBank ID:           %s\n",
		dir, orNone(report.Branch), report.Source, report.Identity, orNone(report.RemoteURL), report.GitBackend, report.ID)
	return err
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
