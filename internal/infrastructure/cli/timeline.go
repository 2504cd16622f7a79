package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/aiscan/internal/application"
	"github.com/felixgeelhaar/aiscan/internal/infrastructure/storage"
)

var timelineVerify bool

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Show the audit trail of scan runs",
	Long: `Show the audit trail of scan runs recorded in this workspace.

Events form a hash chain; --verify walks the chain and reports any broken
link or tampered event.`,
	RunE: runTimelineCmd,
}

func init() {
	timelineCmd.Flags().BoolVar(&timelineVerify, "verify", false, "verify the integrity of the audit chain")
	RootCmd.AddCommand(timelineCmd)
}

func runTimelineCmd(cmd *cobra.Command, args []string) error {
	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}

	repo := storage.NewFilesystemRepository(root)
	if !repo.IsInitialized() {
		return fmt.Errorf("no workspace found; run 'aiscan init' first")
	}

	audit := application.NewAuditService(repo)
	out := cmd.OutOrStdout()

	if timelineVerify {
		violations, err := audit.VerifyIntegrity()
		if err != nil {
			return fmt.Errorf("verify audit trail: %w", err)
		}
		if len(violations) == 0 {
			fmt.Fprintln(out, okStyle.Render("Audit trail intact."))
			return nil
		}
		for _, v := range violations {
			fmt.Fprintln(out, erroredStyle.Render(v))
		}
		return fmt.Errorf("%d integrity violation(s) found", len(violations))
	}

	events, err := audit.GetTimeline()
	if err != nil {
		return fmt.Errorf("load audit trail: %w", err)
	}
	if len(events) == 0 {
		fmt.Fprintln(out, "No events recorded yet.")
		return nil
	}

	for _, e := range events {
		fmt.Fprintf(out, "%s  %-16s %s\n",
			e.Timestamp.Format("2006-01-02 15:04:05"), e.Action, e.Actor)
		if len(e.Metadata) > 0 {
			keys := make([]string, 0, len(e.Metadata))
			for k := range e.Metadata {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			pairs := make([]string, 0, len(keys))
			for _, k := range keys {
				pairs = append(pairs, fmt.Sprintf("%s=%v", k, e.Metadata[k]))
			}
			fmt.Fprintf(out, "    %s\n", strings.Join(pairs, " "))
		}
	}
	return nil
}
