package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/aiscan/internal/application"
	"github.com/felixgeelhaar/aiscan/internal/infrastructure/storage"
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show accumulated run counts and token consumption",
	RunE:  runUsageCmd,
}

func init() {
	RootCmd.AddCommand(usageCmd)
}

func runUsageCmd(cmd *cobra.Command, args []string) error {
	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}

	repo := storage.NewFilesystemRepository(root)
	if !repo.IsInitialized() {
		return fmt.Errorf("no workspace found; run 'aiscan init' first")
	}

	stats, err := application.NewUsageService(repo).GetUsage()
	if err != nil {
		return fmt.Errorf("load usage: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, summaryStyle.Render("Usage"))
	fmt.Fprintf(out, "  Runs:    %d\n", stats.TotalRuns)
	fmt.Fprintf(out, "  Records: %d\n", stats.TotalRecords)
	if !stats.LastRunAt.IsZero() {
		fmt.Fprintf(out, "  Last:    %s\n", stats.LastRunAt.Format("2006-01-02 15:04:05"))
	}

	if len(stats.ProviderStats) > 0 {
		fmt.Fprintln(out, "  Tokens:")
		keys := make([]string, 0, len(stats.ProviderStats))
		for k := range stats.ProviderStats {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(out, "    %-24s %d\n", k, stats.ProviderStats[k])
		}
	}
	return nil
}
