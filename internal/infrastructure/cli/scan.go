package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/aiscan/internal/application"
	"github.com/felixgeelhaar/aiscan/internal/domain/classify"
	"github.com/felixgeelhaar/aiscan/internal/infrastructure/ai"
	"github.com/felixgeelhaar/aiscan/internal/infrastructure/config"
	"github.com/felixgeelhaar/aiscan/internal/infrastructure/storage"
	"github.com/felixgeelhaar/aiscan/internal/infrastructure/tabular"
)

var (
	scanOutput      string
	scanConcurrency int
	scanRetries     int
	scanTimeout     time.Duration
	scanReasonMax   int
	scanProvider    string
	scanModel       string
	scanSheet       string
	scanAllSheets   bool
	scanQuiet       bool
)

var summaryStyle = lipgloss.NewStyle().Bold(true)
var flaggedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
var erroredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
var okStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

var scanCmd = &cobra.Command{
	Use:   "scan <input-file>",
	Short: "Classify every record in a software list and write the results table",
	Long: `Classify every record in a software list and write the results table.

The input is a CSV file or xlsx workbook with at minimum a product-name
column; vendor, description and status columns are optional. Results keep the
input row order. Per-row classification failures are recorded in the output
and flagged for review; only structural problems (unreadable input, missing
product column, unwritable output, unresolvable credentials) fail the run.`,
	Args: cobra.ExactArgs(1),
	RunE: runScanCmd,
}

func init() {
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "ai_scan_results.csv", "results file path")
	scanCmd.Flags().IntVar(&scanConcurrency, "concurrency", 0, "parallel classifier calls (default 1)")
	scanCmd.Flags().IntVar(&scanRetries, "retries", 0, "attempts per record for transient failures (default 3)")
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", 0, "ceiling per classifier attempt (default 60s)")
	scanCmd.Flags().IntVar(&scanReasonMax, "reason-max", 0, "reason length cap in characters (default 256)")
	scanCmd.Flags().StringVar(&scanProvider, "provider", "", "credential scheme to prefer (azure, openai, mock)")
	scanCmd.Flags().StringVar(&scanModel, "model", "", "model name for the direct provider scheme")
	scanCmd.Flags().StringVar(&scanSheet, "sheet", "", "worksheet to scan in an xlsx workbook")
	scanCmd.Flags().BoolVar(&scanAllSheets, "all-sheets", false, "scan every worksheet in an xlsx workbook")
	scanCmd.Flags().BoolVarP(&scanQuiet, "quiet", "q", false, "suppress per-record progress output")

	RootCmd.AddCommand(scanCmd)
}

func runScanCmd(cmd *cobra.Command, args []string) error {
	input := args[0]
	if _, err := os.Stat(input); err != nil {
		return fmt.Errorf("input file %q: %w", input, err)
	}

	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	applyScanFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	scheme, err := ai.ResolveScheme(cfg.Provider)
	if err != nil {
		return err
	}
	provider, err := ai.NewProvider(scheme, cfg.Model)
	if err != nil {
		return err
	}

	classifier := application.NewClassifierService(provider)
	writer := tabular.NewWriter(scanOutput)
	source := newSource(input, cfg)

	var audit *application.AuditService
	var usage *application.UsageService
	repo := storage.NewFilesystemRepository(root)
	if repo.IsInitialized() {
		audit = application.NewAuditService(repo)
		usage = application.NewUsageService(repo)
	}

	svc := application.NewScanService(source, classifier, writer, audit, usage, application.Options{
		Concurrency: cfg.Concurrency,
		Retries:     cfg.Retries,
		Timeout:     cfg.TimeoutDuration(),
		ReasonMax:   cfg.ReasonMax,
	})
	if !scanQuiet {
		svc.SetProgress(progressPrinter(cmd))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Scanning %s with %s...\n", input, provider.ID())

	summary, err := svc.Run(cmd.Context())
	if err != nil {
		return err
	}

	printSummary(cmd, summary)
	return nil
}

func applyScanFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency = scanConcurrency
	}
	if cmd.Flags().Changed("retries") {
		cfg.Retries = scanRetries
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout = scanTimeout.String()
	}
	if cmd.Flags().Changed("reason-max") {
		cfg.ReasonMax = scanReasonMax
	}
	if cmd.Flags().Changed("provider") {
		cfg.Provider = scanProvider
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = scanModel
	}
	if cmd.Flags().Changed("sheet") {
		cfg.Sheet = scanSheet
	}
	if cmd.Flags().Changed("all-sheets") {
		cfg.AllSheets = scanAllSheets
	}
}

// newSource picks the record source by file extension.
func newSource(input string, cfg *config.Config) application.RecordSource {
	switch strings.ToLower(filepath.Ext(input)) {
	case ".xlsx", ".xlsm":
		return tabular.NewXLSXSource(input, cfg.Sheet, cfg.AllSheets, cfg.Columns)
	default:
		return tabular.NewCSVSource(input, cfg.Columns)
	}
}

// progressPrinter serializes per-record progress lines; workers complete out
// of order under parallel execution.
func progressPrinter(cmd *cobra.Command) application.Progress {
	var mu sync.Mutex
	done := 0

	return func(index, total int, rec classify.ReviewedRecord) {
		mu.Lock()
		defer mu.Unlock()
		done++

		status := okStyle.Render("OK")
		if rec.NeedsReview {
			status = flaggedStyle.Render(fmt.Sprintf("FLAGGED (%s)", rec.Result.HasAI))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "[%d/%d] %s... %s\n", done, total, rec.Record.DisplayName(), status)
	}
}

func printSummary(cmd *cobra.Command, summary *application.Summary) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintln(out, summaryStyle.Render(fmt.Sprintf("SCAN COMPLETE - %d checked, %s flagged, %s errored",
		summary.Total,
		flaggedStyle.Render(fmt.Sprintf("%d", summary.Flagged)),
		erroredStyle.Render(fmt.Sprintf("%d", summary.Errored)),
	)))
	fmt.Fprintf(out, "Results saved to: %s\n", scanOutput)
	fmt.Fprintf(out, "Provider: %s (%d input / %d output tokens)\n",
		summary.Provider, summary.Usage.InputTokens, summary.Usage.OutputTokens)
	fmt.Fprintf(out, "Completed in %s at %s\n",
		summary.Duration.Round(time.Millisecond), time.Now().Format("2006-01-02 15:04:05"))
}
