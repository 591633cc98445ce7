package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/taxlien/domaincheck/internal/batch"
	"github.com/taxlien/domaincheck/internal/export"
	"github.com/taxlien/domaincheck/internal/model"
	"github.com/taxlien/domaincheck/internal/presenter"
)

var batchCmdFlags struct {
	CacheFlags
	CheckFlags
	File         string
	Output       string
	Workers      int
	ChunkDelayMs int
	ExpiringOnly bool
	Statuses     []string
	SortBy       string
	Quiet        bool
}

var batchCmd = &cobra.Command{
	Use:           "batch [domain...]",
	Short:         "Check many domains concurrently",
	SilenceUsage:  true,
	SilenceErrors: true,
	Long: `Check a list of domains over a bounded worker pool and print a summary
table, optionally exporting the results to CSV.

Domains come from positional arguments, from a file (one domain per line,
'#' comments and blank lines ignored), or both.

Examples:
  # Check domains from a file with 20 workers
  domaincheck batch --file domains.txt --workers 20

  # Export results to CSV
  domaincheck batch --file domains.txt --output results.csv

  # Only report domains expiring within 14 days
  domaincheck batch --file domains.txt --expiring-only --threshold 14`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		domains := args
		if batchCmdFlags.File != "" {
			fromFile, err := batch.ReadDomainsFile(batchCmdFlags.File)
			if err != nil {
				return ExitWithCode(2, err)
			}
			domains = append(domains, fromFile...)
		}
		if len(domains) == 0 {
			return fmt.Errorf("no domains given: pass them as arguments or with --file")
		}

		cfg := effectiveConfig(batchCmdFlags.CacheFlags, batchCmdFlags.CheckFlags)
		if batchCmdFlags.Workers > 0 {
			cfg.Batch.Workers = batchCmdFlags.Workers
		}
		if batchCmdFlags.ChunkDelayMs > 0 {
			cfg.Batch.ChunkDelayMillis = batchCmdFlags.ChunkDelayMs
		}

		chk, cleanup, err := buildChecker(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		var observer batch.Observer
		if !batchCmdFlags.Quiet {
			observer = progressPrinter{verbose: rootFlags.Verbose}
		}
		batcher := batch.New(chk, batch.Config{
			Workers:    cfg.Batch.Workers,
			ChunkDelay: cfg.ChunkDelay(),
		}, observer, appLogger)

		result, runErr := batcher.CheckDomains(ctx, domains)

		if batchCmdFlags.ExpiringOnly {
			result.Results = model.FilterExpiring(result.Results, time.Now(), cfg.Check.ExpiryThresholdDays)
		}
		if len(batchCmdFlags.Statuses) > 0 {
			statuses := make([]model.DomainStatus, len(batchCmdFlags.Statuses))
			for i, s := range batchCmdFlags.Statuses {
				statuses[i] = model.DomainStatus(s)
			}
			result.Results = model.FilterByStatus(result.Results, statuses...)
		}
		if batchCmdFlags.SortBy != "" {
			model.SortResults(result.Results, batchCmdFlags.SortBy)
		}

		if batchCmdFlags.Output != "" {
			if err := export.WriteCSVFile(batchCmdFlags.Output, result); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Wrote %d results to %s\n", len(result.Results), batchCmdFlags.Output)
		} else {
			presenter.WriteBatchTable(os.Stdout, result, time.Now())
		}
		presenter.WriteBatchSummary(os.Stderr, result)

		if runErr != nil {
			return ExitWithCode(1, runErr)
		}
		if result.TotalDomains > 0 && result.Successful == 0 {
			return ExitWithCode(1, fmt.Errorf("all %d checks failed", result.TotalDomains))
		}
		return nil
	},
}

// progressPrinter reports per-domain completion on stderr
type progressPrinter struct {
	verbose bool
}

func (p progressPrinter) Progress(completed, total int, result model.CheckResult) {
	status := "error"
	if result.Info != nil {
		status = string(result.Info.Status)
	}
	if p.verbose && result.ErrorMessage != "" {
		fmt.Fprintf(os.Stderr, "[%d/%d] %s: %s (%s)\n", completed, total, result.Domain, status, result.ErrorMessage)
		return
	}
	fmt.Fprintf(os.Stderr, "[%d/%d] %s: %s\n", completed, total, result.Domain, status)
}

func init() {
	addCacheFlags(batchCmd, &batchCmdFlags.CacheFlags)
	addCheckFlags(batchCmd, &batchCmdFlags.CheckFlags)

	batchCmd.Flags().StringVarP(&batchCmdFlags.File, "file", "f", "", "Path to a file with one domain per line")
	batchCmd.Flags().StringVarP(&batchCmdFlags.Output, "output", "o", "", "Write results to a CSV file instead of stdout")
	batchCmd.Flags().IntVarP(&batchCmdFlags.Workers, "workers", "w", 0, "Number of concurrent checks")
	batchCmd.Flags().IntVar(&batchCmdFlags.ChunkDelayMs, "chunk-delay", 0, "Milliseconds to pause after each chunk of dispatched checks")
	batchCmd.Flags().BoolVar(&batchCmdFlags.ExpiringOnly, "expiring-only", false, "Only report domains expiring within the threshold")
	batchCmd.Flags().StringSliceVar(&batchCmdFlags.Statuses, "status", nil, "Only report domains with these statuses (active, expired, expiring_soon, not_found, error)")
	batchCmd.Flags().StringVar(&batchCmdFlags.SortBy, "sort", "", "Sort results by: domain, status, expiration, or duration")
	batchCmd.Flags().BoolVarP(&batchCmdFlags.Quiet, "quiet", "q", false, "Suppress per-domain progress output")
}
