package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/taxlien/domaincheck/internal/presenter"
)

var checkCmdFlags struct {
	CacheFlags
	CheckFlags
}

var checkCmd = &cobra.Command{
	Use:           "check <domain> [domain...]",
	Short:         "Check one or more domains",
	SilenceUsage:  true,
	SilenceErrors: true,
	Long: `Look up WHOIS registration data and DNS records for each domain and print
a detailed report.

Examples:
  # Check a single domain
  domaincheck check example.com

  # Check several domains, skipping DNS record collection
  domaincheck check --no-dns example.com google.com

  # Check with a persistent cache file
  domaincheck check --cache-file ~/.domaincheck/cache.json example.com`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := effectiveConfig(checkCmdFlags.CacheFlags, checkCmdFlags.CheckFlags)

		chk, cleanup, err := buildChecker(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		failed := 0
		for i, domain := range args {
			if i > 0 {
				fmt.Println()
			}
			result := chk.Check(ctx, domain)
			presenter.WriteResult(os.Stdout, result, time.Now())
			if !result.Success {
				failed++
			}
		}

		if failed == len(args) {
			return ExitWithCode(1, fmt.Errorf("all %d checks failed", len(args)))
		}
		return nil
	},
}

func init() {
	addCacheFlags(checkCmd, &checkCmdFlags.CacheFlags)
	addCheckFlags(checkCmd, &checkCmdFlags.CheckFlags)
}
