// Package presenter renders check results for terminal output
package presenter

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/taxlien/domaincheck/internal/model"
)

const dateLayout = "2006-01-02"

// WriteResult renders one check result in detailed form
func WriteResult(w io.Writer, res model.CheckResult, now time.Time) {
	fmt.Fprintf(w, "Domain: %s\n", res.Domain)

	if !res.Success && res.Info == nil {
		fmt.Fprintf(w, "Status: %s\n", model.StatusError)
		fmt.Fprintf(w, "Error: %s\n", res.ErrorMessage)
		return
	}

	info := res.Info
	fmt.Fprintf(w, "Status: %s\n", info.Status)
	if res.Cached {
		fmt.Fprintf(w, "Source: cache (checked %s)\n", FormatTimeSince(info.LastChecked, now))
	}
	if res.ErrorMessage != "" {
		fmt.Fprintf(w, "Error: %s\n", res.ErrorMessage)
	}

	if whoisData := info.WHOIS; whoisData != nil {
		if whoisData.Registrar != "" {
			fmt.Fprintf(w, "Registrar: %s\n", whoisData.Registrar)
		}
		if whoisData.CreatedDate != nil {
			fmt.Fprintf(w, "Created: %s\n", whoisData.CreatedDate.Format(dateLayout))
		}
		if whoisData.ExpirationDate != nil {
			expires := whoisData.ExpirationDate.Format(dateLayout)
			if days := whoisData.DaysUntilExpiration(now); days != nil {
				fmt.Fprintf(w, "Expires: %s (%d days)\n", expires, *days)
			} else {
				fmt.Fprintf(w, "Expires: %s\n", expires)
			}
		}
		if len(whoisData.NameServers) > 0 {
			fmt.Fprintf(w, "Name Servers:\n")
			for _, ns := range whoisData.NameServers {
				fmt.Fprintf(w, "  - %s\n", ns)
			}
		}
	}

	if len(info.DNSRecords) > 0 {
		fmt.Fprintf(w, "DNS Records (%d):\n", len(info.DNSRecords))
		for _, rec := range info.DNSRecords {
			fmt.Fprintf(w, "  %-6s %s\n", rec.Type, rec.Value)
		}
	}

	fmt.Fprintf(w, "Duration: %s\n", res.Duration.Round(time.Millisecond))
}

// WriteBatchTable renders batch results as a compact table, one row per domain
func WriteBatchTable(w io.Writer, batch *model.BatchResult, now time.Time) {
	fmt.Fprintf(w, "%-40s %-14s %-10s %-12s %s\n", "Domain", "Status", "Expires", "Days Left", "Cached")
	fmt.Fprintln(w, strings.Repeat("-", 85))

	for _, res := range batch.Results {
		status := model.StatusError
		expires := "-"
		days := "-"
		if res.Info != nil {
			status = res.Info.Status
			if whoisData := res.Info.WHOIS; whoisData != nil && whoisData.ExpirationDate != nil {
				expires = whoisData.ExpirationDate.Format(dateLayout)
				if d := whoisData.DaysUntilExpiration(now); d != nil {
					days = strconv.Itoa(*d)
				}
			}
		}
		fmt.Fprintf(w, "%-40s %-14s %-10s %-12s %t\n",
			truncateString(res.Domain, 38), status, expires, days, res.Cached)
	}
}

// WriteBatchSummary renders the batch aggregates
func WriteBatchSummary(w io.Writer, batch *model.BatchResult) {
	fmt.Fprintf(w, "\nChecked %d domains in %s: %d succeeded, %d failed, %d from cache (%.1f%% success)\n",
		batch.TotalDomains,
		batch.TotalDuration.Round(time.Millisecond),
		batch.Successful,
		batch.Failed,
		batch.CachedResults,
		batch.SuccessRate())
}

// FormatTimeSince formats the distance between t and now as a human-readable
// "X ago" string
func FormatTimeSince(t, now time.Time) string {
	duration := now.Sub(t)

	if duration < time.Hour {
		return fmt.Sprintf("%.0f minutes ago", duration.Minutes())
	} else if duration < 24*time.Hour {
		return fmt.Sprintf("%.1f hours ago", duration.Hours())
	}
	return fmt.Sprintf("%.0f days ago", duration.Hours()/24)
}

// truncateString truncates a string to the specified length with ellipsis
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
