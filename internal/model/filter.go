package model

import "time"

// FilterExpiring returns the results from a batch whose domains expire within
// thresholdDays of now. Failed checks, checks without WHOIS data, and domains
// that are already expired are excluded.
// Returns a new slice; the input batch is not modified.
func FilterExpiring(results []CheckResult, now time.Time, thresholdDays int) []CheckResult {
	var expiring []CheckResult
	for _, result := range results {
		if !result.Success || result.Info == nil {
			continue
		}
		if result.Info.WHOIS.IsExpiringSoon(now, thresholdDays) {
			expiring = append(expiring, result)
		}
	}
	return expiring
}

// FilterByStatus returns the results from a batch whose domain status matches
// any of the given statuses. Results without a DomainInfo never match.
func FilterByStatus(results []CheckResult, statuses ...DomainStatus) []CheckResult {
	if len(statuses) == 0 {
		return results
	}

	statusMap := make(map[DomainStatus]bool)
	for _, s := range statuses {
		statusMap[s] = true
	}

	var filtered []CheckResult
	for _, result := range results {
		if result.Info == nil {
			continue
		}
		if statusMap[result.Info.Status] {
			filtered = append(filtered, result)
		}
	}
	return filtered
}
