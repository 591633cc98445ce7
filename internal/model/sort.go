package model

import (
	"sort"
	"time"
)

// SortBy specifies the field used when sorting check results for display
type SortBy string

const (
	SortByDomain     SortBy = "domain"
	SortByStatus     SortBy = "status"
	SortByExpiration SortBy = "expiration"
	SortByDuration   SortBy = "duration"
)

// SortResults sorts a slice of check results in place based on the specified field.
// The sortBy parameter should be one of: "domain", "status", "expiration", "duration".
// If sortBy is empty or unrecognized, results are sorted by domain name.
// Sorting by expiration puts the soonest-expiring domains first; results
// without an expiration date sort last.
func SortResults(results []CheckResult, sortBy string) {
	switch SortBy(sortBy) {
	case SortByStatus:
		sort.SliceStable(results, func(i, j int) bool {
			return resultStatus(results[i]) < resultStatus(results[j])
		})
	case SortByExpiration:
		sort.SliceStable(results, func(i, j int) bool {
			ti, iok := expirationOf(results[i])
			tj, jok := expirationOf(results[j])
			if iok != jok {
				return iok
			}
			if !iok {
				return results[i].Domain < results[j].Domain
			}
			return ti.Before(tj)
		})
	case SortByDuration:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Duration < results[j].Duration
		})
	default:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Domain < results[j].Domain
		})
	}
}

func resultStatus(r CheckResult) DomainStatus {
	if r.Info == nil {
		return StatusError
	}
	return r.Info.Status
}

func expirationOf(r CheckResult) (time.Time, bool) {
	if r.Info == nil || r.Info.WHOIS == nil || r.Info.WHOIS.ExpirationDate == nil {
		return time.Time{}, false
	}
	return *r.Info.WHOIS.ExpirationDate, true
}
