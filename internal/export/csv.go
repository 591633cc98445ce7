// Package export renders batch results to CSV for spreadsheets and reporting
// pipelines.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/taxlien/domaincheck/internal/model"
)

const dateLayout = "2006-01-02"

// csvHeader is the fixed column set, written even for an empty batch
var csvHeader = []string{
	"Domain",
	"Success",
	"Status",
	"Registrar",
	"Creation Date",
	"Expiration Date",
	"Days Until Expiration",
	"Name Servers",
	"Error Message",
	"Check Duration",
	"Cached",
}

// WriteCSV writes the batch results as CSV, one row per result in batch
// order. Days-until-expiration is computed against the current clock at
// write time.
func WriteCSV(w io.Writer, result *model.BatchResult) error {
	return writeCSV(w, result, time.Now())
}

// WriteCSVFile writes the batch results to a CSV file, creating or
// truncating it
func WriteCSVFile(path string, result *model.BatchResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	if err := WriteCSV(f, result); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeCSV(w io.Writer, result *model.BatchResult, now time.Time) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, res := range result.Results {
		if err := cw.Write(row(res, now)); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", res.Domain, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// row renders one check result. Unknown fields become empty cells rather
// than placeholder text.
func row(res model.CheckResult, now time.Time) []string {
	status := model.StatusError
	var registrar, created, expires, days, servers string
	if res.Info != nil {
		status = res.Info.Status
		if w := res.Info.WHOIS; w != nil {
			registrar = w.Registrar
			created = formatDate(w.CreatedDate)
			expires = formatDate(w.ExpirationDate)
			if d := w.DaysUntilExpiration(now); d != nil {
				days = strconv.Itoa(*d)
			}
			servers = strings.Join(w.NameServers, ";")
		}
	}

	return []string{
		res.Domain,
		strconv.FormatBool(res.Success),
		string(status),
		registrar,
		created,
		expires,
		days,
		servers,
		res.ErrorMessage,
		res.Duration.Round(time.Millisecond).String(),
		strconv.FormatBool(res.Cached),
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
