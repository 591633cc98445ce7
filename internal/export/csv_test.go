package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/taxlien/domaincheck/internal/model"
)

var fixedNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func testBatch() *model.BatchResult {
	created := time.Date(1995, 8, 14, 4, 0, 0, 0, time.UTC)
	expires := fixedNow.AddDate(0, 0, 45)
	return &model.BatchResult{
		TotalDomains: 2,
		Successful:   1,
		Failed:       1,
		Results: []model.CheckResult{
			{
				Domain:  "example.com",
				Success: true,
				Info: &model.DomainInfo{
					Domain: "example.com",
					Status: model.StatusActive,
					WHOIS: &model.WHOISData{
						Domain:         "example.com",
						Registrar:      "Example Registrar",
						CreatedDate:    &created,
						ExpirationDate: &expires,
						NameServers:    []string{"a.iana-servers.net", "b.iana-servers.net"},
					},
				},
				Duration: 1234 * time.Millisecond,
				Cached:   true,
			},
			{
				Domain:       "broken.com",
				Success:      false,
				ErrorMessage: "whois server unreachable",
				Info:         &model.DomainInfo{Domain: "broken.com", Status: model.StatusError},
				Duration:     50 * time.Millisecond,
			},
		},
	}
}

func parseCSV(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	rows, err := csv.NewReader(buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid csv: %v", err)
	}
	return rows
}

func TestWriteCSV_Header(t *testing.T) {
	var buf bytes.Buffer
	if err := writeCSV(&buf, testBatch(), fixedNow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows := parseCSV(t, &buf)
	want := []string{
		"Domain", "Success", "Status", "Registrar", "Creation Date",
		"Expiration Date", "Days Until Expiration", "Name Servers",
		"Error Message", "Check Duration", "Cached",
	}
	if len(rows[0]) != len(want) {
		t.Fatalf("expected %d columns, got %d", len(want), len(rows[0]))
	}
	for i, col := range want {
		if rows[0][i] != col {
			t.Errorf("column %d: expected %q, got %q", i, col, rows[0][i])
		}
	}
}

func TestWriteCSV_Rows(t *testing.T) {
	var buf bytes.Buffer
	if err := writeCSV(&buf, testBatch(), fixedNow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows := parseCSV(t, &buf)
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}

	ok := rows[1]
	if ok[0] != "example.com" || ok[1] != "true" || ok[2] != "active" {
		t.Errorf("unexpected identity columns: %v", ok[:3])
	}
	if ok[4] != "1995-08-14" {
		t.Errorf("unexpected creation date: %q", ok[4])
	}
	if ok[6] != "45" {
		t.Errorf("expected days until expiration computed at write time, got %q", ok[6])
	}
	if ok[7] != "a.iana-servers.net;b.iana-servers.net" {
		t.Errorf("unexpected name servers: %q", ok[7])
	}
	if ok[9] != "1.234s" || ok[10] != "true" {
		t.Errorf("unexpected duration/cached columns: %q %q", ok[9], ok[10])
	}

	failed := rows[2]
	if failed[1] != "false" || failed[2] != "error" {
		t.Errorf("unexpected failure columns: %v", failed[1:3])
	}
	if failed[8] != "whois server unreachable" {
		t.Errorf("unexpected error message: %q", failed[8])
	}
	// Unknown WHOIS fields stay empty
	for _, idx := range []int{3, 4, 5, 6, 7} {
		if failed[idx] != "" {
			t.Errorf("column %d should be empty for a failed check, got %q", idx, failed[idx])
		}
	}
}

func TestWriteCSV_EmptyBatch(t *testing.T) {
	var buf bytes.Buffer
	if err := writeCSV(&buf, &model.BatchResult{}, fixedNow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	rows := parseCSV(t, &buf)
	if len(rows) != 1 {
		t.Errorf("expected header only, got %d rows", len(rows))
	}
	if !strings.HasPrefix(out, "Domain,") {
		t.Errorf("unexpected output: %q", out)
	}
}
