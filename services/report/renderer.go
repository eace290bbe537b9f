// Package report renders analytics artifacts. The renderer is treated as a
// pure function of (title, records, kpis); the shipped implementation emits
// CSV and can be swapped for a PDF backend without touching callers.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"time"
)

// Row is one flat record in the rendered report.
type Row map[string]string

// Renderer turns a sequence of flat records and a KPI map into a binary
// artifact.
type Renderer interface {
	Render(title string, rows []Row, kpis map[string]int) ([]byte, string, error)
}

// CSVRenderer emits a KPI header section followed by the record table.
type CSVRenderer struct{}

// Render implements Renderer. The returned content type is text/csv.
func (CSVRenderer) Render(title string, rows []Row, kpis map[string]int) ([]byte, string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write([]string{title})
	_ = w.Write([]string{"generated", time.Now().UTC().Format(time.RFC3339)})
	_ = w.Write(nil)

	for _, k := range sortedKeys(kpis) {
		_ = w.Write([]string{k, fmt.Sprintf("%d", kpis[k])})
	}
	_ = w.Write(nil)

	if len(rows) > 0 {
		header := rowKeys(rows)
		_ = w.Write(header)
		for _, row := range rows {
			line := make([]string, len(header))
			for i, k := range header {
				line[i] = row[k]
			}
			_ = w.Write(line)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("report: render %q: %w", title, err)
	}
	return buf.Bytes(), "text/csv", nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// rowKeys collects the union of keys across rows, sorted for a stable
// column order.
func rowKeys(rows []Row) []string {
	set := make(map[string]struct{})
	for _, r := range rows {
		for k := range r {
			set[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
