package report

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// TopN is the number of ranked URLs listed in the text report.
const TopN = 20

// WriteText writes the human-readable run report.
func WriteText(w io.Writer, run Run) error {
	a := run.Analysis
	q := a.Quality

	var b strings.Builder
	fmt.Fprintln(&b, "HEALTH-TECH URL DISCOVERY REPORT")
	fmt.Fprintln(&b, strings.Repeat("=", 60))
	fmt.Fprintf(&b, "Run ID: %s\n", run.ID)
	fmt.Fprintf(&b, "Total URLs discovered: %d\n\n", len(run.Records))

	section(&b, "DISCOVERY METHODS", "Method", a.MethodCounts)

	quality := newTable("Quality", "Value")
	quality.AppendRows([]table.Row{
		{"High confidence (8+)", q.HighConfidence},
		{"Medium confidence (5-7)", q.MediumConfidence},
		{"Low confidence (<5)", q.LowConfidence},
		{"Quality score", fmt.Sprintf("%.2f/3.0", q.QualityScore)},
	})
	fmt.Fprintln(&b, "QUALITY METRICS")
	fmt.Fprintln(&b, quality.Render())
	fmt.Fprintln(&b)

	section(&b, "CATEGORIES", "Category", a.CategoryCounts)
	section(&b, "GEOGRAPHIC DISTRIBUTION", "Country", a.CountryCounts)

	fmt.Fprintln(&b, "DATA HYGIENE")
	fmt.Fprintf(&b, "  Duplicates removed: %d\n", a.DuplicatesRemoved)
	fmt.Fprintf(&b, "  Invalid URLs skipped: %d\n\n", a.InvalidSkipped)

	top := newTable("#", "URL", "Confidence", "Method", "Source")
	for i, r := range run.Records {
		if i == TopN {
			break
		}
		top.AppendRow(table.Row{i + 1, r.NormalizedURL(), r.Confidence, r.Method, r.Source})
	}
	fmt.Fprintf(&b, "TOP %d URLS\n", TopN)
	fmt.Fprintln(&b, top.Render())

	_, err := io.WriteString(w, b.String())
	return err
}

// section renders counts as a two-column table, largest first.
func section(b *strings.Builder, title, label string, counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(x, y string) int {
		if c := cmp.Compare(counts[y], counts[x]); c != 0 {
			return c
		}
		return cmp.Compare(x, y)
	})

	t := newTable(label, "URLs")
	for _, k := range keys {
		t.AppendRow(table.Row{k, counts[k]})
	}
	fmt.Fprintln(b, title)
	fmt.Fprintln(b, t.Render())
	fmt.Fprintln(b)
}

func newTable(header ...any) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row(header))
	return t
}
