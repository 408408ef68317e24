// Package report renders a ranked discovery run to CSV, JSON, text and DOCX
// artifacts and validates previously written JSON runs.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cametumbling/discovery-pipeline/internal/discovery"
)

// TimestampFormat is used for run ids and the JSON discovery timestamp.
const TimestampFormat = "20060102_150405"

// Columns is the CSV header and the set of keys every JSON entry carries.
var Columns = []string{"url", "source", "confidence", "category", "country", "method", "notes"}

// RequiredKeys must be present on every entry of a saved JSON run.
var RequiredKeys = []string{"url", "source", "confidence", "category", "country", "method"}

// Run is everything the writers need to render one pipeline run.
type Run struct {
	ID        string
	Timestamp time.Time
	// Records are ranked and rendered in order
	Records  []discovery.Record
	Analysis discovery.Analysis
}

// Paths are the artifact locations of one run, all under Dir.
type Paths struct {
	Dir      string
	CSV      string
	JSON     string
	Report   string
	Manifest string
	// Docx is empty unless the DOCX report is enabled
	Docx string
}

// NewPaths lays out the artifacts of runID under outputDir/runID.
func NewPaths(outputDir, runID string, withDocx bool) Paths {
	dir := filepath.Join(outputDir, runID)
	p := Paths{
		Dir:      dir,
		CSV:      filepath.Join(dir, fmt.Sprintf("discovery_%s.csv", runID)),
		JSON:     filepath.Join(dir, fmt.Sprintf("discovery_%s.json", runID)),
		Report:   filepath.Join(dir, fmt.Sprintf("discovery_report_%s.txt", runID)),
		Manifest: filepath.Join(dir, "MANIFEST.json"),
	}
	if withDocx {
		p.Docx = filepath.Join(dir, fmt.Sprintf("discovery_report_%s.docx", runID))
	}
	return p
}

// Entry is the serialized form of a record. URL is the normalized URL.
type Entry struct {
	URL        string `json:"url"`
	Source     string `json:"source"`
	Confidence int    `json:"confidence"`
	Category   string `json:"category"`
	Country    string `json:"country"`
	Method     string `json:"method"`
	Notes      string `json:"notes"`
}

// Entries converts ranked records to their serialized form.
func Entries(records []discovery.Record) []Entry {
	out := make([]Entry, len(records))
	for i, r := range records {
		out[i] = Entry{
			URL:        r.NormalizedURL(),
			Source:     r.Source,
			Confidence: r.Confidence,
			Category:   r.Category,
			Country:    r.Country,
			Method:     r.Method,
			Notes:      r.Notes,
		}
	}
	return out
}

// Payload is the JSON document written for a run.
type Payload struct {
	DiscoveryTimestamp string             `json:"discovery_timestamp"`
	RunID              string             `json:"run_id"`
	TotalURLs          int                `json:"total_urls_discovered"`
	Analysis           discovery.Analysis `json:"analysis"`
	URLs               []Entry            `json:"urls"`
}

// Manifest lists the artifacts of a run relative to the run directory.
type Manifest struct {
	Files map[string]string `json:"files"`
	Total int               `json:"total"`
}

// WriteCSV writes one row per record under the Columns header.
func WriteCSV(w io.Writer, records []discovery.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, e := range Entries(records) {
		row := []string{e.URL, e.Source, strconv.Itoa(e.Confidence), e.Category, e.Country, e.Method, e.Notes}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the run payload as indented JSON.
func WriteJSON(w io.Writer, run Run) error {
	return encodeJSON(w, Payload{
		DiscoveryTimestamp: run.Timestamp.Format(TimestampFormat),
		RunID:              run.ID,
		TotalURLs:          len(run.Records),
		Analysis:           run.Analysis,
		URLs:               Entries(run.Records),
	})
}

// WriteManifest writes m as indented JSON.
func WriteManifest(w io.Writer, m Manifest) error {
	return encodeJSON(w, m)
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// WriteAll writes every artifact named in p. The run directory is created
// if needed; the first failure aborts and is returned.
func WriteAll(p Paths, run Run) error {
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return fmt.Errorf("creating run directory: %w", err)
	}

	if err := writeFile(p.CSV, func(w io.Writer) error { return WriteCSV(w, run.Records) }); err != nil {
		return err
	}
	if err := writeFile(p.JSON, func(w io.Writer) error { return WriteJSON(w, run) }); err != nil {
		return err
	}
	if err := writeFile(p.Report, func(w io.Writer) error { return WriteText(w, run) }); err != nil {
		return err
	}
	if p.Docx != "" {
		if err := WriteDocx(p.Docx, run); err != nil {
			return fmt.Errorf("writing %s: %w", p.Docx, err)
		}
	}

	manifest := Manifest{Files: map[string]string{}, Total: len(run.Records)}
	for key, path := range map[string]string{
		"csv": p.CSV, "json": p.JSON, "report": p.Report, "manifest": p.Manifest, "docx": p.Docx,
	} {
		if path != "" {
			manifest.Files[key] = filepath.Base(path)
		}
	}
	return writeFile(p.Manifest, func(w io.Writer) error { return WriteManifest(w, manifest) })
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
