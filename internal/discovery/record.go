package discovery

// Provenance describes where a discovered URL came from.
// The pipeline treats Category, Country and Notes as opaque pass-through values.
type Provenance struct {
	// Source is the free-text name of the tool or directory that produced the record
	Source string
	// Confidence is caller-assigned, typically 0-10 (higher = more trusted)
	Confidence int
	// Category is a coarse business category assigned by the source
	Category string
	// Country is a coarse country/region tag
	Country string
	// Method is the discovery method label, used for ranking tie-breaks
	Method string
	// Notes is optional free text carried into the outputs
	Notes string
}

// Record is a single discovered URL candidate.
// Create records with NewRecord so the identity key is computed exactly once.
type Record struct {
	// URL is the raw, as-discovered URL string
	URL string
	Provenance

	normalized string
}

// NewRecord builds a Record and derives its normalized identity key from rawURL.
func NewRecord(rawURL string, p Provenance) Record {
	return Record{
		URL:        rawURL,
		Provenance: p,
		normalized: NormalizeURL(rawURL),
	}
}

// NormalizedURL returns the identity key of the record.
// Records built as struct literals fall back to normalizing on demand.
func (r Record) NormalizedURL() string {
	if r.normalized == "" {
		return NormalizeURL(r.URL)
	}
	return r.normalized
}

// Method labels produced by the built-in sources.
const (
	MethodHardcoded         = "Hardcoded"
	MethodManualCuration    = "Manual Curation"
	MethodGoogleSearch      = "Google Search"
	MethodEnhancedDiscovery = "Enhanced Discovery"
	MethodGenerated         = "Generated"
	MethodRSSFeed           = "RSS Feed"
)

// MethodPriority maps a method label to its ranking priority (higher first).
// Methods missing from the table rank as priority 0.
type MethodPriority map[string]int

// DefaultMethodPriority returns a fresh copy of the built-in priority table.
func DefaultMethodPriority() MethodPriority {
	return MethodPriority{
		MethodHardcoded:         5,
		MethodManualCuration:    4,
		MethodGoogleSearch:      3,
		MethodEnhancedDiscovery: 2,
		MethodGenerated:         1,
	}
}

// Of returns the priority of method, or 0 if unknown.
func (p MethodPriority) Of(method string) int {
	return p[method]
}
