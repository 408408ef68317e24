package discovery

// Confidence bands used by the quality metrics.
const (
	HighConfidence   = 8
	MediumConfidence = 5
)

// QualityMetrics summarizes the confidence spread of a result set.
type QualityMetrics struct {
	HighConfidence   int `json:"high_confidence"`
	MediumConfidence int `json:"medium_confidence"`
	LowConfidence    int `json:"low_confidence"`
	// QualityScore is (3*high + 2*medium + low) / total, 0 for an empty set
	QualityScore float64 `json:"quality_score"`
	// PerMethodPrecision is the share of each method's records with high confidence
	PerMethodPrecision map[string]float64 `json:"per_method_precision_proxy"`
}

// Analysis describes a ranked, deduplicated result set.
type Analysis struct {
	TotalURLs              int            `json:"total_urls"`
	MethodCounts           map[string]int `json:"method_counts"`
	ConfidenceDistribution map[int]int    `json:"confidence_distribution"`
	CategoryCounts         map[string]int `json:"category_counts"`
	CountryCounts          map[string]int `json:"country_counts"`
	Quality                QualityMetrics `json:"quality_metrics"`
	DuplicatesRemoved      int            `json:"duplicates_removed"`
	InvalidSkipped         int            `json:"invalid_urls_skipped"`
}

// Analyze computes counts and quality metrics over records.
func Analyze(records []Record, duplicates, invalid int) Analysis {
	a := Analysis{
		TotalURLs:              len(records),
		MethodCounts:           make(map[string]int),
		ConfidenceDistribution: make(map[int]int),
		CategoryCounts:         make(map[string]int),
		CountryCounts:          make(map[string]int),
		Quality: QualityMetrics{
			PerMethodPrecision: make(map[string]float64),
		},
		DuplicatesRemoved: duplicates,
		InvalidSkipped:    invalid,
	}

	highByMethod := make(map[string]int)
	for _, r := range records {
		a.MethodCounts[r.Method]++
		a.ConfidenceDistribution[r.Confidence]++
		a.CategoryCounts[r.Category]++
		a.CountryCounts[r.Country]++

		switch {
		case r.Confidence >= HighConfidence:
			a.Quality.HighConfidence++
			highByMethod[r.Method]++
		case r.Confidence >= MediumConfidence:
			a.Quality.MediumConfidence++
		default:
			a.Quality.LowConfidence++
		}
	}

	if a.TotalURLs > 0 {
		q := a.Quality
		a.Quality.QualityScore = float64(q.HighConfidence*3+q.MediumConfidence*2+q.LowConfidence) / float64(a.TotalURLs)
	}
	for method, count := range a.MethodCounts {
		a.Quality.PerMethodPrecision[method] = float64(highByMethod[method]) / float64(count)
	}

	return a
}
