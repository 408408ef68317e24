package discovery

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAnalyze(t *testing.T) {
	recs := []Record{
		NewRecord("https://a.com", Provenance{Source: "S", Confidence: 10, Category: "Health", Country: "Germany", Method: MethodHardcoded}),
		NewRecord("https://b.com", Provenance{Source: "S", Confidence: 8, Category: "Health", Country: "Europe", Method: MethodManualCuration}),
		NewRecord("https://c.com", Provenance{Source: "S", Confidence: 6, Category: "Directory", Country: "Germany", Method: MethodManualCuration}),
		NewRecord("https://d.com", Provenance{Source: "S", Confidence: 3, Category: "Potential", Country: "Various", Method: MethodGenerated}),
	}

	a := Analyze(recs, 2, 1)

	if a.TotalURLs != 4 {
		t.Errorf("TotalURLs = %d, want 4", a.TotalURLs)
	}
	if a.DuplicatesRemoved != 2 || a.InvalidSkipped != 1 {
		t.Errorf("DuplicatesRemoved, InvalidSkipped = %d, %d; want 2, 1", a.DuplicatesRemoved, a.InvalidSkipped)
	}

	wantMethods := map[string]int{MethodHardcoded: 1, MethodManualCuration: 2, MethodGenerated: 1}
	if diff := cmp.Diff(wantMethods, a.MethodCounts); diff != "" {
		t.Errorf("MethodCounts mismatch (-want +got):\n%s", diff)
	}
	wantCountries := map[string]int{"Germany": 2, "Europe": 1, "Various": 1}
	if diff := cmp.Diff(wantCountries, a.CountryCounts); diff != "" {
		t.Errorf("CountryCounts mismatch (-want +got):\n%s", diff)
	}
	wantDist := map[int]int{10: 1, 8: 1, 6: 1, 3: 1}
	if diff := cmp.Diff(wantDist, a.ConfidenceDistribution); diff != "" {
		t.Errorf("ConfidenceDistribution mismatch (-want +got):\n%s", diff)
	}

	q := a.Quality
	if q.HighConfidence != 2 || q.MediumConfidence != 1 || q.LowConfidence != 1 {
		t.Errorf("bands = %d/%d/%d, want 2/1/1", q.HighConfidence, q.MediumConfidence, q.LowConfidence)
	}
	// (3*2 + 2*1 + 1) / 4
	if q.QualityScore != 2.25 {
		t.Errorf("QualityScore = %v, want 2.25", q.QualityScore)
	}
	wantPrecision := map[string]float64{MethodHardcoded: 1, MethodManualCuration: 0.5, MethodGenerated: 0}
	if diff := cmp.Diff(wantPrecision, q.PerMethodPrecision); diff != "" {
		t.Errorf("PerMethodPrecision mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyze_Empty(t *testing.T) {
	a := Analyze(nil, 0, 0)
	if a.TotalURLs != 0 || a.Quality.QualityScore != 0 {
		t.Errorf("Analyze(nil) = %+v, want zero totals", a)
	}
	if a.MethodCounts == nil || a.Quality.PerMethodPrecision == nil {
		t.Error("Analyze(nil) maps should be non-nil so they encode as {}")
	}
}
