package report

import (
	"fmt"

	"github.com/gingfrederik/docx"
)

// WriteDocx saves a Word version of the report summary and top URLs at path.
func WriteDocx(path string, run Run) error {
	f := docx.NewFile()

	title := f.AddParagraph().AddText("Health-Tech URL Discovery Report")
	title.Size(20)
	meta := f.AddParagraph().AddText(fmt.Sprintf("Run %s | %d URLs", run.ID, len(run.Records)))
	meta.Size(10)
	meta.Color("808080")
	f.AddParagraph()

	q := run.Analysis.Quality
	f.AddParagraph().AddText(fmt.Sprintf("High confidence: %d | Medium: %d | Low: %d | Score: %.2f/3.0",
		q.HighConfidence, q.MediumConfidence, q.LowConfidence, q.QualityScore))
	f.AddParagraph().AddText(fmt.Sprintf("Duplicates removed: %d | Invalid URLs skipped: %d",
		run.Analysis.DuplicatesRemoved, run.Analysis.InvalidSkipped))
	f.AddParagraph()

	heading := f.AddParagraph().AddText(fmt.Sprintf("Top %d URLs", TopN))
	heading.Size(16)
	for i, r := range run.Records {
		if i == TopN {
			break
		}
		p := f.AddParagraph()
		p.AddText(fmt.Sprintf("%2d. ", i+1))
		link := p.AddText(r.NormalizedURL())
		link.Color("0000FF")
		p.AddText(fmt.Sprintf(" (confidence %d, %s)", r.Confidence, r.Method))
	}

	return f.Save(path)
}
