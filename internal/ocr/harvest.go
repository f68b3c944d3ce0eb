package ocr

import (
	"context"
	"fmt"
)

// Harvester collects every result page of a succeeded job. Absence of a
// continuation token is the sole termination signal; MaxPages is a defensive
// cap so a pathological response stream cannot loop forever.
type Harvester struct {
	Detector Detector
	MaxPages int
}

func NewHarvester(det Detector, maxPages int) *Harvester {
	if maxPages < 1 {
		maxPages = 1000
	}
	return &Harvester{Detector: det, MaxPages: maxPages}
}

// Harvest fetches all pages for jobID and reconstructs ordered lines plus the
// word-level records.
func (h *Harvester) Harvest(ctx context.Context, jobID string) (*ExtractedPage, error) {
	doc := &ExtractedPage{}
	token := ""

	for fetched := 0; ; fetched++ {
		if fetched >= h.MaxPages {
			return nil, fmt.Errorf("job %s exceeded %d result pages", jobID, h.MaxPages)
		}

		page, err := h.Detector.FetchResults(ctx, jobID, token)
		if err != nil {
			return nil, err
		}

		doc.Lines = append(doc.Lines, page.Lines...)
		doc.Words = append(doc.Words, page.Words...)

		if page.NextToken == "" {
			return doc, nil
		}
		token = page.NextToken
	}
}
