// Package pipeline coordinates one batch of letters end to end: concurrent
// preparation (upload, convert, submit), concurrent waiting and harvesting,
// then local and remote cleanup.
package pipeline

import "github.com/joseph-ayodele/letters-digitizer/constants"

// JobRecord is the per-document state produced by successful preparation: the
// identifier joins the upload keys, the Textract job, and the artifact paths.
type JobRecord struct {
	ID        string // filename without extension
	JobID     string // opaque Textract job handle
	OutputDir string
	JPGKey    string // uploaded source scan
	PDFKey    string // uploaded canonical PDF, the Textract input
}

// DocumentOutcome records how far one document got. Processed flips once raw
// text and coordinates are persisted; that alone decides cleanup eligibility.
// Correction or extraction failing afterwards degrades quality, not cleanup.
type DocumentOutcome struct {
	ID        string               `json:"id"`
	Prepared  bool                 `json:"prepared"`
	OCR       constants.JobOutcome `json:"ocr"`
	Processed bool                 `json:"processed"`
	Corrected bool                 `json:"corrected"`
	Extracted bool                 `json:"extracted"`
	Error     string               `json:"error,omitempty"`
}

// BatchResult is what one coordinator cycle reports back to the driver.
type BatchResult struct {
	Outcomes    []DocumentOutcome
	DeletedKeys int
}
