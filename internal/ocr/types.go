// Package ocr drives asynchronous Textract text-detection jobs: submission,
// bounded polling, and paginated result harvesting.
package ocr

// JobState is the in-flight status reported by the detection service.
type JobState string

const (
	StateInProgress JobState = "IN_PROGRESS"
	StateSucceeded  JobState = "SUCCEEDED"
	StateFailed     JobState = "FAILED"
)

// PollStatus is one status observation for a running job.
type PollStatus struct {
	State  JobState
	Reason string // service-provided message on terminal failure
}

// BoundingBox is a normalized word position: each value is a ratio in [0,1]
// relative to the full page size.
type BoundingBox struct {
	Top    float64 `json:"Top"`
	Left   float64 `json:"Left"`
	Width  float64 `json:"Width"`
	Height float64 `json:"Height"`
}

// WordInfo is one detected word with its confidence (0-100) and position.
type WordInfo struct {
	Text        string      `json:"text"`
	Confidence  float64     `json:"confidence"`
	BoundingBox BoundingBox `json:"boundingBox"`
}

// ResultsPage is one page of a paginated detection result. An empty NextToken
// means no further pages exist.
type ResultsPage struct {
	Lines     []string
	Words     []WordInfo
	NextToken string
}

// ExtractedPage is the fully harvested result for one document: text lines in
// reading order plus the word-level records across all result pages.
type ExtractedPage struct {
	Lines []string
	Words []WordInfo
}
