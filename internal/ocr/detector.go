package ocr

import "context"

// Detector is the asynchronous text-detection contract: submit a job against
// an uploaded PDF, poll it, then fetch paginated results. Kept narrow so tests
// can script status sequences and result pages.
type Detector interface {
	StartDetection(ctx context.Context, pdfKey string) (jobID string, err error)
	PollDetection(ctx context.Context, jobID string) (PollStatus, error)
	FetchResults(ctx context.Context, jobID, nextToken string) (*ResultsPage, error)
}
