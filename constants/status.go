package constants

// JobOutcome is the terminal result of polling one Textract job.
type JobOutcome string

// Stable values (these exact strings appear in logs and the run summary).
const (
	OutcomeSucceeded JobOutcome = "SUCCEEDED" // job reached a terminal success state
	OutcomeFailed    JobOutcome = "FAILED"    // service reported terminal failure
	OutcomeTimedOut  JobOutcome = "TIMED_OUT" // poll budget exhausted while still in progress
	OutcomeSkipped   JobOutcome = "SKIPPED"   // preparation failed, job never started
)

// Terminal reports whether the outcome allows no further polling.
func (o JobOutcome) Terminal() bool {
	return o == OutcomeSucceeded || o == OutcomeFailed || o == OutcomeTimedOut
}
