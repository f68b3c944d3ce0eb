package ocr

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/letters-digitizer/constants"
)

// Waiter polls one detection job until it reaches a terminal state or the
// attempt budget runs out. The budget is what guarantees termination: Textract
// offers no push notification here, and an unbounded wait would let a single
// stuck job hang the whole batch.
type Waiter struct {
	Detector    Detector
	MaxAttempts int
	Delay       time.Duration
	Log         *slog.Logger

	// Sleep is swappable in tests; nil means time.Sleep.
	Sleep func(d time.Duration)
}

func NewWaiter(det Detector, maxAttempts int, delay time.Duration, log *slog.Logger) *Waiter {
	if log == nil {
		log = slog.Default()
	}
	return &Waiter{Detector: det, MaxAttempts: maxAttempts, Delay: delay, Log: log}
}

// Wait drives the poll loop for jobID and returns the tri-state outcome.
// Transport errors while polling (throttling, timeouts) consume an attempt and
// are retried; the budget bounds the wait either way. A canceled context stops
// retrying immediately.
func (w *Waiter) Wait(ctx context.Context, id, jobID string) constants.JobOutcome {
	sleep := w.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	for attempt := 1; ; attempt++ {
		status, err := w.Detector.PollDetection(ctx, jobID)
		if err == nil {
			switch status.State {
			case StateSucceeded:
				w.Log.Info("ocr.poll.succeeded", "id", id, "job_id", jobID, "attempts", attempt)
				return constants.OutcomeSucceeded
			case StateFailed:
				w.Log.Error("ocr.poll.failed", "id", id, "job_id", jobID, "reason", status.Reason)
				return constants.OutcomeFailed
			}
		} else {
			if ctx.Err() != nil {
				w.Log.Error("ocr.poll.error", "id", id, "job_id", jobID, "attempt", attempt, "error", err)
				return constants.OutcomeFailed
			}
			w.Log.Warn("ocr.poll.retry", "id", id, "job_id", jobID, "attempt", attempt, "error", err)
		}

		if attempt >= w.MaxAttempts {
			if err != nil {
				w.Log.Error("ocr.poll.error", "id", id, "job_id", jobID, "attempts", attempt, "error", err)
				return constants.OutcomeFailed
			}
			w.Log.Error("ocr.poll.timeout", "id", id, "job_id", jobID, "attempts", attempt)
			return constants.OutcomeTimedOut
		}
		sleep(w.Delay)
	}
}
