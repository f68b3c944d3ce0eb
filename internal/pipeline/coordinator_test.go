package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/joseph-ayodele/letters-digitizer/constants"
	"github.com/joseph-ayodele/letters-digitizer/internal/llm"
	"github.com/joseph-ayodele/letters-digitizer/internal/ocr"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStore records uploads and deletes in memory.
type fakeStore struct {
	mu       sync.Mutex
	uploaded []string
	deleted  []string
	failKeys map[string]bool
}

func (f *fakeStore) UploadFile(_ context.Context, _, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failKeys[key] {
		return errors.New("upload refused")
	}
	f.uploaded = append(f.uploaded, key)
	return nil
}

func (f *fakeStore) DeleteKeys(_ context.Context, keys []string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, keys...)
	return len(keys), nil
}

func (f *fakeStore) ListKeys(context.Context, string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.uploaded...), nil
}

// fakeConverter writes a stub PDF, or refuses for configured sources.
type fakeConverter struct {
	failFor map[string]bool // keyed by source basename
}

func (f *fakeConverter) ToPDF(_ context.Context, src, dst string) error {
	if f.failFor[filepath.Base(src)] {
		return errors.New("conversion refused")
	}
	return os.WriteFile(dst, []byte("%PDF-1.4 stub"), 0o644)
}

// fakeDetector starts jobs named after the PDF key and replays configured
// statuses and result pages.
type fakeDetector struct {
	mu       sync.Mutex
	statuses map[string]ocr.PollStatus // jobID -> terminal status
	lines    map[string][]string       // jobID -> detected lines
	started  []string
}

func (f *fakeDetector) StartDetection(_ context.Context, pdfKey string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	jobID := "job-" + strings.TrimSuffix(pdfKey, ".pdf")
	f.started = append(f.started, jobID)
	return jobID, nil
}

func (f *fakeDetector) PollDetection(_ context.Context, jobID string) (ocr.PollStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.statuses[jobID]; ok {
		return st, nil
	}
	return ocr.PollStatus{State: ocr.StateSucceeded}, nil
}

func (f *fakeDetector) FetchResults(_ context.Context, jobID, _ string) (*ocr.ResultsPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lines := f.lines[jobID]
	if lines == nil {
		lines = []string{"default line"}
	}
	return &ocr.ResultsPage{
		Lines: lines,
		Words: []ocr.WordInfo{{Text: "default", Confidence: 99.1}},
	}, nil
}

type fakeCorrector struct{ err error }

func (f *fakeCorrector) CorrectText(_ context.Context, text string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "corrected: " + text, nil
}

type fakeExtractor struct {
	invalid bool
	err     error
}

func (f *fakeExtractor) ExtractEntities(context.Context, string) (llm.LetterEntities, []byte, error) {
	if f.invalid {
		return llm.LetterEntities{}, []byte("not json at all"), fmt.Errorf("%w: bad shape", llm.ErrInvalidEntityJSON)
	}
	if f.err != nil {
		return llm.LetterEntities{}, nil, f.err
	}
	return llm.LetterEntities{People: []string{"Henry Irving"}}, []byte(`{"People":["Henry Irving"]}`), nil
}

type fixture struct {
	coord    *Coordinator
	store    *fakeStore
	detector *fakeDetector
	output   string
}

func newFixture(t *testing.T, files []string, conv *fakeConverter, det *fakeDetector, corr llm.Corrector, ext llm.EntityExtractor) *fixture {
	t.Helper()

	input := t.TempDir()
	tmp := t.TempDir()
	output := t.TempDir()
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(input, f), []byte("jpg-bytes"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	store := &fakeStore{failKeys: map[string]bool{}}
	if det == nil {
		det = &fakeDetector{}
	}
	if conv == nil {
		conv = &fakeConverter{}
	}

	log := testLogger()
	prep := NewPreparer(store, conv, det, input, tmp, output, log)
	waiter := ocr.NewWaiter(det, 5, time.Millisecond, log)
	waiter.Sleep = func(time.Duration) {}
	proc := NewProcessor(waiter, ocr.NewHarvester(det, 10), corr, ext, log)

	return &fixture{
		coord:    NewCoordinator(prep, proc, store, tmp, 2, log),
		store:    store,
		detector: det,
		output:   output,
	}
}

func sorted(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

func TestRunBatch_FailureIsolation(t *testing.T) {
	// A's conversion fails; B and C must still complete end to end.
	conv := &fakeConverter{failFor: map[string]bool{"a.jpg": true}}
	fx := newFixture(t, []string{"a.jpg", "b.jpg", "c.jpg"}, conv, nil, &fakeCorrector{}, &fakeExtractor{})

	res := fx.coord.RunBatch(context.Background(), []string{"a.jpg", "b.jpg", "c.jpg"})
	if len(res.Outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(res.Outcomes))
	}

	a, b, c := res.Outcomes[0], res.Outcomes[1], res.Outcomes[2]
	if a.Prepared || a.OCR != constants.OutcomeSkipped || a.Error == "" {
		t.Fatalf("expected a to be skipped with error, got %+v", a)
	}
	for _, o := range []DocumentOutcome{b, c} {
		if !o.Prepared || !o.Processed || !o.Corrected || !o.Extracted {
			t.Fatalf("expected %s fully processed, got %+v", o.ID, o)
		}
	}

	if len(fx.detector.started) != 2 {
		t.Fatalf("expected 2 jobs started, got %d", len(fx.detector.started))
	}

	want := []string{"b.jpg", "b.pdf", "c.jpg", "c.pdf"}
	if got := sorted(fx.store.deleted); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected deletions %v, got %v", want, got)
	}
}

func TestRunBatch_OCRFailureRetainsRemoteKeys(t *testing.T) {
	det := &fakeDetector{statuses: map[string]ocr.PollStatus{
		"job-b": {State: ocr.StateFailed, Reason: "BAD_DOCUMENT"},
	}}
	fx := newFixture(t, []string{"a.jpg", "b.jpg"}, nil, det, nil, nil)

	res := fx.coord.RunBatch(context.Background(), []string{"a.jpg", "b.jpg"})

	if res.Outcomes[1].OCR != constants.OutcomeFailed || res.Outcomes[1].Processed {
		t.Fatalf("expected b to fail OCR, got %+v", res.Outcomes[1])
	}
	for _, key := range fx.store.deleted {
		if strings.HasPrefix(key, "b.") {
			t.Fatalf("key %s of failed document must be retained", key)
		}
	}
	if len(fx.store.deleted) != 2 {
		t.Fatalf("expected a's 2 keys deleted, got %v", fx.store.deleted)
	}
}

func TestRunBatch_ExtractionFailureDoesNotGateCleanup(t *testing.T) {
	fx := newFixture(t, []string{"a.jpg"}, nil, nil, &fakeCorrector{err: errors.New("llm down")}, &fakeExtractor{invalid: true})

	res := fx.coord.RunBatch(context.Background(), []string{"a.jpg"})

	out := res.Outcomes[0]
	if !out.Processed || out.Corrected || out.Extracted {
		t.Fatalf("expected processed-but-degraded outcome, got %+v", out)
	}
	if len(fx.store.deleted) != 2 {
		t.Fatalf("cleanup must still run for processed document, got %v", fx.store.deleted)
	}

	// The fallback artifact holds the unparsable model output.
	raw, err := os.ReadFile(filepath.Join(fx.output, "a", "a"+constants.SuffixEntitiesRaw))
	if err != nil {
		t.Fatalf("expected raw entities fallback artifact: %v", err)
	}
	if string(raw) != "not json at all" {
		t.Fatalf("unexpected fallback content: %q", raw)
	}
	if _, err := os.Stat(filepath.Join(fx.output, "a", "a"+constants.SuffixEntities)); !os.IsNotExist(err) {
		t.Fatal("entities artifact must not exist when validation failed")
	}
}

func TestRunBatch_ArtifactsWritten(t *testing.T) {
	det := &fakeDetector{lines: map[string][]string{
		"job-a": {"Dear Sir", "Yours truly"},
	}}
	fx := newFixture(t, []string{"a.jpg"}, nil, det, &fakeCorrector{}, &fakeExtractor{})

	fx.coord.RunBatch(context.Background(), []string{"a.jpg"})

	raw, err := os.ReadFile(filepath.Join(fx.output, "a", "a"+constants.SuffixRawText))
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "Dear Sir\nYours truly" {
		t.Fatalf("unexpected raw text: %q", raw)
	}

	for _, suffix := range []string{constants.SuffixCoords, constants.SuffixCorrected, constants.SuffixEntities} {
		if _, err := os.Stat(filepath.Join(fx.output, "a", "a"+suffix)); err != nil {
			t.Fatalf("expected artifact %s: %v", suffix, err)
		}
	}
	if _, err := os.Stat(filepath.Join(fx.output, "a", "a.pdf")); err != nil {
		t.Fatalf("expected local pdf copy: %v", err)
	}
}
