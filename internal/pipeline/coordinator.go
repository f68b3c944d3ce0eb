package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/letters-digitizer/constants"
	"github.com/joseph-ayodele/letters-digitizer/internal/common"
	"github.com/joseph-ayodele/letters-digitizer/internal/storage"
)

// Coordinator runs one batch through both fan-out phases. Phase 1 prepares
// every document concurrently and builds the job table; phase 2 waits and
// harvests concurrently over that table. Phase 2 never starts until phase 1
// has fully drained, which bounds open Textract jobs to one batch's worth.
type Coordinator struct {
	Preparer  *Preparer
	Processor *Processor
	Store     storage.ObjectStore
	TmpDir    string
	Workers   int
	Log       *slog.Logger
}

func NewCoordinator(prep *Preparer, proc *Processor, store storage.ObjectStore, tmpDir string, workers int, log *slog.Logger) *Coordinator {
	if workers < 1 {
		workers = 4
	}
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{
		Preparer:  prep,
		Processor: proc,
		Store:     store,
		TmpDir:    tmpDir,
		Workers:   workers,
		Log:       log,
	}
}

// RunBatch processes one batch of input filenames to completion, including
// teardown. Single-document failures never abort sibling documents.
func (c *Coordinator) RunBatch(ctx context.Context, files []string) BatchResult {
	// Phase 1: prepare fan-out. Each goroutine writes its own slot, so the
	// job table needs no locking; it is read-only once the group joins.
	records := make([]*JobRecord, len(files))
	prepErrs := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.Workers)
	for i, filename := range files {
		g.Go(func() error {
			rec, err := c.Preparer.Prepare(gctx, filename)
			if err != nil {
				c.Log.Error("batch.prepare.failed", "file", filename, "stage", prepStage(err), "error", err)
				prepErrs[i] = err
				return nil // contained: siblings keep running
			}
			records[i] = &rec
			return nil
		})
	}
	_ = g.Wait()

	outcomes := make([]DocumentOutcome, len(files))
	jobs := 0
	for i, filename := range files {
		if records[i] == nil {
			id := strings.TrimSuffix(filename, filepath.Ext(filename))
			outcomes[i] = DocumentOutcome{ID: id, OCR: constants.OutcomeSkipped}
			if prepErrs[i] != nil {
				outcomes[i].Error = prepErrs[i].Error()
			}
			continue
		}
		jobs++
	}
	c.Log.Info("batch.prepare.done", "files", len(files), "jobs", jobs)

	// Phase 2: wait + harvest fan-out over the job table.
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(c.Workers)
	for i := range files {
		rec := records[i]
		if rec == nil {
			continue
		}
		g.Go(func() error {
			outcomes[i] = c.Processor.Process(gctx, *rec)
			return nil
		})
	}
	_ = g.Wait()

	// Cleanup bookkeeping: remote keys become deletable once a document is
	// fully processed (raw text + coords persisted). Keys of failed documents
	// stay in the bucket for manual inspection.
	var jpgKeys, pdfKeys []string
	for i := range files {
		if records[i] != nil && outcomes[i].Processed {
			jpgKeys = append(jpgKeys, records[i].JPGKey)
			pdfKeys = append(pdfKeys, records[i].PDFKey)
		}
	}

	deleted := c.teardown(ctx, jpgKeys, pdfKeys)

	return BatchResult{Outcomes: outcomes, DeletedKeys: deleted}
}

// teardown wipes the batch-scoped tmp dir and deletes the accumulated remote
// keys. Teardown failures are logged, never fatal: the next batch must run.
func (c *Coordinator) teardown(ctx context.Context, jpgKeys, pdfKeys []string) int {
	if err := cleanTmpDir(c.TmpDir); err != nil {
		c.Log.Error("batch.teardown.tmp_failed", "dir", c.TmpDir, "error", err)
	}

	deleted := 0
	for _, keys := range [][]string{jpgKeys, pdfKeys} {
		if len(keys) == 0 {
			continue
		}
		n, err := c.Store.DeleteKeys(ctx, keys)
		deleted += n
		if err != nil {
			c.Log.Error("batch.teardown.delete_failed", "keys", len(keys), "error", err)
			continue
		}
		c.Log.Info("batch.teardown.deleted", "keys", n)
	}
	return deleted
}

// prepStage names the preparation step that failed, read from the sentinel
// wrapped into the error.
func prepStage(err error) string {
	switch {
	case errors.Is(err, common.ErrConversion):
		return "convert"
	case errors.Is(err, common.ErrUpload):
		return "upload"
	case errors.Is(err, common.ErrOCR):
		return "submit"
	case errors.Is(err, common.ErrSetup):
		return "setup"
	}
	return "unknown"
}

func cleanTmpDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove tmp dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("recreate tmp dir: %w", err)
	}
	return nil
}
