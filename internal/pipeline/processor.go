package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/letters-digitizer/constants"
	"github.com/joseph-ayodele/letters-digitizer/internal/llm"
	"github.com/joseph-ayodele/letters-digitizer/internal/ocr"
)

// Processor runs the post-submission chain for one prepared document: wait for
// the Textract job, harvest and persist its results, then correction and entity
// extraction. Correction and extraction degrade gracefully; only OCR and the
// raw/coords persistence decide the Processed flag.
type Processor struct {
	Waiter    *ocr.Waiter
	Harvester *ocr.Harvester
	Corrector llm.Corrector
	Extractor llm.EntityExtractor
	Log       *slog.Logger
}

func NewProcessor(waiter *ocr.Waiter, harvester *ocr.Harvester, corrector llm.Corrector, extractor llm.EntityExtractor, log *slog.Logger) *Processor {
	if log == nil {
		log = slog.Default()
	}
	return &Processor{
		Waiter:    waiter,
		Harvester: harvester,
		Corrector: corrector,
		Extractor: extractor,
		Log:       log,
	}
}

// Process drives rec to completion and reports what was achieved. It never
// returns an error: every failure mode is a recorded outcome.
func (p *Processor) Process(ctx context.Context, rec JobRecord) DocumentOutcome {
	out := DocumentOutcome{ID: rec.ID, Prepared: true}

	p.Log.Info("process.wait.start", "id", rec.ID, "job_id", rec.JobID)
	out.OCR = p.Waiter.Wait(ctx, rec.ID, rec.JobID)
	if out.OCR != constants.OutcomeSucceeded {
		out.Error = "ocr did not succeed: " + string(out.OCR)
		return out
	}

	doc, err := p.Harvester.Harvest(ctx, rec.JobID)
	if err != nil {
		p.Log.Error("process.harvest.failed", "id", rec.ID, "job_id", rec.JobID, "error", err)
		out.Error = err.Error()
		return out
	}

	if _, err := WriteRawText(rec.OutputDir, rec.ID, doc.Lines); err != nil {
		p.Log.Error("process.persist.failed", "id", rec.ID, "error", err)
		out.Error = err.Error()
		return out
	}
	if _, err := WriteCoords(rec.OutputDir, rec.ID, doc.Words); err != nil {
		p.Log.Error("process.persist.failed", "id", rec.ID, "error", err)
		out.Error = err.Error()
		return out
	}
	out.Processed = true
	p.Log.Info("process.persist.ok", "id", rec.ID, "lines", len(doc.Lines), "words", len(doc.Words))

	text := strings.Join(doc.Lines, "\n")
	if p.Corrector != nil {
		corrected, err := p.Corrector.CorrectText(ctx, text)
		if err != nil {
			p.Log.Warn("process.correct.failed", "id", rec.ID, "error", err)
		} else if _, err := WriteCorrected(rec.OutputDir, rec.ID, corrected); err != nil {
			p.Log.Warn("process.correct.persist_failed", "id", rec.ID, "error", err)
		} else {
			out.Corrected = true
			text = corrected
		}
	}

	if p.Extractor != nil {
		entities, raw, err := p.Extractor.ExtractEntities(ctx, text)
		switch {
		case errors.Is(err, llm.ErrInvalidEntityJSON):
			// Keep whatever the model said; extraction stays non-fatal.
			if _, werr := WriteEntitiesRaw(rec.OutputDir, rec.ID, raw); werr != nil {
				p.Log.Warn("process.extract.persist_failed", "id", rec.ID, "error", werr)
			} else {
				p.Log.Warn("process.extract.invalid_json", "id", rec.ID)
			}
		case err != nil:
			p.Log.Warn("process.extract.failed", "id", rec.ID, "error", err)
		default:
			if _, werr := WriteEntities(rec.OutputDir, rec.ID, entities); werr != nil {
				p.Log.Warn("process.extract.persist_failed", "id", rec.ID, "error", werr)
			} else {
				out.Extracted = true
			}
		}
	}

	return out
}
