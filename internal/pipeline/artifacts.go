package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/letters-digitizer/constants"
	"github.com/joseph-ayodele/letters-digitizer/internal/llm"
	"github.com/joseph-ayodele/letters-digitizer/internal/ocr"
)

// WriteRawText persists the newline-joined detected lines.
func WriteRawText(dir, id string, lines []string) (string, error) {
	path := filepath.Join(dir, id+constants.SuffixRawText)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return "", fmt.Errorf("write raw text: %w", err)
	}
	return path, nil
}

// WriteCoords persists the word-level bounding boxes as an indented JSON array.
func WriteCoords(dir, id string, words []ocr.WordInfo) (string, error) {
	if words == nil {
		words = []ocr.WordInfo{}
	}
	b, err := json.MarshalIndent(words, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode coords: %w", err)
	}
	path := filepath.Join(dir, id+constants.SuffixCoords)
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("write coords: %w", err)
	}
	return path, nil
}

// WriteCorrected persists the LLM-corrected text.
func WriteCorrected(dir, id, text string) (string, error) {
	path := filepath.Join(dir, id+constants.SuffixCorrected)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write corrected text: %w", err)
	}
	return path, nil
}

// WriteEntities persists the validated structured entities.
func WriteEntities(dir, id string, entities llm.LetterEntities) (string, error) {
	b, err := json.MarshalIndent(entities, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode entities: %w", err)
	}
	path := filepath.Join(dir, id+constants.SuffixEntities)
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("write entities: %w", err)
	}
	return path, nil
}

// WriteEntitiesRaw persists unparsable extractor output to the fallback name so
// nothing the model produced is lost.
func WriteEntitiesRaw(dir, id string, raw []byte) (string, error) {
	path := filepath.Join(dir, id+constants.SuffixEntitiesRaw)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write raw entities: %w", err)
	}
	return path, nil
}

// WriteRunSummary persists the per-document outcomes for the whole run.
func WriteRunSummary(dir string, outcomes []DocumentOutcome) (string, error) {
	b, err := json.MarshalIndent(outcomes, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode run summary: %w", err)
	}
	path := filepath.Join(dir, constants.RunSummaryFile)
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("write run summary: %w", err)
	}
	return path, nil
}
