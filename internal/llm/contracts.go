package llm

import (
	"context"
	"errors"
)

// LetterEntities is the normalized shape we want from the LLM for one letter.
// Every key is present; missing categories come back as empty lists.
type LetterEntities struct {
	People      []string `json:"People"`
	Productions []string `json:"Productions"`
	Companies   []string `json:"Companies"`
	Theaters    []string `json:"Theaters"`
	Dates       []string `json:"Dates"`
}

// ErrInvalidEntityJSON marks model output that failed to parse or validate as
// the expected structured record. Callers keep the raw output instead of
// failing the document.
var ErrInvalidEntityJSON = errors.New("entity output is not valid JSON for the schema")

// Corrector fixes OCR artifacts in raw text without changing its meaning.
type Corrector interface {
	CorrectText(ctx context.Context, text string) (string, error)
}

// EntityExtractor pulls structured entities out of (corrected) letter text.
// The raw model output is always returned so callers can persist it when
// validation fails.
type EntityExtractor interface {
	ExtractEntities(ctx context.Context, text string) (LetterEntities, []byte, error)
}
