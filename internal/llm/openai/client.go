package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joseph-ayodele/letters-digitizer/internal/llm"
)

// post sends a chat/completions body and returns the raw response.
func (c *Client) post(ctx context.Context, body any) ([]byte, error) {
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}
	raw, _, err := llm.SendJSON(ctx, c.http, endpoint, body, headers, c.logger)
	return raw, err
}

// content pulls the first choice's message content out of a chat response.
func content(raw []byte) (string, error) {
	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return "", fmt.Errorf("no choices in openai response")
	}
	return strings.TrimSpace(cc.Choices[0].Message.Content), nil
}

// CorrectText implements llm.Corrector with a conservative cleanup prompt.
// Correction runs at temperature 0 regardless of the configured value.
func (c *Client) CorrectText(ctx context.Context, text string) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("llm.correct.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"text_len", len(text),
	)

	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": 0.0,
		"messages": []map[string]any{
			{"role": "system", "content": llm.CorrectionSystemPrompt},
			{"role": "user", "content": text},
		},
	}

	raw, err := c.post(ctx, body)
	if err != nil {
		c.logger.Error("llm.correct.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	corrected, err := content(raw)
	if err != nil {
		c.logger.Error("llm.correct.decode_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}
	if corrected == "" {
		return "", fmt.Errorf("empty correction output")
	}

	c.logger.Info("llm.correct.ok",
		"req_id", rid,
		"out_len", len(corrected),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return corrected, nil
}

// ExtractEntities implements llm.EntityExtractor. The reply is fence-stripped
// and validated against the entities schema; on validation failure the raw
// output is returned alongside llm.ErrInvalidEntityJSON so the caller can keep
// it as a fallback artifact.
func (c *Client) ExtractEntities(ctx context.Context, text string) (llm.LetterEntities, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"text_len", len(text),
	)

	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": llm.BuildEntitySystemPrompt()},
			{"role": "user", "content": text},
		},
	}

	raw, err := c.post(ctx, body)
	if err != nil {
		c.logger.Error("llm.extract.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.LetterEntities{}, nil, err
	}

	reply, err := content(raw)
	if err != nil {
		c.logger.Error("llm.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.LetterEntities{}, raw, err
	}

	cleaned := []byte(llm.StripCodeFences(reply))
	schema := llm.BuildEntitiesJSONSchema()
	if err := llm.ValidateJSONAgainstSchema(schema, cleaned); err != nil {
		c.logger.Warn("llm.extract.schema_validation_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.LetterEntities{}, []byte(reply), fmt.Errorf("%w: %v", llm.ErrInvalidEntityJSON, err)
	}

	var out llm.LetterEntities
	if err := json.Unmarshal(cleaned, &out); err != nil {
		return llm.LetterEntities{}, []byte(reply), fmt.Errorf("%w: %v", llm.ErrInvalidEntityJSON, err)
	}

	c.logger.Info("llm.extract.ok",
		"req_id", rid,
		"people", len(out.People),
		"productions", len(out.Productions),
		"companies", len(out.Companies),
		"theaters", len(out.Theaters),
		"dates", len(out.Dates),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, cleaned, nil
}

var (
	_ llm.Corrector       = (*Client)(nil)
	_ llm.EntityExtractor = (*Client)(nil)
)
