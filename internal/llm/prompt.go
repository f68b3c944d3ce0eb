package llm

import "strings"

// CorrectionSystemPrompt constrains the model to conservative OCR cleanup:
// fix spelling, punctuation, and recognition artifacts, never invent content.
const CorrectionSystemPrompt = "You are a helpful assistant that only corrects spelling, OCR mistakes, " +
	"and punctuation errors in text. Do not add or infer any additional content. " +
	"Keep the original meaning intact. If the text already seems correct, leave it as is, " +
	"and if you are unsure, leave it as is."

// BuildEntitySystemPrompt composes the extraction instruction. The category
// keys mirror LetterEntities exactly so the schema can validate the reply.
func BuildEntitySystemPrompt() string {
	parts := []string{
		"You are an assistant that extracts structured data from OCR-scanned historical letters.",
		"Return your answer as a valid JSON object with the following keys:",
		"`People`, `Productions`, `Companies`, `Theaters`, and `Dates`.",
		"Each value must be a list of strings.",
		"If no items are found for a category, return an empty list.",
		"Do not include any explanation or formatting, only the JSON object.",
	}
	return strings.Join(parts, " ")
}
