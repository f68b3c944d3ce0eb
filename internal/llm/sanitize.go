package llm

import "strings"

// StripCodeFences removes a surrounding markdown code fence, with or without a
// language tag. Chat models wrap JSON this way often enough that stripping it
// before validation saves otherwise-good replies.
func StripCodeFences(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if i := strings.Index(t, "\n"); i >= 0 {
		// drop the language tag line ("json", "JSON", ...)
		first := strings.TrimSpace(t[:i])
		if first == "" || !strings.ContainsAny(first, "{[") {
			t = t[i+1:]
		}
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}
