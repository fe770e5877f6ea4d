package ollama

import "strings"

const (
	thinkOpen  = "<think>"
	thinkClose = "</think>"
)

// Sanitize cleans raw model output before it is shown to end users.
// If the text contains an internal-reasoning block, everything up to
// and including the closing delimiter is discarded; a missing closing
// delimiter leaves the text untouched. All literal angle brackets are
// then stripped (this also destroys legitimate angle brackets in
// content, an accepted lossy simplification) and the result trimmed.
// Pure function: same input, same output.
func Sanitize(raw string) string {
	lower := strings.ToLower(raw)
	if strings.Contains(lower, thinkOpen) {
		if idx := strings.LastIndex(lower, thinkClose); idx >= 0 {
			raw = raw[idx+len(thinkClose):]
		}
	}

	raw = strings.ReplaceAll(raw, "<", "")
	raw = strings.ReplaceAll(raw, ">", "")

	return strings.TrimSpace(raw)
}
