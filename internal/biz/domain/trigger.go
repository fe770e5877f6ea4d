package domain

import "strings"

// Trigger maps a lowercase substring pattern to a response template.
// Patterns are unique; registering the same pattern twice overwrites
// the previous template.
type Trigger struct {
	Pattern  string
	Template string
}

// Matches checks if the trigger pattern occurs in the given text.
// The comparison is case-insensitive on the message side; patterns
// are stored lowercased.
func (t *Trigger) Matches(text string) bool {
	return strings.Contains(strings.ToLower(text), t.Pattern)
}
