package openai

import "strings"

// cleanPhrase strips quotes, trailing punctuation and surrounding whitespace
// from a short model reply.
func cleanPhrase(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "\"'`")
	s = strings.TrimRight(s, ".!?;:")
	return strings.Join(strings.Fields(s), " ")
}
