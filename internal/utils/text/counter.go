// Package text provides rune-aware helpers for measuring and chunking text
// before it is handed to a language model.
package text

// CountRunes counts the number of Unicode characters (runes) in the given text.
// Chunk sizes are expressed in runes so that multi-byte scripts and emoji are
// measured the same way as ASCII.
//
//	CountRunes("hello")     // 5
//	CountRunes("hello世界") // 7
//	CountRunes("")          // 0
func CountRunes(text string) int {
	return len([]rune(text))
}

// Truncate cuts text to at most n runes and reports whether anything was cut.
// n <= 0 disables truncation.
func Truncate(text string, n int) (string, bool) {
	if n <= 0 {
		return text, false
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text, false
	}
	return string(runes[:n]), true
}
