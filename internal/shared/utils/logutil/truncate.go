package logutil

// TruncateForLog keeps at most maxLen runes of s and marks the cut with "...".
// Used for tokens and free text where only a prefix belongs in logs.
func TruncateForLog(s string, maxLen int) string {
	if maxLen <= 0 {
		return "..."
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
