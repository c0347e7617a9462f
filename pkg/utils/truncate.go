package utils

// TruncateRunes returns the longest prefix of text holding at most limit
// characters (code points). Multi-byte sequences are never split.
func TruncateRunes(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if len(text) <= limit {
		return text
	}

	count := 0
	for i := range text {
		if count == limit {
			return text[:i]
		}
		count++
	}
	return text
}
