package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", TruncateRunes("abc", 8000))
	assert.Equal(t, "ab", TruncateRunes("abc", 2))
	assert.Equal(t, "", TruncateRunes("abc", 0))

	long := strings.Repeat("x", 9000)
	assert.Len(t, TruncateRunes(long, 8000), 8000)
}

func TestTruncateRunes_DoesNotSplitMultiByte(t *testing.T) {
	text := strings.Repeat("é", 10) // 2 bytes each
	out := TruncateRunes(text, 4)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, 4, utf8.RuneCountInString(out))
	assert.Equal(t, "éééé", out)
}
