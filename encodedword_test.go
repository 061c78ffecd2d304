package mailkit

import (
	"encoding/base64"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestEncodeWordPlainASCIIPassesThrough(t *testing.T) {
	require.Equal(t, "Happy new year", EncodeWord("utf-8", "Happy new year"))
}

func TestEncodeWordCyrillicSubject(t *testing.T) {
	// spec.md §8 S3.
	got := EncodeWord("utf-8", "Привет")
	require.Equal(t, "=?utf-8?B?0J/RgNC40LLQtdGC?=", got)
}

func TestEncodeWordMostlyASCIIUsesQ(t *testing.T) {
	got := EncodeWord("utf-8", "Café today")
	require.True(t, strings.HasPrefix(got, "=?utf-8?Q?"))
	require.Contains(t, got, "_today")
}

func TestEncodeWordSplitsLongTextIntoMultipleWords(t *testing.T) {
	long := strings.Repeat("А", 200) // Cyrillic А, forces base64 path
	got := EncodeWord("utf-8", long)
	words := strings.Split(got, " ")
	require.Greater(t, len(words), 1)
	for _, w := range words {
		require.LessOrEqual(t, len(w), maxEncodedWordLen)
		require.True(t, strings.HasPrefix(w, "=?utf-8?B?"))
		require.True(t, strings.HasSuffix(w, "?="))
	}
}

func TestEncodeWordNeverSplitsMidRune(t *testing.T) {
	// An odd number of 3-byte runes stresses the base64 3-byte grouping
	// boundary against the rune boundary.
	text := strings.Repeat("中", 37)
	got := EncodeWord("utf-8", text)
	for _, w := range strings.Split(got, " ") {
		require.True(t, strings.HasPrefix(w, "=?utf-8?B?") && strings.HasSuffix(w, "?="))
		payload := strings.TrimSuffix(strings.TrimPrefix(w, "=?utf-8?B?"), "?=")
		require.Equal(t, 0, len(payload)%4, "each word's base64 payload must be self-contained (no padding split across words)")
		decoded, err := base64.StdEncoding.DecodeString(payload)
		require.NoError(t, err)
		require.True(t, utf8.Valid(decoded), "each word must decode to whole UTF-8 runes")
	}
}
