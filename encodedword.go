package mailkit

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxEncodedWordLen is the 75-octet ceiling RFC 2047 places on a
// single "=?charset?enc?data?=" token (spec.md §4.1).
const maxEncodedWordLen = 75

// EncodeWord encodes text for embedding in a header field value per
// RFC 2047 (spec.md §4.1 C1). Pure ASCII text free of header-
// structural characters (CR, LF, '=', '?', '_', control characters) is
// returned unchanged. Otherwise it picks base64 ("B") when text is
// predominantly non-ASCII and a quoted-printable-like "Q" encoding
// otherwise, splitting into several adjacent encoded-words (joined by
// a single space) when one word would exceed 75 octets, always on a
// UTF-8 rune boundary.
func EncodeWord(charset, text string) string {
	if charset == "" {
		charset = "utf-8"
	}
	if isPlainSafe(text) {
		return text
	}
	if predominantlyNonASCII(text) {
		return encodeWordsB(charset, text)
	}
	return encodeWordsQ(charset, text)
}

func isPlainSafe(s string) bool {
	for _, r := range s {
		if r > 127 || r == '\r' || r == '\n' || r == '=' || r == '?' || r == '_' || r < 0x20 {
			return false
		}
	}
	return true
}

func predominantlyNonASCII(s string) bool {
	total, nonASCII := 0, 0
	for _, r := range s {
		total++
		if r > 127 {
			nonASCII++
		}
	}
	return total > 0 && nonASCII*3 >= total
}

func encodeWordsB(charset, text string) string {
	overhead := len("=?") + len(charset) + len("?B?") + len("?=")
	budget := maxEncodedWordLen - overhead

	var words []string
	var pending []byte
	flush := func() {
		if len(pending) == 0 {
			return
		}
		words = append(words, "=?"+charset+"?B?"+base64.StdEncoding.EncodeToString(pending)+"?=")
		pending = nil
	}
	for _, r := range text {
		enc := make([]byte, utf8.RuneLen(r))
		utf8.EncodeRune(enc, r)
		if base64.StdEncoding.EncodedLen(len(pending)+len(enc)) > budget {
			flush()
		}
		pending = append(pending, enc...)
	}
	flush()
	return strings.Join(words, " ")
}

func encodeWordsQ(charset, text string) string {
	overhead := len("=?") + len(charset) + len("?Q?") + len("?=")
	budget := maxEncodedWordLen - overhead

	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() == 0 {
			return
		}
		words = append(words, "=?"+charset+"?Q?"+cur.String()+"?=")
		cur.Reset()
	}
	for _, r := range text {
		var enc string
		switch {
		case r == ' ':
			enc = "_"
		case r < 0x80 && isQSafe(byte(r)):
			enc = string(rune(r))
		default:
			buf := make([]byte, utf8.RuneLen(r))
			utf8.EncodeRune(buf, r)
			var sb strings.Builder
			for _, b := range buf {
				fmt.Fprintf(&sb, "=%02X", b)
			}
			enc = sb.String()
		}
		if cur.Len()+len(enc) > budget {
			flush()
		}
		cur.WriteString(enc)
	}
	flush()
	return strings.Join(words, " ")
}

func isQSafe(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	}
	switch b {
	case '!', '*', '+', '-', '/':
		return true
	}
	return false
}
