package mailkit

import (
	"fmt"
	"strings"
)

// isASCII reports whether s contains only octets 0-127.
func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}
	return true
}

// isAllASCIIToken reports whether s is safe to emit as a bare
// parameter value (RFC 2045 token), i.e. ASCII with no tspecials.
func isAllASCIIToken(s string) bool {
	return isASCII(s) && !needsQuoting(s)
}

// isASCIIAtomSafe reports whether name can be emitted as an unquoted
// RFC 5322 phrase: ASCII, no control characters, none of the address
// "specials" that would otherwise require quoting or encoded-words.
func isASCIIAtomSafe(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r > 127 || r < 0x20 {
			return false
		}
		if strings.ContainsRune(`(),:;<>@[]\"`, r) {
			return false
		}
	}
	return true
}

// needsQuoting reports whether an RFC 2045 parameter value must be
// wrapped in a quoted-string because it contains whitespace or a
// tspecial.
func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b <= 0x20 || b == 0x7F {
			return true
		}
		switch b {
		case '(', ')', '<', '>', '@', ',', ';', ':', '\\', '"', '/', '[', ']', '?', '=':
			return true
		}
	}
	return false
}

// quoteString renders s as an RFC 5322 quoted-string, backslash
// escaping the two characters that require it.
func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	b.WriteByte('"')
	return b.String()
}

// maybeQuote quotes s only if it needs it, leaving plain tokens bare.
func maybeQuote(s string) string {
	if needsQuoting(s) {
		return quoteString(s)
	}
	return s
}

// percentEncodeRFC2231 percent-encodes s per RFC 2231's extended
// parameter value syntax, leaving the unreserved attribute-char set
// untouched.
func percentEncodeRFC2231(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isRFC2231Unreserved(c) {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

func isRFC2231Unreserved(b byte) bool {
	switch {
	case b >= 'A' && b <= 'Z', b >= 'a' && b <= 'z', b >= '0' && b <= '9':
		return true
	}
	switch b {
	case '-', '_', '.', '~':
		return true
	}
	return false
}
