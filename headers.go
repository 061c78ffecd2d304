package mailkit

import (
	"fmt"
	"io"
	"net/textproto"
	"strings"
)

// CRLF is the line terminator used throughout the wire format
// (spec.md §6).
const CRLF = "\r\n"

// maxLineOctets and foldLineOctets are the hard and soft line-length
// bounds spec.md §3 imposes on header field lines.
const (
	maxLineOctets  = 998
	foldLineOctets = 78
)

// HeaderName is a case-insensitive ASCII header field name (spec.md
// §3). Known headers are canonicalized to their conventional casing;
// unknown ones fall back to textproto's MIME canonicalization.
type HeaderName string

// Canonical header names enumerated in spec.md §3.
const (
	HeaderFrom                    HeaderName = "From"
	HeaderReplyTo                 HeaderName = "Reply-To"
	HeaderTo                      HeaderName = "To"
	HeaderCc                      HeaderName = "Cc"
	HeaderBcc                     HeaderName = "Bcc"
	HeaderSender                  HeaderName = "Sender"
	HeaderSubject                 HeaderName = "Subject"
	HeaderDate                    HeaderName = "Date"
	HeaderMessageID               HeaderName = "Message-ID"
	HeaderInReplyTo               HeaderName = "In-Reply-To"
	HeaderReferences              HeaderName = "References"
	HeaderMIMEVersion             HeaderName = "MIME-Version"
	HeaderContentType             HeaderName = "Content-Type"
	HeaderContentTransferEncoding HeaderName = "Content-Transfer-Encoding"
	HeaderContentDisposition      HeaderName = "Content-Disposition"
	HeaderContentID               HeaderName = "Content-ID"
	HeaderUserAgent               HeaderName = "User-Agent"
)

var canonicalNames = map[string]string{
	"from":                      "From",
	"reply-to":                  "Reply-To",
	"to":                        "To",
	"cc":                        "Cc",
	"bcc":                       "Bcc",
	"sender":                    "Sender",
	"subject":                   "Subject",
	"date":                      "Date",
	"message-id":                "Message-ID",
	"in-reply-to":               "In-Reply-To",
	"references":                "References",
	"mime-version":              "MIME-Version",
	"content-type":              "Content-Type",
	"content-transfer-encoding": "Content-Transfer-Encoding",
	"content-disposition":       "Content-Disposition",
	"content-id":                "Content-ID",
	"user-agent":                "User-Agent",
}

// singletonHeaders are replaced in place by Set rather than appended
// (spec.md §3 "for singleton headers, the last set value wins").
var singletonHeaders = map[string]bool{
	"from":                      true,
	"reply-to":                  true,
	"sender":                    true,
	"subject":                   true,
	"date":                      true,
	"message-id":                true,
	"mime-version":              true,
	"content-type":              true,
	"content-transfer-encoding": true,
	"content-disposition":       true,
	"content-id":                true,
	"user-agent":                true,
}

func canonicalHeaderName(name string) string {
	if canon, ok := canonicalNames[strings.ToLower(name)]; ok {
		return canon
	}
	return textproto.CanonicalMIMEHeaderKey(name)
}

func isSingleton(canonicalName string) bool {
	return singletonHeaders[strings.ToLower(canonicalName)]
}

// HeaderValue is a typed header field value with its own ASCII
// rendering and folding strategy (spec.md §3 "sum of typed values").
type HeaderValue interface {
	renderASCII() (string, error)
	breakStyle() breakStyle
}

type breakStyle int

const (
	breakNone breakStyle = iota
	breakAfterComma
	breakAfterSemicolon
	breakAtSpace
)

type headerEntry struct {
	name  string
	value HeaderValue
}

// Headers is an ordered, multi-valued header collection (spec.md §4.4
// C4). Insertion order is emission order. It generalizes the teacher's
// map[string][]string (which had no stable emission order) into an
// ordered slice, since spec.md requires insertion order to be
// preserved.
type Headers struct {
	entries []headerEntry
}

// NewHeaders returns an empty header collection.
func NewHeaders() *Headers {
	return &Headers{}
}

// Set appends name/value, or replaces the last value if name is one of
// the singleton-typed headers.
func (h *Headers) Set(name HeaderName, value HeaderValue) *Headers {
	canon := canonicalHeaderName(string(name))
	if isSingleton(canon) {
		for i := range h.entries {
			if h.entries[i].name == canon {
				h.entries[i].value = value
				return h
			}
		}
	}
	h.entries = append(h.entries, headerEntry{name: canon, value: value})
	return h
}

// SetIfAbsent sets name to value only when it is not already present.
// Used to synthesize MIME-Version/Content-Type/Content-Transfer-
// Encoding without clobbering a caller-supplied value, and to preserve
// insertion-order semantics for where the synthesized header lands
// (spec.md §9, DESIGN.md Open Question 2).
func (h *Headers) SetIfAbsent(name HeaderName, value HeaderValue) *Headers {
	if h.Has(name) {
		return h
	}
	return h.Set(name, value)
}

// Get returns the most recently set value for name.
func (h *Headers) Get(name HeaderName) (HeaderValue, bool) {
	canon := canonicalHeaderName(string(name))
	for i := len(h.entries) - 1; i >= 0; i-- {
		if h.entries[i].name == canon {
			return h.entries[i].value, true
		}
	}
	return nil, false
}

// GetAll returns every value set for name, in insertion order.
func (h *Headers) GetAll(name HeaderName) []HeaderValue {
	canon := canonicalHeaderName(string(name))
	var out []HeaderValue
	for _, e := range h.entries {
		if e.name == canon {
			out = append(out, e.value)
		}
	}
	return out
}

// Has reports whether name has been set.
func (h *Headers) Has(name HeaderName) bool {
	_, ok := h.Get(name)
	return ok
}

// clone returns a shallow copy of h: a distinct entries slice holding
// the same (name, value) pairs, so SetIfAbsent on the copy can never
// be observed by anything still holding h (used by effectiveSingle/
// MultiHeaders to synthesize headers without mutating a shared Part).
func (h *Headers) clone() *Headers {
	out := &Headers{entries: make([]headerEntry, len(h.entries))}
	copy(out.entries, h.entries)
	return out
}

// HeaderPair is one (name, value) entry as returned by Iter.
type HeaderPair struct {
	Name  string
	Value HeaderValue
}

// Iter returns every header in insertion order.
func (h *Headers) Iter() []HeaderPair {
	out := make([]HeaderPair, len(h.entries))
	for i, e := range h.entries {
		out[i] = HeaderPair{Name: e.name, Value: e.value}
	}
	return out
}

// Format renders the full header block, each header as
// "Name: value\r\n" with folding applied (spec.md §4.4 format()).
func (h *Headers) Format() ([]byte, error) {
	var sb strings.Builder
	if err := h.writeTo(&sb); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

func (h *Headers) writeTo(w io.Writer) error {
	for _, e := range h.entries {
		rendered, err := e.value.renderASCII()
		if err != nil {
			return fmt.Errorf("mailkit: header %q: %w", e.name, err)
		}
		folded, err := foldHeader(e.name, rendered, e.value.breakStyle())
		if err != nil {
			return err
		}
		if _, err := w.Write(folded); err != nil {
			return err
		}
	}
	return nil
}

// foldHeader lays out "Name: value\r\n", inserting CRLF+" " folds at
// the breakpoints style allows so that no line exceeds foldLineOctets
// where feasible, and failing with ErrHeaderTooLong if a single
// unbreakable token still exceeds maxLineOctets (spec.md §4.4/§3).
func foldHeader(name, value string, style breakStyle) ([]byte, error) {
	prefix := name + ": "
	if len(prefix)+len(value) <= foldLineOctets || style == breakNone {
		full := prefix + value
		if len(full) > maxLineOctets {
			return nil, fmt.Errorf("mailkit: header %q: %w", name, ErrHeaderTooLong)
		}
		return []byte(full + CRLF), nil
	}

	var joiner string
	var parts []string
	switch style {
	case breakAfterComma:
		joiner = ","
		parts = strings.Split(value, ", ")
	case breakAfterSemicolon:
		joiner = ";"
		parts = strings.Split(value, "; ")
	default:
		joiner = ""
		parts = strings.Split(value, " ")
	}

	var b strings.Builder
	b.WriteString(prefix)
	lineLen := len(prefix)
	for i, part := range parts {
		if len(part) > maxLineOctets {
			return nil, fmt.Errorf("mailkit: header %q: %w", name, ErrHeaderTooLong)
		}
		if i == 0 {
			b.WriteString(part)
			lineLen += len(part)
			continue
		}
		candidateLen := lineLen + len(joiner) + 1 + len(part)
		if candidateLen > foldLineOctets {
			b.WriteString(joiner)
			b.WriteString(CRLF)
			b.WriteString(" ")
			b.WriteString(part)
			lineLen = 1 + len(part)
		} else {
			b.WriteString(joiner)
			b.WriteString(" ")
			b.WriteString(part)
			lineLen += len(joiner) + 1 + len(part)
		}
	}
	b.WriteString(CRLF)
	return []byte(b.String()), nil
}
