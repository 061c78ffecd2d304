package mailkit

import (
	"fmt"
	"strings"
	"time"
)

// rfc5322DateLayout is the canonical RFC 5322 date-time layout
// ("Date:" header, spec.md §3).
const rfc5322DateLayout = "Mon, 02 Jan 2006 15:04:05 -0700"

// MailboxListValue renders a MailboxList as a comma-separated address
// list (From/To/Cc/Bcc/Reply-To/Sender).
type MailboxListValue struct {
	List MailboxList
}

func (v MailboxListValue) renderASCII() (string, error) {
	if len(v.List) == 0 {
		return "", fmt.Errorf("mailkit: empty mailbox list: %w", ErrUnknownHeaderValueShape)
	}
	parts := make([]string, len(v.List))
	for i, m := range v.List {
		s, err := m.format()
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return strings.Join(parts, ", "), nil
}

func (v MailboxListValue) breakStyle() breakStyle { return breakAfterComma }

// TextValue renders free-form text (Subject, User-Agent, ...),
// RFC 2047 encoded-word-encoding it when it is not plain ASCII.
type TextValue struct {
	Text    string
	Charset string
}

// Text builds a TextValue with the default utf-8 charset.
func Text(s string) TextValue {
	return TextValue{Text: s, Charset: "utf-8"}
}

func (v TextValue) renderASCII() (string, error) {
	charset := v.Charset
	if charset == "" {
		charset = "utf-8"
	}
	return EncodeWord(charset, v.Text), nil
}

func (v TextValue) breakStyle() breakStyle { return breakAtSpace }

// DateValue renders an RFC 5322 date-time.
type DateValue struct {
	Time time.Time
}

func (v DateValue) renderASCII() (string, error) {
	return v.Time.Format(rfc5322DateLayout), nil
}

func (v DateValue) breakStyle() breakStyle { return breakNone }

// Param is one structured-header parameter (e.g. Content-Type's
// "charset", Content-Disposition's "filename").
type Param struct {
	Name  string
	Value string
}

// ContentTypeValue renders "type/subtype; param=value; ...", RFC 2231
// encoding any parameter value that needs it.
type ContentTypeValue struct {
	Type    string
	Subtype string
	Params  []Param
}

// ContentType builds a ContentTypeValue.
func ContentType(typ, subtype string, params ...Param) ContentTypeValue {
	return ContentTypeValue{Type: typ, Subtype: subtype, Params: params}
}

func (v ContentTypeValue) renderASCII() (string, error) {
	var b strings.Builder
	b.WriteString(v.Type)
	b.WriteString("/")
	b.WriteString(v.Subtype)
	if err := writeParams(&b, v.Params); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (v ContentTypeValue) breakStyle() breakStyle { return breakAfterSemicolon }

// ContentDispositionValue renders "inline|attachment; param=value; ...".
type ContentDispositionValue struct {
	Disposition string
	Params      []Param
}

// ContentDisposition builds a ContentDispositionValue.
func ContentDisposition(disposition string, params ...Param) ContentDispositionValue {
	return ContentDispositionValue{Disposition: disposition, Params: params}
}

func (v ContentDispositionValue) renderASCII() (string, error) {
	var b strings.Builder
	b.WriteString(v.Disposition)
	if err := writeParams(&b, v.Params); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (v ContentDispositionValue) breakStyle() breakStyle { return breakAfterSemicolon }

func writeParams(b *strings.Builder, params []Param) error {
	for _, p := range params {
		toks, err := encodeParam(p.Name, p.Value)
		if err != nil {
			return err
		}
		for _, t := range toks {
			b.WriteString("; ")
			b.WriteString(t)
		}
	}
	return nil
}

// rfc2231ChunkSize bounds each continuation segment's encoded payload;
// kept well under foldLineOctets so "name*N*=..." plus "; " framing
// still fits a folded line.
const rfc2231ChunkSize = 40

// encodeParam renders one Content-Type/Content-Disposition parameter,
// using RFC 2231 charset + continuation encoding when the value is
// non-ASCII or otherwise needs it (spec.md §3/§8 S6).
func encodeParam(name, value string) ([]string, error) {
	if isAllASCIIToken(value) {
		return []string{fmt.Sprintf("%s=%s", name, value)}, nil
	}
	if isASCII(value) {
		return []string{fmt.Sprintf("%s=%s", name, maybeQuote(value))}, nil
	}

	enc := "utf-8''" + percentEncodeRFC2231(value)
	if len(enc) <= rfc2231ChunkSize {
		return []string{fmt.Sprintf("%s*=%s", name, enc)}, nil
	}

	var toks []string
	rest := enc
	idx := 0
	for len(rest) > 0 {
		cut := rfc2231ChunkSize
		if cut > len(rest) {
			cut = len(rest)
		}
		// never split a %XX escape triplet
		for cut < len(rest) && cut > 0 && rest[cut-1] == '%' {
			cut--
		}
		for cut < len(rest) && cut > 1 && rest[cut-2] == '%' {
			cut--
		}
		if cut <= 0 {
			return nil, fmt.Errorf("mailkit: parameter %q: %w", name, ErrHeaderTooLong)
		}
		toks = append(toks, fmt.Sprintf("%s*%d*=%s", name, idx, rest[:cut]))
		rest = rest[cut:]
		idx++
	}
	return toks, nil
}

// ContentTransferEncodingValue renders a bare TransferEncoding token.
type ContentTransferEncodingValue struct {
	Encoding TransferEncoding
}

func (v ContentTransferEncodingValue) renderASCII() (string, error) {
	return string(v.Encoding), nil
}

func (v ContentTransferEncodingValue) breakStyle() breakStyle { return breakNone }

// mimeVersionValue renders the constant "1.0".
type mimeVersionValue struct{}

func (mimeVersionValue) renderASCII() (string, error) { return "1.0", nil }
func (mimeVersionValue) breakStyle() breakStyle       { return breakNone }

// MIMEVersion is the header value for "MIME-Version: 1.0".
var MIMEVersion HeaderValue = mimeVersionValue{}

// RawASCIIValue is the escape hatch for a header value the caller has
// already formatted and guarantees is pure ASCII (spec.md §3
// raw-ascii).
type RawASCIIValue struct {
	Raw string
}

// RawASCII builds a RawASCIIValue.
func RawASCII(s string) RawASCIIValue {
	return RawASCIIValue{Raw: s}
}

func (v RawASCIIValue) renderASCII() (string, error) {
	if !isASCII(v.Raw) {
		return "", fmt.Errorf("mailkit: raw-ascii value contains non-ASCII byte: %w", ErrUnknownHeaderValueShape)
	}
	return v.Raw, nil
}

func (v RawASCIIValue) breakStyle() breakStyle { return breakNone }
