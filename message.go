package mailkit

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"os"
	"time"
)

// MessageBuilder accumulates envelope-level headers before a body is
// attached (spec.md §4.8 C8). It generalizes the teacher's pattern of
// building an Envelope as a single struct literal (example/simple in
// the teacher repo) into a chained builder so that headers can be
// added incrementally and in any order, matching spec.md's "fluent
// construction" requirement.
type MessageBuilder struct {
	headers *Headers
	bodySet bool
}

// NewMessage starts a new MessageBuilder with no headers set.
func NewMessage() *MessageBuilder {
	return &MessageBuilder{headers: NewHeaders()}
}

// From sets the From header.
func (b *MessageBuilder) From(addrs ...Mailbox) *MessageBuilder {
	b.headers.Set(HeaderFrom, MailboxListValue{List: addrs})
	return b
}

// ReplyTo sets the Reply-To header.
func (b *MessageBuilder) ReplyTo(addrs ...Mailbox) *MessageBuilder {
	b.headers.Set(HeaderReplyTo, MailboxListValue{List: addrs})
	return b
}

// Sender sets the Sender header.
func (b *MessageBuilder) Sender(addr Mailbox) *MessageBuilder {
	b.headers.Set(HeaderSender, MailboxListValue{List: MailboxList{addr}})
	return b
}

// To sets the To header.
func (b *MessageBuilder) To(addrs ...Mailbox) *MessageBuilder {
	b.headers.Set(HeaderTo, MailboxListValue{List: addrs})
	return b
}

// Cc sets the Cc header.
func (b *MessageBuilder) Cc(addrs ...Mailbox) *MessageBuilder {
	b.headers.Set(HeaderCc, MailboxListValue{List: addrs})
	return b
}

// Bcc sets the Bcc header. mailkit does not strip Bcc on emission
// (DESIGN.md Open Question 1) — a caller who wants it absent from a
// transmitted copy simply builds that copy without calling Bcc.
func (b *MessageBuilder) Bcc(addrs ...Mailbox) *MessageBuilder {
	b.headers.Set(HeaderBcc, MailboxListValue{List: addrs})
	return b
}

// Subject sets the Subject header, RFC 2047 encoding it if needed.
func (b *MessageBuilder) Subject(s string) *MessageBuilder {
	b.headers.Set(HeaderSubject, Text(s))
	return b
}

// Date sets the Date header explicitly, overriding auto-population.
func (b *MessageBuilder) Date(t time.Time) *MessageBuilder {
	b.headers.Set(HeaderDate, DateValue{Time: t})
	return b
}

// InReplyTo sets the In-Reply-To header to a raw ASCII message
// identifier (e.g. "<id@host>").
func (b *MessageBuilder) InReplyTo(msgID string) *MessageBuilder {
	b.headers.Set(HeaderInReplyTo, RawASCII(msgID))
	return b
}

// Header sets an arbitrary header, for anything spec.md's named
// setters don't cover.
func (b *MessageBuilder) Header(name HeaderName, value HeaderValue) *MessageBuilder {
	b.headers.Set(name, value)
	return b
}

// Body finalizes the message with a single plain-text part, 7bit- or
// 8bit-encoded depending on its content, and no MIME headers beyond
// whatever the caller set explicitly (spec.md §8 S1 — a bare-string
// message carries no Content-Type/MIME-Version at all). Calling Body
// or MimeBody a second time on the same builder is ErrBodyAlreadySet
// (spec.md §4.8/§7), regardless of which was called first.
func (b *MessageBuilder) Body(text string) (*Message, error) {
	if b.bodySet {
		return nil, ErrBodyAlreadySet
	}
	enc := SevenBitEncoding
	for i := 0; i < len(text); i++ {
		if text[i] > 127 {
			enc = EightBitEncoding
			break
		}
	}
	part := newSinglePart(enc)
	part.Payload = NewTextPayload(text)
	part.skipSynthesis = true
	b.bodySet = true
	return &Message{headers: b.headers, root: part}, nil
}

// MimeBody finalizes the message with part as its root body (a
// SinglePart or a nested MultiPart tree), synthesizing MIME-Version
// and the part's own Content-Type/Content-Transfer-Encoding as needed
// (spec.md §4.8 "mime_body").
func (b *MessageBuilder) MimeBody(part Part) (*Message, error) {
	if b.bodySet {
		return nil, ErrBodyAlreadySet
	}
	if part == nil {
		return nil, fmt.Errorf("mailkit: mime body part is nil: %w", ErrUnknownHeaderValueShape)
	}
	b.headers.SetIfAbsent(HeaderMIMEVersion, MIMEVersion)
	b.bodySet = true
	return &Message{headers: b.headers, root: part}, nil
}

// Message is a complete, ready-to-serialize email (spec.md §4.8). It
// is produced only by MessageBuilder.Body/MimeBody.
type Message struct {
	headers *Headers
	root    Part
}

// ensureDefaults auto-populates Date (spec.md §4.8) and Message-ID
// (SPEC_FULL.md §4.3) when the caller didn't set them, exactly once,
// immediately before serialization.
func (m *Message) ensureDefaults() {
	m.headers.SetIfAbsent(HeaderDate, DateValue{Time: time.Now().UTC()})
	m.headers.SetIfAbsent(HeaderMessageID, RawASCII(generateMessageID()))
}

// asPart merges the message's own envelope headers in front of the
// root part's headers, preserving each side's insertion order
// (DESIGN.md Open Question 2): From/To/Subject/..., MIME-Version and
// the auto-populated Date/Message-ID first, then whatever
// Content-Type/Content-Transfer-Encoding the root part carries or
// synthesizes.
func (m *Message) asPart() Part {
	switch p := m.root.(type) {
	case *SinglePart:
		merged := &SinglePart{
			Headers:       mergeHeaders(m.headers, p.Headers),
			Encoding:      p.Encoding,
			Payload:       p.Payload,
			skipSynthesis: p.skipSynthesis,
		}
		return merged
	case *MultiPart:
		merged := &MultiPart{
			Headers:  mergeHeaders(m.headers, p.Headers),
			Subtype:  p.Subtype,
			Boundary: p.Boundary,
			Children: p.Children,
		}
		return merged
	default:
		return m.root
	}
}

func mergeHeaders(envelope, part *Headers) *Headers {
	out := NewHeaders()
	for _, e := range envelope.Iter() {
		out.entries = append(out.entries, headerEntry{name: e.Name, value: e.Value})
	}
	for _, e := range part.Iter() {
		out.entries = append(out.entries, headerEntry{name: e.Name, value: e.Value})
	}
	return out
}

// WriteTo serializes the complete message to w.
func (m *Message) WriteTo(w io.Writer) (int64, error) {
	m.ensureDefaults()
	return NewStream(m.asPart()).WriteTo(w)
}

// Bytes serializes the complete message into memory.
func (m *Message) Bytes() ([]byte, error) {
	var sb []byte
	buf := &sliceWriter{buf: &sb}
	if _, err := m.WriteTo(buf); err != nil {
		return nil, err
	}
	return sb, nil
}

// IntoStream returns the complete message as a lazy chunk sequence.
func (m *Message) IntoStream() io.ReadCloser {
	m.ensureDefaults()
	return NewStream(m.asPart()).IntoStream()
}

type sliceWriter struct {
	buf *[]byte
}

func (s *sliceWriter) Write(p []byte) (int, error) {
	*s.buf = append(*s.buf, p...)
	return len(p), nil
}

// generateMessageID builds a Message-ID token per SPEC_FULL.md §4.3,
// grounded on gearnode-postman/main.go's genMsgID: a random number, a
// fixed "mailkit" tag and the local hostname ("<n.mailkit@host>"; the
// current UnixNano time stands in for n if crypto/rand fails), since a
// Message-ID only needs to be unique, not cryptographically
// unpredictable.
func generateMessageID() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1<<62))
	var id int64
	if err == nil {
		id = n.Int64()
	} else {
		id = time.Now().UTC().UnixNano()
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("<%d.%s@%s>", id, "mailkit", host)
}
