package mailkit

import "io"

// Payload is the minimal lazy capability a SinglePart body needs: Next
// returns the next chunk of unencoded source bytes, or io.EOF when
// exhausted (spec.md §9 "minimal capability { next() -> Chunk | End |
// Error }").
type Payload interface {
	Next() ([]byte, error)
}

// BytesPayload is a Payload backed by a single in-memory buffer.
type BytesPayload struct {
	data []byte
	done bool
}

// NewBytesPayload wraps b as a Payload.
func NewBytesPayload(b []byte) *BytesPayload {
	return &BytesPayload{data: b}
}

// NewTextPayload wraps s as a Payload.
func NewTextPayload(s string) *BytesPayload {
	return NewBytesPayload([]byte(s))
}

func (p *BytesPayload) Next() ([]byte, error) {
	if p.done {
		return nil, io.EOF
	}
	p.done = true
	return p.data, nil
}

// ReaderPayload adapts an io.Reader into a Payload without buffering
// its whole source in memory, for large attachments or log-tailing
// sources (spec.md §1 "multi-megabyte attachments, server logs").
type ReaderPayload struct {
	r   io.Reader
	buf []byte
}

// NewReaderPayload wraps r, reading in 32KiB chunks.
func NewReaderPayload(r io.Reader) *ReaderPayload {
	return &ReaderPayload{r: r, buf: make([]byte, 32*1024)}
}

func (p *ReaderPayload) Next() ([]byte, error) {
	n, err := p.r.Read(p.buf)
	if n > 0 {
		chunk := make([]byte, n)
		copy(chunk, p.buf[:n])
		if err != nil && err != io.EOF {
			return chunk, err
		}
		return chunk, nil
	}
	if err == nil {
		err = io.EOF
	}
	return nil, err
}

// Part is the recursive MIME tree value: either a SinglePart or a
// MultiPart (spec.md §3/§4.6 C6).
type Part interface {
	isPart()
	headers() *Headers
}

// SinglePart carries its own headers plus an unencoded payload; the
// declared Encoding is applied by the streaming serializer (C7),
// never by the caller.
type SinglePart struct {
	Headers  *Headers
	Encoding TransferEncoding
	Payload  Payload

	// skipSynthesis is set by MessageBuilder.Body for the plain-
	// text-or-octet-stream case, where spec.md §4.8 says no MIME
	// headers are synthesized beyond what the caller set explicitly.
	skipSynthesis bool
}

func (*SinglePart) isPart()            {}
func (p *SinglePart) headers() *Headers { return p.Headers }

func newSinglePart(enc TransferEncoding) *SinglePart {
	return &SinglePart{Headers: NewHeaders(), Encoding: enc}
}

// SevenBit, EightBit, Binary, QuotedPrintable and Base64 are the
// preset SinglePart constructors spec.md §4.6/§6 names
// (seven_bit/eight_bit/binary/quoted_printable/base64), each
// presetting Content-Transfer-Encoding and binding the matching
// encoder.
func SevenBit(payload Payload) *SinglePart {
	p := newSinglePart(SevenBitEncoding)
	p.Payload = payload
	return p
}

func EightBit(payload Payload) *SinglePart {
	p := newSinglePart(EightBitEncoding)
	p.Payload = payload
	return p
}

func Binary(payload Payload) *SinglePart {
	p := newSinglePart(BinaryEncoding)
	p.Payload = payload
	return p
}

func QuotedPrintable(payload Payload) *SinglePart {
	p := newSinglePart(QuotedPrintableEncoding)
	p.Payload = payload
	return p
}

func Base64(payload Payload) *SinglePart {
	p := newSinglePart(Base64TransferEncoding)
	p.Payload = payload
	return p
}

// WithBody attaches (or replaces) the unencoded payload.
func (p *SinglePart) WithBody(payload Payload) *SinglePart {
	p.Payload = payload
	return p
}

// WithHeader sets an arbitrary header on the part.
func (p *SinglePart) WithHeader(name HeaderName, value HeaderValue) *SinglePart {
	p.Headers.Set(name, value)
	return p
}

// WithContentType sets Content-Type explicitly, overriding the
// text/plain default the serializer would otherwise synthesize.
func (p *SinglePart) WithContentType(ct ContentTypeValue) *SinglePart {
	p.Headers.Set(HeaderContentType, ct)
	return p
}

// WithDisposition sets Content-Disposition (e.g. "attachment;
// filename=...").
func (p *SinglePart) WithDisposition(cd ContentDispositionValue) *SinglePart {
	p.Headers.Set(HeaderContentDisposition, cd)
	return p
}

// MultiSubtype is one of the multipart subtypes spec.md §3 names.
type MultiSubtype string

const (
	MixedSubtype       MultiSubtype = "mixed"
	AlternativeSubtype MultiSubtype = "alternative"
	RelatedSubtype     MultiSubtype = "related"
	ParallelSubtype    MultiSubtype = "parallel"
	DigestSubtype      MultiSubtype = "digest"
)

// MultiPart is a multipart MIME container: own headers, a boundary,
// and an ordered sequence of children which may themselves be
// SinglePart or MultiPart (spec.md §3/§4.6).
type MultiPart struct {
	Headers  *Headers
	Subtype  MultiSubtype
	Boundary string
	Children []Part
}

func (*MultiPart) isPart()             {}
func (p *MultiPart) headers() *Headers { return p.Headers }

func newMultiPart(subtype MultiSubtype) *MultiPart {
	return &MultiPart{Headers: NewHeaders(), Subtype: subtype, Boundary: GenerateBoundary()}
}

// Mixed, Alternative, Related, Parallel and Digest build an empty
// MultiPart of the matching subtype, each with a freshly generated
// boundary (spec.md §6 "MultiPart::mixed()|alternative()|...").
func Mixed() *MultiPart       { return newMultiPart(MixedSubtype) }
func Alternative() *MultiPart { return newMultiPart(AlternativeSubtype) }
func Related() *MultiPart     { return newMultiPart(RelatedSubtype) }
func Parallel() *MultiPart    { return newMultiPart(ParallelSubtype) }
func Digest() *MultiPart      { return newMultiPart(DigestSubtype) }

// Singlepart appends a SinglePart child; order is emission order.
func (m *MultiPart) Singlepart(child *SinglePart) *MultiPart {
	m.Children = append(m.Children, child)
	return m
}

// Multipart appends a nested MultiPart child; order is emission order.
func (m *MultiPart) Multipart(child *MultiPart) *MultiPart {
	m.Children = append(m.Children, child)
	return m
}

// WithHeader sets an arbitrary header on the multipart's own header
// block.
func (m *MultiPart) WithHeader(name HeaderName, value HeaderValue) *MultiPart {
	m.Headers.Set(name, value)
	return m
}

// effectiveSingleHeaders returns the header block to emit for p: a copy
// of p.Headers with Content-Type/Content-Transfer-Encoding filled in
// from the part's configuration if the caller did not set them
// explicitly (spec.md §4.7 step 1). It never writes back to p itself —
// spec.md §3 Lifecycle says serialization "does not mutate the tree"
// and §5 treats builder values as immutable, shared-nothing inputs, so
// a SinglePart reused as a child of two different messages must not
// have its Headers mutated by serializing either one.
func effectiveSingleHeaders(p *SinglePart) *Headers {
	h := p.Headers.clone()
	if p.skipSynthesis {
		return h
	}
	h.SetIfAbsent(HeaderContentType, ContentType("text", "plain", Param{Name: "charset", Value: "utf-8"}))
	h.SetIfAbsent(HeaderContentTransferEncoding, ContentTransferEncodingValue{Encoding: p.Encoding})
	return h
}

// effectiveMultiHeaders returns the header block to emit for p: a copy
// of p.Headers with Content-Type filled in from the multipart's
// subtype and boundary if the caller did not set it explicitly
// (spec.md §4.7 step 1), without mutating p (see effectiveSingleHeaders).
func effectiveMultiHeaders(p *MultiPart) *Headers {
	h := p.Headers.clone()
	h.SetIfAbsent(HeaderContentType, ContentType("multipart", string(p.Subtype), Param{Name: "boundary", Value: p.Boundary}))
	return h
}
