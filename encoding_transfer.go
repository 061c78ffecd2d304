package mailkit

import "encoding/base64"

// qpMaxLineLen leaves room for the trailing '=' soft-break marker
// within the 76-octet line cap spec.md §3/§4.2 requires.
const qpMaxLineLen = 75

// qpEncoder streams RFC 2045 §6.7 quoted-printable encoding. It holds
// at most one pending byte between Feed calls: either a whitespace
// byte (since whether a trailing space/tab must be escaped depends on
// whether the very next byte starts a line break) or a CR (since a CR
// is only part of a hard line break when immediately followed by LF —
// a bare CR must be escaped on its own).
type qpEncoder struct {
	lineLen   int
	heldSpace bool
	heldByte  byte
	heldCR    bool
}

func newQPEncoder() *qpEncoder { return &qpEncoder{} }

func (e *qpEncoder) emitLiteral(out *[]byte, b byte) {
	if e.lineLen >= qpMaxLineLen {
		*out = append(*out, '=', '\r', '\n')
		e.lineLen = 0
	}
	*out = append(*out, b)
	e.lineLen++
}

func (e *qpEncoder) emitEscaped(out *[]byte, b byte) {
	if e.lineLen+3 > qpMaxLineLen {
		*out = append(*out, '=', '\r', '\n')
		e.lineLen = 0
	}
	*out = append(*out, '=', hexDigit(b>>4), hexDigit(b&0xF))
	e.lineLen += 3
}

func (e *qpEncoder) Feed(p []byte) ([][]byte, error) {
	var out []byte
	for _, b := range p {
		// A held CR resolves on the very next byte: paired with LF it is
		// one hard line break (spec.md §8 property 4 — a canonical CRLF
		// payload must round-trip, not pick up an extra decoded CR from
		// an escaped "=0D" ahead of the break); anything else means the
		// CR was bare and must be escaped on its own.
		if e.heldCR {
			e.heldCR = false
			if b == '\n' {
				out = append(out, '\r', '\n')
				e.lineLen = 0
				continue
			}
			e.emitEscaped(&out, '\r')
		}

		if e.heldSpace {
			e.heldSpace = false
			if b == '\n' || b == '\r' {
				e.emitEscaped(&out, e.heldByte)
			} else {
				e.emitLiteral(&out, e.heldByte)
			}
		}

		switch {
		case b == '\r':
			e.heldCR = true
		case b == '\n':
			out = append(out, '\r', '\n')
			e.lineLen = 0
		case b == ' ' || b == '\t':
			e.heldSpace = true
			e.heldByte = b
		case b == '=' || b < 0x20 || b >= 0x7F:
			e.emitEscaped(&out, b)
		default:
			e.emitLiteral(&out, b)
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return [][]byte{out}, nil
}

func (e *qpEncoder) Flush() ([][]byte, error) {
	var out []byte
	if e.heldCR {
		e.emitEscaped(&out, '\r')
		e.heldCR = false
	}
	if e.heldSpace {
		e.emitEscaped(&out, e.heldByte)
		e.heldSpace = false
	}
	if len(out) == 0 {
		return nil, nil
	}
	return [][]byte{out}, nil
}

func hexDigit(n byte) byte {
	if n < 10 {
		return '0' + n
	}
	return 'A' + (n - 10)
}

// b64LineLen is the RFC 2045 76-character base64 line wrap width.
const b64LineLen = 76

// b64Encoder streams RFC 4648 base64 encoding, CRLF-wrapped at
// b64LineLen, holding 0-2 leftover input bytes between Feed calls.
type b64Encoder struct {
	carry []byte
	col   int
}

func newB64Encoder() *b64Encoder { return &b64Encoder{} }

func (e *b64Encoder) Feed(p []byte) ([][]byte, error) {
	buf := append(append([]byte(nil), e.carry...), p...)
	n := (len(buf) / 3) * 3
	e.carry = append([]byte(nil), buf[n:]...)
	if n == 0 {
		return nil, nil
	}
	encoded := base64.StdEncoding.EncodeToString(buf[:n])
	return [][]byte{e.wrap(encoded)}, nil
}

func (e *b64Encoder) wrap(encoded string) []byte {
	var out []byte
	for len(encoded) > 0 {
		room := b64LineLen - e.col
		take := room
		if take > len(encoded) {
			take = len(encoded)
		}
		out = append(out, encoded[:take]...)
		encoded = encoded[take:]
		e.col += take
		if e.col == b64LineLen {
			out = append(out, '\r', '\n')
			e.col = 0
		}
	}
	return out
}

func (e *b64Encoder) Flush() ([][]byte, error) {
	if len(e.carry) == 0 {
		return nil, nil
	}
	encoded := base64.StdEncoding.EncodeToString(e.carry)
	e.carry = nil
	return [][]byte{e.wrap(encoded)}, nil
}
