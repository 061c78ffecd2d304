package mailkit

import "fmt"

// TransferEncoding is one of the Content-Transfer-Encoding values
// spec.md §3 enumerates.
type TransferEncoding string

const (
	SevenBitEncoding        TransferEncoding = "7bit"
	EightBitEncoding        TransferEncoding = "8bit"
	BinaryEncoding          TransferEncoding = "binary"
	QuotedPrintableEncoding TransferEncoding = "quoted-printable"
	Base64TransferEncoding  TransferEncoding = "base64"
)

// transferEncoder is the pull-friendly streaming shape spec.md §4.2/§5
// requires: Feed accepts an arbitrarily-sized chunk and returns zero
// or more fully-formed output chunks; Flush drains whatever state is
// held between calls (at most 2 bytes for base64, at most one line's
// worth for quoted-printable). This replaces the teacher's push-
// oriented use of mime/quotedprintable.NewReader / base64.NewEncoder
// (Part.Write in main.go), which assumes a buffered whole-part write
// rather than C7's pull-based chunk sequence.
type transferEncoder interface {
	Feed(p []byte) ([][]byte, error)
	Flush() ([][]byte, error)
}

func newTransferEncoder(enc TransferEncoding) transferEncoder {
	switch enc {
	case QuotedPrintableEncoding:
		return newQPEncoder()
	case Base64TransferEncoding:
		return newB64Encoder()
	case SevenBitEncoding:
		return &identityEncoder{mode: modeSevenBit}
	case EightBitEncoding:
		return &identityEncoder{mode: modeEightBit}
	default:
		return &identityEncoder{mode: modeBinary}
	}
}

type identityMode int

const (
	modeSevenBit identityMode = iota
	modeEightBit
	modeBinary
)

// identityEncoder implements 7bit/8bit/binary: a passthrough transform
// that validates the invariants spec.md §3 places on each (octet
// range, no bare CR/LF, 998-octet line cap); binary has none of those
// constraints.
type identityEncoder struct {
	mode      identityMode
	lastWasCR bool
	lineLen   int
}

func (e *identityEncoder) Feed(p []byte) ([][]byte, error) {
	if e.mode == modeBinary {
		if len(p) == 0 {
			return nil, nil
		}
		out := make([]byte, len(p))
		copy(out, p)
		return [][]byte{out}, nil
	}

	out := make([]byte, 0, len(p))
	for _, b := range p {
		if e.mode == modeSevenBit && b > 127 {
			return nil, fmt.Errorf("mailkit: 7bit body contains octet > 127: %w", ErrBodyViolatesEncoding)
		}
		if b == 0 {
			return nil, fmt.Errorf("mailkit: body contains NUL octet: %w", ErrBodyViolatesEncoding)
		}
		if b == '\n' {
			if !e.lastWasCR {
				return nil, fmt.Errorf("mailkit: bare LF in body: %w", ErrBodyViolatesEncoding)
			}
			e.lastWasCR = false
			e.lineLen = 0
			out = append(out, b)
			continue
		}
		if e.lastWasCR {
			return nil, fmt.Errorf("mailkit: bare CR in body: %w", ErrBodyViolatesEncoding)
		}
		e.lastWasCR = b == '\r'
		if !e.lastWasCR {
			e.lineLen++
			if e.lineLen > maxLineOctets {
				return nil, fmt.Errorf("mailkit: body line exceeds %d octets: %w", maxLineOctets, ErrBodyViolatesEncoding)
			}
		}
		out = append(out, b)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return [][]byte{out}, nil
}

func (e *identityEncoder) Flush() ([][]byte, error) {
	if e.mode != modeBinary && e.lastWasCR {
		return nil, fmt.Errorf("mailkit: body ends with a bare CR: %w", ErrBodyViolatesEncoding)
	}
	return nil, nil
}
