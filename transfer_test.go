package mailkit

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime/quotedprintable"
	"testing"

	"github.com/stretchr/testify/require"
)

func feedAll(t *testing.T, enc transferEncoder, chunks ...[]byte) []byte {
	t.Helper()
	var out []byte
	for _, c := range chunks {
		outs, err := enc.Feed(c)
		require.NoError(t, err)
		for _, o := range outs {
			out = append(out, o...)
		}
	}
	outs, err := enc.Flush()
	require.NoError(t, err)
	for _, o := range outs {
		out = append(out, o...)
	}
	return out
}

func TestQPEncoderMatchesStdlibWholeInput(t *testing.T) {
	input := []byte("Привет, мир! trailing space \nand a tab\t\n")

	var want bytes.Buffer
	w := quotedprintable.NewWriter(&want)
	_, err := w.Write(input)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	got := feedAll(t, newQPEncoder(), input)

	// Both mailkit's qp encoder and stdlib's quotedprintable.Writer
	// (in its default, non-Binary mode) turn each LF into a CRLF line
	// break, so the outputs compare directly.
	require.Equal(t, want.String(), string(got))
}

func TestQPEncoderCanonicalCRLFRoundTrips(t *testing.T) {
	// spec.md §8 property 4: a payload that already uses canonical CRLF
	// line breaks must decode back to exactly itself, not pick up an
	// extra CR from an escaped "=0D" ahead of the break.
	input := []byte("line one\r\nline two\r\n")

	got := feedAll(t, newQPEncoder(), input)
	require.NotContains(t, string(got), "=0D")

	decoded, err := io.ReadAll(quotedprintable.NewReader(bytes.NewReader(got)))
	require.NoError(t, err)
	require.Equal(t, string(input), string(decoded))
}

func TestQPEncoderBareCRIsEscaped(t *testing.T) {
	got := feedAll(t, newQPEncoder(), []byte("a\rb"))
	require.Equal(t, "a=0Db", string(got))
}

func TestQPEncoderTrailingSpaceBeforeCRLFIsEscaped(t *testing.T) {
	got := feedAll(t, newQPEncoder(), []byte("a \r\nb"))
	require.Equal(t, "a=20\r\nb", string(got))
}

func TestQPEncoderCRAtEndOfInputIsEscapedOnFlush(t *testing.T) {
	got := feedAll(t, newQPEncoder(), []byte("a\r"))
	require.Equal(t, "a=0D", string(got))
}

func TestQPEncoderCyrillicExample(t *testing.T) {
	// spec.md §8 S2.
	got := feedAll(t, newQPEncoder(), []byte("Привет, мир!"))
	require.Equal(t, "=D0=9F=D1=80=D0=B8=D0=B2=D0=B5=D1=82, =D0=BC=D0=B8=D1=80!", string(got))
}

func TestQPEncoderSplitAcrossFeedCalls(t *testing.T) {
	full := feedAll(t, newQPEncoder(), []byte("hello world, ok"))

	enc := newQPEncoder()
	var out []byte
	for _, b := range []byte("hello world, ok") {
		outs, err := enc.Feed([]byte{b})
		require.NoError(t, err)
		for _, o := range outs {
			out = append(out, o...)
		}
	}
	outs, err := enc.Flush()
	require.NoError(t, err)
	for _, o := range outs {
		out = append(out, o...)
	}
	require.Equal(t, string(full), string(out))
}

func TestB64EncoderMatchesStdlib(t *testing.T) {
	input := []byte("the quick brown fox jumps over the lazy dog, 0123456789")
	want := base64.StdEncoding.EncodeToString(input)

	got := feedAll(t, newB64Encoder(), input)
	require.Equal(t, want, string(bytes.ReplaceAll(got, []byte(CRLF), nil)))

	for _, line := range bytes.Split(bytes.TrimSuffix(got, []byte(CRLF)), []byte(CRLF)) {
		require.LessOrEqual(t, len(line), b64LineLen)
	}
}

func TestB64EncoderCarryAcrossFeedCalls(t *testing.T) {
	full := feedAll(t, newB64Encoder(), []byte("abcdefgh"))

	enc := newB64Encoder()
	var out []byte
	for i := 0; i < len("abcdefgh"); i++ {
		outs, _ := enc.Feed([]byte("abcdefgh"[i : i+1]))
		for _, o := range outs {
			out = append(out, o...)
		}
	}
	outs, _ := enc.Flush()
	for _, o := range outs {
		out = append(out, o...)
	}
	require.Equal(t, string(full), string(out))
}

func TestIdentityEncoderSevenBitRejectsHighOctet(t *testing.T) {
	enc := &identityEncoder{mode: modeSevenBit}
	_, err := enc.Feed([]byte{0xFF})
	require.ErrorIs(t, err, ErrBodyViolatesEncoding)
}

func TestIdentityEncoderRejectsBareLF(t *testing.T) {
	enc := &identityEncoder{mode: modeEightBit}
	_, err := enc.Feed([]byte("a\nb"))
	require.ErrorIs(t, err, ErrBodyViolatesEncoding)
}

func TestIdentityEncoderAcceptsCRLF(t *testing.T) {
	enc := &identityEncoder{mode: modeSevenBit}
	out, err := enc.Feed([]byte("a\r\nb"))
	require.NoError(t, err)
	require.Equal(t, "a\r\nb", string(out[0]))
	_, err = enc.Flush()
	require.NoError(t, err)
}

func TestIdentityEncoderBinaryPassesThroughAnyBytes(t *testing.T) {
	enc := &identityEncoder{mode: modeBinary}
	out, err := enc.Feed([]byte{0x00, 0xFF, '\n'})
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0xFF, '\n'}, out[0])
}
