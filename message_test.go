package mailkit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMessageBuilderPlainBody(t *testing.T) {
	// spec.md §8 S1, adjusted per DESIGN.md Open Question 4: the
	// caller-supplied headers and body must appear verbatim and in
	// order; Date/Message-ID are auto-populated afterwards.
	msg, err := NewMessage().
		From(NewMailbox("nobody", "domain.tld").WithName("NoBody")).
		ReplyTo(NewMailbox("yuin", "domain.tld").WithName("Yuin")).
		To(NewMailbox("hei", "domain.tld").WithName("Hei")).
		Subject("Happy new year").
		Body("Be happy!")
	require.NoError(t, err)

	out, err := msg.Bytes()
	require.NoError(t, err)
	s := string(out)

	want := "From: NoBody <nobody@domain.tld>\r\n" +
		"Reply-To: Yuin <yuin@domain.tld>\r\n" +
		"To: Hei <hei@domain.tld>\r\n" +
		"Subject: Happy new year\r\n"
	require.True(t, strings.HasPrefix(s, want), "got: %s", s)

	headerBlock, body, found := strings.Cut(s, CRLF+CRLF)
	require.True(t, found)
	require.Equal(t, "Be happy!", body)
	require.Contains(t, headerBlock, "Date: ")
	require.Contains(t, headerBlock, "Message-ID: ")
	require.NotContains(t, headerBlock, "Content-Type")
}

func TestMessageBuilderBodyRejectsSecondCall(t *testing.T) {
	// spec.md §4.8/§7: calling both body and mime_body on one builder
	// is ErrBodyAlreadySet, regardless of order.
	b := NewMessage().From(NewMailbox("a", "domain.tld"))
	_, err := b.Body("first")
	require.NoError(t, err)

	_, err = b.MimeBody(SevenBit(NewTextPayload("second")))
	require.ErrorIs(t, err, ErrBodyAlreadySet)

	b2 := NewMessage().From(NewMailbox("a", "domain.tld"))
	_, err = b2.MimeBody(SevenBit(NewTextPayload("first")))
	require.NoError(t, err)

	_, err = b2.Body("second")
	require.ErrorIs(t, err, ErrBodyAlreadySet)
}

func TestMessageBuilderMimeBodySetsMimeVersion(t *testing.T) {
	part := QuotedPrintable(NewTextPayload("hello"))
	part.Headers.Set(HeaderContentType, ContentType("text", "plain"))

	msg, err := NewMessage().From(NewMailbox("a", "domain.tld")).MimeBody(part)
	require.NoError(t, err)

	out, err := msg.Bytes()
	require.NoError(t, err)
	require.Contains(t, string(out), "MIME-Version: 1.0\r\n")
}

func TestMessageEnsureDefaultsIsIdempotent(t *testing.T) {
	msg, err := NewMessage().From(NewMailbox("a", "domain.tld")).Body("hi")
	require.NoError(t, err)

	first, err := msg.Bytes()
	require.NoError(t, err)
	second, err := msg.Bytes()
	require.NoError(t, err)
	require.Equal(t, string(first), string(second), "Date/Message-ID are populated once and then reused")
}

func TestGenerateMessageIDLooksLikeAnAddrSpecToken(t *testing.T) {
	id := generateMessageID()
	require.True(t, strings.HasPrefix(id, "<"))
	require.True(t, strings.HasSuffix(id, ">"))
	require.Contains(t, id, "@")
}
