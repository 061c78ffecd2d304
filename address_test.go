package mailkit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMailboxFormatBareAddress(t *testing.T) {
	m := NewMailbox("nobody", "domain.tld")
	s, err := m.format()
	require.NoError(t, err)
	require.Equal(t, "nobody@domain.tld", s)
}

func TestMailboxFormatUnquotedName(t *testing.T) {
	m := NewMailbox("nobody", "domain.tld").WithName("NoBody")
	s, err := m.format()
	require.NoError(t, err)
	require.Equal(t, "NoBody <nobody@domain.tld>", s)
}

func TestMailboxFormatQuotesSpecialName(t *testing.T) {
	m := NewMailbox("nobody", "domain.tld").WithName(`Last, First`)
	s, err := m.format()
	require.NoError(t, err)
	require.Equal(t, `"Last, First" <nobody@domain.tld>`, s)
}

func TestMailboxFormatEncodesNonASCIIName(t *testing.T) {
	m := NewMailbox("yuin", "domain.tld").WithName("Юин")
	s, err := m.format()
	require.NoError(t, err)
	require.Contains(t, s, "=?utf-8?")
	require.Contains(t, s, "<yuin@domain.tld>")
}

func TestMailboxFormatIDNADomain(t *testing.T) {
	m := NewMailbox("user", "münchen.de")
	s, err := m.format()
	require.NoError(t, err)
	require.Contains(t, s, "@xn--mnchen-3ya.de")
}

func TestMailboxFormatInvalidDomain(t *testing.T) {
	m := NewMailbox("user", "not a domain")
	_, err := m.format()
	require.ErrorIs(t, err, ErrInvalidDomain)
}

func TestParseMailboxNameAndAngleAddr(t *testing.T) {
	m, err := ParseMailbox("NoBody <nobody@domain.tld>")
	require.NoError(t, err)
	require.Equal(t, "NoBody", m.Name)
	require.Equal(t, "nobody", m.Local)
	require.Equal(t, "domain.tld", m.Domain)
}

func TestParseMailboxBareAddrSpec(t *testing.T) {
	m, err := ParseMailbox("hei@domain.tld")
	require.NoError(t, err)
	require.Equal(t, "", m.Name)
	require.Equal(t, "hei", m.Local)
	require.Equal(t, "domain.tld", m.Domain)
}

func TestParseMailboxQuotedName(t *testing.T) {
	m, err := ParseMailbox(`"Last, First" <user@domain.tld>`)
	require.NoError(t, err)
	require.Equal(t, "Last, First", m.Name)
}

func TestParseMailboxMissingAtRejected(t *testing.T) {
	_, err := ParseMailbox("not-an-address")
	require.ErrorIs(t, err, ErrInvalidAddress)
}
