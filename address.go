package mailkit

import (
	"fmt"

	"golang.org/x/net/idna"
	"golang.org/x/text/unicode/norm"
)

// Mailbox is a typed email address (spec.md §3 C3). Domain is kept in
// its original Unicode form and IDNA-converted to an ASCII A-label
// only when the mailbox is formatted for the wire; Local is preserved
// verbatim.
type Mailbox struct {
	Name   string
	Local  string
	Domain string
}

// NewMailbox builds an address-only Mailbox.
func NewMailbox(local, domain string) Mailbox {
	return Mailbox{Local: local, Domain: domain}
}

// WithName returns a copy of m with Name set.
func (m Mailbox) WithName(name string) Mailbox {
	m.Name = name
	return m
}

// MailboxList is an ordered sequence of Mailbox (spec.md §3).
type MailboxList []Mailbox

func (m Mailbox) asciiDomain() (string, error) {
	return idnaToASCII(m.Domain)
}

// format renders the mailbox per spec.md §4.3: bare "local@domain"
// when Name is empty, "Name <local@domain>" when Name is ASCII-safe,
// a quoted display name when it's ASCII but needs quoting, and an
// RFC 2047 encoded-word display name otherwise.
func (m Mailbox) format() (string, error) {
	domain, err := m.asciiDomain()
	if err != nil {
		return "", err
	}
	addrSpec := m.Local + "@" + domain
	if m.Name == "" {
		return addrSpec, nil
	}
	name := norm.NFC.String(m.Name)
	switch {
	case isASCIIAtomSafe(name):
		return name + " <" + addrSpec + ">", nil
	case isASCII(name):
		return quoteString(name) + " <" + addrSpec + ">", nil
	default:
		return EncodeWord("utf-8", name) + " <" + addrSpec + ">", nil
	}
}

func idnaToASCII(domain string) (string, error) {
	ascii, err := idna.Lookup.ToASCII(domain)
	if err != nil {
		return "", fmt.Errorf("mailkit: domain %q: %w", domain, ErrInvalidDomain)
	}
	return ascii, nil
}
