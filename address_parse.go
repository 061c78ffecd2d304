package mailkit

import (
	"fmt"
	"strings"
)

// addrParser is a small byte-cursor state machine for RFC 5322 address
// parsing, grounded on the same cursor shape (next/ch/pos with
// explicit error sentinels) as flashmob-go-guerrilla/mail/rfc5321's
// hand-rolled address grammar parser, rather than a regular
// expression.
type addrParser struct {
	buf []byte
	pos int
	ch  byte
}

func newAddrParser(s string) *addrParser {
	p := &addrParser{buf: []byte(s), pos: -1}
	p.next()
	return p
}

func (p *addrParser) next() {
	p.pos++
	if p.pos >= len(p.buf) {
		p.ch = 0
		return
	}
	p.ch = p.buf[p.pos]
}

func (p *addrParser) skipSpace() {
	for p.ch == ' ' || p.ch == '\t' {
		p.next()
	}
}

// ParseMailbox parses "Name <local@domain>" or a bare "local@domain"
// (liberal accept, spec.md §4.3). The domain is validated through
// IDNA-ToASCII; a failure there surfaces as ErrInvalidDomain.
func ParseMailbox(s string) (Mailbox, error) {
	trimmed := strings.TrimSpace(s)
	p := newAddrParser(trimmed)
	p.skipSpace()

	var name string
	switch {
	case p.ch == '"':
		n, err := p.quotedString()
		if err != nil {
			return Mailbox{}, err
		}
		name = n
		p.skipSpace()
	case strings.ContainsRune(trimmed, '<'):
		angle := strings.IndexByte(trimmed, '<')
		name = strings.TrimSpace(trimmed[:angle])
		p = newAddrParser(trimmed[angle:])
	}

	if p.ch == '<' {
		p.next()
	}
	local, domain, err := p.addrSpec()
	if err != nil {
		return Mailbox{}, err
	}
	p.skipSpace()
	if p.ch == '>' {
		p.next()
	}

	if _, err := idnaToASCII(domain); err != nil {
		return Mailbox{}, err
	}
	return Mailbox{Name: name, Local: local, Domain: domain}, nil
}

func (p *addrParser) quotedString() (string, error) {
	p.next() // consume opening quote
	var b strings.Builder
	for {
		if p.ch == 0 {
			return "", fmt.Errorf("mailkit: unterminated quoted string in %q: %w", string(p.buf), ErrInvalidAddress)
		}
		if p.ch == '"' {
			p.next()
			break
		}
		if p.ch == '\\' {
			p.next()
			if p.ch == 0 {
				return "", fmt.Errorf("mailkit: unterminated quoted string in %q: %w", string(p.buf), ErrInvalidAddress)
			}
		}
		b.WriteByte(p.ch)
		p.next()
	}
	return b.String(), nil
}

func (p *addrParser) addrSpec() (local, domain string, err error) {
	start := p.pos
	for p.ch != 0 && p.ch != '@' && p.ch != '>' && p.ch != ' ' {
		p.next()
	}
	local = string(p.buf[start:p.pos])
	if p.ch != '@' {
		return "", "", fmt.Errorf("mailkit: missing '@' in address %q: %w", string(p.buf), ErrInvalidAddress)
	}
	p.next() // consume '@'
	dstart := p.pos
	for p.ch != 0 && p.ch != '>' && p.ch != ' ' {
		p.next()
	}
	domain = string(p.buf[dstart:p.pos])
	if local == "" || domain == "" {
		return "", "", fmt.Errorf("mailkit: empty local or domain part in %q: %w", string(p.buf), ErrInvalidAddress)
	}
	return local, domain, nil
}
