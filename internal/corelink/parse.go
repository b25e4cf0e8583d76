package corelink

import (
	"fmt"
	"strings"
)

// ParseError reports a malformed link-format document.
type ParseError struct {
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("link-format: %s at offset %d", e.Msg, e.Offset)
}

// Parse decodes a link-format document into its links. An empty or
// whitespace-only document yields an empty list.
func Parse(data []byte) ([]Link, error) {
	p := &parser{in: string(data)}
	var links []Link
	p.skipSpace()
	if p.eof() {
		return links, nil
	}
	for {
		link, err := p.linkValue()
		if err != nil {
			return nil, err
		}
		links = append(links, link)
		p.skipSpace()
		if p.eof() {
			return links, nil
		}
		if !p.consume(',') {
			return nil, p.errorf("expected ',' between links")
		}
		p.skipSpace()
	}
}

type parser struct {
	in  string
	pos int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.in)
}

func (p *parser) consume(c byte) bool {
	if p.eof() || p.in[p.pos] != c {
		return false
	}
	p.pos++
	return true
}

func (p *parser) skipSpace() {
	for !p.eof() && (p.in[p.pos] == ' ' || p.in[p.pos] == '\t' || p.in[p.pos] == '\r' || p.in[p.pos] == '\n') {
		p.pos++
	}
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

// linkValue parses "<" URI-Reference ">" *( ";" link-param ).
func (p *parser) linkValue() (Link, error) {
	if !p.consume('<') {
		return Link{}, p.errorf("expected '<'")
	}
	start := p.pos
	for !p.eof() && p.in[p.pos] != '>' {
		p.pos++
	}
	if p.eof() {
		return Link{}, p.errorf("unterminated URI reference")
	}
	link := Link{Target: p.in[start:p.pos], Attrs: map[string]string{}}
	p.pos++

	for {
		p.skipSpace()
		if !p.consume(';') {
			return link, nil
		}
		p.skipSpace()
		name, value, err := p.param()
		if err != nil {
			return Link{}, err
		}
		if _, dup := link.Attrs[name]; !dup {
			link.Attrs[name] = value
		}
	}
}

// param parses parmname [ "=" ( quoted-string / ptoken ) ].
func (p *parser) param() (string, string, error) {
	start := p.pos
	for !p.eof() && !strings.ContainsRune("=;, \t\r\n", rune(p.in[p.pos])) {
		p.pos++
	}
	name := p.in[start:p.pos]
	if name == "" {
		return "", "", p.errorf("empty parameter name")
	}
	p.skipSpace()
	if !p.consume('=') {
		return name, "", nil
	}
	p.skipSpace()
	if p.eof() {
		return "", "", p.errorf("parameter %q has no value", name)
	}
	if p.in[p.pos] == '"' {
		value, err := p.quotedString()
		if err != nil {
			return "", "", err
		}
		return name, value, nil
	}
	vstart := p.pos
	for !p.eof() && !strings.ContainsRune(";, \t\r\n", rune(p.in[p.pos])) {
		p.pos++
	}
	value := p.in[vstart:p.pos]
	if value == "" {
		return "", "", p.errorf("parameter %q has no value", name)
	}
	return name, value, nil
}

// quotedString parses a double-quoted string with backslash escapes
// and returns the unescaped value.
func (p *parser) quotedString() (string, error) {
	p.pos++
	var b strings.Builder
	for !p.eof() {
		c := p.in[p.pos]
		switch c {
		case '"':
			p.pos++
			return b.String(), nil
		case '\\':
			p.pos++
			if p.eof() {
				return "", p.errorf("dangling escape in quoted string")
			}
			b.WriteByte(p.in[p.pos])
			p.pos++
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", p.errorf("unterminated quoted string")
}
