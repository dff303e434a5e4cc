package sexp

import (
	"fmt"
	"unicode"

	"github.com/Logicalshift/safas/pkg/source"
)

// structural characters which terminate a bare symbol token and, outside of
// a string literal, carry bracket/list meaning of their own.
func isStructural(r rune) bool {
	switch r {
	case '(', ')', '{', '}', '<', '>':
		return true
	default:
		return false
	}
}

// Parse reads every top-level form out of a source file, in the style of the
// teacher's sexp.ParseAll: parsing continues after the first form rather
// than erroring on trailing content.
func Parse(file *source.File) ([]Node, *source.Map[Node], *source.SyntaxError) {
	p := newParser(file)

	var forms []Node

	for {
		form, err := p.parseForm()
		if err != nil {
			return forms, p.srcmap, err
		}

		if form == nil {
			return forms, p.srcmap, nil
		}

		forms = append(forms, form)
	}
}

type parser struct {
	file   *source.File
	text   []rune
	index  int
	srcmap *source.Map[Node]
}

func newParser(file *source.File) *parser {
	return &parser{
		file:   file,
		text:   file.Contents(),
		index:  0,
		srcmap: source.NewMap[Node](file),
	}
}

func (p *parser) parseForm() (Node, *source.SyntaxError) {
	p.skipWhitespace()
	start := p.index

	if p.index >= len(p.text) {
		return nil, nil
	}

	r := p.text[p.index]

	switch {
	case r == ')':
		return nil, p.errorf("unexpected ')'")
	case r == '}':
		return nil, p.errorf("unexpected '}'")
	case r == '>':
		return nil, p.errorf("unexpected '>'")
	case r == '(':
		p.index++

		elements, err := p.parseSequence(')')
		if err != nil {
			return nil, err
		}

		return p.register(NewList(elements), start), nil
	case r == '{':
		p.index++

		inner, err := p.parseForm()
		if err != nil {
			return nil, err
		} else if inner == nil {
			return nil, p.errorf("unexpected end-of-file inside '{...}'")
		}

		if err := p.expect('}'); err != nil {
			return nil, err
		}

		return p.register(&Capture{Kind: Curly, Inner: inner}, start), nil
	case r == '<':
		if p.lookaheadIs(1, '<') {
			p.index += 2
			return p.register(NewAtom("<"), start), nil
		}

		p.index++

		inner, err := p.parseForm()
		if err != nil {
			return nil, err
		} else if inner == nil {
			return nil, p.errorf("unexpected end-of-file inside '<...>'")
		}

		if err := p.expect('>'); err != nil {
			return nil, err
		}

		return p.register(&Capture{Kind: Angle, Inner: inner}, start), nil
	case r == '"':
		atom, err := p.parseString()
		if err != nil {
			return nil, err
		}

		return p.register(atom, start), nil
	default:
		atom := p.parseAtom()
		return p.register(atom, start), nil
	}
}

func (p *parser) register(n Node, start int) Node {
	p.srcmap.Put(n, source.NewSpan(start, p.index))
	return n
}

func (p *parser) parseSequence(terminator rune) ([]Node, *source.SyntaxError) {
	var elements []Node

	for {
		p.skipWhitespace()

		if p.index >= len(p.text) {
			return nil, p.errorf("unexpected end-of-file, expected '%c'", terminator)
		}

		if p.text[p.index] == terminator {
			p.index++
			return elements, nil
		}

		element, err := p.parseForm()
		if err != nil {
			return nil, err
		}

		elements = append(elements, element)
	}
}

func (p *parser) expect(r rune) *source.SyntaxError {
	p.skipWhitespace()

	if p.index >= len(p.text) || p.text[p.index] != r {
		return p.errorf("expected '%c'", r)
	}

	p.index++

	return nil
}

func (p *parser) parseString() (Node, *source.SyntaxError) {
	start := p.index
	p.index++ // consume opening quote

	var runes []rune

	for {
		if p.index >= len(p.text) {
			p.index = start
			return nil, p.errorf("unterminated string literal")
		}

		r := p.text[p.index]

		switch r {
		case '"':
			p.index++
			return NewStringAtom(string(runes)), nil
		case '\\':
			p.index++

			if p.index >= len(p.text) {
				return nil, p.errorf("unterminated escape sequence")
			}

			escaped, err := p.unescape()
			if err != nil {
				return nil, err
			}

			runes = append(runes, escaped)
		default:
			runes = append(runes, r)
			p.index++
		}
	}
}

func (p *parser) unescape() (rune, *source.SyntaxError) {
	r := p.text[p.index]
	p.index++

	switch r {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	case '0':
		return 0, nil
	case '\\', '"':
		return r, nil
	default:
		p.index--
		return 0, p.errorf("unknown escape sequence '\\%c'", r)
	}
}

func (p *parser) parseAtom() Node {
	start := p.index

	for p.index < len(p.text) {
		r := p.text[p.index]
		if unicode.IsSpace(r) || isStructural(r) || r == '"' || r == ';' {
			break
		}

		p.index++
	}

	return NewAtom(string(p.text[start:p.index]))
}

func (p *parser) skipWhitespace() {
	for p.index < len(p.text) {
		r := p.text[p.index]

		switch {
		case r == ';':
			for p.index < len(p.text) && p.text[p.index] != '\n' {
				p.index++
			}
		case unicode.IsSpace(r):
			p.index++
		default:
			return
		}
	}
}

func (p *parser) lookaheadIs(offset int, r rune) bool {
	i := p.index + offset
	return i < len(p.text) && p.text[i] == r
}

func (p *parser) errorf(format string, args ...interface{}) *source.SyntaxError {
	span := source.NewSpan(p.index, p.index+1)
	return p.file.SyntaxError(span, fmt.Sprintf(format, args...))
}
