package dmiparser

import (
	"fmt"
	"strings"
)

// Lexer tokenizes DMI metadata text into a stream of tokens.
//
// Unlike a free-form lexer, whitespace is significant here: indentation at
// the start of a line is its own token (it decides block membership), and
// the only legal mid-line whitespace is the exact " = " separator.
type Lexer struct {
	src    []byte
	pos    int // current byte offset
	line   int // current line (1-based)
	col    int // current column (1-based)
	peeked *Token
}

// NewLexer creates a new Lexer for the given source bytes.
func NewLexer(src []byte) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() (Token, error) {
	if l.peeked != nil {
		return *l.peeked, nil
	}
	tok, err := l.scan()
	if err != nil {
		return Token{}, err
	}
	l.peeked = &tok
	return tok, nil
}

// Next returns the next token and advances the lexer.
func (l *Lexer) Next() (Token, error) {
	if l.peeked != nil {
		tok := *l.peeked
		l.peeked = nil
		return tok, nil
	}
	return l.scan()
}

func (l *Lexer) currentPos() Position {
	return Position{Line: l.line, Column: l.col, Offset: l.pos}
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.src)
}

func (l *Lexer) peek() byte {
	if l.atEnd() {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) advance() byte {
	ch := l.src[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

func (l *Lexer) scan() (Token, error) {
	if l.atEnd() {
		return Token{Kind: TokenEOF, Pos: l.currentPos()}, nil
	}

	pos := l.currentPos()
	ch := l.peek()

	if ch == '\n' {
		l.advance()
		return Token{Kind: TokenNewline, Literal: "\n", Pos: pos}, nil
	}

	// Line-start forms: marker lines and indentation.
	if pos.Column == 1 {
		switch {
		case ch == '#':
			return l.scanMarker()
		case ch == ' ' || ch == '\t':
			start := l.pos
			for !l.atEnd() && (l.peek() == ' ' || l.peek() == '\t') {
				l.advance()
			}
			return Token{Kind: TokenIndent, Literal: string(l.src[start:l.pos]), Pos: pos}, nil
		}
	}

	switch {
	case ch == ' ':
		// Mid-line whitespace is only legal as the " = " separator.
		if l.pos+2 < len(l.src) && l.src[l.pos+1] == '=' && l.src[l.pos+2] == ' ' {
			l.advance()
			l.advance()
			l.advance()
			return Token{Kind: TokenEquals, Literal: " = ", Pos: pos}, nil
		}
		return Token{}, &LexError{ParseError{
			Message: "expected the ' = ' separator (single space padding)",
			Pos:     pos,
		}}

	case ch == '=':
		return Token{}, &LexError{ParseError{
			Message: "'=' must be padded by exactly one space on each side",
			Pos:     pos,
		}}

	case ch == ',':
		l.advance()
		return Token{Kind: TokenComma, Literal: ",", Pos: pos}, nil

	case ch == '"':
		return l.scanString()

	case ch == '-' || isDigit(ch):
		return l.scanNumber()

	case isAlpha(ch):
		return l.scanIdentifier()
	}

	l.advance()
	return Token{}, &LexError{ParseError{
		Message: fmt.Sprintf("unexpected character %q", ch),
		Pos:     pos,
	}}
}

// scanMarker scans a '#' line, which must be exactly one of the two block
// markers (trailing horizontal whitespace tolerated).
func (l *Lexer) scanMarker() (Token, error) {
	pos := l.currentPos()
	start := l.pos

	for !l.atEnd() && l.peek() != '\n' {
		l.advance()
	}

	line := strings.TrimRight(string(l.src[start:l.pos]), " \t")
	switch line {
	case "# BEGIN DMI":
		return Token{Kind: TokenBegin, Literal: line, Pos: pos}, nil
	case "# END DMI":
		return Token{Kind: TokenEnd, Literal: line, Pos: pos}, nil
	}

	return Token{}, &LexError{ParseError{
		Message: fmt.Sprintf("malformed marker line %q", line),
		Pos:     pos,
	}}
}

// scanString scans a quoted string. There is no escape processing beyond
// delimiter matching: every byte up to the next '"' is taken literally.
func (l *Lexer) scanString() (Token, error) {
	pos := l.currentPos()
	l.advance() // consume opening "

	start := l.pos
	for {
		if l.atEnd() {
			return Token{}, &LexError{ParseError{
				Message: "unterminated string",
				Pos:     pos,
			}}
		}
		if l.peek() == '"' {
			literal := string(l.src[start:l.pos])
			l.advance() // consume closing "
			return Token{Kind: TokenString, Literal: literal, Pos: pos}, nil
		}
		l.advance()
	}
}

func (l *Lexer) scanNumber() (Token, error) {
	pos := l.currentPos()
	start := l.pos

	// Optional negative sign
	if l.peek() == '-' {
		l.advance()
	}

	digits := 0
	for !l.atEnd() && isDigit(l.peek()) {
		l.advance()
		digits++
	}
	if digits == 0 {
		return Token{}, &LexError{ParseError{
			Message: "malformed number: no digits after '-'",
			Pos:     pos,
		}}
	}

	isFloat := false
	// Check for decimal point
	if !l.atEnd() && l.peek() == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1]) {
		isFloat = true
		l.advance() // consume '.'
		for !l.atEnd() && isDigit(l.peek()) {
			l.advance()
		}
	}

	literal := string(l.src[start:l.pos])

	if isFloat {
		return Token{Kind: TokenFloat, Literal: literal, Pos: pos}, nil
	}
	return Token{Kind: TokenInteger, Literal: literal, Pos: pos}, nil
}

func (l *Lexer) scanIdentifier() (Token, error) {
	pos := l.currentPos()
	start := l.pos

	for !l.atEnd() && isAlpha(l.peek()) {
		l.advance()
	}

	return Token{Kind: TokenIdent, Literal: string(l.src[start:l.pos]), Pos: pos}, nil
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
