package dmiparser

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse parses DMI metadata text and returns a Metadata.
// Returns a *LexError, *SyntaxError, or *ValueError on failure; any
// failure anywhere rejects the whole document.
func Parse(src []byte) (*Metadata, error) {
	p := &parser{lex: NewLexer(src)}
	return p.parseDocument()
}

type parser struct {
	lex *Lexer
}

func (p *parser) peek() (Token, error) {
	return p.lex.Peek()
}

func (p *parser) next() (Token, error) {
	return p.lex.Next()
}

func (p *parser) expect(kind TokenKind) (Token, error) {
	tok, err := p.next()
	if err != nil {
		return Token{}, err
	}
	if tok.Kind != kind {
		return Token{}, &SyntaxError{
			ParseError: ParseError{Pos: tok.Pos},
			Expected:   kind.String(),
			Got:        fmt.Sprintf("%s (%q)", tok.Kind, tok.Literal),
		}
	}
	return tok, nil
}

// parseDocument recognizes the whole metadata block: begin marker, header,
// zero-or-more states, end marker. The entire input must be consumed;
// only trailing whitespace after the end marker is discarded.
func (p *parser) parseDocument() (*Metadata, error) {
	if _, err := p.expect(TokenBegin); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenNewline); err != nil {
		return nil, err
	}

	header, err := p.parseHeader()
	if err != nil {
		return nil, err
	}

	var states []*State
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind != TokenIdent {
			break
		}
		state, err := p.parseState()
		if err != nil {
			return nil, err
		}
		states = append(states, state)
	}

	if _, err := p.expect(TokenEnd); err != nil {
		return nil, err
	}

	// Discard trailing whitespace, then require EOF.
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == TokenNewline || tok.Kind == TokenIndent {
			_, _ = p.next()
			continue
		}
		if tok.Kind != TokenEOF {
			return nil, &SyntaxError{
				ParseError: ParseError{Pos: tok.Pos},
				Expected:   "EOF",
				Got:        fmt.Sprintf("%s (%q)", tok.Kind, tok.Literal),
			}
		}
		break
	}

	return &Metadata{Header: *header, States: states}, nil
}

// parseHeader consumes the version introducer line and the header's
// property run, then folds them into a Header.
func (p *parser) parseHeader() (*Header, error) {
	intro, err := p.parseKeyValue()
	if err != nil {
		return nil, err
	}
	if intro.Key != KeyVersion {
		return nil, &SyntaxError{
			ParseError: ParseError{Pos: intro.Pos},
			Expected:   "'version' introducer",
			Got:        fmt.Sprintf("key %q", intro.Name),
		}
	}
	if _, err := p.expect(TokenNewline); err != nil {
		return nil, err
	}

	props, err := p.parseProperties()
	if err != nil {
		return nil, err
	}

	return newHeader(intro, props)
}

// parseState consumes a state introducer line and its property run, then
// folds them into a State.
func (p *parser) parseState() (*State, error) {
	intro, err := p.parseKeyValue()
	if err != nil {
		return nil, err
	}
	if intro.Key != KeyState {
		return nil, &SyntaxError{
			ParseError: ParseError{Pos: intro.Pos},
			Expected:   "'state' introducer",
			Got:        fmt.Sprintf("key %q", intro.Name),
		}
	}
	if _, err := p.expect(TokenNewline); err != nil {
		return nil, err
	}

	props, err := p.parseProperties()
	if err != nil {
		return nil, err
	}

	return newState(intro, props)
}

// parseProperties consumes the indented property lines belonging to the
// current block. Membership is decided by peeking at the next line's
// leading whitespace; a non-indented line ends the run. Every block
// requires at least one property.
func (p *parser) parseProperties() ([]KeyValue, error) {
	var props []KeyValue
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind != TokenIndent {
			break
		}
		_, _ = p.next() // consume indentation

		kv, err := p.parseKeyValue()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenNewline); err != nil {
			return nil, err
		}
		props = append(props, kv)
	}

	if len(props) == 0 {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		return nil, &SyntaxError{
			ParseError: ParseError{Pos: tok.Pos},
			Expected:   "at least one indented property line",
			Got:        fmt.Sprintf("%s (%q)", tok.Kind, tok.Literal),
		}
	}
	return props, nil
}

// parseKeyValue recognizes one '<key> = <value>' pair and coerces it to
// its typed form.
func (p *parser) parseKeyValue() (KeyValue, error) {
	key, err := p.expect(TokenIdent)
	if err != nil {
		return KeyValue{}, err
	}
	if _, err := p.expect(TokenEquals); err != nil {
		return KeyValue{}, err
	}
	val, err := p.parseValue()
	if err != nil {
		return KeyValue{}, err
	}
	return newKeyValue(key.Literal, val, key.Pos)
}

// parseValue recognizes exactly one right-hand-side literal: a quoted
// string, an integer, a float, or a comma-separated list of numbers.
// A lone number is a scalar, never a one-element list; list parsing only
// engages when a separating comma follows the first element.
func (p *parser) parseValue() (Value, error) {
	tok, err := p.next()
	if err != nil {
		return Value{}, err
	}

	switch tok.Kind {
	case TokenString:
		return Value{Kind: ValueString, Str: tok.Literal, Raw: tok.Literal}, nil

	case TokenInteger, TokenFloat:
		sep, err := p.peek()
		if err != nil {
			return Value{}, err
		}
		if sep.Kind == TokenComma {
			return p.parseList(tok)
		}
		return scalarValue(tok)

	default:
		return Value{}, &SyntaxError{
			ParseError: ParseError{Pos: tok.Pos},
			Expected:   "string, number, or list",
			Got:        fmt.Sprintf("%s (%q)", tok.Kind, tok.Literal),
		}
	}
}

// parseList consumes the remaining ',<number>' elements after the first
// numeric token of a list. Every element is parsed with the decimal rule,
// so mixed integer/decimal lists coerce to float uniformly.
func (p *parser) parseList(first Token) (Value, error) {
	elem, err := listElement(first)
	if err != nil {
		return Value{}, err
	}
	list := []float64{elem}
	raw := []string{first.Literal}

	for {
		sep, err := p.peek()
		if err != nil {
			return Value{}, err
		}
		if sep.Kind != TokenComma {
			break
		}
		_, _ = p.next() // consume comma

		tok, err := p.next()
		if err != nil {
			return Value{}, err
		}
		if tok.Kind != TokenInteger && tok.Kind != TokenFloat {
			return Value{}, &SyntaxError{
				ParseError: ParseError{Pos: tok.Pos},
				Expected:   "number after ','",
				Got:        fmt.Sprintf("%s (%q)", tok.Kind, tok.Literal),
			}
		}
		elem, err := listElement(tok)
		if err != nil {
			return Value{}, err
		}
		list = append(list, elem)
		raw = append(raw, tok.Literal)
	}

	return Value{Kind: ValueList, List: list, Raw: strings.Join(raw, ",")}, nil
}

func scalarValue(tok Token) (Value, error) {
	switch tok.Kind {
	case TokenInteger:
		n, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			return Value{}, &ValueError{ParseError{
				Message: fmt.Sprintf("invalid integer %q: %v", tok.Literal, err),
				Pos:     tok.Pos,
				Cause:   err,
			}}
		}
		return Value{Kind: ValueInt, Int: n, Raw: tok.Literal}, nil

	default: // TokenFloat
		f, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return Value{}, &ValueError{ParseError{
				Message: fmt.Sprintf("invalid float %q: %v", tok.Literal, err),
				Pos:     tok.Pos,
				Cause:   err,
			}}
		}
		return Value{Kind: ValueFloat, Float: f, Raw: tok.Literal}, nil
	}
}

func listElement(tok Token) (float64, error) {
	f, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		return 0, &ValueError{ParseError{
			Message: fmt.Sprintf("invalid list element %q: %v", tok.Literal, err),
			Pos:     tok.Pos,
			Cause:   err,
		}}
	}
	return f, nil
}

// newHeader folds the header's property run into a Header. Later
// properties silently overwrite earlier ones for the same field.
func newHeader(intro KeyValue, props []KeyValue) (*Header, error) {
	if intro.Float != 4.0 {
		return nil, &ValueError{ParseError{
			Message: fmt.Sprintf("version %s not supported, only 4.0", strconv.FormatFloat(intro.Float, 'g', -1, 64)),
			Pos:     intro.Pos,
		}}
	}

	h := &Header{Version: intro.Float}
	width, height := -1, -1

	for _, kv := range props {
		switch kv.Key {
		case KeyWidth:
			width = kv.Int
		case KeyHeight:
			height = kv.Int
		case KeyUnknown:
			if h.Unknown == nil {
				h.Unknown = make(map[string]Value)
			}
			h.Unknown[kv.Name] = kv.Raw
		default:
			return nil, notAllowed(kv, "header")
		}
	}

	if width < 0 {
		return nil, missingField("width", "header", intro.Pos)
	}
	if height < 0 {
		return nil, missingField("height", "header", intro.Pos)
	}
	h.Width = width
	h.Height = height
	return h, nil
}

// newState folds a state's property run into a State. Later properties
// silently overwrite earlier ones for the same field.
func newState(intro KeyValue, props []KeyValue) (*State, error) {
	s := &State{Name: intro.Str, Frames: 1}
	dirsSet := false

	for _, kv := range props {
		switch kv.Key {
		case KeyDirs:
			s.Dirs = kv.Dirs
			dirsSet = true
		case KeyFrames:
			s.Frames = kv.Int
		case KeyDelay:
			s.Delays = kv.Floats
		case KeyLoop:
			n := kv.Int
			s.Loop = &n
		case KeyRewind:
			n := kv.Int
			s.Rewind = &n
		case KeyMovement:
			n := kv.Int
			s.Movement = &n
		case KeyHotspot:
			if len(kv.Floats) != 3 {
				return nil, &ValueError{ParseError{
					Message: fmt.Sprintf("hotspot requires exactly 3 values, got %d", len(kv.Floats)),
					Pos:     kv.Pos,
				}}
			}
			var buf [3]float64
			copy(buf[:], kv.Floats)
			s.Hotspot = &buf
		case KeyUnknown:
			if s.Unknown == nil {
				s.Unknown = make(map[string]Value)
			}
			s.Unknown[kv.Name] = kv.Raw
		default:
			return nil, notAllowed(kv, "state")
		}
	}

	if !dirsSet {
		return nil, missingField("dirs", "state", intro.Pos)
	}
	return s, nil
}

func notAllowed(kv KeyValue, block string) error {
	return &ValueError{ParseError{
		Message: fmt.Sprintf("key %q is not allowed in a %s block", kv.Name, block),
		Pos:     kv.Pos,
	}}
}

func missingField(field, block string, pos Position) error {
	return &ValueError{ParseError{
		Message: fmt.Sprintf("required field %q missing from %s block", field, block),
		Pos:     pos,
	}}
}
