package dmiparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectTokens(t *testing.T, src string) []Token {
	t.Helper()
	lex := NewLexer([]byte(src))
	var tokens []Token
	for {
		tok, err := lex.Next()
		require.NoError(t, err)
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
	return tokens
}

func TestLexerMarkers(t *testing.T) {
	tokens := collectTokens(t, "# BEGIN DMI\n# END DMI")
	expected := []TokenKind{TokenBegin, TokenNewline, TokenEnd, TokenEOF}
	require.Len(t, tokens, len(expected))
	for i, tok := range tokens {
		assert.Equal(t, expected[i], tok.Kind, "token %d", i)
	}
	assert.Equal(t, "# BEGIN DMI", tokens[0].Literal)
	assert.Equal(t, "# END DMI", tokens[2].Literal)
}

func TestLexerMarkerTrailingWhitespace(t *testing.T) {
	tokens := collectTokens(t, "# END DMI  \t")
	require.Len(t, tokens, 2)
	assert.Equal(t, TokenEnd, tokens[0].Kind)
}

func TestLexerMalformedMarker(t *testing.T) {
	for _, src := range []string{"# BEGIN\n", "# BEGIN DMI extra\n", "#BEGIN DMI\n", "# end dmi\n"} {
		lex := NewLexer([]byte(src))
		_, err := lex.Next()
		require.Error(t, err, "input: %s", src)
		assert.IsType(t, &LexError{}, err, "input: %s", src)
	}
}

func TestLexerKeyValueLine(t *testing.T) {
	tokens := collectTokens(t, "width = 32\n")
	expected := []TokenKind{TokenIdent, TokenEquals, TokenInteger, TokenNewline, TokenEOF}
	require.Len(t, tokens, len(expected))
	for i, tok := range tokens {
		assert.Equal(t, expected[i], tok.Kind, "token %d", i)
	}
	assert.Equal(t, "width", tokens[0].Literal)
	assert.Equal(t, "32", tokens[2].Literal)
}

func TestLexerIndentation(t *testing.T) {
	tokens := collectTokens(t, "    dirs = 4")
	require.Len(t, tokens, 5) // indent, ident, equals, integer, EOF
	assert.Equal(t, TokenIndent, tokens[0].Kind)
	assert.Equal(t, "    ", tokens[0].Literal)
	assert.Equal(t, "dirs", tokens[1].Literal)
}

func TestLexerTabIndentation(t *testing.T) {
	tokens := collectTokens(t, "\tdirs = 4")
	require.Len(t, tokens, 5)
	assert.Equal(t, TokenIndent, tokens[0].Kind)
	assert.Equal(t, "\t", tokens[0].Literal)
}

func TestLexerSeparatorExact(t *testing.T) {
	// Anything other than exactly " = " mid-line is a lex error.
	tests := []string{
		"width= 32",
		"width =32",
		"width  =  32",
		"width\t= 32",
		"width 32",
	}
	for _, src := range tests {
		lex := NewLexer([]byte(src))
		var err error
		for err == nil {
			var tok Token
			tok, err = lex.Next()
			if err == nil && tok.Kind == TokenEOF {
				break
			}
		}
		require.Error(t, err, "input: %q", src)
		assert.IsType(t, &LexError{}, err, "input: %q", src)
	}
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		input   string
		literal string
	}{
		{`"meow"`, "meow"},
		{`""`, ""},
		{`"has spaces"`, "has spaces"},
		// No escape processing: the backslash is a literal byte and the
		// next '"' still terminates the string.
		{`"a\b"`, `a\b`},
	}
	for _, tt := range tests {
		lex := NewLexer([]byte("x = " + tt.input))
		for i := 0; i < 2; i++ {
			_, err := lex.Next() // ident, equals
			require.NoError(t, err, "input: %s", tt.input)
		}
		tok, err := lex.Next()
		require.NoError(t, err, "input: %s", tt.input)
		assert.Equal(t, TokenString, tok.Kind, "input: %s", tt.input)
		assert.Equal(t, tt.literal, tok.Literal, "input: %s", tt.input)
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	lex := NewLexer([]byte(`"meow`))
	_, err := lex.Next()
	require.Error(t, err)
	assert.IsType(t, &LexError{}, err)
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"0", TokenInteger},
		{"42", TokenInteger},
		{"-7", TokenInteger},
		{"4.0", TokenFloat},
		{"1.2", TokenFloat},
		{"-3.14", TokenFloat},
	}
	for _, tt := range tests {
		tokens := collectTokens(t, tt.input)
		require.Len(t, tokens, 2, "input: %s", tt.input)
		assert.Equal(t, tt.kind, tokens[0].Kind, "input: %s", tt.input)
		assert.Equal(t, tt.input, tokens[0].Literal, "input: %s", tt.input)
	}
}

func TestLexerBareMinusSign(t *testing.T) {
	lex := NewLexer([]byte("x = -"))
	for i := 0; i < 2; i++ {
		_, err := lex.Next()
		require.NoError(t, err)
	}
	_, err := lex.Next()
	require.Error(t, err)
	assert.IsType(t, &LexError{}, err)
}

func TestLexerList(t *testing.T) {
	tokens := collectTokens(t, "1,2,5.4")
	expected := []TokenKind{
		TokenInteger, TokenComma, TokenInteger, TokenComma, TokenFloat, TokenEOF,
	}
	require.Len(t, tokens, len(expected))
	for i, tok := range tokens {
		assert.Equal(t, expected[i], tok.Kind, "token %d", i)
	}
}

func TestLexerPosition(t *testing.T) {
	tokens := collectTokens(t, "a = 1\n    b = 2")
	// a, equals, 1, newline, indent, b, equals, 2, EOF
	require.Len(t, tokens, 9)
	assert.Equal(t, 1, tokens[0].Pos.Line)
	assert.Equal(t, 1, tokens[0].Pos.Column)
	assert.Equal(t, 2, tokens[4].Pos.Line)
	assert.Equal(t, 1, tokens[4].Pos.Column)
	assert.Equal(t, 2, tokens[5].Pos.Line)
	assert.Equal(t, 5, tokens[5].Pos.Column)
}

func TestLexerPeek(t *testing.T) {
	lex := NewLexer([]byte("a = 1"))

	tok, err := lex.Peek()
	require.NoError(t, err)
	assert.Equal(t, "a", tok.Literal)

	tok2, err := lex.Peek()
	require.NoError(t, err)
	assert.Equal(t, tok, tok2)

	tok3, err := lex.Next()
	require.NoError(t, err)
	assert.Equal(t, "a", tok3.Literal)

	tok4, err := lex.Next()
	require.NoError(t, err)
	assert.Equal(t, TokenEquals, tok4.Kind)
}

func TestLexerEmpty(t *testing.T) {
	tokens := collectTokens(t, "")
	require.Len(t, tokens, 1)
	assert.Equal(t, TokenEOF, tokens[0].Kind)
}

func TestLexerInvalidChar(t *testing.T) {
	lex := NewLexer([]byte("state_name = 1"))
	_, err := lex.Next() // "state"
	require.NoError(t, err)
	_, err = lex.Next() // '_' is not a key character
	require.Error(t, err)
	assert.IsType(t, &LexError{}, err)
}

func TestLexerCarriageReturnRejected(t *testing.T) {
	lex := NewLexer([]byte("a = 1\r\n"))
	var err error
	for err == nil {
		var tok Token
		tok, err = lex.Next()
		if err == nil && tok.Kind == TokenEOF {
			t.Fatal("expected a lex error for carriage return")
		}
	}
	assert.IsType(t, &LexError{}, err)
}
