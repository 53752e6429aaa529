package dmiparser

// TokenKind identifies the type of a lexical token.
type TokenKind int

const (
	TokenEOF     TokenKind = iota
	TokenBegin             // the "# BEGIN DMI" marker line
	TokenEnd               // the "# END DMI" marker line
	TokenIndent            // one-or-more spaces/tabs at the start of a line
	TokenIdent             // [A-Za-z]+ key name
	TokenEquals            // the exact separator " = "
	TokenString            // "..." with no escape processing
	TokenInteger           // -?[0-9]+
	TokenFloat             // -?[0-9]+.[0-9]+
	TokenComma             // ,
	TokenNewline           // \n
)

var tokenNames = map[TokenKind]string{
	TokenEOF:     "EOF",
	TokenBegin:   "'# BEGIN DMI'",
	TokenEnd:     "'# END DMI'",
	TokenIndent:  "indentation",
	TokenIdent:   "key",
	TokenEquals:  "' = '",
	TokenString:  "string",
	TokenInteger: "integer",
	TokenFloat:   "float",
	TokenComma:   "','",
	TokenNewline: "newline",
}

func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return "unknown"
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Kind    TokenKind
	Literal string // text content (decoded for strings, raw for others)
	Pos     Position
}
