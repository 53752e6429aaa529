// Package dmiparser implements a parser for the DMI metadata block.
//
// DMI icon files (the BYOND sprite-sheet format) embed a text block that
// describes the sheet: a header with the format version and canvas
// dimensions, followed by zero or more animation states, each with a
// direction count, frame count, per-frame delays, and playback flags.
// This package turns that text into typed records; extracting the text
// from the PNG container is the dmi package's job.
//
// The parser is structured as a hand-rolled recursive-descent parser with
// three layers:
//
//   - Lexer: converts raw bytes into a token stream. Whitespace is
//     significant: leading indentation marks property lines and the
//     key/value separator is the exact literal " = ".
//   - Parser: consumes tokens according to the grammar, coerces each
//     key = value pair to its typed form, and folds property runs into
//     Header and State records.
//   - Output types: Metadata, Header, State, and the Value union kept for
//     unrecognized keys.
//
// Usage:
//
//	meta, err := dmiparser.Parse(src)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(meta.Header.Width, len(meta.States))
//
// Only metadata version 4.0 is supported. Any malformed line aborts the
// whole parse with a positioned error; there is no recovery or partial
// result. Parse holds no shared state and is safe to call concurrently.
package dmiparser
