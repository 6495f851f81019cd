// Package parser provides a resumable, error-tolerant parser for Python
// source code.
//
// # Overview
//
// Parse turns a UTF-8 source buffer into a concrete syntax tree whose
// named nodes follow the rule table of package grammar. Any valid UTF-8
// input yields a tree: text that does not fit the grammar is wrapped in
// ERROR nodes and reported as diagnostics. The tree can be brought up to
// date after an edit with Reparse, which only rescans the top-level
// statements the edit can have touched.
//
// # Architecture
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Source    │────▶│   Scanner   │────▶│   Chunker   │
//	│  (bytes)    │     │  (tokens)   │     │ (statements)│
//	└─────────────┘     └─────────────┘     └─────────────┘
//	                           │                   │
//	                           ▼                   ▼
//	                    ┌─────────────┐     ┌─────────────┐
//	                    │ Indentation │     │   Earley    │
//	                    │   Tracker   │     │ recognizer  │
//	                    └─────────────┘     └─────────────┘
//	                                               │
//	                                               ▼
//	                    ┌─────────────┐     ┌─────────────┐
//	                    │  Recovery   │◀───▶│  Selector   │
//	                    │ (ERROR)     │     │ (one tree)  │
//	                    └─────────────┘     └─────────────┘
//
// The scanner interleaves the literal tokens of the classifier with the
// NEWLINE, INDENT and DEDENT tokens of the indentation tracker. Its whole
// state is a ScannerState value, so scanning can resume at any token
// boundary:
//
//	sc := parser.NewScanner(src)
//	for tok := sc.Next(); tok.Kind != parser.TokenEOF; tok = sc.Next() {
//	    fmt.Println(tok.Kind, tok.Text(src))
//	}
//
// The chunker cuts the token stream at top-level statement boundaries. A
// chunk is parsed on its own by an Earley recognizer over the grammar's
// productions. Operator trees that break a precedence bound are dropped
// while predicting when the rotated tree covers the same tokens; every
// other competing interpretation stays alive until the chunk ends, so
// declared conflicts are still settled with the whole statement in view.
// The selector then picks one derivation per span: fewer
// precedence violations first, then the higher precedence where two
// derivations part, then the alternative declared first. Ties that fall
// to declaration order are recorded as ambiguities on the tree.
//
// # Error Recovery
//
// Parsing never panics and never stops at the first error. Lexical errors
// become ERROR nodes directly. When a chunk fails to parse, recovery cuts
// out the offending token, the rest of its line or the whole logical line,
// whichever lets the rest of the chunk parse, and retries a bounded number
// of times. Each cut region becomes an ERROR node carrying an *Error with
// the tokens the grammar expected there, and a Diagnostic with line and
// column positions. A compound statement too large for the item budget
// keeps its header as an ERROR node and has its body parsed one statement
// at a time.
//
// # Incremental Reparsing
//
// Chunks start at offsets where the scanner state is at the top level, so
// a chunk whose text and start state are unchanged parses to the same
// subtree. Reparse rescans from the statement before the first edit and
// stops as soon as it reaches an old chunk boundary past the edit with an
// equal scanner state; the rest of the old tree is shifted and shared.
package parser
