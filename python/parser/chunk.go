package parser

// chunk is the unit of parsing and of reuse: one top-level statement,
// with a decorated definition or an if/try statement and its trailing
// clauses kept together. Chunks partition the source; each one starts at
// a byte offset and scanner state from which the scanner reproduces its
// tokens exactly.
type chunk struct {
	start int
	end   int
	state ScannerState
	// children are the module-level children, at absolute offsets.
	children    []Child
	diagnostics []Diagnostic
	ambiguities []Ambiguity
	comments    []Token
}

// shifted returns a copy of c moved by delta bytes.
func (c chunk) shifted(delta int) chunk {
	if delta == 0 {
		return c
	}
	out := c
	out.start += delta
	out.end += delta
	out.children = make([]Child, len(c.children))
	for i, ch := range c.children {
		ch.Offset += delta
		out.children[i] = ch
	}
	out.diagnostics = make([]Diagnostic, len(c.diagnostics))
	for i, d := range c.diagnostics {
		d.shift(delta)
		out.diagnostics[i] = d
	}
	out.ambiguities = make([]Ambiguity, len(c.ambiguities))
	for i, a := range c.ambiguities {
		a.shift(delta)
		out.ambiguities[i] = a
	}
	out.comments = make([]Token, len(c.comments))
	for i, t := range c.comments {
		t.Span.Start += delta
		t.Span.End += delta
		t.Leading += delta
		out.comments[i] = t
	}
	return out
}

// chunker splits the token stream at top-level statement boundaries.
type chunker struct {
	sc  *Scanner
	has bool
	tok Token
	// at and state mark where the next chunk starts.
	at    int
	state ScannerState
	done  bool
}

func newChunker(sc *Scanner) *chunker {
	return &chunker{sc: sc, at: sc.Offset(), state: sc.State()}
}

func (c *chunker) peek() Token {
	if !c.has {
		c.tok = c.sc.Next()
		c.has = true
	}
	return c.tok
}

func (c *chunker) take() Token {
	tok := c.peek()
	c.has = false
	return tok
}

// collect returns the tokens of the next chunk, end of file excluded, with
// the offset and state it starts at. ok is false once the input is used up.
func (c *chunker) collect() (toks []Token, start int, state ScannerState, ok bool) {
	if c.done {
		return nil, 0, ScannerState{}, false
	}
	start, state = c.at, c.state
	lineHead := TokenEOF
	for {
		tok := c.take()
		if tok.Kind == TokenEOF {
			c.done = true
			return toks, start, state, true
		}
		toks = append(toks, tok)
		if lineHead == TokenEOF && !tok.Kind.IsStructural() {
			lineHead = tok.Kind
		}
		if tok.Kind != TokenNewline && tok.Kind != TokenDedent {
			continue
		}
		ended := lineHead
		if tok.Kind == TokenNewline {
			lineHead = TokenEOF
		}
		st := c.sc.State()
		if !st.AtTopLevel() {
			continue
		}
		if tok.Kind == TokenNewline && ended == TokenAt {
			continue
		}
		off := c.sc.Offset()
		switch c.peek().Kind {
		case TokenIndent, TokenElif, TokenElse, TokenExcept, TokenFinally:
			continue
		}
		c.at, c.state = off, st
		return toks, start, state, true
	}
}

// boundary reports the offset and state the next chunk starts at.
func (c *chunker) boundary() (int, ScannerState) {
	return c.at, c.state
}

// splitStatements cuts the tokens of a block body into its statements with
// the rules collect applies at the top level.
func splitStatements(toks []Token) [][]Token {
	var out [][]Token
	from, depth := 0, 0
	lineHead := TokenEOF
	for i, tok := range toks {
		if lineHead == TokenEOF && !tok.Kind.IsStructural() {
			lineHead = tok.Kind
		}
		switch tok.Kind {
		case TokenIndent:
			depth++
			continue
		case TokenDedent:
			depth--
		case TokenNewline:
		default:
			continue
		}
		ended := lineHead
		if tok.Kind == TokenNewline {
			lineHead = TokenEOF
		}
		if depth != 0 || tok.Kind == TokenNewline && ended == TokenAt {
			continue
		}
		if i+1 < len(toks) {
			switch toks[i+1].Kind {
			case TokenIndent, TokenElif, TokenElse, TokenExcept, TokenFinally:
				continue
			}
		}
		out = append(out, toks[from:i+1])
		from = i + 1
	}
	if from < len(toks) {
		out = append(out, toks[from:])
	}
	return out
}

// matchingDedent returns the index of the DEDENT closing the INDENT at h,
// or len(toks) when the block runs to the end.
func matchingDedent(toks []Token, h int) int {
	depth := 0
	for k := h; k < len(toks); k++ {
		switch toks[k].Kind {
		case TokenIndent:
			depth++
		case TokenDedent:
			depth--
			if depth == 0 {
				return k
			}
		}
	}
	return len(toks)
}
