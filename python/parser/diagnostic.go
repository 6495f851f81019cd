package parser

import "fmt"

// Diagnostic reports one lexical or syntax error. Every diagnostic has a
// matching ERROR node in the tree covering the same span.
type Diagnostic struct {
	Error
	Span  Span
	Start Position
	End   Position
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.Start.Line, d.Start.Column, d.Kind, d.Error.Error())
}

// Ambiguity records a place where more than one derivation of the same
// span survived precedence and the declared order of alternatives picked
// the first. Alternatives lists the chosen production first. A single
// alternative means the same production split the span in more than one
// way.
type Ambiguity struct {
	Span         Span
	Rule         string
	Alternatives []string
	// Declared is set when the competing derivations run through members
	// of a declared conflict set.
	Declared bool
}

func (a Ambiguity) String() string {
	kind := "undeclared"
	if a.Declared {
		kind = "declared"
	}
	return fmt.Sprintf("%s ambiguity in %s at %d-%d: %v", kind, a.Rule, a.Span.Start, a.Span.End, a.Alternatives)
}

func (d *Diagnostic) shift(delta int) {
	d.Span.Start += delta
	d.Span.End += delta
}

func (a *Ambiguity) shift(delta int) {
	a.Span.Start += delta
	a.Span.End += delta
}
