package parser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func mustParse(t *testing.T, input string, opts ...Option) *Tree {
	t.Helper()
	tree, err := Parse(context.Background(), []byte(input), opts...)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", input, err)
	}
	return tree
}

func TestParseTrees(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"empty module",
			"",
			"(module)",
		},
		{
			"if block",
			"if x:\n    y\n",
			"(module (if_statement condition: (identifier) body: (expression_statement (identifier))))",
		},
		{
			"assignment across lines",
			"x = (1 +\n     2)\n",
			"(module (expression_statement (assignment left: (expression_list (identifier)) right: (expression_list (tuple (binary_operator left: (integer) right: (integer)))))))",
		},
		{
			"sum binds looser than product",
			"a*b+c\n",
			"(module (expression_statement (binary_operator left: (binary_operator left: (identifier) right: (identifier)) right: (identifier))))",
		},
		{
			"subtraction is left associative",
			"a - b - c\n",
			"(module (expression_statement (binary_operator left: (binary_operator left: (identifier) right: (identifier)) right: (identifier))))",
		},
		{
			"and binds tighter than or",
			"a or b and c\n",
			"(module (expression_statement (boolean_operator left: (identifier) right: (boolean_operator left: (identifier) right: (identifier)))))",
		},
		{
			"attribute binds tighter than unary minus",
			"-a.b\n",
			"(module (expression_statement (unary_operator argument: (attribute object: (identifier) attribute: (identifier)))))",
		},
		{
			"comparison as right operand of and",
			"a and b < c\n",
			"(module (expression_statement (boolean_operator left: (identifier) right: (comparison_operator (identifier) (identifier)))))",
		},
		{
			"not as right operand of or",
			"a or not b\n",
			"(module (expression_statement (boolean_operator left: (identifier) right: (not_operator argument: (identifier)))))",
		},
		{
			"not takes the whole or",
			"not a or b\n",
			"(module (expression_statement (not_operator argument: (boolean_operator left: (identifier) right: (identifier)))))",
		},
		{
			"lambda body takes the conditional",
			"lambda: x if y else z\n",
			"(module (expression_statement (lambda body: (conditional_expression (identifier) (identifier) (identifier)))))",
		},
		{
			"conditional is right associative",
			"a if b else c if d else e\n",
			"(module (expression_statement (conditional_expression (identifier) (identifier) (conditional_expression (identifier) (identifier) (identifier)))))",
		},
		{
			"call with keyword argument",
			"f(a, b=1)\n",
			"(module (expression_statement (call function: (identifier) arguments: (argument_list (identifier) (keyword_argument name: (identifier) value: (integer))))))",
		},
		{
			"several statements on a line",
			"pass; break\n",
			"(module (pass_statement) (break_statement))",
		},
		{
			"if with elif and else",
			"if a:\n    b\nelif c:\n    d\nelse:\n    e\n",
			"(module (if_statement condition: (identifier) body: (expression_statement (identifier)) alternative: (elif_clause condition: (identifier) body: (expression_statement (identifier))) alternative: (else_clause body: (expression_statement (identifier)))))",
		},
		{
			"function definition",
			"def f(x):\n    return x\n",
			"(module (function_definition name: (identifier) parameters: (parameters (identifier)) body: (return_statement (expression_list (identifier)))))",
		},
		{
			"exec call",
			"exec('x')\n",
			"(module (expression_statement (call function: (identifier) arguments: (argument_list (string)))))",
		},
		{
			"exec statement",
			"exec 'x'\n",
			"(module (exec_statement code: (string)))",
		},
		{
			"comment only",
			"# nothing here\n",
			"(module)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := mustParse(t, tt.input)
			if got := tree.String(); got != tt.want {
				t.Errorf("tree mismatch\ngot:  %s\nwant: %s", got, tt.want)
			}
			if tree.HasErrors() {
				t.Errorf("unexpected diagnostics: %v", tree.Diagnostics())
			}
			if got := tree.Root().Length; got != len(tt.input) {
				t.Errorf("root length = %d, want %d", got, len(tt.input))
			}
		})
	}
}

func TestParsePositions(t *testing.T) {
	tree := mustParse(t, "if x:\n    y\n")
	want := "(module [0-12] (if_statement [0-11] condition: (identifier [3-4]) body: (expression_statement [10-11] (identifier [10-11]))))"
	if got := tree.StringWithPositions(); got != want {
		t.Errorf("got:  %s\nwant: %s", got, want)
	}
}

func TestParseLegacyStatementConflict(t *testing.T) {
	tests := []struct {
		input string
		want  string
		// chosen is the alternative recorded first in the declared
		// ambiguity, or empty when only one interpretation completes.
		chosen string
	}{
		{
			"print('x')\n",
			"(module (print_statement argument: (expression_list (tuple (string)))))",
			"_simple_statements -> print_statement",
		},
		{
			"exec('x')\n",
			"(module (expression_statement (call function: (identifier) arguments: (argument_list (string)))))",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			first := mustParse(t, tt.input)
			if got := first.String(); got != tt.want {
				t.Errorf("got:  %s\nwant: %s", got, tt.want)
			}

			ambs := first.Ambiguities()
			switch {
			case tt.chosen == "" && len(ambs) != 0:
				t.Errorf("Ambiguities() = %v, want none", ambs)
			case tt.chosen != "":
				if len(ambs) != 1 {
					t.Fatalf("got %d ambiguities %v, want 1", len(ambs), ambs)
				}
				if !ambs[0].Declared {
					t.Errorf("ambiguity %v not declared", ambs[0])
				}
				if len(ambs[0].Alternatives) != 2 || !strings.HasPrefix(ambs[0].Alternatives[0], tt.chosen) {
					t.Errorf("Alternatives = %q, want %q chosen first", ambs[0].Alternatives, tt.chosen)
				}
			}

			for i := 0; i < 5; i++ {
				again := mustParse(t, tt.input)
				if !again.Root().Equal(first.Root()) {
					t.Fatalf("run %d chose a different tree: %s", i, again.String())
				}
			}
		})
	}
}

func TestParsePrecedenceLeavesNoAmbiguity(t *testing.T) {
	inputs := []string{
		"x\n",
		"a*b+c\n",
		"a - b - c\n",
		"a or b and c\n",
		"-a.b\n",
		"x = y = 1\n",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			tree := mustParse(t, input)
			if ambs := tree.Ambiguities(); len(ambs) != 0 {
				t.Errorf("Ambiguities() = %v, want none", ambs)
			}
		})
	}
}

func TestParseNodeAccess(t *testing.T) {
	tree := mustParse(t, "def f(a, b):\n    pass\n")
	fn := tree.Root().FirstChildOfKind(KindFunctionDefinition)
	if fn == nil {
		t.Fatalf("no function_definition in %s", tree)
	}
	name := fn.ChildByField("name")
	if name == nil || name.Kind != KindIdentifier {
		t.Fatalf("name field = %v", name)
	}
	params := fn.ChildByField("parameters")
	if params == nil {
		t.Fatalf("no parameters field in %s", fn)
	}
	if got := len(params.ChildrenOfKind(KindIdentifier)); got != 2 {
		t.Errorf("got %d parameter identifiers, want 2", got)
	}
}

func TestParseTopLevelStatements(t *testing.T) {
	src := "import os\n\n@dec\ndef f():\n    pass\n\ntry:\n    a\nexcept E:\n    b\nfinally:\n    c\nx = 1\n"
	tree := mustParse(t, src)
	var got []string
	for _, n := range tree.Root().NamedChildren() {
		got = append(got, n.Kind)
	}
	want := []string{KindImportStatement, KindDecoratedDefinition, KindTryStatement, KindExpressionStatement}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("top-level kinds = %v, want %v", got, want)
	}
	if tree.HasErrors() {
		t.Errorf("unexpected diagnostics: %v", tree.Diagnostics())
	}
}

func TestParseCursor(t *testing.T) {
	src := "x = 1\nif x:\n    y = 2\n"
	tree := mustParse(t, src)

	var idents []string
	tree.Walk(func(c *Cursor) bool {
		if c.Node().Kind == KindIdentifier {
			idents = append(idents, c.Text())
		}
		return true
	})
	if strings.Join(idents, ",") != "x,x,y" {
		t.Errorf("identifiers = %v, want [x x y]", idents)
	}

	c := tree.NamedNodeAt(strings.Index(src, "y"))
	if c.Node().Kind != KindIdentifier || c.Text() != "y" {
		t.Fatalf("NamedNodeAt(y) = %s %q", c.Node().Kind, c.Text())
	}
	pos := c.StartPosition()
	if pos.Line != 3 || pos.Column != 5 {
		t.Errorf("StartPosition() = %d:%d, want 3:5", pos.Line, pos.Column)
	}
	if c.Field() != "" {
		t.Errorf("Field() = %q, want none", c.Field())
	}
	c.GotoParent()
	if c.Node().Kind != KindExpressionList || c.Field() != "left" {
		t.Errorf("parent = %s field %q, want expression_list field left", c.Node().Kind, c.Field())
	}
}

func TestParseComments(t *testing.T) {
	src := "# head\nx = 1  # tail\n"
	tree := mustParse(t, src, WithComments(true))
	comments := tree.Comments()
	if len(comments) != 2 {
		t.Fatalf("got %d comments, want 2", len(comments))
	}
	if got := comments[1].Text([]byte(src)); got != "# tail" {
		t.Errorf("second comment = %q", got)
	}
}

func TestParseInvalidEncoding(t *testing.T) {
	_, err := Parse(context.Background(), []byte("x = '\xff'\n"))
	if !errors.Is(err, ErrInvalidEncoding) {
		t.Errorf("error = %v, want %v", err, ErrInvalidEncoding)
	}
}

func TestParseCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Parse(ctx, []byte("x = 1\n"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want %v", err, context.Canceled)
	}
}

func TestParseSplitsStatementOverBudget(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("class A:\n")
	for i := 0; i < 500; i++ {
		fmt.Fprintf(&sb, "    def m%d(self): pass\n", i)
	}
	sb.WriteString("x = 1\n")
	src := sb.String()

	tree, err := Parse(context.Background(), []byte(src), WithMaxItems(20_000))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := tree.Root().Length; got != len(src) {
		t.Errorf("root length = %d, want %d", got, len(src))
	}

	kids := tree.Root().NamedChildren()
	if len(kids) != 502 {
		t.Fatalf("got %d top-level nodes, want 502", len(kids))
	}
	if !kids[0].IsError() {
		t.Errorf("first node = %s, want ERROR for the class header", kids[0].Kind)
	}
	for i, k := range kids[1:501] {
		if k.Kind != KindFunctionDefinition || k.HasError() {
			t.Fatalf("node %d = %s, want a clean function_definition", i+1, k)
		}
	}
	if kids[501].Kind != KindExpressionStatement {
		t.Errorf("last node = %s, want expression_statement", kids[501].Kind)
	}

	diags := tree.Diagnostics()
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics %v, want 1", len(diags), diags)
	}
	if d := diags[0]; d.Start.Line != 1 || d.Start.Column != 1 || d.Message != "statement too complex to parse" {
		t.Errorf("diagnostic = %v, want the class header at 1:1", d)
	}
}

func TestParseLongOperatorChains(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  string
		depth int
	}{
		{"sum", "x = " + strings.Repeat("a + ", 999) + "a\n", KindBinaryOperator, 999},
		{"and", "x = " + strings.Repeat("a and ", 499) + "a\n", KindBooleanOperator, 499},
		{"sum of products", "x = " + strings.Repeat("a * b + ", 500) + "c\n", KindBinaryOperator, 501},
		{"strings across lines", "x = (" + strings.Repeat("'s' +\n     ", 499) + "'s')\n", KindBinaryOperator, 499},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Now()
			tree := mustParse(t, tt.input)
			if elapsed := time.Since(start); elapsed > 10*time.Second {
				t.Errorf("parse took %v", elapsed)
			}
			if tree.HasErrors() {
				t.Fatalf("unexpected diagnostics: %v", tree.Diagnostics())
			}
			if ambs := tree.Ambiguities(); len(ambs) != 0 {
				t.Errorf("Ambiguities() = %v, want none", ambs[:1])
			}

			var top *Node
			tree.Walk(func(c *Cursor) bool {
				if top == nil && c.Node().Kind == tt.kind {
					top = c.Node()
				}
				return top == nil
			})
			depth := 0
			for n := top; n != nil && n.Kind == tt.kind; n = n.ChildByField("left") {
				depth++
			}
			if depth != tt.depth {
				t.Errorf("left spine has %d %s nodes, want %d", depth, tt.kind, tt.depth)
			}
		})
	}
}

func TestLineIndex(t *testing.T) {
	x := NewLineIndex([]byte("ab\ncd\r\nef\rg"))
	tests := []struct {
		offset       int
		line, column int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{3, 2, 1},
		{7, 3, 1},
		{10, 4, 1},
		{11, 4, 2},
	}
	for _, tt := range tests {
		pos := x.Position(tt.offset)
		if pos.Line != tt.line || pos.Column != tt.column {
			t.Errorf("Position(%d) = %d:%d, want %d:%d", tt.offset, pos.Line, pos.Column, tt.line, tt.column)
		}
		if got := x.Offset(tt.line, tt.column); got != tt.offset {
			t.Errorf("Offset(%d, %d) = %d, want %d", tt.line, tt.column, got, tt.offset)
		}
	}
	if got := x.LineCount(); got != 4 {
		t.Errorf("LineCount() = %d, want 4", got)
	}
}
