package parser

import (
	"context"
	"slices"
	"testing"
)

type replacement struct {
	start, oldLen int
	text          string
}

// apply performs the replacements in order and returns the new source
// and the matching edits.
func apply(src string, reps []replacement) (string, []Edit) {
	var edits []Edit
	for _, r := range reps {
		src = src[:r.start] + r.text + src[r.start+r.oldLen:]
		edits = append(edits, Edit{Start: r.start, OldLength: r.oldLen, NewLength: len(r.text)})
	}
	return src, edits
}

func sameTree(t *testing.T, got, want *Tree) {
	t.Helper()
	if !got.Root().Equal(want.Root()) {
		t.Errorf("reparsed tree differs\ngot:  %s\nwant: %s", got.StringWithPositions(), want.StringWithPositions())
	}
	if !slices.EqualFunc(got.Diagnostics(), want.Diagnostics(), func(a, b Diagnostic) bool {
		return a.Span == b.Span && a.Kind == b.Kind && a.Message == b.Message && a.Start == b.Start
	}) {
		t.Errorf("diagnostics differ\ngot:  %v\nwant: %v", got.Diagnostics(), want.Diagnostics())
	}
	if !slices.EqualFunc(got.Ambiguities(), want.Ambiguities(), func(a, b Ambiguity) bool {
		return a.Span == b.Span && a.Rule == b.Rule
	}) {
		t.Errorf("ambiguities differ\ngot:  %v\nwant: %v", got.Ambiguities(), want.Ambiguities())
	}
}

func TestReparseMatchesParse(t *testing.T) {
	const base = "import os\n\ndef f(x):\n    return x\n\ny = f(1)\nprint(y)\n"
	tests := []struct {
		name string
		old  string
		reps []replacement
	}{
		{"rename in last statement", base, []replacement{{len(base) - 3, 1, "zz"}}},
		{"edit function body", base, []replacement{{32, 1, "x + 1"}}},
		{"insert statement", base, []replacement{{11, 0, "a = 1\n"}}},
		{"delete statement", base, []replacement{{0, 11, ""}}},
		{"introduce error", base, []replacement{{37, 1, "= ="}}},
		{"fix error", "x = = 1\ny = 2\n", []replacement{{2, 2, ""}}},
		{"open bracket swallows the rest", base, []replacement{{42, 1, ","}}},
		{"close bracket", "a = (1,\nb = 2\nc = 3\n", []replacement{{6, 1, ")"}}},
		{"add else clause", "if a:\n    b\nc = 1\n", []replacement{{12, 0, "else:\n    d\n"}}},
		{"remove else clause", "if a:\n    b\nelse:\n    d\nc = 1\n", []replacement{{12, 12, ""}}},
		{"indent a statement", "def f():\n    a\nb\nc\n", []replacement{{15, 0, "    "}}},
		{"dedent a statement", "def f():\n    a\n    b\nc\n", []replacement{{15, 4, ""}}},
		{"edit decorator", "@a\ndef f():\n    pass\nx\n", []replacement{{1, 1, "b.c"}}},
		{"append at end", base, []replacement{{len(base), 0, "z = 3\n"}}},
		{"edit comment", "# one\nx = 1\n# two\ny = 2\n", []replacement{{14, 3, "three"}}},
		{"multiple edits", base, []replacement{{0, 6, "from"}, {42, 5, "exec"}}},
		{"overlapping edits", base, []replacement{{13, 1, "gg"}, {12, 4, "def h"}}},
		{"change to empty", "x\n", []replacement{{0, 2, ""}}},
		{"from empty", "", []replacement{{0, 0, "if x:\n    y\n"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			old, err := Parse(ctx, []byte(tt.old))
			if err != nil {
				t.Fatalf("Parse(old) error = %v", err)
			}
			src, edits := apply(tt.old, tt.reps)
			got, err := Reparse(ctx, old, []byte(src), edits)
			if err != nil {
				t.Fatalf("Reparse() error = %v", err)
			}
			want, err := Parse(ctx, []byte(src))
			if err != nil {
				t.Fatalf("Parse(new) error = %v", err)
			}
			sameTree(t, got, want)
		})
	}
}

func TestReparseSharesUnchangedStatements(t *testing.T) {
	ctx := context.Background()
	src := "a = 1\nb = 2\nc = 3\n"
	old := mustParse(t, src)
	newSrc, edits := apply(src, []replacement{{0, 1, "aa"}})
	tree, err := Reparse(ctx, old, []byte(newSrc), edits)
	if err != nil {
		t.Fatalf("Reparse() error = %v", err)
	}
	oldKids, newKids := old.Root().Children, tree.Root().Children
	if len(oldKids) != len(newKids) {
		t.Fatalf("got %d children, want %d", len(newKids), len(oldKids))
	}
	if oldKids[0].Node == newKids[0].Node {
		t.Errorf("edited statement was reused")
	}
	for i := 1; i < len(oldKids); i++ {
		if oldKids[i].Node != newKids[i].Node {
			t.Errorf("statement %d was rebuilt", i)
		}
		if newKids[i].Offset != oldKids[i].Offset+1 {
			t.Errorf("statement %d offset = %d, want %d", i, newKids[i].Offset, oldKids[i].Offset+1)
		}
	}
}

func TestReparseInvalidEdits(t *testing.T) {
	ctx := context.Background()
	old := mustParse(t, "x = 1\n")
	tests := []struct {
		name  string
		src   string
		edits []Edit
	}{
		{"no edits", "x = 2\n", nil},
		{"length mismatch", "x = 22\n", []Edit{{Start: 4, OldLength: 1, NewLength: 1}}},
		{"out of range", "x = 1\n", []Edit{{Start: 10, OldLength: 1, NewLength: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Reparse(ctx, old, []byte(tt.src), tt.edits)
			if err != nil {
				t.Fatalf("Reparse() error = %v", err)
			}
			sameTree(t, got, mustParse(t, tt.src))
		})
	}
}

func TestFoldEdits(t *testing.T) {
	tests := []struct {
		name           string
		edits          []Edit
		oldLen, newLen int
		want           Edit
		ok             bool
	}{
		{"single", []Edit{{2, 1, 3}}, 10, 12, Edit{2, 1, 3}, true},
		{"disjoint, later first", []Edit{{8, 1, 1}, {2, 0, 2}}, 10, 12, Edit{2, 7, 9}, true},
		{"disjoint, earlier first", []Edit{{2, 0, 2}, {8, 1, 1}}, 10, 12, Edit{2, 5, 7}, true},
		{"nested", []Edit{{2, 2, 6}, {3, 1, 0}}, 10, 13, Edit{2, 2, 5}, true},
		{"bad total", []Edit{{2, 1, 3}}, 10, 11, Edit{}, false},
		{"negative", []Edit{{2, 1, 1}, {-1, 0, 0}}, 10, 10, Edit{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := foldEdits(tt.edits, tt.oldLen, tt.newLen)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Errorf("foldEdits() = %+v, %v, want %+v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}
