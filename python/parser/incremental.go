package parser

import (
	"context"
	"sort"
	"unicode/utf8"
)

// Edit describes a replacement of OldLength bytes at Start by NewLength
// bytes. Offsets of later edits in a list refer to the text produced by the
// earlier ones.
type Edit struct {
	Start     int
	OldLength int
	NewLength int
}

func (e Edit) oldEnd() int { return e.Start + e.OldLength }

func (e Edit) newEnd() int { return e.Start + e.NewLength }

func (e Edit) delta() int { return e.NewLength - e.OldLength }

// foldEdits combines a sequence of edits into one edit of the original
// text covering all of them. ok is false when the edits do not fit the old
// and new lengths.
func foldEdits(edits []Edit, oldLen, newLen int) (Edit, bool) {
	if len(edits) == 0 {
		return Edit{}, false
	}
	start, oe, ne := edits[0].Start, edits[0].oldEnd(), edits[0].newEnd()
	for _, e := range edits[1:] {
		if e.Start < 0 || e.OldLength < 0 || e.NewLength < 0 {
			return Edit{}, false
		}
		start = min(start, e.Start)
		if e.oldEnd() > ne {
			oe += e.oldEnd() - ne
		}
		ne = max(ne, e.oldEnd()) + e.delta()
	}
	folded := Edit{Start: start, OldLength: oe - start, NewLength: ne - start}
	if start < 0 || folded.OldLength < 0 || folded.NewLength < 0 || oe > oldLen || ne > newLen || newLen-oldLen != folded.delta() {
		return Edit{}, false
	}
	return folded, true
}

// Reparse parses src, the result of applying edits to the source of old,
// reusing every top-level statement of old that the edits cannot have
// affected. The result is the same tree Parse would build for src. Options
// default to those old was parsed with; changing the tab width or comment
// collection forces a full parse.
func Reparse(ctx context.Context, old *Tree, src []byte, edits []Edit, opts ...Option) (*Tree, error) {
	if !utf8.Valid(src) {
		return nil, ErrInvalidEncoding
	}
	cfg := old.cfg.with(opts)
	e, ok := foldEdits(edits, len(old.src), len(src))
	if !ok || cfg.tabWidth != old.cfg.tabWidth || cfg.comments != old.cfg.comments || len(old.chunks) == 0 {
		cfg.log.Debugf("reparse falls back to a full parse")
		return Parse(ctx, src, WithTabWidth(cfg.tabWidth), WithComments(cfg.comments),
			WithMaxItems(cfg.maxItems), WithRecoveryRounds(cfg.rounds), WithLogger(cfg.log))
	}

	chunks := old.chunks
	k := sort.Search(len(chunks), func(i int) bool { return chunks[i].end >= e.Start })
	if k == len(chunks) {
		k = len(chunks) - 1
	}
	resume := max(k-1, 0)
	prefix := chunks[:resume]

	delta := e.delta()
	reuse := func(offset int, state ScannerState) ([]chunk, bool) {
		if offset < e.newEnd() {
			return nil, false
		}
		at := offset - delta
		j := sort.Search(len(chunks), func(i int) bool { return chunks[i].start >= at })
		if j == len(chunks) || chunks[j].start != at || !chunks[j].state.Equal(state) {
			return nil, false
		}
		rest := make([]chunk, 0, len(chunks)-j)
		for _, c := range chunks[j:] {
			rest = append(rest, c.shifted(delta))
		}
		return rest, true
	}

	d := newDriver(src, cfg)
	tail, err := d.run(ctx, chunks[resume].start, chunks[resume].state, reuse)
	if err != nil {
		return nil, err
	}
	out := make([]chunk, 0, len(prefix)+len(tail))
	out = append(out, prefix...)
	out = append(out, tail...)
	d.log.Debugf("reparsed from offset %d: %d statements kept before the edit", chunks[resume].start, len(prefix))
	return newTree(src, out, cfg), nil
}
