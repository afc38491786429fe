package extraction

import "github.com/a3tai/mcp-inventory-sync/internal/grid"

// scan is the shared state of one extraction pass over a document
type scan struct {
	doc      grid.Document
	opts     Options
	blob     string
	blobDone bool
}

func newScan(doc grid.Document, opts Options) *scan {
	return &scan{doc: doc, opts: opts}
}

// Blob returns the upper window of the document flattened to text. It is
// computed once per scan.
func (s *scan) Blob() string {
	if !s.blobDone {
		s.blob = grid.Blob(s.doc, grid.Window{FirstRow: 1, LastRow: blobLastRow, FirstCol: 1, LastCol: blobLastCol})
		s.blobDone = true
	}
	return s.blob
}

// strategy is one step of a field's fallback chain
type strategy[T any] struct {
	name string
	run  func(*scan) (T, bool)
}

// firstMatch runs the chain in order and stops at the first strategy that
// produces a value.
func firstMatch[T any](s *scan, chain []strategy[T]) (T, string, bool) {
	for _, st := range chain {
		if v, ok := st.run(s); ok {
			return v, st.name, true
		}
	}
	var zero T
	return zero, "", false
}
