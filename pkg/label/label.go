// Package label vends globally unique symbolic labels within a single
// compilation. It is the smallest of the three components: a monotonic
// counter with a textual rendering, no graph, no back-patching, no
// deallocation, and no reuse across compilations.
package label

import "strconv"

// Label is an opaque, already-allocated token. Its only operation is
// rendering to the textual form the assembler expects.
type Label int

// String renders the label as it appears in emitted assembly.
func (l Label) String() string {
	return "label_" + strconv.Itoa(int(l))
}

// Allocator vends fresh Labels in increasing order starting from 0. The
// zero value is ready to use. An Allocator is owned exclusively by one
// compilation; it is not safe for concurrent use by multiple goroutines
// translating the same module (pkg/batchcompile gives each concurrent
// compilation its own Allocator instead of sharing one).
type Allocator struct {
	next int
}

// New returns a fresh Allocator whose first Alloc call returns label_0.
func New() *Allocator {
	return &Allocator{}
}

// Alloc returns a fresh, previously-unissued Label.
func (a *Allocator) Alloc() Label {
	l := Label(a.next)
	a.next++
	return l
}
