// Package wasmir models the in-memory shape of a decoded source-ISA module.
//
// A real WebAssembly binary decoder is out of scope for this repository;
// this package only defines the data the translator needs, plus the
// forward-only operator stream interface a decoder would implement.
// pkg/fixture provides one concrete, JSON-backed producer for tests and
// the CLI.
package wasmir

import "errors"

// ValType is a source-ISA value type. Only i32 need be modelled.
type ValType uint8

// ValI32 is the only value type the translator understands.
const ValI32 ValType = 0

// FuncType is the ordered parameter list and optional single result of a
// function. len(Results) > 1 is rejected by the translator with
// UnsupportedArity; it is allowed to appear here so a parser or fixture
// decoder can surface the function before codegen rejects it.
type FuncType struct {
	Params  []ValType
	Results []ValType
}

// HasResult reports whether the function returns a value.
func (t FuncType) HasResult() bool {
	return len(t.Results) == 1
}

// ErrEndOfBody is returned by OperatorReader.Read once the operator stream
// is exhausted, mirroring the io.EOF convention for forward-only readers.
var ErrEndOfBody = errors.New("wasmir: end of operator body")

// OperatorReader is a forward-only reader over a function body's operator
// stream. Implementations decode lazily; Read returns ErrEndOfBody (and a
// zero Operator) once exhausted.
type OperatorReader interface {
	Read() (Operator, error)
}

// FunctionBody exposes a function's declared local count and a fresh
// operator reader over its instruction stream.
type FunctionBody interface {
	LocalCount() uint32
	Operators() OperatorReader
}

// FunctionDef pairs a function's signature with its body.
type FunctionDef struct {
	Type FuncType
	Body FunctionBody
}

// Module is an ordered sequence of function definitions plus the index of
// the designated entry function. Functions are referenced by their 0-based
// index in Functions.
type Module struct {
	Entry     int
	Functions []FunctionDef
}
