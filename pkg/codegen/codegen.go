// Package codegen implements the per-function translator: the 80% of this
// system that maps each source-ISA operator to a deterministic sequence of
// target-ISA (Z80) instructions, emitting symbolic assembly text.
//
// Grounded on original_source/src/compile.rs's compile_function, with the
// register choreography of i32.const, i32.add and i32.gt_u corrected where
// that source's push/pop ordering contradicts the stated "low word pushed
// last" stack invariant (see DESIGN.md).
package codegen

import (
	"bytes"
	"fmt"

	"github.com/z80toolchain/wasm2z80/pkg/label"
	"github.com/z80toolchain/wasm2z80/pkg/wasmir"
)

// Function translates one function of module at the given index into
// symbolic Z80 assembly text: prologue, one sequence per operator in body
// order, epilogue, RET. labels is shared with the rest of the module's
// compilation so label_<n> tokens stay unique across all functions.
func Function(module *wasmir.Module, index int, labels *label.Allocator) (string, error) {
	def := module.Functions[index]
	if len(def.Type.Results) > 1 {
		return "", &Error{Kind: UnsupportedArity, FuncIdx: index,
			Message: fmt.Sprintf("function declares %d results, at most 1 is supported", len(def.Type.Results))}
	}

	t := &translator{
		buf:       &bytes.Buffer{},
		labels:    labels,
		module:    module,
		funcIdx:   index,
		params:    len(def.Type.Params),
		loopLabel: labels.Alloc(),
	}

	t.prologue()

	r := def.Body.Operators()
	for {
		op, err := r.Read()
		if err == wasmir.ErrEndOfBody {
			break
		}
		if err != nil {
			return "", &Error{Kind: MalformedBody, FuncIdx: index, Message: err.Error()}
		}
		if err := t.emit(op); err != nil {
			return "", err
		}
	}

	t.epilogue(def.Type.HasResult())
	return t.buf.String(), nil
}

// translator holds the per-function emission state. It is not reused
// across functions or goroutines; Function constructs a fresh one.
type translator struct {
	buf     *bytes.Buffer
	labels  *label.Allocator
	module  *wasmir.Module
	funcIdx int
	params  int

	loopLabel label.Label
}

// inst writes one indented instruction line.
func (t *translator) inst(format string, args ...any) {
	fmt.Fprintf(t.buf, "  "+format+"\n", args...)
}

// comment writes an operator-annotation comment line.
func (t *translator) comment(text string) {
	fmt.Fprintf(t.buf, "  ; %s\n", text)
}

// labelDef writes a label definition at column 0.
func (t *translator) labelDef(l label.Label) {
	fmt.Fprintf(t.buf, "%s:\n", l)
}

// paramOffset returns the byte offset from IY of parameter localIndex's
// low word: 4*(P-i), where P is the parameter count. The high word sits
// at paramOffset+2.
func (t *translator) paramOffset(localIndex uint32) int {
	return 4 * (t.params - int(localIndex))
}

// prologue establishes IY as the frame pointer. Declared locals are not
// allocated here — the caller's call sequence allocates them.
func (t *translator) prologue() {
	t.inst("LD IY,0")
	t.inst("ADD IY,SP")
}

// epilogue leaves the function's result (if any) as the topmost 4 bytes
// above the return address, then returns. The three-word rotate swaps the
// return address past the 2-word result so RET consumes the right
// address and the caller sees the result on top of its own stack.
func (t *translator) epilogue(hasResult bool) {
	if hasResult {
		t.inst("POP DE")
		t.inst("POP BC")
		t.inst("POP HL")
		t.inst("PUSH BC")
		t.inst("PUSH DE")
		t.inst("PUSH HL")
	}
	t.inst("RET")
}

// emit dispatches one operator to its lowering. The variant set is closed
// (wasmir.OpKind); this is a plain switch, not a registry, per DESIGN.md's
// dispatch note.
func (t *translator) emit(op wasmir.Operator) error {
	switch op.Kind {
	case wasmir.OpLocalGet:
		t.localGet(op)
	case wasmir.OpLocalTee:
		t.localTee(op)
	case wasmir.OpI32Const:
		t.i32Const(op)
	case wasmir.OpI32Add:
		t.i32Add()
	case wasmir.OpI32And:
		t.i32And()
	case wasmir.OpI32GtU:
		t.i32GtU()
	case wasmir.OpI32Eqz:
		t.i32Eqz()
	case wasmir.OpI32Store8:
		t.i32Store8(op)
	case wasmir.OpI32Load8U:
		t.i32Load8U(op)
	case wasmir.OpSelect:
		t.selectOp()
	case wasmir.OpLoop:
		return t.loopOp(op)
	case wasmir.OpBr:
		return t.brOp(op)
	case wasmir.OpBrIf:
		return t.brIfOp(op)
	case wasmir.OpCall:
		return t.callOp(op)
	case wasmir.OpEnd:
		// no-op: structured-control terminators are implicit in the
		// prologue/epilogue and loop discipline.
	default:
		name := op.Name
		if name == "" {
			name = op.Kind.String()
		}
		return &Error{Kind: UnsupportedOperator, FuncIdx: t.funcIdx, Op: name,
			Message: "operator outside the supported subset"}
	}
	return nil
}
