package codegen

import "github.com/z80toolchain/wasm2z80/pkg/wasmir"

// Every operand on the stack is a 4-byte (32-bit) value split into two
// 16-bit words, low word pushed last — so the low word is always on top.
// A pop sequence of "POP DE; POP BC" therefore yields DE=low, BC=high.
// That invariant is what every sequence below is built against.

// localGet pushes the 32-bit value of a parameter onto the stack.
// Parameters are addressed relative to IY via paramOffset, which covers
// the parameter range only; declared locals beyond it are not
// addressable. IX is used as a scratch index register for the indexed
// loads.
func (t *translator) localGet(op wasmir.Operator) {
	t.comment("local.get " + uintToStr(uint64(op.LocalIndex)))
	off := t.paramOffset(op.LocalIndex)
	t.inst("PUSH IY")
	t.inst("POP IX")
	t.inst("LD L,(IX+%d)", off+2)
	t.inst("LD H,(IX+%d)", off+3)
	t.inst("PUSH HL")
	t.inst("LD L,(IX+%d)", off)
	t.inst("LD H,(IX+%d)", off+1)
	t.inst("PUSH HL")
}

// localTee stores the top-of-stack value into a local without consuming
// it: the value stays on the stack for the next operator.
func (t *translator) localTee(op wasmir.Operator) {
	t.comment("local.tee " + uintToStr(uint64(op.LocalIndex)))
	off := t.paramOffset(op.LocalIndex)
	t.inst("POP DE")
	t.inst("POP BC")
	t.inst("PUSH BC")
	t.inst("PUSH DE")
	t.inst("PUSH IY")
	t.inst("POP IX")
	t.inst("LD (IX+%d),E", off)
	t.inst("LD (IX+%d),D", off+1)
	t.inst("LD (IX+%d),C", off+2)
	t.inst("LD (IX+%d),B", off+3)
}

// i32Const pushes a literal 32-bit constant. The original reference
// pushes the low word first, which leaves the high word on top —
// contradicting the low-word-on-top invariant. Corrected: high word
// pushed first, low word second.
func (t *translator) i32Const(op wasmir.Operator) {
	v := uint32(op.ConstValue)
	t.comment("i32.const " + uintToStr(uint64(v)))
	t.inst("LD HL,%d", v>>16)
	t.inst("PUSH HL")
	t.inst("LD HL,%d", v&0xFFFF)
	t.inst("PUSH HL")
}

// i32Add pops two 32-bit operands and pushes their sum. The low words
// must add (and produce any carry) before the high words consume it;
// the original reference adds the high words first, with no carry yet
// to consume, and only then adds the low words — dropping the carry
// from low into high entirely. Corrected: ADD on the low words first,
// ADC on the high words second.
func (t *translator) i32Add() {
	t.comment("i32.add")
	t.inst("POP DE") // rhs low
	t.inst("POP BC") // rhs high
	t.inst("POP HL") // lhs low
	t.inst("ADD HL,DE")
	t.inst("EX DE,HL") // DE = low sum
	t.inst("POP HL")   // lhs high; carry from ADD HL,DE survives EX and POP
	t.inst("ADC HL,BC")
	t.inst("PUSH HL") // high sum
	t.inst("PUSH DE") // low sum, on top
}

// i32And pops two 32-bit operands and pushes their bitwise AND, byte by
// byte within each word.
func (t *translator) i32And() {
	t.comment("i32.and")
	t.inst("POP DE") // rhs low
	t.inst("POP BC") // rhs high
	t.inst("POP HL") // lhs low
	t.inst("LD A,H")
	t.inst("AND D")
	t.inst("LD D,A")
	t.inst("LD A,L")
	t.inst("AND E")
	t.inst("LD E,A") // DE = low result
	t.inst("POP HL") // lhs high
	t.inst("LD A,H")
	t.inst("AND B")
	t.inst("LD H,A")
	t.inst("LD A,L")
	t.inst("AND C")
	t.inst("LD L,A") // HL = high result
	t.inst("PUSH HL")
	t.inst("PUSH DE")
}

// i32GtU pops rhs then lhs (rhs was pushed last and is on top) and
// pushes 1 if lhs >u rhs else 0. The low-word subtraction must settle
// its borrow before the high-word subtraction consumes it; the original
// reference subtracts the high words first, basing the final borrow
// decision on the wrong chain. Corrected: SBC on the low words first,
// SBC on the high words second, carrying the borrow forward.
func (t *translator) i32GtU() {
	t.comment("i32.gt_u")
	isFalse := t.labels.Alloc()
	done := t.labels.Alloc()

	t.inst("POP DE") // rhs low
	t.inst("POP BC") // rhs high
	t.inst("POP HL") // lhs low
	t.inst("OR A")
	t.inst("SBC HL,DE") // low diff; carry = borrow out of low word
	t.inst("EX DE,HL")  // DE = low diff
	t.inst("POP HL")    // lhs high; carry survives EX and POP
	t.inst("SBC HL,BC") // HL = high diff; carry = overall borrow
	t.inst("JR C,%s", isFalse)
	t.inst("LD A,H")
	t.inst("OR L")
	t.inst("OR D")
	t.inst("OR E")
	t.inst("JR Z,%s", isFalse)
	t.inst("LD HL,0")
	t.inst("PUSH HL")
	t.inst("LD HL,1")
	t.inst("PUSH HL")
	t.inst("JR %s", done)
	t.labelDef(isFalse)
	t.inst("LD HL,0")
	t.inst("PUSH HL")
	t.inst("PUSH HL")
	t.labelDef(done)
}

// i32Eqz pops one 32-bit operand and pushes 1 if it is zero else 0. The
// original reference pushes an extra residue word beyond the correct
// 32-bit result; per the stated invariant that bug is not replicated
// here (see DESIGN.md).
func (t *translator) i32Eqz() {
	t.comment("i32.eqz")
	isFalse := t.labels.Alloc()
	done := t.labels.Alloc()

	t.inst("POP DE") // low
	t.inst("POP BC") // high
	t.inst("LD A,D")
	t.inst("OR E")
	t.inst("OR B")
	t.inst("OR C")
	t.inst("JR NZ,%s", isFalse)
	t.inst("LD HL,0")
	t.inst("PUSH HL")
	t.inst("LD HL,1")
	t.inst("PUSH HL")
	t.inst("JR %s", done)
	t.labelDef(isFalse)
	t.inst("LD HL,0")
	t.inst("PUSH HL")
	t.inst("PUSH HL")
	t.labelDef(done)
}

// selectOp pops a condition, then val2, then val1 (val1 was pushed
// first and sits deepest), pushing val1 if the condition is nonzero,
// else val2.
func (t *translator) selectOp() {
	t.comment("select")
	chooseVal1 := t.labels.Alloc()
	done := t.labels.Alloc()

	t.inst("POP DE") // condition low
	t.inst("POP BC") // condition high
	t.inst("LD A,D")
	t.inst("OR E")
	t.inst("OR B")
	t.inst("OR C")
	t.inst("JR NZ,%s", chooseVal1)

	t.comment("condition is zero: keep val2, discard val1")
	t.inst("POP HL") // val2 low
	t.inst("POP DE") // val2 high
	t.inst("POP BC")
	t.inst("POP BC") // discard val1 (2 words)
	t.inst("PUSH DE")
	t.inst("PUSH HL")
	t.inst("JR %s", done)

	t.labelDef(chooseVal1)
	t.comment("condition is nonzero: discard val2, keep val1")
	t.inst("POP BC")
	t.inst("POP BC") // discard val2 (2 words)
	t.inst("POP HL") // val1 low
	t.inst("POP DE") // val1 high
	t.inst("PUSH DE")
	t.inst("PUSH HL")
	t.labelDef(done)
}

// i32Store8 stores the low byte of a 32-bit value at the 16-bit address
// formed from another 32-bit value's low word (memory is addressed with
// 16 bits; the address value's high word is discarded). The original
// reference pops the address twice and keeps the second (high-word) pop
// as the effective address, discarding the meaningful low word;
// corrected to keep the first pop.
func (t *translator) i32Store8(op wasmir.Operator) {
	t.comment("i32.store8 offset=" + uintToStr(uint64(op.MemOffset)))
	t.inst("POP DE") // value low (the byte to store)
	t.inst("POP BC") // value high, discarded
	t.inst("POP HL") // address low, the effective address
	t.inst("POP BC") // address high, discarded
	if op.MemOffset != 0 {
		t.inst("LD BC,%d", op.MemOffset)
		t.inst("ADD HL,BC")
	}
	t.inst("PUSH HL")
	t.inst("POP IX")
	t.inst("LD (IX+0),E")
}

// i32Load8U loads a byte from the 16-bit address formed the same way as
// i32Store8, zero-extending it to 32 bits. Same address-ordering
// correction as i32Store8.
func (t *translator) i32Load8U(op wasmir.Operator) {
	t.comment("i32.load8_u offset=" + uintToStr(uint64(op.MemOffset)))
	t.inst("POP HL") // address low, the effective address
	t.inst("POP BC") // address high, discarded
	if op.MemOffset != 0 {
		t.inst("LD BC,%d", op.MemOffset)
		t.inst("ADD HL,BC")
	}
	t.inst("PUSH HL")
	t.inst("POP IX")
	t.inst("LD HL,0")
	t.inst("PUSH HL") // zero-extended high word
	t.inst("LD L,(IX+0)")
	t.inst("LD H,0")
	t.inst("PUSH HL")
}

// loopOp marks the start of the function's single loop label. The
// source ISA's nested block structure collapses to one label per
// function: flat control flow only. A non-empty block type means the
// loop produces a value mid-structure, which this translator does not
// model.
func (t *translator) loopOp(op wasmir.Operator) error {
	if op.NonEmptyBlockType {
		return &Error{Kind: UnsupportedControl, FuncIdx: t.funcIdx, Op: "loop",
			Message: "non-empty block type is not supported"}
	}
	t.comment("loop")
	t.labelDef(t.loopLabel)
	return nil
}

// brOp emits an unconditional jump back to the function's loop label.
// Only relative_depth == 0 is supported, matching the single-loop
// control-flow model.
func (t *translator) brOp(op wasmir.Operator) error {
	if op.RelativeDepth != 0 {
		return &Error{Kind: UnsupportedControl, FuncIdx: t.funcIdx, Op: "br",
			Message: "only relative_depth 0 is supported"}
	}
	t.comment("br 0")
	t.inst("JP %s", t.loopLabel)
	return nil
}

// brIfOp pops a condition and, if nonzero, jumps to the loop label.
func (t *translator) brIfOp(op wasmir.Operator) error {
	if op.RelativeDepth != 0 {
		return &Error{Kind: UnsupportedControl, FuncIdx: t.funcIdx, Op: "br_if",
			Message: "only relative_depth 0 is supported"}
	}
	t.comment("br_if 0")
	t.inst("POP DE")
	t.inst("POP BC")
	t.inst("LD A,D")
	t.inst("OR E")
	t.inst("OR B")
	t.inst("OR C")
	t.inst("JP NZ,%s", t.loopLabel)
	return nil
}

// callOp emits a call to another function in the module. Arguments are
// already on the stack in the callee's expected order, directly below
// where the callee's local slots need to go; this sequence zeros those
// slots, saves the caller's frame pointer, calls, then unwinds the
// callee's frame (locals, saved IY, arguments) off the stack, finally
// re-pushing any result above what's left.
func (t *translator) callOp(op wasmir.Operator) error {
	if int(op.FunctionIndex) >= len(t.module.Functions) {
		return &Error{Kind: MalformedBody, FuncIdx: t.funcIdx, Op: "call",
			Message: "function index out of range"}
	}
	callee := t.module.Functions[op.FunctionIndex]
	numLocals := callee.Body.LocalCount()
	numParams := len(callee.Type.Params)
	hasResult := callee.Type.HasResult()

	t.comment("call " + uintToStr(uint64(op.FunctionIndex)))
	t.inst("LD BC,0")
	for i := uint32(0); i < numLocals; i++ {
		t.inst("PUSH BC")
		t.inst("PUSH BC")
	}
	t.inst("PUSH IY")
	t.inst("CALL func_%d", op.FunctionIndex)
	if hasResult {
		t.inst("POP DE")
		t.inst("POP BC")
	}
	t.inst("POP IY")
	for i := 0; i < numParams+int(numLocals); i++ {
		t.inst("POP BC")
		t.inst("POP BC")
	}
	if hasResult {
		t.inst("PUSH BC")
		t.inst("PUSH DE")
	}
	return nil
}

func uintToStr(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
