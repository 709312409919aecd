package wasmir

// OpKind identifies the variant of an Operator. The set is closed and
// small; dispatch on it is a plain switch, not a registry.
type OpKind uint8

const (
	OpLocalGet OpKind = iota
	OpLocalTee
	OpI32Const
	OpI32Add
	OpI32And
	OpI32GtU
	OpI32Eqz
	OpI32Store8
	OpI32Load8U
	OpSelect
	OpLoop
	OpBr
	OpBrIf
	OpCall
	OpEnd

	// OpUnsupported represents any source-ISA operator outside the subset
	// above. A real binary decoder would parse the full operator set and
	// map everything this translator does not lower to OpUnsupported,
	// carrying the operator's name in Operator.Name so the translator can
	// report it. pkg/fixture refuses to decode such operators at all
	// (MalformedBody), since its JSON vocabulary only names supported
	// operators; OpUnsupported exists for a fuller decoder to use.
	OpUnsupported
)

// String renders the operator kind using source-ISA spelling, for error
// messages and assembly comments.
func (k OpKind) String() string {
	switch k {
	case OpLocalGet:
		return "local.get"
	case OpLocalTee:
		return "local.tee"
	case OpI32Const:
		return "i32.const"
	case OpI32Add:
		return "i32.add"
	case OpI32And:
		return "i32.and"
	case OpI32GtU:
		return "i32.gt_u"
	case OpI32Eqz:
		return "i32.eqz"
	case OpI32Store8:
		return "i32.store8"
	case OpI32Load8U:
		return "i32.load8_u"
	case OpSelect:
		return "select"
	case OpLoop:
		return "loop"
	case OpBr:
		return "br"
	case OpBrIf:
		return "br_if"
	case OpCall:
		return "call"
	case OpEnd:
		return "end"
	case OpUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Operator is a single source-ISA instruction. It is a flat tagged struct
// rather than an interface hierarchy — the variant set is closed, and a
// single struct keeps decoding (pkg/fixture) and dispatch (pkg/codegen)
// both a plain switch over Kind.
//
// Only the fields relevant to Kind are meaningful; the rest are zero.
type Operator struct {
	Kind OpKind

	LocalIndex        uint32 // local.get, local.tee
	ConstValue        int32  // i32.const
	MemOffset         uint32 // i32.store8, i32.load8_u
	RelativeDepth     uint32 // br, br_if
	FunctionIndex     uint32 // call
	NonEmptyBlockType bool   // loop: true if the block type wasn't empty
	Name              string // OpUnsupported: the source-ISA operator name
}
