// Package fixture decodes a JSON description of a source-ISA module into
// the in-memory shapes pkg/wasmir and pkg/codegen operate on. It stands in
// for the binary module parser this repository does not implement: a real
// decoder produces the same wasmir.Module, fixture is the hand-authorable
// substitute used by tests and the CLI.
package fixture

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/z80toolchain/wasm2z80/pkg/codegen"
	"github.com/z80toolchain/wasm2z80/pkg/wasmir"
)

// Module is the on-disk JSON shape of a whole module.
type Module struct {
	Entry     int        `json:"entry"`
	Functions []Function `json:"functions"`
}

// Function is the on-disk JSON shape of one function: its signature,
// declared local count, and operator body.
type Function struct {
	Params    int        `json:"params"`
	HasResult bool       `json:"has_result"`
	Locals    uint32     `json:"locals"`
	Body      []Operator `json:"body"`
}

// Operator is the on-disk JSON shape of one operator. Op names the
// operator using source-ISA spelling (e.g. "i32.add", "local.get");
// the remaining fields are interpreted according to Op and left zero
// otherwise.
type Operator struct {
	Op            string `json:"op"`
	LocalIndex    uint32 `json:"local_index,omitempty"`
	Value         int32  `json:"value,omitempty"`
	Offset        uint32 `json:"offset,omitempty"`
	RelativeDepth uint32 `json:"relative_depth,omitempty"`
	FunctionIndex uint32 `json:"function_index,omitempty"`
	NonEmptyBlock bool   `json:"non_empty_block,omitempty"`
}

// Decode reads a JSON module description from r and converts it to a
// wasmir.Module. Unlike a real binary decoder, an operator name outside
// the supported vocabulary is rejected immediately as malformed input
// rather than carried forward as wasmir.OpUnsupported: the fixture
// format only ever names operators this translator knows how to spell.
func Decode(r io.Reader) (*wasmir.Module, error) {
	var raw Module
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("fixture: decode module: %w",
			&codegen.Error{Kind: codegen.MalformedBody, FuncIdx: -1, Message: err.Error()})
	}

	mod := &wasmir.Module{
		Entry:     raw.Entry,
		Functions: make([]wasmir.FunctionDef, len(raw.Functions)),
	}
	for i, fn := range raw.Functions {
		ops := make([]wasmir.Operator, len(fn.Body))
		for j, op := range fn.Body {
			converted, err := convertOperator(op)
			if err != nil {
				return nil, fmt.Errorf("fixture: function %d operator %d: %w", i, j,
					&codegen.Error{Kind: codegen.MalformedBody, FuncIdx: i, Op: op.Op, Message: err.Error()})
			}
			ops[j] = converted
		}

		params := make([]wasmir.ValType, fn.Params)
		for p := range params {
			params[p] = wasmir.ValI32
		}
		var results []wasmir.ValType
		if fn.HasResult {
			results = []wasmir.ValType{wasmir.ValI32}
		}

		mod.Functions[i] = wasmir.FunctionDef{
			Type: wasmir.FuncType{Params: params, Results: results},
			Body: wasmir.SliceBody{Locals: fn.Locals, Ops: ops},
		}
	}
	return mod, nil
}

var opKinds = map[string]wasmir.OpKind{
	"local.get":   wasmir.OpLocalGet,
	"local.tee":   wasmir.OpLocalTee,
	"i32.const":   wasmir.OpI32Const,
	"i32.add":     wasmir.OpI32Add,
	"i32.and":     wasmir.OpI32And,
	"i32.gt_u":    wasmir.OpI32GtU,
	"i32.eqz":     wasmir.OpI32Eqz,
	"i32.store8":  wasmir.OpI32Store8,
	"i32.load8_u": wasmir.OpI32Load8U,
	"select":      wasmir.OpSelect,
	"loop":        wasmir.OpLoop,
	"br":          wasmir.OpBr,
	"br_if":       wasmir.OpBrIf,
	"call":        wasmir.OpCall,
	"end":         wasmir.OpEnd,
}

func convertOperator(op Operator) (wasmir.Operator, error) {
	kind, ok := opKinds[op.Op]
	if !ok {
		return wasmir.Operator{}, fmt.Errorf("unknown operator %q", op.Op)
	}
	return wasmir.Operator{
		Kind:              kind,
		LocalIndex:        op.LocalIndex,
		ConstValue:        op.Value,
		MemOffset:         op.Offset,
		RelativeDepth:     op.RelativeDepth,
		FunctionIndex:     op.FunctionIndex,
		NonEmptyBlockType: op.NonEmptyBlock,
	}, nil
}
