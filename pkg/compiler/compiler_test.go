package compiler

import (
	"strings"
	"testing"

	"github.com/z80toolchain/wasm2z80/pkg/wasmir"
)

func TestModuleEmitsEntrySequence(t *testing.T) {
	mod := &wasmir.Module{
		Entry: 0,
		Functions: []wasmir.FunctionDef{{
			Type: wasmir.FuncType{Results: []wasmir.ValType{wasmir.ValI32}},
			Body: wasmir.SliceBody{Ops: []wasmir.Operator{
				{Kind: wasmir.OpI32Const, ConstValue: 7},
				{Kind: wasmir.OpEnd},
			}},
		}},
	}
	out, err := Module(mod)
	if err != nil {
		t.Fatalf("Module() error = %v", err)
	}
	lines := strings.SplitN(out, "\n", 4)
	if lines[0] != "LD SP,0xFFFB" {
		t.Errorf("line 0 = %q, want LD SP,0xFFFB", lines[0])
	}
	if lines[1] != "CALL func_0" {
		t.Errorf("line 1 = %q, want CALL func_0", lines[1])
	}
	if lines[2] != "HALT" {
		t.Errorf("line 2 = %q, want HALT", lines[2])
	}
	if !strings.Contains(out, "func_0:\n") {
		t.Errorf("expected func_0 label, got:\n%s", out)
	}
}

func TestModuleRejectsOutOfRangeEntry(t *testing.T) {
	mod := &wasmir.Module{Entry: 3, Functions: nil}
	if _, err := Module(mod); err == nil {
		t.Fatal("expected error for out-of-range entry, got nil")
	}
}

func TestModuleLabelsAreUniqueAcrossFunctions(t *testing.T) {
	loopBody := wasmir.SliceBody{Ops: []wasmir.Operator{
		{Kind: wasmir.OpLoop},
		{Kind: wasmir.OpBr, RelativeDepth: 0},
	}}
	mod := &wasmir.Module{
		Entry: 0,
		Functions: []wasmir.FunctionDef{
			{Type: wasmir.FuncType{}, Body: loopBody},
			{Type: wasmir.FuncType{}, Body: loopBody},
		},
	}
	out, err := Module(mod)
	if err != nil {
		t.Fatalf("Module() error = %v", err)
	}
	if strings.Count(out, "label_0:") != 1 {
		t.Errorf("expected exactly one label_0 definition across the whole module, got:\n%s", out)
	}
	if strings.Count(out, "label_1:") != 1 {
		t.Errorf("expected exactly one label_1 definition across the whole module, got:\n%s", out)
	}
}

func TestModulePropagatesCodegenError(t *testing.T) {
	mod := &wasmir.Module{
		Entry: 0,
		Functions: []wasmir.FunctionDef{{
			Type: wasmir.FuncType{},
			Body: wasmir.SliceBody{Ops: []wasmir.Operator{{Kind: wasmir.OpUnsupported, Name: "f32.add"}}},
		}},
	}
	if _, err := Module(mod); err == nil {
		t.Fatal("expected propagated codegen error, got nil")
	}
}
