// Package compiler drives whole-module compilation: it establishes the
// stack pointer, calls into the entry function, halts, and then lowers
// every function in declaration order using pkg/codegen.
//
// Grounded on original_source/src/compile.rs's Module::compile.
package compiler

import (
	"fmt"
	"strings"

	"github.com/z80toolchain/wasm2z80/pkg/codegen"
	"github.com/z80toolchain/wasm2z80/pkg/label"
	"github.com/z80toolchain/wasm2z80/pkg/wasmir"
)

// stackTop is the initial stack pointer value, a fixed convention five
// bytes below the top of the 64K address space. The stack grows downward
// from here; linear memory lies below it.
const stackTop = 0xFFFB

// Module compiles every function in mod and returns the full assembly
// text: prologue (stack setup, entry call, HALT) followed by one
// func_<index>: block per function. Labels are allocated from a single
// shared allocator so label_<n> tokens are unique across the whole
// module, not just within one function.
func Module(mod *wasmir.Module) (string, error) {
	if mod.Entry < 0 || mod.Entry >= len(mod.Functions) {
		return "", fmt.Errorf("compiler: entry index %d out of range for %d functions", mod.Entry, len(mod.Functions))
	}

	var out strings.Builder
	fmt.Fprintf(&out, "LD SP,0x%04X\n", stackTop)
	fmt.Fprintf(&out, "CALL func_%d\n", mod.Entry)
	out.WriteString("HALT\n")

	labels := label.New()
	for i := range mod.Functions {
		fmt.Fprintf(&out, "func_%d:\n", i)
		body, err := codegen.Function(mod, i, labels)
		if err != nil {
			return "", err
		}
		out.WriteString(body)
	}
	return out.String(), nil
}
