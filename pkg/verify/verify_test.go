package verify

import (
	"testing"

	"github.com/z80toolchain/wasm2z80/pkg/wasmir"
)

func TestQuickCheckAdd(t *testing.T) {
	if err := QuickCheckBinary("i32.add", wasmir.OpI32Add); err != nil {
		t.Error(err)
	}
}

func TestQuickCheckAnd(t *testing.T) {
	if err := QuickCheckBinary("i32.and", wasmir.OpI32And); err != nil {
		t.Error(err)
	}
}

func TestQuickCheckGtU(t *testing.T) {
	if err := QuickCheckBinary("i32.gt_u", wasmir.OpI32GtU); err != nil {
		t.Error(err)
	}
}

func TestQuickCheckEqz(t *testing.T) {
	if err := QuickCheckUnary("i32.eqz", wasmir.OpI32Eqz); err != nil {
		t.Error(err)
	}
}

func TestExhaustiveAddAcrossCarryBoundary(t *testing.T) {
	if err := ExhaustiveCheckBinary("i32.add", wasmir.OpI32Add, []uint32{0x0000, 0x0001, 0xFFFF, 0x7FFF, 0x8000}); err != nil {
		t.Error(err)
	}
}

func TestExhaustiveGtUAcrossCarryBoundary(t *testing.T) {
	if err := ExhaustiveCheckBinary("i32.gt_u", wasmir.OpI32GtU, []uint32{0x0000, 0x0001, 0xFFFF, 0x7FFF, 0x8000}); err != nil {
		t.Error(err)
	}
}
