package wasmir

import "testing"

func TestSliceBodyReadsInOrder(t *testing.T) {
	body := SliceBody{
		Locals: 2,
		Ops: []Operator{
			{Kind: OpLocalGet, LocalIndex: 0},
			{Kind: OpI32Const, ConstValue: 42},
			{Kind: OpEnd},
		},
	}

	if got := body.LocalCount(); got != 2 {
		t.Errorf("LocalCount() = %d, want 2", got)
	}

	r := body.Operators()
	want := []OpKind{OpLocalGet, OpI32Const, OpEnd}
	for i, k := range want {
		op, err := r.Read()
		if err != nil {
			t.Fatalf("Read() #%d: unexpected error %v", i, err)
		}
		if op.Kind != k {
			t.Errorf("Read() #%d kind = %v, want %v", i, op.Kind, k)
		}
	}

	if _, err := r.Read(); err != ErrEndOfBody {
		t.Errorf("Read() at end = %v, want ErrEndOfBody", err)
	}
}

func TestSliceBodyFreshReaderPerCall(t *testing.T) {
	body := SliceBody{Ops: []Operator{{Kind: OpEnd}}}

	r1 := body.Operators()
	if _, err := r1.Read(); err != nil {
		t.Fatalf("first reader Read(): %v", err)
	}

	r2 := body.Operators()
	op, err := r2.Read()
	if err != nil {
		t.Fatalf("second reader Read(): %v", err)
	}
	if op.Kind != OpEnd {
		t.Errorf("second reader should restart at the beginning, got %v", op.Kind)
	}
}

func TestFuncTypeHasResult(t *testing.T) {
	tests := []struct {
		name string
		t    FuncType
		want bool
	}{
		{"no results", FuncType{}, false},
		{"one result", FuncType{Results: []ValType{ValI32}}, true},
	}
	for _, tc := range tests {
		if got := tc.t.HasResult(); got != tc.want {
			t.Errorf("%s: HasResult() = %v, want %v", tc.name, got, tc.want)
		}
	}
}
