package fixture

import (
	"strings"
	"testing"

	"github.com/z80toolchain/wasm2z80/pkg/wasmir"
)

const addOneJSON = `{
  "entry": 0,
  "functions": [
    {
      "params": 1,
      "has_result": true,
      "locals": 0,
      "body": [
        {"op": "local.get", "local_index": 0},
        {"op": "i32.const", "value": 1},
        {"op": "i32.add"},
        {"op": "end"}
      ]
    }
  ]
}`

func TestDecodeAddOne(t *testing.T) {
	mod, err := Decode(strings.NewReader(addOneJSON))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(mod.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(mod.Functions))
	}
	fn := mod.Functions[0]
	if len(fn.Type.Params) != 1 {
		t.Errorf("expected 1 param, got %d", len(fn.Type.Params))
	}
	if !fn.Type.HasResult() {
		t.Errorf("expected HasResult() true")
	}

	r := fn.Body.Operators()
	var kinds []wasmir.OpKind
	for {
		op, err := r.Read()
		if err == wasmir.ErrEndOfBody {
			break
		}
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		kinds = append(kinds, op.Kind)
	}
	want := []wasmir.OpKind{wasmir.OpLocalGet, wasmir.OpI32Const, wasmir.OpI32Add, wasmir.OpEnd}
	if len(kinds) != len(want) {
		t.Fatalf("got %d operators, want %d", len(kinds), len(want))
	}
	for i, k := range kinds {
		if k != want[i] {
			t.Errorf("operator %d = %v, want %v", i, k, want[i])
		}
	}
}

func TestDecodeRejectsUnknownOperator(t *testing.T) {
	body := `{"entry":0,"functions":[{"params":0,"has_result":false,"locals":0,"body":[{"op":"f64.add"}]}]}`
	if _, err := Decode(strings.NewReader(body)); err == nil {
		t.Fatal("expected error for unknown operator, got nil")
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	body := `{"entry":0,"functions":[],"extra_field":true}`
	if _, err := Decode(strings.NewReader(body)); err == nil {
		t.Fatal("expected error for unknown top-level field, got nil")
	}
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	if _, err := Decode(strings.NewReader("{not json")); err == nil {
		t.Fatal("expected error for malformed JSON, got nil")
	}
}
