package ir_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/shapecheck/ir"
)

func TestTypeEnvironmentFromYAML(t *testing.T) {
	src := `
Dense:
  - {name: weight, type: Tensor}
  - {name: bias, type: Tensor}
Conv2D:
  - {name: filters, type: Int}
  - {name: kernelSize, type: TensorShape}
`
	env, err := ir.TypeEnvironmentFromYAML([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	want := ir.TypeEnvironment{
		"Dense": {
			{Name: "weight", Type: &ir.NamedType{Name: "Tensor"}},
			{Name: "bias", Type: &ir.NamedType{Name: "Tensor"}},
		},
		"Conv2D": {
			{Name: "filters", Type: &ir.NamedType{Name: "Int"}},
			{Name: "kernelSize", Type: &ir.NamedType{Name: "TensorShape"}},
		},
	}
	if d := cmp.Diff(want, env); d != "" {
		t.Errorf("unexpected environment (-want +got):\n%s", d)
	}
	at, err := env.FieldIndex("Dense", "bias")
	if err != nil {
		t.Fatal(err)
	}
	if at != 1 {
		t.Errorf("bias is at %d but want 1", at)
	}
	if _, err := env.FieldIndex("Dense", "stride"); err == nil {
		t.Error("unknown field resolved without an error")
	}
	if _, err := env.FieldIndex("LSTM", "bias"); err == nil {
		t.Error("unknown type resolved without an error")
	}
}

func TestTypeEnvironmentFromYAMLErrors(t *testing.T) {
	if _, err := ir.TypeEnvironmentFromYAML([]byte("{")); err == nil {
		t.Error("malformed document parsed without an error")
	}
	if _, err := ir.TypeEnvironmentFromYAML([]byte("T:\n  - {type: Int}\n")); err == nil {
		t.Error("unnamed field parsed without an error")
	}
}
