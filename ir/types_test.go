package ir_test

import (
	"testing"

	"github.com/gx-org/shapecheck/ir"
)

func TestSimplify(t *testing.T) {
	tensor := &ir.SpecializedType{
		Base: &ir.NamedType{Name: "Tensor"},
		Args: []ir.Type{&ir.NamedType{Name: "Float"}},
	}
	tests := []struct {
		typ  ir.Type
		want string
	}{
		{
			typ:  &ir.OwnershipType{Marker: "@owned", Wrapped: &ir.NamedType{Name: "Int"}},
			want: "Int",
		},
		{
			typ: &ir.AttributedType{Attr: "@callee_guaranteed", Wrapped: &ir.GenericType{
				Wrapped: &ir.NamedType{Name: "Bool"},
			}},
			want: "Bool",
		},
		{
			typ:  &ir.GenericType{Wrapped: &ir.OwnershipType{Marker: "@guaranteed", Wrapped: tensor}},
			want: "Tensor<Float>",
		},
		// Addresses are structural, not wrappers.
		{
			typ:  &ir.AddressType{Pointee: &ir.NamedType{Name: "Int"}},
			want: "*Int",
		},
	}
	for _, test := range tests {
		got := ir.Simplify(test.typ)
		if got.String() != test.want {
			t.Errorf("simplify(%s) = %s but want %s", test.typ, got, test.want)
		}
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		typ  ir.Type
		want string
	}{
		{
			typ: &ir.SpecializedType{
				Base: &ir.NamedType{Name: "Tensor"},
				Args: []ir.Type{&ir.NamedType{Name: "Float"}},
			},
			want: "Tensor",
		},
		{typ: &ir.NamedType{Name: "Int"}, want: "Int"},
		{typ: &ir.TupleType{}, want: ""},
		{typ: &ir.BuiltinType{Name: "Int64"}, want: ""},
	}
	for _, test := range tests {
		if got := ir.BaseName(test.typ); got != test.want {
			t.Errorf("baseName(%s) = %q but want %q", test.typ, got, test.want)
		}
	}
}
