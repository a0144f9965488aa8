package constraint_test

import (
	"testing"

	"github.com/gx-org/shapecheck/constraint"
	"github.com/gx-org/shapecheck/ir"
)

func lit(v int64) *constraint.IntLit {
	return &constraint.IntLit{Value: v}
}

func intVar(id int) *constraint.IntVar {
	return &constraint.IntVar{ID: id}
}

func listVar(id int) *constraint.ListVar {
	return &constraint.ListVar{ID: id}
}

func boolVar(id int) *constraint.BoolVar {
	return &constraint.BoolVar{ID: id}
}

func TestString(t *testing.T) {
	tests := []struct {
		expr constraint.Expr
		want string
	}{
		{
			expr: intVar(0),
			want: "d0",
		},
		{
			expr: &constraint.IntBinary{Op: constraint.Add, X: lit(2), Y: lit(3)},
			want: "(2 + 3)",
		},
		{
			expr: &constraint.Element{Index: -2, Of: listVar(1)},
			want: "s1[-2]",
		},
		{
			expr: &constraint.Length{Of: listVar(1)},
			want: "rank(s1)",
		},
		{
			expr: &constraint.ListLit{Dims: []constraint.IntExpr{lit(8), nil, intVar(0)}},
			want: "[8, _, d0]",
		},
		{
			expr: &constraint.Broadcast{X: listVar(0), Y: listVar(1)},
			want: "broadcast(s0, s1)",
		},
		{
			expr: &constraint.Hole{Loc: &ir.SourceLocation{Path: "model.sw", Line: 12}},
			want: "?model.sw:12",
		},
		{
			expr: &constraint.IntCmp{Op: constraint.Ge, X: intVar(0), Y: lit(1)},
			want: "(d0 >= 1)",
		},
		{
			expr: &constraint.Not{X: boolVar(2)},
			want: "!(b2)",
		},
		{
			expr: constraint.MakeAnd(boolVar(0), constraint.MakeAnd(boolVar(1), boolVar(2))),
			want: "(b0 and b1 and b2)",
		},
		{
			expr: constraint.MakeOr(boolVar(0), constraint.False),
			want: "b0",
		},
		{
			expr: constraint.MakeAnd(boolVar(0), constraint.False),
			want: "false",
		},
		{
			expr: constraint.MakeAnd(),
			want: "true",
		},
		{
			expr: &constraint.Tuple{Elems: []constraint.Expr{intVar(0), nil, listVar(1)}},
			want: "(d0, _, s1)",
		},
	}
	for _, test := range tests {
		got := test.expr.String()
		if got != test.want {
			t.Errorf("got %q but want %q", got, test.want)
		}
	}
}

func TestEqual(t *testing.T) {
	hereA := &constraint.Hole{Loc: &ir.SourceLocation{Path: "a.sw", Line: 1}}
	hereB := &constraint.Hole{Loc: &ir.SourceLocation{Path: "a.sw", Line: 2}}
	tests := []struct {
		a, b constraint.Expr
		want bool
	}{
		{a: intVar(0), b: intVar(0), want: true},
		{a: intVar(0), b: intVar(1), want: false},
		{
			a:    &constraint.IntBinary{Op: constraint.Add, X: lit(1), Y: lit(2)},
			b:    &constraint.IntBinary{Op: constraint.Add, X: lit(1), Y: lit(2)},
			want: true,
		},
		// Holes merge only at the same location.
		{a: hereA, b: &constraint.Hole{Loc: &ir.SourceLocation{Path: "a.sw", Line: 1}}, want: true},
		{a: hereA, b: hereB, want: false},
		{a: nil, b: nil, want: true},
		{a: intVar(0), b: nil, want: false},
	}
	for _, test := range tests {
		if got := constraint.Equal(test.a, test.b); got != test.want {
			t.Errorf("Equal(%v, %v) = %v but want %v", test.a, test.b, got, test.want)
		}
	}
}

func TestMakeNot(t *testing.T) {
	if got := constraint.MakeNot(constraint.True); got != constraint.False {
		t.Errorf("got %s but want false", got)
	}
	inner := boolVar(0)
	if got := constraint.MakeNot(constraint.MakeNot(inner)); got != inner {
		t.Errorf("got %s but want b0", got)
	}
}
