package transform_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/shapecheck/constraint"
	"github.com/gx-org/shapecheck/transform"
)

func implied(cond constraint.BoolExpr) *constraint.Constraint {
	return &constraint.Constraint{
		Cond:     cond,
		Assuming: constraint.True,
		Origin:   constraint.Implied,
	}
}

func asserted(cond constraint.BoolExpr) *constraint.Constraint {
	return &constraint.Constraint{
		Cond:     cond,
		Assuming: constraint.True,
		Origin:   constraint.Asserted,
	}
}

func intEq(x, y constraint.IntExpr) *constraint.IntCmp {
	return &constraint.IntCmp{Op: constraint.Eq, X: x, Y: y}
}

func intGt(x, y constraint.IntExpr) *constraint.IntCmp {
	return &constraint.IntCmp{Op: constraint.Gt, X: x, Y: y}
}

func listEq(x, y constraint.ListExpr) *constraint.ListEq {
	return &constraint.ListEq{X: x, Y: y}
}

func boolEq(x, y constraint.BoolExpr) *constraint.BoolEq {
	return &constraint.BoolEq{X: x, Y: y}
}

func render(cs []*constraint.Constraint) string {
	ss := make([]string, len(cs))
	for i, c := range cs {
		ss[i] = c.String()
	}
	return strings.Join(ss, "\n")
}

func diff(t *testing.T, got, want []*constraint.Constraint) {
	t.Helper()
	if d := cmp.Diff(render(want), render(got)); d != "" {
		t.Errorf("unexpected constraints (-want +got):\n%s", d)
	}
}

func TestDeduplicate(t *testing.T) {
	gt := implied(intGt(intVar(0), lit(2)))
	eq := implied(listEq(listVar(0), shape(lit(4))))
	userGt := asserted(intGt(intVar(0), lit(2)))
	in := []*constraint.Constraint{gt, eq, gt, userGt, eq, gt}
	// The asserted copy has a different origin: it is not a duplicate
	// of the implied one.
	want := []*constraint.Constraint{gt, eq, userGt}
	got := transform.Deduplicate(in)
	diff(t, got, want)
	diff(t, transform.Deduplicate(got), want)
}

func TestInlineChain(t *testing.T) {
	in := []*constraint.Constraint{
		implied(intEq(intVar(0), bin(constraint.Add, lit(2), lit(3)))),
		implied(intEq(intVar(1), bin(constraint.Mul, intVar(0), intVar(0)))),
		implied(intEq(intVar(2), bin(constraint.Sub, intVar(1), lit(5)))),
		implied(intEq(&constraint.Element{Index: 0, Of: listVar(3)}, intVar(2))),
	}
	want := []*constraint.Constraint{
		implied(intEq(&constraint.Element{Index: 0, Of: listVar(3)}, lit(20))),
	}
	got := transform.Inline(in)
	diff(t, got, want)
	diff(t, transform.Inline(got), want)
}

func TestInlineOrderSensitive(t *testing.T) {
	// d0 is used before its definition: nothing may change.
	in := []*constraint.Constraint{
		implied(intGt(intVar(0), intVar(1))),
		implied(intEq(intVar(0), lit(2))),
	}
	got := transform.Inline(in)
	diff(t, got, in)
}

func TestInlineSelfReference(t *testing.T) {
	// d0 = d0 + 1 cannot be inlined.
	in := []*constraint.Constraint{
		implied(intEq(intVar(0), bin(constraint.Add, intVar(0), lit(1)))),
		implied(intGt(intVar(0), lit(2))),
	}
	got := transform.Inline(in)
	diff(t, got, in)
}

func TestInlineLateDefinition(t *testing.T) {
	// d0 = d1 is recorded first; the later d1 = 5 must flow into the
	// recorded binding before d0 is used.
	in := []*constraint.Constraint{
		implied(intEq(intVar(0), intVar(1))),
		implied(intEq(intVar(1), lit(5))),
		implied(intGt(intVar(0), lit(0))),
	}
	want := []*constraint.Constraint{
		implied(intGt(lit(5), lit(0))),
	}
	got := transform.Inline(in)
	diff(t, got, want)
}

func TestInlineConditionalDefinition(t *testing.T) {
	// A guarded definition does not participate.
	guarded := &constraint.Constraint{
		Cond:     intEq(intVar(0), lit(2)),
		Assuming: boolVar(9),
		Origin:   constraint.Implied,
	}
	in := []*constraint.Constraint{
		guarded,
		implied(intGt(intVar(0), lit(1))),
	}
	got := transform.Inline(in)
	diff(t, got, in)
}

func TestResolveEqualitiesEverything(t *testing.T) {
	in := []*constraint.Constraint{
		implied(listEq(listVar(0), listVar(1))),
		implied(listEq(listVar(1), shape(nil))),
		implied(intGt(intVar(3), lit(2))),
		implied(intEq(intVar(2), intVar(3))),
	}
	want := []*constraint.Constraint{
		implied(listEq(listVar(0), shape(nil))),
		implied(intGt(intVar(2), lit(2))),
	}
	got := transform.ResolveEqualities(in, transform.Everything)
	diff(t, got, want)
	diff(t, transform.ResolveEqualities(got, transform.Everything), want)
}

func TestResolveEqualitiesShapeOnly(t *testing.T) {
	in := []*constraint.Constraint{
		implied(listEq(listVar(0), listVar(1))),
		implied(listEq(listVar(1), shape(nil))),
		implied(intGt(intVar(3), lit(2))),
		implied(intEq(intVar(2), intVar(3))),
	}
	want := []*constraint.Constraint{
		implied(listEq(listVar(0), shape(nil))),
		implied(intGt(intVar(3), lit(2))),
		implied(intEq(intVar(2), intVar(3))),
	}
	got := transform.ResolveEqualities(in, transform.Shape)
	diff(t, got, want)
}

func TestResolveEqualitiesPreservesAsserted(t *testing.T) {
	in := []*constraint.Constraint{
		implied(intEq(intVar(0), intVar(1))),
		asserted(intGt(intVar(1), lit(2))),
	}
	got := transform.ResolveEqualities(in, transform.Everything)
	want := []*constraint.Constraint{
		asserted(intGt(intVar(0), lit(2))),
	}
	diff(t, got, want)
}

func TestInlineBoolVars(t *testing.T) {
	in := []*constraint.Constraint{
		asserted(boolVar(0)),
		implied(boolEq(boolVar(0), intGt(intVar(0), lit(2)))),
	}
	want := []*constraint.Constraint{
		asserted(intGt(intVar(0), lit(2))),
	}
	got := transform.InlineBoolVars(in)
	diff(t, got, want)
	diff(t, transform.InlineBoolVars(got), want)
}

func TestInlineBoolVarsHardCase(t *testing.T) {
	// b0 is chained through b1: the conservative rule refuses.
	in := []*constraint.Constraint{
		implied(boolEq(boolVar(0), boolVar(1))),
		implied(boolEq(boolVar(0), intGt(intVar(0), lit(4)))),
		asserted(boolVar(1)),
	}
	got := transform.InlineBoolVars(in)
	diff(t, got, in)
}

func TestPipelineFixpoint(t *testing.T) {
	in := []*constraint.Constraint{
		implied(intEq(intVar(0), bin(constraint.Add, lit(2), lit(3)))),
		asserted(boolVar(1)),
		implied(boolEq(boolVar(1), intGt(intVar(2), intVar(0)))),
		implied(intEq(intVar(2), intVar(3))),
	}
	got, err := transform.Pipeline(in, transform.Everything)
	if err != nil {
		t.Fatal(err)
	}
	want := []*constraint.Constraint{
		asserted(intGt(intVar(2), lit(5))),
	}
	diff(t, got, want)
}
