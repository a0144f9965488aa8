package check_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gx-org/shapecheck/abstract"
	"github.com/gx-org/shapecheck/check"
	"github.com/gx-org/shapecheck/fmterr"
	"github.com/gx-org/shapecheck/ir"
)

const (
	rankGetter = "$s10TensorFlow0A0V4rankSivg"
	intEqFn    = "$sSi2eeoiySbSi_SitFZ"
	assertFn   = "$ss6assert__4file4lineySbyXK_SSyXKs12StaticStringVSutF"
)

func tensorType() ir.Type {
	return &ir.SpecializedType{
		Base: &ir.NamedType{Name: "Tensor"},
		Args: []ir.Type{&ir.NamedType{Name: "Float"}},
	}
}

func op(name string, t ir.Type, o ir.Operator) ir.OperatorDef {
	var results []ir.Result
	if name != "" {
		results = []ir.Result{{Name: ir.Register(name), Type: t}}
	}
	return ir.OperatorDef{Results: results, Op: o}
}

// rankIs2 reports whether the rank of its tensor argument is two:
//
//	func rankIs2(x: Tensor) -> Bool { return x.rank == 2 }
func rankIs2() *ir.Function {
	return &ir.Function{
		Name:       "rankIs2",
		ReturnType: &ir.NamedType{Name: "Bool"},
		Blocks: []ir.Block{{
			Name:      "bb0",
			Arguments: []ir.Argument{{Name: "%x", Type: tensorType()}},
			Operators: []ir.OperatorDef{
				op("%rf", nil, &ir.FunctionRef{Name: rankGetter}),
				op("%r", &ir.NamedType{Name: "Int"}, &ir.Apply{Callee: "%rf", Args: []ir.Register{"%x"}}),
				op("%two", nil, &ir.IntegerLiteral{Value: 2}),
				op("%ef", nil, &ir.FunctionRef{Name: intEqFn}),
				op("%e", &ir.NamedType{Name: "Bool"}, &ir.Apply{Callee: "%ef", Args: []ir.Register{"%r", "%two"}}),
			},
			Terminator: ir.TerminatorDef{Term: &ir.Return{Operand: "%e"}},
		}},
	}
}

// main asserts rankIs2 over its argument:
//
//	func main(x: Tensor) { assert(rankIs2(x)) }
func mainFn() *ir.Function {
	return &ir.Function{
		Name: "main",
		Blocks: []ir.Block{{
			Name:      "bb0",
			Arguments: []ir.Argument{{Name: "%x", Type: tensorType()}},
			Operators: []ir.OperatorDef{
				op("%cf", nil, &ir.FunctionRef{Name: "rankIs2"}),
				op("%p", nil, &ir.PartialApply{Callee: "%cf", Args: []ir.Register{"%x"}}),
				op("%af", nil, &ir.FunctionRef{Name: assertFn}),
				op("%u", nil, &ir.Apply{Callee: "%af", Args: []ir.Register{"%p"}}),
			},
			Terminator: ir.TerminatorDef{Term: &ir.Return{Operand: ""}},
		}},
	}
}

func TestAnalyze(t *testing.T) {
	var warnings fmterr.Warnings
	result, err := check.Analyze(
		[]*ir.Function{mainFn(), rankIs2()},
		nil,
		&check.Options{Abstract: &abstract.Options{Warner: &warnings}},
	)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings.All()) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings.All())
	}
	if len(result.Summaries) != 2 {
		t.Fatalf("got %d summaries but want 2", len(result.Summaries))
	}
	var got []string
	for _, c := range result.Constraints["main"] {
		got = append(got, c.String())
	}
	// The assert in main reduces to the callee's rank equation over
	// main's own argument shape.
	want := []string{"(rank(s0) = 2) [asserted]"}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("unexpected constraints for main (-want +got):\n%s", d)
	}
}

func TestAnalyzeSkippedFunctionIsOpaque(t *testing.T) {
	odd := &ir.Function{
		Name: "odd",
		Blocks: []ir.Block{{
			Name:       "bb0",
			Terminator: ir.TerminatorDef{Term: &ir.UnknownTerminator{Name: "throw"}},
		}},
	}
	var warnings fmterr.Warnings
	result, err := check.Analyze(
		[]*ir.Function{odd, rankIs2()},
		nil,
		&check.Options{Abstract: &abstract.Options{Warner: &warnings}},
	)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings.All()) != 1 {
		t.Fatalf("got %d warnings but want 1", len(warnings.All()))
	}
	if _, in := result.Summaries["odd"]; in {
		t.Errorf("skipped function has a summary")
	}
	if _, in := result.Summaries["rankIs2"]; !in {
		t.Errorf("healthy function lost its summary")
	}
}
