package astbuild

import (
	"reflect"
	"testing"

	"scad/internal/ast"
	"scad/internal/cst"
	"scad/internal/grammar"
	"scad/internal/source"
)

// The positional shim must lower label-free trees to the same AST
// values the labeled path produces. These tests rebuild parsed shapes
// child-by-child without AddField and compare the results deeply.

func TestPositionalParenEquivalence(t *testing.T) {
	src := "x = (1 + 2);"
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.scad", []byte(src))
	tree, errs := grammar.Parse(fs.Get(id), grammar.Options{})
	if len(errs) != 0 {
		t.Fatalf("parse reported %d errors", len(errs))
	}
	stmts := Build(tree)
	if len(stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(stmts))
	}
	want := stmts[0].(*ast.Assignment).Value

	sp := func(a, b uint32) source.Span { return source.Span{File: id, Start: a, End: b} }
	paren := cst.NewNode(cst.KindParenthesizedExpression, sp(4, 11))
	bin := cst.NewNode(cst.KindBinaryExpression, sp(5, 10))
	bin.AddChild(cst.NewNode(cst.KindNumber, sp(5, 6)))
	bin.AddChild(cst.NewToken("+", sp(7, 8)))
	bin.AddChild(cst.NewNode(cst.KindNumber, sp(9, 10)))
	paren.AddChild(bin)

	got := NewBuilder([]byte(src)).Visit(paren)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("positional lowering differs:\n got %#v\nwant %#v", got, want)
	}
}

func TestPositionalInstantiationEquivalence(t *testing.T) {
	src := "cube(size = 10);"
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.scad", []byte(src))
	tree, errs := grammar.Parse(fs.Get(id), grammar.Options{})
	if len(errs) != 0 {
		t.Fatalf("parse reported %d errors", len(errs))
	}
	stmts := Build(tree)
	if len(stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(stmts))
	}
	want := stmts[0]

	sp := func(a, b uint32) source.Span { return source.Span{File: id, Start: a, End: b} }
	inst := cst.NewNode(cst.KindModuleInstantiation, sp(0, 16))
	inst.AddChild(cst.NewNode(cst.KindIdentifier, sp(0, 4)))
	args := cst.NewNode(cst.KindArguments, sp(4, 15))
	arg := cst.NewNode(cst.KindArgument, sp(5, 14))
	arg.AddChild(cst.NewNode(cst.KindIdentifier, sp(5, 9)))
	arg.AddChild(cst.NewNode(cst.KindNumber, sp(12, 14)))
	args.AddChild(arg)
	inst.AddChild(args)

	got := NewBuilder([]byte(src)).Visit(inst)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("positional lowering differs:\n got %#v\nwant %#v", got, want)
	}
}

func TestPositionalBareArgument(t *testing.T) {
	// One unlabeled child must read as the value, not as a name.
	src := "f(w)"
	sp := func(a, b uint32) source.Span { return source.Span{Start: a, End: b} }
	call := cst.NewNode(cst.KindCallExpression, sp(0, 4))
	call.AddChild(cst.NewNode(cst.KindIdentifier, sp(0, 1)))
	args := cst.NewNode(cst.KindArguments, sp(1, 4))
	arg := cst.NewNode(cst.KindArgument, sp(2, 3))
	arg.AddChild(cst.NewNode(cst.KindIdentifier, sp(2, 3)))
	args.AddChild(arg)
	call.AddChild(args)

	got, ok := NewBuilder([]byte(src)).Visit(call).(*ast.FunctionCall)
	if !ok {
		t.Fatal("call did not lower")
	}
	if len(got.Args) != 1 {
		t.Fatalf("got %d args, want 1", len(got.Args))
	}
	if got.Args[0].Name != "" {
		t.Errorf("bare argument read as named %q", got.Args[0].Name)
	}
	wantVariable(t, got.Args[0].Value, "w")
}
