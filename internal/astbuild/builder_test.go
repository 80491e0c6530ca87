package astbuild

import (
	"testing"

	"scad/internal/ast"
	"scad/internal/cst"
	"scad/internal/grammar"
	"scad/internal/source"
)

func buildSrc(t *testing.T, src string) []ast.Stmt {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.scad", []byte(src))
	tree, _ := grammar.Parse(fs.Get(id), grammar.Options{})
	return Build(tree)
}

func onlyStmt(t *testing.T, src string) ast.Stmt {
	t.Helper()
	stmts := buildSrc(t, src)
	if len(stmts) != 1 {
		t.Fatalf("got %d statements for %q, want 1", len(stmts), src)
	}
	return stmts[0]
}

// exprValue builds "x = <src>;" and returns the assignment's value.
func exprValue(t *testing.T, src string) ast.Expr {
	t.Helper()
	assign, ok := onlyStmt(t, "x = "+src+";").(*ast.Assignment)
	if !ok {
		t.Fatalf("statement for %q is not an assignment", src)
	}
	return assign.Value
}

func wantNumber(t *testing.T, e ast.Expr, v float64) {
	t.Helper()
	lit, ok := e.(*ast.Literal)
	if !ok || lit.LitKind != ast.LitNumber {
		t.Fatalf("expression is %T, want number literal", e)
	}
	if lit.Number != v {
		t.Fatalf("number = %v, want %v", lit.Number, v)
	}
}

func wantVariable(t *testing.T, e ast.Expr, name string) {
	t.Helper()
	v, ok := e.(*ast.Variable)
	if !ok {
		t.Fatalf("expression is %T, want variable", e)
	}
	if v.Name != name {
		t.Fatalf("variable name = %q, want %q", v.Name, name)
	}
}

func TestBuildAssignment(t *testing.T) {
	assign, ok := onlyStmt(t, "x = 1;").(*ast.Assignment)
	if !ok {
		t.Fatal("statement is not an assignment")
	}
	if assign.Name != "x" {
		t.Errorf("name = %q, want %q", assign.Name, "x")
	}
	wantNumber(t, assign.Value, 1)

	special, ok := onlyStmt(t, "$fn = 32;").(*ast.Assignment)
	if !ok {
		t.Fatal("special assignment did not build")
	}
	if special.Name != "$fn" {
		t.Errorf("name = %q, want %q", special.Name, "$fn")
	}
}

func TestBuildParenTransparency(t *testing.T) {
	value := exprValue(t, "(a + b)")
	bin, ok := value.(*ast.Binary)
	if !ok {
		t.Fatalf("value is %T, want binary with the parentheses gone", value)
	}
	if bin.Op != ast.OpAdd {
		t.Errorf("op = %v, want %v", bin.Op, ast.OpAdd)
	}
	wantVariable(t, bin.Left, "a")
	wantVariable(t, bin.Right, "b")
}

func TestBuildLiterals(t *testing.T) {
	wantNumber(t, exprValue(t, "3.5"), 3.5)
	wantNumber(t, exprValue(t, ".5"), 0.5)
	wantNumber(t, exprValue(t, "1e3"), 1000)

	boolean := exprValue(t, "true").(*ast.Literal)
	if boolean.LitKind != ast.LitBool || !boolean.Bool {
		t.Errorf("true lowered to %+v", boolean)
	}

	undef := exprValue(t, "undef").(*ast.Literal)
	if undef.LitKind != ast.LitUndef {
		t.Errorf("undef lowered to kind %v", undef.LitKind)
	}

	str := exprValue(t, `"he\"llo\n"`).(*ast.Literal)
	if str.LitKind != ast.LitString {
		t.Fatalf("string lowered to kind %v", str.LitKind)
	}
	if str.Str != "he\"llo\n" {
		t.Errorf("unquoted string = %q, want %q", str.Str, "he\"llo\n")
	}
	if str.Raw != `"he\"llo\n"` {
		t.Errorf("raw string = %q", str.Raw)
	}
}

func TestBuildPrecedenceShape(t *testing.T) {
	bin, ok := exprValue(t, "1 + 2 * 3").(*ast.Binary)
	if !ok {
		t.Fatal("value is not a binary expression")
	}
	if bin.Op != ast.OpAdd {
		t.Fatalf("top op = %v, want +", bin.Op)
	}
	wantNumber(t, bin.Left, 1)
	mul, ok := bin.Right.(*ast.Binary)
	if !ok || mul.Op != ast.OpMul {
		t.Fatalf("right side is %T, want * expression", bin.Right)
	}
	wantNumber(t, mul.Left, 2)
	wantNumber(t, mul.Right, 3)
}

func TestBuildConditional(t *testing.T) {
	cond, ok := exprValue(t, "a > 0 ? a : -a").(*ast.Conditional)
	if !ok {
		t.Fatal("value is not a conditional")
	}
	gt, ok := cond.Cond.(*ast.Binary)
	if !ok || gt.Op != ast.OpGt {
		t.Fatalf("condition is %T, want > expression", cond.Cond)
	}
	wantVariable(t, cond.Then, "a")
	neg, ok := cond.Else.(*ast.Unary)
	if !ok || neg.Op != ast.UnaryNeg {
		t.Fatalf("else branch is %T, want negation", cond.Else)
	}
	wantVariable(t, neg.Operand, "a")
}

func TestBuildVectorAndRange(t *testing.T) {
	arr, ok := exprValue(t, "[1, 2, 3]").(*ast.Array)
	if !ok {
		t.Fatal("value is not an array")
	}
	if len(arr.Elements) != 3 {
		t.Fatalf("got %d elements, want 3", len(arr.Elements))
	}
	wantNumber(t, arr.Elements[2], 3)

	two, ok := exprValue(t, "[0:5]").(*ast.Range)
	if !ok {
		t.Fatal("value is not a range")
	}
	if two.Step != nil {
		t.Error("two-part range has a step")
	}
	wantNumber(t, two.Start, 0)
	wantNumber(t, two.End, 5)

	three := exprValue(t, "[0:0.5:5]").(*ast.Range)
	if three.Step == nil {
		t.Fatal("three-part range lost its step")
	}
	wantNumber(t, three.Step, 0.5)
}

func TestBuildIndexAndCall(t *testing.T) {
	idx, ok := exprValue(t, "points[i]").(*ast.Index)
	if !ok {
		t.Fatal("value is not an index expression")
	}
	wantVariable(t, idx.Object, "points")
	wantVariable(t, idx.IndexExpr, "i")

	call, ok := exprValue(t, "max(a, 3)").(*ast.FunctionCall)
	if !ok {
		t.Fatal("value is not a call")
	}
	if call.Name != "max" {
		t.Errorf("call name = %q", call.Name)
	}
	if len(call.Args) != 2 {
		t.Fatalf("got %d args, want 2", len(call.Args))
	}
	if call.Args[0].Name != "" {
		t.Errorf("positional arg has name %q", call.Args[0].Name)
	}

	chained, ok := exprValue(t, "f(1)[0]").(*ast.Index)
	if !ok {
		t.Fatal("chained value is not an index expression")
	}
	if _, ok := chained.Object.(*ast.FunctionCall); !ok {
		t.Errorf("indexed object is %T, want call", chained.Object)
	}
}

func TestBuildInstantiation(t *testing.T) {
	inst, ok := onlyStmt(t, "cube(10);").(*ast.ModuleInstantiation)
	if !ok {
		t.Fatal("statement is not a module instantiation")
	}
	if inst.Name != "cube" || inst.Modifier != "" {
		t.Errorf("got name %q modifier %q", inst.Name, inst.Modifier)
	}
	if len(inst.Args) != 1 || len(inst.Children) != 0 {
		t.Fatalf("got %d args, %d children", len(inst.Args), len(inst.Children))
	}
	wantNumber(t, inst.Args[0].Value, 10)
}

func TestBuildInstantiationModifier(t *testing.T) {
	for _, mod := range []string{"#", "!", "%", "*"} {
		inst, ok := onlyStmt(t, mod+"cube(1);").(*ast.ModuleInstantiation)
		if !ok {
			t.Fatalf("%scube(1); did not build", mod)
		}
		if inst.Modifier != mod {
			t.Errorf("modifier = %q, want %q", inst.Modifier, mod)
		}
	}
}

func TestBuildInstantiationNamedArgs(t *testing.T) {
	inst := onlyStmt(t, "cylinder(h = 10, r = 2, $fn = 64);").(*ast.ModuleInstantiation)
	if len(inst.Args) != 3 {
		t.Fatalf("got %d args, want 3", len(inst.Args))
	}
	names := []string{"h", "r", "$fn"}
	for i, want := range names {
		if inst.Args[i].Name != want {
			t.Errorf("arg %d name = %q, want %q", i, inst.Args[i].Name, want)
		}
	}
	wantNumber(t, inst.Args[2].Value, 64)
}

func TestBuildInstantiationChildren(t *testing.T) {
	single := onlyStmt(t, "translate([1, 2]) cube(3);").(*ast.ModuleInstantiation)
	if len(single.Children) != 1 {
		t.Fatalf("got %d children, want 1", len(single.Children))
	}
	child, ok := single.Children[0].(*ast.ModuleInstantiation)
	if !ok || child.Name != "cube" {
		t.Fatalf("child is %T, want cube instantiation", single.Children[0])
	}

	// A block body flattens into the children list.
	block := onlyStmt(t, "union() { cube(1); sphere(2); }").(*ast.ModuleInstantiation)
	if len(block.Children) != 2 {
		t.Fatalf("got %d children, want 2", len(block.Children))
	}

	chain := onlyStmt(t, "rotate(a) translate(b) cube(1);").(*ast.ModuleInstantiation)
	if len(chain.Children) != 1 {
		t.Fatalf("got %d chain children, want 1", len(chain.Children))
	}
	mid := chain.Children[0].(*ast.ModuleInstantiation)
	if mid.Name != "translate" || len(mid.Children) != 1 {
		t.Fatalf("chain middle = %q with %d children", mid.Name, len(mid.Children))
	}
}

func TestBuildModuleDefinition(t *testing.T) {
	def, ok := onlyStmt(t, "module ring(r = 10, w) { cube(r); }").(*ast.ModuleDefinition)
	if !ok {
		t.Fatal("statement is not a module definition")
	}
	if def.Name != "ring" {
		t.Errorf("name = %q", def.Name)
	}
	if len(def.Params) != 2 {
		t.Fatalf("got %d params, want 2", len(def.Params))
	}
	if def.Params[0].Name != "r" || def.Params[0].Default == nil {
		t.Fatalf("param r = %+v", def.Params[0])
	}
	if def.Params[0].Default.LitKind != ast.LitNumber || def.Params[0].Default.Number != 10 {
		t.Errorf("default for r = %+v", def.Params[0].Default)
	}
	if def.Params[1].Name != "w" || def.Params[1].Default != nil {
		t.Errorf("param w = %+v", def.Params[1])
	}
	if len(def.Body) != 1 {
		t.Fatalf("got %d body statements, want 1", len(def.Body))
	}
}

func TestBuildFunctionDefinition(t *testing.T) {
	def, ok := onlyStmt(t, "function area(w, h = w*2) = w * h;").(*ast.FunctionDefinition)
	if !ok {
		t.Fatal("statement is not a function definition")
	}
	if def.Name != "area" {
		t.Errorf("name = %q", def.Name)
	}
	if _, ok := def.Body.(*ast.Binary); !ok {
		t.Errorf("body is %T, want binary", def.Body)
	}
	if len(def.Params) != 2 {
		t.Fatalf("got %d params, want 2", len(def.Params))
	}
	// The default is not evaluated; its source text survives as a string.
	h := def.Params[1]
	if h.Default == nil || h.Default.LitKind != ast.LitString || h.Default.Str != "w*2" {
		t.Errorf("default for h = %+v", h.Default)
	}
}

func TestBuildDefaultCoercion(t *testing.T) {
	def := onlyStmt(t, `module m(a = 5, b = true, c = "hi", d = r*2, e = undef) {}`).(*ast.ModuleDefinition)
	if len(def.Params) != 5 {
		t.Fatalf("got %d params, want 5", len(def.Params))
	}
	tests := []struct {
		name string
		kind ast.LitKind
	}{
		{"a", ast.LitNumber},
		{"b", ast.LitBool},
		{"c", ast.LitString},
		{"d", ast.LitString},
		{"e", ast.LitUndef},
	}
	for i, tt := range tests {
		p := def.Params[i]
		if p.Name != tt.name {
			t.Errorf("param %d name = %q, want %q", i, p.Name, tt.name)
			continue
		}
		if p.Default == nil || p.Default.LitKind != tt.kind {
			t.Errorf("param %q default = %+v, want kind %v", tt.name, p.Default, tt.kind)
		}
	}
	if d := def.Params[3].Default; d != nil && d.Str != "r*2" {
		t.Errorf("expression default = %q, want %q", d.Str, "r*2")
	}
	if d := def.Params[2].Default; d != nil && d.Str != "hi" {
		t.Errorf("string default = %q, want %q", d.Str, "hi")
	}
}

func TestBuildForLoop(t *testing.T) {
	loop, ok := onlyStmt(t, "for (i = [0:0.5:5]) cube(1);").(*ast.ForLoop)
	if !ok {
		t.Fatal("statement is not a for loop")
	}
	if len(loop.Variables) != 1 || len(loop.Body) != 1 {
		t.Fatalf("got %d variables, %d body statements", len(loop.Variables), len(loop.Body))
	}
	v := loop.Variables[0]
	if v.Variable != "i" || !v.IsNumeric() {
		t.Fatalf("iterator = %+v, want numeric i", v)
	}
	if v.Range != [2]float64{0, 5} {
		t.Errorf("range = %v, want [0 5]", v.Range)
	}
	if v.Step == nil || *v.Step != 0.5 {
		t.Errorf("step = %v, want 0.5", v.Step)
	}
}

func TestBuildForLoopShapes(t *testing.T) {
	twoPart := onlyStmt(t, "for (i = [0:5]) cube(1);").(*ast.ForLoop).Variables[0]
	if !twoPart.IsNumeric() || twoPart.Step != nil || twoPart.Range != [2]float64{0, 5} {
		t.Errorf("two-part iterator = %+v", twoPart)
	}

	signed := onlyStmt(t, "for (i = [-5:5]) cube(1);").(*ast.ForLoop).Variables[0]
	if !signed.IsNumeric() || signed.Range != [2]float64{-5, 5} {
		t.Errorf("signed iterator = %+v", signed)
	}

	overVar := onlyStmt(t, "for (p = points) cube(1);").(*ast.ForLoop).Variables[0]
	if overVar.IsNumeric() {
		t.Fatal("expression iterator reported numeric")
	}
	wantVariable(t, overVar.RangeExpr, "points")

	overVec := onlyStmt(t, "for (i = [1, 2, 3]) cube(1);").(*ast.ForLoop).Variables[0]
	if arr, ok := overVec.RangeExpr.(*ast.Array); !ok || len(arr.Elements) != 3 {
		t.Errorf("vector iterator = %+v", overVec.RangeExpr)
	}

	multi := onlyStmt(t, "for (x = [0:2], y = [0:3]) cube(1);").(*ast.ForLoop)
	if len(multi.Variables) != 2 {
		t.Fatalf("got %d iterators, want 2", len(multi.Variables))
	}
	if multi.Variables[1].Variable != "y" {
		t.Errorf("second iterator = %q", multi.Variables[1].Variable)
	}
}

func TestBuildIfElse(t *testing.T) {
	stmt, ok := onlyStmt(t, "if (x > 2) cube(1); else sphere(1);").(*ast.If)
	if !ok {
		t.Fatal("statement is not an if")
	}
	if _, ok := stmt.Cond.(*ast.Binary); !ok {
		t.Errorf("condition is %T", stmt.Cond)
	}
	if len(stmt.Then) != 1 || len(stmt.Else) != 1 {
		t.Fatalf("got %d then, %d else statements", len(stmt.Then), len(stmt.Else))
	}

	bare := onlyStmt(t, "if (x) cube(1);").(*ast.If)
	if bare.Else != nil {
		t.Error("missing else branch is non-nil")
	}
}

func TestBuildIncludeUse(t *testing.T) {
	inc, ok := onlyStmt(t, "include <lib/shapes.scad>").(*ast.Include)
	if !ok {
		t.Fatal("statement is not an include")
	}
	if inc.Path != "lib/shapes.scad" {
		t.Errorf("path = %q, want %q", inc.Path, "lib/shapes.scad")
	}

	use, ok := onlyStmt(t, "use <util.scad>").(*ast.Use)
	if !ok {
		t.Fatal("statement is not a use")
	}
	if use.Path != "util.scad" {
		t.Errorf("path = %q, want %q", use.Path, "util.scad")
	}
}

func TestBuildEchoAssert(t *testing.T) {
	echo, ok := onlyStmt(t, `echo("value", x);`).(*ast.Echo)
	if !ok {
		t.Fatal("statement is not an echo")
	}
	if len(echo.Args) != 2 {
		t.Fatalf("got %d echo args, want 2", len(echo.Args))
	}

	check, ok := onlyStmt(t, "assert(x > 0, \"must be positive\");").(*ast.Assert)
	if !ok {
		t.Fatal("statement is not an assert")
	}
	if len(check.Args) != 2 {
		t.Fatalf("got %d assert args, want 2", len(check.Args))
	}
}

func TestBuildBlockStatement(t *testing.T) {
	block, ok := onlyStmt(t, "{ cube(1); sphere(2); }").(*ast.Block)
	if !ok {
		t.Fatal("statement is not a block")
	}
	if len(block.Stmts) != 2 {
		t.Fatalf("got %d block statements, want 2", len(block.Stmts))
	}
}

func TestBuildChildNesting(t *testing.T) {
	// A missing semicolon between instantiations reads as child nesting,
	// so the two shapes become one statement.
	inst, ok := onlyStmt(t, "cube(10)\nsphere(5);").(*ast.ModuleInstantiation)
	if !ok {
		t.Fatal("statement is not a module instantiation")
	}
	if inst.Name != "cube" || len(inst.Children) != 1 {
		t.Fatalf("got %q with %d children", inst.Name, len(inst.Children))
	}
}

func TestBuildDropsBrokenStatements(t *testing.T) {
	stmts := buildSrc(t, "x = ;\ny = 2;")
	if len(stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(stmts))
	}
	assign, ok := stmts[0].(*ast.Assignment)
	if !ok || assign.Name != "y" {
		t.Fatalf("surviving statement = %+v", stmts[0])
	}

	if got := buildSrc(t, ";"); len(got) != 0 {
		t.Errorf("empty statement produced %d AST nodes", len(got))
	}
}

func TestVisitRejectsResilienceNodes(t *testing.T) {
	b := NewBuilder(nil)
	if b.Visit(nil) != nil {
		t.Error("Visit(nil) produced a node")
	}
	if b.Visit(cst.NewError(source.Span{})) != nil {
		t.Error("ERROR node lowered to an AST node")
	}
	if b.Visit(cst.NewMissing(";", 0, 0)) != nil {
		t.Error("MISSING node lowered to an AST node")
	}
}

func TestForVariableFromText(t *testing.T) {
	tests := []struct {
		text    string
		ok      bool
		numeric bool
	}{
		{"i = [0:0.5:5]", true, true},
		{"j = [1:10]", true, true},
		{"p = points", true, false},
		{"n = 5", true, false},
		{"nonsense", false, false},
		{"k = [1,2]", false, false},
		{"1 = [0:5]", false, false},
		{"i = ", false, false},
	}
	for _, tt := range tests {
		v, ok := forVariableFromText(tt.text, source.Span{})
		if ok != tt.ok {
			t.Errorf("forVariableFromText(%q) ok = %v, want %v", tt.text, ok, tt.ok)
			continue
		}
		if ok && v.IsNumeric() != tt.numeric {
			t.Errorf("forVariableFromText(%q) numeric = %v, want %v", tt.text, v.IsNumeric(), tt.numeric)
		}
	}

	v, _ := forVariableFromText("i = [0:0.5:5]", source.Span{})
	if v.Range != [2]float64{0, 5} || v.Step == nil || *v.Step != 0.5 {
		t.Errorf("salvaged iterator = %+v", v)
	}
}

func TestForVariableFallbackOnBrokenRange(t *testing.T) {
	src := []byte("i = [0:0.5:5]")
	sp := func(a, b uint32) source.Span { return source.Span{Start: a, End: b} }

	binding := cst.NewNode(cst.KindForBinding, sp(0, uint32(len(src))))
	binding.AddField(cst.FieldVariable, cst.NewNode(cst.KindIdentifier, sp(0, 1)))
	binding.AddField(cst.FieldRange, cst.NewError(sp(4, uint32(len(src)))))

	b := NewBuilder(src)
	v, ok := b.forVariable(binding)
	if !ok {
		t.Fatal("fallback did not salvage the binding")
	}
	if v.Variable != "i" || !v.IsNumeric() {
		t.Fatalf("salvaged iterator = %+v", v)
	}
	if v.Range != [2]float64{0, 5} || v.Step == nil || *v.Step != 0.5 {
		t.Errorf("salvaged bounds = %v step %v", v.Range, v.Step)
	}
}
