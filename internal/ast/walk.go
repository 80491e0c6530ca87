package ast

// Walk traverses the tree rooted at n in depth-first pre-order, calling
// fn for every node including Argument, Parameter, and ForLoopVariable
// values. A false return skips the node's children.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch x := n.(type) {
	case *Binary:
		Walk(x.Left, fn)
		Walk(x.Right, fn)
	case *Unary:
		Walk(x.Operand, fn)
	case *Conditional:
		Walk(x.Cond, fn)
		Walk(x.Then, fn)
		Walk(x.Else, fn)
	case *Array:
		for _, e := range x.Elements {
			Walk(e, fn)
		}
	case *Range:
		Walk(x.Start, fn)
		Walk(x.Step, fn)
		Walk(x.End, fn)
	case *Index:
		Walk(x.Object, fn)
		Walk(x.IndexExpr, fn)
	case *FunctionCall:
		for _, a := range x.Args {
			Walk(a, fn)
		}
	case Argument:
		Walk(x.Value, fn)
	case Parameter:
		if x.Default != nil {
			Walk(x.Default, fn)
		}
	case ForLoopVariable:
		Walk(x.RangeExpr, fn)
	case *Assignment:
		Walk(x.Value, fn)
	case *ModuleInstantiation:
		for _, a := range x.Args {
			Walk(a, fn)
		}
		for _, s := range x.Children {
			Walk(s, fn)
		}
	case *ModuleDefinition:
		for _, p := range x.Params {
			Walk(p, fn)
		}
		for _, s := range x.Body {
			Walk(s, fn)
		}
	case *FunctionDefinition:
		for _, p := range x.Params {
			Walk(p, fn)
		}
		Walk(x.Body, fn)
	case *ForLoop:
		for _, v := range x.Variables {
			Walk(v, fn)
		}
		for _, s := range x.Body {
			Walk(s, fn)
		}
	case *If:
		Walk(x.Cond, fn)
		for _, s := range x.Then {
			Walk(s, fn)
		}
		for _, s := range x.Else {
			Walk(s, fn)
		}
	case *Echo:
		for _, a := range x.Args {
			Walk(a, fn)
		}
	case *Assert:
		for _, a := range x.Args {
			Walk(a, fn)
		}
	case *Block:
		for _, s := range x.Stmts {
			Walk(s, fn)
		}
	}
}
