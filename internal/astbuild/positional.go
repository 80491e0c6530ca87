package astbuild

import "scad/internal/cst"

var statementKinds = map[string]bool{
	cst.KindAssignment:          true,
	cst.KindModuleInstantiation: true,
	cst.KindModuleDefinition:    true,
	cst.KindFunctionDefinition:  true,
	cst.KindForStatement:        true,
	cst.KindIfStatement:         true,
	cst.KindEchoStatement:       true,
	cst.KindAssertStatement:     true,
	cst.KindIncludeStatement:    true,
	cst.KindUseStatement:        true,
	cst.KindBlock:               true,
	cst.KindEmptyStatement:      true,
}

// positionalChild resolves a field role by child position, for trees
// whose edges carry no field labels (nodes rebuilt from a cache
// snapshot, or produced by external tooling). Builder lookups always
// prefer labels; every positional rule lives in this one function so
// label-bearing and label-free trees lower to identical AST values.
func positionalChild(n *cst.Node, field string) *cst.Node {
	switch n.Kind() {
	case cst.KindBinaryExpression:
		switch field {
		case cst.FieldLeft:
			return namedAt(n, 0)
		case cst.FieldOperator:
			return tokenAt(n, 0)
		case cst.FieldRight:
			return namedAt(n, 1)
		}
	case cst.KindUnaryExpression:
		switch field {
		case cst.FieldOperator:
			return tokenAt(n, 0)
		case cst.FieldOperand:
			return namedAt(n, 0)
		}
	case cst.KindConditionalExpression, cst.KindIfStatement:
		switch field {
		case cst.FieldCondition:
			return namedAt(n, 0)
		case cst.FieldConsequence:
			return namedAt(n, 1)
		case cst.FieldAlternative:
			return namedAt(n, 2)
		}
	case cst.KindParenthesizedExpression:
		if field == cst.FieldValue {
			return namedAt(n, 0)
		}
	case cst.KindIndexExpression:
		switch field {
		case cst.FieldObject:
			return namedAt(n, 0)
		case cst.FieldIndex:
			return namedAt(n, 1)
		}
	case cst.KindCallExpression:
		switch field {
		case cst.FieldFunction:
			return namedAt(n, 0)
		case cst.FieldArguments:
			return childOfKind(n, cst.KindArguments)
		}
	case cst.KindAssignment, cst.KindForBinding:
		// name/variable first, value/range second.
		switch field {
		case cst.FieldName, cst.FieldVariable:
			return namedAt(n, 0)
		case cst.FieldValue, cst.FieldRange:
			return namedAt(n, 1)
		}
	case cst.KindArgument:
		// A lone child is the value; a name can only precede one.
		switch field {
		case cst.FieldName:
			if countNamed(n) >= 2 {
				return namedAt(n, 0)
			}
		case cst.FieldValue:
			if c := countNamed(n); c > 0 {
				return namedAt(n, c-1)
			}
		}
	case cst.KindParameter:
		switch field {
		case cst.FieldName:
			return namedAt(n, 0)
		case cst.FieldValue:
			return namedAt(n, 1)
		}
	case cst.KindForStatement:
		switch field {
		case cst.FieldIterators:
			return childOfKind(n, cst.KindForBindings)
		case cst.FieldBody:
			return statementChild(n, 0)
		}
	case cst.KindModuleInstantiation:
		switch field {
		case cst.FieldModifier:
			return childOfKind(n, cst.KindModifier)
		case cst.FieldName:
			return childOfKind(n, cst.KindIdentifier)
		case cst.FieldArguments:
			return childOfKind(n, cst.KindArguments)
		case cst.FieldBody:
			return statementChild(n, 0)
		}
	case cst.KindModuleDefinition:
		switch field {
		case cst.FieldName:
			return childOfKind(n, cst.KindIdentifier)
		case cst.FieldParameters:
			return childOfKind(n, cst.KindParameters)
		case cst.FieldBody:
			return statementChild(n, 0)
		}
	case cst.KindFunctionDefinition:
		switch field {
		case cst.FieldName:
			return childOfKind(n, cst.KindIdentifier)
		case cst.FieldParameters:
			return childOfKind(n, cst.KindParameters)
		case cst.FieldValue:
			if c := countNamed(n); c > 0 {
				return namedAt(n, c-1)
			}
		}
	case cst.KindEchoStatement, cst.KindAssertStatement:
		if field == cst.FieldArguments {
			return childOfKind(n, cst.KindArguments)
		}
	case cst.KindIncludeStatement, cst.KindUseStatement:
		if field == cst.FieldPath {
			return childOfKind(n, cst.KindPathLiteral)
		}
	}
	return nil
}

// namedAt returns the idx-th named child, not counting resilience
// markers, so MISSING stand-ins never shift positions.
func namedAt(n *cst.Node, idx int) *cst.Node {
	seen := 0
	for i := 0; i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		if c.IsMissing() || c.IsError() {
			continue
		}
		if seen == idx {
			return c
		}
		seen++
	}
	return nil
}

// tokenAt returns the idx-th anonymous token child.
func tokenAt(n *cst.Node, idx int) *cst.Node {
	seen := 0
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c.IsNamed() {
			continue
		}
		if seen == idx {
			return c
		}
		seen++
	}
	return nil
}

func childOfKind(n *cst.Node, kind string) *cst.Node {
	for i := 0; i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		if c.IsMissing() || c.IsError() {
			continue
		}
		if c.Kind() == kind {
			return c
		}
	}
	return nil
}

func statementChild(n *cst.Node, idx int) *cst.Node {
	seen := 0
	for i := 0; i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		if !statementKinds[c.Kind()] {
			continue
		}
		if seen == idx {
			return c
		}
		seen++
	}
	return nil
}

func countNamed(n *cst.Node) int {
	count := 0
	for i := 0; i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		if c.IsMissing() || c.IsError() {
			continue
		}
		count++
	}
	return count
}
