package grammar

// Binary operator precedence levels, loosest first. Exponentiation is the
// only right-associative level.
const (
	precNone     = 0
	precOr       = 1
	precAnd      = 2
	precEquality = 3
	precCompare  = 4
	precAdd      = 5
	precMul      = 6
	precPow      = 7
)

// binaryPrec returns the precedence of k as a binary operator and whether
// it is right-associative. Non-operators return precNone.
func binaryPrec(k TokenKind) (int, bool) {
	switch k {
	case OrOr:
		return precOr, false
	case AndAnd:
		return precAnd, false
	case EqEq, BangEq:
		return precEquality, false
	case Lt, LtEq, Gt, GtEq:
		return precCompare, false
	case Plus, Minus:
		return precAdd, false
	case Star, Slash, Percent:
		return precMul, false
	case Caret:
		return precPow, true
	default:
		return precNone, false
	}
}

// isUnaryOp reports whether k can begin a prefix expression.
func isUnaryOp(k TokenKind) bool {
	return k == Bang || k == Minus || k == Plus
}
