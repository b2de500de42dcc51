package analysis

import "github.com/minic-lang/minic-analyzer/ast"

const (
	minInt32 = -1 << 31
	maxInt32 = 1<<31 - 1
)

// ConstValue is the result of folding an expression. A zero Value with
// Valid false and Overflow false means the expression is not a compile-time
// constant (it reads a variable or calls a function); Overflow true means
// it would have folded, but the folded integer result does not fit an i32.
type ConstValue struct {
	Valid    bool
	Overflow bool
	Type     ast.Type
	Int      int32
	Bool     bool
}

// Truthy reports whether a valid constant is "true" for branch-pruning
// purposes: a bool uses its own value, an int uses C-style zero/nonzero,
// matching how MiniC source sometimes mixes the two in a condition (the
// symbol binder rejects only a bare int literal used as a condition).
func (v ConstValue) Truthy() (truth bool, ok bool) {
	if !v.Valid {
		return false, false
	}
	if v.Type == ast.Bool {
		return v.Bool, true
	}
	return v.Int != 0, true
}

// FoldConst recursively evaluates e if it is built entirely from literals
// and MiniC's operators, honoring short-circuit semantics for && and ||
// and i32 wraparound-free arithmetic (overflow is reported, not wrapped).
func FoldConst(e ast.Expr) ConstValue {
	switch x := e.(type) {
	case *ast.IntLit:
		if x.Value < minInt32 || x.Value > maxInt32 {
			return ConstValue{Overflow: true}
		}
		return ConstValue{Valid: true, Type: ast.Int, Int: int32(x.Value)}

	case *ast.BoolLit:
		return ConstValue{Valid: true, Type: ast.Bool, Bool: x.Value}

	case *ast.Ident, *ast.CallExpr:
		return ConstValue{}

	case *ast.UnaryExpr:
		if lit, ok := x.X.(*ast.IntLit); ok && x.Op == ast.Neg && lit.Value == -minInt32 {
			return ConstValue{Valid: true, Type: ast.Int, Int: minInt32}
		}
		v := FoldConst(x.X)
		if !v.Valid {
			return ConstValue{Overflow: v.Overflow}
		}
		switch x.Op {
		case ast.Not:
			return ConstValue{Valid: true, Type: ast.Bool, Bool: !v.Bool}
		case ast.Neg:
			r := -int64(v.Int)
			if r < minInt32 || r > maxInt32 {
				return ConstValue{Overflow: true}
			}
			return ConstValue{Valid: true, Type: ast.Int, Int: int32(r)}
		}
		return ConstValue{}

	case *ast.BinaryExpr:
		return foldBinary(x)

	default:
		panic("analysis: unhandled expression kind in FoldConst")
	}
}

func foldBinary(x *ast.BinaryExpr) ConstValue {
	if x.Op == ast.And || x.Op == ast.Or {
		lhs := FoldConst(x.X)
		if lhs.Valid && lhs.Type == ast.Bool {
			if x.Op == ast.And && !lhs.Bool {
				return ConstValue{Valid: true, Type: ast.Bool, Bool: false}
			}
			if x.Op == ast.Or && lhs.Bool {
				return ConstValue{Valid: true, Type: ast.Bool, Bool: true}
			}
		}
		rhs := FoldConst(x.Y)
		if lhs.Valid && rhs.Valid && lhs.Type == ast.Bool && rhs.Type == ast.Bool {
			if x.Op == ast.And {
				return ConstValue{Valid: true, Type: ast.Bool, Bool: lhs.Bool && rhs.Bool}
			}
			return ConstValue{Valid: true, Type: ast.Bool, Bool: lhs.Bool || rhs.Bool}
		}
		return ConstValue{Overflow: lhs.Overflow || rhs.Overflow}
	}

	lhs, rhs := FoldConst(x.X), FoldConst(x.Y)
	if !lhs.Valid || !rhs.Valid {
		return ConstValue{Overflow: lhs.Overflow || rhs.Overflow}
	}

	switch x.Op {
	case ast.Add, ast.Sub, ast.Mul, ast.Div:
		if lhs.Type != ast.Int || rhs.Type != ast.Int {
			return ConstValue{}
		}
		a, b := int64(lhs.Int), int64(rhs.Int)
		var r int64
		switch x.Op {
		case ast.Add:
			r = a + b
		case ast.Sub:
			r = a - b
		case ast.Mul:
			r = a * b
		case ast.Div:
			if b == 0 {
				return ConstValue{}
			}
			r = a / b
		}
		if r < minInt32 || r > maxInt32 {
			return ConstValue{Overflow: true}
		}
		return ConstValue{Valid: true, Type: ast.Int, Int: int32(r)}

	case ast.Lt, ast.Le, ast.Gt, ast.Ge:
		if lhs.Type != ast.Int || rhs.Type != ast.Int {
			return ConstValue{}
		}
		a, b := lhs.Int, rhs.Int
		var r bool
		switch x.Op {
		case ast.Lt:
			r = a < b
		case ast.Le:
			r = a <= b
		case ast.Gt:
			r = a > b
		case ast.Ge:
			r = a >= b
		}
		return ConstValue{Valid: true, Type: ast.Bool, Bool: r}

	case ast.Eq, ast.Ne:
		if lhs.Type != rhs.Type {
			return ConstValue{}
		}
		var eq bool
		if lhs.Type == ast.Int {
			eq = lhs.Int == rhs.Int
		} else {
			eq = lhs.Bool == rhs.Bool
		}
		if x.Op == ast.Ne {
			eq = !eq
		}
		return ConstValue{Valid: true, Type: ast.Bool, Bool: eq}

	default:
		panic("analysis: unhandled binary operator in FoldConst")
	}
}
