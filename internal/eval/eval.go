// Package eval evaluates integer parameter and width expressions.
//
// The accepted grammar is closed: integer literals (decimal, sized and
// unsized based), names bound in a Scope, unary and binary integer
// operators, the conditional operator, parentheses and $clog2. Any other
// form fails with a MalformedExpression error; a name missing from the
// scope fails with UnresolvedIdentifier. Nothing evaluates to a silent zero,
// and a literal or result that does not fit in 64 signed bits is an error
// rather than a wrapped value.
package eval

import (
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"

	"github.com/daubuild/svmodel/errors"
	"github.com/daubuild/svmodel/internal/ast"
	"github.com/daubuild/svmodel/internal/parser"
)

// Scope resolves parameter names to values.
type Scope interface {
	Lookup(name string) (int64, bool)
}

// Params is a Scope backed by a map.
type Params map[string]int64

// Lookup implements Scope.
func (p Params) Lookup(name string) (int64, bool) {
	v, ok := p[name]
	return v, ok
}

// Empty is a Scope with no bindings.
var Empty Scope = Params(nil)

// EvalString parses text as an expression and evaluates it.
func EvalString(text string, scope Scope) (int64, error) {
	if strings.TrimSpace(text) == "" {
		return 0, errors.MalformedExpression(text, "empty expression")
	}
	expr, diags := parser.New([]byte(text), nil).ParseExpr()
	if len(diags) > 0 {
		return 0, errors.MalformedExpression(text, diags[0].Message)
	}
	v, err := Eval(expr, scope)
	if err != nil {
		if e, ok := err.(*errors.Error); ok && e.Kind == errors.KindMalformedExpression {
			return 0, errors.MalformedExpression(text, e.Detail)
		}
		return 0, err
	}
	return v, nil
}

// Eval evaluates a parsed expression against scope.
func Eval(expr ast.Expr, scope Scope) (int64, error) {
	if scope == nil {
		scope = Empty
	}
	return evaluate(expr, scope)
}

func evaluate(expr ast.Expr, scope Scope) (int64, error) {
	switch x := expr.(type) {
	case nil:
		return 0, malformed("missing operand")
	case *ast.LiteralExpr:
		return literal(x)
	case *ast.IdentExpr:
		if x.System {
			return 0, malformed("system name %s used as a value", x.Name)
		}
		v, ok := scope.Lookup(x.Name)
		if !ok {
			return 0, errors.UnresolvedIdentifier(x.Name)
		}
		return v, nil
	case *ast.ScopedExpr:
		name := qualifiedName(x)
		v, ok := scope.Lookup(name)
		if !ok {
			return 0, errors.UnresolvedIdentifier(name)
		}
		return v, nil
	case *ast.ParenExpr:
		return evaluate(x.X, scope)
	case *ast.UnaryExpr:
		v, err := evaluate(x.X, scope)
		if err != nil {
			return 0, err
		}
		return unary(x.Op, v)
	case *ast.BinaryExpr:
		l, err := evaluate(x.X, scope)
		if err != nil {
			return 0, err
		}
		// && and || short-circuit like the language does
		switch {
		case x.Op == "&&" && l == 0:
			return 0, nil
		case x.Op == "||" && l != 0:
			return 1, nil
		}
		r, err := evaluate(x.Y, scope)
		if err != nil {
			return 0, err
		}
		return binary(x.Op, l, r)
	case *ast.TernaryExpr:
		c, err := evaluate(x.Cond, scope)
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return evaluate(x.Then, scope)
		}
		return evaluate(x.Else, scope)
	case *ast.CallExpr:
		return call(x, scope)
	default:
		return 0, malformed("unsupported expression form %T", expr)
	}
}

func qualifiedName(x *ast.ScopedExpr) string {
	if id, ok := x.Scope.(*ast.IdentExpr); ok {
		return id.Name + "::" + x.Name.Name
	}
	if inner, ok := x.Scope.(*ast.ScopedExpr); ok {
		return qualifiedName(inner) + "::" + x.Name.Name
	}
	return x.Name.Name
}

func unary(op string, v int64) (int64, error) {
	switch op {
	case "+":
		return v, nil
	case "-":
		if v == math.MinInt64 {
			return 0, malformed("-%d overflows 64 bits", v)
		}
		return -v, nil
	case "~":
		return ^v, nil
	case "!":
		return boolInt(v == 0), nil
	}
	return 0, malformed("unsupported unary operator %s", op)
}

func binary(op string, l, r int64) (int64, error) {
	switch op {
	case "+":
		return add(l, r)
	case "-":
		return sub(l, r)
	case "*":
		return mul(l, r)
	case "/":
		if r == 0 {
			return 0, malformed("division by zero")
		}
		if l == math.MinInt64 && r == -1 {
			return 0, malformed("%d / %d overflows 64 bits", l, r)
		}
		return l / r, nil
	case "%":
		if r == 0 {
			return 0, malformed("modulo by zero")
		}
		return l % r, nil
	case "**":
		return power(l, r)
	case "<<", "<<<":
		if r < 0 || r > 63 {
			return 0, malformed("shift amount %d out of range", r)
		}
		v := l << uint(r)
		if v>>uint(r) != l {
			return 0, malformed("%d << %d overflows 64 bits", l, r)
		}
		return v, nil
	case ">>", ">>>":
		if r < 0 || r > 63 {
			return 0, malformed("shift amount %d out of range", r)
		}
		if op == ">>" {
			return int64(uint64(l) >> uint(r)), nil
		}
		return l >> uint(r), nil
	case "<":
		return boolInt(l < r), nil
	case "<=":
		return boolInt(l <= r), nil
	case ">":
		return boolInt(l > r), nil
	case ">=":
		return boolInt(l >= r), nil
	case "==", "===":
		return boolInt(l == r), nil
	case "!=", "!==":
		return boolInt(l != r), nil
	case "&&":
		return boolInt(l != 0 && r != 0), nil
	case "||":
		return boolInt(l != 0 || r != 0), nil
	case "&":
		return l & r, nil
	case "|":
		return l | r, nil
	case "^":
		return l ^ r, nil
	}
	return 0, malformed("unsupported operator %s", op)
}

func power(base, exp int64) (int64, error) {
	if exp < 0 {
		switch base {
		case 0:
			return 0, malformed("zero raised to a negative power")
		case 1:
			return 1, nil
		case -1:
			if exp%2 == 0 {
				return 1, nil
			}
			return -1, nil
		}
		return 0, nil
	}
	result := int64(1)
	for {
		if exp&1 == 1 {
			r, err := mul(result, base)
			if err != nil {
				return 0, err
			}
			result = r
		}
		exp >>= 1
		if exp == 0 {
			return result, nil
		}
		b, err := mul(base, base)
		if err != nil {
			return 0, err
		}
		base = b
	}
}

func add(l, r int64) (int64, error) {
	s := l + r
	if (s > l) != (r > 0) {
		return 0, malformed("%d + %d overflows 64 bits", l, r)
	}
	return s, nil
}

func sub(l, r int64) (int64, error) {
	d := l - r
	if (d < l) != (r > 0) {
		return 0, malformed("%d - %d overflows 64 bits", l, r)
	}
	return d, nil
}

// mul multiplies through the unsigned 128-bit product of the magnitudes.
func mul(l, r int64) (int64, error) {
	if l == 0 || r == 0 {
		return 0, nil
	}
	neg := (l < 0) != (r < 0)
	hi, lo := bits.Mul64(magnitude(l), magnitude(r))
	limit := uint64(math.MaxInt64)
	if neg {
		limit++
	}
	if hi != 0 || lo > limit {
		return 0, malformed("%d * %d overflows 64 bits", l, r)
	}
	if neg {
		return -int64(lo), nil
	}
	return int64(lo), nil
}

func magnitude(v int64) uint64 {
	if v < 0 {
		return uint64(-v)
	}
	return uint64(v)
}

// Clog2 returns the ceiling of log2(v); values below 2 give 0.
func Clog2(v int64) int64 {
	if v <= 1 {
		return 0
	}
	return int64(bits.Len64(uint64(v - 1)))
}

func literal(x *ast.LiteralExpr) (int64, error) {
	switch x.Kind {
	case ast.LitDecimal:
		v, err := strconv.ParseInt(strings.ReplaceAll(x.Text, "_", ""), 10, 64)
		if err != nil {
			return 0, malformed("integer literal %s out of range", x.Text)
		}
		return v, nil
	case ast.LitBased:
		return basedLiteral(x.Text)
	case ast.LitUnbased:
		if x.Text == "'0" {
			return 0, nil
		}
		return 0, malformed("literal %s has no fixed integer value", x.Text)
	}
	return 0, malformed("literal %s is not an integer", x.Text)
}

// basedLiteral decodes [size]'[s]<base><digits>. A sized literal keeps
// only its declared low bits; a signed one sign-extends from its top bit.
func basedLiteral(text string) (int64, error) {
	sizeText, rest, ok := strings.Cut(text, "'")
	if !ok || rest == "" {
		return 0, malformed("bad based literal %s", text)
	}
	size := 0
	if sizeText = strings.ReplaceAll(strings.TrimSpace(sizeText), "_", ""); sizeText != "" {
		n, err := strconv.Atoi(sizeText)
		if err != nil || n < 1 {
			return 0, malformed("bad size in literal %s", text)
		}
		size = n
	}
	signed := false
	if rest[0] == 's' || rest[0] == 'S' {
		signed = true
		rest = rest[1:]
	}
	if rest == "" {
		return 0, malformed("bad based literal %s", text)
	}
	var base int
	switch rest[0] {
	case 'd', 'D':
		base = 10
	case 'h', 'H':
		base = 16
	case 'o', 'O':
		base = 8
	case 'b', 'B':
		base = 2
	default:
		return 0, malformed("bad base in literal %s", text)
	}
	digits := strings.ReplaceAll(strings.TrimSpace(rest[1:]), "_", "")
	if strings.ContainsAny(digits, "xXzZ?") {
		return 0, malformed("literal %s has unknown bits", text)
	}
	v, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return 0, malformed("literal %s out of range", text)
	}
	if size > 0 && size < 64 {
		v &= uint64(1)<<size - 1
		if signed && v>>(size-1) == 1 {
			return int64(v) - int64(1)<<size, nil
		}
	}
	if v > math.MaxInt64 && !(signed && size == 64) {
		return 0, malformed("literal %s out of range", text)
	}
	return int64(v), nil
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func malformed(format string, args ...any) *errors.Error {
	return errors.MalformedExpression("", fmt.Sprintf(format, args...))
}
