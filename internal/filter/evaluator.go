package filter

import (
	"fmt"
	"regexp"

	"github.com/gyaneshwarpardhi/tempreach/internal/movement"
)

// Predicate reports whether a movement is kept.
type Predicate func(movement.Movement) bool

// Compile parses expr and type-checks every comparison against the movement
// fields, so the returned Predicate cannot fail at evaluation time. Regex
// patterns are compiled once here.
func Compile(expr string) (Predicate, error) {
	ast, err := Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("filter %q: %w", expr, err)
	}
	patterns := make(map[*ComparisonExpr]*regexp.Regexp)
	if err := check(ast, patterns); err != nil {
		return nil, fmt.Errorf("filter %q: %w", expr, err)
	}
	return func(m movement.Movement) bool {
		ok, err := evaluate(ast, m, patterns)
		return err == nil && ok
	}, nil
}

// Evaluate walks the AST against m. Patterns for matches are compiled on
// every call; use Compile for repeated evaluation.
func Evaluate(expr Expr, m movement.Movement) (bool, error) {
	return evaluate(expr, m, nil)
}

func evaluate(expr Expr, m movement.Movement, patterns map[*ComparisonExpr]*regexp.Regexp) (bool, error) {
	switch e := expr.(type) {
	case *BinaryExpr:
		left, err := evaluate(e.Left, m, patterns)
		if err != nil {
			return false, err
		}
		switch e.Op {
		case "AND":
			if !left {
				return false, nil
			}
			return evaluate(e.Right, m, patterns)
		case "OR":
			if left {
				return true, nil
			}
			return evaluate(e.Right, m, patterns)
		default:
			return false, fmt.Errorf("unknown binary op %q", e.Op)
		}
	case *NotExpr:
		v, err := evaluate(e.Expr, m, patterns)
		if err != nil {
			return false, err
		}
		return !v, nil
	case *ComparisonExpr:
		re := patterns[e]
		if e.Op == OpMatches && re == nil {
			var err error
			if re, err = pattern(e); err != nil {
				return false, err
			}
		}
		return compare(e.Op, resolve(e.Left, m), resolve(e.Right, m), re)
	default:
		return false, fmt.Errorf("unknown expr type %T", expr)
	}
}

func resolve(op Operand, m movement.Movement) interface{} {
	switch o := op.(type) {
	case *LiteralOperand:
		return o.Value
	case *FieldOperand:
		switch o.Field {
		case FieldSource:
			return string(m.Source)
		case FieldDestination:
			return string(m.Destination)
		case FieldDay:
			return float64(m.Day)
		}
	}
	return nil
}

func pattern(e *ComparisonExpr) (*regexp.Regexp, error) {
	lit, ok := e.Right.(*LiteralOperand)
	if !ok {
		return nil, fmt.Errorf("matches: pattern must be a string literal")
	}
	s, ok := lit.Value.(string)
	if !ok {
		return nil, fmt.Errorf("matches: pattern must be a string, got %T", lit.Value)
	}
	re, err := regexp.Compile(s)
	if err != nil {
		return nil, fmt.Errorf("matches: invalid regex %q: %w", s, err)
	}
	return re, nil
}

type kind int

const (
	kindString kind = iota
	kindNumber
	kindBool
)

func operandKind(op Operand) kind {
	switch o := op.(type) {
	case *FieldOperand:
		if o.Field == FieldDay {
			return kindNumber
		}
		return kindString
	case *LiteralOperand:
		switch o.Value.(type) {
		case float64:
			return kindNumber
		case bool:
			return kindBool
		}
	}
	return kindString
}

func check(expr Expr, patterns map[*ComparisonExpr]*regexp.Regexp) error {
	switch e := expr.(type) {
	case *BinaryExpr:
		if err := check(e.Left, patterns); err != nil {
			return err
		}
		return check(e.Right, patterns)
	case *NotExpr:
		return check(e.Expr, patterns)
	case *ComparisonExpr:
		_, lf := e.Left.(*FieldOperand)
		_, rf := e.Right.(*FieldOperand)
		if !lf && !rf {
			return fmt.Errorf("comparison %s must reference a field", e.Op)
		}
		lk, rk := operandKind(e.Left), operandKind(e.Right)
		switch {
		case lk == kindBool || rk == kindBool:
			return fmt.Errorf("movement fields are never boolean")
		case e.Op.numeric() && (lk != kindNumber || rk != kindNumber):
			return fmt.Errorf("operator %s requires day and a number", e.Op)
		case e.Op == OpContains && (lk != kindString || rk != kindString):
			return fmt.Errorf("contains requires a premise field and a string")
		case e.Op == OpMatches:
			if !lf || lk != kindString {
				return fmt.Errorf("matches requires a premise field on the left")
			}
			re, err := pattern(e)
			if err != nil {
				return err
			}
			patterns[e] = re
		case (e.Op == OpEq || e.Op == OpNeq) && lf && rf && lk != rk:
			return fmt.Errorf("cannot compare day with a premise field")
		case (e.Op == OpEq || e.Op == OpNeq) && (lk == kindNumber) != (rk == kindNumber) && (lf && lk == kindNumber || rf && rk == kindNumber):
			return fmt.Errorf("day must be compared with a number")
		}
		return nil
	default:
		return fmt.Errorf("unknown expr type %T", expr)
	}
}
