package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Operator represents a comparison operator.
type Operator string

const (
	OpEq       Operator = "=="
	OpNeq      Operator = "!="
	OpGt       Operator = ">"
	OpGte      Operator = ">="
	OpLt       Operator = "<"
	OpLte      Operator = "<="
	OpContains Operator = "contains"
	OpMatches  Operator = "matches"
)

func (op Operator) numeric() bool {
	switch op {
	case OpGt, OpGte, OpLt, OpLte:
		return true
	}
	return false
}

// compare applies a binary comparison operator to two resolved values.
func compare(op Operator, left, right interface{}, re *regexp.Regexp) (bool, error) {
	switch op {
	case OpEq:
		return equal(left, right), nil
	case OpNeq:
		return !equal(left, right), nil
	case OpGt, OpGte, OpLt, OpLte:
		return numericCompare(op, left, right)
	case OpContains:
		ls, lok := left.(string)
		rs, rok := right.(string)
		if !lok || !rok {
			return false, fmt.Errorf("contains requires string operands, got %T and %T", left, right)
		}
		return strings.Contains(ls, rs), nil
	case OpMatches:
		ls, ok := left.(string)
		if !ok || re == nil {
			return false, fmt.Errorf("matches requires a string field and a pattern, got %T", left)
		}
		return re.MatchString(ls), nil
	default:
		return false, fmt.Errorf("unknown operator: %s", op)
	}
}

// equal compares numbers by value; a number compared with a premise id is
// compared in its shortest decimal form, so source == 17 matches "17".
func equal(left, right interface{}) bool {
	lf, lok := left.(float64)
	rf, rok := right.(float64)
	switch {
	case lok && rok:
		return lf == rf
	case lok:
		return formatNumber(lf) == fmt.Sprint(right)
	case rok:
		return fmt.Sprint(left) == formatNumber(rf)
	}
	return left == right
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func numericCompare(op Operator, left, right interface{}) (bool, error) {
	lf, lok := left.(float64)
	rf, rok := right.(float64)
	if !lok || !rok {
		return false, fmt.Errorf("operator %s requires numeric operands, got %T and %T", op, left, right)
	}
	switch op {
	case OpGt:
		return lf > rf, nil
	case OpGte:
		return lf >= rf, nil
	case OpLt:
		return lf < rf, nil
	case OpLte:
		return lf <= rf, nil
	}
	return false, nil
}
