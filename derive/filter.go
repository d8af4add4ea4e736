package derive

import (
	"fmt"
	"reflect"
	"strings"
)

type Operator string

const (
	OpEq         Operator = "=="
	OpNe         Operator = "!="
	OpLt         Operator = "<"
	OpLe         Operator = "<="
	OpGt         Operator = ">"
	OpGe         Operator = ">="
	OpAnd        Operator = "&&"
	OpOr         Operator = "||"
	OpContains   Operator = "contains"
	OpStartsWith Operator = "startsWith"
	OpEndsWith   Operator = "endsWith"
)

var operators = map[Operator]func(l, r any) bool{
	OpEq:       Equal,
	OpNe:       func(l, r any) bool { return !Equal(l, r) },
	OpLt:       func(l, r any) bool { return ordered(l, r) && Compare(l, r) < 0 },
	OpLe:       func(l, r any) bool { return ordered(l, r) && Compare(l, r) <= 0 },
	OpGt:       func(l, r any) bool { return ordered(l, r) && Compare(l, r) > 0 },
	OpGe:       func(l, r any) bool { return ordered(l, r) && Compare(l, r) >= 0 },
	OpAnd:      func(l, r any) bool { return truthy(l) && truthy(r) },
	OpOr:       func(l, r any) bool { return truthy(l) || truthy(r) },
	OpContains: contains,
	OpStartsWith: func(l, r any) bool {
		ls, rs, ok := strs(l, r)
		return ok && strings.HasPrefix(ls, rs)
	},
	OpEndsWith: func(l, r any) bool {
		ls, rs, ok := strs(l, r)
		return ok && strings.HasSuffix(ls, rs)
	},
}

// ParseOperator validates op.
func ParseOperator(op string) (Operator, error) {
	o := Operator(op)
	if _, ok := operators[o]; !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownOperator, op)
	}
	return o, nil
}

// Filter keeps the items for which Left Op Right holds. Right may be nil for
// the logical operators, which then only look at Left.
type Filter struct {
	Left  Operand
	Op    Operator
	Right Operand
}

// EvaluateFilter applies f to item. Unknown operators are false.
func EvaluateFilter(item any, index int, f Filter) bool {
	apply, ok := operators[f.Op]
	if !ok {
		return false
	}
	var l, r any
	if f.Left != nil {
		l = f.Left.Resolve(item, index)
	}
	if f.Right != nil {
		r = f.Right.Resolve(item, index)
	}
	return apply(l, r)
}

// ordered reports whether relational operators mean something for l and r.
// nil never orders against a value.
func ordered(l, r any) bool {
	if l == nil || r == nil {
		return false
	}
	return rank(l) == rank(r)
}

func strs(l, r any) (string, string, bool) {
	ls, lok := l.(string)
	rs, rok := r.(string)
	return ls, rs, lok && rok
}

func contains(l, r any) bool {
	if ls, rs, ok := strs(l, r); ok {
		return strings.Contains(ls, rs)
	}
	if l == nil {
		return false
	}
	rv := reflect.ValueOf(l)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if Equal(rv.Index(i).Interface(), r) {
				return true
			}
		}
	case reflect.Map:
		if r == nil {
			return false
		}
		key := reflect.ValueOf(r)
		if key.Type().AssignableTo(rv.Type().Key()) {
			return rv.MapIndex(key).IsValid()
		}
	}
	return false
}
