package derive

import (
	"cmp"
	"fmt"
	"math"
	"reflect"
	"time"
)

// kind ranks used when two values of different families are ordered
const (
	rankNil = iota
	rankBool
	rankNumber
	rankString
	rankTime
	rankOther
)

// Compare orders a and b: nil first, then booleans (false < true), numbers
// compared numerically whatever their Go type, strings, times, and finally
// anything else by its fmt representation.
func Compare(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}

	switch ra {
	case rankNil:
		return 0
	case rankBool:
		ba, bb := reflect.ValueOf(a).Bool(), reflect.ValueOf(b).Bool()
		switch {
		case ba == bb:
			return 0
		case !ba:
			return -1
		default:
			return 1
		}
	case rankNumber:
		na, _ := toNumber(a)
		nb, _ := toNumber(b)
		return compareNumbers(na, nb)
	case rankString:
		return cmp.Compare(reflect.ValueOf(a).String(), reflect.ValueOf(b).String())
	case rankTime:
		return a.(time.Time).Compare(b.(time.Time))
	default:
		return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
	}
}

// Equal is deep equality with one relaxation: numbers of different Go types
// are equal when their values are, so a YAML int matches a float literal.
func Equal(a, b any) bool {
	if na, ok := toNumber(a); ok {
		nb, ok := toNumber(b)
		if !ok || na.nan() || nb.nan() {
			return false
		}
		return compareNumbers(na, nb) == 0
	}
	return reflect.DeepEqual(a, b)
}

func rank(v any) int {
	if v == nil {
		return rankNil
	}
	if _, ok := v.(time.Time); ok {
		return rankTime
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Bool:
		return rankBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return rankNumber
	case reflect.String:
		return rankString
	default:
		return rankOther
	}
}

type numberKind uint8

const (
	kindInt numberKind = iota
	kindUint
	kindFloat
)

// number keeps integers exact; only floats go through float64.
type number struct {
	kind numberKind
	i    int64
	u    uint64
	f    float64
}

func (n number) float() float64 {
	switch n.kind {
	case kindInt:
		return float64(n.i)
	case kindUint:
		return float64(n.u)
	default:
		return n.f
	}
}

func (n number) nan() bool {
	return n.kind == kindFloat && math.IsNaN(n.f)
}

func toNumber(v any) (number, bool) {
	if v == nil {
		return number{}, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return number{kind: kindInt, i: rv.Int()}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return number{kind: kindUint, u: rv.Uint()}, true
	case reflect.Float32, reflect.Float64:
		return number{kind: kindFloat, f: rv.Float()}, true
	}
	return number{}, false
}

// compareNumbers compares integers exactly, signed against unsigned by sign
// first. A float on either side compares both as float64.
func compareNumbers(a, b number) int {
	switch {
	case a.kind == kindFloat || b.kind == kindFloat:
		return cmp.Compare(a.float(), b.float())
	case a.kind == kindInt && b.kind == kindInt:
		return cmp.Compare(a.i, b.i)
	case a.kind == kindUint && b.kind == kindUint:
		return cmp.Compare(a.u, b.u)
	case a.kind == kindInt:
		if a.i < 0 {
			return -1
		}
		return cmp.Compare(uint64(a.i), b.u)
	default:
		if b.i < 0 {
			return 1
		}
		return cmp.Compare(a.u, uint64(b.i))
	}
}

// truthy follows the usual loose rules: nil, false, zero numbers, empty
// strings and empty collections are false.
func truthy(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	}
	if n, ok := toNumber(v); ok {
		return n.float() != 0
	}
	return true
}
