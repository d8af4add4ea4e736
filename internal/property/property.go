// Package property resolves dotted property paths ("user.address.city",
// "tags.0") against maps, structs, slices and pointers to them.
package property

import (
	"reflect"
	"strconv"
	"strings"
)

// Get returns the value found at path. The empty path and "." name v itself.
// ok is false as soon as a step cannot be followed.
func Get(v any, path string) (value any, ok bool) {
	if path == "" || path == "." {
		return v, true
	}
	rv := reflect.ValueOf(v)
	for _, step := range strings.Split(path, ".") {
		rv, ok = follow(rv, step)
		if !ok {
			return nil, false
		}
	}
	if !rv.IsValid() || !rv.CanInterface() {
		return nil, false
	}
	return rv.Interface(), true
}

// Lookup is Get without the found flag.
func Lookup(v any, path string) any {
	value, _ := Get(v, path)
	return value
}

func follow(rv reflect.Value, step string) (reflect.Value, bool) {
	rv = indirect(rv)
	if !rv.IsValid() {
		return reflect.Value{}, false
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, false
		}
		got := rv.MapIndex(reflect.ValueOf(step).Convert(rv.Type().Key()))
		if !got.IsValid() {
			return reflect.Value{}, false
		}
		return got, true

	case reflect.Struct:
		if f := rv.FieldByName(step); f.IsValid() && f.CanInterface() {
			return f, true
		}
		return fieldByTagOrFold(rv, step)

	case reflect.Slice, reflect.Array:
		i, err := strconv.Atoi(step)
		if err != nil || i < 0 || i >= rv.Len() {
			return reflect.Value{}, false
		}
		return rv.Index(i), true
	}
	return reflect.Value{}, false
}

// fieldByTagOrFold matches a json or yaml tag name first, then the field name
// case-insensitively.
func fieldByTagOrFold(rv reflect.Value, step string) (reflect.Value, bool) {
	t := rv.Type()
	folded := -1
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		for _, key := range []string{"json", "yaml"} {
			name, _, _ := strings.Cut(f.Tag.Get(key), ",")
			if name == step {
				return rv.Field(i), true
			}
		}
		if folded < 0 && strings.EqualFold(f.Name, step) {
			folded = i
		}
	}
	if folded >= 0 {
		return rv.Field(folded), true
	}
	return reflect.Value{}, false
}

func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}
