package derive

import (
	"fmt"
	"strings"
	"text/template"
)

// Mapper turns a filtered, sorted item into an output item.
type Mapper interface {
	Apply(item any, index int) (any, error)
}

// MapFunc maps with a plain function.
type MapFunc func(item any, index int) any

func (f MapFunc) Apply(item any, index int) (any, error) {
	return f(item, index), nil
}

// TemplateData is what a string template sees as its dot.
type TemplateData struct {
	Item  any
	Index int
}

// Template renders each item through text/template into a string.
type Template struct {
	src  string
	tmpl *template.Template
}

// ParseTemplate compiles src. Missing map keys render as their zero value.
func ParseTemplate(src string) (*Template, error) {
	tmpl, err := template.New("map").Option("missingkey=zero").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplate, err)
	}
	return &Template{src: src, tmpl: tmpl}, nil
}

// MustParseTemplate is ParseTemplate for templates known at compile time.
func MustParseTemplate(src string) *Template {
	t, err := ParseTemplate(src)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Template) Apply(item any, index int) (any, error) {
	var sb strings.Builder
	if err := t.tmpl.Execute(&sb, TemplateData{Item: item, Index: index}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplate, err)
	}
	return sb.String(), nil
}

func (t *Template) String() string {
	return t.src
}

// Object maps every item to a fresh map. Values that are Mappers, MapFuncs or
// func(item any, index int) any are evaluated per item, nested Objects and
// map[string]any recurse, and every other value is copied as is.
type Object map[string]any

func (o Object) Apply(item any, index int) (any, error) {
	return applyObject(o, item, index)
}

func applyObject(o map[string]any, item any, index int) (map[string]any, error) {
	out := make(map[string]any, len(o))
	for k, v := range o {
		mapped, err := applyLeaf(v, item, index)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		out[k] = mapped
	}
	return out, nil
}

func applyLeaf(v any, item any, index int) (any, error) {
	switch leaf := v.(type) {
	case Mapper:
		return leaf.Apply(item, index)
	case func(item any, index int) any:
		return leaf(item, index), nil
	case Operand:
		return leaf.Resolve(item, index), nil
	case map[string]any:
		return applyObject(leaf, item, index)
	default:
		return v, nil
	}
}

// EvaluateMap applies m to item. A nil Mapper passes the item through.
func EvaluateMap(item any, index int, m Mapper) (any, error) {
	if m == nil {
		return item, nil
	}
	return m.Apply(item, index)
}
