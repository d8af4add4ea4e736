package property_test

import (
	"testing"

	"github.com/delaneyj/signallist/internal/property"
	"github.com/stretchr/testify/assert"
)

type address struct {
	City string `json:"city"`
}

type user struct {
	Name    string
	Address *address
	Tags    []string `yaml:"labels"`
	secret  string
}

func TestGet(t *testing.T) {
	u := user{
		Name:    "Ada",
		Address: &address{City: "London"},
		Tags:    []string{"math", "poetry"},
		secret:  "hidden",
	}
	doc := map[string]any{
		"user":  u,
		"ptr":   &u,
		"items": []any{map[string]any{"id": 7}},
		"nil":   nil,
	}

	tests := []struct {
		name string
		v    any
		path string
		want any
		ok   bool
	}{
		{"self", 42, "", 42, true},
		{"dot self", "x", ".", "x", true},
		{"map key", doc, "items.0.id", 7, true},
		{"struct field", doc, "user.Name", "Ada", true},
		{"folded field", doc, "user.name", "Ada", true},
		{"json tag through pointer", doc, "ptr.Address.city", "London", true},
		{"yaml tag index", doc, "user.labels.1", "poetry", true},
		{"unexported", doc, "user.secret", nil, false},
		{"missing key", doc, "nope", nil, false},
		{"index out of range", doc, "items.3", nil, false},
		{"through nil", doc, "nil.x", nil, false},
		{"scalar step", 5, "x", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := property.Get(tt.v, tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookupNamedMapKeyType(t *testing.T) {
	type key string
	m := map[key]int{"a": 1}
	assert.Equal(t, 1, property.Lookup(m, "a"))
	assert.Nil(t, property.Lookup(m, "b"))
}
