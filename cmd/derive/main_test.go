package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunDescriptorFile(t *testing.T) {
	fd, err := loadDescriptor("testdata/todos.yaml")
	require.NoError(t, err)
	require.Len(t, fd.Steps, 3)

	var out bytes.Buffer
	require.NoError(t, runDescriptor(&out, zap.NewNop(), fd))

	got := out.String()
	assert.Contains(t, got, "label:0. write")
	assert.Contains(t, got, "label:1. test")
	assert.Contains(t, got, "reused 0, created 4, removed 0, moved 0")
	// ship replaces write, header test and footer keep their handles
	assert.Contains(t, got, "label:0. ship")
	assert.Contains(t, got, "reused 3, created 1, removed 1, moved 0")
	assert.Contains(t, got, "output unchanged")
	assert.Contains(t, got, "reused 2, created 0, removed 2, moved 1")
}

func TestParseDescriptorErrors(t *testing.T) {
	tcs := []struct {
		name string
		src  string
		msg  string
	}{
		{
			name: "unknown field",
			src:  "source: []\nfilters: []\n",
			msg:  "unknown fields [filters]",
		},
		{
			name: "unknown operator",
			src:  "filter:\n  - left: {prop: a}\n    op: \"=~\"\n    right: {value: 1}\n",
			msg:  "filter 0",
		},
		{
			name: "template and object",
			src:  "map:\n  template: \"{{.Item}}\"\n  object: {a: 1}\n",
			msg:  "exclusive",
		},
		{
			name: "bad template",
			src:  "map:\n  object: {a: \"{{.Item\"}\n",
			msg:  "map: a",
		},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			fd, err := parseDescriptor([]byte(tc.src))
			if err == nil {
				_, err = fd.descriptor([]any{})
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestObjectMapperNestedTemplates(t *testing.T) {
	fd, err := parseDescriptor([]byte(`
source:
  - {name: ada, langs: [go]}
map:
  object:
    who: "{{.Item.name}}"
    meta:
      at: "{{.Index}}"
      fixed: 7
`))
	require.NoError(t, err)
	desc, err := fd.descriptor(fd.Source)
	require.NoError(t, err)

	mapped, err := desc.Map.Apply(fd.Source[0], 0)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"who":  "ada",
		"meta": map[string]any{"at": "0", "fixed": 7},
	}, mapped)
}
