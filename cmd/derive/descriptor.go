package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/delaneyj/signallist/derive"
	"gopkg.in/yaml.v3"
)

type fileDescriptor struct {
	Name    string         `yaml:"name"`
	Source  []any          `yaml:"source"`
	Filter  []fileFilter   `yaml:"filter"`
	Sort    []fileSort     `yaml:"sort"`
	Map     *fileMap       `yaml:"map"`
	Prepend []any          `yaml:"prepend"`
	Append  []any          `yaml:"append"`
	Steps   [][]any        `yaml:"steps"`
	Key     string         `yaml:"key"`
	Extra   map[string]any `yaml:",inline"`
}

type fileOperand struct {
	Prop  *string `yaml:"prop"`
	Value any     `yaml:"value"`
}

type fileFilter struct {
	Left  fileOperand `yaml:"left"`
	Op    string      `yaml:"op"`
	Right fileOperand `yaml:"right"`
}

type fileSort struct {
	Key  string `yaml:"key"`
	Desc bool   `yaml:"desc"`
}

type fileMap struct {
	Template string         `yaml:"template"`
	Object   map[string]any `yaml:"object"`
}

func loadDescriptor(path string) (*fileDescriptor, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read descriptor: %w", err)
	}
	return parseDescriptor(b)
}

func parseDescriptor(b []byte) (*fileDescriptor, error) {
	fd := &fileDescriptor{}
	if err := yaml.Unmarshal(b, fd); err != nil {
		return nil, fmt.Errorf("parse descriptor: %w", err)
	}
	if len(fd.Extra) > 0 {
		keys := make([]string, 0, len(fd.Extra))
		for k := range fd.Extra {
			keys = append(keys, k)
		}
		return nil, fmt.Errorf("parse descriptor: unknown fields %v", keys)
	}
	return fd, nil
}

func (o fileOperand) operand() derive.Operand {
	if o.Prop != nil {
		return derive.Prop(*o.Prop)
	}
	return derive.Value(o.Value)
}

// descriptor converts the file form. source is the cell, or function, the
// pipeline reads its items from.
func (fd *fileDescriptor) descriptor(source any) (derive.Descriptor, error) {
	desc := derive.Descriptor{
		Name:   fd.Name,
		Source: source,
	}
	if fd.Prepend != nil {
		desc.Prepend = fd.Prepend
	}
	if fd.Append != nil {
		desc.Append = fd.Append
	}

	for i, f := range fd.Filter {
		op, err := derive.ParseOperator(f.Op)
		if err != nil {
			return desc, fmt.Errorf("filter %d: %w", i, err)
		}
		desc.Filter = append(desc.Filter, derive.Filter{
			Left:  f.Left.operand(),
			Op:    op,
			Right: f.Right.operand(),
		})
	}

	for _, s := range fd.Sort {
		desc.Sort = append(desc.Sort, derive.Sort{
			Key:  derive.Prop(s.Key),
			Desc: s.Desc,
		})
	}

	if fd.Map != nil {
		switch {
		case fd.Map.Template != "" && fd.Map.Object != nil:
			return desc, fmt.Errorf("map: template and object are exclusive")
		case fd.Map.Template != "":
			t, err := derive.ParseTemplate(fd.Map.Template)
			if err != nil {
				return desc, fmt.Errorf("map: %w", err)
			}
			desc.Map = t
		case fd.Map.Object != nil:
			obj, err := objectMapper(fd.Map.Object)
			if err != nil {
				return desc, fmt.Errorf("map: %w", err)
			}
			desc.Map = derive.Object(obj)
		}
	}
	return desc, nil
}

// objectMapper turns string leaves holding template actions into templates.
// Other leaves are kept as constants.
func objectMapper(in map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(in))
	for k, v := range in {
		switch v := v.(type) {
		case string:
			if !strings.Contains(v, "{{") {
				out[k] = v
				continue
			}
			t, err := derive.ParseTemplate(v)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			out[k] = t
		case map[string]any:
			nested, err := objectMapper(v)
			if err != nil {
				return nil, fmt.Errorf("%s.%w", k, err)
			}
			out[k] = nested
		default:
			out[k] = v
		}
	}
	return out, nil
}
