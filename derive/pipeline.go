package derive

import (
	"fmt"
	"reflect"

	"github.com/delaneyj/signallist/signals"
)

// Descriptor describes a derived collection.
//
// Source, Prepend and Append each accept a slice or array, a func() any
// returning one, or a signals.AnyReader holding one. Reads made while
// resolving them are tracked, so a source function that reads cells is
// reactive too.
type Descriptor struct {
	Name    string
	Source  any
	Filter  []Filter
	Sort    []Sort
	Map     Mapper
	Prepend any
	Append  any
}

// Runs counts the evaluations of every stage of a Pipeline.
type Runs struct {
	Source  int
	Filter  int
	Sort    int
	Map     int
	Compose int
}

// Pipeline chains source, filter, sort, map and compose stages. Each stage is a
// computed cell reading the previous one, so only the stages downstream of a
// change are evaluated again, and a stage producing an equal slice stops the
// propagation.
type Pipeline struct {
	rs   *signals.ReactiveSystem
	name string
	desc Descriptor

	source   *signals.ReadonlySignal[[]any]
	filtered *signals.ReadonlySignal[[]any]
	sorted   *signals.ReadonlySignal[[]any]
	mapped   *signals.ReadonlySignal[[]any]
	output   *signals.ReadonlySignal[[]any]

	runs Runs
	stop func()
}

// New builds the stages. Nothing is evaluated until the output is read.
func New(rs *signals.ReactiveSystem, desc Descriptor) *Pipeline {
	p := &Pipeline{
		rs:   rs,
		name: desc.Name,
		desc: desc,
	}
	if p.name == "" {
		p.name = "pipeline"
	}

	p.stop = signals.EffectScope(rs, func() {
		p.source = signals.Computed(rs, p.resolveSource).Named(p.name + ".source")
		p.filtered = signals.Computed(rs, p.applyFilter).Named(p.name + ".filter")
		p.sorted = signals.Computed(rs, p.applySort).Named(p.name + ".sort")
		p.mapped = signals.ComputedErr(rs, p.applyMap).Named(p.name + ".map")
		p.output = signals.Computed(rs, p.compose).Named(p.name + ".output")
	})
	return p
}

// Output is the cell holding the final ordered collection.
func (p *Pipeline) Output() *signals.ReadonlySignal[[]any] {
	return p.output
}

// Read returns the current output, evaluating whatever stages are stale.
func (p *Pipeline) Read() []any {
	return p.output.Value()
}

func (p *Pipeline) Runs() Runs {
	return p.runs
}

// Dispose unsubscribes every stage. Idempotent.
func (p *Pipeline) Dispose() {
	p.stop()
}

func (p *Pipeline) resolveSource([]any) []any {
	p.runs.Source++
	items, err := Collect(p.desc.Source)
	if err != nil {
		// fail closed
		p.rs.Report(p.source, fmt.Errorf("%s source: %w", p.name, err))
		return []any{}
	}
	return items
}

func (p *Pipeline) applyFilter([]any) []any {
	p.runs.Filter++
	items := p.source.Value()
	if len(p.desc.Filter) == 0 {
		return items
	}
	out := make([]any, 0, len(items))
	for i, item := range items {
		keep := true
		for _, f := range p.desc.Filter {
			if !EvaluateFilter(item, i, f) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, item)
		}
	}
	return out
}

func (p *Pipeline) applySort([]any) []any {
	p.runs.Sort++
	items := p.filtered.Value()
	if len(p.desc.Sort) == 0 {
		return items
	}
	return EvaluateSort(items, p.desc.Sort)
}

func (p *Pipeline) applyMap([]any) ([]any, error) {
	p.runs.Map++
	items := p.sorted.Value()
	if p.desc.Map == nil {
		return items, nil
	}
	out := make([]any, len(items))
	for i, item := range items {
		mapped, err := p.desc.Map.Apply(item, i)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out[i] = mapped
	}
	return out, nil
}

func (p *Pipeline) compose([]any) []any {
	p.runs.Compose++
	prepend := p.optional("prepend", p.desc.Prepend)
	mapped := p.mapped.Value()
	appended := p.optional("append", p.desc.Append)

	out := make([]any, 0, len(prepend)+len(mapped)+len(appended))
	out = append(out, prepend...)
	out = append(out, mapped...)
	return append(out, appended...)
}

func (p *Pipeline) optional(what string, v any) []any {
	if v == nil {
		return nil
	}
	items, err := Collect(v)
	if err != nil {
		p.rs.Report(p.output, fmt.Errorf("%s %s: %w", p.name, what, err))
		return nil
	}
	return items
}

// Collect resolves v to a fresh []any. Cells are read, functions called, and
// any slice or array copied element by element.
func Collect(v any) ([]any, error) {
	switch src := v.(type) {
	case signals.AnyReader:
		v = src.ValueAny()
	case func() any:
		v = src()
	case func() []any:
		v = src()
	}

	switch items := v.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil", ErrNotCollection)
	case []any:
		return append([]any{}, items...), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrNotCollection, v)
}
