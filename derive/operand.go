package derive

import (
	"github.com/delaneyj/signallist/internal/property"
	"github.com/delaneyj/signallist/signals"
)

// Operand produces one side of a filter comparison, or a sort key, for an item.
type Operand interface {
	Resolve(item any, index int) any
}

// Prop reads a dotted property path from the item. The empty path is the item.
type Prop string

func (p Prop) Resolve(item any, _ int) any {
	return property.Lookup(item, string(p))
}

// Self is the item itself.
const Self = Prop("")

// Func computes the operand from the item and its index in the collection the
// stage received.
type Func func(item any, index int) any

func (f Func) Resolve(item any, index int) any {
	return f(item, index)
}

type literal struct {
	v any
}

func (l literal) Resolve(any, int) any {
	return l.v
}

// Value is a static operand.
func Value(v any) Operand {
	return literal{v: v}
}

type cellOperand struct {
	cell signals.AnyReader
}

func (c cellOperand) Resolve(any, int) any {
	return c.cell.ValueAny()
}

// Cell reads a reactive cell. The stage evaluating the expression depends on
// it and re-runs when the cell changes.
func Cell(cell signals.AnyReader) Operand {
	return cellOperand{cell: cell}
}
