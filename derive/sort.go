package derive

import "slices"

// Sort is one key of a multi-key sort. Later keys break ties of earlier ones.
type Sort struct {
	Key  Operand
	Desc bool
}

// EvaluateSort returns a stably sorted copy of items. Each key is resolved once
// per item, with the item's index in items.
func EvaluateSort(items []any, sorts []Sort) []any {
	out := slices.Clone(items)
	if len(sorts) == 0 || len(items) < 2 {
		return out
	}

	type keyed struct {
		item any
		keys []any
	}
	rows := make([]keyed, len(items))
	for i, item := range items {
		keys := make([]any, len(sorts))
		for j, s := range sorts {
			if s.Key != nil {
				keys[j] = s.Key.Resolve(item, i)
			}
		}
		rows[i] = keyed{item: item, keys: keys}
	}

	slices.SortStableFunc(rows, func(a, b keyed) int {
		for j, s := range sorts {
			c := Compare(a.keys[j], b.keys[j])
			if c == 0 {
				continue
			}
			if s.Desc {
				return -c
			}
			return c
		}
		return 0
	})

	for i, row := range rows {
		out[i] = row.item
	}
	return out
}
