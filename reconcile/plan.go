package reconcile

import "fmt"

type Op uint8

const (
	OpCreate Op = iota
	OpReuse
)

func (op Op) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpReuse:
		return "reuse"
	default:
		return fmt.Sprintf("Op(%d)", op)
	}
}

// Step places one new item. From is the index of the reused previous record,
// or -1 when a handle has to be created.
type Step struct {
	Op   Op
	From int
	To   int
	Item any
}

func newStep(from, to int, item any) Step {
	if from < 0 {
		return Step{Op: OpCreate, From: -1, To: to, Item: item}
	}
	return Step{Op: OpReuse, From: from, To: to, Item: item}
}

// Plan is the outcome of matching: one step per new item, in new-item order,
// and the previous indexes nothing matched, ascending.
type Plan struct {
	Steps   []Step
	Removed []int
}

// Stats summarizes a plan.
type Stats struct {
	Reused  int
	Created int
	Removed int
	// reused records whose index changed
	Moved int
}

func (p Plan) Stats() Stats {
	s := Stats{Removed: len(p.Removed)}
	for _, step := range p.Steps {
		if step.Op == OpCreate {
			s.Created++
			continue
		}
		s.Reused++
		if step.From != step.To {
			s.Moved++
		}
	}
	return s
}

func (s Stats) String() string {
	return fmt.Sprintf("reused=%d created=%d removed=%d moved=%d", s.Reused, s.Created, s.Removed, s.Moved)
}
