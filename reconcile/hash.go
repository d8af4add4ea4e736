package reconcile

import (
	"encoding/binary"
	"math"
	"reflect"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/delaneyj/signallist/internal/property"
)

// HashFunc must agree with the EqualFunc it is paired with: items that are
// equal hash the same.
type HashFunc func(v any) uint64

// deeper structures hash as their type only
const maxHashDepth = 32

// ContentHash hashes v structurally, consistently with reflect.DeepEqual.
func ContentHash(v any) uint64 {
	h := newHasher()
	h.value(reflect.ValueOf(v), 0)
	return h.d.Sum64()
}

// KeyHash pairs with KeyEqual.
func KeyHash(path string) HashFunc {
	return func(v any) uint64 {
		return ContentHash(property.Lookup(v, path))
	}
}

// DiffIndexed gives the same plan as Diff in O(n+m) expected time by only
// comparing items whose hashes collide. Each bucket keeps previous indexes in
// order, so the first-match choice is unchanged.
func DiffIndexed[H any](prev []Record[H], next []any, hash HashFunc, equal EqualFunc) Plan {
	if hash == nil {
		hash = ContentHash
	}
	if equal == nil {
		equal = DeepEqual
	}

	buckets := make(map[uint64][]int, len(prev))
	for i, r := range prev {
		h := hash(r.Source)
		buckets[h] = append(buckets[h], i)
	}

	consumed := make([]bool, len(prev))
	plan := Plan{Steps: make([]Step, len(next))}
	for to, item := range next {
		h := hash(item)
		bucket := buckets[h]
		from := -1
		for j, i := range bucket {
			if equal(prev[i].Source, item) {
				from = i
				buckets[h] = slices.Delete(bucket, j, j+1)
				break
			}
		}
		plan.Steps[to] = newStep(from, to, item)
		if from >= 0 {
			consumed[from] = true
		}
	}
	plan.Removed = unconsumed(consumed)
	return plan
}

// ReconcileIndexed is Reconcile on top of DiffIndexed.
func ReconcileIndexed[H any](
	prev []Record[H],
	next []any,
	hash HashFunc,
	equal EqualFunc,
	create func(item any, index int) H,
	remove func(Record[H]),
) []Record[H] {
	return Apply(DiffIndexed(prev, next, hash, equal), prev, create, remove)
}

type hasher struct {
	d   *xxhash.Digest
	buf [8]byte
}

func newHasher() *hasher {
	return &hasher{d: xxhash.New()}
}

func (h *hasher) u64(x uint64) {
	binary.LittleEndian.PutUint64(h.buf[:], x)
	h.d.Write(h.buf[:])
}

func (h *hasher) str(s string) {
	h.u64(uint64(len(s)))
	h.d.WriteString(s)
}

func (h *hasher) float(f float64) {
	if f == 0 {
		f = 0 // -0 == 0
	}
	h.u64(math.Float64bits(f))
}

func (h *hasher) value(rv reflect.Value, depth int) {
	if !rv.IsValid() {
		h.u64(0)
		return
	}
	h.str(rv.Type().String())
	if depth > maxHashDepth {
		return
	}

	switch rv.Kind() {
	case reflect.Bool:
		if rv.Bool() {
			h.u64(1)
		} else {
			h.u64(2)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		h.u64(uint64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		h.u64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		h.float(rv.Float())
	case reflect.Complex64, reflect.Complex128:
		c := rv.Complex()
		h.float(real(c))
		h.float(imag(c))
	case reflect.String:
		h.str(rv.String())
	case reflect.Slice, reflect.Array:
		h.u64(uint64(rv.Len()))
		for i := 0; i < rv.Len(); i++ {
			h.value(rv.Index(i), depth+1)
		}
	case reflect.Map:
		// entry order is random; combine entry hashes commutatively
		h.u64(uint64(rv.Len()))
		var sum uint64
		iter := rv.MapRange()
		for iter.Next() {
			entry := newHasher()
			entry.value(iter.Key(), depth+1)
			entry.value(iter.Value(), depth+1)
			sum += entry.d.Sum64()
		}
		h.u64(sum)
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			h.u64(0)
			return
		}
		h.value(rv.Elem(), depth+1)
	case reflect.Struct:
		for i := 0; i < rv.NumField(); i++ {
			h.value(rv.Field(i), depth+1)
		}
	}
}
