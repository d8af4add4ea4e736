// Package signals is a push-pull reactive graph: writeable state cells,
// memoized computed cells and effects, flushed in height order once per tick.
package signals
