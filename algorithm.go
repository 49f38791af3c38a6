package ccard

// Algorithm-identifying wire bytes. CCARD_ALGO_LOGLOG (1) and
// CCARD_ALGO_ADAPTIVE (2) are given explicitly by the reference library's
// common header; algoLinear and algoHyperLogLog are not in the retrieved
// headers (truncated in the pack) and are inferred from the enum's
// declared order (Linear precedes LogLog in every source file's switch
// statements; HyperLogLog's own get_bytes uses a third distinct value
// after Adaptive) — see DESIGN.md.
const (
	algoLinear      = 0
	algoLogLog      = 1
	algoHyperLogLog = 3
)

// Algorithm is the capability set every estimator in this package
// implements: construction (handled per-type, since each has a distinct
// constructor signature), Offer, Cardinality, Reset, and serialization.
// It maps the reference library's ccard_algo_t vtable (init/offer/card/
// merge/get_bytes/fini) onto Go's interface satisfaction rather than a
// function-pointer struct (spec.md §9 Polymorphism).
//
// Merge is deliberately not part of this interface: each algorithm's
// source list needs a different element type (Sketch's MergeSource
// variants do not make sense for a plain bitmap counter), so it stays a
// concrete method on each type instead of a generic signature that would
// have to erase that distinction with interface{}.
type Algorithm interface {
	Offer(key []byte) (Result, error)
	Cardinality() (uint64, error)
	Reset() error
	ToRaw() ([]byte, error)
	ToFramed() ([]byte, error)
	LastError() error
}

var (
	_ Algorithm = (*Sketch)(nil)
	_ Algorithm = (*LCSketch)(nil)
	_ Algorithm = (*LLSketch)(nil)
	_ Algorithm = (*HLLSketch)(nil)
)
