package ccard

import "sort"

// mergeSourceKind distinguishes the three ways a merge input can arrive
// (spec.md §4.5): an in-memory sketch, a raw storage blob whose precision
// is assumed to match the receiver, or a header-prefixed blob that
// self-describes its own algorithm/hash/k.
type mergeSourceKind int

const (
	sourceSketch mergeSourceKind = iota
	sourceRaw
	sourceFramed
)

// MergeSource is one input to Merge. Construct with SketchSource,
// RawSource, or FramedSource.
type MergeSource struct {
	kind   mergeSourceKind
	sketch *Sketch
	blob   []byte
}

// SketchSource wraps an in-memory sketch of matching k and hash_id as a
// merge input.
func SketchSource(s *Sketch) MergeSource {
	return MergeSource{kind: sourceSketch, sketch: s}
}

// RawSource wraps a raw storage blob (sparse or dense) of matching k as a
// merge input. Its hash_id is assumed to match the receiver's, since a raw
// blob carries no header to check it against.
func RawSource(buf []byte) MergeSource {
	return MergeSource{kind: sourceRaw, blob: buf}
}

// FramedSource wraps a header-prefixed blob as a merge input; its header
// must match {algo=Adaptive, hash_id=R.hash_id, k=R.k}.
func FramedSource(buf []byte) MergeSource {
	return MergeSource{kind: sourceFramed, blob: buf}
}

// resolveMergeSource validates src against the receiver's (k, hash_id) and returns its
// bucket storage view. Validation happens per-source against the receiver,
// never against some other source, correcting the redesign flag in §9
// describing the reference implementation's bug of checking every source
// against the first argument instead of itself.
func (s *Sketch) resolveMergeSource(src MergeSource) (bucketStorage, error) {
	switch src.kind {
	case sourceSketch:
		if src.sketch == nil || src.sketch.storage == nil {
			return nil, newError(InvalidCtx, "merge source sketch is invalid or uninitialized")
		}
		if src.sketch.k != s.k || src.sketch.hashID != s.hashID {
			return nil, newError(MergeFailed, "merge source k=%d hash_id=%s does not match receiver k=%d hash_id=%s",
				src.sketch.k, src.sketch.hashID, s.k, s.hashID)
		}
		return src.sketch.storage, nil

	case sourceRaw:
		st, err := parseStorage(src.blob, s.k)
		if err != nil {
			return nil, newError(MergeFailed, "raw merge source invalid for k=%d: %v", s.k, err)
		}
		return st, nil

	case sourceFramed:
		if len(src.blob) < 3 {
			return nil, newError(MergeFailed, "framed merge source too short")
		}
		algo, hashID, k := src.blob[0], HashID(src.blob[1]), int(src.blob[2])
		if algo != algoAdaptive || hashID != s.hashID || k != s.k {
			return nil, newError(MergeFailed, "framed merge source header {algo=%d,hash_id=%s,k=%d} does not match receiver {algo=%d,hash_id=%s,k=%d}",
				algo, hashID, k, algoAdaptive, s.hashID, s.k)
		}
		st, err := parseStorage(src.blob[3:], s.k)
		if err != nil {
			return nil, newError(MergeFailed, "framed merge source body invalid: %v", err)
		}
		return st, nil

	default:
		return nil, newError(InvalidArg, "unknown merge source kind")
	}
}

// Merge unifies the receiver with every source, replacing the receiver's
// storage with the result (spec.md §4.5). Every source is validated before
// any mutation occurs, so a failed Merge leaves the receiver untouched.
func (s *Sketch) Merge(sources ...MergeSource) error {
	if err := s.checkValid(); err != nil {
		return s.setErr(err)
	}

	views := make([]bucketStorage, 0, len(sources)+1)
	views = append(views, s.storage)

	for _, src := range sources {
		st, err := s.resolveMergeSource(src)
		if err != nil {
			return s.setErr(err)
		}
		views = append(views, st)
	}

	target := mergeViews(views, s.k)
	s.storage = target
	s.recomputeStats()
	return nil
}

// mergeViews builds the merged storage per spec.md §4.5's algorithm: dense
// if any view is dense, otherwise an N-way merge-sorted walk over sparse
// entries, promoted to dense if its projected size would no longer be
// smaller.
func mergeViews(views []bucketStorage, k int) bucketStorage {
	anyDense := false
	for _, v := range views {
		if v.kind() == denseKind {
			anyDense = true
			break
		}
	}

	if anyDense {
		return mergeToDense(views, k)
	}

	merged := mergeSparseEntries(views)
	if len(merged)*(indexWidth(k)+1)+1 >= sizeOfDense(k) {
		d := newDenseStorage(k)
		for _, e := range merged {
			d.regs[e.idx] = e.val
		}
		return d
	}

	return &sparseStorage{k: k, entries: merged}
}

// mergeToDense builds a length-m buffer and folds every source's buckets
// into it by element-wise max (spec.md §4.5 step 3, "To dense").
func mergeToDense(views []bucketStorage, k int) *denseStorage {
	d := newDenseStorage(k)
	for _, v := range views {
		switch st := v.(type) {
		case *denseStorage:
			d.union(st)
		case *sparseStorage:
			for _, e := range st.entries {
				if e.val > d.regs[e.idx] {
					d.regs[e.idx] = e.val
				}
			}
		}
	}
	return d
}

// mergeSparseEntries performs an N-way merge-sorted walk over every
// source's sorted sparse entries, emitting one entry per distinct IDX with
// the max V observed across all sources that carry it (spec.md §4.5 step 3,
// "To sparse"). Every input view here is sparse by construction: callers
// only reach this path once mergeViews has confirmed no view is dense.
func mergeSparseEntries(views []bucketStorage) []sparseEntry {
	cursors := make([]int, len(views))
	sources := make([]*sparseStorage, len(views))
	for i, v := range views {
		sources[i] = v.(*sparseStorage)
	}

	var out []sparseEntry

	for {
		minIdx := uint32(0)
		found := false
		for i, src := range sources {
			if cursors[i] >= len(src.entries) {
				continue
			}
			idx := src.entries[cursors[i]].idx
			if !found || idx < minIdx {
				minIdx = idx
				found = true
			}
		}
		if !found {
			break
		}

		var maxVal byte
		for i, src := range sources {
			if cursors[i] < len(src.entries) && src.entries[cursors[i]].idx == minIdx {
				if src.entries[cursors[i]].val > maxVal {
					maxVal = src.entries[cursors[i]].val
				}
				cursors[i]++
			}
		}

		out = append(out, sparseEntry{idx: minIdx, val: maxVal})
	}

	return out
}

// assertSorted is used only by tests to confirm merge output honors
// Invariant 2 (spec.md §3): strictly ascending IDX, no duplicates.
func assertSorted(entries []sparseEntry) bool {
	return sort.SliceIsSorted(entries, func(i, j int) bool { return entries[i].idx < entries[j].idx })
}
