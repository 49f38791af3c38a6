package ccard

import "math/bits"

// algoAdaptive is this package's wire-format algorithm_id (spec.md §6).
const algoAdaptive = 2

// Result reports whether an Offer call changed the sketch's observable
// state.
type Result int

const (
	// Unmodified means the key's bucket already held a rank at least as
	// large as the one just computed.
	Unmodified Result = iota
	// Modified means the key advanced some bucket's rank, or caused a
	// sparse-to-dense promotion.
	Modified
)

// Sketch is the Adaptive Counting estimator: sparse/dense bucket storage,
// an algorithm-switching estimator, and header-tagged serialization. It
// corresponds to the teacher's Hll struct, generalized from a single
// fixed-algorithm dense/sparse HLL to the wider capability set described in
// algorithm.go.
type Sketch struct {
	k      int
	m      uint32
	hashID HashID
	h      hasher
	ca     float64

	storage bucketStorage
	rsum    uint64
	be      uint64

	lastErr error
}

// validateK reports whether k is in the supported precision range. The
// alpha table only has 32 entries (index 0 unused), matching spec.md's
// 1 <= k <= 31 bound.
func validateK(k int) bool {
	return k >= 1 && k <= 31
}

// New constructs an empty Adaptive Counting sketch with precision k and the
// given hash. sparseHint requests the sparse (ID-only) initial storage;
// otherwise storage starts dense and zero-filled, per the construction
// options table (spec.md §6).
func New(k int, hashID HashID, sparseHint bool) (*Sketch, error) {
	if !validateK(k) {
		return nil, newError(InvalidArg, "k=%d out of range [1,31]", k)
	}
	h, err := resolveHash(hashID)
	if err != nil {
		return nil, err
	}

	s := &Sketch{
		k:      k,
		m:      uint32(1) << uint(k),
		hashID: hashID,
		h:      h,
		ca:     alpha[k],
	}

	if sparseHint {
		s.storage = newSparseStorage(k)
		s.be = uint64(s.m)
	} else {
		s.storage = newDenseStorage(k)
		s.be = uint64(s.m)
	}

	return s, nil
}

// setErr records err as the sketch's last error (if non-nil) and returns it,
// so call sites can both "return s.setErr(err)" and later inspect LastError.
func (s *Sketch) setErr(err error) error {
	if err != nil {
		s.lastErr = err
	}
	return err
}

// LastError returns the most recent error this sketch has observed. A
// sketch that has erred still holds its previous valid state and remains
// usable (spec.md §7).
func (s *Sketch) LastError() error {
	return s.lastErr
}

func (s *Sketch) checkValid() error {
	if s == nil || s.storage == nil {
		return ErrInvalidCtx
	}
	return nil
}

// K returns the sketch's precision.
func (s *Sketch) K() int { return s.k }

// M returns the sketch's bucket count, 2^K().
func (s *Sketch) M() uint32 { return s.m }

// HashID returns the hash contract this sketch was constructed with.
func (s *Sketch) HashID() HashID { return s.hashID }

// bucketAndRank splits a full-width hash x into a bucket index j (top k
// bits) and a rank r (spec.md §4.3): 1 + the trailing-zero count of the
// remaining low hl-k bits, saturated into a byte. hl is the hasher's bit
// width (32 or 64).
func bucketAndRank(x uint64, k, hl int) (uint32, byte) {
	j := uint32(x >> uint(hl-k))

	shift := uint(k + 64 - hl)
	low := x << shift

	var ntz int
	if low == 0 {
		ntz = 64
	} else {
		ntz = bits.TrailingZeros64(low)
	}

	r := ntz - int(shift) + 1
	if r > 255 {
		r = 255
	}
	if r < 1 {
		r = 1
	}

	return j, byte(r)
}

// Offer hashes key and routes it to a bucket, advancing that bucket's rank
// if the new rank is larger (spec.md §4.3). It promotes sparse storage to
// dense when the projected sparse size would no longer be smaller.
func (s *Sketch) Offer(key []byte) (Result, error) {
	if err := s.checkValid(); err != nil {
		return Unmodified, s.setErr(err)
	}

	x := s.h.sum(key)
	j, r := bucketAndRank(x, s.k, s.h.width())

	return s.offerBucket(j, r), nil
}

// offerBucket applies a precomputed (bucket, rank) pair, used directly by
// Offer and indirectly by tests that need to pin specific bucket/rank
// combinations without depending on hash output.
func (s *Sketch) offerBucket(j uint32, r byte) Result {
	switch st := s.storage.(type) {
	case *sparseStorage:
		if existing := st.get(j); existing != 0 {
			if r > existing {
				st.setIfGreater(j, r)
				s.rsum += uint64(r) - uint64(existing)
				return Modified
			}
			return Unmodified
		}

		if !wouldPromote(st, s.k) {
			st.setIfGreater(j, r)
			s.rsum += uint64(r)
			s.be--
			return Modified
		}

		dense := st.toDense()
		s.storage = dense
		return s.offerDense(dense, j, r)

	case *denseStorage:
		return s.offerDense(st, j, r)

	default:
		return Unmodified
	}
}

// wouldPromote reports whether inserting one more entry into st would reach
// the dense-no-smaller threshold (spec.md §4.2 should_use_dense).
func wouldPromote(st *sparseStorage, k int) bool {
	n := len(st.entries)
	return (n+1)*(indexWidth(k)+1) >= sizeOfDense(k)
}

func (s *Sketch) offerDense(d *denseStorage, j uint32, r byte) Result {
	v := d.get(j)
	if r > v {
		if v == 0 {
			s.be--
		}
		s.rsum += uint64(r) - uint64(v)
		d.regs[j] = r
		return Modified
	}
	return Unmodified
}

// Reset empties the sketch and keeps its current storage kind: sparse
// collapses to the ID-only byte, dense is replaced by a zero-filled array.
// A sketch that was promoted to dense stays dense.
func (s *Sketch) Reset() error {
	if err := s.checkValid(); err != nil {
		return s.setErr(err)
	}

	switch s.storage.(type) {
	case *sparseStorage:
		s.storage = newSparseStorage(s.k)
	case *denseStorage:
		s.storage = newDenseStorage(s.k)
	}

	s.rsum = 0
	s.be = uint64(s.m)
	return nil
}

// recomputeStats rescans storage to repopulate Rsum and b_e, used after
// construction from bytes and after merge rather than threading incremental
// bookkeeping through those paths.
func (s *Sketch) recomputeStats() {
	rsum, nonEmpty := s.storage.stats()
	s.rsum = rsum
	s.be = uint64(s.m) - uint64(nonEmpty)
}
