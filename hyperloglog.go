package ccard

import "math"

const pow2_32 = 4294967296.0

// HLLSketch is the plain HyperLogLog estimator: dense byte-per-bucket
// storage plus the small/intermediate/large-range bias correction from
// hll_cnt_card, reusing this package's denseStorage even though the 5-bit
// packed register set HLL normally uses is explicitly out of scope
// (spec.md §1) — hyperloglog_counting.c's own ctx->M is a plain uint8_t
// array, so a byte-per-bucket port is faithful to this reference, not a
// simplification of it.
type HLLSketch struct {
	k       int
	m       uint32
	hashID  HashID
	h       hasher
	alphaMM float64

	storage *denseStorage

	lastErr error
}

// alphaMM computes the bias-correction constant alpha*m^2 per hll_cnt_init,
// with the three small-m special cases the reference library hardcodes.
func alphaMM(k int, m uint32) float64 {
	mf := float64(m)
	switch k {
	case 4:
		return 0.673 * mf * mf
	case 5:
		return 0.697 * mf * mf
	case 6:
		return 0.709 * mf * mf
	default:
		return (0.7213 / (1 + 1.079/mf)) * mf * mf
	}
}

// NewHLL constructs an empty plain HyperLogLog sketch with precision k.
func NewHLL(k int, hashID HashID) (*HLLSketch, error) {
	if !validateK(k) {
		return nil, newError(InvalidArg, "k=%d out of range [1,31]", k)
	}
	h, err := resolveHash(hashID)
	if err != nil {
		return nil, err
	}

	m := uint32(1) << uint(k)
	return &HLLSketch{
		k:       k,
		m:       m,
		hashID:  hashID,
		h:       h,
		alphaMM: alphaMM(k, m),
		storage: newDenseStorage(k),
	}, nil
}

func (s *HLLSketch) setErr(err error) error {
	if err != nil {
		s.lastErr = err
	}
	return err
}

func (s *HLLSketch) LastError() error { return s.lastErr }

func (s *HLLSketch) checkValid() error {
	if s == nil || s.storage == nil {
		return ErrInvalidCtx
	}
	return nil
}

// Offer hashes key, routes it to a bucket via the shared bucketAndRank
// split, and keeps the maximum rank seen (hll_cnt_offer).
func (s *HLLSketch) Offer(key []byte) (Result, error) {
	if err := s.checkValid(); err != nil {
		return Unmodified, s.setErr(err)
	}

	x := s.h.sum(key)
	j, r := bucketAndRank(x, s.k, s.h.width())

	if r > s.storage.regs[j] {
		s.storage.regs[j] = r
		return Modified, nil
	}
	return Unmodified, nil
}

// Cardinality applies the raw estimate then the small/large-range
// corrections from hll_cnt_card: linear counting when the raw estimate is
// at most 2.5m, the raw estimate unchanged in the middle range, and a
// large-range correction for hashes approaching the 32-bit space.
func (s *HLLSketch) Cardinality() (uint64, error) {
	if err := s.checkValid(); err != nil {
		return 0, s.setErr(err)
	}

	var sum float64
	var zeros float64
	for _, v := range s.storage.regs {
		sum += math.Pow(2, -float64(v))
		if v == 0 {
			zeros++
		}
	}

	estimate := s.alphaMM * (1 / sum)
	mf := float64(s.m)

	switch {
	case estimate <= (5.0/2.0)*mf:
		if zeros == 0 {
			return round(estimate), nil
		}
		return round(mf * math.Log(mf/zeros)), nil
	case estimate <= (1.0/30.0)*pow2_32:
		return round(estimate), nil
	default:
		return round(-pow2_32 * math.Log(1.0-(estimate/pow2_32))), nil
	}
}

// Reset zeroes every bucket.
func (s *HLLSketch) Reset() error {
	if err := s.checkValid(); err != nil {
		return s.setErr(err)
	}
	s.storage = newDenseStorage(s.k)
	return nil
}

// ToRaw returns a copy of the m dense bucket bytes.
func (s *HLLSketch) ToRaw() ([]byte, error) {
	if err := s.checkValid(); err != nil {
		return nil, s.setErr(err)
	}
	buf := make([]byte, sizeOfDense(s.k))
	s.storage.writeBytes(s.k, buf)
	return buf, nil
}

// ToFramed returns {algo=HyperLogLog, hash_id, k} followed by the dense
// bucket bytes (hll_cnt_get_bytes's 3-byte header).
func (s *HLLSketch) ToFramed() ([]byte, error) {
	raw, err := s.ToRaw()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 3+len(raw))
	buf[0] = algoHyperLogLog
	buf[1] = byte(s.hashID)
	buf[2] = byte(s.k)
	copy(buf[3:], raw)
	return buf, nil
}

// MergeHLL folds other's buckets into s by element-wise max, covering
// index 0..m (the same redesign flag as MergeLL: hll_cnt_merge's reference
// loop starts at i=1).
func (s *HLLSketch) MergeHLL(other *HLLSketch) error {
	if err := s.checkValid(); err != nil {
		return s.setErr(err)
	}
	if err := other.checkValid(); err != nil {
		return s.setErr(newError(MergeFailed, "merge source invalid: %v", err))
	}
	if other.m != s.m || other.hashID != s.hashID {
		return s.setErr(newError(MergeFailed, "merge source m=%d hash_id=%s does not match receiver m=%d hash_id=%s",
			other.m, other.hashID, s.m, s.hashID))
	}

	s.storage.union(other.storage)
	return nil
}
