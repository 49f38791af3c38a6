package ccard

// ToRaw returns a copy of the storage bytes alone: sparse or dense are
// distinguishable by the first byte's high bit, but ToRaw itself does not
// tag anything beyond what the storage body already carries (spec.md §4.6).
func (s *Sketch) ToRaw() ([]byte, error) {
	if err := s.checkValid(); err != nil {
		return nil, s.setErr(err)
	}

	buf := make([]byte, s.storage.sizeBytes(s.k))
	s.storage.writeBytes(s.k, buf)
	return buf, nil
}

// ToFramed returns the 3-byte header {algo=Adaptive, hash_id, k} followed by
// ToRaw's bytes (spec.md §6 wire format).
func (s *Sketch) ToFramed() ([]byte, error) {
	if err := s.checkValid(); err != nil {
		return nil, s.setErr(err)
	}

	body := s.storage.sizeBytes(s.k)
	buf := make([]byte, 3+body)
	buf[0] = algoAdaptive
	buf[1] = byte(s.hashID)
	buf[2] = byte(s.k)
	s.storage.writeBytes(s.k, buf[3:])
	return buf, nil
}

// FromRaw constructs a Sketch from storage bytes that have already had any
// framing header stripped, given the precision and hash the caller already
// knows (spec.md §6: "offered as an internal constructor used when the
// caller has already stripped the header").
func FromRaw(buf []byte, k int, hashID HashID) (*Sketch, error) {
	if !validateK(k) {
		return nil, newError(InvalidArg, "k=%d out of range [1,31]", k)
	}
	h, err := resolveHash(hashID)
	if err != nil {
		return nil, err
	}

	storage, err := parseStorage(buf, k)
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
	s.storage = storage
	s.recomputeStats()
	return s, nil
}

// FromFramed parses a framed blob: header {algo, hash_id, k} followed by a
// storage body whose kind is determined by sniffing its first byte (high
// bit set and low 7 bits equal to k => sparse; otherwise dense of length m),
// with k taken from the header.
func FromFramed(buf []byte) (*Sketch, error) {
	if len(buf) < 3 {
		return nil, ErrInsufficientBytes
	}

	algo := buf[0]
	if algo != algoAdaptive {
		return nil, newError(InvalidArg, "algorithm_id %d is not Adaptive Counting (%d)", algo, algoAdaptive)
	}

	hashID := HashID(buf[1])
	k := int(buf[2])

	return FromRaw(buf[3:], k, hashID)
}

// parseStorage sniffs buf's first byte to pick sparse vs dense decoding: a
// byte equal to 0x80|k means sparse, anything else a dense body of exactly
// m bytes. k comes from a framed header (FromFramed, FramedSource) or from
// the caller (FromRaw, RawSource); there is no separate kind argument.
func parseStorage(buf []byte, k int) (bucketStorage, error) {
	if len(buf) == 0 {
		return nil, ErrInsufficientBytes
	}

	wantSparseID := byte(0x80 | k)
	if buf[0] == wantSparseID {
		return sparseFromBytes(k, buf[1:])
	}

	return denseFromBytes(k, buf)
}
