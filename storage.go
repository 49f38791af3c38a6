package ccard

// storageKind distinguishes the two bucket-array representations a sketch
// can hold. Serialized storage carries no separate kind field:
// parseStorage decides it from the body's first byte, which is 0x80|k for
// sparse storage, with k taken from the framed header or from the caller.
type storageKind int

const (
	sparseKind storageKind = iota
	denseKind
)

// bucketStorage is the tagged-union contract shared by sparseStorage and
// denseStorage. Algorithm-specific mutation (insertion, promotion) is
// deliberately left out of this interface — as in the teacher's own
// storage.go, "something needs to know how to convert between... storage
// types", and that something is the owning sketch, not the storage.
type bucketStorage interface {
	kind() storageKind

	// sizeBytes returns the number of bytes writeBytes will produce for
	// precision k (distinct from m because sparse storage is not m bytes).
	sizeBytes(k int) int

	// writeBytes serializes the storage body (no framed header) into buf,
	// which must have at least sizeBytes(k) bytes available.
	writeBytes(k int, buf []byte)

	// clone returns a deep, independent copy.
	clone() bucketStorage

	// stats recomputes Rsum (sum of all bucket values) and the count of
	// non-empty buckets by a full scan. Used after construction from
	// bytes and after merge; Offer maintains these incrementally and
	// Reset sets them directly instead of rescanning.
	stats() (rsum uint64, nonEmpty int)
}
