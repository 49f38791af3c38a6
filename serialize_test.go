package ccard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ToFramed_FromFramed_RoundTrip_Sparse(t *testing.T) {
	s, err := New(13, Murmur2_32, true)
	require.NoError(t, err)
	offerRange(t, s, 1, 20)

	framed, err := s.ToFramed()
	require.NoError(t, err)

	parsed, err := FromFramed(framed)
	require.NoError(t, err)

	assert.Equal(t, s.k, parsed.k)
	assert.Equal(t, s.hashID, parsed.hashID)
	assert.Equal(t, s.storage.kind(), parsed.storage.kind())

	wantCard, err := s.Cardinality()
	require.NoError(t, err)
	gotCard, err := parsed.Cardinality()
	require.NoError(t, err)
	assert.Equal(t, wantCard, gotCard)
}

func Test_ToFramed_FromFramed_RoundTrip_Dense(t *testing.T) {
	s, err := New(13, Murmur2_32, true)
	require.NoError(t, err)
	offerRange(t, s, 1, 30000)
	require.Equal(t, denseKind, s.storage.kind())

	framed, err := s.ToFramed()
	require.NoError(t, err)

	parsed, err := FromFramed(framed)
	require.NoError(t, err)
	assert.Equal(t, denseKind, parsed.storage.kind())
	assert.Equal(t, s.storage.(*denseStorage).regs, parsed.storage.(*denseStorage).regs)
}

func Test_ToRaw_FromRaw_RoundTrip(t *testing.T) {
	s, err := New(13, Lookup3_64, false)
	require.NoError(t, err)
	offerRange(t, s, 1, 500)

	raw, err := s.ToRaw()
	require.NoError(t, err)

	parsed, err := FromRaw(raw, 13, Lookup3_64)
	require.NoError(t, err)

	assert.Equal(t, s.storage.(*denseStorage).regs, parsed.storage.(*denseStorage).regs)
}

func Test_FromFramed_RejectsWrongAlgo(t *testing.T) {
	buf := []byte{99, byte(Murmur2_32), 13}
	buf = append(buf, make([]byte, sizeOfDense(13))...)

	_, err := FromFramed(buf)
	require.Error(t, err)
	assert.Equal(t, InvalidArg, CodeOf(err))
}

func Test_FramedRoundTripReject_BadLength(t *testing.T) {
	// k=16 dense body must be m=65536 bytes; a 32-byte body is neither that
	// nor a valid sparse shape for k=16 (spec.md §8 scenario 6).
	buf := []byte{algoAdaptive, byte(Murmur2_32), 16}
	buf = append(buf, make([]byte, 32)...)

	_, err := FromFramed(buf)
	require.Error(t, err)
}

func Test_FromFramed_RejectsShortInput(t *testing.T) {
	_, err := FromFramed([]byte{1, 2})
	require.Error(t, err)
	assert.Equal(t, ErrInsufficientBytes, err)
}

func Test_FromRaw_RejectsBadK(t *testing.T) {
	_, err := FromRaw([]byte{0}, 0, Murmur2_32)
	require.Error(t, err)
	assert.Equal(t, InvalidArg, CodeOf(err))
}
