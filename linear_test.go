package ccard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_LCSketch_Offer_SetsBitsOnce(t *testing.T) {
	s, err := NewLC(10, Murmur2_32)
	require.NoError(t, err)

	res, err := s.Offer([]byte("alpha"))
	require.NoError(t, err)
	assert.Equal(t, Modified, res)

	res, err = s.Offer([]byte("alpha"))
	require.NoError(t, err)
	assert.Equal(t, Unmodified, res)
}

func Test_LCSketch_Cardinality_EmptyIsZero(t *testing.T) {
	s, err := NewLC(10, Murmur2_32)
	require.NoError(t, err)

	card, err := s.Cardinality()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), card)
}

func Test_LCSketch_Cardinality_WithinBound(t *testing.T) {
	s, err := NewLC(14, Murmur2_32)
	require.NoError(t, err)

	n := 1000
	for i := 0; i < n; i++ {
		_, err := s.Offer(uint64Key(uint64(i)))
		require.NoError(t, err)
	}

	card, err := s.Cardinality()
	require.NoError(t, err)

	diff := float64(card) - float64(n)
	if diff < 0 {
		diff = -diff
	}
	assert.True(t, diff/float64(n) < 0.10)
}

func Test_LCSketch_Reset(t *testing.T) {
	s, err := NewLC(10, Murmur2_32)
	require.NoError(t, err)
	s.Offer([]byte("x"))

	require.NoError(t, s.Reset())
	card, err := s.Cardinality()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), card)
}

func Test_LCSketch_MergeLC_IsUnionOfBits(t *testing.T) {
	a, err := NewLC(10, Murmur2_32)
	require.NoError(t, err)
	b, err := NewLC(10, Murmur2_32)
	require.NoError(t, err)

	a.Offer([]byte("one"))
	b.Offer([]byte("two"))

	require.NoError(t, a.MergeLC(b))

	cardA, err := a.Cardinality()
	require.NoError(t, err)
	assert.True(t, cardA >= 1)
}

func Test_LCSketch_MergeLC_RejectsMismatch(t *testing.T) {
	a, err := NewLC(10, Murmur2_32)
	require.NoError(t, err)
	b, err := NewLC(11, Murmur2_32)
	require.NoError(t, err)

	err = a.MergeLC(b)
	require.Error(t, err)
	assert.Equal(t, MergeFailed, CodeOf(err))
}

func Test_LCSketch_ToFramed_HeaderShape(t *testing.T) {
	s, err := NewLC(10, Murmur2_32)
	require.NoError(t, err)

	framed, err := s.ToFramed()
	require.NoError(t, err)
	assert.Equal(t, byte(algoLinear), framed[0])
	assert.Equal(t, byte(Murmur2_32), framed[1])
	assert.Equal(t, byte(10), framed[2])
}
