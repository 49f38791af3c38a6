package ccard

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uint64Key(i uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, i)
	return buf
}

func Test_EmptySketch(t *testing.T) {
	s, err := New(16, Murmur2_32, true)
	require.NoError(t, err)

	card, err := s.Cardinality()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), card)

	raw, err := s.ToRaw()
	require.NoError(t, err)
	assert.Len(t, raw, 1)

	framed, err := s.ToFramed()
	require.NoError(t, err)
	assert.Len(t, framed, 4)
}

func Test_SmallRangeLCRegime(t *testing.T) {
	s, err := New(13, Murmur2_32, true)
	require.NoError(t, err)

	for i := uint64(1); i <= 20; i++ {
		_, err := s.Offer(uint64Key(i))
		require.NoError(t, err)
	}

	assert.Equal(t, sparseKind, s.storage.kind())

	raw, err := s.ToRaw()
	require.NoError(t, err)
	assert.True(t, len(raw) <= 61)

	card, err := s.Cardinality()
	require.NoError(t, err)
	assert.True(t, card >= 17 && card <= 23, "card=%d", card)
}

func Test_PromotionAtScale(t *testing.T) {
	s, err := New(13, Murmur2_32, true)
	require.NoError(t, err)

	for i := uint64(1); i <= 30000; i++ {
		_, err := s.Offer(uint64Key(i))
		require.NoError(t, err)
	}

	require.Equal(t, denseKind, s.storage.kind())
	assert.Equal(t, sizeOfDense(13), len(s.storage.(*denseStorage).regs))

	card, err := s.Cardinality()
	require.NoError(t, err)
	assert.True(t, card >= 27000 && card <= 33000, "card=%d", card)
}

func Test_EstimatorBound(t *testing.T) {
	for _, n := range []uint64{100, 1000, 10000, 100000} {
		s, err := New(13, Murmur2_32, false)
		require.NoError(t, err)

		for i := uint64(0); i < n; i++ {
			_, err := s.Offer(uint64Key(i))
			require.NoError(t, err)
		}

		card, err := s.Cardinality()
		require.NoError(t, err)

		diff := float64(card) - float64(n)
		if diff < 0 {
			diff = -diff
		}
		rel := diff / float64(n)
		assert.True(t, rel < 0.10, "n=%d estimate=%d rel=%f", n, card, rel)
	}
}

func Test_CardinalityLogLog_IgnoresSwitch(t *testing.T) {
	s, err := New(13, Murmur2_32, false)
	require.NoError(t, err)

	// Nearly-empty sketch: B is close to 1, so Cardinality() takes the LC
	// branch while CardinalityLogLog() must still return the LL formula.
	s.offerBucket(0, 10)

	card, err := s.Cardinality()
	require.NoError(t, err)

	ll, err := s.CardinalityLogLog()
	require.NoError(t, err)

	assert.NotEqual(t, card, ll)
}
