package ccard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_indexWidth(t *testing.T) {
	tests := []struct {
		k    int
		want int
	}{
		{k: 1, want: 1},
		{k: 8, want: 1},
		{k: 9, want: 2},
		{k: 16, want: 2},
		{k: 17, want: 3},
		{k: 31, want: 4},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, indexWidth(tt.k), "k=%d", tt.k)
	}
}

func Test_putIndexLE_indexLE_RoundTrip(t *testing.T) {
	for _, k := range []int{1, 8, 13, 16, 24, 31} {
		d := indexWidth(k)
		idx := uint32(1) << uint(k-1)

		buf := make([]byte, d)
		putIndexLE(buf, idx, d)

		assert.Equal(t, idx, indexLE(buf, d), "k=%d", k)
	}
}

func Test_putIndexLE_LittleEndian(t *testing.T) {
	buf := make([]byte, 2)
	putIndexLE(buf, 0x0102, 2)
	assert.Equal(t, byte(0x02), buf[0])
	assert.Equal(t, byte(0x01), buf[1])
}
