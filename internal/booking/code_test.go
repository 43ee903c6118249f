package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCode(t *testing.T) {
	assert.Equal(t, "BK00001", FormatCode(1))
	assert.Equal(t, "BK00042", FormatCode(42))
	assert.Equal(t, "BK99999", FormatCode(99999))
	// Beyond five digits the number just widens.
	assert.Equal(t, "BK100000", FormatCode(100000))
}

func TestParseCode(t *testing.T) {
	seq, ok := ParseCode("BK00042")
	assert.True(t, ok)
	assert.Equal(t, uint64(42), seq)

	for _, bad := range []string{"", "BK", "XX00042", "BK12a45", "00042"} {
		_, ok := ParseCode(bad)
		assert.False(t, ok, "expected %q to be rejected", bad)
	}
}

func TestCodeRoundTrip(t *testing.T) {
	for _, n := range []uint64{1, 9, 10, 99999, 123456} {
		seq, ok := ParseCode(FormatCode(n))
		assert.True(t, ok)
		assert.Equal(t, n, seq)
	}
}
