package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPluralizePoints(t *testing.T) {
	cases := map[int64]string{
		0:   "очков",
		1:   "очко",
		2:   "очка",
		4:   "очка",
		5:   "очков",
		11:  "очков",
		12:  "очков",
		21:  "очко",
		22:  "очка",
		111: "очков",
		-1:  "очко",
		-3:  "очка",
	}
	for n, want := range cases {
		assert.Equal(t, want, PluralizePoints(n), "n=%d", n)
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "999", FormatNumber(999))
	assert.Equal(t, "2 350", FormatNumber(2350))
	assert.Equal(t, "1 000 001", FormatNumber(1000001))
	assert.Equal(t, "-12 000", FormatNumber(-12000))
}

func TestLoadLocation_Fallback(t *testing.T) {
	loc := LoadLocation("Nowhere/Unknown")
	assert.Equal(t, "MSK", loc.String())
}
