package timezone

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveGMTOffsets(t *testing.T) {
	for _, n := range []int{-12, -8, -5, -1, 0, 1, 5, 8, 12} {
		label := fmt.Sprintf("GMT%+d", n)
		t.Run(label, func(t *testing.T) {
			assert.Equal(t, float64(n), Resolve(label))
		})
	}

	// Unsigned and spaced variants.
	assert.Equal(t, 8.0, Resolve("GMT 8"))
	assert.Equal(t, 8.0, Resolve("GMT+8"))
	assert.Equal(t, 8.0, Resolve("gmt +8"))
	assert.Equal(t, -8.0, Resolve("GMT -8"))
}

func TestResolveAbbreviations(t *testing.T) {
	tests := []struct {
		label string
		want  float64
	}{
		{"PST", -8},
		{"pst", -8},
		{"EDT", -4},
		{"UTC", 0},
		{"IST", 5.5},
		{"JST", 9},
		{"AEDT", 11},
		{" hkt ", 8},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Resolve(tc.label), tc.label)
	}
}

func TestResolveUnknownFallsBackToUTC(t *testing.T) {
	assert.Equal(t, 0.0, Resolve("Mars/Olympus"))
	assert.Equal(t, 0.0, Resolve(""))

	_, known := Lookup("Mars/Olympus")
	assert.False(t, known)

	// Empty labels count as known: absence means UTC by contract.
	_, known = Lookup("")
	assert.True(t, known)

	_, known = Lookup("GMT+8")
	assert.True(t, known)
}
