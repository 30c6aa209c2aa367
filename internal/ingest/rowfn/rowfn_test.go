package rowfn

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInt(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"1000", 1000},
		{"1,000", 1000},
		{" 42 ", 42},
		{"", 0},
		{"n/a", 0},
		{"-5", 0}, // counters clamp to zero
		{"12 views", 12},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Int(tc.raw), tc.raw)
	}
}

func TestFloat(t *testing.T) {
	assert.Equal(t, 2.5, Float("2.5%"))
	assert.Equal(t, 0.0, Float(""))
	assert.Equal(t, 0.0, Float("-1.2"))
	assert.Equal(t, 1234.5, Float("1,234.5"))
}

func TestSignedInt(t *testing.T) {
	v, ok := SignedInt("-25")
	assert.True(t, ok)
	assert.Equal(t, -25, v)

	_, ok = SignedInt("")
	assert.False(t, ok)

	v, ok = SignedInt("1,050")
	assert.True(t, ok)
	assert.Equal(t, 1050, v)
}

func TestBool(t *testing.T) {
	for _, truthy := range []string{"true", "TRUE", "1", "yes", "Yes "} {
		assert.True(t, Bool(truthy), truthy)
	}
	for _, falsy := range []string{"false", "0", "no", "", "maybe"} {
		assert.False(t, Bool(falsy), falsy)
	}
}

func TestRate(t *testing.T) {
	assert.Equal(t, 0.05, Rate(50, 1000))
	assert.Equal(t, 0.0, Rate(50, 0))
	assert.Equal(t, 1.0, Rate(2000, 1000)) // capped
}

func TestDateParsesKnownLayouts(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2025-08-02", time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC)},
		{"2025-08-02 14:30:00", time.Date(2025, 8, 2, 14, 30, 0, 0, time.UTC)},
		{"08/15/2025", time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)},
		{"Aug 7, 2025", time.Date(2025, 8, 7, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range tests {
		got, ok := Date(tc.raw)
		assert.True(t, ok, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}
}

func TestDateRetriesDayFirst(t *testing.T) {
	// 25/12/2024 cannot be month-first; the DD/MM retry must catch it.
	got, ok := Date("25/12/2024")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC), got)
}

// The zero-value fallback fires only for genuinely unparseable input.
func TestDateRejectsGarbageOnly(t *testing.T) {
	for _, raw := range []string{"", "not a date", "99/99/9999", "2024-02-31"} {
		_, ok := Date(raw)
		assert.False(t, ok, raw)
	}
	_, ok := Date("2024-02-29") // leap day is real
	assert.True(t, ok)
}
