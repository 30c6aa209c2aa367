// Package timezone maps the free-text timezone labels found in spreadsheet
// headers ("GMT+8", "PST", "JST") to a numeric hour offset.
package timezone

import (
	"regexp"
	"strconv"
	"strings"
)

var gmtPattern = regexp.MustCompile(`(?i)^GMT\s*([+-]?\d+(?:\.\d+)?)$`)

// Abbreviations not expressible as GMT offsets in the label itself.
// IST is the only half-hour entry.
var abbreviations = map[string]float64{
	"PST":  -8,
	"PDT":  -7,
	"MST":  -7,
	"MDT":  -6,
	"CST":  -6,
	"CDT":  -5,
	"EST":  -5,
	"EDT":  -4,
	"UTC":  0,
	"GMT":  0,
	"BST":  1,
	"CET":  1,
	"CEST": 2,
	"IST":  5.5,
	"HKT":  8,
	"JST":  9,
	"AEST": 10,
	"AEDT": 11,
}

// Resolve maps a label to a signed hour offset. Unknown or empty labels
// resolve to 0 (UTC). Callers that need to distinguish a genuine UTC from
// an unrecognized label use Lookup.
func Resolve(label string) float64 {
	offset, _ := Lookup(label)
	return offset
}

// Lookup resolves a label and reports whether it was recognized.
func Lookup(label string) (float64, bool) {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return 0, true
	}

	if m := gmtPattern.FindStringSubmatch(trimmed); m != nil {
		offset, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return offset, true
		}
	}

	if offset, ok := abbreviations[strings.ToUpper(trimmed)]; ok {
		return offset, true
	}

	return 0, false
}
