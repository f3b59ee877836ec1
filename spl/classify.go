package spl

import "strings"

// manufactureExclusions are activity words that disqualify an otherwise
// "MANUFACTURE" label from counting as manufacturing.
var manufactureExclusions = []string{
	"API",
	"REPACK",
	"RELABEL",
	"PACK",
	"LABEL",
	"ANALYSIS",
	"COMPOUND",
}

// IsManufacturing reports whether an activity display label denotes genuine
// manufacturing: it must mention MANUFACTURE and none of the exclusion
// words, compared case-insensitively as substrings.
func IsManufacturing(label string) bool {
	upper := strings.ToUpper(label)
	if !strings.Contains(upper, "MANUFACTURE") {
		return false
	}
	for _, term := range manufactureExclusions {
		if strings.Contains(upper, term) {
			return false
		}
	}
	return true
}

// IsExactManufacture is the narrower emit-all filter: the label must be
// exactly "MANUFACTURE" or "manufacture".
func IsExactManufacture(label string) bool {
	return label == "MANUFACTURE" || label == "manufacture"
}
