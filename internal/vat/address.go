package vat

import (
	"regexp"
	"strings"
)

var (
	lineBreaks   = regexp.MustCompile(`\r\n|\r|\n`)
	postcodeCity = regexp.MustCompile(`^([A-Z]{0,3}\s?\d{3,5})\s+(.+)$`)
)

// SplitAddress decomposes a multi-line address (as VIES returns it) into
// street line, city and postcode. Line1 is the first non-blank line; the
// postcode/city pair is found by scanning lines bottom-up for a short
// alphanumeric code followed by text (e.g. "12345 Berlin"), first match wins.
//
// This is a heuristic, not a guaranteed-correct parser: addresses without a
// recognizable postcode line yield empty City/Postcode.
func SplitAddress(address string) AddressParts {
	var parts AddressParts

	var lines []string
	for _, ln := range lineBreaks.Split(address, -1) {
		if ln = strings.TrimSpace(ln); ln != "" {
			lines = append(lines, ln)
		}
	}
	if len(lines) == 0 {
		return parts
	}

	parts.Line1 = lines[0]

	for i := len(lines) - 1; i >= 0; i-- {
		if m := postcodeCity.FindStringSubmatch(lines[i]); m != nil {
			parts.Postcode = strings.TrimSpace(m[1])
			parts.City = strings.TrimSpace(m[2])
			break
		}
	}

	return parts
}
