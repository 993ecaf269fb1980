package vat

import (
	"regexp"
	"strings"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^A-Z0-9]`)
	nonAlphabetic   = regexp.MustCompile(`[^A-Z]`)
	leadingLetters  = regexp.MustCompile(`^[A-Z]{2}`)
)

// ParseInput normalizes a raw user-entered VAT string into a Query. All
// non-alphanumeric characters are stripped and the input uppercased; a leading
// two-letter prefix becomes the country code, otherwise the fallback country
// (e.g. the billing-country selection) is used. Greece is normalized from the
// ISO "GR" to the "EL" code VIES expects.
//
// Fails softly: when no country can be determined the returned CountryCode is
// empty and the caller must treat the input as invalid.
func ParseInput(raw, fallbackCountry string) Query {
	cleaned := nonAlphanumeric.ReplaceAllString(strings.ToUpper(raw), "")

	country := ""
	number := cleaned

	if leadingLetters.MatchString(cleaned) {
		country = cleaned[:2]
		number = cleaned[2:]
	} else {
		fb := nonAlphabetic.ReplaceAllString(strings.ToUpper(fallbackCountry), "")
		if len(fb) >= 2 {
			country = fb[:2]
		}
	}

	if country == "GR" {
		country = "EL"
	}

	return Query{CountryCode: country, Number: number}
}
