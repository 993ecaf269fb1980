package vat

import "errors"

// ErrUnavailable classifies transport-level failures (network error, SOAP
// fault, non-200 status, malformed response). Callers must surface these as
// "temporary error", never as "VAT not valid".
var ErrUnavailable = errors.New("vat provider unavailable")

// Query is a normalized VAT input: uppercase two-letter country code plus the
// bare number. CountryCode is empty when it could not be determined.
type Query struct {
	CountryCode string `json:"countryCode"`
	Number      string `json:"vatNumber"`
}

// Credentials is the WS-Security username/password pair for the AADE service.
// It is passed explicitly on every call instead of being read from global
// configuration.
type Credentials struct {
	Username string
	Password string
}

// AddressParts is the best-effort decomposition of a multi-line postal address
type AddressParts struct {
	Line1    string `json:"line1"`
	City     string `json:"city"`
	Postcode string `json:"postcode"`
}

// CheckVatResult is the structured outcome of a VIES checkVat call
type CheckVatResult struct {
	Valid       bool   `json:"valid"`
	CountryCode string `json:"countryCode"`
	VATNumber   string `json:"vatNumber"`
	Name        string `json:"name"`
	Address     string `json:"address"`
}
