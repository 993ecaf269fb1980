package vat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInput(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		fallback    string
		wantCountry string
		wantNumber  string
	}{
		{
			name:        "greek prefix aliased to EL",
			raw:         "GR123456789",
			wantCountry: "EL",
			wantNumber:  "123456789",
		},
		{
			name:        "lowercase with separators",
			raw:         "el 123 456 789",
			wantCountry: "EL",
			wantNumber:  "123456789",
		},
		{
			name:        "explicit EU prefix",
			raw:         "DE811128135",
			wantCountry: "DE",
			wantNumber:  "811128135",
		},
		{
			name:        "no prefix uses fallback country",
			raw:         "123456789",
			fallback:    "DE",
			wantCountry: "DE",
			wantNumber:  "123456789",
		},
		{
			name:        "fallback is normalized and truncated",
			raw:         "123456789",
			fallback:    "gr-el",
			wantCountry: "EL",
			wantNumber:  "123456789",
		},
		{
			name:       "no prefix and no fallback fails softly",
			raw:        "123456789",
			wantNumber: "123456789",
		},
		{
			name:       "one-letter fallback is not a country",
			raw:        "123456789",
			fallback:   "D",
			wantNumber: "123456789",
		},
		{
			name: "empty input",
			raw:  "",
		},
		{
			name:        "dashes and dots stripped",
			raw:         "el-123.456/789",
			wantCountry: "EL",
			wantNumber:  "123456789",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseInput(tt.raw, tt.fallback)
			assert.Equal(t, tt.wantCountry, got.CountryCode)
			assert.Equal(t, tt.wantNumber, got.Number)
		})
	}
}
