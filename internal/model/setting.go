package model

import "time"

// Setting keys. The VAT source decides which provider backs the lookup
// endpoint; the AADE pair is the WS-Security credential for the GSIS service.
const (
	SettingVATSource       = "vat_source" // aade, vies, none
	SettingAADEUser        = "aade_user"
	SettingAADEPass        = "aade_pass"
	SettingAutofillEnabled = "autofill_enabled" // yes / no
)

// VAT source values
const (
	VATSourceAADE = "aade"
	VATSourceVIES = "vies"
	VATSourceNone = "none"
)

// Setting is a single key/value configuration row managed from the admin API
type Setting struct {
	Key       string    `gorm:"type:varchar(64);primaryKey" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
