package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"timologio/internal/model"
	"timologio/internal/repository"
	"timologio/internal/vat"

	"gorm.io/gorm"
)

// Lookup failure messages surfaced to the storefront. ErrUnavailable-classified
// client errors are not listed here: they pass through so the handler can
// answer 503 instead of "not valid".
var (
	ErrVATNotProvided = errors.New("VAT number not provided.")
	ErrVATUnparsable  = errors.New("Could not detect country code or VAT number.")
	ErrVATNotValid    = errors.New("VAT number not valid.")
	ErrLookupDisabled = errors.New("VAT autofill is disabled.")
)

// --- DTOs ---

type VATLookupRequest struct {
	VATNumber      string `json:"vat_number" form:"vat_number"`
	BillingCountry string `json:"billing_country" form:"billing_country"`
	VATType        string `json:"vat_type" form:"vat_type"` // optional per-request source override: aade or vies
}

// VATDetails is the autofill payload. Field names follow the storefront
// contract: epwnymia = company name, doy = tax office, drastiriotita =
// business activity.
type VATDetails struct {
	DOY           string `json:"doy,omitempty"`
	Epwnymia      string `json:"epwnymia,omitempty"`
	Drastiriotita string `json:"drastiriotita,omitempty"`
	Address       string `json:"address,omitempty"`
	AddressLine1  string `json:"address_line1,omitempty"`
	Country       string `json:"country,omitempty"`
	City          string `json:"city,omitempty"`
	Postcode      string `json:"postcode,omitempty"`
}

// --- Interfaces ---

// AADELookupClient is the AADE registry lookup surface (see vat.AADEClient).
type AADELookupClient interface {
	Lookup(ctx context.Context, vatID string, creds vat.Credentials) (string, error)
}

// VIESCheckClient is the VIES checkVat surface (see vat.VIESClient).
type VIESCheckClient interface {
	CheckVat(ctx context.Context, countryCode, number string) (vat.CheckVatResult, error)
}

type LookupService interface {
	FetchVATDetails(ctx context.Context, req VATLookupRequest) (*VATDetails, error)
}

type lookupService struct {
	db       *gorm.DB
	settings repository.SettingRepository
	aade     AADELookupClient
	vies     VIESCheckClient
}

func NewLookupService(db *gorm.DB, settings repository.SettingRepository, aade AADELookupClient, vies VIESCheckClient) LookupService {
	return &lookupService{db: db, settings: settings, aade: aade, vies: vies}
}

// --- Implementation ---

// FetchVATDetails normalizes the submitted VAT string, resolves the configured
// provider and returns an autofill payload. Error contract: input errors and
// provider-says-invalid return one of the sentinel errors above;
// transport-level failures return a vat.ErrUnavailable-classified error.
func (s *lookupService) FetchVATDetails(ctx context.Context, req VATLookupRequest) (*VATDetails, error) {
	raw := strings.TrimSpace(req.VATNumber)
	if raw == "" {
		return nil, ErrVATNotProvided
	}

	source, err := s.resolveSource(ctx, req.VATType)
	if err != nil {
		return nil, err
	}

	var details *VATDetails
	switch source {
	case model.VATSourceAADE:
		details, err = s.fetchFromAADE(ctx, raw)
	case model.VATSourceVIES:
		details, err = s.fetchFromVIES(ctx, raw, req.BillingCountry)
	default:
		return nil, ErrLookupDisabled
	}
	if err != nil {
		return nil, err
	}

	s.writeAuditLog(ctx, model.ActionVATLookup, raw, source, details)
	return details, nil
}

// resolveSource picks the provider: a valid per-request vat_type wins,
// otherwise the stored vat_source setting, defaulting to VIES. The
// autofill_enabled switch turns the feature off entirely.
func (s *lookupService) resolveSource(ctx context.Context, override string) (string, error) {
	enabled, err := s.settings.Get(ctx, model.SettingAutofillEnabled)
	if err != nil {
		return "", err
	}
	if enabled == "no" {
		return "", ErrLookupDisabled
	}

	if override == model.VATSourceAADE || override == model.VATSourceVIES {
		return override, nil
	}

	source, err := s.settings.Get(ctx, model.SettingVATSource)
	if err != nil {
		return "", err
	}
	switch source {
	case model.VATSourceAADE, model.VATSourceVIES, model.VATSourceNone:
		return source, nil
	case "":
		return model.VATSourceVIES, nil
	}
	return model.VATSourceNone, nil
}

func (s *lookupService) fetchFromAADE(ctx context.Context, raw string) (*VATDetails, error) {
	// The registry wants the bare nine-digit AFM, without the EL prefix.
	vatID := vat.ParseInput(raw, "GR").Number
	if vatID == "" {
		return nil, ErrVATUnparsable
	}

	creds, err := s.aadeCredentials(ctx)
	if err != nil {
		return nil, err
	}

	xmlBody, err := s.aade.Lookup(ctx, vatID, creds)
	if err != nil {
		return nil, err
	}

	// An empty deactivation_flag means the registry did not return a live
	// record for this AFM: not valid / not found.
	if vat.ExtractField(xmlBody, "deactivation_flag") == "" {
		return nil, ErrVATNotValid
	}

	address := strings.TrimSpace(vat.ExtractField(xmlBody, "postal_address") + " " + vat.ExtractField(xmlBody, "postal_address_no"))

	return &VATDetails{
		DOY:           vat.ExtractField(xmlBody, "doy_descr"),
		Epwnymia:      vat.ExtractField(xmlBody, "onomasia"),
		Drastiriotita: strings.Join(vat.ExtractActivities(xmlBody), ", "),
		Address:       address,
		AddressLine1:  address,
		Country:       "GR",
		City:          vat.ExtractField(xmlBody, "postal_area_description"),
		Postcode:      vat.ExtractField(xmlBody, "postal_zip_code"),
	}, nil
}

func (s *lookupService) fetchFromVIES(ctx context.Context, raw, billingCountry string) (*VATDetails, error) {
	query := vat.ParseInput(raw, billingCountry)
	if query.CountryCode == "" || query.Number == "" {
		return nil, ErrVATUnparsable
	}

	result, err := s.vies.CheckVat(ctx, query.CountryCode, query.Number)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, ErrVATNotValid
	}

	parts := vat.SplitAddress(result.Address)

	return &VATDetails{
		Epwnymia:     result.Name,
		Address:      result.Address,
		AddressLine1: parts.Line1,
		City:         parts.City,
		Postcode:     parts.Postcode,
		Country:      result.CountryCode,
	}, nil
}

func (s *lookupService) aadeCredentials(ctx context.Context) (vat.Credentials, error) {
	username, err := s.settings.Get(ctx, model.SettingAADEUser)
	if err != nil {
		return vat.Credentials{}, err
	}
	password, err := s.settings.Get(ctx, model.SettingAADEPass)
	if err != nil {
		return vat.Credentials{}, err
	}
	return vat.Credentials{Username: username, Password: password}, nil
}

// writeAuditLog records a successful lookup. Best-effort: failures never
// affect the response.
func (s *lookupService) writeAuditLog(ctx context.Context, action, vatNumber, source string, details interface{}) {
	if s.db == nil {
		return
	}

	detailsJSON, _ := json.Marshal(details)
	entry := model.AuditLog{
		Action:     action,
		EntityID:   vatNumber,
		EntityName: source,
		Details:    string(detailsJSON),
	}
	_ = s.db.WithContext(ctx).Create(&entry).Error
}
