package service

import (
	"context"
	"testing"

	"timologio/internal/model"
	"timologio/internal/vat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeSettings struct {
	values map[string]string
}

func (f *fakeSettings) Get(_ context.Context, key string) (string, error) {
	return f.values[key], nil
}

func (f *fakeSettings) GetAll(_ context.Context) (map[string]string, error) {
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out, nil
}

func (f *fakeSettings) Set(_ context.Context, key, value string) error {
	if f.values == nil {
		f.values = map[string]string{}
	}
	f.values[key] = value
	return nil
}

type fakeAADE struct {
	body  string
	err   error
	calls int

	gotVATID string
	gotCreds vat.Credentials
}

func (f *fakeAADE) Lookup(_ context.Context, vatID string, creds vat.Credentials) (string, error) {
	f.calls++
	f.gotVATID = vatID
	f.gotCreds = creds
	return f.body, f.err
}

type fakeVIES struct {
	result vat.CheckVatResult
	err    error
	calls  int

	gotCountry string
	gotNumber  string
}

func (f *fakeVIES) CheckVat(_ context.Context, countryCode, number string) (vat.CheckVatResult, error) {
	f.calls++
	f.gotCountry = countryCode
	f.gotNumber = number
	return f.result, f.err
}

const activeAADEBody = `<Envelope><Body><result><rg_ws_public2_result_rtType>
	<basic_rec>
		<onomasia>Test Company</onomasia>
		<doy_descr>ΔΟΥ ΑΘΗΝΩΝ</doy_descr>
		<deactivation_flag>1</deactivation_flag>
		<postal_address>ΕΡΜΟΥ</postal_address>
		<postal_address_no>12</postal_address_no>
		<postal_area_description>ΑΘΗΝΑ</postal_area_description>
		<postal_zip_code>11145</postal_zip_code>
	</basic_rec>
	<firm_act_tab>
		<item><firm_act_descr>ΛΙΑΝΙΚΟ ΕΜΠΟΡΙΟ</firm_act_descr></item>
		<item><firm_act_descr>ΧΟΝΔΡΙΚΟ ΕΜΠΟΡΙΟ</firm_act_descr></item>
	</firm_act_tab>
</rg_ws_public2_result_rtType></result></Body></Envelope>`

const inactiveAADEBody = `<Envelope><Body><result><rg_ws_public2_result_rtType>
	<basic_rec><afm>123456789</afm></basic_rec>
</rg_ws_public2_result_rtType></result></Body></Envelope>`

func newTestLookupService(settings map[string]string, aade AADELookupClient, vies VIESCheckClient) LookupService {
	return NewLookupService(nil, &fakeSettings{values: settings}, aade, vies)
}

// --- tests ---

func TestFetchVATDetailsEmptyInput(t *testing.T) {
	svc := newTestLookupService(nil, &fakeAADE{}, &fakeVIES{})

	_, err := svc.FetchVATDetails(context.Background(), VATLookupRequest{VATNumber: "   "})
	assert.ErrorIs(t, err, ErrVATNotProvided)
}

func TestFetchVATDetailsDisabled(t *testing.T) {
	aade := &fakeAADE{}
	vies := &fakeVIES{}
	svc := newTestLookupService(map[string]string{
		model.SettingAutofillEnabled: "no",
		model.SettingVATSource:       model.VATSourceAADE,
	}, aade, vies)

	_, err := svc.FetchVATDetails(context.Background(), VATLookupRequest{VATNumber: "123456789"})
	assert.ErrorIs(t, err, ErrLookupDisabled)
	assert.Zero(t, aade.calls)
	assert.Zero(t, vies.calls)
}

func TestFetchVATDetailsSourceNone(t *testing.T) {
	svc := newTestLookupService(map[string]string{
		model.SettingVATSource: model.VATSourceNone,
	}, &fakeAADE{}, &fakeVIES{})

	_, err := svc.FetchVATDetails(context.Background(), VATLookupRequest{VATNumber: "123456789"})
	assert.ErrorIs(t, err, ErrLookupDisabled)
}

func TestFetchVATDetailsFromAADE(t *testing.T) {
	aade := &fakeAADE{body: activeAADEBody}
	svc := newTestLookupService(map[string]string{
		model.SettingVATSource: model.VATSourceAADE,
		model.SettingAADEUser:  "gsis-user",
		model.SettingAADEPass:  "gsis-pass",
	}, aade, &fakeVIES{})

	details, err := svc.FetchVATDetails(context.Background(), VATLookupRequest{VATNumber: "EL123456789"})
	require.NoError(t, err)

	// The EL prefix is stripped before the registry call.
	assert.Equal(t, "123456789", aade.gotVATID)
	assert.Equal(t, vat.Credentials{Username: "gsis-user", Password: "gsis-pass"}, aade.gotCreds)

	assert.Equal(t, "Test Company", details.Epwnymia)
	assert.Equal(t, "ΔΟΥ ΑΘΗΝΩΝ", details.DOY)
	assert.Equal(t, "ΛΙΑΝΙΚΟ ΕΜΠΟΡΙΟ, ΧΟΝΔΡΙΚΟ ΕΜΠΟΡΙΟ", details.Drastiriotita)
	assert.Equal(t, "ΕΡΜΟΥ 12", details.Address)
	assert.Equal(t, "ΕΡΜΟΥ 12", details.AddressLine1)
	assert.Equal(t, "GR", details.Country)
	assert.Equal(t, "ΑΘΗΝΑ", details.City)
	assert.Equal(t, "11145", details.Postcode)
}

func TestFetchVATDetailsAADEInactiveRecord(t *testing.T) {
	aade := &fakeAADE{body: inactiveAADEBody}
	svc := newTestLookupService(map[string]string{
		model.SettingVATSource: model.VATSourceAADE,
	}, aade, &fakeVIES{})

	_, err := svc.FetchVATDetails(context.Background(), VATLookupRequest{VATNumber: "123456789"})
	assert.ErrorIs(t, err, ErrVATNotValid)
}

func TestFetchVATDetailsAADEUnavailable(t *testing.T) {
	aade := &fakeAADE{err: vat.ErrUnavailable}
	svc := newTestLookupService(map[string]string{
		model.SettingVATSource: model.VATSourceAADE,
	}, aade, &fakeVIES{})

	_, err := svc.FetchVATDetails(context.Background(), VATLookupRequest{VATNumber: "123456789"})
	assert.ErrorIs(t, err, vat.ErrUnavailable)
}

func TestFetchVATDetailsFromVIES(t *testing.T) {
	vies := &fakeVIES{result: vat.CheckVatResult{
		Valid:       true,
		CountryCode: "DE",
		VATNumber:   "811128135",
		Name:        "Beispiel GmbH",
		Address:     "Hauptstrasse 5\n10115 Berlin",
	}}
	svc := newTestLookupService(nil, &fakeAADE{}, vies) // default source is VIES

	details, err := svc.FetchVATDetails(context.Background(), VATLookupRequest{
		VATNumber:      "811128135",
		BillingCountry: "DE",
	})
	require.NoError(t, err)

	assert.Equal(t, "DE", vies.gotCountry)
	assert.Equal(t, "811128135", vies.gotNumber)

	assert.Equal(t, "Beispiel GmbH", details.Epwnymia)
	assert.Equal(t, "Hauptstrasse 5\n10115 Berlin", details.Address)
	assert.Equal(t, "Hauptstrasse 5", details.AddressLine1)
	assert.Equal(t, "Berlin", details.City)
	assert.Equal(t, "10115", details.Postcode)
	assert.Equal(t, "DE", details.Country)
}

func TestFetchVATDetailsVIESInvalid(t *testing.T) {
	vies := &fakeVIES{result: vat.CheckVatResult{Valid: false}}
	svc := newTestLookupService(nil, &fakeAADE{}, vies)

	_, err := svc.FetchVATDetails(context.Background(), VATLookupRequest{
		VATNumber:      "EL999999999",
		BillingCountry: "GR",
	})
	assert.ErrorIs(t, err, ErrVATNotValid)
}

func TestFetchVATDetailsVIESUnparsable(t *testing.T) {
	vies := &fakeVIES{}
	svc := newTestLookupService(nil, &fakeAADE{}, vies)

	// No prefix and no billing country: the country cannot be detected.
	_, err := svc.FetchVATDetails(context.Background(), VATLookupRequest{VATNumber: "123456789"})
	assert.ErrorIs(t, err, ErrVATUnparsable)
	assert.Zero(t, vies.calls)
}

func TestFetchVATDetailsTypeOverride(t *testing.T) {
	aade := &fakeAADE{body: activeAADEBody}
	vies := &fakeVIES{result: vat.CheckVatResult{Valid: true, CountryCode: "EL"}}

	// Stored source says VIES; the request overrides to AADE.
	svc := newTestLookupService(map[string]string{
		model.SettingVATSource: model.VATSourceVIES,
	}, aade, vies)

	_, err := svc.FetchVATDetails(context.Background(), VATLookupRequest{
		VATNumber: "123456789",
		VATType:   model.VATSourceAADE,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, aade.calls)
	assert.Zero(t, vies.calls)

	// An unknown override falls back to the stored source.
	svc = newTestLookupService(map[string]string{
		model.SettingVATSource: model.VATSourceAADE,
	}, aade, vies)
	_, err = svc.FetchVATDetails(context.Background(), VATLookupRequest{
		VATNumber: "123456789",
		VATType:   "bogus",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, aade.calls)
}
