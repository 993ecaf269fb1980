package vat

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultVIESEndpoint is the EU VAT Information Exchange System SOAP service.
const DefaultVIESEndpoint = "https://ec.europa.eu/taxation_customs/vies/services/checkVatService"

// DefaultVIESTimeout matches the contractual 6-second connection bound.
const DefaultVIESTimeout = 6 * time.Second

// ErrMissingArguments is returned verbatim to the caller when either the
// country code or the VAT number is empty; no network call is attempted.
var ErrMissingArguments = errors.New("Country code and VAT number are required.")

// viesRequestEnvelope is the SOAP request for the checkVat operation.
// Arguments: country code, VAT number.
const viesRequestEnvelope = `<?xml version="1.0" encoding="UTF-8"?>
<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/"
                  xmlns:urn="urn:ec.europa.eu:taxud:vies:services:checkVat:types">
  <soapenv:Body>
    <urn:checkVat>
      <urn:countryCode>%s</urn:countryCode>
      <urn:vatNumber>%s</urn:vatNumber>
    </urn:checkVat>
  </soapenv:Body>
</soapenv:Envelope>`

// viesEnvelope mirrors the XML structure of the VIES SOAP response.
type viesEnvelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		Fault *struct {
			Code   string `xml:"faultcode"`
			String string `xml:"faultstring"`
		} `xml:"Fault"`
		CheckVatResponse struct {
			CountryCode string `xml:"countryCode"`
			VATNumber   string `xml:"vatNumber"`
			RequestDate string `xml:"requestDate"`
			Valid       bool   `xml:"valid"`
			Name        string `xml:"name"`
			Address     string `xml:"address"`
		} `xml:"checkVatResponse"`
	} `xml:"Body"`
}

// VIESClient validates EU VAT numbers against the VIES checkVat operation.
type VIESClient struct {
	endpoint string
	client   *http.Client
}

// NewVIESClient creates a VIES client. endpoint falls back to
// DefaultVIESEndpoint and timeout to DefaultVIESTimeout when zero-valued.
func NewVIESClient(endpoint string, timeout time.Duration) *VIESClient {
	if endpoint == "" {
		endpoint = DefaultVIESEndpoint
	}
	if timeout == 0 {
		timeout = DefaultVIESTimeout
	}
	return &VIESClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// CheckVat validates countryCode+number against VIES. A provider answer of
// valid=false yields a result with Valid=false and a nil error — distinct
// from transport failures and SOAP faults, which return an
// ErrUnavailable-classified error embedding the provider's fault message.
func (c *VIESClient) CheckVat(ctx context.Context, countryCode, number string) (CheckVatResult, error) {
	if countryCode == "" || number == "" {
		return CheckVatResult{}, ErrMissingArguments
	}

	countryCode = strings.ToUpper(countryCode)
	number = nonAlphanumeric.ReplaceAllString(strings.ToUpper(number), "")

	envelope := fmt.Sprintf(viesRequestEnvelope, countryCode, number)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(envelope))
	if err != nil {
		return CheckVatResult{}, fmt.Errorf("creating VIES request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", "")

	resp, err := c.client.Do(req)
	if err != nil {
		return CheckVatResult{}, fmt.Errorf("%w: calling VIES: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return CheckVatResult{}, fmt.Errorf("%w: reading VIES response: %v", ErrUnavailable, err)
	}

	var env viesEnvelope
	if err := xml.Unmarshal(body, &env); err != nil {
		return CheckVatResult{}, fmt.Errorf("%w: parsing VIES response: %v", ErrUnavailable, err)
	}

	if env.Body.Fault != nil {
		return CheckVatResult{}, fmt.Errorf("%w: VIES temporary error: %s", ErrUnavailable, env.Body.Fault.String)
	}
	if resp.StatusCode != http.StatusOK {
		return CheckVatResult{}, fmt.Errorf("%w: VIES returned HTTP %d", ErrUnavailable, resp.StatusCode)
	}

	data := env.Body.CheckVatResponse
	return CheckVatResult{
		Valid:       data.Valid,
		CountryCode: data.CountryCode,
		VATNumber:   data.VATNumber,
		Name:        strings.TrimSpace(data.Name),
		Address:     strings.TrimSpace(data.Address),
	}, nil
}
