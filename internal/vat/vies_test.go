package vat

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const viesValidResponse = `<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
	<soap:Body>
		<checkVatResponse xmlns="urn:ec.europa.eu:taxud:vies:services:checkVat:types">
			<countryCode>EL</countryCode>
			<vatNumber>123456789</vatNumber>
			<requestDate>2024-05-01+02:00</requestDate>
			<valid>true</valid>
			<name>ACME AE</name>
			<address>ERMOU 12
11145 ATHINA</address>
		</checkVatResponse>
	</soap:Body>
</soap:Envelope>`

const viesInvalidResponse = `<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
	<soap:Body>
		<checkVatResponse xmlns="urn:ec.europa.eu:taxud:vies:services:checkVat:types">
			<countryCode>EL</countryCode>
			<vatNumber>999999999</vatNumber>
			<valid>false</valid>
			<name>---</name>
			<address>---</address>
		</checkVatResponse>
	</soap:Body>
</soap:Envelope>`

const viesFaultResponse = `<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
	<soap:Body>
		<soap:Fault>
			<faultcode>soap:Server</faultcode>
			<faultstring>MS_MAX_CONCURRENT_REQ</faultstring>
		</soap:Fault>
	</soap:Body>
</soap:Envelope>`

func TestCheckVatValid(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		fmt.Fprint(w, viesValidResponse)
	}))
	defer srv.Close()

	client := NewVIESClient(srv.URL, 0)
	result, err := client.CheckVat(context.Background(), "el", "123 456 789")
	require.NoError(t, err)

	assert.True(t, result.Valid)
	assert.Equal(t, "EL", result.CountryCode)
	assert.Equal(t, "123456789", result.VATNumber)
	assert.Equal(t, "ACME AE", result.Name)
	assert.Equal(t, "ERMOU 12\n11145 ATHINA", result.Address)

	// Inputs are normalized before hitting the wire.
	assert.Contains(t, gotBody, "<urn:countryCode>EL</urn:countryCode>")
	assert.Contains(t, gotBody, "<urn:vatNumber>123456789</urn:vatNumber>")
}

func TestCheckVatInvalidNumber(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, viesInvalidResponse)
	}))
	defer srv.Close()

	client := NewVIESClient(srv.URL, 0)
	result, err := client.CheckVat(context.Background(), "EL", "999999999")

	// An answered "not valid" is not an error condition.
	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestCheckVatMissingArguments(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		hits++
	}))
	defer srv.Close()

	client := NewVIESClient(srv.URL, 0)

	_, err := client.CheckVat(context.Background(), "", "123456789")
	assert.ErrorIs(t, err, ErrMissingArguments)

	_, err = client.CheckVat(context.Background(), "EL", "")
	assert.ErrorIs(t, err, ErrMissingArguments)

	assert.Zero(t, hits, "missing arguments must not reach the network")
}

func TestCheckVatFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, viesFaultResponse)
	}))
	defer srv.Close()

	client := NewVIESClient(srv.URL, 0)
	_, err := client.CheckVat(context.Background(), "EL", "123456789")

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "MS_MAX_CONCURRENT_REQ")
}

func TestCheckVatTransportFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<html>gateway timeout</html>")
	}))
	defer srv.Close()

	client := NewVIESClient(srv.URL, 0)
	_, err := client.CheckVat(context.Background(), "EL", "123456789")
	assert.ErrorIs(t, err, ErrUnavailable)

	dead := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	dead.Close()
	client = NewVIESClient(dead.URL, 0)
	_, err = client.CheckVat(context.Background(), "EL", "123456789")
	assert.ErrorIs(t, err, ErrUnavailable)
}
