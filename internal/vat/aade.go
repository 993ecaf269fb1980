package vat

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// DefaultAADEEndpoint is the Greek tax-authority (GSIS) registry service.
const DefaultAADEEndpoint = "https://www1.gsis.gr/wsaade/RgWsPublic2/RgWsPublic2?WSDL"

const (
	// aadeCacheTTL is the transient lifetime of a raw AADE response.
	aadeCacheTTL = time.Hour
	// aadeCacheKeySuffix keeps cache keys compatible with the legacy store.
	aadeCacheKeySuffix = "_aade_check"

	// DefaultAADETimeout bounds the blocking SOAP call.
	DefaultAADETimeout = 10 * time.Second
)

// aadeEnvelope is the SOAP 1.2 request for rgWsPublic2AfmMethod with a
// WS-Security UsernameToken header. Arguments: username, password, VAT id.
const aadeEnvelope = `<env:Envelope xmlns:env="http://www.w3.org/2003/05/soap-envelope" xmlns:ns1="http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-wssecurity-secext-1.0.xsd" xmlns:ns2="http://rgwspublic2/RgWsPublic2Service" xmlns:ns3="http://rgwspublic2/RgWsPublic2">
	<env:Header>
		<ns1:Security>
			<ns1:UsernameToken>
				<ns1:Username>%s</ns1:Username>
				<ns1:Password>%s</ns1:Password>
			</ns1:UsernameToken>
		</ns1:Security>
	</env:Header>
	<env:Body>
		<ns2:rgWsPublic2AfmMethod>
			<ns2:INPUT_REC>
				<ns3:afm_called_by/>
				<ns3:afm_called_for>%s</ns3:afm_called_for>
			</ns2:INPUT_REC>
		</ns2:rgWsPublic2AfmMethod>
	</env:Body>
</env:Envelope>`

var (
	startTagPrefix = regexp.MustCompile(`(<\s*)\w+:`)
	endTagPrefix   = regexp.MustCompile(`(</\s*)\w+:`)
)

// AADEClient posts registry lookups to the AADE SOAP service and caches the
// cleaned response body for one hour per VAT number.
type AADEClient struct {
	endpoint string
	client   *http.Client
	cache    CacheStore
}

// NewAADEClient creates an AADE client. endpoint falls back to
// DefaultAADEEndpoint and timeout to DefaultAADETimeout when zero-valued.
func NewAADEClient(endpoint string, timeout time.Duration, cache CacheStore) *AADEClient {
	if endpoint == "" {
		endpoint = DefaultAADEEndpoint
	}
	if timeout == 0 {
		timeout = DefaultAADETimeout
	}
	return &AADEClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		cache:    cache,
	}
}

// Lookup returns the namespace-stripped XML response for a Greek VAT id,
// serving from cache when a live entry exists. Credentials are injected per
// call. Transport failures return an ErrUnavailable-classified error and must
// be treated as "service unavailable", not "VAT invalid". One shot per call,
// no retries: a failed lookup can only be re-attempted by the caller.
func (c *AADEClient) Lookup(ctx context.Context, vatID string, creds Credentials) (string, error) {
	key := vatID + aadeCacheKeySuffix

	if body, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		return body, nil
	} else if err != nil {
		log.Printf("AADE cache read failed for %s: %v", vatID, err)
	}

	envelope := fmt.Sprintf(aadeEnvelope, creds.Username, creds.Password, vatID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(envelope))
	if err != nil {
		return "", fmt.Errorf("creating AADE request: %w", err)
	}
	// The service rejects text/xml; it expects an empty Content-Type.
	req.Header.Set("Content-Type", "")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: calling AADE: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading AADE response: %v", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: AADE returned HTTP %d", ErrUnavailable, resp.StatusCode)
	}

	cleaned := StripNamespaces(string(body))

	if err := c.cache.Set(ctx, key, "aade", cleaned, aadeCacheTTL); err != nil {
		log.Printf("failed to cache AADE response for %s: %v", vatID, err)
	}

	return cleaned, nil
}

// StripNamespaces removes namespace prefixes from start and end tags so the
// field extractor can address elements by bare name.
func StripNamespaces(body string) string {
	cleaned := startTagPrefix.ReplaceAllString(body, "${1}")
	return endTagPrefix.ReplaceAllString(cleaned, "${1}")
}
