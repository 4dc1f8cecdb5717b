// Package rdap implements a minimal RDAP client against a bootstrap
// aggregator, extracting only the registration-expiration event.
package rdap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"domain_expiry_notifier/internal/domain/expiry"
)

// DefaultBaseURL is a bootstrap aggregator that redirects to the
// authoritative registry RDAP service for any TLD.
const DefaultBaseURL = "https://rdap.org"

const requestTimeout = 10 * time.Second

// maxBodySize guards against a misbehaving server streaming an
// unbounded body.
const maxBodySize = 1 << 20

var eventDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02",
}

type domainResponse struct {
	Events []struct {
		EventAction string `json:"eventAction"`
		EventDate   string `json:"eventDate"`
	} `json:"events"`
}

type Client struct {
	http    *http.Client
	baseURL string
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    &http.Client{Timeout: requestTimeout},
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// ExpiryDate queries the aggregator for a domain and returns the
// expiration event's date truncated to a UTC day. Every failure mode
// (network, non-2xx, malformed JSON, no expiration event) is soft and
// carries an "rdap:"-prefixed reason.
func (c *Client) ExpiryDate(ctx context.Context, domain string) expiry.Outcome {
	endpoint := c.baseURL + "/domain/" + url.PathEscape(domain)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return expiry.Unresolved(fmt.Sprintf("rdap: %v", err))
	}
	req.Header.Set("Accept", "application/rdap+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return expiry.Unresolved(fmt.Sprintf("rdap: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return expiry.Unresolved(fmt.Sprintf("rdap: status %d for %s", resp.StatusCode, domain))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return expiry.Unresolved(fmt.Sprintf("rdap: %v", err))
	}

	var parsed domainResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return expiry.Unresolved(fmt.Sprintf("rdap: malformed response: %v", err))
	}

	for _, event := range parsed.Events {
		if !isExpirationAction(event.EventAction) {
			continue
		}
		for _, layout := range eventDateLayouts {
			if t, err := time.Parse(layout, event.EventDate); err == nil {
				return expiry.Resolved(expiry.DayUTC(t), expiry.SourceRDAP)
			}
		}
		return expiry.Unresolved(fmt.Sprintf("rdap: unparsable event date %q", event.EventDate))
	}
	return expiry.Unresolved("rdap: no expiration event in response")
}

func isExpirationAction(action string) bool {
	switch strings.ToLower(action) {
	case "expiration", "expiry", "expires":
		return true
	}
	return false
}
