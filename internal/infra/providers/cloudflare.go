// Package providers holds the DNS provider zone-enumerator adapters
// and the registry wiring them to credential types.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"domain_expiry_notifier/internal/domain/provider"
)

const cloudflareAPI = "https://api.cloudflare.com/client/v4"

type cloudflareZonesResponse struct {
	Success bool `json:"success"`
	Errors  []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
	Result []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"result"`
	ResultInfo struct {
		TotalCount int `json:"total_count"`
	} `json:"result_info"`
}

// CloudflareEnumerator lists zones of one Cloudflare account through
// the v4 API using an API token.
type CloudflareEnumerator struct {
	http    *http.Client
	baseURL string
	token   string
}

// NewCloudflare builds an enumerator from decrypted auth material; it
// expects an "apiToken" entry.
func NewCloudflare(auth map[string]string) (provider.ZoneEnumerator, error) {
	token := auth["apiToken"]
	if token == "" {
		return nil, fmt.Errorf("cloudflare credential is missing apiToken")
	}
	return &CloudflareEnumerator{
		http:    &http.Client{Timeout: 15 * time.Second},
		baseURL: cloudflareAPI,
		token:   token,
	}, nil
}

func (c *CloudflareEnumerator) GetZones(ctx context.Context, page, pageSize int) (*provider.ZonePage, error) {
	endpoint := c.baseURL + "/zones?page=" + strconv.Itoa(page) + "&per_page=" + strconv.Itoa(pageSize)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cloudflare zones request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cloudflare zones read failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("cloudflare zones returned status %d", resp.StatusCode)
	}

	var parsed cloudflareZonesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("cloudflare zones response malformed: %w", err)
	}
	if !parsed.Success {
		msg := "unknown error"
		if len(parsed.Errors) > 0 {
			msg = parsed.Errors[0].Message
		}
		return nil, fmt.Errorf("cloudflare zones API error: %s", msg)
	}

	zp := &provider.ZonePage{Total: parsed.ResultInfo.TotalCount}
	for _, z := range parsed.Result {
		zp.Zones = append(zp.Zones, provider.Zone{ID: z.ID, Name: z.Name})
	}
	return zp, nil
}
