package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cloudflareAgainst(url, token string) *CloudflareEnumerator {
	return &CloudflareEnumerator{
		http:    &http.Client{Timeout: 5 * time.Second},
		baseURL: url,
		token:   token,
	}
}

func TestCloudflareGetZones(t *testing.T) {
	var gotAuth, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{
			"success": true,
			"errors": [],
			"result": [
				{"id": "z1", "name": "example.com"},
				{"id": "z2", "name": "example.org"}
			],
			"result_info": {"total_count": 2}
		}`))
	}))
	defer server.Close()

	enum := cloudflareAgainst(server.URL, "cf-token")
	zp, err := enum.GetZones(context.Background(), 1, 50)
	require.NoError(t, err)

	assert.Equal(t, "Bearer cf-token", gotAuth)
	assert.Equal(t, "page=1&per_page=50", gotQuery)
	assert.Equal(t, 2, zp.Total)
	require.Len(t, zp.Zones, 2)
	assert.Equal(t, "z1", zp.Zones[0].ID)
	assert.Equal(t, "example.com", zp.Zones[0].Name)
}

func TestCloudflareGetZonesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"success": false, "errors": [{"code": 10000, "message": "Authentication error"}]}`))
	}))
	defer server.Close()

	_, err := cloudflareAgainst(server.URL, "bad").GetZones(context.Background(), 1, 50)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Authentication error")
}

func TestCloudflareGetZonesHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := cloudflareAgainst(server.URL, "t").GetZones(context.Background(), 1, 50)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestNewCloudflareRequiresToken(t *testing.T) {
	_, err := NewCloudflare(map[string]string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apiToken")

	enum, err := NewCloudflare(map[string]string{"apiToken": "t"})
	require.NoError(t, err)
	assert.NotNil(t, enum)
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	assert.True(t, r.Supported("cloudflare"))
	assert.False(t, r.Supported("route53"))
	assert.Equal(t, []string{"cloudflare"}, r.Names())
}
