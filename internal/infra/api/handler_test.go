package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domain_expiry_notifier/internal/app"
	"domain_expiry_notifier/internal/domain/expiry"
)

type stubResolver struct {
	domains []string
	opts    app.LookupOptions
}

func (s *stubResolver) Lookup(_ context.Context, domains []string, opts app.LookupOptions) []expiry.Record {
	s.domains = domains
	s.opts = opts
	records := make([]expiry.Record, 0, len(domains))
	exp := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for _, d := range domains {
		records = append(records, expiry.Record{
			Domain: d, ExpiresAt: &exp, Source: expiry.SourceRDAP, CheckedAt: time.Now(),
		})
	}
	return records
}

func newTestRouter(resolver Resolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewRouter(NewHandler(resolver, log))
}

func postLookup(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/lookup", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLookupEndpoint(t *testing.T) {
	resolver := &stubResolver{}
	router := newTestRouter(resolver)

	w := postLookup(router, `{"domains": ["example.com", "example.org"], "forceRefresh": true}`)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []string{"example.com", "example.org"}, resolver.domains)
	assert.True(t, resolver.opts.ForceRefresh)

	var resp struct {
		Results []expiry.Record `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "example.com", resp.Results[0].Domain)
	assert.Equal(t, expiry.SourceRDAP, resp.Results[0].Source)
	require.NotNil(t, resp.Results[0].ExpiresAt)
}

func TestLookupEndpointDefaultsToCached(t *testing.T) {
	resolver := &stubResolver{}
	router := newTestRouter(resolver)

	w := postLookup(router, `{"domains": ["example.com"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, resolver.opts.ForceRefresh)
}

func TestLookupEndpointRejectsBadRequests(t *testing.T) {
	tooMany := `{"domains": [`
	for i := 0; i < 501; i++ {
		if i > 0 {
			tooMany += ","
		}
		tooMany += fmt.Sprintf("%q", fmt.Sprintf("zone-%d.example", i))
	}
	tooMany += `]}`

	testCases := []struct {
		name string
		body string
	}{
		{name: "missing domains", body: `{}`},
		{name: "empty list", body: `{"domains": []}`},
		{name: "over the batch cap", body: tooMany},
		{name: "wrong type", body: `{"domains": "example.com"}`},
		{name: "malformed json", body: `{"domains": [`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resolver := &stubResolver{}
			w := postLookup(newTestRouter(resolver), tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Nil(t, resolver.domains, "resolver must not run on invalid input")
			assert.Contains(t, w.Body.String(), "domains must be a list of 1 to 500 names")
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(&stubResolver{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}
