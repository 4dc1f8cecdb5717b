// Package api exposes the synchronous lookup endpoint. The scheduler
// has no external API; this surface is lookup-only.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"domain_expiry_notifier/internal/app"
	"domain_expiry_notifier/internal/domain/expiry"
)

// Resolver is the slice of the resolver service the API needs.
type Resolver interface {
	Lookup(ctx context.Context, domains []string, opts app.LookupOptions) []expiry.Record
}

type lookupRequest struct {
	Domains      []string `json:"domains" binding:"required,min=1,max=500"`
	ForceRefresh bool     `json:"forceRefresh"`
}

type lookupResponse struct {
	Results []expiry.Record `json:"results"`
}

type Handler struct {
	resolver Resolver
	log      *logrus.Logger
}

func NewHandler(resolver Resolver, log *logrus.Logger) *Handler {
	return &Handler{resolver: resolver, log: log}
}

// Lookup handles POST /api/lookup. Request-validation problems are the
// only hard HTTP errors; per-domain failures ride inline in the
// records.
func (h *Handler) Lookup(c *gin.Context) {
	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "domains must be a list of 1 to 500 names"})
		return
	}

	records := h.resolver.Lookup(c.Request.Context(), req.Domains, app.LookupOptions{
		ForceRefresh: req.ForceRefresh,
	})
	c.JSON(http.StatusOK, lookupResponse{Results: records})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", h.Health)
	router.POST("/api/lookup", h.Lookup)
	return router
}
