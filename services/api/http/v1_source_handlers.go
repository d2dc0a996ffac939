package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// handleV1Sources describes the configured datasets and the remote cache
// GET /api/v1/sources
func (s *Server) handleV1Sources(c *gin.Context) {
	cached := s.sources.Cached()
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"sources": s.sources.Sources(),
			"cache":   cached,
		},
		"meta": gin.H{
			"cached_count": len(cached),
			"cache_ttl":    s.cfg.CacheTTL.String(),
		},
	})
}

// handleV1RefreshSources refetches every remote dataset
// POST /api/v1/sources/refresh
func (s *Server) handleV1RefreshSources(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*s.cfg.FetchTimeout+10*time.Second)
	defer cancel()

	cached, err := s.sources.Refresh(ctx)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": cached,
		"meta": gin.H{
			"refreshed_at": time.Now().UTC().Format(time.RFC3339),
			"count":        len(cached),
		},
	})
}
