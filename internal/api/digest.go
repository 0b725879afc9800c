package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getDigest handles GET /api/v1/digest
func (s *Server) getDigest(c *gin.Context) {
	if s.digest == nil {
		s.successResponse(c, gin.H{"enabled": false})
		return
	}

	s.successResponse(c, gin.H{
		"enabled": true,
		"running": s.digest.Running(),
		"cron":    s.digestCron,
	})
}

// runDigest handles POST /api/v1/digest/run and triggers a digest immediately
func (s *Server) runDigest(c *gin.Context) {
	if s.digest == nil {
		s.errorResponse(c, http.StatusServiceUnavailable, "Digest scheduler is not enabled")
		return
	}

	report, err := s.digest.RunOnce(c.Request.Context())
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Digest failed: "+err.Error())
		return
	}

	s.successResponse(c, gin.H{
		"run_id":   report.RunID,
		"insights": report.Insights,
	})
}
