package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AI2HU/geolens/internal/curation"
	"github.com/AI2HU/geolens/internal/models"
	"github.com/AI2HU/geolens/internal/shared"
)

// ReportResponse pairs a report with the filter state that produced it
type ReportResponse struct {
	Tab     string                 `json:"tab"`
	Filters shared.FilterSelection `json:"filters"`
	Report  *models.Report         `json:"report"`
}

// CurateRequest is the raw curation contract: brand to candidate quotes
type CurateRequest struct {
	Quotes json.RawMessage `json:"quotes"`
}

// candidates decodes the quotes field. ok is false when it is present but
// not a brand-to-quotes object.
func (r CurateRequest) candidates() (map[string][]curation.Quote, bool) {
	if len(r.Quotes) == 0 || string(r.Quotes) == "null" {
		return nil, true
	}
	var quotes map[string][]curation.Quote
	if err := json.Unmarshal(r.Quotes, &quotes); err != nil {
		return nil, false
	}
	return quotes, true
}

func emptyCuration() *curation.Result {
	return &curation.Result{Quotes: map[string][]curation.CuratedQuote{}}
}

// getReport handles GET /api/v1/runs/:id/report
func (s *Server) getReport(c *gin.Context) {
	tab, filters := shared.ParseFilterQuery(c)

	report, err := s.service.Report(c.Request.Context(), c.Param("id"), filters)
	if err != nil {
		s.errorResponse(c, lookupStatus(err), "Failed to compute report: "+err.Error())
		return
	}

	s.successResponse(c, ReportResponse{
		Tab:     tab,
		Filters: filters,
		Report:  report,
	})
}

// runQuotes handles POST /api/v1/runs/:id/quotes. An empty body collects
// candidates from the run's results using the query-string filters.
func (s *Server) runQuotes(c *gin.Context) {
	if !s.service.CurationEnabled() {
		s.errorResponse(c, http.StatusServiceUnavailable, "Quote curation is not configured")
		return
	}

	var req CurateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
			return
		}
	}

	quotes, ok := req.candidates()
	if !ok {
		s.successResponse(c, emptyCuration())
		return
	}

	var (
		result *curation.Result
		err    error
	)
	if len(quotes) > 0 {
		if _, err := s.service.GetRun(c.Request.Context(), c.Param("id")); err != nil {
			s.errorResponse(c, lookupStatus(err), "Failed to curate quotes: "+err.Error())
			return
		}
		result, err = s.service.Curate(c.Request.Context(), quotes)
	} else {
		_, filters := shared.ParseFilterQuery(c)
		result, err = s.service.Quotes(c.Request.Context(), c.Param("id"), filters)
	}
	if err != nil {
		s.errorResponse(c, lookupStatus(err), "Failed to curate quotes: "+err.Error())
		return
	}

	s.successResponse(c, result)
}

// curate handles POST /api/v1/curate
func (s *Server) curate(c *gin.Context) {
	if !s.service.CurationEnabled() {
		s.errorResponse(c, http.StatusServiceUnavailable, "Quote curation is not configured")
		return
	}

	var req CurateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	quotes, ok := req.candidates()
	if !ok {
		s.successResponse(c, emptyCuration())
		return
	}

	result, err := s.service.Curate(c.Request.Context(), quotes)
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to curate quotes: "+err.Error())
		return
	}

	s.successResponse(c, result)
}

// getCuration handles GET /api/v1/curation
func (s *Server) getCuration(c *gin.Context) {
	info := s.curation
	info.APIKey = maskAPIKey(info.APIKey)

	s.successResponse(c, gin.H{
		"enabled":  s.service.CurationEnabled(),
		"provider": info,
	})
}

func maskAPIKey(apiKey string) string {
	if apiKey == "" {
		return ""
	}
	if len(apiKey) <= 8 {
		return "***"
	}
	return apiKey[:4] + "..." + apiKey[len(apiKey)-4:]
}
