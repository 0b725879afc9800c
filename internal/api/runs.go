package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AI2HU/geolens/internal/models"
)

// ImportRequest carries a snapshot body plus run fields for bare result arrays
type ImportRequest struct {
	Brand      string `form:"brand"`
	SearchType string `form:"search_type"`
	Category   string `form:"category"`
	RunID      string `form:"run_id"`
}

// listRuns handles GET /api/v1/runs
func (s *Server) listRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 1000 {
		limit = 50
	}

	runs, err := s.service.ListRuns(c.Request.Context(), limit)
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to list runs: "+err.Error())
		return
	}
	if runs == nil {
		runs = []*models.Run{}
	}

	s.successResponse(c, runs)
}

// getRun handles GET /api/v1/runs/:id
func (s *Server) getRun(c *gin.Context) {
	overview, err := s.service.Overview(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.errorResponse(c, lookupStatus(err), "Failed to get run: "+err.Error())
		return
	}

	s.successResponse(c, overview)
}

// importRun handles POST /api/v1/runs; the body is a snapshot file
func (s *Server) importRun(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	fallback := models.Run{
		ID:         req.RunID,
		Brand:      req.Brand,
		SearchType: req.SearchType,
		Category:   req.Category,
	}
	snap, err := s.service.Import(c.Request.Context(), bytes.NewReader(body), fallback)
	if err != nil {
		s.errorResponse(c, http.StatusBadRequest, "Failed to import run: "+err.Error())
		return
	}

	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Data:    snap.Run,
		Message: fmt.Sprintf("Imported %d results", len(snap.Results)),
	})
}

// deleteRun handles DELETE /api/v1/runs/:id
func (s *Server) deleteRun(c *gin.Context) {
	if err := s.service.DeleteRun(c.Request.Context(), c.Param("id")); err != nil {
		s.errorResponse(c, lookupStatus(err), "Failed to delete run: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Run deleted successfully",
	})
}

// exportCSV handles GET /api/v1/runs/:id/export.csv
func (s *Server) exportCSV(c *gin.Context) {
	run, err := s.service.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.errorResponse(c, lookupStatus(err), "Failed to export run: "+err.Error())
		return
	}

	var buf bytes.Buffer
	if _, err := s.service.Export(c.Request.Context(), run.ID, &buf); err != nil {
		s.errorResponse(c, http.StatusInternalServerError, "Failed to export run: "+err.Error())
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "geolens-"+run.ID+".csv"))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// searchResults handles GET /api/v1/runs/:id/search?q=
func (s *Server) searchResults(c *gin.Context) {
	keyword := c.Query("q")
	if len(keyword) < 2 {
		s.errorResponse(c, http.StatusBadRequest, "Keyword must be at least 2 characters long")
		return
	}
	if len(keyword) > 100 {
		s.errorResponse(c, http.StatusBadRequest, "Keyword must be no more than 100 characters long")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	results, err := s.service.Search(c.Request.Context(), c.Param("id"), keyword, limit)
	if err != nil {
		s.errorResponse(c, lookupStatus(err), "Failed to search results: "+err.Error())
		return
	}
	if results == nil {
		results = []models.Result{}
	}

	s.successResponse(c, results)
}
