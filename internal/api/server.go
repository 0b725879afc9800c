package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AI2HU/geolens/internal/logger"
	"github.com/AI2HU/geolens/internal/scheduler"
	"github.com/AI2HU/geolens/internal/services"
)

// APIResponse is the envelope every endpoint answers with
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// CurationInfo describes the configured quote-curation backend
type CurationInfo struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	APIKey   string `json:"api_key,omitempty"`
	BaseURL  string `json:"base_url,omitempty"`
}

// Server exposes the metrics service over HTTP
type Server struct {
	service    *services.MetricsService
	router     *gin.Engine
	httpServer *http.Server
	corsOrigin string
	curation   CurationInfo
	digest     *scheduler.Digest
	digestCron string
}

// NewServer creates a new API server
func NewServer(service *services.MetricsService, corsOrigin string) *Server {
	if corsOrigin == "" {
		corsOrigin = "*"
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	s := &Server{
		service:    service,
		router:     router,
		corsOrigin: corsOrigin,
	}
	router.Use(s.cors())
	s.setupRoutes()
	return s
}

// SetCuration records the curation backend reported by GET /curation
func (s *Server) SetCuration(info CurationInfo) {
	s.curation = info
}

// SetDigest attaches a running digest scheduler reported by GET /digest
func (s *Server) SetDigest(d *scheduler.Digest, cronExpr string) {
	s.digest = d
	s.digestCron = cronExpr
}

// Handler returns the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/health", s.healthCheck)

		v1.GET("/runs", s.listRuns)
		v1.POST("/runs", s.importRun)
		v1.GET("/runs/:id", s.getRun)
		v1.DELETE("/runs/:id", s.deleteRun)
		v1.GET("/runs/:id/report", s.getReport)
		v1.GET("/runs/:id/export.csv", s.exportCSV)
		v1.GET("/runs/:id/search", s.searchResults)
		v1.POST("/runs/:id/quotes", s.runQuotes)

		v1.POST("/curate", s.curate)
		v1.GET("/curation", s.getCuration)
		v1.GET("/digest", s.getDigest)
		v1.POST("/digest/run", s.runDigest)
	}
}

// Run starts serving on address and blocks until Shutdown is called
func (s *Server) Run(address string) error {
	s.httpServer = &http.Server{
		Addr:              address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) cors() gin.HandlerFunc {
	origins := strings.Split(s.corsOrigin, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			for _, allowed := range origins {
				if allowed == "*" {
					c.Header("Access-Control-Allow-Origin", "*")
					break
				}
				if allowed == origin {
					c.Header("Access-Control-Allow-Origin", origin)
					c.Header("Vary", "Origin")
					break
				}
			}
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

func (s *Server) successResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

func (s *Server) errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   message,
	})
}

// lookupStatus maps store errors onto 404 or 500
func lookupStatus(err error) int {
	if strings.Contains(err.Error(), "not found") {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// healthCheck handles GET /api/v1/health
func (s *Server) healthCheck(c *gin.Context) {
	if err := s.service.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, APIResponse{
			Success: false,
			Error:   "Database connection failed",
		})
		return
	}

	s.successResponse(c, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now(),
		"curation":  s.service.CurationEnabled(),
	})
}
