package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rcliao/aurvo/internal/service"
)

// insightRequest is the POST /modules/:slug/insights body. Both fields
// must be present; empty strings are valid.
type insightRequest struct {
	Key   *string `json:"key" binding:"required"`
	Value *string `json:"value" binding:"required"`
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the AURVO cognitive API.",
		"endpoints": []string{
			"GET /health",
			"GET /modules",
			"GET /modules/{slug}",
			"POST /modules/{slug}/insights",
		},
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	summaries, err := s.svc.ListSummaries(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "modules": summaries})
}

func (s *Server) handleListModules(c *gin.Context) {
	summaries, err := s.svc.ListSummaries(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

func (s *Server) handleModuleDetail(c *gin.Context) {
	detail, err := s.svc.Detail(c.Request.Context(), c.Param("slug"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (s *Server) handleUpsertInsight(c *gin.Context) {
	var req insightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	in, err := s.svc.UpsertInsight(c.Request.Context(), c.Param("slug"), *req.Key, *req.Value)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, in)
}

// fail maps service errors to responses: unknown modules are 404,
// everything else is logged and returned as 500.
func (s *Server) fail(c *gin.Context, err error) {
	if service.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
		return
	}
	s.logger.Error("request failed",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"request_id", c.GetString(requestIDKey),
		"error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
}
