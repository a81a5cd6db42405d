package stats

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler serves the public statistics endpoint.
type Handler struct {
	service *Service
}

// NewHandler creates a new statistics handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the statistics routes. The endpoint is public.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stats", h.GetStatistics)
}

// GetStatistics returns aggregate usage numbers.
func (h *Handler) GetStatistics(c *gin.Context) {
	resp, err := h.service.GetStatistics(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, resp)
}
