package fortune

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hierfortune/server/internal/module/fortune/generator"
	"github.com/hierfortune/server/internal/module/membership"
	"github.com/hierfortune/server/internal/module/user"
	"github.com/hierfortune/server/internal/shared/middleware"
)

// Handler handles HTTP requests for fortune generation and retrieval.
type Handler struct {
	service *Service
}

// NewHandler creates a new fortune handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterProtectedRoutes registers the fortune routes. All of them
// require authentication.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	fortune := r.Group("/fortune")
	{
		fortune.GET("/daily", h.GetDaily)
		fortune.GET("/lifelong", h.GetLifelong)
		fortune.POST("/face", h.AnalyzeFace)
		fortune.POST("/dream", h.InterpretDream)
		fortune.GET("/results", h.ListResults)
		fortune.GET("/:kind/:id", h.GetResult)
	}
}

// GetDaily returns today's fortune, generating it on the first call of the
// day.
func (h *Handler) GetDaily(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	resp, err := h.service.GetOrGenerateDaily(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetLifelong returns the user's lifetime fortune, generating it exactly
// once.
func (h *Handler) GetLifelong(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	resp, err := h.service.GetOrGenerateLifelong(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AnalyzeFace generates a face reading from an uploaded photo.
func (h *Handler) AnalyzeFace(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req FaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.GenerateFace(c.Request.Context(), userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// InterpretDream generates a dream interpretation.
func (h *Handler) InterpretDream(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req DreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.GenerateDream(c.Request.Context(), userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListResults returns the authenticated user's result history.
func (h *Handler) ListResults(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	resp, err := h.service.ListResults(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetResult retrieves one stored result by kind and id.
func (h *Handler) GetResult(c *gin.Context) {
	if _, ok := middleware.CurrentUserID(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	kind, err := ParseKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid result id"})
		return
	}

	resp, err := h.service.GetResult(c.Request.Context(), kind, id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, membership.ErrQuotaExceeded):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	case errors.Is(err, user.ErrUserNotFound), errors.Is(err, ErrResultNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrUnknownKind):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, generator.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "generation temporarily unavailable"})
	case errors.Is(err, ErrGenerationFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "fortune generation failed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
