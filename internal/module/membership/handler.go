package membership

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hierfortune/server/internal/module/user"
	"github.com/hierfortune/server/internal/shared/middleware"
)

// Handler handles HTTP requests for plan and quota state.
type Handler struct {
	service *Service
	users   user.Repository
}

// NewHandler creates a new membership handler.
func NewHandler(service *Service, users user.Repository) *Handler {
	return &Handler{service: service, users: users}
}

// RegisterProtectedRoutes registers the membership routes.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.GET("/users/me/quota", h.GetMyQuota)
	r.POST("/admin/users/:id/premium", h.UpgradeToPremium)
}

// QuotaResponse is the caller-visible quota state.
type QuotaResponse struct {
	PlanType       PlanType `json:"planType"`
	RemainingCount int      `json:"remainingCount"`
}

// GetMyQuota returns the authenticated user's plan and remaining count.
func (h *Handler) GetMyQuota(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	quota, err := h.service.GetQuota(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, QuotaResponse{
		PlanType:       quota.PlanType,
		RemainingCount: quota.RemainingCount,
	})
}

// UpgradeToPremium grants the unlimited tier to a user. Admin only.
func (h *Handler) UpgradeToPremium(c *gin.Context) {
	callerID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	caller, err := h.users.GetByID(c.Request.Context(), callerID)
	if err != nil {
		handleError(c, err)
		return
	}
	if !caller.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin role required"})
		return
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.service.UpgradeToPremium(c.Request.Context(), targetID); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrQuotaNotFound), errors.Is(err, user.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
