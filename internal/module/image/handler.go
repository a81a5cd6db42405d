package image

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler serves presigned URL requests for face photos.
type Handler struct {
	service *Service
}

// NewHandler creates a new image handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterProtectedRoutes registers the image routes. Presigning requires
// authentication.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	images := r.Group("/images")
	{
		images.POST("/upload-url", h.UploadURL)
		images.POST("/upload-urls", h.UploadURLs)
		images.GET("/download-url", h.DownloadURL)
		images.POST("/delete-url", h.DeleteURL)
	}
}

// UploadURL issues one presigned PUT URL.
func (h *Handler) UploadURL(c *gin.Context) {
	var req UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	url, err := h.service.UploadURL(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, url)
}

// UploadURLs issues presigned PUT URLs for several files at once.
func (h *Handler) UploadURLs(c *gin.Context) {
	var req MultiUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	urls, err := h.service.UploadURLs(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"urls": urls})
}

// DownloadURL issues a presigned GET URL for a stored photo.
func (h *Handler) DownloadURL(c *gin.Context) {
	url, err := h.service.DownloadURL(c.Request.Context(), c.Query("key"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, url)
}

// DeleteURL issues a presigned DELETE URL for a stored photo.
func (h *Handler) DeleteURL(c *gin.Context) {
	url, err := h.service.DeleteURL(c.Request.Context(), c.Query("key"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, url)
}

func handleError(c *gin.Context, err error) {
	if errors.Is(err, ErrInvalidFileName) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
