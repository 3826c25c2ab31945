package consent

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"recruitpath/athlete-portal/athlete-portal-backend/internal/auth"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the consent and preference endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	group := rg.Group("/me/consent", authMiddleware)
	{
		group.POST("", h.RequestConsent)
		group.GET("", h.GetConsent)
		group.POST("/:id/grant", h.GrantConsent)
		group.POST("/:id/revoke", h.RevokeConsent)
	}
	rg.PUT("/me/preferences", authMiddleware, h.UpdatePreferences)
}

func (h *Handler) RequestConsent(c *gin.Context) {
	callerID, ok := auth.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var body struct {
		GuardianName  string         `json:"guardian_name" binding:"required"`
		GuardianEmail string         `json:"guardian_email" binding:"required,email"`
		Form          datatypes.JSON `json:"form"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.service.RequestConsent(c.Request.Context(), callerID, body.GuardianName, body.GuardianEmail, body.Form)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create consent record"})
		return
	}

	c.JSON(http.StatusCreated, record)
}

func (h *Handler) GetConsent(c *gin.Context) {
	callerID, ok := auth.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	record, err := h.service.GetConsent(c.Request.Context(), callerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load consent"})
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no consent record"})
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *Handler) GrantConsent(c *gin.Context) {
	h.transition(c, h.service.GrantConsent)
}

func (h *Handler) RevokeConsent(c *gin.Context) {
	h.transition(c, h.service.RevokeConsent)
}

func (h *Handler) transition(c *gin.Context, apply func(ctx context.Context, id uuid.UUID) (*GuardianConsent, error)) {
	if _, ok := auth.CallerID(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid consent id"})
		return
	}

	record, err := apply(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, ErrAlreadyGranted):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "consent update failed"})
		}
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *Handler) UpdatePreferences(c *gin.Context) {
	callerID, ok := auth.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var body struct {
		RecruiterEmail bool           `json:"recruiter_email"`
		ProductUpdates bool           `json:"product_updates"`
		Channels       datatypes.JSON `json:"channels"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pref, err := h.service.UpdatePreferences(c.Request.Context(), callerID, body.RecruiterEmail, body.ProductUpdates, body.Channels)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save preferences"})
		return
	}

	c.JSON(http.StatusOK, pref)
}
