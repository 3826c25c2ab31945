package cards

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"recruitpath/athlete-portal/athlete-portal-backend/internal/accounts"
	"recruitpath/athlete-portal/athlete-portal-backend/internal/verification"
)

type Handler struct {
	accounts     *accounts.Service
	verification *verification.Service
	generator    *Generator
}

func NewHandler(accountsSvc *accounts.Service, verificationSvc *verification.Service, generator *Generator) *Handler {
	return &Handler{accounts: accountsSvc, verification: verificationSvc, generator: generator}
}

// RegisterRoutes mounts the recruit card endpoint. Cards are built from
// public data only, so the route is open.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/profiles/:id/card", h.GetCard)
}

func (h *Handler) GetCard(c *gin.Context) {
	athleteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile id"})
		return
	}

	profile, err := h.accounts.GetPublicProfile(c.Request.Context(), athleteID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}

	reviews, err := h.verification.ListReviews(c.Request.Context(), athleteID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load reviews"})
		return
	}

	card, err := h.generator.RenderCard(profile, reviews)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "card generation failed"})
		return
	}

	filename := fmt.Sprintf("recruit-card-%s-%s.pdf", profile.FirstName, profile.LastName)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", card)
}
