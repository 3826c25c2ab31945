package analytics

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"recruitpath/athlete-portal/athlete-portal-backend/internal/auth"
)

const defaultWindow = 30 * 24 * time.Hour

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the analytics endpoints. Tracking is open; reading
// requires a session (and a paid tier, enforced in the service).
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	rg.POST("/profiles/:id/events", h.TrackEvent)

	authed := rg.Group("", authMiddleware)
	{
		authed.GET("/profiles/:id/analytics", h.GetSummary)
		authed.GET("/profiles/:id/analytics/export", h.ExportSummary)
	}
}

func (h *Handler) TrackEvent(c *gin.Context) {
	athleteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile id"})
		return
	}

	var body struct {
		Kind   EventKind `json:"kind" binding:"required"`
		Source string    `json:"source"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.service.Track(c.Request.Context(), athleteID, body.Kind, body.Source)
	c.Status(http.StatusAccepted)
}

func (h *Handler) GetSummary(c *gin.Context) {
	summary, err := h.loadSummary(c)
	if err != nil {
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) ExportSummary(c *gin.Context) {
	summary, err := h.loadSummary(c)
	if err != nil {
		return
	}

	workbook, err := ExportSummaryExcel(summary)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	filename := fmt.Sprintf("engagement-%s.xlsx", summary.To.Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", workbook)
}

// loadSummary parses the request, calls the service and writes error
// responses itself; a non-nil error just means the response is already sent.
func (h *Handler) loadSummary(c *gin.Context) (*Summary, error) {
	callerID, ok := auth.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return nil, errors.New("unauthenticated")
	}

	athleteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile id"})
		return nil, err
	}

	to := time.Now().UTC()
	from := to.Add(-defaultWindow)
	if raw := c.Query("from"); raw != "" {
		if from, err = time.Parse("2006-01-02", raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
			return nil, err
		}
	}
	if raw := c.Query("to"); raw != "" {
		if to, err = time.Parse("2006-01-02", raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
			return nil, err
		}
	}

	summary, err := h.service.GetSummary(c.Request.Context(), callerID, athleteID, from, to)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, ErrTierRequired):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load analytics"})
		}
		return nil, err
	}
	return summary, nil
}
