package catalog

import (
	"net/http"
	"time"

	"fitstudio/internal/api"
	"fitstudio/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service   Service
	defaultTZ string
	now       func() time.Time
}

func NewHandler(service Service, defaultTZ string) *Handler {
	return &Handler{
		service:   service,
		defaultTZ: defaultTZ,
		now:       time.Now,
	}
}

// @Summary      List upcoming classes
// @Description  Returns classes that start after the current time, with start times rendered in the requested timezone.
// @Tags         classes
// @Produce      json
// @Param        tz  query     string  false  "IANA timezone for datetime"  default(Asia/Kolkata)
// @Success      200 {array}   catalog.ClassResponse
// @Failure      503 {object}  api.ErrorResponse
// @Router       /classes [get]
func (h *Handler) ListClasses(c *gin.Context) {
	tz := c.DefaultQuery("tz", h.defaultTZ)

	sessions, err := h.service.ListUpcoming(c.Request.Context(), h.now())
	if err != nil {
		logger.Error("list classes failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, api.Unavailable())
		return
	}

	resp := make([]ClassResponse, 0, len(sessions))
	for _, cs := range sessions {
		resp = append(resp, ClassResponse{
			ID:             cs.ID,
			Name:           cs.Name,
			Datetime:       api.FormatInZone(cs.StartsAt, tz),
			Instructor:     cs.Instructor,
			AvailableSlots: cs.AvailableSlots,
		})
	}

	c.JSON(http.StatusOK, resp)
}
