package booking

import (
	"errors"
	"net/http"
	"time"

	"fitstudio/internal/api"
	"fitstudio/internal/catalog"
	"fitstudio/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// @Summary      Book a class
// @Description  Reserves one slot in a class for the given client.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        request body booking.ReserveRequest true "Booking payload"
// @Success      201 {object} booking.BookingResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      422 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Failure      503 {object} api.ErrorResponse
// @Router       /book [post]
func (h *Handler) Book(c *gin.Context) {
	var req ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondWithValidationErrors(c, err)
		return
	}

	b, err := h.service.Reserve(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrClassNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Class not found", Code: api.CodeClassNotFound})
		case errors.Is(err, catalog.ErrNoSlotsAvailable):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "No slots available", Code: api.CodeNoSlotsAvailable})
		case errors.Is(err, ErrPartialFailure):
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{
				Error: "Your booking could not be recorded. The studio has been alerted.",
				Code:  api.CodeBookingNotRecorded,
			})
		default:
			logger.Error("reserve failed", "class_id", req.ClassID, "error", err)
			c.JSON(http.StatusServiceUnavailable, api.Unavailable())
		}
		return
	}

	c.JSON(http.StatusCreated, toResponse(*b))
}

// @Summary      List bookings by email
// @Tags         bookings
// @Produce      json
// @Param        email query    string true "Client email"
// @Success      200   {array}  booking.BookingResponse
// @Failure      422   {object} api.ErrorResponse
// @Failure      503   {object} api.ErrorResponse
// @Router       /bookings [get]
func (h *Handler) ListBookings(c *gin.Context) {
	var q FindBookingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		api.RespondWithValidationErrors(c, err)
		return
	}

	bookings, err := h.service.FindByEmail(c.Request.Context(), q.Email)
	if err != nil {
		logger.Error("find bookings failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, api.Unavailable())
		return
	}

	resp := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		resp = append(resp, toResponse(b))
	}

	c.JSON(http.StatusOK, resp)
}

func toResponse(b Booking) BookingResponse {
	return BookingResponse{
		ID:          b.ID,
		ClassID:     b.ClassID,
		ClassName:   b.ClassName,
		ClientName:  b.ClientName,
		ClientEmail: b.ClientEmail,
		Datetime:    b.ClassStartsAt.Format(time.RFC3339),
	}
}
