package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/aviasales/internal/domain"
	"github.com/Domenick1991/aviasales/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type bookingListQuery struct {
	pageQuery
	FlightID    int64 `form:"flight_id" binding:"omitempty,gt=0"`
	PassengerID int64 `form:"passenger_id" binding:"omitempty,gt=0"`
}

type createBookingRequest struct {
	FlightID        int64                `json:"flight_id" binding:"required,gt=0"`
	PassengerID     int64                `json:"passenger_id" binding:"required,gt=0"`
	TotalPriceCents int64                `json:"total_price_cents" binding:"required,gt=0"`
	Status          domain.BookingStatus `json:"status" binding:"omitempty,oneof=Confirmed Pending Cancelled InProgress"`
	BookingDateTime *time.Time           `json:"booking_date_time"`
}

type updateBookingRequest struct {
	TotalPriceCents int64                `json:"total_price_cents" binding:"required,gt=0"`
	Status          domain.BookingStatus `json:"status" binding:"required,oneof=Confirmed Pending Cancelled InProgress"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("", h.create)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
}

func (h *BookingHandler) list(c *gin.Context) {
	var q bookingListQuery
	if !bindQuery(c, &q) {
		return
	}
	filter := domain.BookingFilter{FlightID: q.FlightID, PassengerID: q.PassengerID}
	bookings, err := h.service.List(c.Request.Context(), filter, q.pager())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	b, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	input := booking.CreateBookingInput{
		FlightID:        req.FlightID,
		PassengerID:     req.PassengerID,
		TotalPriceCents: req.TotalPriceCents,
		Status:          req.Status,
	}
	if req.BookingDateTime != nil {
		input.BookingDateTime = *req.BookingDateTime
	}

	b, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *BookingHandler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req updateBookingRequest
	if !bindJSON(c, &req) {
		return
	}
	b, err := h.service.Update(c.Request.Context(), id, booking.UpdateBookingInput{
		TotalPriceCents: req.TotalPriceCents,
		Status:          req.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
