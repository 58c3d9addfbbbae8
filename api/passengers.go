package api

import (
	"net/http"

	"github.com/Domenick1991/aviasales/internal/service/passenger"
	"github.com/gin-gonic/gin"
)

type PassengerHandler struct {
	service passenger.PassengerUseCase
}

type passengerRequest struct {
	UserID   *int64 `json:"user_id" binding:"omitempty,gt=0"`
	FlightID int64  `json:"flight_id" binding:"required,gt=0"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required,max=32"`
	FullName string `json:"full_name" binding:"required,max=200"`
}

func (r passengerRequest) input() passenger.PassengerInput {
	return passenger.PassengerInput{
		UserID:   r.UserID,
		FlightID: r.FlightID,
		Email:    r.Email,
		Phone:    r.Phone,
		FullName: r.FullName,
	}
}

func NewPassengerHandler(service passenger.PassengerUseCase) *PassengerHandler {
	return &PassengerHandler{service: service}
}

func (h *PassengerHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("", h.create)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
}

func (h *PassengerHandler) list(c *gin.Context) {
	var q pageQuery
	if !bindQuery(c, &q) {
		return
	}
	passengers, err := h.service.List(c.Request.Context(), q.pager())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, passengers)
}

func (h *PassengerHandler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	p, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PassengerHandler) create(c *gin.Context) {
	var req passengerRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.service.Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *PassengerHandler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req passengerRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.service.Update(c.Request.Context(), id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PassengerHandler) delete(c *gin.Context) {
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
