package api

import (
	"net/http"

	"github.com/Domenick1991/aviasales/internal/domain"
	"github.com/Domenick1991/aviasales/internal/service/airline"
	"github.com/gin-gonic/gin"
)

type AirlineHandler struct {
	service airline.AirlineUseCase
}

type airlineListQuery struct {
	pageQuery
	Name     string `form:"name"`
	IataCode string `form:"iata_code" binding:"omitempty,len=2"`
	IcaoCode string `form:"icao_code" binding:"omitempty,min=3,max=4"`
}

type airlineRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	IataCode string `json:"iata_code" binding:"required,len=2"`
	IcaoCode string `json:"icao_code" binding:"required,min=3,max=4"`
}

func (r airlineRequest) input() airline.AirlineInput {
	return airline.AirlineInput{Name: r.Name, IataCode: r.IataCode, IcaoCode: r.IcaoCode}
}

func NewAirlineHandler(service airline.AirlineUseCase) *AirlineHandler {
	return &AirlineHandler{service: service}
}

func (h *AirlineHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("", h.create)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
}

func (h *AirlineHandler) list(c *gin.Context) {
	var q airlineListQuery
	if !bindQuery(c, &q) {
		return
	}
	filter := domain.AirlineFilter{Name: q.Name, IataCode: q.IataCode, IcaoCode: q.IcaoCode}
	airlines, err := h.service.List(c.Request.Context(), filter, q.pager())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, airlines)
}

func (h *AirlineHandler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	a, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *AirlineHandler) create(c *gin.Context) {
	var req airlineRequest
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.service.Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *AirlineHandler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req airlineRequest
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.service.Update(c.Request.Context(), id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *AirlineHandler) delete(c *gin.Context) {
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
