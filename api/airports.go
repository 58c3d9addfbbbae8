package api

import (
	"net/http"

	"github.com/Domenick1991/aviasales/internal/domain"
	"github.com/Domenick1991/aviasales/internal/service/airport"
	"github.com/gin-gonic/gin"
)

type AirportHandler struct {
	service airport.AirportUseCase
}

type airportListQuery struct {
	pageQuery
	Code       string `form:"code"`
	City       string `form:"city"`
	Country    string `form:"country"`
	Label      string `form:"label"`
	IataCode   string `form:"iata_code"`
	IcaoCode   string `form:"icao_code"`
	Facilities string `form:"facilities"`
}

type airportDetailsRequest struct {
	IataCode   string `json:"iata_code" binding:"omitempty,len=3"`
	IcaoCode   string `json:"icao_code" binding:"omitempty,len=4"`
	Facilities string `json:"facilities" binding:"max=400"`
}

type locationRequest struct {
	Latitude  float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"min=-180,max=180"`
	Elevation float64 `json:"elevation"`
}

type airportRequest struct {
	Code     string                `json:"code" binding:"required,max=10"`
	TZ       string                `json:"tz" binding:"max=64"`
	TimeZone string                `json:"time_zone" binding:"max=64"`
	Type     domain.AirportType    `json:"type" binding:"required,oneof=International Domestic"`
	Label    string                `json:"label" binding:"max=200"`
	City     string                `json:"city" binding:"max=100"`
	Country  string                `json:"country" binding:"max=100"`
	Details  airportDetailsRequest `json:"details"`
	Location locationRequest       `json:"location"`
}

func (r airportRequest) input() airport.AirportInput {
	return airport.AirportInput{
		Code:     r.Code,
		TZ:       r.TZ,
		TimeZone: r.TimeZone,
		Type:     r.Type,
		Label:    r.Label,
		City:     r.City,
		Country:  r.Country,
		Details: domain.AirportDetails{
			IataCode:   r.Details.IataCode,
			IcaoCode:   r.Details.IcaoCode,
			Facilities: r.Details.Facilities,
		},
		Location: domain.Location{
			Latitude:  r.Location.Latitude,
			Longitude: r.Location.Longitude,
			Elevation: r.Location.Elevation,
		},
	}
}

func NewAirportHandler(service airport.AirportUseCase) *AirportHandler {
	return &AirportHandler{service: service}
}

func (h *AirportHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("", h.create)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
}

func (h *AirportHandler) list(c *gin.Context) {
	var q airportListQuery
	if !bindQuery(c, &q) {
		return
	}
	filter := domain.AirportFilter{
		Code:       q.Code,
		City:       q.City,
		Country:    q.Country,
		Label:      q.Label,
		IataCode:   q.IataCode,
		IcaoCode:   q.IcaoCode,
		Facilities: q.Facilities,
	}
	airports, err := h.service.List(c.Request.Context(), filter, q.pager())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, airports)
}

func (h *AirportHandler) get(c *gin.Context) {
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

func (h *AirportHandler) create(c *gin.Context) {
	var req airportRequest
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

func (h *AirportHandler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req airportRequest
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

func (h *AirportHandler) delete(c *gin.Context) {
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
