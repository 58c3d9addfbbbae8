package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/Domenick1991/aviasales/internal/domain"
	"github.com/Domenick1991/aviasales/internal/service/flights"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.search)
	router.GET("/:id", h.get)
	router.POST("", h.create)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
}

type flightSearchQuery struct {
	pageQuery
	DateFrom     string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	From         string `form:"from" binding:"omitempty,len=3"`
	To           string `form:"to" binding:"omitempty,len=3"`
	AirlineIcao  string `form:"airline_icao" binding:"omitempty,min=3,max=4"`
	Transactions *int   `form:"transactions" binding:"omitempty,min=0"`
	PriceFrom    *int64 `form:"price_from" binding:"omitempty,min=0"`
	PriceTo      *int64 `form:"price_to" binding:"omitempty,min=0"`
}

func (q flightSearchQuery) filter() domain.FlightFilter {
	filter := domain.FlightFilter{
		From:         strings.ToUpper(q.From),
		To:           strings.ToUpper(q.To),
		AirlineIcao:  strings.ToUpper(q.AirlineIcao),
		Transactions: q.Transactions,
		PriceFrom:    q.PriceFrom,
		PriceTo:      q.PriceTo,
	}
	if q.DateFrom != "" {
		// format already checked by the binding
		date, _ := time.Parse(dateLayout, q.DateFrom)
		filter.DateFrom = &date
	}
	return filter
}

type priceRequest struct {
	AmountCents int64            `json:"amount_cents" binding:"required,gt=0"`
	Type        domain.PriceType `json:"type" binding:"required,oneof=Main Discount Vat"`
}

type flightRequest struct {
	ExternalID         string         `json:"external_id" binding:"omitempty,max=64"`
	AirlineID          int64          `json:"airline_id" binding:"required,gt=0"`
	DepartureAirportID int64          `json:"departure_airport_id" binding:"required,gt=0"`
	DepartureTime      time.Time      `json:"departure_time" binding:"required"`
	ArrivalAirportID   int64          `json:"arrival_airport_id" binding:"required,gt=0,nefield=DepartureAirportID"`
	ArrivalTime        time.Time      `json:"arrival_time" binding:"required,gtfield=DepartureTime"`
	PassengerCount     int            `json:"passenger_count" binding:"min=0"`
	IsAvailable        bool           `json:"is_available"`
	HasFreeBaggage     bool           `json:"has_free_baggage"`
	TransactionCount   int            `json:"transaction_count" binding:"min=0"`
	Prices             []priceRequest `json:"prices" binding:"dive"`
}

func (r flightRequest) input() flights.FlightInput {
	prices := make([]domain.Price, 0, len(r.Prices))
	for _, p := range r.Prices {
		prices = append(prices, domain.Price{AmountCents: p.AmountCents, Type: p.Type})
	}
	return flights.FlightInput{
		ExternalID:         r.ExternalID,
		AirlineID:          r.AirlineID,
		DepartureAirportID: r.DepartureAirportID,
		DepartureTime:      r.DepartureTime,
		ArrivalAirportID:   r.ArrivalAirportID,
		ArrivalTime:        r.ArrivalTime,
		PassengerCount:     r.PassengerCount,
		IsAvailable:        r.IsAvailable,
		HasFreeBaggage:     r.HasFreeBaggage,
		TransactionCount:   r.TransactionCount,
		Prices:             prices,
	}
}

func (h *FlightHandler) search(c *gin.Context) {
	var q flightSearchQuery
	if !bindQuery(c, &q) {
		return
	}
	result, err := h.service.Search(c.Request.Context(), q.filter(), q.pager())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

func (h *FlightHandler) create(c *gin.Context) {
	var req flightRequest
	if !bindJSON(c, &req) {
		return
	}
	flight, err := h.service.Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, flight)
}

func (h *FlightHandler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req flightRequest
	if !bindJSON(c, &req) {
		return
	}
	flight, err := h.service.Update(c.Request.Context(), id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

func (h *FlightHandler) delete(c *gin.Context) {
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
