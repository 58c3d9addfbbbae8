package api

import (
	"net/http"

	"github.com/Domenick1991/aviasales/internal/domain"
	"github.com/Domenick1991/aviasales/internal/service/country"
	"github.com/gin-gonic/gin"
)

type CountryHandler struct {
	service country.CountryUseCase
}

// countryListQuery pages only when page or per_page is given; otherwise every match is returned.
type countryListQuery struct {
	Page    *int   `form:"page" binding:"omitempty,min=1,max=10000"`
	PerPage *int   `form:"per_page" binding:"omitempty,min=1"`
	Name    string `form:"name"`
	Capital string `form:"capital"`
	Code    string `form:"code" binding:"omitempty,min=2,max=3"`
}

func (q countryListQuery) pager() *domain.Pager {
	if q.Page == nil && q.PerPage == nil {
		return nil
	}
	var page, perPage int
	if q.Page != nil {
		page = *q.Page
	}
	if q.PerPage != nil {
		perPage = *q.PerPage
	}
	p := domain.NewPager(page, perPage)
	return &p
}

type countryRequest struct {
	Name    string  `json:"name" binding:"required,max=150"`
	Capital string  `json:"capital" binding:"max=150"`
	Cioc    string  `json:"cioc" binding:"omitempty,len=3"`
	Cca2    string  `json:"cca2" binding:"omitempty,len=2"`
	Cca3    string  `json:"cca3" binding:"omitempty,len=3"`
	Ccn3    string  `json:"ccn3" binding:"omitempty,len=3"`
	Area    float64 `json:"area" binding:"min=0"`
}

func (r countryRequest) input() country.CountryInput {
	return country.CountryInput{
		Name:    r.Name,
		Capital: r.Capital,
		Cioc:    r.Cioc,
		Cca2:    r.Cca2,
		Cca3:    r.Cca3,
		Ccn3:    r.Ccn3,
		Area:    r.Area,
	}
}

func NewCountryHandler(service country.CountryUseCase) *CountryHandler {
	return &CountryHandler{service: service}
}

func (h *CountryHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("", h.create)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
}

func (h *CountryHandler) list(c *gin.Context) {
	var q countryListQuery
	if !bindQuery(c, &q) {
		return
	}
	filter := domain.CountryFilter{Name: q.Name, Capital: q.Capital, Code: q.Code}
	countries, err := h.service.List(c.Request.Context(), filter, q.pager())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, countries)
}

func (h *CountryHandler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ct, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ct)
}

func (h *CountryHandler) create(c *gin.Context) {
	var req countryRequest
	if !bindJSON(c, &req) {
		return
	}
	ct, err := h.service.Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ct)
}

func (h *CountryHandler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req countryRequest
	if !bindJSON(c, &req) {
		return
	}
	ct, err := h.service.Update(c.Request.Context(), id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ct)
}

func (h *CountryHandler) delete(c *gin.Context) {
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
