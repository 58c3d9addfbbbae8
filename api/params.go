package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/aviasales/internal/domain"
	"github.com/gin-gonic/gin"
)

type pageQuery struct {
	Page    int `form:"page" binding:"omitempty,min=1,max=10000"`
	PerPage int `form:"per_page" binding:"omitempty,min=1"`
}

func (q pageQuery) pager() domain.Pager {
	return domain.NewPager(q.Page, q.PerPage)
}

// bindQuery binds query parameters into dst, answering 400 on failure.
func bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		respondBindError(c, err)
		return false
	}
	return true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondBindError(c, err)
		return false
	}
	return true
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeProblem(c, Problem{Status: http.StatusBadRequest, Detail: "invalid id"})
		return 0, false
	}
	return id, true
}
