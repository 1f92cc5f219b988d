package handler

import (
	"net/http"
	"time"

	"fintrack/internal/service"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	stats *service.StatsService
	loc   *time.Location
}

func NewStatsHandler(stats *service.StatsService, loc *time.Location) *StatsHandler {
	return &StatsHandler{stats: stats, loc: loc}
}

// KPI returns income, tip, expense and contribution totals for an optional
// from/to window, plus the balance they imply.
func (h *StatsHandler) KPI(c *gin.Context) {
	rg, ok := parseRange(c, h.loc)
	if !ok {
		return
	}
	k, err := h.stats.KPI(c.Request.Context(), rg)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, k)
}
