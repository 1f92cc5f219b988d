package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/repository"
	"fintrack/internal/service"
	"fintrack/pkg/money"
	"fintrack/pkg/timeutil"

	"github.com/gin-gonic/gin"
)

// parseID reads a positive integer path parameter. On failure it writes a
// 400 and returns false.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// parseRange reads the from/to query parameters. A bare "to" date covers the
// whole day.
func parseRange(c *gin.Context, loc *time.Location) (repository.Range, bool) {
	var rg repository.Range
	if v := c.Query("from"); v != "" {
		t, err := timeutil.Parse(v, loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from"})
			return rg, false
		}
		t = t.UTC()
		rg.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := timeutil.ParseEnd(v, loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to"})
			return rg, false
		}
		t = t.UTC()
		rg.To = &t
	}
	return rg, true
}

func parseBool(v string) (bool, bool) {
	switch v {
	case "1", "true", "yes":
		return true, true
	case "0", "false", "no":
		return false, true
	}
	return false, false
}

// respondError maps service and repository errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.Is(err, repository.ErrInsufficientBalance),
		errors.Is(err, service.ErrSameWallet),
		errors.Is(err, service.ErrWalletArchived),
		errors.Is(err, service.ErrTransferLeg),
		errors.Is(err, money.ErrOverflow):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrWalletNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		log.Printf("[Handler] %s %s %s: %v", c.GetString("request_id"), c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
