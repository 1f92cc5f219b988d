package handler

import (
	"net/http"
	"time"

	"fintrack/internal/repository"
	"fintrack/internal/service"

	"github.com/gin-gonic/gin"
)

type DebtHandler struct {
	debts *service.DebtService
	loc   *time.Location
}

func NewDebtHandler(debts *service.DebtService, loc *time.Location) *DebtHandler {
	return &DebtHandler{debts: debts, loc: loc}
}

// List supports ?done=true|false, ?q= and a from/to window on the due date.
func (h *DebtHandler) List(c *gin.Context) {
	rg, ok := parseRange(c, h.loc)
	if !ok {
		return
	}
	f := repository.DebtFilter{Range: rg, Query: c.Query("q")}
	if v := c.Query("done"); v != "" {
		done, ok := parseBool(v)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid done"})
			return
		}
		f.Done = &done
	}
	list, err := h.debts.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *DebtHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	d, err := h.debts.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DebtHandler) Create(c *gin.Context) {
	var req service.DebtInput
	if !bindJSON(c, &req) {
		return
	}
	d, err := h.debts.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *DebtHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.DebtPatch
	if !bindJSON(c, &req) {
		return
	}
	d, err := h.debts.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DebtHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.debts.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *DebtHandler) ListContributions(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	list, err := h.debts.ListContributions(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *DebtHandler) AddContribution(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.DebtContributionInput
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.debts.AddContribution(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h *DebtHandler) DeleteContribution(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	cid, ok := parseID(c, "cid")
	if !ok {
		return
	}
	if err := h.debts.DeleteContribution(c.Request.Context(), id, cid); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
