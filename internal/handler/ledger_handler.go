package handler

import (
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/repository"
	"fintrack/internal/service"

	"github.com/gin-gonic/gin"
)

// LedgerHandler serves the income, expense and tip collections.
type LedgerHandler struct {
	ledger *service.LedgerService
	loc    *time.Location
}

func NewLedgerHandler(ledger *service.LedgerService, loc *time.Location) *LedgerHandler {
	return &LedgerHandler{ledger: ledger, loc: loc}
}

func (h *LedgerHandler) entryFilter(c *gin.Context) (repository.EntryFilter, bool) {
	var f repository.EntryFilter
	rg, ok := parseRange(c, h.loc)
	if !ok {
		return f, false
	}
	f.Range = rg
	if v := c.Query("walletId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid walletId"})
			return f, false
		}
		wid := uint(id)
		f.WalletID = &wid
	}
	return f, true
}

func (h *LedgerHandler) ListIncomes(c *gin.Context) {
	f, ok := h.entryFilter(c)
	if !ok {
		return
	}
	list, err := h.ledger.ListIncomes(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *LedgerHandler) CreateIncome(c *gin.Context) {
	var req service.EntryInput
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.ledger.CreateIncome(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

// UpdateIncome serves both PATCH and PUT; absent fields are kept.
func (h *LedgerHandler) UpdateIncome(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.EntryPatch
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.ledger.UpdateIncome(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *LedgerHandler) DeleteIncome(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.ledger.DeleteIncome(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *LedgerHandler) ListExpenses(c *gin.Context) {
	f, ok := h.entryFilter(c)
	if !ok {
		return
	}
	list, err := h.ledger.ListExpenses(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *LedgerHandler) CreateExpense(c *gin.Context) {
	var req service.EntryInput
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.ledger.CreateExpense(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h *LedgerHandler) UpdateExpense(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.EntryPatch
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.ledger.UpdateExpense(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *LedgerHandler) DeleteExpense(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.ledger.DeleteExpense(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *LedgerHandler) ListTips(c *gin.Context) {
	f, ok := h.entryFilter(c)
	if !ok {
		return
	}
	list, err := h.ledger.ListTips(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *LedgerHandler) CreateTip(c *gin.Context) {
	var req service.TipInput
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.ledger.CreateTip(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h *LedgerHandler) UpdateTip(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.TipPatch
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.ledger.UpdateTip(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *LedgerHandler) DeleteTip(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.ledger.DeleteTip(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
