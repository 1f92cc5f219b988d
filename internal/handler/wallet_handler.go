package handler

import (
	"net/http"
	"strconv"

	"fintrack/internal/service"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	wallets *service.WalletService
}

func NewWalletHandler(wallets *service.WalletService) *WalletHandler {
	return &WalletHandler{wallets: wallets}
}

// List returns active wallets (all with includeArchived=true) with balances
// recomputed from the ledger.
func (h *WalletHandler) List(c *gin.Context) {
	includeArchived, _ := parseBool(c.Query("includeArchived"))
	list, err := h.wallets.List(c.Request.Context(), includeArchived)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *WalletHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	w, err := h.wallets.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *WalletHandler) Create(c *gin.Context) {
	var req service.WalletInput
	if !bindJSON(c, &req) {
		return
	}
	w, err := h.wallets.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

func (h *WalletHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.WalletPatch
	if !bindJSON(c, &req) {
		return
	}
	w, err := h.wallets.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// Archive is DELETE /wallets/:id; wallets are never hard-deleted.
func (h *WalletHandler) Archive(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	w, err := h.wallets.Archive(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *WalletHandler) SetDefault(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	w, err := h.wallets.SetDefault(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *WalletHandler) Transfer(c *gin.Context) {
	var req service.TransferInput
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.wallets.Transfer(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *WalletHandler) ListTransfers(c *gin.Context) {
	var walletID *uint
	if v := c.Query("walletId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid walletId"})
			return
		}
		wid := uint(id)
		walletID = &wid
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.wallets.ListTransfers(c.Request.Context(), walletID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *WalletHandler) DeleteTransfer(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.wallets.DeleteTransfer(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Recompute rewrites every wallet's cached balance from the ledger.
func (h *WalletHandler) Recompute(c *gin.Context) {
	n, err := h.wallets.RecomputeAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "updated": n})
}
