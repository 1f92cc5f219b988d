package handler

import (
	"net/http"
	"strings"

	"fintrack/internal/models"
	"fintrack/internal/repository"
	"fintrack/pkg/money"

	"github.com/gin-gonic/gin"
)

// PresetHandler talks to the repository directly; presets carry no balance
// effects.
type PresetHandler struct {
	presets *repository.PresetRepository
}

func NewPresetHandler(presets *repository.PresetRepository) *PresetHandler {
	return &PresetHandler{presets: presets}
}

type presetRequest struct {
	Type   string        `json:"type" binding:"required,oneof=income expense"`
	Source string        `json:"source" binding:"required,max=200"`
	Amount *money.Amount `json:"amount" binding:"omitempty,min=0,max=1000000000000000"`
	Note   string        `json:"note" binding:"max=500"`
}

type presetQuery struct {
	Type string `form:"type" binding:"omitempty,oneof=income expense"`
	Q    string `form:"q"`
}

// bindPreset binds the body and trims the text fields.
func bindPreset(c *gin.Context) (presetRequest, bool) {
	var req presetRequest
	if !bindJSON(c, &req) {
		return req, false
	}
	req.Source = strings.TrimSpace(req.Source)
	req.Note = strings.TrimSpace(req.Note)
	if req.Source == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source is required"})
		return req, false
	}
	return req, true
}

func (h *PresetHandler) List(c *gin.Context) {
	var q presetQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	list, err := h.presets.List(q.Type, q.Q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *PresetHandler) Create(c *gin.Context) {
	req, ok := bindPreset(c)
	if !ok {
		return
	}
	p := &models.Preset{Type: req.Type, Source: req.Source, Note: req.Note}
	if req.Amount != nil {
		p.Amount = *req.Amount
	}
	if err := h.presets.Create(p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *PresetHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	req, ok := bindPreset(c)
	if !ok {
		return
	}
	p, err := h.presets.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	p.Type = req.Type
	p.Source = req.Source
	p.Note = req.Note
	p.Amount = 0
	if req.Amount != nil {
		p.Amount = *req.Amount
	}
	if err := h.presets.Save(p); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PresetHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	deleted, err := h.presets.Delete(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
