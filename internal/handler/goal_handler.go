package handler

import (
	"net/http"

	"fintrack/internal/service"

	"github.com/gin-gonic/gin"
)

type GoalHandler struct {
	goals *service.GoalService
}

func NewGoalHandler(goals *service.GoalService) *GoalHandler {
	return &GoalHandler{goals: goals}
}

func (h *GoalHandler) List(c *gin.Context) {
	list, err := h.goals.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *GoalHandler) Create(c *gin.Context) {
	var req service.GoalInput
	if !bindJSON(c, &req) {
		return
	}
	g, err := h.goals.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

func (h *GoalHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.GoalPatch
	if !bindJSON(c, &req) {
		return
	}
	g, err := h.goals.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *GoalHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.goals.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *GoalHandler) ListContributions(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	list, err := h.goals.ListContributions(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *GoalHandler) CreateContribution(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req service.ContributionInput
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.goals.CreateContribution(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h *GoalHandler) UpdateContribution(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	cid, ok := parseID(c, "cid")
	if !ok {
		return
	}
	var req service.ContributionPatch
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.goals.UpdateContribution(c.Request.Context(), id, cid, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *GoalHandler) DeleteContribution(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	cid, ok := parseID(c, "cid")
	if !ok {
		return
	}
	if err := h.goals.DeleteContribution(c.Request.Context(), id, cid); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
