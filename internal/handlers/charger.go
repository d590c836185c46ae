package handlers

import (
	"errors"
	"net/http"

	"charging_station/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK         = "ok"
	statusAccepted   = "accepted"
	statusCancelling = "cancelling"

	errGetState  = "failed to load state"
	errNoResult  = "no goal has finished yet"
	errSubmitMsg = "failed to submit goal"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// Respond with a status and include current state if available (best-effort).
func (h *Handler) respondWithStatusAndState(c *gin.Context, status string, extra gin.H) {
	ctx := c.Request.Context()
	resp := gin.H{"status": status}
	for k, v := range extra {
		resp[k] = v
	}
	st, err := h.services.Monitoring.GetState(ctx)
	if err == nil {
		resp["state"] = st
	}
	c.JSON(http.StatusOK, resp)
}

// Request DTO for submitting a goal. Range validation is the controller's
// admission decision, not the binder's.
type goalRequest struct {
	TargetLevel float64 `json:"target_level"` // percent
}

// SubmitGoalRequest is an exported model for Swagger docs of the goal payload.
type SubmitGoalRequest struct {
	// Target battery level in percent, within [0, 100]
	TargetLevel float64 `json:"target_level" example:"80"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Submit charging goal
// @Description  Validates the target level and starts charging asynchronously when accepted
// @Tags         charger
// @Accept       json
// @Produce      json
// @Param        body  body   SubmitGoalRequest  true  "Goal payload"
// @Success      200   {object}  map[string]interface{}  "status, goal, state"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/charger/goal [post]
// @Security     BearerAuth
func (h *Handler) submitGoal(c *gin.Context) {
	var req goalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: " + err.Error()})
		return
	}
	ctx := c.Request.Context()
	goal, err := h.services.Charger.SubmitGoal(ctx, service.GoalParams{TargetLevel: req.TargetLevel})
	if err != nil {
		h.respondRejection(c, err, req.TargetLevel)
		return
	}
	h.respondWithStatusAndState(c, statusAccepted, gin.H{"goal": goal})
}

// respondRejection maps admission errors to HTTP status codes.
func (h *Handler) respondRejection(c *gin.Context, err error, target float64) {
	if h.log != nil {
		h.log.Infow("goal_submit_rejected", "err", err, "target", target)
	}
	switch {
	case errors.Is(err, service.ErrInvalidTarget):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadySatisfied), errors.Is(err, service.ErrGoalInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errSubmitMsg, "goal_submit_failed", err)
	}
}

// @Summary      Cancel active goal
// @Description  Requests cooperative cancellation; observed within one tick
// @Tags         charger
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/charger/cancel [post]
// @Security     BearerAuth
func (h *Handler) cancelGoal(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.services.Charger.Cancel(ctx); err != nil {
		if h.log != nil {
			h.log.Infow("goal_cancel_rejected", "err", err)
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	h.respondWithStatusAndState(c, statusCancelling, gin.H{})
}

// @Summary      Get charger state
// @Tags         charger
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/charger/state [get]
// @Security     BearerAuth
func (h *Handler) getState(c *gin.Context) {
	ctx := c.Request.Context()
	st, err := h.services.Monitoring.GetState(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "charger_get_state_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Get last terminal result
// @Tags         charger
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/charger/result [get]
// @Security     BearerAuth
func (h *Handler) getResult(c *gin.Context) {
	res, ok := h.services.Charger.LastResult()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": errNoResult})
		return
	}
	c.JSON(http.StatusOK, res)
}
