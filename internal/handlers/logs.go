package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"soil_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

const errLimitInvalid = "invalid 'limit': must be a non-negative integer"

// @Summary      List diagnostic events
// @Description  Bounded, most-recent-first event log. Optional severity filter (info, success, warning, error) and limit.
// @Tags         logs
// @Produce      json
// @Param        severity  query   string  false  "Severity"  Enums(info,success,warning,error)
// @Param        limit     query   int     false  "Max entries, newest first"
// @Success      200   {object}  map[string]interface{}  "count, events"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/logs [get]
// @Security     BearerAuth
func (h *Handler) getLogs(c *gin.Context) {
	ctx := c.Request.Context()

	// Normalize severity: trim spaces and lowercase to match stored values.
	severity := strings.ToLower(strings.TrimSpace(c.Query("severity")))

	limit := 0
	if qs := c.Query("limit"); qs != "" {
		v, err := strconv.Atoi(qs)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": errLimitInvalid})
			return
		}
		limit = v
	}

	events, err := h.services.EventLog.List(ctx, service.LogFilter{
		Severity: severity,
		Limit:    limit,
	})
	if err != nil {
		if h.log != nil {
			h.log.Errorw("logs_list_failed", "err", err, "severity", severity, "limit", limit)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}
