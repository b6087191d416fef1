package handlers

import (
	"errors"
	"net/http"

	"soil_monitor/internal/session"
	"soil_monitor/internal/transport"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK           = "ok"
	statusConnected    = "connected"
	statusDisconnected = "disconnected"

	errConnectSensor    = "failed to connect sensor"
	errDisconnectSensor = "failed to disconnect sensor"
	errGetState         = "failed to load state"
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
func (h *Handler) respondWithStatusAndState(c *gin.Context, status string) {
	ctx := c.Request.Context()
	resp := gin.H{"status": status}
	if st, err := h.services.Monitoring.GetState(ctx); err == nil {
		resp["state"] = st
	}
	c.JSON(http.StatusOK, resp)
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

// @Summary      Connect the sensor
// @Description  Opens the serial transport and starts the read loop. Rejected while a session is already connecting or active.
// @Tags         sensor
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, state"
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/sensor/connect [post]
// @Security     BearerAuth
func (h *Handler) connectSensor(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.services.Connection.Connect(ctx); err != nil {
		switch {
		case errors.Is(err, session.ErrBusy):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, transport.ErrNoDevice):
			h.logAndJSONError(c, http.StatusServiceUnavailable, err.Error(), "sensor_connect_no_device", err)
		default:
			h.logAndJSONError(c, http.StatusInternalServerError, errConnectSensor, "sensor_connect_failed", err)
		}
		return
	}
	h.respondWithStatusAndState(c, statusConnected)
}

// @Summary      Disconnect the sensor
// @Description  Cancels the read loop and releases the transport. Safe no-op when idle.
// @Tags         sensor
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/sensor/disconnect [post]
// @Security     BearerAuth
func (h *Handler) disconnectSensor(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.services.Connection.Disconnect(ctx); err != nil {
		if errors.Is(err, session.ErrBusy) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errDisconnectSensor, "sensor_disconnect_failed", err)
		return
	}
	h.respondWithStatusAndState(c, statusDisconnected)
}

// @Summary      Get sensor state
// @Description  Connection lifecycle state plus the latest readings snapshot.
// @Tags         sensor
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/sensor/state [get]
// @Security     BearerAuth
func (h *Handler) getState(c *gin.Context) {
	ctx := c.Request.Context()
	st, err := h.services.Monitoring.GetState(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "sensor_get_state_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Probe transport capability
// @Description  Reports whether the environment can provide a serial transport at all, without opening one.
// @Tags         sensor
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "supported, details"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/sensor/capability [get]
// @Security     BearerAuth
func (h *Handler) getCapability(c *gin.Context) {
	probe := h.services.Connection.Capability(c.Request.Context())
	c.JSON(http.StatusOK, probe)
}
