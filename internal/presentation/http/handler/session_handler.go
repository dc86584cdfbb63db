package handler

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/dukahub-api/internal/infrastructure/session"
	"github.com/sangkips/dukahub-api/internal/presentation/http/dto/response"
)

const heartbeatInterval = 25 * time.Second

// SessionHandler streams session changes to the user's open clients
type SessionHandler struct {
	events session.Bus
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(events session.Bus) *SessionHandler {
	return &SessionHandler{events: events}
}

// Events streams signed_in, signed_out and business_switched events as
// server-sent events until the client disconnects
// @Summary Session events
// @Tags auth
// @Security BearerAuth
// @Produce text/event-stream
// @Router /session/events [get]
func (h *SessionHandler) Events(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	events, cancel, err := h.events.Subscribe(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(string(event.Type), event)
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
