package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dappforge/dappforge-backend/internal/deployments/events"
	"github.com/gin-gonic/gin"
)

const keepAliveInterval = 15 * time.Second

// StreamProjectEvents streams newly recorded projects for an owner using Server-Sent Events (SSE)
func (h *Handler) StreamProjectEvents(c *gin.Context) {
	owner := c.Param("ownerAddress")
	ctx := c.Request.Context()

	stream, closeStream, err := h.projectService.Follow(ctx, owner)
	if err != nil {
		if errors.Is(err, events.ErrStreamingDisabled) {
			respondError(c, http.StatusServiceUnavailable, "event streaming is not configured", "")
			return
		}
		writeError(c, err, "Failed to subscribe to project events")
		return
	}
	defer closeStream()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // nginx: disable buffering

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		respondError(c, http.StatusInternalServerError, "streaming unsupported", "")
		return
	}

	c.Status(http.StatusOK)
	fmt.Fprint(c.Writer, ": subscribed\n\n")
	flusher.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()

		case ev, ok := <-stream:
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", ev.Kind, data)
			flusher.Flush()
		}
	}
}
