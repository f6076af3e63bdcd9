package jobsHandler

import (
	"PersonTracking/pkg/log"
	"github.com/gofiber/websocket/v2"
	"golang.org/x/net/context"
	"time"
)

// handleJobWebSocket pushes a job snapshot after every change and closes the
// connection once the job is terminal.
func (h *JobsHandler) handleJobWebSocket(c *websocket.Conn) {
	jobID := c.Params("id")
	fields := log.Fields{"job_id": jobID}

	h.log.WithFields(fields).Info("Job progress WebSocket client connected")
	defer h.log.WithFields(fields).Info("Job progress WebSocket client disconnected")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, err := h.jobsService.WatchJob(ctx, jobID)
	if err != nil {
		_ = c.WriteJSON(map[string]string{"error": err.Error()})
		_ = c.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()),
			time.Now().Add(5*time.Second))
		return
	}

	// The client never sends anything useful; reading only detects disconnects.
	go func() {
		defer cancel()
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for job := range updates {
		if err := c.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
			h.log.WithFields(fields).Errorf("Error setting write deadline: %v", err)
			return
		}
		if err := c.WriteJSON(job); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.WithFields(fields).Errorf("Job WebSocket error: %v", err)
			}
			return
		}
	}

	_ = c.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "job finished"),
		time.Now().Add(5*time.Second))
}
