package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appsearch "github.com/propdesk/backend/internal/application/search"
	"github.com/propdesk/backend/internal/infrastructure/logger"
	"github.com/propdesk/backend/internal/interfaces/http/dto"
)

const maxQueryLength = 200

// SearchQueryRequest submits the current text of a live search box
type SearchQueryRequest struct {
	Query string `json:"query" binding:"max=200"`
}

// LiveSessionResponse describes an opened live search session
type LiveSessionResponse struct {
	SessionID  string `json:"session_id"`
	StreamURL  string `json:"stream_url"`
	QueryURL   string `json:"query_url"`
	DebounceMS int64  `json:"debounce_ms"`
}

// SearchHandler serves the global type-ahead, one-shot and live
type SearchHandler struct {
	BaseHandler
	aggregator *appsearch.Aggregator
	sessions   *appsearch.SessionManager
	debounce   time.Duration
	heartbeat  time.Duration
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(aggregator *appsearch.Aggregator, sessions *appsearch.SessionManager, debounce, heartbeat time.Duration) *SearchHandler {
	if heartbeat <= 0 {
		heartbeat = 30 * time.Second
	}
	return &SearchHandler{
		aggregator: aggregator,
		sessions:   sessions,
		debounce:   debounce,
		heartbeat:  heartbeat,
	}
}

// Search runs one fan-out over every kind without debouncing
//
//	GET /api/v1/search?q=
func (h *SearchHandler) Search(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	q := c.Query("q")
	if len(q) > maxQueryLength {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "Search query is too long")
		return
	}

	resp, err := h.aggregator.Search(c.Request.Context(), officeID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// OpenLive starts a debounced live search session for the caller
//
//	POST /api/v1/search/live
func (h *SearchHandler) OpenLive(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	session, err := h.sessions.Open(c.Request.Context(), officeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	base := c.FullPath()
	h.Created(c, LiveSessionResponse{
		SessionID:  session.ID,
		StreamURL:  base + "/" + session.ID,
		QueryURL:   base + "/" + session.ID + "/query",
		DebounceMS: h.debounce.Milliseconds(),
	})
}

// SubmitQuery feeds the latest text of the search box into a session.
// Results arrive on the session's event stream.
//
//	POST /api/v1/search/live/:session/query
func (h *SearchHandler) SubmitQuery(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	session, err := h.sessions.Get(officeID, c.Param("session"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req SearchQueryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	session.Submit(req.Query)
	c.JSON(http.StatusAccepted, dto.NewSuccessResponse(gin.H{"session_id": session.ID, "query": req.Query}))
}

// CloseLive ends a live session
//
//	DELETE /api/v1/search/live/:session
func (h *SearchHandler) CloseLive(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	session, err := h.sessions.Get(officeID, c.Param("session"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.sessions.Close(session.ID)
	h.NoContent(c)
}

// Stream pushes the events of a session as Server-Sent Events: loading,
// results or error for every applied fan-out, and heartbeats in between.
// The session ends when the client disconnects.
//
//	GET /api/v1/search/live/:session
func (h *SearchHandler) Stream(c *gin.Context) {
	officeID, ok := h.officeID(c)
	if !ok {
		return
	}
	session, err := h.sessions.Get(officeID, c.Param("session"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer h.sessions.Close(session.ID)

	log := logger.GetGinLogger(c).With(zap.String("session_id", session.ID))

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	// the server write timeout would otherwise cut the stream
	_ = http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{})

	writeSSE(c.Writer, "connected", "", fmt.Sprintf(`{"session_id":%q}`, session.ID))
	c.Writer.Flush()
	log.Info("Live search client connected")

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			log.Info("Live search client disconnected")
			return
		case <-session.Done():
			writeSSE(c.Writer, "closed", "", `{}`)
			c.Writer.Flush()
			return
		case <-ticker.C:
			writeSSE(c.Writer, "heartbeat", "", fmt.Sprintf(`{"timestamp":%d}`, time.Now().Unix()))
			c.Writer.Flush()
		case ev := <-session.Events():
			data, err := json.Marshal(ev)
			if err != nil {
				log.Error("Failed to marshal search event", zap.Error(err))
				continue
			}
			writeSSE(c.Writer, ev.Type, fmt.Sprintf("%d", ev.Seq), string(data))
			c.Writer.Flush()
		}
	}
}

func writeSSE(w io.Writer, event, id, data string) {
	if event != "" {
		fmt.Fprintf(w, "event: %s\n", event)
	}
	if id != "" {
		fmt.Fprintf(w, "id: %s\n", id)
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
}
