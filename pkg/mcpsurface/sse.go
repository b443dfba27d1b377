package mcpsurface

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	echo "github.com/labstack/echo/v5"

	"github.com/google/uuid"
)

// SSEHandler serves the MCP-over-SSE transport (spec.md §4.5, §6):
// GET /api/mcp/sse opens a stream and announces a companion POST endpoint;
// POST /api/mcp/messages delivers one request, whose response (if any) is
// pushed asynchronously over the caller's SSE stream.
type SSEHandler struct {
	dispatcher *Dispatcher

	mu       sync.Mutex
	sessions map[string]chan *Response
}

// NewSSEHandler constructs an SSEHandler over dispatcher.
func NewSSEHandler(dispatcher *Dispatcher) *SSEHandler {
	return &SSEHandler{dispatcher: dispatcher, sessions: make(map[string]chan *Response)}
}

// Register mounts the SSE and messages routes on group.
func (h *SSEHandler) Register(group *echo.Group) {
	group.GET("/sse", h.handleSSE)
	group.POST("/messages", h.handleMessages)
}

func (h *SSEHandler) handleSSE(c *echo.Context) error {
	w := c.Response()

	sessionID := uuid.New().String()
	ch := make(chan *Response, 16)
	h.mu.Lock()
	h.sessions[sessionID] = ch
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		delete(h.sessions, sessionID)
		h.mu.Unlock()
	}()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "event: endpoint\ndata: /api/mcp/messages?session_id=%s\n\n", sessionID)
	w.Flush()

	req := c.Request()
	for {
		select {
		case <-req.Context().Done():
			return nil
		case resp, ok := <-ch:
			if !ok {
				return nil
			}
			encoded, err := json.Marshal(resp)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: message\ndata: %s\n\n", encoded)
			w.Flush()
		}
	}
}

func (h *SSEHandler) handleMessages(c *echo.Context) error {
	sessionID := c.QueryParam("session_id")
	if sessionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "session_id is required")
	}

	h.mu.Lock()
	ch, ok := h.sessions[sessionID]
	h.mu.Unlock()
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown mcp session")
	}

	var req Request
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json-rpc request")
	}

	resp, hasResponse := h.dispatcher.Handle(c.Request().Context(), req)
	if hasResponse {
		select {
		case ch <- resp:
		default:
		}
	}

	return c.NoContent(http.StatusAccepted)
}
