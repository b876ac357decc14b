package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/repsboard/payroll-backend/internal/domain/auth"
	"github.com/repsboard/payroll-backend/internal/handler/http/response"
	"github.com/repsboard/payroll-backend/internal/pkg/jwt"
	"github.com/repsboard/payroll-backend/internal/pkg/sse"
)

const keepaliveInterval = 30 * time.Second

type EventsHandler interface {
	Token(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type eventsHandlerImpl struct {
	authService auth.AuthService
	jwtService  jwt.Service
	hub         *sse.Hub
}

func NewEventsHandler(authService auth.AuthService, jwtService jwt.Service, hub *sse.Hub) EventsHandler {
	return &eventsHandlerImpl{authService: authService, jwtService: jwtService, hub: hub}
}

// Token generates a short-lived token for SSE connections
func (h *eventsHandlerImpl) Token(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	token, err := h.authService.IssueSSEToken(r.Context(), p)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, token)
}

// Stream handles the SSE connection for live payroll updates
func (h *eventsHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// EventSource cannot send headers, so the token arrives in the query.
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	userID, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(userID)
	defer cleanup()

	slog.Debug("SSE client connected", "user_id", userID)
	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"user_id\":\"%s\"}\n\n", userID)
	flusher.Flush()

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			frame, err := event.Encode()
			if err != nil {
				slog.Warn("SSE event dropped", "event", event.Event, "error", err)
				continue
			}
			w.Write(frame)
			flusher.Flush()

		case <-keepalive.C:
			frame, _ := sse.Event{Event: sse.EventPing, Data: map[string]int64{"timestamp": time.Now().Unix()}}.Encode()
			w.Write(frame)
			flusher.Flush()

		case <-r.Context().Done():
			slog.Debug("SSE client disconnected", "user_id", userID)
			return
		}
	}
}
