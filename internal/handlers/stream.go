package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/Billy-Davies-2/bracket-champs/internal/logger"
	"github.com/Billy-Davies-2/bracket-champs/internal/pickflow"
	"github.com/Billy-Davies-2/bracket-champs/internal/session"
)

const (
	keepAlive  = 30 * time.Second
	writeWait  = 10 * time.Second
	pingPeriod = 25 * time.Second
)

// EventsSSE provides Server-Sent Events for realtime updates
func (h *Handlers) EventsSSE(w http.ResponseWriter, r *http.Request) {
	if h.pubsub == nil {
		http.Error(w, "Events not configured", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	eventChan := h.pubsub.Subscribe()
	defer h.pubsub.Unsubscribe(eventChan)

	flush := func() {
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}

	fmt.Fprintf(w, "data: {\"type\":\"connected\"}\n\n")
	flush()

	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				logger.Warn("Failed to encode event", "type", event.Type, "error", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flush()
		case <-r.Context().Done():
			logger.Debug("SSE client disconnected")
			return
		case <-ticker.C:
			fmt.Fprintf(w, ": keepalive\n\n")
			flush()
		}
	}
}

// SessionWS streams every snapshot of a session over a websocket. The
// current state is sent first; the socket closes after the Complete snapshot.
func (h *Handlers) SessionWS(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s, err := h.sessions.Get(id)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("WebSocket upgrade failed", "session", id, "error", err)
		return
	}
	defer conn.Close()

	snaps, stop := s.Watch()
	defer stop()

	// The reader only notices the client going away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Debug("WebSocket closed", "session", id, "error", err)
				}
				return
			}
		}
	}()

	send := func(v session.View) bool {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(v); err != nil {
			logger.Debug("WebSocket write failed", "session", id, "error", err)
			return false
		}
		if v.State != pickflow.StateComplete {
			return true
		}
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "complete"))
		return false
	}

	if !send(s.View()) {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case snap, ok := <-snaps:
			if !ok || !send(session.View{ID: id, Snapshot: snap}) {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-gone:
			return
		}
	}
}
