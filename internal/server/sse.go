package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// keepaliveInterval is how often an idle stream gets a comment line so
// proxies do not time it out.
const keepaliveInterval = 15 * time.Second

// handleEventStream serves GET /v1/events/stream.
//
// The optional topics query parameter is a comma-separated list of patterns.
// A fresh client first receives the current state (as a "state" event
// numbered with the last event already sent); a client resuming with
// Last-Event-ID instead receives the buffered events it missed.
func (s *Server) handleEventStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	filter := parseTopicFilter(r.URL.Query().Get("topics"))
	resumeAfter, err := strconv.ParseUint(r.Header.Get("Last-Event-ID"), 10, 64)
	resume := err == nil

	client, backlog, lastID := s.hub.subscribe(filter, resumeAfter, resume)
	defer s.hub.unsubscribe(client)

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if resume {
		for _, evt := range backlog {
			writeSSEEvent(w, evt)
		}
	} else if filter.matches(TopicState) {
		if data, err := json.Marshal(s.graph.Snapshot()); err == nil {
			writeSSEEvent(w, sseEvent{ID: lastID, Topic: TopicState, Data: data})
		} else {
			s.logger.Warn("failed to marshal initial state", "err", err)
		}
	}
	flusher.Flush()

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-client.done:
			return
		case evt := <-client.ch:
			writeSSEEvent(w, evt)
			flusher.Flush()
		case <-keepalive.C:
			fmt.Fprint(w, ":keepalive\n\n")
			flusher.Flush()
		}
	}
}

func writeSSEEvent(w http.ResponseWriter, evt sseEvent) {
	fmt.Fprintf(w, "id:%d\nevent:%s\ndata:%s\n\n", evt.ID, evt.Topic, evt.Data)
}
