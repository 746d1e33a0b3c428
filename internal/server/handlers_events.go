package server

import (
	"net/http"
	"time"
)

// keepAliveInterval spaces the comment lines that stop proxies from closing an idle stream.
const keepAliveInterval = 15 * time.Second

// handleAPISessionEvents streams the caller's session as a "status" event on connect and after
// every status change, so a page can leave the loading view without polling.
func (s *Server) handleAPISessionEvents(w http.ResponseWriter, r *http.Request) {
	id := s.sessionID(w, r)
	ctx := r.Context()

	// Subscribe before the first read so a change between the two is not lost.
	events, unsubscribe := s.flow.Subscribe(id)
	defer unsubscribe()

	state, err := s.flow.Get(ctx, id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), "failed to load session")
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := sse.WriteEvent("status", newSessionResponse(state)); err != nil {
		return
	}

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sse.WriteComment("keep-alive"); err != nil {
				return
			}
		case _, ok := <-events:
			if !ok {
				return
			}
			state, err := s.flow.Get(ctx, id)
			if err != nil {
				sse.WriteError("failed to load session")
				return
			}
			if err := sse.WriteEvent("status", newSessionResponse(state)); err != nil {
				s.logger.Debug("event stream closed", "session", id, "error", err)
				return
			}
		}
	}
}
