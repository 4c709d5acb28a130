package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"vitalog/internal/avatar"
	mw "vitalog/internal/middleware"
)

type AvatarHandler struct {
	engine *avatar.Engine
}

func NewAvatarHandler(engine *avatar.Engine) *AvatarHandler {
	return &AvatarHandler{engine: engine}
}

// Get returns the user's current vitals; a user who never logged an
// entry reads as full vitals.
func (h *AvatarHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := mw.UserID(r.Context())
	state, err := h.engine.CurrentState(r.Context(), userID)
	if err != nil {
		http.Error(w, "could not fetch avatar", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(state)
}

// Reset restores full vitals, bypassing the delta rules.
func (h *AvatarHandler) Reset(w http.ResponseWriter, r *http.Request) {
	userID := mw.UserID(r.Context())
	state, err := h.engine.Reset(r.Context(), userID)
	if err != nil {
		http.Error(w, "could not reset avatar", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(state)
}

// Stream pushes vitals over server-sent events so gauges redraw without
// polling. The current state is sent first, then every engine update.
func (h *AvatarHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	userID := mw.UserID(r.Context())
	ch, cancel, err := h.engine.Watch(r.Context(), userID)
	if err != nil {
		http.Error(w, "could not watch avatar", http.StatusInternalServerError)
		return
	}
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for {
		select {
		case <-r.Context().Done():
			return
		case state := <-ch:
			payload, err := json.Marshal(state)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
