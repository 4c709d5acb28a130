package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"

	"vitalog/internal/avatar"
	"vitalog/internal/journal"
	mw "vitalog/internal/middleware"
	"vitalog/internal/models"
	"vitalog/internal/services"
)

// ImportHandler receives a batch of historical entries from a device
// migration and replays them through the sanitizer and the vitals
// engine in the order they are given.
type ImportHandler struct {
	db     *sqlx.DB
	engine *avatar.Engine
	encSvc *services.EncryptionService
}

func NewImportHandler(db *sqlx.DB, engine *avatar.Engine, encSvc *services.EncryptionService) *ImportHandler {
	return &ImportHandler{db: db, engine: engine, encSvc: encSvc}
}

type importRequest struct {
	Entries []entryRequest `json:"entries"`
}

// ImportData validates and persists every entry before any of them is
// replayed, so a bad batch never leaves the avatar half-updated.
func (h *ImportHandler) ImportData(w http.ResponseWriter, r *http.Request) {
	userID := mw.UserID(r.Context())

	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Entries) == 0 {
		http.Error(w, "no entries provided", http.StatusBadRequest)
		return
	}

	for i, entry := range req.Entries {
		if err := entry.validate(); err != nil {
			http.Error(w, fmt.Sprintf("entry %d: %s", i, err), http.StatusBadRequest)
			return
		}
	}

	tx, err := h.db.Beginx()
	if err != nil {
		http.Error(w, "could not start transaction", http.StatusInternalServerError)
		return
	}
	defer tx.Rollback()

	sanitized := make([]models.JournalEntry, 0, len(req.Entries))
	for i, entry := range req.Entries {
		e := journal.Sanitize(entry.toModel(userID))
		sanitized = append(sanitized, e)

		stored := e
		if err := h.encSvc.EncryptEntry(&stored); err != nil {
			http.Error(w, fmt.Sprintf("entry %d: could not encrypt", i), http.StatusInternalServerError)
			return
		}
		if _, err := tx.NamedExec(
			`INSERT INTO journal_entries (user_id, local_date, category, subcategory, `+payloadColumns+`)
			 VALUES (:user_id, :local_date, :category, :subcategory, `+payloadBindings+`)`, stored); err != nil {
			http.Error(w, fmt.Sprintf("entry %d: could not save", i), http.StatusInternalServerError)
			return
		}
	}

	if err := tx.Commit(); err != nil {
		http.Error(w, "could not commit transaction", http.StatusInternalServerError)
		return
	}

	// Replay in the given order; clamping makes the result order-dependent.
	for _, e := range sanitized {
		if _, err := h.engine.ProcessEntry(r.Context(), e); err != nil {
			http.Error(w, "could not update avatar", http.StatusInternalServerError)
			return
		}
	}

	state, err := h.engine.CurrentState(r.Context(), userID)
	if err != nil {
		http.Error(w, "could not fetch avatar", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"imported": len(req.Entries),
		"avatar":   state,
	})
}
