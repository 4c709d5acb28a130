package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"vitalog/internal/avatar"
	"vitalog/internal/journal"
	mw "vitalog/internal/middleware"
	"vitalog/internal/models"
	"vitalog/internal/services"
)

type JournalHandler struct {
	db     *sqlx.DB
	engine *avatar.Engine
	encSvc *services.EncryptionService
}

func NewJournalHandler(db *sqlx.DB, engine *avatar.Engine, encSvc *services.EncryptionService) *JournalHandler {
	return &JournalHandler{db: db, engine: engine, encSvc: encSvc}
}

const payloadColumns = `sport_duration_minutes, sport_intensity,
	meal_calories, meal_protein, meal_carbs, meal_lipids, meal_quality, meal_sugar, meal_saturated_fat, meal_sodium,
	sleep_duration_minutes, sleep_quality, sleep_alarm, sleep_bed_time, sleep_wake_time,
	productive_duration_minutes, productive_focus,
	screen_duration_minutes, steps_count, mood_score, expense_amount, income_amount,
	challenge_title, challenge_duration_minutes, challenge_quantity, challenge_success, challenge_difficulty, challenge_state`

const payloadBindings = `:sport_duration_minutes, :sport_intensity,
	:meal_calories, :meal_protein, :meal_carbs, :meal_lipids, :meal_quality, :meal_sugar, :meal_saturated_fat, :meal_sodium,
	:sleep_duration_minutes, :sleep_quality, :sleep_alarm, :sleep_bed_time, :sleep_wake_time,
	:productive_duration_minutes, :productive_focus,
	:screen_duration_minutes, :steps_count, :mood_score, :expense_amount, :income_amount,
	:challenge_title, :challenge_duration_minutes, :challenge_quantity, :challenge_success, :challenge_difficulty, :challenge_state`

const payloadUpdateSet = `sport_duration_minutes=:sport_duration_minutes, sport_intensity=:sport_intensity,
	meal_calories=:meal_calories, meal_protein=:meal_protein, meal_carbs=:meal_carbs, meal_lipids=:meal_lipids,
	meal_quality=:meal_quality, meal_sugar=:meal_sugar, meal_saturated_fat=:meal_saturated_fat, meal_sodium=:meal_sodium,
	sleep_duration_minutes=:sleep_duration_minutes, sleep_quality=:sleep_quality, sleep_alarm=:sleep_alarm,
	sleep_bed_time=:sleep_bed_time, sleep_wake_time=:sleep_wake_time,
	productive_duration_minutes=:productive_duration_minutes, productive_focus=:productive_focus,
	screen_duration_minutes=:screen_duration_minutes, steps_count=:steps_count, mood_score=:mood_score,
	expense_amount=:expense_amount, income_amount=:income_amount,
	challenge_title=:challenge_title, challenge_duration_minutes=:challenge_duration_minutes,
	challenge_quantity=:challenge_quantity, challenge_success=:challenge_success,
	challenge_difficulty=:challenge_difficulty, challenge_state=:challenge_state`

// local_date is DATE in Postgres but YYYY-MM-DD text in the model.
const selectColumns = `id, user_id, to_char(local_date, 'YYYY-MM-DD') AS local_date, category, subcategory, ` +
	payloadColumns + `, created_at, updated_at`

type entryResponse struct {
	Entry  EntryDTO           `json:"entry"`
	Avatar models.AvatarState `json:"avatar"`
}

// SaveEntry creates a journal entry, or updates one when the body carries
// an id. The entry is sanitized before it is persisted, then fed to the
// vitals engine.
func (h *JournalHandler) SaveEntry(w http.ResponseWriter, r *http.Request) {
	userID := mw.UserID(r.Context())
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entry := journal.Sanitize(req.toModel(userID))

	// The stored copy carries the encrypted challenge title; the engine
	// and the response keep the plaintext one.
	stored := entry
	if err := h.encSvc.EncryptEntry(&stored); err != nil {
		http.Error(w, "could not encrypt entry", http.StatusInternalServerError)
		return
	}

	if req.ID == 0 {
		rows, err := h.db.NamedQuery(
			`INSERT INTO journal_entries (user_id, local_date, category, subcategory, `+payloadColumns+`)
			 VALUES (:user_id, :local_date, :category, :subcategory, `+payloadBindings+`)
			 RETURNING id, created_at, updated_at`, stored)
		if err != nil {
			http.Error(w, "could not save", http.StatusInternalServerError)
			return
		}
		if rows.Next() {
			_ = rows.Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
		}
		rows.Close()
	} else {
		rows, err := h.db.NamedQuery(
			`UPDATE journal_entries SET local_date=:local_date, category=:category, subcategory=:subcategory, `+
				payloadUpdateSet+`, updated_at=NOW() WHERE id=:id AND user_id=:user_id
			 RETURNING created_at, updated_at`, stored)
		if err != nil {
			http.Error(w, "could not save", http.StatusInternalServerError)
			return
		}
		if !rows.Next() {
			rows.Close()
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		_ = rows.Scan(&entry.CreatedAt, &entry.UpdatedAt)
		rows.Close()
	}

	state, err := h.engine.ProcessEntry(r.Context(), entry)
	if err != nil {
		http.Error(w, "could not update avatar", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entryResponse{Entry: toEntryDTO(entry), Avatar: state})
}

// List returns the user's entries, newest first. Optional query params:
// start_date, end_date (YYYY-MM-DD) and category.
func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := mw.UserID(r.Context())
	q := r.URL.Query()

	where := "WHERE user_id=$1"
	args := []interface{}{userID}

	if s := q.Get("start_date"); s != "" {
		startDate, err := time.Parse("2006-01-02", s)
		if err != nil {
			http.Error(w, "invalid start_date format; expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		args = append(args, startDate)
		where += fmt.Sprintf(" AND local_date >= $%d", len(args))
	}
	if s := q.Get("end_date"); s != "" {
		endDate, err := time.Parse("2006-01-02", s)
		if err != nil {
			http.Error(w, "invalid end_date format; expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		args = append(args, endDate)
		where += fmt.Sprintf(" AND local_date <= $%d", len(args))
	}
	if c := q.Get("category"); c != "" {
		if !models.KnownCategory(c) {
			http.Error(w, "unknown category", http.StatusBadRequest)
			return
		}
		args = append(args, c)
		where += fmt.Sprintf(" AND category = $%d", len(args))
	}

	query := `SELECT ` + selectColumns + ` FROM journal_entries ` + where + ` ORDER BY local_date DESC, id DESC LIMIT 200`
	rows, err := h.db.Queryx(query, args...)
	if err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	out := []EntryDTO{}
	for rows.Next() {
		var e models.JournalEntry
		if err := rows.StructScan(&e); err != nil {
			continue
		}
		if err := h.encSvc.DecryptEntry(&e); err != nil {
			continue
		}
		out = append(out, toEntryDTO(e))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// Delete removes one entry by id. Deleting does not replay the vitals
// engine; past deltas stay applied.
func (h *JournalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := mw.UserID(r.Context())
	var body struct {
		ID int `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ID == 0 {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	res, err := h.db.Exec(`DELETE FROM journal_entries WHERE id=$1 AND user_id=$2`, body.ID, userID)
	if err != nil {
		http.Error(w, "could not delete", http.StatusInternalServerError)
		return
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
