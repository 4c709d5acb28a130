package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/jmoiron/sqlx"

	mw "vitalog/internal/middleware"
)

type AdminHandler struct {
	db *sqlx.DB
}

func NewAdminHandler(db *sqlx.DB) *AdminHandler { return &AdminHandler{db: db} }

type adminOverview struct {
	TotalUsers          int            `json:"total_users"`
	TotalJournalEntries int            `json:"total_journal_entries"`
	ActiveUsersThisWeek int            `json:"active_users_this_week"`
	EntriesThisWeek     int            `json:"entries_this_week"`
	EntriesByCategory   map[string]int `json:"entries_by_category"`
}

// mustBeAdmin checks the current user is admin
func (h *AdminHandler) mustBeAdmin(userID int) (bool, error) {
	var isAdmin bool
	if err := h.db.QueryRowx(`SELECT is_admin FROM users WHERE id=$1`, userID).Scan(&isAdmin); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return isAdmin, nil
}

// Overview returns administrative statistics and metrics (admin only).
func (h *AdminHandler) Overview(w http.ResponseWriter, r *http.Request) {
	userID := mw.UserID(r.Context())
	if ok, err := h.mustBeAdmin(userID); err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	} else if !ok {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var out adminOverview
	if err := h.db.QueryRowx(`SELECT COUNT(*) FROM users`).Scan(&out.TotalUsers); err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if err := h.db.QueryRowx(`SELECT COUNT(*) FROM journal_entries`).Scan(&out.TotalJournalEntries); err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if err := h.db.QueryRowx(`SELECT COUNT(DISTINCT user_id) FROM journal_entries WHERE local_date >= date_trunc('week', CURRENT_DATE) AND local_date <= CURRENT_DATE`).Scan(&out.ActiveUsersThisWeek); err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if err := h.db.QueryRowx(`SELECT COUNT(*) FROM journal_entries WHERE local_date >= date_trunc('week', CURRENT_DATE) AND local_date <= CURRENT_DATE`).Scan(&out.EntriesThisWeek); err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	out.EntriesByCategory = map[string]int{}
	rows, err := h.db.Queryx(`SELECT category, COUNT(*) FROM journal_entries GROUP BY category`)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	defer rows.Close()
	for rows.Next() {
		var category string
		var n int
		if err := rows.Scan(&category, &n); err == nil {
			out.EntriesByCategory[category] = n
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}
