package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	mw "vitalog/internal/middleware"
)

type DashboardHandler struct {
	db *sqlx.DB
}

func NewDashboardHandler(db *sqlx.DB) *DashboardHandler { return &DashboardHandler{db: db} }

type trendPoint struct {
	LocalDate string `json:"local_date"`
	Entries   int    `json:"entries"`
}

// weekTotals aggregates one week of entries per category.
type weekTotals struct {
	Entries            int     `db:"entries" json:"entries"`
	SportMinutes       int     `db:"sport_minutes" json:"sport_minutes"`
	StepsTotal         int     `db:"steps_total" json:"steps_total"`
	SleepMinutes       int     `db:"sleep_minutes" json:"sleep_minutes"`
	ProductiveMinutes  int     `db:"productive_minutes" json:"productive_minutes"`
	ScreenMinutes      int     `db:"screen_minutes" json:"screen_minutes"`
	MoodAverage        float64 `db:"mood_average" json:"mood_average"`
	MealQualityAverage float64 `db:"meal_quality_average" json:"meal_quality_average"`
	ExpensesTotal      float64 `db:"expenses_total" json:"expenses_total"`
	IncomeTotal        float64 `db:"income_total" json:"income_total"`
}

type dashboardResponse struct {
	ReferenceDate     string       `json:"reference_date"`
	HasTodayEntry     bool         `json:"has_today_entry"`
	ThisWeek          weekTotals   `json:"this_week"`
	LastWeek          weekTotals   `json:"last_week"`
	CurrentStreakDays int          `json:"current_streak_days"`
	Last7DaysTrend    []trendPoint `json:"last7_days_trend"`
}

const weekTotalsQuery = `
	SELECT
		COALESCE(COUNT(*), 0) AS entries,
		COALESCE(SUM(sport_duration_minutes) FILTER (WHERE category = 'Sport'), 0) AS sport_minutes,
		COALESCE(SUM(steps_count) FILTER (WHERE category = 'Nombre de pas'), 0) AS steps_total,
		COALESCE(SUM(sleep_duration_minutes) FILTER (WHERE category = 'Sommeil'), 0) AS sleep_minutes,
		COALESCE(SUM(productive_duration_minutes) FILTER (WHERE category = 'Action productive'), 0) AS productive_minutes,
		COALESCE(SUM(screen_duration_minutes) FILTER (WHERE category = 'Temps d''écran'), 0) AS screen_minutes,
		COALESCE(AVG(mood_score) FILTER (WHERE category = 'Humeur'), 0) AS mood_average,
		COALESCE(AVG(meal_quality) FILTER (WHERE category = 'Repas'), 0) AS meal_quality_average,
		COALESCE(SUM(expense_amount) FILTER (WHERE category = 'Dépense'), 0) AS expenses_total,
		COALESCE(SUM(income_amount) FILTER (WHERE category = 'Revenus'), 0) AS income_total
	FROM journal_entries
	WHERE user_id = $1 AND local_date >= $2 AND local_date <= $3`

// Get aggregates the reference week and the one before it, for the
// week-over-week comparison screens. Accepts optional query param:
// local_date=YYYY-MM-DD to use as the user's "today".
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := mw.UserID(r.Context())

	// Determine reference date from query or default to CURRENT_DATE
	refDateStr := r.URL.Query().Get("local_date")
	var refDate time.Time
	var err error
	if refDateStr == "" {
		if err = h.db.QueryRowx("SELECT CURRENT_DATE").Scan(&refDate); err != nil {
			http.Error(w, "could not determine current date", http.StatusInternalServerError)
			return
		}
	} else {
		refDate, err = time.Parse("2006-01-02", refDateStr)
		if err != nil {
			http.Error(w, "invalid local_date format; expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}

	// Weeks start on Monday, like the client's calendar.
	weekday := int(refDate.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	weekStart := refDate.AddDate(0, 0, -(weekday - 1))
	lastWeekStart := weekStart.AddDate(0, 0, -7)
	lastWeekEnd := weekStart.AddDate(0, 0, -1)

	var thisWeek, lastWeek weekTotals
	if err := h.db.QueryRowx(weekTotalsQuery, userID, weekStart, refDate).StructScan(&thisWeek); err != nil {
		http.Error(w, "could not fetch aggregates", http.StatusInternalServerError)
		return
	}
	if err := h.db.QueryRowx(weekTotalsQuery, userID, lastWeekStart, lastWeekEnd).StructScan(&lastWeek); err != nil {
		http.Error(w, "could not fetch aggregates", http.StatusInternalServerError)
		return
	}

	// Has entry on reference date
	var hasToday bool
	if err := h.db.QueryRowx(`SELECT EXISTS (SELECT 1 FROM journal_entries WHERE user_id=$1 AND local_date=$2)`, userID, refDate).Scan(&hasToday); err != nil {
		http.Error(w, "could not check today's entry", http.StatusInternalServerError)
		return
	}

	// Current streak of consecutive logged days ending at refDate
	streakQuery := `
		WITH d AS (
			SELECT DISTINCT local_date FROM journal_entries WHERE user_id=$1 AND local_date <= $2
		), g AS (
			SELECT local_date, local_date - (ROW_NUMBER() OVER (ORDER BY local_date))::int AS grp FROM d
		), c AS (
			SELECT COUNT(*) AS cnt, MAX(local_date) AS maxd FROM g GROUP BY grp
		)
		SELECT COALESCE((SELECT cnt FROM c WHERE maxd = $2), 0)`
	var streak int
	if err := h.db.QueryRowx(streakQuery, userID, refDate).Scan(&streak); err != nil {
		http.Error(w, "could not compute streak", http.StatusInternalServerError)
		return
	}

	// Last 7 days trend ending at reference date (inclusive)
	trendRows, err := h.db.Queryx(`
		SELECT d::date AS local_date, COALESCE(COUNT(e.id), 0) AS entries
		FROM generate_series($2::date - INTERVAL '6 days', $2::date, INTERVAL '1 day') AS d
		LEFT JOIN journal_entries e ON e.user_id=$1 AND e.local_date = d::date
		GROUP BY d
		ORDER BY d`, userID, refDate)
	if err != nil {
		http.Error(w, "could not fetch trend", http.StatusInternalServerError)
		return
	}
	defer trendRows.Close()
	var trend []trendPoint
	for trendRows.Next() {
		var d time.Time
		var n int
		if err := trendRows.Scan(&d, &n); err == nil {
			trend = append(trend, trendPoint{LocalDate: d.Format("2006-01-02"), Entries: n})
		}
	}

	resp := dashboardResponse{
		ReferenceDate:     refDate.Format("2006-01-02"),
		HasTodayEntry:     hasToday,
		ThisWeek:          thisWeek,
		LastWeek:          lastWeek,
		CurrentStreakDays: streak,
		Last7DaysTrend:    trend,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
