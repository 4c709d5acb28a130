package models

import "time"

type User struct {
	ID              int       `db:"id" json:"id"`
	Email           string    `db:"email" json:"email"` // Encrypted in DB
	EmailBlindIndex string    `db:"email_blind_index" json:"-"`
	PasswordHash    string    `db:"password_hash" json:"-"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	FirstName       *string   `db:"first_name" json:"first_name,omitempty"`
	LastName        *string   `db:"last_name" json:"last_name,omitempty"`
	Timezone        *string   `db:"timezone" json:"timezone,omitempty"`
	IsAdmin         bool      `db:"is_admin" json:"is_admin"`
}

// Journal entry categories. The set is closed: the client picks one of
// these labels and only that category's field group may be populated.
const (
	CategorySport      = "Sport"
	CategoryMeal       = "Repas"
	CategorySleep      = "Sommeil"
	CategoryProductive = "Action productive"
	CategoryScreenTime = "Temps d'écran"
	CategorySteps      = "Nombre de pas"
	CategoryMood       = "Humeur"
	CategoryExpense    = "Dépense"
	CategoryIncome     = "Revenus"
	CategoryChallenge  = "Défis"
)

// Categories lists every known category label.
func Categories() []string {
	return []string{
		CategorySport,
		CategoryMeal,
		CategorySleep,
		CategoryProductive,
		CategoryScreenTime,
		CategorySteps,
		CategoryMood,
		CategoryExpense,
		CategoryIncome,
		CategoryChallenge,
	}
}

// KnownCategory reports whether name is one of the ten category labels.
func KnownCategory(name string) bool {
	for _, c := range Categories() {
		if c == name {
			return true
		}
	}
	return false
}

// JournalEntry is one logged activity. Exactly one category's field group
// is populated per row; journal.Sanitize restores that invariant before
// anything trusts the payload.
type JournalEntry struct {
	ID          int     `db:"id" json:"id"`
	UserID      int     `db:"user_id" json:"user_id"`
	LocalDate   string  `db:"local_date" json:"local_date"` // YYYY-MM-DD
	Category    string  `db:"category" json:"category"`
	Subcategory *string `db:"subcategory" json:"subcategory,omitempty"`

	SportDurationMinutes *int `db:"sport_duration_minutes" json:"sport_duration_minutes,omitempty"`
	SportIntensity       *int `db:"sport_intensity" json:"sport_intensity,omitempty"`

	MealCalories     *float64 `db:"meal_calories" json:"meal_calories,omitempty"`
	MealProtein      *float64 `db:"meal_protein" json:"meal_protein,omitempty"`
	MealCarbs        *float64 `db:"meal_carbs" json:"meal_carbs,omitempty"`
	MealLipids       *float64 `db:"meal_lipids" json:"meal_lipids,omitempty"`
	MealQuality      *int     `db:"meal_quality" json:"meal_quality,omitempty"`
	MealSugar        *float64 `db:"meal_sugar" json:"meal_sugar,omitempty"`
	MealSaturatedFat *float64 `db:"meal_saturated_fat" json:"meal_saturated_fat,omitempty"`
	MealSodium       *float64 `db:"meal_sodium" json:"meal_sodium,omitempty"`

	SleepDurationMinutes *int    `db:"sleep_duration_minutes" json:"sleep_duration_minutes,omitempty"`
	SleepQuality         *int    `db:"sleep_quality" json:"sleep_quality,omitempty"`
	SleepAlarm           *bool   `db:"sleep_alarm" json:"sleep_alarm,omitempty"`
	SleepBedTime         *string `db:"sleep_bed_time" json:"sleep_bed_time,omitempty"`   // HH:MM
	SleepWakeTime        *string `db:"sleep_wake_time" json:"sleep_wake_time,omitempty"` // HH:MM

	ProductiveDurationMinutes *int `db:"productive_duration_minutes" json:"productive_duration_minutes,omitempty"`
	ProductiveFocus           *int `db:"productive_focus" json:"productive_focus,omitempty"` // 1 struggle, 2 neutral, 3 flow

	ScreenDurationMinutes *int `db:"screen_duration_minutes" json:"screen_duration_minutes,omitempty"`

	StepsCount *int `db:"steps_count" json:"steps_count,omitempty"`

	MoodScore *int `db:"mood_score" json:"mood_score,omitempty"`

	ExpenseAmount *float64 `db:"expense_amount" json:"expense_amount,omitempty"`

	IncomeAmount *float64 `db:"income_amount" json:"income_amount,omitempty"`

	ChallengeTitle           *string `db:"challenge_title" json:"challenge_title,omitempty"` // Encrypted in DB
	ChallengeDurationMinutes *int    `db:"challenge_duration_minutes" json:"challenge_duration_minutes,omitempty"`
	ChallengeQuantity        *int    `db:"challenge_quantity" json:"challenge_quantity,omitempty"`
	ChallengeSuccess         *bool   `db:"challenge_success" json:"challenge_success,omitempty"`
	ChallengeDifficulty      *int    `db:"challenge_difficulty" json:"challenge_difficulty,omitempty"`
	ChallengeState           *string `db:"challenge_state" json:"challenge_state,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// AvatarState is the per-user singleton vitals record. Invariants:
// 0 <= CurrentHp <= 100 and 0 <= CurrentSp <= CurrentHp.
type AvatarState struct {
	UserID     int       `db:"user_id" json:"-"`
	CurrentHp  float64   `db:"current_hp" json:"current_hp"`
	CurrentSp  float64   `db:"current_sp" json:"current_sp"`
	LastUpdate time.Time `db:"last_update" json:"last_update"`
}

// Default HP and SP for a fresh avatar.
const (
	DefaultHp = 100.0
	DefaultSp = 100.0
)

// NewAvatarState returns a full-vitals state for userID.
func NewAvatarState(userID int, now time.Time) AvatarState {
	return AvatarState{UserID: userID, CurrentHp: DefaultHp, CurrentSp: DefaultSp, LastUpdate: now}
}
