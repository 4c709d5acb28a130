package handlers

import (
	"errors"
	"time"

	"vitalog/internal/models"
	"vitalog/internal/nutrition"
)

// entryRequest is the client payload for creating or updating a journal
// entry. All payload fields are optional; the sanitizer clears whatever
// does not belong to the chosen category.
type entryRequest struct {
	ID          int     `json:"id,omitempty"` // non-zero means update
	LocalDate   string  `json:"local_date"`   // YYYY-MM-DD
	Category    string  `json:"category"`
	Subcategory *string `json:"subcategory"`

	SportDurationMinutes *int `json:"sport_duration_minutes"`
	SportIntensity       *int `json:"sport_intensity"`

	MealCalories     *float64 `json:"meal_calories"`
	MealProtein      *float64 `json:"meal_protein"`
	MealCarbs        *float64 `json:"meal_carbs"`
	MealLipids       *float64 `json:"meal_lipids"`
	MealQuality      *int     `json:"meal_quality"`
	MealSugar        *float64 `json:"meal_sugar"`
	MealSaturatedFat *float64 `json:"meal_saturated_fat"`
	MealSodium       *float64 `json:"meal_sodium"`

	SleepDurationMinutes *int    `json:"sleep_duration_minutes"`
	SleepQuality         *int    `json:"sleep_quality"`
	SleepAlarm           *bool   `json:"sleep_alarm"`
	SleepBedTime         *string `json:"sleep_bed_time"`
	SleepWakeTime        *string `json:"sleep_wake_time"`

	ProductiveDurationMinutes *int `json:"productive_duration_minutes"`
	ProductiveFocus           *int `json:"productive_focus"`

	ScreenDurationMinutes *int `json:"screen_duration_minutes"`

	StepsCount *int `json:"steps_count"`

	MoodScore *int `json:"mood_score"`

	ExpenseAmount *float64 `json:"expense_amount"`

	IncomeAmount *float64 `json:"income_amount"`

	ChallengeTitle           *string `json:"challenge_title"`
	ChallengeDurationMinutes *int    `json:"challenge_duration_minutes"`
	ChallengeQuantity        *int    `json:"challenge_quantity"`
	ChallengeSuccess         *bool   `json:"challenge_success"`
	ChallengeDifficulty      *int    `json:"challenge_difficulty"`
	ChallengeState           *string `json:"challenge_state"`
}

var (
	errUnknownCategory = errors.New("unknown category")
	errBadLocalDate    = errors.New("invalid local_date format; expected YYYY-MM-DD")
)

// validate checks the request's identity fields. Payload fields need no
// validation here; the sanitizer and the engine defaults are total.
func (r entryRequest) validate() error {
	if !models.KnownCategory(r.Category) {
		return errUnknownCategory
	}
	if _, err := time.Parse("2006-01-02", r.LocalDate); err != nil {
		return errBadLocalDate
	}
	return nil
}

// toModel maps the request onto a JournalEntry for userID.
func (r entryRequest) toModel(userID int) models.JournalEntry {
	return models.JournalEntry{
		ID:          r.ID,
		UserID:      userID,
		LocalDate:   r.LocalDate,
		Category:    r.Category,
		Subcategory: r.Subcategory,

		SportDurationMinutes: r.SportDurationMinutes,
		SportIntensity:       r.SportIntensity,

		MealCalories:     r.MealCalories,
		MealProtein:      r.MealProtein,
		MealCarbs:        r.MealCarbs,
		MealLipids:       r.MealLipids,
		MealQuality:      r.MealQuality,
		MealSugar:        r.MealSugar,
		MealSaturatedFat: r.MealSaturatedFat,
		MealSodium:       r.MealSodium,

		SleepDurationMinutes: r.SleepDurationMinutes,
		SleepQuality:         r.SleepQuality,
		SleepAlarm:           r.SleepAlarm,
		SleepBedTime:         r.SleepBedTime,
		SleepWakeTime:        r.SleepWakeTime,

		ProductiveDurationMinutes: r.ProductiveDurationMinutes,
		ProductiveFocus:           r.ProductiveFocus,

		ScreenDurationMinutes: r.ScreenDurationMinutes,

		StepsCount: r.StepsCount,

		MoodScore: r.MoodScore,

		ExpenseAmount: r.ExpenseAmount,

		IncomeAmount: r.IncomeAmount,

		ChallengeTitle:           r.ChallengeTitle,
		ChallengeDurationMinutes: r.ChallengeDurationMinutes,
		ChallengeQuantity:        r.ChallengeQuantity,
		ChallengeSuccess:         r.ChallengeSuccess,
		ChallengeDifficulty:      r.ChallengeDifficulty,
		ChallengeState:           r.ChallengeState,
	}
}

// EntryDTO is a journal entry as returned to the client, with the
// nutrition score attached to meals.
type EntryDTO struct {
	models.JournalEntry
	NutritionScore *int `json:"nutrition_score,omitempty"`
}

func toEntryDTO(e models.JournalEntry) EntryDTO {
	dto := EntryDTO{JournalEntry: e}
	if e.Category == models.CategoryMeal && e.MealCalories != nil {
		protein := 0.0
		if e.MealProtein != nil {
			protein = *e.MealProtein
		}
		score := nutrition.ComputeScore(*e.MealCalories, protein, 0)
		dto.NutritionScore = &score
	}
	return dto
}

// UserDTO keeps date-only strings for dates and hides internal columns.
type UserDTO struct {
	ID        int     `json:"id"`
	Email     string  `json:"email"`
	CreatedAt string  `json:"created_at"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Timezone  *string `json:"timezone,omitempty"`
	IsAdmin   bool    `json:"is_admin"`
}

func ToUserDTO(u models.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Timezone:  u.Timezone,
		IsAdmin:   u.IsAdmin,
	}
}
