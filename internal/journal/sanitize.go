// Package journal holds the entry sanitizer: the procedural guard for the
// "one entry, one category's fields" invariant.
package journal

import "vitalog/internal/models"

// Sanitize returns a copy of e in which every field group that does not
// belong to e.Category is nil. It is pure and total: an unknown category
// clears every group, leaving an entry with no payload at all.
func Sanitize(e models.JournalEntry) models.JournalEntry {
	if e.Category != models.CategorySport {
		e.SportDurationMinutes = nil
		e.SportIntensity = nil
	}
	if e.Category != models.CategoryMeal {
		e.MealCalories = nil
		e.MealProtein = nil
		e.MealCarbs = nil
		e.MealLipids = nil
		e.MealQuality = nil
		e.MealSugar = nil
		e.MealSaturatedFat = nil
		e.MealSodium = nil
	}
	if e.Category != models.CategorySleep {
		e.SleepDurationMinutes = nil
		e.SleepQuality = nil
		e.SleepAlarm = nil
		e.SleepBedTime = nil
		e.SleepWakeTime = nil
	}
	if e.Category != models.CategoryProductive {
		e.ProductiveDurationMinutes = nil
		e.ProductiveFocus = nil
	}
	if e.Category != models.CategoryScreenTime {
		e.ScreenDurationMinutes = nil
	}
	if e.Category != models.CategorySteps {
		e.StepsCount = nil
	}
	if e.Category != models.CategoryMood {
		e.MoodScore = nil
	}
	if e.Category != models.CategoryExpense {
		e.ExpenseAmount = nil
	}
	if e.Category != models.CategoryIncome {
		e.IncomeAmount = nil
	}
	if e.Category != models.CategoryChallenge {
		e.ChallengeTitle = nil
		e.ChallengeDurationMinutes = nil
		e.ChallengeQuantity = nil
		e.ChallengeSuccess = nil
		e.ChallengeDifficulty = nil
		e.ChallengeState = nil
	}
	return e
}
