package journal

import (
	"reflect"
	"testing"

	"vitalog/internal/models"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }
func boolPtr(v bool) *bool        { return &v }

// fullEntry returns an entry with every optional field populated, the
// worst case a stale edit form can produce.
func fullEntry(category string) models.JournalEntry {
	return models.JournalEntry{
		UserID:    1,
		LocalDate: "2026-08-30",
		Category:  category,

		SportDurationMinutes: intPtr(45),
		SportIntensity:       intPtr(7),

		MealCalories:     floatPtr(650),
		MealProtein:      floatPtr(40),
		MealCarbs:        floatPtr(70),
		MealLipids:       floatPtr(20),
		MealQuality:      intPtr(8),
		MealSugar:        floatPtr(12),
		MealSaturatedFat: floatPtr(6),
		MealSodium:       floatPtr(900),

		SleepDurationMinutes: intPtr(480),
		SleepQuality:         intPtr(8),
		SleepAlarm:           boolPtr(true),
		SleepBedTime:         strPtr("23:00"),
		SleepWakeTime:        strPtr("07:00"),

		ProductiveDurationMinutes: intPtr(120),
		ProductiveFocus:           intPtr(3),

		ScreenDurationMinutes: intPtr(90),

		StepsCount: intPtr(11000),

		MoodScore: intPtr(7),

		ExpenseAmount: floatPtr(24.90),

		IncomeAmount: floatPtr(1800),

		ChallengeTitle:           strPtr("cold shower"),
		ChallengeDurationMinutes: intPtr(5),
		ChallengeQuantity:        intPtr(1),
		ChallengeSuccess:         boolPtr(true),
		ChallengeDifficulty:      intPtr(4),
		ChallengeState:           strPtr("done"),
	}
}

// groupFields maps each category to the struct fields of its payload group.
var groupFields = map[string][]string{
	models.CategorySport:      {"SportDurationMinutes", "SportIntensity"},
	models.CategoryMeal:       {"MealCalories", "MealProtein", "MealCarbs", "MealLipids", "MealQuality", "MealSugar", "MealSaturatedFat", "MealSodium"},
	models.CategorySleep:      {"SleepDurationMinutes", "SleepQuality", "SleepAlarm", "SleepBedTime", "SleepWakeTime"},
	models.CategoryProductive: {"ProductiveDurationMinutes", "ProductiveFocus"},
	models.CategoryScreenTime: {"ScreenDurationMinutes"},
	models.CategorySteps:      {"StepsCount"},
	models.CategoryMood:       {"MoodScore"},
	models.CategoryExpense:    {"ExpenseAmount"},
	models.CategoryIncome:     {"IncomeAmount"},
	models.CategoryChallenge:  {"ChallengeTitle", "ChallengeDurationMinutes", "ChallengeQuantity", "ChallengeSuccess", "ChallengeDifficulty", "ChallengeState"},
}

func fieldIsNil(t *testing.T, e models.JournalEntry, name string) bool {
	t.Helper()
	f := reflect.ValueOf(e).FieldByName(name)
	if !f.IsValid() {
		t.Fatalf("no such field %s", name)
	}
	return f.IsNil()
}

func TestSanitizeKeepsOwnGroupOnly(t *testing.T) {
	for _, category := range models.Categories() {
		t.Run(category, func(t *testing.T) {
			got := Sanitize(fullEntry(category))

			for cat, fields := range groupFields {
				for _, name := range fields {
					isNil := fieldIsNil(t, got, name)
					if cat == category && isNil {
						t.Fatalf("field %s of own category %q was cleared", name, category)
					}
					if cat != category && !isNil {
						t.Fatalf("field %s of foreign category %q survived", name, cat)
					}
				}
			}
		})
	}
}

func TestSanitizeUnknownCategoryClearsEverything(t *testing.T) {
	got := Sanitize(fullEntry("Lecture"))

	for _, fields := range groupFields {
		for _, name := range fields {
			if !fieldIsNil(t, got, name) {
				t.Fatalf("field %s survived for unknown category", name)
			}
		}
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	for _, category := range append(models.Categories(), "n'importe quoi") {
		once := Sanitize(fullEntry(category))
		twice := Sanitize(once)
		if !reflect.DeepEqual(once, twice) {
			t.Fatalf("sanitize not idempotent for %q", category)
		}
	}
}

func TestSanitizeDoesNotMutateInput(t *testing.T) {
	in := fullEntry(models.CategoryMeal)
	want := fullEntry(models.CategoryMeal)
	_ = Sanitize(in)
	if !reflect.DeepEqual(in, want) {
		t.Fatal("input entry was mutated")
	}
}

func TestSanitizePreservesIdentityFields(t *testing.T) {
	in := fullEntry(models.CategorySteps)
	in.ID = 42
	in.Subcategory = strPtr("marche")
	got := Sanitize(in)
	if got.ID != 42 || got.UserID != 1 || got.LocalDate != "2026-08-30" {
		t.Fatalf("identity fields changed: %+v", got)
	}
	if got.Category != models.CategorySteps {
		t.Fatalf("category changed to %q", got.Category)
	}
	if got.Subcategory == nil || *got.Subcategory != "marche" {
		t.Fatal("subcategory should survive sanitizing")
	}
	if got.StepsCount == nil || *got.StepsCount != 11000 {
		t.Fatal("steps count should survive sanitizing")
	}
}
