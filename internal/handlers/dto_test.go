package handlers

import (
	"testing"

	"vitalog/internal/models"
)

func TestEntryRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     entryRequest
		wantErr error
	}{
		{"valid", entryRequest{Category: models.CategorySport, LocalDate: "2026-08-30"}, nil},
		{"unknown category", entryRequest{Category: "Lecture", LocalDate: "2026-08-30"}, errUnknownCategory},
		{"empty category", entryRequest{LocalDate: "2026-08-30"}, errUnknownCategory},
		{"bad date", entryRequest{Category: models.CategoryMeal, LocalDate: "30/08/2026"}, errBadLocalDate},
		{"empty date", entryRequest{Category: models.CategoryMeal}, errBadLocalDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.req.validate(); err != tt.wantErr {
				t.Fatalf("validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestToEntryDTOAttachesNutritionScore(t *testing.T) {
	calories := 600.0
	protein := 45.0
	dto := toEntryDTO(models.JournalEntry{
		Category:     models.CategoryMeal,
		MealCalories: &calories,
		MealProtein:  &protein,
	})
	if dto.NutritionScore == nil {
		t.Fatal("expected a nutrition score on a meal with calories")
	}
	if *dto.NutritionScore != 10 {
		t.Fatalf("score = %d, want 10", *dto.NutritionScore)
	}
}

func TestToEntryDTOSkipsScoreWithoutCalories(t *testing.T) {
	if dto := toEntryDTO(models.JournalEntry{Category: models.CategoryMeal}); dto.NutritionScore != nil {
		t.Fatal("no score expected without calories")
	}
	steps := 9000
	if dto := toEntryDTO(models.JournalEntry{Category: models.CategorySteps, StepsCount: &steps}); dto.NutritionScore != nil {
		t.Fatal("no score expected on non-meal entries")
	}
}
