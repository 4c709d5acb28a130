// Package nutrition scores meals for the dashboards. The score feeds
// display only; the vitals engine never reads it.
package nutrition

import "math"

const caloriesPerGramProtein = 4.0

// ComputeScore rates a meal from 0 to 10 from its calories and protein
// grams. The calorie half starts at 5 and loses a point per started
// 100 kcal over 900; the protein half rates the protein-calorie ratio
// from 1 to 5, with a 3-point malus under 10%. fibers is accepted but
// does not affect the score yet.
func ComputeScore(calories, protein, fibers float64) int {
	if calories == 0 {
		return 5
	}

	calorieScore := 5
	if calories > 900 {
		calorieScore -= int(math.Ceil((calories - 900) / 100))
		if calorieScore < 0 {
			calorieScore = 0
		}
	}

	ratio := protein * caloriesPerGramProtein / calories
	var proteinScore int
	switch {
	case ratio >= 0.30:
		proteinScore = 5
	case ratio >= 0.25:
		proteinScore = 4
	case ratio >= 0.20:
		proteinScore = 3
	case ratio >= 0.15:
		proteinScore = 2
	default:
		proteinScore = 1
	}

	score := calorieScore + proteinScore
	if ratio < 0.10 {
		score -= 3
	}

	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}
