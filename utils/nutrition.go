package utils

import (
	"math"

	"github.com/quangtienngo661/noumeal-be/models"
)

// NutrientBudget is a daily (or per-slot) calorie and macro target.
// Computed fresh per request, never persisted.
type NutrientBudget struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbG    float64 `json:"carb_g"`
	FatG     float64 `json:"fat_g"`
}

var activityFactors = map[string]float64{
	models.ActivitySedentary: 1.20,
	models.ActivityLight:     1.375,
	models.ActivityModerate:  1.55,
	models.ActivityVery:      1.725,
	models.ActivityExtra:     1.90,
}

var goalAdjustments = map[string]float64{
	models.GoalLoseWeight:    -500,
	models.GoalMaintain:      0,
	models.GoalGainWeight:    500,
	models.GoalBuildMuscle:   300,
	models.GoalImproveHealth: 0,
}

// macroSplits maps a goal to its protein/carb/fat calorie fractions.
// Each row sums to 1.0.
var macroSplits = map[string][3]float64{
	models.GoalLoseWeight:    {0.40, 0.30, 0.30},
	models.GoalMaintain:      {0.30, 0.40, 0.30},
	models.GoalGainWeight:    {0.30, 0.45, 0.25},
	models.GoalBuildMuscle:   {0.35, 0.40, 0.25},
	models.GoalImproveHealth: {0.30, 0.40, 0.30},
}

// slotRatios scales a daily budget down to one meal. Breakfast, lunch and
// dinner partition the day; snack is a fixed top-up outside the split and
// is never nutrient-scored.
var slotRatios = map[string]float64{
	models.SlotBreakfast: 0.30,
	models.SlotLunch:     0.40,
	models.SlotDinner:    0.30,
	models.SlotSnack:     0.20,
}

// CalculateBMR uses the Mifflin-St Jeor equation. Height in centimeters,
// weight in kilograms. "other" gets no sex offset term.
func CalculateBMR(weightKg, heightCm float64, ageYears int, sex string) float64 {
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(ageYears)
	switch sex {
	case models.SexMale:
		bmr += 5
	case models.SexFemale:
		bmr -= 161
	}
	return bmr
}

// CalculateTDEE scales BMR by the activity factor. Unknown activity levels
// fall back to sedentary; validation happens at the request edge.
func CalculateTDEE(bmr float64, activityLevel string) float64 {
	factor, ok := activityFactors[activityLevel]
	if !ok {
		factor = activityFactors[models.ActivitySedentary]
	}
	return bmr * factor
}

// CalculateDailyBudget turns a profile into a full-day NutrientBudget.
// Total function: any well-formed profile yields a budget, with calories
// clamped at zero so a deficit goal can never go negative.
func CalculateDailyBudget(u *models.User) NutrientBudget {
	bmr := CalculateBMR(u.WeightKg, u.HeightCm, u.Age, u.BiologicalSex)
	tdee := CalculateTDEE(bmr, u.ActivityLevel)

	calories := tdee + goalAdjustments[u.Goal]
	if calories < 0 {
		calories = 0
	}

	split, ok := macroSplits[u.Goal]
	if !ok {
		split = macroSplits[models.GoalMaintain]
	}

	// 4 kcal/g for protein and carbs, 9 kcal/g for fat
	return NutrientBudget{
		Calories: math.Round(calories),
		ProteinG: math.Round(calories * split[0] / 4),
		CarbG:    math.Round(calories * split[1] / 4),
		FatG:     math.Round(calories * split[2] / 9),
	}
}

// SlotBudget scales a daily budget to one meal slot.
func SlotBudget(day NutrientBudget, slot string) NutrientBudget {
	ratio, ok := slotRatios[slot]
	if !ok {
		ratio = slotRatios[models.SlotSnack]
	}
	return NutrientBudget{
		Calories: day.Calories * ratio,
		ProteinG: day.ProteinG * ratio,
		CarbG:    day.CarbG * ratio,
		FatG:     day.FatG * ratio,
	}
}
