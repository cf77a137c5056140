package models

import "gorm.io/gorm"

// Meal slots a food can be served in.
const (
    SlotBreakfast = "breakfast"
    SlotLunch     = "lunch"
    SlotDinner    = "dinner"
    SlotSnack     = "snack"
)

// A catalog entry. Nutrients are per serving.
type FoodItem struct {
    gorm.Model
    Name     string `gorm:"not null" json:"name"`
    MealSlot string `gorm:"size:16;index;not null" json:"meal_slot"`

    Calories float64 `json:"calories"`
    ProteinG float64 `json:"protein_g"`
    CarbsG   float64 `json:"carbs_g"`
    FatG     float64 `json:"fat_g"`

    Allergens []string `gorm:"serializer:json" json:"allergens"`
    IsActive  bool     `gorm:"default:true;index" json:"is_active"`
}

// HasAnyAllergen reports whether the food carries at least one of the
// given allergens. Comparison is exact-match on the stored tags.
func (f *FoodItem) HasAnyAllergen(exclusions []string) bool {
    if len(f.Allergens) == 0 || len(exclusions) == 0 {
        return false
    }
    for _, a := range f.Allergens {
        for _, x := range exclusions {
            if a == x {
                return true
            }
        }
    }
    return false
}
