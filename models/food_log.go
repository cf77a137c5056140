package models

import (
    "time"

    "gorm.io/gorm"
)

// One logged serving. Recommended marks whether the food was among the
// candidates the planner suggested for that slot on that day; an off-plan
// entry (Recommended=false) is what triggers remainder recalculation.
type FoodLog struct {
    gorm.Model
    UserID uint `gorm:"index;not null"`
    FoodID uint `gorm:"not null"`
    Food   FoodItem

    MealSlot    string    `gorm:"size:16;not null"`
    Recommended bool      `gorm:"default:true"`
    LoggedAt    time.Time `gorm:"index;not null"`
}
