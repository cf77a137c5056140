package models

import (
    "gorm.io/gorm"
)

// Biological sex values accepted on a profile.
const (
    SexMale   = "male"
    SexFemale = "female"
    SexOther  = "other"
)

// Activity levels (TDEE multipliers live in utils/nutrition.go).
const (
    ActivitySedentary = "sedentary"
    ActivityLight     = "lightly_active"
    ActivityModerate  = "moderately_active"
    ActivityVery      = "very_active"
    ActivityExtra     = "extra_active"
)

// Diet goals.
const (
    GoalLoseWeight    = "lose_weight"
    GoalMaintain      = "maintain_weight"
    GoalGainWeight    = "gain_weight"
    GoalBuildMuscle   = "build_muscle"
    GoalImproveHealth = "improve_health"
)

type User struct {
    gorm.Model
    Email    string `gorm:"uniqueIndex;not null"`
    Password string `gorm:"not null"`
    FullName string
    Disabled bool `gorm:"default:false"`

    // Biometric profile read by the recommendation engine
    WeightKg      float64
    HeightCm      float64
    Age           int
    BiologicalSex string `gorm:"size:10"`
    ActivityLevel string `gorm:"size:20"`
    Goal          string `gorm:"size:20"`

    // Allergens this user must never be recommended
    AllergenExclusions []string `gorm:"serializer:json"`
}
