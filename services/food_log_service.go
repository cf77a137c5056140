package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/quangtienngo661/noumeal-be/config"
	"github.com/quangtienngo661/noumeal-be/models"
	"github.com/quangtienngo661/noumeal-be/utils"
)

var (
	ErrOutOfOrder   = errors.New("meals must be logged in order breakfast, lunch, dinner, snack")
	ErrOffPlanLimit = errors.New("only one off-plan food may be logged per day")
)

var slotOrder = map[string]int{
	models.SlotBreakfast: 0,
	models.SlotLunch:     1,
	models.SlotDinner:    2,
	models.SlotSnack:     3,
}

// FoodLogService records what the user actually ate. It enforces the two
// invariants the remainder planner depends on: slots are logged strictly in
// order, and at most one off-plan food per day.
type FoodLogService struct {
	now func() time.Time
}

func NewFoodLogService() *FoodLogService {
	return &FoodLogService{now: time.Now}
}

// LogsForDay satisfies the planner's FoodLogStore interface. Entries come
// back ordered by time logged.
func (s *FoodLogService) LogsForDay(ctx context.Context, userID uint, day time.Time) ([]models.FoodLog, error) {
	start := utils.DayStart(day)
	end := start.Add(24 * time.Hour)

	var logs []models.FoodLog
	err := config.DB.WithContext(ctx).
		Preload("Food").
		Where("user_id = ? AND logged_at >= ? AND logged_at < ?", userID, start, end).
		Order("logged_at ASC").
		Find(&logs).Error
	return logs, err
}

// validateNextSlot rejects a slot that does not immediately follow the
// latest logged one.
func validateNextSlot(logs []models.FoodLog, slot string) error {
	idx, ok := slotOrder[slot]
	if !ok {
		return fmt.Errorf("unknown meal slot %q", slot)
	}
	want := 0
	if len(logs) > 0 {
		want = slotOrder[logs[len(logs)-1].MealSlot] + 1
	}
	if idx != want {
		return ErrOutOfOrder
	}
	return nil
}

func countOffPlan(logs []models.FoodLog) int {
	n := 0
	for _, l := range logs {
		if !l.Recommended {
			n++
		}
	}
	return n
}

// planContains reports whether foodID is among the plan's candidates for
// the given slot.
func planContains(plan *DayPlan, slot string, foodID uint) bool {
	if plan == nil {
		return false
	}
	var seq []models.FoodItem
	switch slot {
	case models.SlotBreakfast:
		seq = plan.Meals.Breakfast
	case models.SlotLunch:
		seq = plan.Meals.Lunch
	case models.SlotDinner:
		seq = plan.Meals.Dinner
	case models.SlotSnack:
		seq = plan.Meals.Snack
	}
	for _, f := range seq {
		if f.ID == foodID {
			return true
		}
	}
	return false
}

// LogFood appends one entry to today's log. The caller supplies today's
// DayPlan so the entry can be marked recommended or off-plan against it.
func (s *FoodLogService) LogFood(ctx context.Context, userID, foodID uint, slot string, plan *DayPlan) (*models.FoodLog, error) {
	var food models.FoodItem
	err := config.DB.WithContext(ctx).First(&food, foodID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFoodNotFound
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	logs, err := s.LogsForDay(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	if err := validateNextSlot(logs, slot); err != nil {
		return nil, err
	}

	recommended := planContains(plan, slot, foodID)
	if !recommended && countOffPlan(logs) >= 1 {
		return nil, ErrOffPlanLimit
	}

	entry := &models.FoodLog{
		UserID:      userID,
		FoodID:      foodID,
		MealSlot:    slot,
		Recommended: recommended,
		LoggedAt:    now,
	}
	if err := config.DB.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	entry.Food = food
	return entry, nil
}

// ProgressReport compares what was eaten today against the computed daily
// budget, each nutrient as a consumed/goal pair with a clamped percentage.
type ProgressReport struct {
	Consumed utils.NutrientBudget `json:"consumed"`
	Goal     utils.NutrientBudget `json:"goal"`
	Percent  map[string]float64   `json:"percent"`
}

func (s *FoodLogService) DailyProgress(ctx context.Context, user *models.User) (*ProgressReport, error) {
	logs, err := s.LogsForDay(ctx, user.ID, s.now())
	if err != nil {
		return nil, err
	}

	var consumed utils.NutrientBudget
	for _, l := range logs {
		consumed.Calories += l.Food.Calories
		consumed.ProteinG += l.Food.ProteinG
		consumed.CarbG += l.Food.CarbsG
		consumed.FatG += l.Food.FatG
	}

	goal := utils.CalculateDailyBudget(user)

	pct := func(eaten, target float64) float64 {
		if target <= 0 {
			return 0
		}
		p := eaten / target
		if p > 1 {
			return 1
		}
		return p
	}

	return &ProgressReport{
		Consumed: consumed,
		Goal:     goal,
		Percent: map[string]float64{
			"calories": pct(consumed.Calories, goal.Calories),
			"protein":  pct(consumed.ProteinG, goal.ProteinG),
			"carbs":    pct(consumed.CarbG, goal.CarbG),
			"fat":      pct(consumed.FatG, goal.FatG),
		},
	}, nil
}
