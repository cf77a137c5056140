package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/quangtienngo661/noumeal-be/models"
	"github.com/quangtienngo661/noumeal-be/utils"
)

const dateLayout = "2006-01-02"

// maxCandidatesPerSlot bounds how many ranked foods a scored slot returns.
const maxCandidatesPerSlot = 5

// DayMeals maps each slot to its ranked candidates. Breakfast, lunch and
// dinner hold up to 5 foods ordered best-match first; snack holds at most 1
// and is never nutrient-scored.
type DayMeals struct {
	Breakfast []models.FoodItem `json:"breakfast"`
	Lunch     []models.FoodItem `json:"lunch"`
	Dinner    []models.FoodItem `json:"dinner"`
	Snack     []models.FoodItem `json:"snack"`
}

type DayPlan struct {
	Date    string   `json:"date"`
	DayName string   `json:"day_name"`
	Meals   DayMeals `json:"meals"`
}

// WeekPlan is seven DayPlans anchored on the Monday of the week.
type WeekPlan struct {
	WeekStart string    `json:"week_start"`
	WeekEnd   string    `json:"week_end"`
	Days      []DayPlan `json:"days"`
}

// RemainingMeals is today's not-yet-eaten slots; slots already consumed are
// left empty.
type RemainingMeals struct {
	Date  string   `json:"date"`
	Meals DayMeals `json:"meals"`
}

// FoodCatalog supplies active catalog entries for one slot. Allergen and
// exclusion filtering happens in the planner, not the store.
type FoodCatalog interface {
	ActiveBySlot(ctx context.Context, slot string) ([]models.FoodItem, error)
}

// ProfileStore resolves a user's biometric profile.
type ProfileStore interface {
	ProfileByID(ctx context.Context, userID uint) (*models.User, error)
}

// FoodLogStore supplies one day's log entries ordered by time logged.
type FoodLogStore interface {
	LogsForDay(ctx context.Context, userID uint, day time.Time) ([]models.FoodLog, error)
}

// RecommendationService generates weekly meal plans and recomputes the
// remaining meals of a day after the user deviates from the plan.
type RecommendationService struct {
	catalog  FoodCatalog
	profiles ProfileStore
	logs     FoodLogStore
	cache    *PlanCache

	now func() time.Time
}

func NewRecommendationService(catalog FoodCatalog, profiles ProfileStore, logs FoodLogStore, cache *PlanCache) *RecommendationService {
	return &RecommendationService{
		catalog:  catalog,
		profiles: profiles,
		logs:     logs,
		cache:    cache,
		now:      time.Now,
	}
}

// nutrientDistance is the scoring function: calories weigh double because
// they dominate the diet goal.
func nutrientDistance(f *models.FoodItem, target utils.NutrientBudget) float64 {
	return 2*math.Abs(f.Calories-target.Calories) +
		math.Abs(f.ProteinG-target.ProteinG) +
		math.Abs(f.CarbsG-target.CarbG) +
		math.Abs(f.FatG-target.FatG)
}

// eligible filters a slot's foods down to what this user may be served.
func eligible(foods []models.FoodItem, user *models.User, excluded map[uint]bool) []models.FoodItem {
	out := make([]models.FoodItem, 0, len(foods))
	for _, f := range foods {
		if excluded[f.ID] {
			continue
		}
		if f.HasAnyAllergen(user.AllergenExclusions) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// selectMeals ranks a slot's eligible foods by ascending distance to the
// slot budget and returns the top candidates. An empty result is not an
// error: the slot simply has nothing to offer.
func (s *RecommendationService) selectMeals(ctx context.Context, user *models.User, slot string, target utils.NutrientBudget, excluded map[uint]bool) ([]models.FoodItem, error) {
	foods, err := s.catalog.ActiveBySlot(ctx, slot)
	if err != nil {
		return nil, fmt.Errorf("fetch %s candidates: %w", slot, err)
	}

	candidates := eligible(foods, user, excluded)
	sort.SliceStable(candidates, func(i, j int) bool {
		return nutrientDistance(&candidates[i], target) < nutrientDistance(&candidates[j], target)
	})

	if len(candidates) > maxCandidatesPerSlot {
		candidates = candidates[:maxCandidatesPerSlot]
	}
	return candidates, nil
}

// selectSnack picks at most one snack by filtering alone. Snacks are a
// fixed top-up, not nutrient-optimized.
func (s *RecommendationService) selectSnack(ctx context.Context, user *models.User, excluded map[uint]bool) ([]models.FoodItem, error) {
	foods, err := s.catalog.ActiveBySlot(ctx, models.SlotSnack)
	if err != nil {
		return nil, fmt.Errorf("fetch snack candidates: %w", err)
	}
	candidates := eligible(foods, user, excluded)
	if len(candidates) > 1 {
		candidates = candidates[:1]
	}
	return candidates, nil
}

// buildDay assembles one day's four slots against the shared exclusion set.
// The caller merges the returned ids back into the set.
func (s *RecommendationService) buildDay(ctx context.Context, user *models.User, day utils.NutrientBudget, excluded map[uint]bool) (DayMeals, error) {
	var meals DayMeals
	var err error

	if meals.Breakfast, err = s.selectMeals(ctx, user, models.SlotBreakfast, utils.SlotBudget(day, models.SlotBreakfast), excluded); err != nil {
		return meals, err
	}
	if meals.Lunch, err = s.selectMeals(ctx, user, models.SlotLunch, utils.SlotBudget(day, models.SlotLunch), excluded); err != nil {
		return meals, err
	}
	if meals.Dinner, err = s.selectMeals(ctx, user, models.SlotDinner, utils.SlotBudget(day, models.SlotDinner), excluded); err != nil {
		return meals, err
	}
	if meals.Snack, err = s.selectSnack(ctx, user, excluded); err != nil {
		return meals, err
	}
	return meals, nil
}

func (m *DayMeals) foodIDs() []uint {
	var ids []uint
	for _, seq := range [][]models.FoodItem{m.Breakfast, m.Lunch, m.Dinner, m.Snack} {
		for _, f := range seq {
			ids = append(ids, f.ID)
		}
	}
	return ids
}

// WeeklyPlan returns the cached plan for the current week, generating and
// caching it on a miss. Days are built strictly in order because each day's
// exclusion set depends on the previous day's picks; the set is cleared
// every 3rd day so a small catalog does not run dry.
func (s *RecommendationService) WeeklyPlan(ctx context.Context, userID uint) (*WeekPlan, error) {
	now := s.now()
	ws := utils.WeekStart(now)

	if wp, ok := s.cache.WeekPlan(userID, ws); ok {
		return wp, nil
	}

	user, err := s.profiles.ProfileByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	budget := utils.CalculateDailyBudget(user)

	wp := &WeekPlan{
		WeekStart: ws.Format(dateLayout),
		WeekEnd:   ws.AddDate(0, 0, 6).Format(dateLayout),
		Days:      make([]DayPlan, 0, 7),
	}

	excluded := map[uint]bool{}
	for i := 0; i < 7; i++ {
		if i > 0 && i%3 == 0 {
			excluded = map[uint]bool{}
		}

		meals, err := s.buildDay(ctx, user, budget, excluded)
		if err != nil {
			return nil, err
		}
		for _, id := range meals.foodIDs() {
			excluded[id] = true
		}

		date := ws.AddDate(0, 0, i)
		wp.Days = append(wp.Days, DayPlan{
			Date:    date.Format(dateLayout),
			DayName: date.Weekday().String(),
			Meals:   meals,
		})
	}

	s.cache.SetWeekPlan(userID, ws, wp, now)
	return wp, nil
}

// TodayPlan returns the current day's entry of this week's plan.
func (s *RecommendationService) TodayPlan(ctx context.Context, userID uint) (*DayPlan, error) {
	wp, err := s.WeeklyPlan(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	// round, not truncate: a DST day is not exactly 24h
	idx := int(math.Round(utils.DayStart(now).Sub(utils.WeekStart(now)).Hours() / 24))
	if idx < 0 || idx >= len(wp.Days) {
		return nil, fmt.Errorf("day index %d outside week plan", idx)
	}
	return &wp.Days[idx], nil
}

// RemainingMeals recomputes the not-yet-eaten slots of today. The log
// service guarantees meals arrive in breakfast→lunch→dinner→snack order
// with at most one off-plan food per day, so the latest logged slot is
// enough state to resume from. An off-plan meal re-targets later slots at
// their original full budgets; what was actually eaten is not subtracted.
func (s *RecommendationService) RemainingMeals(ctx context.Context, userID uint) (*RemainingMeals, error) {
	now := s.now()
	today := utils.DayStart(now)
	ws := utils.WeekStart(now)

	day, err := s.TodayPlan(ctx, userID)
	if err != nil {
		return nil, err
	}

	logs, err := s.logs.LogsForDay(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("fetch today's logs: %w", err)
	}
	if len(logs) == 0 {
		return &RemainingMeals{Date: day.Date, Meals: day.Meals}, nil
	}

	last := logs[len(logs)-1]
	switch last.MealSlot {
	case models.SlotBreakfast:
		if last.Recommended {
			return &RemainingMeals{Date: day.Date, Meals: DayMeals{
				Lunch:  day.Meals.Lunch,
				Dinner: day.Meals.Dinner,
				Snack:  day.Meals.Snack,
			}}, nil
		}
		if rm, ok := s.cache.Remaining(userID, ws, today); ok {
			return rm, nil
		}
		return s.replanAfterBreakfast(ctx, userID, day, logs, ws, today, now)

	case models.SlotLunch:
		if last.Recommended {
			return &RemainingMeals{Date: day.Date, Meals: DayMeals{
				Dinner: day.Meals.Dinner,
				Snack:  day.Meals.Snack,
			}}, nil
		}
		return s.replanAfterLunch(ctx, userID, day, logs, ws, today)

	case models.SlotDinner:
		return &RemainingMeals{Date: day.Date, Meals: DayMeals{Snack: day.Meals.Snack}}, nil

	default: // snack logged: the day is complete
		return &RemainingMeals{Date: day.Date}, nil
	}
}

// replanAfterBreakfast handles an off-plan breakfast: lunch and dinner are
// rescored at their original slot budgets, a fallback snack is fetched, and
// the result is cached so the next request reuses it instead of recomputing.
func (s *RecommendationService) replanAfterBreakfast(ctx context.Context, userID uint, day *DayPlan, logs []models.FoodLog, ws, today, now time.Time) (*RemainingMeals, error) {
	user, err := s.profiles.ProfileByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	budget := utils.CalculateDailyBudget(user)
	excluded := loggedFoodIDs(logs)

	lunch, err := s.selectMeals(ctx, user, models.SlotLunch, utils.SlotBudget(budget, models.SlotLunch), excluded)
	if err != nil {
		return nil, err
	}
	dinner, err := s.selectMeals(ctx, user, models.SlotDinner, utils.SlotBudget(budget, models.SlotDinner), excluded)
	if err != nil {
		return nil, err
	}
	snack, err := s.selectSnack(ctx, user, excluded)
	if err != nil {
		return nil, err
	}

	rm := &RemainingMeals{Date: day.Date, Meals: DayMeals{Lunch: lunch, Dinner: dinner, Snack: snack}}
	s.cache.SetRemaining(userID, ws, today, rm, now)
	return rm, nil
}

// replanAfterLunch handles an off-plan lunch: dinner comes from the
// remainder cache when the breakfast deviation already computed it,
// otherwise fresh; the snack is always fetched fresh.
func (s *RecommendationService) replanAfterLunch(ctx context.Context, userID uint, day *DayPlan, logs []models.FoodLog, ws, today time.Time) (*RemainingMeals, error) {
	user, err := s.profiles.ProfileByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	excluded := loggedFoodIDs(logs)

	var dinner []models.FoodItem
	if rm, ok := s.cache.Remaining(userID, ws, today); ok {
		dinner = rm.Meals.Dinner
	} else {
		budget := utils.CalculateDailyBudget(user)
		if dinner, err = s.selectMeals(ctx, user, models.SlotDinner, utils.SlotBudget(budget, models.SlotDinner), excluded); err != nil {
			return nil, err
		}
	}

	snack, err := s.selectSnack(ctx, user, excluded)
	if err != nil {
		return nil, err
	}
	return &RemainingMeals{Date: day.Date, Meals: DayMeals{Dinner: dinner, Snack: snack}}, nil
}

// ResetToday clears the user's cached plan and remainder for the current
// day so the next read regenerates.
func (s *RecommendationService) ResetToday(userID uint) {
	s.cache.ResetUserDay(userID, s.now())
}

func loggedFoodIDs(logs []models.FoodLog) map[uint]bool {
	ids := make(map[uint]bool, len(logs))
	for _, l := range logs {
		ids[l.FoodID] = true
	}
	return ids
}
