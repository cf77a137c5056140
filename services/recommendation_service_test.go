package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/quangtienngo661/noumeal-be/models"
	"github.com/quangtienngo661/noumeal-be/utils"
)

// Wednesday; the containing week starts Monday 2025-03-10.
var testNow = time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

type fakeCatalog struct {
	foods map[string][]models.FoodItem
	calls int
	err   error
}

func (f *fakeCatalog) ActiveBySlot(_ context.Context, slot string) ([]models.FoodItem, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.foods[slot], nil
}

type fakeProfiles struct {
	user *models.User
	err  error
}

func (f *fakeProfiles) ProfileByID(_ context.Context, _ uint) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

type fakeLogs struct {
	logs []models.FoodLog
}

func (f *fakeLogs) LogsForDay(_ context.Context, _ uint, _ time.Time) ([]models.FoodLog, error) {
	return f.logs, nil
}

func food(id uint, slot string, cal, protein, carbs, fat float64, allergens ...string) models.FoodItem {
	return models.FoodItem{
		Model:     gorm.Model{ID: id},
		MealSlot:  slot,
		Calories:  cal,
		ProteinG:  protein,
		CarbsG:    carbs,
		FatG:      fat,
		Allergens: allergens,
		IsActive:  true,
	}
}

func testUser() *models.User {
	return &models.User{
		Model:         gorm.Model{ID: 1},
		WeightKg:      70,
		HeightCm:      175,
		Age:           25,
		BiologicalSex: models.SexMale,
		ActivityLevel: models.ActivityModerate,
		Goal:          models.GoalMaintain,
	}
}

func newTestService(catalog *fakeCatalog, logs FoodLogStore) (*RecommendationService, *PlanCache) {
	cache := NewPlanCache()
	if logs == nil {
		logs = &fakeLogs{}
	}
	svc := NewRecommendationService(catalog, &fakeProfiles{user: testUser()}, logs, cache)
	svc.now = func() time.Time { return testNow }
	return svc, cache
}

func TestSelectMealsRanksByWeightedDistance(t *testing.T) {
	target := utils.NutrientBudget{Calories: 800, ProteinG: 60, CarbG: 80, FatG: 25}
	catalog := &fakeCatalog{foods: map[string][]models.FoodItem{
		models.SlotBreakfast: {
			food(3, models.SlotBreakfast, 790, 55, 80, 25), // 2*10+5 = 25
			food(1, models.SlotBreakfast, 800, 60, 80, 25), // 0
			food(2, models.SlotBreakfast, 810, 60, 80, 25), // 2*10 = 20
		},
	}}
	svc, _ := newTestService(catalog, nil)

	got, err := svc.selectMeals(context.Background(), testUser(), models.SlotBreakfast, target, nil)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, uint(1), got[0].ID)
	assert.Equal(t, uint(2), got[1].ID)
	assert.Equal(t, uint(3), got[2].ID)
}

func TestSelectMealsTruncatesToFive(t *testing.T) {
	var foods []models.FoodItem
	for i := uint(1); i <= 8; i++ {
		foods = append(foods, food(i, models.SlotLunch, float64(100*i), 10, 10, 5))
	}
	catalog := &fakeCatalog{foods: map[string][]models.FoodItem{models.SlotLunch: foods}}
	svc, _ := newTestService(catalog, nil)

	got, err := svc.selectMeals(context.Background(), testUser(), models.SlotLunch,
		utils.NutrientBudget{Calories: 100}, nil)
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestSelectMealsFiltersAllergensAndExclusions(t *testing.T) {
	catalog := &fakeCatalog{foods: map[string][]models.FoodItem{
		models.SlotDinner: {
			food(1, models.SlotDinner, 500, 30, 40, 15, "peanut", "soy"),
			food(2, models.SlotDinner, 500, 30, 40, 15, "soy"),
			food(3, models.SlotDinner, 500, 30, 40, 15),
		},
	}}
	svc, _ := newTestService(catalog, nil)

	user := testUser()
	user.AllergenExclusions = []string{"peanut"}

	got, err := svc.selectMeals(context.Background(), user, models.SlotDinner,
		utils.NutrientBudget{Calories: 500}, map[uint]bool{3: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint(2), got[0].ID)
}

func TestSelectMealsEmptyCatalogIsNotAnError(t *testing.T) {
	catalog := &fakeCatalog{foods: map[string][]models.FoodItem{}}
	svc, _ := newTestService(catalog, nil)

	got, err := svc.selectMeals(context.Background(), testUser(), models.SlotLunch,
		utils.NutrientBudget{Calories: 500}, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSelectSnackIsFilterOnly(t *testing.T) {
	// The first eligible snack wins even when a later one is a far better
	// nutrient match: snacks are never scored.
	catalog := &fakeCatalog{foods: map[string][]models.FoodItem{
		models.SlotSnack: {
			food(10, models.SlotSnack, 900, 1, 1, 1),
			food(11, models.SlotSnack, 200, 10, 20, 5),
		},
	}}
	svc, _ := newTestService(catalog, nil)

	got, err := svc.selectSnack(context.Background(), testUser(), nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint(10), got[0].ID)

	got, err = svc.selectSnack(context.Background(), testUser(), map[uint]bool{10: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint(11), got[0].ID)
}

// weekCatalog builds perSlot foods for each main slot plus four snacks.
// Ids are sequential and unique across slots.
func weekCatalog(perSlot int) *fakeCatalog {
	foods := map[string][]models.FoodItem{}
	id := uint(1)
	for _, slot := range []string{models.SlotBreakfast, models.SlotLunch, models.SlotDinner} {
		for i := 0; i < perSlot; i++ {
			foods[slot] = append(foods[slot], food(id, slot, float64(400+50*i), 25, 40, 12))
			id++
		}
	}
	for i := 0; i < 4; i++ {
		foods[models.SlotSnack] = append(foods[models.SlotSnack], food(id, models.SlotSnack, 200, 5, 25, 8))
		id++
	}
	return &fakeCatalog{foods: foods}
}

func TestWeeklyPlanShape(t *testing.T) {
	svc, _ := newTestService(weekCatalog(15), nil)

	wp, err := svc.WeeklyPlan(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "2025-03-10", wp.WeekStart)
	assert.Equal(t, "2025-03-16", wp.WeekEnd)
	require.Len(t, wp.Days, 7)

	assert.Equal(t, "2025-03-10", wp.Days[0].Date)
	assert.Equal(t, "Monday", wp.Days[0].DayName)
	assert.Equal(t, "2025-03-16", wp.Days[6].Date)
	assert.Equal(t, "Sunday", wp.Days[6].DayName)

	for _, d := range wp.Days {
		assert.LessOrEqual(t, len(d.Meals.Breakfast), 5)
		assert.LessOrEqual(t, len(d.Meals.Snack), 1)
	}
}

func TestWeeklyPlanDiversityWindow(t *testing.T) {
	svc, _ := newTestService(weekCatalog(15), nil)

	wp, err := svc.WeeklyPlan(context.Background(), 1)
	require.NoError(t, err)

	// Within days 0-2 no food id may appear on two different days.
	seen := map[uint]int{}
	for dayIdx := 0; dayIdx < 3; dayIdx++ {
		meals := wp.Days[dayIdx].Meals
		for _, id := range meals.foodIDs() {
			prev, dup := seen[id]
			assert.False(t, dup, "food %d on both day %d and day %d", id, prev, dayIdx)
			seen[id] = dayIdx
		}
	}
}

func TestWeeklyPlanDiversityResetOnDayThree(t *testing.T) {
	svc, _ := newTestService(weekCatalog(6), nil)

	wp, err := svc.WeeklyPlan(context.Background(), 1)
	require.NoError(t, err)

	// Six breakfasts: day 0 takes 5, day 1 the last one, day 2 gets nothing.
	// The reset on day 3 makes the full slot available again.
	assert.Len(t, wp.Days[0].Meals.Breakfast, 5)
	assert.Len(t, wp.Days[1].Meals.Breakfast, 1)
	assert.Empty(t, wp.Days[2].Meals.Breakfast)
	assert.Len(t, wp.Days[3].Meals.Breakfast, 5)
}

func TestWeeklyPlanCacheIdempotence(t *testing.T) {
	catalog := weekCatalog(15)
	svc, _ := newTestService(catalog, nil)

	first, err := svc.WeeklyPlan(context.Background(), 1)
	require.NoError(t, err)
	callsAfterFirst := catalog.calls

	second, err := svc.WeeklyPlan(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, callsAfterFirst, catalog.calls, "cached read must not hit the catalog")
	assert.Equal(t, first, second)
}

func TestWeeklyPlanRecomputesAfterCatalogFlush(t *testing.T) {
	catalog := weekCatalog(15)
	svc, cache := newTestService(catalog, nil)

	_, err := svc.WeeklyPlan(context.Background(), 1)
	require.NoError(t, err)
	callsAfterFirst := catalog.calls

	// any food catalog mutation flushes the whole cache
	cache.FlushAll()

	_, err = svc.WeeklyPlan(context.Background(), 1)
	require.NoError(t, err)
	assert.Greater(t, catalog.calls, callsAfterFirst)
}

func TestResetTodayClearsOnlyThatUser(t *testing.T) {
	catalog := weekCatalog(15)
	svc, cache := newTestService(catalog, nil)

	_, err := svc.WeeklyPlan(context.Background(), 1)
	require.NoError(t, err)

	// second user's plan lands under a different key
	otherSvc := NewRecommendationService(catalog, &fakeProfiles{user: testUser()}, &fakeLogs{}, cache)
	otherSvc.now = svc.now
	_, err = otherSvc.WeeklyPlan(context.Background(), 2)
	require.NoError(t, err)

	svc.ResetToday(1)

	ws := utils.WeekStart(testNow)
	_, ok := cache.WeekPlan(1, ws)
	assert.False(t, ok)
	_, ok = cache.WeekPlan(2, ws)
	assert.True(t, ok)
}

func TestWeeklyPlanPropagatesProfileError(t *testing.T) {
	svc, _ := newTestService(weekCatalog(15), nil)
	svc.profiles = &fakeProfiles{err: ErrUserNotFound}

	_, err := svc.WeeklyPlan(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestWeeklyPlanPropagatesCatalogError(t *testing.T) {
	catalog := &fakeCatalog{err: errors.New("catalog unreachable")}
	svc, _ := newTestService(catalog, nil)

	_, err := svc.WeeklyPlan(context.Background(), 1)
	assert.Error(t, err)
}

func TestTodayPlan(t *testing.T) {
	svc, _ := newTestService(weekCatalog(15), nil)

	day, err := svc.TodayPlan(context.Background(), 1)
	require.NoError(t, err)
	// testNow is Wednesday: index 2 of a Monday-anchored week
	assert.Equal(t, "2025-03-12", day.Date)
	assert.Equal(t, "Wednesday", day.DayName)
}

func loggedEntry(foodID uint, slot string, recommended bool) models.FoodLog {
	return models.FoodLog{
		UserID:      1,
		FoodID:      foodID,
		MealSlot:    slot,
		Recommended: recommended,
		LoggedAt:    testNow,
	}
}

func TestRemainingMealsNoLogs(t *testing.T) {
	svc, _ := newTestService(weekCatalog(15), &fakeLogs{})

	day, err := svc.TodayPlan(context.Background(), 1)
	require.NoError(t, err)

	rm, err := svc.RemainingMeals(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, day.Date, rm.Date)
	assert.Equal(t, day.Meals, rm.Meals)
}

func TestRemainingMealsRecommendedBreakfast(t *testing.T) {
	catalog := weekCatalog(15)
	logs := &fakeLogs{}
	svc, _ := newTestService(catalog, logs)

	day, err := svc.TodayPlan(context.Background(), 1)
	require.NoError(t, err)

	// log one of the recommended breakfast candidates → no replan
	logs.logs = []models.FoodLog{loggedEntry(day.Meals.Breakfast[0].ID, models.SlotBreakfast, true)}

	rm, err := svc.RemainingMeals(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, rm.Meals.Breakfast)
	assert.Equal(t, day.Meals.Lunch, rm.Meals.Lunch)
	assert.Equal(t, day.Meals.Dinner, rm.Meals.Dinner)
	assert.Equal(t, day.Meals.Snack, rm.Meals.Snack)
}

func TestRemainingMealsOffPlanBreakfastReplansAtFullBudgets(t *testing.T) {
	// Maintain-goal daily budget is 2749 kcal; the original full lunch
	// budget is 0.40 of that (~1100 kcal). If the off-plan deviation were
	// subtracted, a half-size lunch would score better. It must not.
	catalog := weekCatalog(15)
	catalog.foods[models.SlotLunch] = []models.FoodItem{
		food(101, models.SlotLunch, 550, 41, 55, 18),   // best match for a reduced budget
		food(102, models.SlotLunch, 1100, 82, 110, 37), // best match for the full budget
	}
	logs := &fakeLogs{logs: []models.FoodLog{loggedEntry(999, models.SlotBreakfast, false)}}
	svc, cache := newTestService(catalog, logs)

	rm, err := svc.RemainingMeals(context.Background(), 1)
	require.NoError(t, err)

	require.NotEmpty(t, rm.Meals.Lunch)
	assert.Equal(t, uint(102), rm.Meals.Lunch[0].ID)
	assert.Empty(t, rm.Meals.Breakfast)
	assert.NotEmpty(t, rm.Meals.Dinner)
	assert.Len(t, rm.Meals.Snack, 1)

	// the remainder was written to the secondary cache
	ws := utils.WeekStart(testNow)
	cached, ok := cache.Remaining(1, ws, utils.DayStart(testNow))
	require.True(t, ok)
	assert.Equal(t, rm, cached)
}

func TestRemainingMealsOffPlanBreakfastReusesCachedRemainder(t *testing.T) {
	catalog := weekCatalog(15)
	logs := &fakeLogs{logs: []models.FoodLog{loggedEntry(999, models.SlotBreakfast, false)}}
	svc, _ := newTestService(catalog, logs)

	first, err := svc.RemainingMeals(context.Background(), 1)
	require.NoError(t, err)
	callsAfterFirst := catalog.calls

	second, err := svc.RemainingMeals(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, callsAfterFirst, catalog.calls)
	assert.Equal(t, first, second)
}

func TestRemainingMealsRecommendedLunch(t *testing.T) {
	catalog := weekCatalog(15)
	logs := &fakeLogs{}
	svc, _ := newTestService(catalog, logs)

	day, err := svc.TodayPlan(context.Background(), 1)
	require.NoError(t, err)

	logs.logs = []models.FoodLog{
		loggedEntry(day.Meals.Breakfast[0].ID, models.SlotBreakfast, true),
		loggedEntry(day.Meals.Lunch[0].ID, models.SlotLunch, true),
	}

	rm, err := svc.RemainingMeals(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, rm.Meals.Breakfast)
	assert.Empty(t, rm.Meals.Lunch)
	assert.Equal(t, day.Meals.Dinner, rm.Meals.Dinner)
	assert.Equal(t, day.Meals.Snack, rm.Meals.Snack)
}

func TestRemainingMealsOffPlanLunchReusesCachedDinner(t *testing.T) {
	catalog := weekCatalog(15)
	logs := &fakeLogs{}
	svc, cache := newTestService(catalog, logs)

	day, err := svc.TodayPlan(context.Background(), 1)
	require.NoError(t, err)

	// the breakfast-deviation step already computed a remainder
	cachedDinner := []models.FoodItem{food(555, models.SlotDinner, 700, 40, 60, 20)}
	ws := utils.WeekStart(testNow)
	cache.SetRemaining(1, ws, utils.DayStart(testNow), &RemainingMeals{
		Date:  day.Date,
		Meals: DayMeals{Dinner: cachedDinner},
	}, testNow)

	logs.logs = []models.FoodLog{
		loggedEntry(day.Meals.Breakfast[0].ID, models.SlotBreakfast, true),
		loggedEntry(999, models.SlotLunch, false),
	}

	rm, err := svc.RemainingMeals(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, cachedDinner, rm.Meals.Dinner)
	assert.Len(t, rm.Meals.Snack, 1, "snack is always freshly fetched")
}

func TestRemainingMealsOffPlanLunchComputesDinnerOnCacheMiss(t *testing.T) {
	catalog := weekCatalog(15)
	logs := &fakeLogs{logs: []models.FoodLog{
		loggedEntry(1, models.SlotBreakfast, true),
		loggedEntry(999, models.SlotLunch, false),
	}}
	svc, _ := newTestService(catalog, logs)

	rm, err := svc.RemainingMeals(context.Background(), 1)
	require.NoError(t, err)
	assert.NotEmpty(t, rm.Meals.Dinner)
	assert.Empty(t, rm.Meals.Lunch)
}

func TestRemainingMealsAfterDinner(t *testing.T) {
	catalog := weekCatalog(15)
	logs := &fakeLogs{}
	svc, _ := newTestService(catalog, logs)

	day, err := svc.TodayPlan(context.Background(), 1)
	require.NoError(t, err)

	logs.logs = []models.FoodLog{
		loggedEntry(day.Meals.Breakfast[0].ID, models.SlotBreakfast, true),
		loggedEntry(day.Meals.Lunch[0].ID, models.SlotLunch, true),
		loggedEntry(day.Meals.Dinner[0].ID, models.SlotDinner, true),
	}

	rm, err := svc.RemainingMeals(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, rm.Meals.Breakfast)
	assert.Empty(t, rm.Meals.Lunch)
	assert.Empty(t, rm.Meals.Dinner)
	assert.Equal(t, day.Meals.Snack, rm.Meals.Snack)
}

func TestRemainingMealsAfterSnackDayComplete(t *testing.T) {
	catalog := weekCatalog(15)
	logs := &fakeLogs{logs: []models.FoodLog{
		loggedEntry(1, models.SlotBreakfast, true),
		loggedEntry(7, models.SlotLunch, true),
		loggedEntry(13, models.SlotDinner, true),
		loggedEntry(19, models.SlotSnack, true),
	}}
	svc, _ := newTestService(catalog, logs)

	rm, err := svc.RemainingMeals(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, DayMeals{}, rm.Meals)
}
