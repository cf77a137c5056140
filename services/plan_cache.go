package services

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/quangtienngo661/noumeal-be/utils"
)

// PlanCache memoizes generated plans per (user, week). Entries expire at the
// next local midnight so the remainder sub-cache refreshes daily even though
// the week key spans seven days. It is a best-effort process-local cache,
// not a source of truth: concurrent flushes racing with reads are tolerated.
type PlanCache struct {
	store *gocache.Cache
}

func NewPlanCache() *PlanCache {
	return &PlanCache{store: gocache.New(gocache.NoExpiration, 10*time.Minute)}
}

func weekKey(weekStart time.Time) string {
	weekEnd := weekStart.AddDate(0, 0, 6)
	return fmt.Sprintf("%s_to_%s", weekStart.Format("2006-01-02"), weekEnd.Format("2006-01-02"))
}

func weeklyKey(userID uint, weekStart time.Time) string {
	return fmt.Sprintf("weekly:%d:%s", userID, weekKey(weekStart))
}

func remainingKey(userID uint, weekStart, day time.Time) string {
	return fmt.Sprintf("remainingMeals:%d:%s:%s:remaining",
		userID, weekKey(weekStart), day.Format("2006-01-02"))
}

func (p *PlanCache) WeekPlan(userID uint, weekStart time.Time) (*WeekPlan, bool) {
	v, ok := p.store.Get(weeklyKey(userID, weekStart))
	if !ok {
		return nil, false
	}
	wp, ok := v.(*WeekPlan)
	return wp, ok
}

func (p *PlanCache) SetWeekPlan(userID uint, weekStart time.Time, wp *WeekPlan, now time.Time) {
	p.store.Set(weeklyKey(userID, weekStart), wp, utils.UntilMidnight(now))
}

func (p *PlanCache) Remaining(userID uint, weekStart, day time.Time) (*RemainingMeals, bool) {
	v, ok := p.store.Get(remainingKey(userID, weekStart, day))
	if !ok {
		return nil, false
	}
	rm, ok := v.(*RemainingMeals)
	return rm, ok
}

func (p *PlanCache) SetRemaining(userID uint, weekStart, day time.Time, rm *RemainingMeals, now time.Time) {
	p.store.Set(remainingKey(userID, weekStart, day), rm, utils.UntilMidnight(now))
}

// FlushAll drops every entry, for every user. Called on any food catalog
// mutation: blunt, but catalog writes are rare next to plan reads.
func (p *PlanCache) FlushAll() {
	p.store.Flush()
}

// ResetUserDay clears one user's entries for the current day and week so
// the next read regenerates from scratch.
func (p *PlanCache) ResetUserDay(userID uint, now time.Time) {
	ws := utils.WeekStart(now)
	p.store.Delete(weeklyKey(userID, ws))
	p.store.Delete(remainingKey(userID, ws, utils.DayStart(now)))
}
