package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/quangtienngo661/noumeal-be/services"

	"github.com/gin-gonic/gin"
)

// planTimeout bounds one full week generation (7 sequential days, up to 3
// catalog queries each) so an unresponsive store cannot stall the request.
const planTimeout = 15 * time.Second

type RecommendationController struct {
	rec *services.RecommendationService
}

func NewRecommendationController(rec *services.RecommendationService) *RecommendationController {
	return &RecommendationController{rec: rec}
}

func (ct *RecommendationController) GetWeeklyPlan(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), planTimeout)
	defer cancel()

	userID := c.MustGet("userID").(uint)
	plan, err := ct.rec.WeeklyPlan(ctx, userID)
	if err != nil {
		abortPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (ct *RecommendationController) GetTodayPlan(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), planTimeout)
	defer cancel()

	userID := c.MustGet("userID").(uint)
	day, err := ct.rec.TodayPlan(ctx, userID)
	if err != nil {
		abortPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

func (ct *RecommendationController) GetRemainingMeals(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), planTimeout)
	defer cancel()

	userID := c.MustGet("userID").(uint)
	remaining, err := ct.rec.RemainingMeals(ctx, userID)
	if err != nil {
		abortPlanError(c, err)
		return
	}
	c.JSON(http.StatusOK, remaining)
}

func (ct *RecommendationController) ResetToday(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	ct.rec.ResetToday(userID)
	c.JSON(http.StatusOK, gin.H{"message": "today's plan reset"})
}

func abortPlanError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
