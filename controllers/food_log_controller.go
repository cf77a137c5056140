package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/quangtienngo661/noumeal-be/services"

	"github.com/gin-gonic/gin"
)

type FoodLogController struct {
	logs  *services.FoodLogService
	users *services.UserService
	rec   *services.RecommendationService
}

func NewFoodLogController(logs *services.FoodLogService, users *services.UserService, rec *services.RecommendationService) *FoodLogController {
	return &FoodLogController{logs: logs, users: users, rec: rec}
}

func (ct *FoodLogController) LogFood(c *gin.Context) {
	var body struct {
		FoodID   uint   `json:"food_id" binding:"required"`
		MealSlot string `json:"meal_slot" binding:"required,oneof=breakfast lunch dinner snack"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.MustGet("userID").(uint)
	ctx := c.Request.Context()

	// Today's plan decides whether the food counts as recommended
	plan, err := ct.rec.TodayPlan(ctx, userID)
	if err != nil {
		abortPlanError(c, err)
		return
	}

	entry, err := ct.logs.LogFood(ctx, userID, body.FoodID, body.MealSlot, plan)
	switch {
	case errors.Is(err, services.ErrFoodNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "food not found"})
		return
	case errors.Is(err, services.ErrOutOfOrder), errors.Is(err, services.ErrOffPlanLimit):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (ct *FoodLogController) ListTodayLogs(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	logs, err := ct.logs.LogsForDay(c.Request.Context(), userID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (ct *FoodLogController) GetDailyProgress(c *gin.Context) {
	userID := c.MustGet("userID").(uint)
	ctx := c.Request.Context()

	user, err := ct.users.ProfileByID(ctx, userID)
	if errors.Is(err, services.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	report, err := ct.logs.DailyProgress(ctx, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}
