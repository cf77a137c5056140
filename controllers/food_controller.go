package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/quangtienngo661/noumeal-be/models"
	"github.com/quangtienngo661/noumeal-be/services"

	"github.com/gin-gonic/gin"
)

type FoodController struct {
	foods *services.FoodService
}

func NewFoodController(foods *services.FoodService) *FoodController {
	return &FoodController{foods: foods}
}

type foodInput struct {
	Name      string   `json:"name" binding:"required"`
	MealSlot  string   `json:"meal_slot" binding:"required,oneof=breakfast lunch dinner snack"`
	Calories  float64  `json:"calories" binding:"min=0"`
	ProteinG  float64  `json:"protein_g" binding:"min=0"`
	CarbsG    float64  `json:"carbs_g" binding:"min=0"`
	FatG      float64  `json:"fat_g" binding:"min=0"`
	Allergens []string `json:"allergens"`
	IsActive  *bool    `json:"is_active"`
}

func (ct *FoodController) ListFoods(c *gin.Context) {
	foods, err := ct.foods.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, foods)
}

func (ct *FoodController) GetFood(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid food id"})
		return
	}

	food, err := ct.foods.Get(c.Request.Context(), uint(id))
	if errors.Is(err, services.ErrFoodNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "food not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, food)
}

func (ct *FoodController) CreateFood(c *gin.Context) {
	var body foodInput
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	food := models.FoodItem{
		Name:      body.Name,
		MealSlot:  body.MealSlot,
		Calories:  body.Calories,
		ProteinG:  body.ProteinG,
		CarbsG:    body.CarbsG,
		FatG:      body.FatG,
		Allergens: body.Allergens,
		IsActive:  true,
	}
	if body.IsActive != nil {
		food.IsActive = *body.IsActive
	}

	if err := ct.foods.Create(c.Request.Context(), &food); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, food)
}

func (ct *FoodController) UpdateFood(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid food id"})
		return
	}

	food, err := ct.foods.Get(c.Request.Context(), uint(id))
	if errors.Is(err, services.ErrFoodNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "food not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var body foodInput
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	food.Name = body.Name
	food.MealSlot = body.MealSlot
	food.Calories = body.Calories
	food.ProteinG = body.ProteinG
	food.CarbsG = body.CarbsG
	food.FatG = body.FatG
	food.Allergens = body.Allergens
	if body.IsActive != nil {
		food.IsActive = *body.IsActive
	}

	if err := ct.foods.Update(c.Request.Context(), food); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, food)
}

func (ct *FoodController) DeleteFood(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid food id"})
		return
	}

	err = ct.foods.Delete(c.Request.Context(), uint(id))
	if errors.Is(err, services.ErrFoodNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "food not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
