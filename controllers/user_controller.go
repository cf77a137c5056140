package controllers

import (
	"errors"
	"net/http"

	"github.com/quangtienngo661/noumeal-be/models"
	"github.com/quangtienngo661/noumeal-be/services"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

func (ct *UserController) GetProfile(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	user, err := ct.users.ProfileByID(c.Request.Context(), userID)
	if errors.Is(err, services.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, profileResponse(user))
}

// profileResponse keeps the password hash out of profile payloads.
func profileResponse(user *models.User) gin.H {
	return gin.H{
		"id":                  user.ID,
		"email":               user.Email,
		"full_name":           user.FullName,
		"weight_kg":           user.WeightKg,
		"height_cm":           user.HeightCm,
		"age":                 user.Age,
		"biological_sex":      user.BiologicalSex,
		"activity_level":      user.ActivityLevel,
		"goal":                user.Goal,
		"allergen_exclusions": user.AllergenExclusions,
	}
}

func (ct *UserController) UpdateProfile(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	var input services.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ct.users.UpdateProfile(c.Request.Context(), userID, input)
	if errors.Is(err, services.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profileResponse(user))
}
