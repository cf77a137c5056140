package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/quangtienngo661/noumeal-be/config"
	"github.com/quangtienngo661/noumeal-be/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserService struct{}

func NewUserService() *UserService {
	return &UserService{}
}

// ProfileInput carries a partial profile update; zero values are skipped
// so a PUT need not resend the whole profile.
type ProfileInput struct {
	FullName           string   `json:"full_name"`
	WeightKg           float64  `json:"weight_kg"`
	HeightCm           float64  `json:"height_cm"`
	Age                int      `json:"age"`
	BiologicalSex      string   `json:"biological_sex"`
	ActivityLevel      string   `json:"activity_level"`
	Goal               string   `json:"goal"`
	AllergenExclusions []string `json:"allergen_exclusions"`
}

// ProfileByID satisfies the planner's ProfileStore interface.
func (s *UserService) ProfileByID(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := config.DB.WithContext(ctx).
		Where("id = ? AND disabled = ?", userID, false).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := config.DB.Where("email = ? AND disabled = ?", email, false).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input ProfileInput) (*models.User, error) {
	user, err := s.ProfileByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FullName != "" {
		user.FullName = input.FullName
	}
	if input.WeightKg > 0 {
		user.WeightKg = input.WeightKg
	}
	if input.HeightCm > 0 {
		user.HeightCm = input.HeightCm
	}
	if input.Age > 0 {
		user.Age = input.Age
	}
	if input.BiologicalSex != "" {
		user.BiologicalSex = input.BiologicalSex
	}
	if input.ActivityLevel != "" {
		user.ActivityLevel = input.ActivityLevel
	}
	if input.Goal != "" {
		user.Goal = input.Goal
	}
	if input.AllergenExclusions != nil {
		user.AllergenExclusions = input.AllergenExclusions
	}

	if err := config.DB.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}
