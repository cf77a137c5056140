package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/quangtienngo661/noumeal-be/config"
	"github.com/quangtienngo661/noumeal-be/models"
)

var ErrFoodNotFound = errors.New("food not found")

// FoodService owns the food catalog. Every mutation flushes the whole plan
// cache so no user is served a plan referencing a stale or deleted food.
type FoodService struct {
	cache *PlanCache
}

func NewFoodService(cache *PlanCache) *FoodService {
	return &FoodService{cache: cache}
}

// ActiveBySlot satisfies the planner's FoodCatalog interface. Slot and
// active filtering happen here; allergen and exclusion filtering stay in
// the planner.
func (s *FoodService) ActiveBySlot(ctx context.Context, slot string) ([]models.FoodItem, error) {
	var foods []models.FoodItem
	err := config.DB.WithContext(ctx).
		Where("meal_slot = ? AND is_active = ?", slot, true).
		Find(&foods).Error
	return foods, err
}

func (s *FoodService) List(ctx context.Context) ([]models.FoodItem, error) {
	var foods []models.FoodItem
	err := config.DB.WithContext(ctx).Order("name").Find(&foods).Error
	return foods, err
}

func (s *FoodService) Get(ctx context.Context, id uint) (*models.FoodItem, error) {
	var food models.FoodItem
	err := config.DB.WithContext(ctx).First(&food, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFoodNotFound
	}
	if err != nil {
		return nil, err
	}
	return &food, nil
}

func (s *FoodService) Create(ctx context.Context, food *models.FoodItem) error {
	if err := config.DB.WithContext(ctx).Create(food).Error; err != nil {
		return err
	}
	s.cache.FlushAll()
	return nil
}

func (s *FoodService) Update(ctx context.Context, food *models.FoodItem) error {
	if err := config.DB.WithContext(ctx).Save(food).Error; err != nil {
		return err
	}
	s.cache.FlushAll()
	return nil
}

func (s *FoodService) Delete(ctx context.Context, id uint) error {
	res := config.DB.WithContext(ctx).Delete(&models.FoodItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrFoodNotFound
	}
	s.cache.FlushAll()
	return nil
}
