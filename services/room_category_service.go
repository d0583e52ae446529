package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kayceelyoDev/RoomManagement-sub001/models"
)

type RoomCategoryService struct {
	DB *gorm.DB
}

func NewRoomCategoryService(db *gorm.DB) *RoomCategoryService {
	return &RoomCategoryService{DB: db}
}

func (s *RoomCategoryService) Create(ctx context.Context, cat *models.RoomCategory) error {
	if cat.TypeName == "" {
		return validationErr("category type name is required")
	}
	if cat.NightlyRate < 0 {
		return validationErr("nightly rate cannot be negative")
	}
	return s.DB.WithContext(ctx).Create(cat).Error
}

func (s *RoomCategoryService) GetAll(ctx context.Context) ([]models.RoomCategory, error) {
	var cats []models.RoomCategory
	err := s.DB.WithContext(ctx).Find(&cats).Error
	return cats, err
}

func (s *RoomCategoryService) GetByID(ctx context.Context, id uint) (*models.RoomCategory, error) {
	var cat models.RoomCategory
	if err := s.DB.WithContext(ctx).First(&cat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cat, nil
}

func (s *RoomCategoryService) Delete(ctx context.Context, id uint) error {
	// Categories still referenced by rooms stay.
	var inUse int64
	if err := s.DB.WithContext(ctx).Model(&models.Room{}).
		Where("room_category_id = ?", id).Count(&inUse).Error; err != nil {
		return err
	}
	if inUse > 0 {
		return ErrConflict
	}
	result := s.DB.WithContext(ctx).Delete(&models.RoomCategory{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
