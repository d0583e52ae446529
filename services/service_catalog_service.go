package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kayceelyoDev/RoomManagement-sub001/models"
)

// ServiceCatalogService manages the ancillary-service price list. Editing a
// price here never touches existing line items: those carry their own
// frozen copy.
type ServiceCatalogService struct {
	DB *gorm.DB
}

func NewServiceCatalogService(db *gorm.DB) *ServiceCatalogService {
	return &ServiceCatalogService{DB: db}
}

func (s *ServiceCatalogService) Create(ctx context.Context, entry *models.ServiceCatalogEntry) error {
	if entry.Name == "" {
		return validationErr("service name is required")
	}
	if entry.UnitPrice < 0 {
		return validationErr("unit price cannot be negative")
	}
	return s.DB.WithContext(ctx).Create(entry).Error
}

func (s *ServiceCatalogService) GetAll(ctx context.Context) ([]models.ServiceCatalogEntry, error) {
	var entries []models.ServiceCatalogEntry
	err := s.DB.WithContext(ctx).Find(&entries).Error
	return entries, err
}

func (s *ServiceCatalogService) GetByID(ctx context.Context, id uint) (*models.ServiceCatalogEntry, error) {
	var entry models.ServiceCatalogEntry
	if err := s.DB.WithContext(ctx).First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (s *ServiceCatalogService) UpdatePrice(ctx context.Context, id uint, price float64) (*models.ServiceCatalogEntry, error) {
	if price < 0 {
		return nil, validationErr("unit price cannot be negative")
	}
	result := s.DB.WithContext(ctx).Model(&models.ServiceCatalogEntry{}).
		Where("id = ?", id).Update("unit_price", price)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(ctx, id)
}

func (s *ServiceCatalogService) Delete(ctx context.Context, id uint) error {
	result := s.DB.WithContext(ctx).Delete(&models.ServiceCatalogEntry{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
