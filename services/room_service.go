package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/kayceelyoDev/RoomManagement-sub001/models"
)

const (
	roomsCacheKey = "rooms:index"
	roomsCacheTTL = 30 * time.Second
)

// RoomService is the read/admin side of the room inventory. Listings go
// through a short-TTL Redis cache when a client is configured; a nil cache
// degrades to straight DB reads. The cache only ever serves projections;
// the availability check itself always hits the database.
type RoomService struct {
	DB           *gorm.DB
	Cache        *redis.Client
	Availability *AvailabilityService
}

func NewRoomService(db *gorm.DB, cache *redis.Client, avail *AvailabilityService) *RoomService {
	return &RoomService{DB: db, Cache: cache, Availability: avail}
}

func (s *RoomService) Create(ctx context.Context, room *models.Room) error {
	if room.RoomNumber == "" {
		return validationErr("room number is required")
	}
	var cat models.RoomCategory
	if err := s.DB.WithContext(ctx).First(&cat, room.RoomCategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return validationErr("room category %d does not exist", room.RoomCategoryID)
		}
		return err
	}
	if room.Status == "" {
		room.Status = models.RoomAvailable
	}
	if !room.Status.Valid() {
		return validationErr("unknown room status %q", room.Status)
	}
	if err := s.DB.WithContext(ctx).Create(room).Error; err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *RoomService) GetAll(ctx context.Context) ([]models.Room, error) {
	if s.Cache != nil {
		if raw, err := s.Cache.Get(ctx, roomsCacheKey).Bytes(); err == nil {
			var rooms []models.Room
			if uerr := json.Unmarshal(raw, &rooms); uerr == nil {
				return rooms, nil
			}
		}
	}

	var rooms []models.Room
	if err := s.DB.WithContext(ctx).Preload("Category").Find(&rooms).Error; err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if raw, err := json.Marshal(rooms); err == nil {
			if cerr := s.Cache.Set(ctx, roomsCacheKey, raw, roomsCacheTTL).Err(); cerr != nil {
				log.Printf("rooms: cache set failed: %v", cerr)
			}
		}
	}
	return rooms, nil
}

func (s *RoomService) GetByID(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	if err := s.DB.WithContext(ctx).Preload("Category").First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &room, nil
}

// Update applies a partial update. Identity and bookkeeping fields are
// stripped so clients cannot rewrite them; status changes go through
// SetStatus.
func (s *RoomService) Update(ctx context.Context, id uint, updates map[string]interface{}) (*models.Room, error) {
	for _, k := range []string{"id", "created_at", "updated_at", "deleted_at", "status"} {
		delete(updates, k)
	}
	result := s.DB.WithContext(ctx).Model(&models.Room{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := s.GetByID(ctx, id); err != nil {
			return nil, err
		}
	}
	s.invalidateCache(ctx)
	return s.GetByID(ctx, id)
}

// SetStatus is the manual override for staff: marking a room unavailable
// (maintenance) or returning it to the pool. Returning it to the pool
// immediately re-derives the projection from the interval data rather than
// trusting the requested value.
func (s *RoomService) SetStatus(ctx context.Context, id uint, status models.RoomStatus, now time.Time) (*models.Room, error) {
	if !status.Valid() {
		return nil, validationErr("unknown room status %q", status)
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Room{}).Where("id = ?", id).Update("status", status)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var room models.Room
			if err := tx.First(&room, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
		}
		if status != models.RoomUnavailable {
			return s.Availability.RefreshRoomStatusTx(tx, id, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)
	return s.GetByID(ctx, id)
}

func (s *RoomService) Delete(ctx context.Context, id uint) error {
	// Rooms holding live reservations cannot be removed.
	var held int64
	err := s.DB.WithContext(ctx).Model(&models.Reservation{}).
		Where("room_id = ? AND status IN ?", id, models.BlockingStatuses()).
		Count(&held).Error
	if err != nil {
		return err
	}
	if held > 0 {
		return ErrConflict
	}
	result := s.DB.WithContext(ctx).Delete(&models.Room{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	s.invalidateCache(ctx)
	return nil
}

// ListAvailable returns rooms with no blocking reservation overlapping
// [start, end), excluding rooms marked unavailable. Read-only projection:
// booking still revalidates under the room lock.
func (s *RoomService) ListAvailable(ctx context.Context, start, end time.Time) ([]models.Room, error) {
	if !end.After(start) {
		return nil, validationErr("end must be after start")
	}
	var rooms []models.Room
	err := s.DB.WithContext(ctx).Preload("Category").
		Where("status <> ?", models.RoomUnavailable).
		Where(`NOT EXISTS (
			SELECT 1 FROM reservations r
			WHERE r.room_id = rooms.id
			  AND r.deleted_at IS NULL
			  AND r.status IN ?
			  AND r.check_in < ? AND ? < r.check_out
		)`, models.BlockingStatuses(), end, start).
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func (s *RoomService) invalidateCache(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, roomsCacheKey).Err(); err != nil {
		log.Printf("rooms: cache invalidate failed: %v", err)
	}
}
