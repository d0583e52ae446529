package services

import (
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/kayceelyoDev/RoomManagement-sub001/models"
)

// AvailabilityService is the authoritative answer to "is room R free for
// [start, end)?". The reservations table itself is the interval store: rows
// with a blocking status (Pending, Confirmed, CheckedIn) occupy their room.
//
// Check-then-insert must be atomic per room. The service hands out one
// mutex per room id; the orchestrator holds it across the availability
// query and the reservation insert so two concurrent bookings for
// overlapping intervals resolve to exactly one winner.
type AvailabilityService struct {
	mu        sync.Mutex
	roomLocks map[uint]*sync.Mutex
}

func NewAvailabilityService() *AvailabilityService {
	return &AvailabilityService{roomLocks: make(map[uint]*sync.Mutex)}
}

func (a *AvailabilityService) lockFor(roomID uint) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()
	l, ok := a.roomLocks[roomID]
	if !ok {
		l = &sync.Mutex{}
		a.roomLocks[roomID] = l
	}
	return l
}

// LockRoom acquires the room-scoped exclusive lock. Callers must pair it
// with UnlockRoom, and must not take two room locks at once.
func (a *AvailabilityService) LockRoom(roomID uint)   { a.lockFor(roomID).Lock() }
func (a *AvailabilityService) UnlockRoom(roomID uint) { a.lockFor(roomID).Unlock() }

// IsFreeTx reports whether the room has no blocking reservation overlapping
// the half-open interval [start, end). Two intervals conflict iff
// existingStart < end AND start < existingEnd, so a checkout at exactly
// another booking's check-in is not a conflict (back-to-back is allowed).
// excludeID, when non-zero, ignores that reservation's own interval.
func (a *AvailabilityService) IsFreeTx(tx *gorm.DB, roomID uint, start, end time.Time, excludeID uint) (bool, error) {
	q := tx.Model(&models.Reservation{}).
		Where("room_id = ?", roomID).
		Where("status IN ?", models.BlockingStatuses()).
		Where("check_in < ? AND ? < check_out", end, start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

// RefreshRoomStatusTx recomputes the cached Room.Status projection from the
// interval data, inside the caller's transaction so the projection can
// never be observed out of step with the reservations:
//
//	occupied  : a CheckedIn reservation exists
//	booked    : a Pending/Confirmed reservation is still ahead of or
//	            covering now
//	available : otherwise
//
// A manual "unavailable" (maintenance) flag is sticky and never overridden.
func (a *AvailabilityService) RefreshRoomStatusTx(tx *gorm.DB, roomID uint, now time.Time) error {
	var room models.Room
	if err := tx.First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if room.Status == models.RoomUnavailable {
		return nil
	}

	var occupied int64
	if err := tx.Model(&models.Reservation{}).
		Where("room_id = ? AND status = ?", roomID, models.StatusCheckedIn).
		Count(&occupied).Error; err != nil {
		return err
	}

	status := models.RoomAvailable
	if occupied > 0 {
		status = models.RoomOccupied
	} else {
		var booked int64
		if err := tx.Model(&models.Reservation{}).
			Where("room_id = ? AND status IN ?", roomID,
				[]models.ReservationStatus{models.StatusPending, models.StatusConfirmed}).
			Where("check_out > ?", now).
			Count(&booked).Error; err != nil {
			return err
		}
		if booked > 0 {
			status = models.RoomBooked
		}
	}

	if room.Status == status {
		return nil
	}
	return tx.Model(&models.Room{}).Where("id = ?", roomID).
		Update("status", status).Error
}
