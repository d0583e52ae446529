package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/kayceelyoDev/RoomManagement-sub001/models"
	"github.com/kayceelyoDev/RoomManagement-sub001/utils"
)

// ReservationService is the lifecycle orchestrator: the only writer of
// reservation state. Every public operation is a single DB transaction and
// every transition is a compare-and-swap on the expected prior status, so
// concurrent actors (guests booking, staff at the desk, the sweeper) race
// safely without a global lock.
type ReservationService struct {
	DB           *gorm.DB
	Availability *AvailabilityService
	Notifier     Notifier
	Clock        Clock

	// EnforceCapacity decides whether guests beyond the room category's
	// MaxGuests reject the booking or are merely recorded as extra persons.
	EnforceCapacity bool
}

func NewReservationService(db *gorm.DB, avail *AvailabilityService, notifier Notifier, clock Clock, enforceCapacity bool) *ReservationService {
	if clock == nil {
		clock = RealClock{}
	}
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &ReservationService{
		DB:              db,
		Availability:    avail,
		Notifier:        notifier,
		Clock:           clock,
		EnforceCapacity: enforceCapacity,
	}
}

// LineItemSelection picks a catalog service and a quantity at booking time.
type LineItemSelection struct {
	ServiceID uint `json:"service_id"`
	Quantity  int  `json:"quantity"`
}

type CreateReservationInput struct {
	RoomID        uint
	GuestName     string
	ContactNumber string
	GuestEmail    string
	TotalGuests   int
	CheckIn       time.Time
	CheckOut      time.Time
	Services      []LineItemSelection
}

// Create books a room: availability check, interval reservation, pricing
// and persistence of the Pending reservation happen as one atomic unit
// under the room's lock. Two concurrent calls for overlapping intervals on
// the same room resolve so exactly one succeeds; the other gets
// ErrOverlapConflict.
func (s *ReservationService) Create(ctx context.Context, in CreateReservationInput) (*models.Reservation, error) {
	if in.RoomID == 0 {
		return nil, validationErr("room id is required")
	}
	if strings.TrimSpace(in.GuestName) == "" {
		return nil, validationErr("guest name is required")
	}
	if in.TotalGuests <= 0 {
		return nil, validationErr("total guest count must be positive")
	}
	if !in.CheckOut.After(in.CheckIn) {
		return nil, validationErr("check-out must be after check-in")
	}

	var room models.Room
	if err := s.DB.WithContext(ctx).Preload("Category").First(&room, in.RoomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if room.Status == models.RoomUnavailable {
		return nil, ErrOverlapConflict
	}

	extra := 0
	if max := room.Category.MaxGuests; max > 0 && in.TotalGuests > max {
		if s.EnforceCapacity {
			return nil, validationErr("room capacity is %d guests, got %d", max, in.TotalGuests)
		}
		extra = in.TotalGuests - max
	}

	items, err := s.buildLineItems(ctx, in.Services)
	if err != nil {
		return nil, err
	}
	quote := ComputeQuote(room.Category.NightlyRate, in.CheckIn, in.CheckOut, items)

	res := models.Reservation{
		ReferenceCode: utils.NewReferenceCode(),
		RoomID:        in.RoomID,
		GuestName:     strings.TrimSpace(in.GuestName),
		ContactNumber: strings.TrimSpace(in.ContactNumber),
		GuestEmail:    strings.TrimSpace(in.GuestEmail),
		TotalGuests:   in.TotalGuests,
		ExtraPersons:  extra,
		CheckIn:       in.CheckIn,
		CheckOut:      in.CheckOut,
		Status:        models.StatusPending,
		Amount:        quote.GrandTotal,
	}

	// Room lock makes the free-check and the insert one atomic unit with
	// respect to other bookings on this room.
	s.Availability.LockRoom(in.RoomID)
	defer s.Availability.UnlockRoom(in.RoomID)

	now := s.Clock.Now().UTC()
	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		free, err := s.Availability.IsFreeTx(tx, in.RoomID, in.CheckIn, in.CheckOut, 0)
		if err != nil {
			return err
		}
		if !free {
			return ErrOverlapConflict
		}
		if err := tx.Create(&res).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ReservationID = res.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return s.Availability.RefreshRoomStatusTx(tx, in.RoomID, now)
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.GetByID(ctx, res.ID)
}

func (s *ReservationService) buildLineItems(ctx context.Context, selections []LineItemSelection) ([]models.ServiceLineItem, error) {
	items := make([]models.ServiceLineItem, 0, len(selections))
	for _, sel := range selections {
		if sel.Quantity < 1 {
			return nil, validationErr("service quantity must be at least 1")
		}
		var entry models.ServiceCatalogEntry
		if err := s.DB.WithContext(ctx).First(&entry, sel.ServiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		// Freeze the catalog price into the line item.
		items = append(items, models.ServiceLineItem{
			ServiceID: entry.ID,
			Quantity:  sel.Quantity,
			UnitPrice: entry.UnitPrice,
			Total:     float64(sel.Quantity) * entry.UnitPrice,
		})
	}
	return items, nil
}

// casStatusTx writes the new status conditioned on the expected prior one.
// RowsAffected == 0 means another actor won the race or the reservation is
// in a different state; the fresh row is re-read to name the actual state
// in the TransitionError.
func (s *ReservationService) casStatusTx(tx *gorm.DB, id uint, from, to models.ReservationStatus, updates map[string]interface{}) error {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = to
	result := tx.Model(&models.Reservation{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var cur models.Reservation
		if err := tx.First(&cur, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		return &TransitionError{From: cur.Status, To: to}
	}
	return nil
}

// Confirm moves Pending -> Confirmed. The interval stays held; nothing on
// the index changes.
func (s *ReservationService) Confirm(ctx context.Context, id uint) (*models.Reservation, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.casStatusTx(tx, id, models.StatusPending, models.StatusConfirmed, nil)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// AddLineItem attaches another service to a still-Pending reservation and
// recomputes the stored amount. Line items are frozen once confirmed.
func (s *ReservationService) AddLineItem(ctx context.Context, id uint, serviceID uint, quantity int) (*models.Reservation, error) {
	if quantity < 1 {
		return nil, validationErr("service quantity must be at least 1")
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var res models.Reservation
		if err := tx.Preload("Room.Category").First(&res, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if res.Status != models.StatusPending {
			return &TransitionError{From: res.Status, To: res.Status}
		}

		var entry models.ServiceCatalogEntry
		if err := tx.First(&entry, serviceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		item := models.ServiceLineItem{
			ReservationID: res.ID,
			ServiceID:     entry.ID,
			Quantity:      quantity,
			UnitPrice:     entry.UnitPrice,
			Total:         float64(quantity) * entry.UnitPrice,
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}

		var items []models.ServiceLineItem
		if err := tx.Where("reservation_id = ?", res.ID).Find(&items).Error; err != nil {
			return err
		}
		quote := ComputeQuote(res.Room.Category.NightlyRate, res.CheckIn, res.CheckOut, items)

		// Status-guarded amount write: a racing Confirm between the read
		// above and here must not let the total change after confirmation.
		result := tx.Model(&models.Reservation{}).
			Where("id = ? AND status = ?", res.ID, models.StatusPending).
			Update("amount", quote.GrandTotal)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return &TransitionError{From: models.StatusConfirmed, To: models.StatusConfirmed}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// CheckIn moves Confirmed -> CheckedIn and records the payment taken at the
// desk. Early check-in is allowed: the current time is not compared against
// the reservation's check-in date.
func (s *ReservationService) CheckIn(ctx context.Context, id uint, paymentAmount float64, paymentMethod string) (*models.Reservation, error) {
	if paymentAmount <= 0 {
		return nil, validationErr("payment amount must be positive")
	}
	paymentMethod = strings.TrimSpace(paymentMethod)
	if paymentMethod == "" {
		return nil, validationErr("payment method is required")
	}

	now := s.Clock.Now().UTC()
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var res models.Reservation
		if err := tx.First(&res, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := s.casStatusTx(tx, id, models.StatusConfirmed, models.StatusCheckedIn, map[string]interface{}{
			"payment_amount": paymentAmount,
			"payment_method": paymentMethod,
			"checked_in_at":  now,
		}); err != nil {
			return err
		}
		return s.Availability.RefreshRoomStatusTx(tx, res.RoomID, now)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// CheckOut moves CheckedIn -> CheckedOut, releasing the interval and
// returning the room to the pool. Remarks are mandatory.
func (s *ReservationService) CheckOut(ctx context.Context, id uint, remarks string) (*models.Reservation, error) {
	remarks = strings.TrimSpace(remarks)
	if remarks == "" {
		return nil, validationErr("check-out remarks are required")
	}

	now := s.Clock.Now().UTC()
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var res models.Reservation
		if err := tx.First(&res, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := s.casStatusTx(tx, id, models.StatusCheckedIn, models.StatusCheckedOut, map[string]interface{}{
			"remarks":        remarks,
			"checked_out_at": now,
		}); err != nil {
			return err
		}
		return s.Availability.RefreshRoomStatusTx(tx, res.RoomID, now)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Cancel moves Pending/Confirmed -> Cancelled, archives the line items,
// releases the interval and emits exactly one cancellation event per actual
// transition. It is idempotent: cancelling an already-cancelled reservation
// reports changed=false with no error, so retries and sweeper/staff races
// are safe. The event is dispatched after the transaction commits and never
// rolls it back.
func (s *ReservationService) Cancel(ctx context.Context, id uint, reason string) (*models.Reservation, bool, error) {
	var (
		changed bool
		event   CancellationEvent
	)
	now := s.Clock.Now().UTC()

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur models.Reservation
		if err := tx.Preload("Items").First(&cur, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if cur.Status == models.StatusCancelled {
			changed = false
			return nil
		}
		if !cur.Status.CanTransitionTo(models.StatusCancelled) {
			return &TransitionError{From: cur.Status, To: models.StatusCancelled}
		}

		// Archive the line items before soft-deleting the live rows.
		snapshot, err := json.Marshal(cur.Items)
		if err != nil {
			return err
		}
		if err := s.casStatusTx(tx, id, cur.Status, models.StatusCancelled, map[string]interface{}{
			"cancel_reason":  reason,
			"cancelled_at":   now,
			"archived_items": datatypes.JSON(snapshot),
		}); err != nil {
			return err
		}
		if err := tx.Where("reservation_id = ?", id).Delete(&models.ServiceLineItem{}).Error; err != nil {
			return err
		}
		if err := s.Availability.RefreshRoomStatusTx(tx, cur.RoomID, now); err != nil {
			return err
		}

		changed = true
		event = CancellationEvent{
			ReservationID: cur.ID,
			ReferenceCode: cur.ReferenceCode,
			GuestName:     cur.GuestName,
			GuestEmail:    cur.GuestEmail,
			Reason:        reason,
			Kind:          "cancelled",
			Undeliverable: strings.TrimSpace(cur.GuestEmail) == "",
			CancelledAt:   now.Format(time.RFC3339),
		}
		return nil
	})
	if err != nil {
		// A lost race to another cancel is already-satisfied, not a failure.
		if errors.Is(err, ErrInvalidTransition) {
			if cur, gerr := s.GetByID(ctx, id); gerr == nil && cur.Status == models.StatusCancelled {
				return cur, false, nil
			}
		}
		return nil, false, err
	}

	if changed {
		// Fire-and-forget: the transition is durable regardless of delivery.
		ev := event
		go func() {
			nctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if nerr := s.Notifier.NotifyCancelled(nctx, ev); nerr != nil {
				log.Printf("reservation %d: cancellation notify failed: %v", ev.ReservationID, nerr)
			}
		}()
	}

	res, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, changed, err
	}
	return res, changed, nil
}

// GetByID loads a reservation with its room, category and line items.
func (s *ReservationService) GetByID(ctx context.Context, id uint) (*models.Reservation, error) {
	var res models.Reservation
	err := s.DB.WithContext(ctx).
		Preload("Room.Category").
		Preload("Items.Service").
		First(&res, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}

// GetByReference resolves a reservation by its public reference code.
func (s *ReservationService) GetByReference(ctx context.Context, ref string) (*models.Reservation, error) {
	var res models.Reservation
	err := s.DB.WithContext(ctx).
		Preload("Room.Category").
		Preload("Items.Service").
		Where("reference_code = ?", ref).
		First(&res).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}

// ListFilter narrows List results. Nil fields are ignored.
type ListFilter struct {
	Status *models.ReservationStatus
	From   *time.Time // reservations with check_out after From
	To     *time.Time // reservations with check_in before To
}

// List returns reservations newest-first, optionally filtered by status and
// stay window. A simple projection for the check-in/check-out front ends.
func (s *ReservationService) List(ctx context.Context, f ListFilter) ([]models.Reservation, error) {
	q := s.DB.WithContext(ctx).Preload("Room").Order("created_at DESC")
	if f.Status != nil {
		if !f.Status.Valid() {
			return nil, validationErr("unknown status %q", *f.Status)
		}
		q = q.Where("status = ?", *f.Status)
	}
	if f.From != nil {
		q = q.Where("check_out > ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("check_in < ?", *f.To)
	}
	var list []models.Reservation
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
