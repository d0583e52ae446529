package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kayceelyoDev/RoomManagement-sub001/models"
)

type reservationFixture struct {
	svc      *ReservationService
	notifier *recordingNotifier
	clock    *fakeClock
	room     *models.Room
	cat      *models.RoomCategory
}

func newReservationFixture(t *testing.T) (*reservationFixture, func() *models.Room) {
	t.Helper()
	db := newTestDB(t)
	cat := seedCategory(t, db, "Standard", 1500, 2)
	room := seedRoom(t, db, cat.ID, "101")

	notifier := &recordingNotifier{}
	clock := newFakeClock(mustTime(t, "2024-01-01T08:00:00Z"))
	svc := NewReservationService(db, NewAvailabilityService(), notifier, clock, false)

	seq := 200
	nextRoom := func() *models.Room {
		seq++
		return seedRoom(t, db, cat.ID, fmt.Sprintf("%d", seq))
	}

	return &reservationFixture{svc: svc, notifier: notifier, clock: clock, room: room, cat: cat}, nextRoom
}

func stayInput(roomID uint, checkIn, checkOut time.Time) CreateReservationInput {
	return CreateReservationInput{
		RoomID:      roomID,
		GuestName:   "Ana Cruz",
		GuestEmail:  "ana@example.com",
		TotalGuests: 2,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
	}
}

func TestCreateReservation(t *testing.T) {
	fx, _ := newReservationFixture(t)
	ctx := context.Background()

	breakfast := seedCatalogEntry(t, fx.svc.DB, "Breakfast", 350)

	in := stayInput(fx.room.ID,
		mustTime(t, "2024-01-10T14:00:00Z"),
		mustTime(t, "2024-01-12T11:00:00Z"))
	in.Services = []LineItemSelection{{ServiceID: breakfast.ID, Quantity: 2}}

	res, err := fx.svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.Status != models.StatusPending {
		t.Errorf("status = %s, want Pending", res.Status)
	}
	if !strings.HasPrefix(res.ReferenceCode, "RES-") {
		t.Errorf("reference code %q missing prefix", res.ReferenceCode)
	}
	// 2 nights * 1500 + 2 * 350
	if res.Amount != 3700 {
		t.Errorf("amount = %v, want 3700", res.Amount)
	}
	if len(res.Items) != 1 || res.Items[0].UnitPrice != 350 || res.Items[0].Total != 700 {
		t.Errorf("unexpected line items: %+v", res.Items)
	}
	if got := roomStatus(t, fx.svc.DB, fx.room.ID); got != models.RoomBooked {
		t.Errorf("room status = %s, want booked", got)
	}
}

func TestCreateReservationValidation(t *testing.T) {
	fx, _ := newReservationFixture(t)
	ctx := context.Background()
	ci := mustTime(t, "2024-01-10T14:00:00Z")
	co := mustTime(t, "2024-01-12T11:00:00Z")

	cases := []struct {
		name   string
		mutate func(*CreateReservationInput)
	}{
		{"missing room", func(in *CreateReservationInput) { in.RoomID = 0 }},
		{"blank guest name", func(in *CreateReservationInput) { in.GuestName = "   " }},
		{"zero guests", func(in *CreateReservationInput) { in.TotalGuests = 0 }},
		{"checkout before checkin", func(in *CreateReservationInput) { in.CheckIn, in.CheckOut = co, ci }},
		{"checkout equals checkin", func(in *CreateReservationInput) { in.CheckOut = in.CheckIn }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := stayInput(fx.room.ID, ci, co)
			tc.mutate(&in)
			if _, err := fx.svc.Create(ctx, in); !errors.Is(err, ErrValidation) {
				t.Errorf("got %v, want ErrValidation", err)
			}
		})
	}

	t.Run("unknown room", func(t *testing.T) {
		in := stayInput(9999, ci, co)
		if _, err := fx.svc.Create(ctx, in); !errors.Is(err, ErrNotFound) {
			t.Errorf("got %v, want ErrNotFound", err)
		}
	})
}

func TestCreateReservationOverlapConflict(t *testing.T) {
	fx, _ := newReservationFixture(t)
	ctx := context.Background()

	first := stayInput(fx.room.ID,
		mustTime(t, "2024-01-10T14:00:00Z"),
		mustTime(t, "2024-01-14T11:00:00Z"))
	if _, err := fx.svc.Create(ctx, first); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	overlapping := stayInput(fx.room.ID,
		mustTime(t, "2024-01-12T14:00:00Z"),
		mustTime(t, "2024-01-16T11:00:00Z"))
	if _, err := fx.svc.Create(ctx, overlapping); !errors.Is(err, ErrOverlapConflict) {
		t.Fatalf("got %v, want ErrOverlapConflict", err)
	}

	backToBack := stayInput(fx.room.ID,
		mustTime(t, "2024-01-14T11:00:00Z"),
		mustTime(t, "2024-01-16T11:00:00Z"))
	if _, err := fx.svc.Create(ctx, backToBack); err != nil {
		t.Fatalf("back-to-back Create should succeed, got %v", err)
	}
}

func TestCreateReservationOnUnavailableRoom(t *testing.T) {
	fx, _ := newReservationFixture(t)
	ctx := context.Background()

	fx.svc.DB.Model(fx.room).Update("status", models.RoomUnavailable)

	in := stayInput(fx.room.ID,
		mustTime(t, "2024-01-10T14:00:00Z"),
		mustTime(t, "2024-01-12T11:00:00Z"))
	if _, err := fx.svc.Create(ctx, in); !errors.Is(err, ErrOverlapConflict) {
		t.Fatalf("got %v, want ErrOverlapConflict for a maintenance room", err)
	}
}

func TestCapacityPolicy(t *testing.T) {
	ci := "2024-01-10T14:00:00Z"
	co := "2024-01-12T11:00:00Z"

	t.Run("advisory records extra persons", func(t *testing.T) {
		fx, _ := newReservationFixture(t)
		in := stayInput(fx.room.ID, mustTime(t, ci), mustTime(t, co))
		in.TotalGuests = 4 // category max is 2

		res, err := fx.svc.Create(context.Background(), in)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if res.ExtraPersons != 2 {
			t.Errorf("ExtraPersons = %d, want 2", res.ExtraPersons)
		}
	})

	t.Run("enforced rejects overflow", func(t *testing.T) {
		fx, _ := newReservationFixture(t)
		fx.svc.EnforceCapacity = true
		in := stayInput(fx.room.ID, mustTime(t, ci), mustTime(t, co))
		in.TotalGuests = 4

		if _, err := fx.svc.Create(context.Background(), in); !errors.Is(err, ErrValidation) {
			t.Errorf("got %v, want ErrValidation", err)
		}
	})
}

func TestLifecycleHappyPath(t *testing.T) {
	fx, _ := newReservationFixture(t)
	ctx := context.Background()

	res, err := fx.svc.Create(ctx, stayInput(fx.room.ID,
		mustTime(t, "2024-01-10T14:00:00Z"),
		mustTime(t, "2024-01-12T11:00:00Z")))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	res, err = fx.svc.Confirm(ctx, res.ID)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if res.Status != models.StatusConfirmed {
		t.Fatalf("status = %s, want Confirmed", res.Status)
	}

	fx.clock.Advance(9 * 24 * time.Hour)
	res, err = fx.svc.CheckIn(ctx, res.ID, 3000, "cash")
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if res.Status != models.StatusCheckedIn {
		t.Fatalf("status = %s, want CheckedIn", res.Status)
	}
	if res.PaymentAmount == nil || *res.PaymentAmount != 3000 || res.PaymentMethod != "cash" {
		t.Errorf("payment not recorded: %+v", res)
	}
	if res.CheckedInAt == nil {
		t.Error("CheckedInAt not stamped")
	}
	if got := roomStatus(t, fx.svc.DB, fx.room.ID); got != models.RoomOccupied {
		t.Errorf("room status = %s, want occupied", got)
	}

	fx.clock.Advance(2 * 24 * time.Hour)
	res, err = fx.svc.CheckOut(ctx, res.ID, "minibar settled")
	if err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	if res.Status != models.StatusCheckedOut {
		t.Fatalf("status = %s, want CheckedOut", res.Status)
	}
	if res.Remarks != "minibar settled" || res.CheckedOutAt == nil {
		t.Errorf("checkout details not recorded: %+v", res)
	}
	if got := roomStatus(t, fx.svc.DB, fx.room.ID); got != models.RoomAvailable {
		t.Errorf("room status = %s, want available after checkout", got)
	}

	// The interval is released: the same dates book again.
	if _, err := fx.svc.Create(ctx, stayInput(fx.room.ID,
		mustTime(t, "2024-01-10T14:00:00Z"),
		mustTime(t, "2024-01-12T11:00:00Z"))); err != nil {
		t.Fatalf("rebooking released interval: %v", err)
	}
}

func TestIllegalTransitions(t *testing.T) {
	fx, _ := newReservationFixture(t)
	ctx := context.Background()

	res, err := fx.svc.Create(ctx, stayInput(fx.room.ID,
		mustTime(t, "2024-01-10T14:00:00Z"),
		mustTime(t, "2024-01-12T11:00:00Z")))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Pending cannot check in.
	if _, err := fx.svc.CheckIn(ctx, res.ID, 3000, "cash"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("CheckIn on Pending: got %v, want ErrInvalidTransition", err)
	}
	// Pending cannot check out.
	if _, err := fx.svc.CheckOut(ctx, res.ID, "done"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("CheckOut on Pending: got %v, want ErrInvalidTransition", err)
	}

	if _, err := fx.svc.Confirm(ctx, res.ID); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	// Confirming twice is an error, not a silent no-op.
	if _, err := fx.svc.Confirm(ctx, res.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("double Confirm: got %v, want ErrInvalidTransition", err)
	}

	if _, err := fx.svc.CheckIn(ctx, res.ID, 3000, "cash"); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	// CheckedIn cannot cancel.
	if _, _, err := fx.svc.Cancel(ctx, res.ID, "changed mind"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Cancel on CheckedIn: got %v, want ErrInvalidTransition", err)
	}

	if _, err := fx.svc.CheckOut(ctx, res.ID, "done"); err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	// CheckedOut is terminal.
	if _, err := fx.svc.Confirm(ctx, res.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Confirm on CheckedOut: got %v, want ErrInvalidTransition", err)
	}
	if _, _, err := fx.svc.Cancel(ctx, res.ID, "late"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Cancel on CheckedOut: got %v, want ErrInvalidTransition", err)
	}

	var te *TransitionError
	_, err = fx.svc.Confirm(ctx, res.ID)
	if !errors.As(err, &te) {
		t.Fatalf("want *TransitionError, got %T", err)
	}
	if te.From != models.StatusCheckedOut || te.To != models.StatusConfirmed {
		t.Errorf("TransitionError = %+v", te)
	}
}

func TestCheckInValidation(t *testing.T) {
	fx, _ := newReservationFixture(t)
	ctx := context.Background()

	res, _ := fx.svc.Create(ctx, stayInput(fx.room.ID,
		mustTime(t, "2024-01-10T14:00:00Z"),
		mustTime(t, "2024-01-12T11:00:00Z")))
	if _, err := fx.svc.Confirm(ctx, res.ID); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	if _, err := fx.svc.CheckIn(ctx, res.ID, 0, "cash"); !errors.Is(err, ErrValidation) {
		t.Errorf("zero payment: got %v, want ErrValidation", err)
	}
	if _, err := fx.svc.CheckIn(ctx, res.ID, -10, "cash"); !errors.Is(err, ErrValidation) {
		t.Errorf("negative payment: got %v, want ErrValidation", err)
	}
	if _, err := fx.svc.CheckIn(ctx, res.ID, 3000, "  "); !errors.Is(err, ErrValidation) {
		t.Errorf("blank method: got %v, want ErrValidation", err)
	}
	if _, err := fx.svc.CheckOut(ctx, res.ID, ""); !errors.Is(err, ErrValidation) {
		t.Errorf("blank remarks: got %v, want ErrValidation", err)
	}
}

func TestCancelIdempotent(t *testing.T) {
	fx, _ := newReservationFixture(t)
	ctx := context.Background()

	breakfast := seedCatalogEntry(t, fx.svc.DB, "Breakfast", 350)
	in := stayInput(fx.room.ID,
		mustTime(t, "2024-01-10T14:00:00Z"),
		mustTime(t, "2024-01-12T11:00:00Z"))
	in.Services = []LineItemSelection{{ServiceID: breakfast.ID, Quantity: 1}}

	res, err := fx.svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	res, changed, err := fx.svc.Cancel(ctx, res.ID, "guest request")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if !changed {
		t.Fatal("first cancel should report changed=true")
	}
	if res.Status != models.StatusCancelled || res.CancelReason != "guest request" || res.CancelledAt == nil {
		t.Errorf("cancellation not recorded: %+v", res)
	}
	if len(res.ArchivedItems) == 0 {
		t.Error("line items were not archived")
	}
	if len(res.Items) != 0 {
		t.Errorf("live line items remain after cancel: %+v", res.Items)
	}
	if got := roomStatus(t, fx.svc.DB, fx.room.ID); got != models.RoomAvailable {
		t.Errorf("room status = %s, want available", got)
	}

	// Second cancel: no error, no change, no second event.
	res2, changed, err := fx.svc.Cancel(ctx, res.ID, "again")
	if err != nil {
		t.Fatalf("second Cancel: %v", err)
	}
	if changed {
		t.Error("second cancel should report changed=false")
	}
	if res2.CancelReason != "guest request" {
		t.Errorf("second cancel overwrote reason: %q", res2.CancelReason)
	}

	events := fx.notifier.awaitEvents(t, 1)
	if len(events) != 1 {
		t.Fatalf("got %d events, want exactly 1", len(events))
	}
	ev := events[0]
	if ev.ReservationID != res.ID || ev.Reason != "guest request" || ev.Kind != "cancelled" {
		t.Errorf("unexpected event: %+v", ev)
	}
	if ev.Undeliverable {
		t.Error("event flagged undeliverable despite guest email present")
	}
}

func TestCancelWithoutEmailFlagsUndeliverable(t *testing.T) {
	fx, _ := newReservationFixture(t)
	ctx := context.Background()

	in := stayInput(fx.room.ID,
		mustTime(t, "2024-01-10T14:00:00Z"),
		mustTime(t, "2024-01-12T11:00:00Z"))
	in.GuestEmail = ""

	res, err := fx.svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, _, err := fx.svc.Cancel(ctx, res.ID, "no show"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	events := fx.notifier.awaitEvents(t, 1)
	if !events[0].Undeliverable {
		t.Error("event for guest without email should be flagged undeliverable")
	}
}

func TestCancelReleasesInterval(t *testing.T) {
	fx, _ := newReservationFixture(t)
	ctx := context.Background()

	in := stayInput(fx.room.ID,
		mustTime(t, "2024-01-10T14:00:00Z"),
		mustTime(t, "2024-01-14T11:00:00Z"))
	res, err := fx.svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, _, err := fx.svc.Cancel(ctx, res.ID, "plans changed"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	// The exact same interval books again immediately.
	if _, err := fx.svc.Create(ctx, in); err != nil {
		t.Fatalf("rebooking after cancel: %v", err)
	}
}

func TestAddLineItem(t *testing.T) {
	fx, _ := newReservationFixture(t)
	ctx := context.Background()

	breakfast := seedCatalogEntry(t, fx.svc.DB, "Breakfast", 350)
	extraBed := seedCatalogEntry(t, fx.svc.DB, "Extra Bed", 500)

	res, err := fx.svc.Create(ctx, stayInput(fx.room.ID,
		mustTime(t, "2024-01-10T14:00:00Z"),
		mustTime(t, "2024-01-12T11:00:00Z")))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.Amount != 3000 {
		t.Fatalf("amount = %v, want 3000", res.Amount)
	}

	res, err = fx.svc.AddLineItem(ctx, res.ID, breakfast.ID, 2)
	if err != nil {
		t.Fatalf("AddLineItem: %v", err)
	}
	if res.Amount != 3700 {
		t.Errorf("amount = %v, want 3700 after breakfast", res.Amount)
	}

	res, err = fx.svc.AddLineItem(ctx, res.ID, extraBed.ID, 1)
	if err != nil {
		t.Fatalf("AddLineItem: %v", err)
	}
	if res.Amount != 4200 {
		t.Errorf("amount = %v, want 4200 after extra bed", res.Amount)
	}

	// Line items freeze once the reservation is confirmed.
	if _, err := fx.svc.Confirm(ctx, res.ID); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if _, err := fx.svc.AddLineItem(ctx, res.ID, breakfast.ID, 1); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("AddLineItem on Confirmed: got %v, want ErrInvalidTransition", err)
	}

	if _, err := fx.svc.AddLineItem(ctx, res.ID, breakfast.ID, 0); !errors.Is(err, ErrValidation) {
		t.Errorf("zero quantity: got %v, want ErrValidation", err)
	}
}

func TestGetByReference(t *testing.T) {
	fx, _ := newReservationFixture(t)
	ctx := context.Background()

	res, err := fx.svc.Create(ctx, stayInput(fx.room.ID,
		mustTime(t, "2024-01-10T14:00:00Z"),
		mustTime(t, "2024-01-12T11:00:00Z")))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := fx.svc.GetByReference(ctx, res.ReferenceCode)
	if err != nil {
		t.Fatalf("GetByReference: %v", err)
	}
	if got.ID != res.ID {
		t.Errorf("got reservation %d, want %d", got.ID, res.ID)
	}

	if _, err := fx.svc.GetByReference(ctx, "RES-DOESNOTEXIST"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown reference: got %v, want ErrNotFound", err)
	}
}

func TestListFilters(t *testing.T) {
	fx, nextRoom := newReservationFixture(t)
	ctx := context.Background()

	a, err := fx.svc.Create(ctx, stayInput(fx.room.ID,
		mustTime(t, "2024-01-10T14:00:00Z"),
		mustTime(t, "2024-01-12T11:00:00Z")))
	if err != nil {
		t.Fatalf("Create a: %v", err)
	}
	roomB := nextRoom()
	b, err := fx.svc.Create(ctx, stayInput(roomB.ID,
		mustTime(t, "2024-02-01T14:00:00Z"),
		mustTime(t, "2024-02-03T11:00:00Z")))
	if err != nil {
		t.Fatalf("Create b: %v", err)
	}
	if _, err := fx.svc.Confirm(ctx, b.ID); err != nil {
		t.Fatalf("Confirm b: %v", err)
	}

	confirmed := models.StatusConfirmed
	list, err := fx.svc.List(ctx, ListFilter{Status: &confirmed})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].ID != b.ID {
		t.Errorf("status filter returned %+v", list)
	}

	from := mustTime(t, "2024-01-20T00:00:00Z")
	list, err = fx.svc.List(ctx, ListFilter{From: &from})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].ID != b.ID {
		t.Errorf("from filter returned %d rows", len(list))
	}

	to := mustTime(t, "2024-01-20T00:00:00Z")
	list, err = fx.svc.List(ctx, ListFilter{To: &to})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].ID != a.ID {
		t.Errorf("to filter returned %d rows", len(list))
	}

	bogus := models.ReservationStatus("Teleported")
	if _, err := fx.svc.List(ctx, ListFilter{Status: &bogus}); !errors.Is(err, ErrValidation) {
		t.Errorf("bogus status: got %v, want ErrValidation", err)
	}
}

// Two concurrent bookings for overlapping intervals on the same room must
// resolve to exactly one winner.
func TestConcurrentCreateSingleWinner(t *testing.T) {
	fx, _ := newReservationFixture(t)
	ctx := context.Background()

	in := stayInput(fx.room.ID,
		mustTime(t, "2024-01-10T14:00:00Z"),
		mustTime(t, "2024-01-14T11:00:00Z"))

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = fx.svc.Create(ctx, in)
		}(i)
	}
	wg.Wait()

	wins, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrOverlapConflict):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("wins = %d, want exactly 1 (%d conflicts)", wins, conflicts)
	}
}
