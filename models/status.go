package models

// ReservationStatus is the closed set of reservation lifecycle states.
// A reservation starts Pending and only ever moves along the edges
// encoded in CanTransitionTo; Cancelled and CheckedOut are terminal.
type ReservationStatus string

const (
	StatusPending    ReservationStatus = "Pending"
	StatusConfirmed  ReservationStatus = "Confirmed"
	StatusCheckedIn  ReservationStatus = "CheckedIn"
	StatusCheckedOut ReservationStatus = "CheckedOut"
	StatusCancelled  ReservationStatus = "Cancelled"
)

// Valid reports whether s is one of the five known states.
func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCheckedIn, StatusCheckedOut, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is defined from s.
func (s ReservationStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusCheckedOut
}

// Blocking reports whether a reservation in this state occupies its room's
// interval. Cancelled and CheckedOut reservations hold no interval.
func (s ReservationStatus) Blocking() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCheckedIn:
		return true
	}
	return false
}

// CanTransitionTo encodes the full edge set of the lifecycle state machine:
//
//	Pending   -> Confirmed | Cancelled
//	Confirmed -> CheckedIn | Cancelled
//	CheckedIn -> CheckedOut
//
// Every other pair is illegal.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCheckedIn || next == StatusCancelled
	case StatusCheckedIn:
		return next == StatusCheckedOut
	}
	return false
}

// BlockingStatuses returns the states whose reservations occupy the
// availability index. Useful for IN (...) query filters.
func BlockingStatuses() []ReservationStatus {
	return []ReservationStatus{StatusPending, StatusConfirmed, StatusCheckedIn}
}

// RoomStatus is the cached per-room projection of the availability index.
// It never contradicts the interval data; see AvailabilityService.
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomBooked      RoomStatus = "booked"
	RoomOccupied    RoomStatus = "occupied"
	RoomUnavailable RoomStatus = "unavailable"
)

// Valid reports whether s is a known room status.
func (s RoomStatus) Valid() bool {
	switch s {
	case RoomAvailable, RoomBooked, RoomOccupied, RoomUnavailable:
		return true
	}
	return false
}
