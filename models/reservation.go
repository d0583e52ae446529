package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Reservation is the central lifecycle entity. Rows whose Status is blocking
// (Pending, Confirmed, CheckedIn) ARE the availability index for their room;
// there is no second interval store to drift out of sync.
//
// Amount is always the pricing calculator's output for the current line
// items, never hand-entered. Status is only ever changed through the
// orchestrator's compare-and-swap transitions.
type Reservation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ReferenceCode string `gorm:"column:reference_code;size:64;uniqueIndex" json:"reference_code"`
	RoomID        uint   `gorm:"column:room_id;index" json:"room_id"`

	GuestName     string `json:"guest_name"`
	ContactNumber string `gorm:"size:50" json:"contact_number"`
	GuestEmail    string `gorm:"size:150" json:"guest_email,omitempty"`
	TotalGuests   int    `gorm:"column:total_guests" json:"total_guests"`
	ExtraPersons  int    `gorm:"column:extra_persons" json:"extra_persons"`

	// Half-open stay interval [CheckIn, CheckOut); CheckOut is strictly
	// after CheckIn.
	CheckIn  time.Time `gorm:"column:check_in;index" json:"check_in"`
	CheckOut time.Time `gorm:"column:check_out" json:"check_out"`

	Status ReservationStatus `gorm:"column:status;size:32;index" json:"status"`
	Amount float64           `json:"amount"`

	PaymentAmount *float64   `gorm:"column:payment_amount" json:"payment_amount,omitempty"`
	PaymentMethod string     `gorm:"column:payment_method;size:50" json:"payment_method,omitempty"`
	CheckedInAt   *time.Time `gorm:"column:checked_in_at" json:"checked_in_at,omitempty"`

	Remarks      string     `gorm:"type:text" json:"remarks,omitempty"`
	CheckedOutAt *time.Time `gorm:"column:checked_out_at" json:"checked_out_at,omitempty"`

	CancelReason string     `gorm:"column:cancel_reason;size:255" json:"cancel_reason,omitempty"`
	CancelledAt  *time.Time `gorm:"column:cancelled_at" json:"cancelled_at,omitempty"`

	// ArchivedItems holds a JSON snapshot of the line items taken at
	// cancellation, after which the live rows are soft-deleted.
	ArchivedItems datatypes.JSON `gorm:"column:archived_items" json:"archived_items,omitempty"`

	Room  Room              `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	Items []ServiceLineItem `gorm:"foreignKey:ReservationID" json:"items"`
}
