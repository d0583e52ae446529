package models

import (
	"time"

	"gorm.io/gorm"
)

// ServiceCatalogEntry is an ancillary service guests can attach to a
// reservation (breakfast, airport pickup, ...). UnitPrice is the current
// reference price only: line items freeze their own copy at selection time,
// so editing the catalog never retroactively changes existing bookings.
type ServiceCatalogEntry struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name      string  `gorm:"size:150" json:"name"`
	UnitPrice float64 `gorm:"column:unit_price" json:"unit_price"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ServiceLineItem is a priced, quantified service attached to one
// reservation. It is owned by the reservation: created with it or added
// while still Pending, and soft-deleted (after being snapshotted into
// Reservation.ArchivedItems) when the reservation is cancelled.
type ServiceLineItem struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ReservationID uint `gorm:"column:reservation_id;index" json:"reservation_id"`
	ServiceID     uint `gorm:"column:service_id;index" json:"service_id"`

	Quantity  int     `json:"quantity"`
	UnitPrice float64 `gorm:"column:unit_price" json:"unit_price"` // frozen at selection time
	Total     float64 `json:"total"`                               // Quantity * UnitPrice

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Service ServiceCatalogEntry `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
}
