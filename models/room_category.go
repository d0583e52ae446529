package models

import (
	"time"

	"gorm.io/gorm"
)

// RoomCategory groups rooms that share a nightly rate and a guest capacity.
// The nightly rate is the pricing input for every reservation on a room of
// this category.
type RoomCategory struct {
	ID uint `gorm:"primaryKey" json:"id"`

	TypeName    string  `json:"typeName" gorm:"column:type_name;size:100"`
	Description string  `json:"description" gorm:"type:text"`
	NightlyRate float64 `json:"nightlyRate" gorm:"column:nightly_rate"`
	MaxGuests   int     `json:"maxGuests" gorm:"column:max_guests"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
