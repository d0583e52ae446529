package models

import (
	"gorm.io/gorm"
)

type Room struct {
	gorm.Model

	RoomCategoryID uint   `json:"roomCategoryId" gorm:"column:room_category_id;index"`
	RoomNumber     string `json:"roomNumber" gorm:"column:room_number;uniqueIndex;type:varchar(50)"`
	Floor          string `json:"floor" gorm:"type:varchar(10)"`

	// Status is a cached projection of the reservation intervals held on
	// this room. It is recomputed inside every lifecycle transaction; the
	// one exception is "unavailable", which staff set manually (maintenance)
	// and the projection never overrides.
	Status      RoomStatus `json:"status" gorm:"column:status;size:32"`
	Description string     `json:"description" gorm:"type:text"`

	Category RoomCategory `gorm:"foreignKey:RoomCategoryID" json:"category,omitempty"`
}
