package model

import (
	"time"

	"github.com/margav-energy/Pama-Lodge/shared/model"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID            = "id"
	FieldRoomNumber    = "room_number"
	FieldRoomType      = "room_type"
	FieldDescription   = "description"
	FieldPricePerNight = "price_per_night"
	FieldIsAvailable   = "is_available"
)

const (
	RoomTypeStandardFan = "standard_fan"
	RoomTypeStandardAC  = "standard_ac"
	RoomTypeTwinBed     = "twin_bed"
)

// StayRecord is a booking interval row read from the bookings table for
// availability and status checks.
type StayRecord struct {
	GuestName    string     `db:"name"`
	CheckInDate  time.Time  `db:"check_in_date"`
	CheckOutDate *time.Time `db:"check_out_date"`
}

type Room struct {
	ID            string  `db:"id"`
	RoomNumber    string  `db:"room_number"`
	RoomType      string  `db:"room_type"`
	Description   string  `db:"description"`
	PricePerNight float64 `db:"price_per_night"`
	IsAvailable   bool    `db:"is_available"`
	model.Metadata
}
