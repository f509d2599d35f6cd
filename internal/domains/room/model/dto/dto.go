package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/margav-energy/Pama-Lodge/internal/domains/room/model"
	"github.com/margav-energy/Pama-Lodge/shared"
	"github.com/margav-energy/Pama-Lodge/shared/constant"
	gDto "github.com/margav-energy/Pama-Lodge/shared/dto"
	gModel "github.com/margav-energy/Pama-Lodge/shared/model"
	"github.com/margav-energy/Pama-Lodge/shared/timezone"
)

type CreateRoomRequest struct {
	RoomNumber    string  `json:"room_number"     validate:"required,max=10"`
	RoomType      string  `json:"room_type"       validate:"required,oneof=standard_fan standard_ac twin_bed"`
	Description   string  `json:"description"     validate:"omitempty,max=500"`
	PricePerNight float64 `json:"price_per_night" validate:"required,gte=0"`
	IsAvailable   *bool   `json:"is_available"    validate:"omitempty"`
}

func (c *CreateRoomRequest) ToModel(user string) model.Room {
	isAvailable := true
	if c.IsAvailable != nil {
		isAvailable = *c.IsAvailable
	}

	return model.Room{
		ID:            uuid.NewString(),
		RoomNumber:    c.RoomNumber,
		RoomType:      c.RoomType,
		Description:   c.Description,
		PricePerNight: c.PricePerNight,
		IsAvailable:   isAvailable,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRoomRequest struct {
	RoomType      *string  `db:"room_type"       json:"room_type"       validate:"omitempty,oneof=standard_fan standard_ac twin_bed"`
	Description   *string  `db:"description"     json:"description"     validate:"omitempty,max=500"`
	PricePerNight *float64 `db:"price_per_night" json:"price_per_night" validate:"omitempty,gte=0"`
	IsAvailable   *bool    `db:"is_available"    json:"is_available"    validate:"omitempty"`
}

type RoomResponse struct {
	ID            string  `json:"id"`
	RoomNumber    string  `json:"room_number"`
	RoomType      string  `json:"room_type"`
	Description   string  `json:"description"`
	PricePerNight float64 `json:"price_per_night"`
	IsAvailable   bool    `json:"is_available"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.RoomNumber = model.RoomNumber
	r.RoomType = model.RoomType
	r.Description = model.Description
	r.PricePerNight = model.PricePerNight
	r.IsAvailable = model.IsAvailable
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}

type AvailableRoomsResponse struct {
	CheckInDate  string         `json:"check_in_date"`
	CheckOutDate *string        `json:"check_out_date,omitempty"`
	Rooms        []RoomResponse `json:"rooms"`
	TotalData    int            `json:"total_data"`
}

func (r *AvailableRoomsResponse) FromModels(models []model.Room, checkIn time.Time, checkOut *time.Time) {
	r.CheckInDate = checkIn.Format(constant.DateFormat)
	if checkOut != nil {
		formatted := checkOut.Format(constant.DateFormat)
		r.CheckOutDate = &formatted
	}

	r.TotalData = len(models)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}

type CurrentBookingInfo struct {
	GuestName string  `json:"guest_name"`
	CheckIn   string  `json:"check_in"`
	CheckOut  *string `json:"check_out,omitempty"`
}

type RoomStatusResponse struct {
	RoomID         string              `json:"room_id"`
	RoomNumber     string              `json:"room_number"`
	RoomType       string              `json:"room_type"`
	IsAvailable    bool                `json:"is_available"`
	IsBooked       bool                `json:"is_booked"`
	CurrentBooking *CurrentBookingInfo `json:"current_booking,omitempty"`
	PricePerNight  float64             `json:"price_per_night"`
}

type GetRoomStatusResponse struct {
	Date  string               `json:"date"`
	Rooms []RoomStatusResponse `json:"rooms"`
}
