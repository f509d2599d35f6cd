package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/margav-energy/Pama-Lodge/internal/domains/booking/model"
	"github.com/margav-energy/Pama-Lodge/shared"
	"github.com/margav-energy/Pama-Lodge/shared/constant"
	gDto "github.com/margav-energy/Pama-Lodge/shared/dto"
	gModel "github.com/margav-energy/Pama-Lodge/shared/model"
	"github.com/margav-energy/Pama-Lodge/shared/timezone"
)

type CreateBookingRequest struct {
	Name            string  `json:"name"             validate:"required,max=100"`
	IDOrTelephone   string  `json:"id_or_telephone"  validate:"required,max=50"`
	AddressLocation string  `json:"address_location" validate:"omitempty,max=200"`
	Age             *int    `json:"age"              validate:"omitempty,gte=0"`
	RoomNo          string  `json:"room_no"          validate:"required,max=10"`
	CheckInDate     string  `json:"check_in_date"    validate:"required,datetime=2006-01-02"`
	CheckInTime     string  `json:"check_in_time"    validate:"required,datetime=15:04"`
	CheckOutDate    *string `json:"check_out_date"   validate:"omitempty,datetime=2006-01-02"`
	CheckOutTime    *string `json:"check_out_time"   validate:"omitempty,datetime=15:04"`
	PaymentMethod   string  `json:"payment_method"   validate:"required,oneof=cash momo both"`
	AmountGHS       float64 `json:"amount_ghs"       validate:"required,gte=0"`
	CashAmount      float64 `json:"cash_amount"      validate:"omitempty,gte=0"`
	MomoAmount      float64 `json:"momo_amount"      validate:"omitempty,gte=0"`
	MomoNetwork     *string `json:"momo_network"     validate:"omitempty,oneof=MTN Vodafone AT"`
	MomoNumber      *string `json:"momo_number"      validate:"omitempty,max=20"`
}

func (c *CreateBookingRequest) ToModel(user string, roomID *string) (model.Booking, error) {
	checkInDate, err := timezone.Parse(constant.DateFormat, c.CheckInDate)
	if err != nil {
		return model.Booking{}, fmt.Errorf("invalid check_in_date: %w", err)
	}

	var checkOutDate *time.Time

	if c.CheckOutDate != nil {
		parsed, err := timezone.Parse(constant.DateFormat, *c.CheckOutDate)
		if err != nil {
			return model.Booking{}, fmt.Errorf("invalid check_out_date: %w", err)
		}

		checkOutDate = &parsed
	}

	booking := model.Booking{
		ID:              uuid.NewString(),
		Name:            c.Name,
		IDOrTelephone:   c.IDOrTelephone,
		AddressLocation: c.AddressLocation,
		Age:             c.Age,
		RoomNo:          c.RoomNo,
		RoomID:          roomID,
		CheckInDate:     checkInDate,
		CheckInTime:     c.CheckInTime,
		CheckOutDate:    checkOutDate,
		CheckOutTime:    c.CheckOutTime,
		PaymentMethod:   c.PaymentMethod,
		AmountGHS:       c.AmountGHS,
		CashAmount:      c.CashAmount,
		MomoAmount:      c.MomoAmount,
		MomoNetwork:     c.MomoNetwork,
		MomoNumber:      c.MomoNumber,
		IsOriginal:      true,
		VersionNumber:   1,
		BookedBy:        user,
		LastEditedBy:    user,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
	booking.SetStatus(model.StatusPending)

	return booking, nil
}

type UpdateBookingRequest struct {
	Name            *string  `db:"name"             json:"name"             validate:"omitempty,max=100"`
	IDOrTelephone   *string  `db:"id_or_telephone"  json:"id_or_telephone"  validate:"omitempty,max=50"`
	AddressLocation *string  `db:"address_location" json:"address_location" validate:"omitempty,max=200"`
	Age             *int     `db:"age"              json:"age"              validate:"omitempty,gte=0"`
	RoomNo          *string  `db:"room_no"          json:"room_no"          validate:"omitempty,max=10"`
	CheckInDate     *string  `db:"check_in_date"    json:"check_in_date"    validate:"omitempty,datetime=2006-01-02"`
	CheckInTime     *string  `db:"check_in_time"    json:"check_in_time"    validate:"omitempty,datetime=15:04"`
	CheckOutDate    *string  `db:"check_out_date"   json:"check_out_date"   validate:"omitempty,datetime=2006-01-02"`
	CheckOutTime    *string  `db:"check_out_time"   json:"check_out_time"   validate:"omitempty,datetime=15:04"`
	PaymentMethod   *string  `db:"payment_method"   json:"payment_method"   validate:"omitempty,oneof=cash momo both"`
	AmountGHS       *float64 `db:"amount_ghs"       json:"amount_ghs"       validate:"omitempty,gte=0"`
	CashAmount      *float64 `db:"cash_amount"      json:"cash_amount"      validate:"omitempty,gte=0"`
	MomoAmount      *float64 `db:"momo_amount"      json:"momo_amount"      validate:"omitempty,gte=0"`
	MomoNetwork     *string  `db:"momo_network"     json:"momo_network"     validate:"omitempty,oneof=MTN Vodafone AT"`
	MomoNumber      *string  `db:"momo_number"      json:"momo_number"      validate:"omitempty,max=20"`
}

// ApplyTo merges the request onto a copy of the current booking so the
// post-edit state can be validated as a whole.
func (u *UpdateBookingRequest) ApplyTo(current model.Booking) (model.Booking, error) {
	merged := current

	if u.Name != nil {
		merged.Name = *u.Name
	}

	if u.IDOrTelephone != nil {
		merged.IDOrTelephone = *u.IDOrTelephone
	}

	if u.AddressLocation != nil {
		merged.AddressLocation = *u.AddressLocation
	}

	if u.Age != nil {
		merged.Age = u.Age
	}

	if u.RoomNo != nil {
		merged.RoomNo = *u.RoomNo
	}

	if u.CheckInDate != nil {
		parsed, err := timezone.Parse(constant.DateFormat, *u.CheckInDate)
		if err != nil {
			return merged, fmt.Errorf("invalid check_in_date: %w", err)
		}

		merged.CheckInDate = parsed
	}

	if u.CheckInTime != nil {
		merged.CheckInTime = *u.CheckInTime
	}

	if u.CheckOutDate != nil {
		parsed, err := timezone.Parse(constant.DateFormat, *u.CheckOutDate)
		if err != nil {
			return merged, fmt.Errorf("invalid check_out_date: %w", err)
		}

		merged.CheckOutDate = &parsed
	}

	if u.CheckOutTime != nil {
		merged.CheckOutTime = u.CheckOutTime
	}

	if u.PaymentMethod != nil {
		merged.PaymentMethod = *u.PaymentMethod
	}

	if u.AmountGHS != nil {
		merged.AmountGHS = *u.AmountGHS
	}

	if u.CashAmount != nil {
		merged.CashAmount = *u.CashAmount
	}

	if u.MomoAmount != nil {
		merged.MomoAmount = *u.MomoAmount
	}

	if u.MomoNetwork != nil {
		merged.MomoNetwork = u.MomoNetwork
	}

	if u.MomoNumber != nil {
		merged.MomoNumber = u.MomoNumber
	}

	return merged, nil
}

type AuthorizeBookingRequest struct {
	AuthorizedBy string `json:"authorized_by" validate:"omitempty,max=100"`
}

type RejectBookingRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type BookingResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	IDOrTelephone   string   `json:"id_or_telephone"`
	AddressLocation string   `json:"address_location"`
	Age             *int     `json:"age,omitempty"`
	RoomNo          string   `json:"room_no"`
	RoomID          *string  `json:"room_id,omitempty"`
	CheckInDate     string   `json:"check_in_date"`
	CheckInTime     string   `json:"check_in_time"`
	CheckOutDate    *string  `json:"check_out_date,omitempty"`
	CheckOutTime    *string  `json:"check_out_time,omitempty"`
	PaymentMethod   string   `json:"payment_method"`
	AmountGHS       float64  `json:"amount_ghs"`
	CashAmount      float64  `json:"cash_amount"`
	MomoAmount      float64  `json:"momo_amount"`
	MomoNetwork     *string  `json:"momo_network,omitempty"`
	MomoNumber      *string  `json:"momo_number,omitempty"`
	Status          string   `json:"status"`
	IsAuthorized    bool     `json:"is_authorized"`
	AuthorizedBy    *string  `json:"authorized_by,omitempty"`
	RejectedBy      *string  `json:"rejected_by,omitempty"`
	RejectionReason *string  `json:"rejection_reason,omitempty"`
	DeletedAt       *string  `json:"deleted_at,omitempty"`
	DeletedBy       *string  `json:"deleted_by,omitempty"`
	VersionNumber   int      `json:"version_number"`
	BookedBy        string   `json:"booked_by"`
	LastEditedBy    string   `json:"last_edited_by"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(mod model.Booking) {
	r.ID = mod.ID
	r.Name = mod.Name
	r.IDOrTelephone = mod.IDOrTelephone
	r.AddressLocation = mod.AddressLocation
	r.Age = mod.Age
	r.RoomNo = mod.RoomNo
	r.RoomID = mod.RoomID
	r.CheckInDate = mod.CheckInDate.Format(constant.DateFormat)
	r.CheckInTime = mod.CheckInTime
	r.CheckOutTime = mod.CheckOutTime
	r.PaymentMethod = mod.PaymentMethod
	r.AmountGHS = mod.AmountGHS
	r.CashAmount = mod.CashAmount
	r.MomoAmount = mod.MomoAmount
	r.MomoNetwork = mod.MomoNetwork
	r.MomoNumber = mod.MomoNumber
	r.Status = mod.Status
	r.IsAuthorized = mod.IsAuthorized
	r.AuthorizedBy = mod.AuthorizedBy
	r.RejectedBy = mod.RejectedBy
	r.RejectionReason = mod.RejectionReason
	r.DeletedBy = mod.DeletedBy
	r.VersionNumber = mod.VersionNumber
	r.BookedBy = mod.BookedBy
	r.LastEditedBy = mod.LastEditedBy

	if mod.CheckOutDate != nil {
		formatted := mod.CheckOutDate.Format(constant.DateFormat)
		r.CheckOutDate = &formatted
	}

	if mod.DeletedAt != nil {
		formatted := mod.DeletedAt.Format(time.RFC3339)
		r.DeletedAt = &formatted
	}

	r.Metadata.FromModel(mod.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

type VersionResponse struct {
	ID            string          `json:"id"`
	BookingID     string          `json:"booking_id"`
	VersionData   json.RawMessage `json:"version_data"`
	EditedBy      string          `json:"edited_by"`
	EditedAt      string          `json:"edited_at"`
	IsManagerEdit bool            `json:"is_manager_edit"`
}

func (r *VersionResponse) FromModel(mod model.BookingVersion) {
	r.ID = mod.ID
	r.BookingID = mod.BookingID
	r.VersionData = json.RawMessage(mod.VersionData)
	r.EditedBy = mod.EditedBy
	r.EditedAt = mod.EditedAt.Format(time.RFC3339)
	r.IsManagerEdit = mod.IsManagerEdit
}

type GetVersionsResponse struct {
	Versions  []VersionResponse `json:"versions"`
	TotalData int               `json:"total_data"`
}

func (r *GetVersionsResponse) FromModels(models []model.BookingVersion) {
	r.TotalData = len(models)

	r.Versions = make([]VersionResponse, len(models))
	for i, mod := range models {
		r.Versions[i].FromModel(mod)
	}
}

type DailyTotalsResponse struct {
	Date           string  `json:"date"`
	TotalBookings  int     `json:"total_bookings"`
	TotalAmountGHS float64 `json:"total_amount_ghs"`
}
