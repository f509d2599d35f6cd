package model

import (
	"time"

	"github.com/margav-energy/Pama-Lodge/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID              = "id"
	FieldName            = "name"
	FieldIDOrTelephone   = "id_or_telephone"
	FieldAddressLocation = "address_location"
	FieldAge             = "age"
	FieldRoomNo          = "room_no"
	FieldRoomID          = "room_id"
	FieldCheckInDate     = "check_in_date"
	FieldCheckInTime     = "check_in_time"
	FieldCheckOutDate    = "check_out_date"
	FieldCheckOutTime    = "check_out_time"
	FieldPaymentMethod   = "payment_method"
	FieldAmountGHS       = "amount_ghs"
	FieldCashAmount      = "cash_amount"
	FieldMomoAmount      = "momo_amount"
	FieldMomoNetwork     = "momo_network"
	FieldMomoNumber      = "momo_number"
	FieldStatus          = "status"
	FieldIsAuthorized    = "is_authorized"
	FieldAuthorizedBy    = "authorized_by"
	FieldRejectedBy      = "rejected_by"
	FieldRejectionReason = "rejection_reason"
	FieldDeletedAt       = "deleted_at"
	FieldDeletedBy       = "deleted_by"
	FieldIsOriginal      = "is_original"
	FieldVersionNumber   = "version_number"
	FieldBookedBy        = "booked_by"
	FieldLastEditedBy    = "last_edited_by"
)

const (
	StatusPending    = "pending"
	StatusAuthorized = "authorized"
	StatusRejected   = "rejected"
)

const (
	PaymentMethodCash = "cash"
	PaymentMethodMomo = "momo"
	PaymentMethodBoth = "both"
)

const (
	MomoNetworkMTN      = "MTN"
	MomoNetworkVodafone = "Vodafone"
	MomoNetworkAT       = "AT"
)

type Booking struct {
	ID              string     `db:"id"`
	Name            string     `db:"name"`
	IDOrTelephone   string     `db:"id_or_telephone"`
	AddressLocation string     `db:"address_location"`
	Age             *int       `db:"age"`
	RoomNo          string     `db:"room_no"`
	RoomID          *string    `db:"room_id"`
	CheckInDate     time.Time  `db:"check_in_date"`
	CheckInTime     string     `db:"check_in_time"`
	CheckOutDate    *time.Time `db:"check_out_date"`
	CheckOutTime    *string    `db:"check_out_time"`
	PaymentMethod   string     `db:"payment_method"`
	AmountGHS       float64    `db:"amount_ghs"`
	CashAmount      float64    `db:"cash_amount"`
	MomoAmount      float64    `db:"momo_amount"`
	MomoNetwork     *string    `db:"momo_network"`
	MomoNumber      *string    `db:"momo_number"`
	Status          string     `db:"status"`
	IsAuthorized    bool       `db:"is_authorized"`
	AuthorizedBy    *string    `db:"authorized_by"`
	RejectedBy      *string    `db:"rejected_by"`
	RejectionReason *string    `db:"rejection_reason"`
	DeletedAt       *time.Time `db:"deleted_at"`
	DeletedBy       *string    `db:"deleted_by"`
	IsOriginal      bool       `db:"is_original"`
	VersionNumber   int        `db:"version_number"`
	BookedBy        string     `db:"booked_by"`
	LastEditedBy    string     `db:"last_edited_by"`
	model.Metadata
}

// SetStatus is the single place the status enum and the legacy boolean are
// written, so the two can never diverge.
func (b *Booking) SetStatus(status string) {
	b.Status = status
	b.IsAuthorized = status == StatusAuthorized
}

// StatusFields returns the column values SetStatus would write, for callers
// building partial updates.
func StatusFields(status string) map[string]any {
	return map[string]any{
		FieldStatus:       status,
		FieldIsAuthorized: status == StatusAuthorized,
	}
}

func (b *Booking) IsDeleted() bool {
	return b.DeletedAt != nil
}
