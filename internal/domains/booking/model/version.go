package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"

	"github.com/margav-energy/Pama-Lodge/shared/constant"
)

const (
	VersionTableName  = "booking_versions"
	VersionEntityName = "booking_version"

	VersionFieldID            = "id"
	VersionFieldBookingID     = "booking_id"
	VersionFieldVersionData   = "version_data"
	VersionFieldEditedBy      = "edited_by"
	VersionFieldEditedAt      = "edited_at"
	VersionFieldIsManagerEdit = "is_manager_edit"
)

// BookingVersion is one append-only ledger row. Rows are written inside the
// same transaction as the booking mutation that triggered them and are never
// updated or deleted.
type BookingVersion struct {
	ID            string         `db:"id"`
	BookingID     string         `db:"booking_id"`
	VersionData   types.JSONText `db:"version_data"`
	EditedBy      string         `db:"edited_by"`
	EditedAt      time.Time      `db:"edited_at"`
	IsManagerEdit bool           `db:"is_manager_edit"`
}

// Snapshot captures every display-relevant booking field. Amounts are
// rendered as fixed 2-decimal strings so ledger rows stay stable across
// float noise.
func Snapshot(b Booking) map[string]any {
	var checkOutDate, checkOutTime any

	if b.CheckOutDate != nil {
		checkOutDate = b.CheckOutDate.Format(constant.DateFormat)
	}

	if b.CheckOutTime != nil {
		checkOutTime = *b.CheckOutTime
	}

	return map[string]any{
		"id":               b.ID,
		"name":             b.Name,
		"id_or_telephone":  b.IDOrTelephone,
		"address_location": b.AddressLocation,
		"age":              b.Age,
		"room_no":          b.RoomNo,
		"check_in_date":    b.CheckInDate.Format(constant.DateFormat),
		"check_in_time":    b.CheckInTime,
		"check_out_date":   checkOutDate,
		"check_out_time":   checkOutTime,
		"payment_method":   b.PaymentMethod,
		"amount_ghs":       fmt.Sprintf("%.2f", b.AmountGHS),
		"cash_amount":      fmt.Sprintf("%.2f", b.CashAmount),
		"momo_amount":      fmt.Sprintf("%.2f", b.MomoAmount),
		"momo_network":     b.MomoNetwork,
		"momo_number":      b.MomoNumber,
		"status":           b.Status,
		"is_authorized":    b.IsAuthorized,
		"authorized_by":    b.AuthorizedBy,
		"booked_by_name":   b.BookedBy,
		"last_edited_by":   b.LastEditedBy,
		"created_at":       b.CreatedAt.Format(time.RFC3339),
		"modified_at":      b.ModifiedAt.Format(time.RFC3339),
		"version_number":   b.VersionNumber,
	}
}

// NewVersion builds a ledger row from the booking state at this instant.
func NewVersion(b Booking, editor string, isManagerEdit bool, editedAt time.Time) (BookingVersion, error) {
	data, err := json.Marshal(Snapshot(b))
	if err != nil {
		return BookingVersion{}, fmt.Errorf("failed to marshal version snapshot: %w", err)
	}

	return BookingVersion{
		ID:            uuid.NewString(),
		BookingID:     b.ID,
		VersionData:   types.JSONText(data),
		EditedBy:      editor,
		EditedAt:      editedAt,
		IsManagerEdit: isManagerEdit,
	}, nil
}
