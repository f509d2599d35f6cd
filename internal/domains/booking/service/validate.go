package service

import (
	"math"
	"strings"
	"unicode"

	"github.com/margav-energy/Pama-Lodge/internal/domains/booking/model"
	"github.com/margav-energy/Pama-Lodge/shared/constant"
	"github.com/margav-energy/Pama-Lodge/shared/failure"
)

const (
	amountToleranceGHS = 0.01
	minimumGuestAge    = 18
	earliestCheckIn    = "14:00"
	latestCheckOut     = "12:00"
	momoNumberLength   = 10
	telephoneLength    = 10
)

// validateBooking checks the whole post-merge booking state. Every rule maps
// to a single field so the caller can render field-scoped messages.
func validateBooking(b model.Booking) error {
	fields := map[string]string{}

	validatePayment(b, fields)

	if b.MomoNumber != nil && *b.MomoNumber != "" {
		if digits := digitsOf(*b.MomoNumber); len(digits) != momoNumberLength {
			fields[model.FieldMomoNumber] = "Momo number must be exactly 10 digits."
		}
	}

	if b.IDOrTelephone != "" && allDigits(b.IDOrTelephone) && len(b.IDOrTelephone) != telephoneLength {
		fields[model.FieldIDOrTelephone] = "Telephone number must be exactly 10 digits."
	}

	if b.Age != nil && *b.Age < minimumGuestAge {
		fields[model.FieldAge] = "Guest must be at least 18 years old."
	}

	if b.CheckInTime != "" && b.CheckInTime < earliestCheckIn {
		fields[model.FieldCheckInTime] = "Check-in time cannot be earlier than 14:00 (2:00 PM)."
	}

	if b.CheckOutTime != nil && *b.CheckOutTime != "" && *b.CheckOutTime > latestCheckOut {
		fields[model.FieldCheckOutTime] = "Check-out time cannot be later than 12:00 PM."
	}

	if b.CheckOutDate != nil && b.CheckOutDate.Before(b.CheckInDate) {
		fields[model.FieldCheckOutDate] = "Check-out date cannot be before check-in date."
	}

	return failure.Validation(fields)
}

// validatePayment enforces the split-amount rules per payment method.
func validatePayment(b model.Booking, fields map[string]string) {
	if math.Abs(b.CashAmount+b.MomoAmount-b.AmountGHS) > amountToleranceGHS {
		fields[model.FieldAmountGHS] = "Cash amount and momo amount must add up to the total amount."
	}

	switch b.PaymentMethod {
	case model.PaymentMethodCash:
		if b.MomoAmount != 0 {
			fields[model.FieldMomoAmount] = "Momo amount must be zero for cash payments."
		}

		if b.CashAmount != b.AmountGHS {
			fields[model.FieldCashAmount] = "Cash amount must equal the total amount for cash payments."
		}
	case model.PaymentMethodMomo:
		if b.CashAmount != 0 {
			fields[model.FieldCashAmount] = "Cash amount must be zero for momo payments."
		}

		if b.MomoAmount != b.AmountGHS {
			fields[model.FieldMomoAmount] = "Momo amount must equal the total amount for momo payments."
		}

		requireMomoDetails(b, fields)
	case model.PaymentMethodBoth:
		if b.CashAmount <= 0 && b.MomoAmount <= 0 {
			fields[model.FieldAmountGHS] = "At least one of cash amount or momo amount must be greater than zero."
		}

		requireMomoDetails(b, fields)
	}
}

func requireMomoDetails(b model.Booking, fields map[string]string) {
	if b.MomoNetwork == nil || *b.MomoNetwork == constant.Empty {
		fields[model.FieldMomoNetwork] = "Momo network is required for momo payments."
	}

	if b.MomoNumber == nil || *b.MomoNumber == constant.Empty {
		fields[model.FieldMomoNumber] = "Momo number is required for momo payments."
	}
}

func digitsOf(value string) string {
	var sb strings.Builder

	for _, r := range value {
		if unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}

	return sb.String()
}

func allDigits(value string) bool {
	for _, r := range value {
		if !unicode.IsDigit(r) {
			return false
		}
	}

	return len(value) > 0
}
