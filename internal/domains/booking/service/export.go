package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/margav-energy/Pama-Lodge/internal/domains/booking/model"
	"github.com/margav-energy/Pama-Lodge/shared/constant"
	gDto "github.com/margav-energy/Pama-Lodge/shared/dto"
	"github.com/margav-energy/Pama-Lodge/shared/timezone"
)

const exportSheetName = "Bookings"

var exportHeaders = []string{
	"Guest Name", "ID / Telephone", "Address", "Age", "Room No",
	"Check-in Date", "Check-in Time", "Check-out Date", "Check-out Time",
	"Payment Method", "Amount (GHS)", "Cash Amount", "Momo Amount",
	"Momo Network", "Momo Number", "Status", "Authorized By",
	"Booked By", "Created At",
}

// Export renders the filtered bookings as an xlsx workbook and returns the
// file bytes along with a dated filename.
func (s *serviceImpl) Export(ctx context.Context, filter gDto.FilterGroup) (data []byte, filename string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Export")
	defer scope.End()
	defer scope.TraceIfError(err)

	params := gDto.QueryParams{SortBy: model.FieldCheckInDate, SortDir: gDto.SortDirAsc}

	bookings, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings for export")

		return nil, "", fmt.Errorf("failed to get bookings for export: %w", err)
	}

	file := excelize.NewFile()
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close export workbook")
		}
	}()

	if err = file.SetSheetName(file.GetSheetName(0), exportSheetName); err != nil {
		return nil, "", fmt.Errorf("failed to prepare export sheet: %w", err)
	}

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)

		if err = file.SetCellValue(exportSheetName, cell, header); err != nil {
			return nil, "", fmt.Errorf("failed to write export header: %w", err)
		}
	}

	for row, booking := range bookings {
		for col, value := range exportRow(booking) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)

			if err = file.SetCellValue(exportSheetName, cell, value); err != nil {
				return nil, "", fmt.Errorf("failed to write export row: %w", err)
			}
		}
	}

	buffer, err := file.WriteToBuffer()
	if err != nil {
		log.Error().Err(err).Msg("failed to render export workbook")

		return nil, "", fmt.Errorf("failed to render export workbook: %w", err)
	}

	filename = fmt.Sprintf("bookings_%s.xlsx", timezone.Now().Format(constant.DateFormat))

	return buffer.Bytes(), filename, nil
}

func exportRow(b model.Booking) []any {
	var age, checkOutDate, checkOutTime, momoNetwork, momoNumber, authorizedBy any

	if b.Age != nil {
		age = *b.Age
	}

	if b.CheckOutDate != nil {
		checkOutDate = b.CheckOutDate.Format(constant.DateFormat)
	}

	if b.CheckOutTime != nil {
		checkOutTime = *b.CheckOutTime
	}

	if b.MomoNetwork != nil {
		momoNetwork = *b.MomoNetwork
	}

	if b.MomoNumber != nil {
		momoNumber = *b.MomoNumber
	}

	if b.AuthorizedBy != nil {
		authorizedBy = *b.AuthorizedBy
	}

	return []any{
		b.Name, b.IDOrTelephone, b.AddressLocation, age, b.RoomNo,
		b.CheckInDate.Format(constant.DateFormat), b.CheckInTime, checkOutDate, checkOutTime,
		b.PaymentMethod, b.AmountGHS, b.CashAmount, b.MomoAmount,
		momoNetwork, momoNumber, b.Status, authorizedBy,
		b.BookedBy, b.CreatedAt.Format(constant.DateFormat),
	}
}
