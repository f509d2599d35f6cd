package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/margav-energy/Pama-Lodge/config"
	"github.com/margav-energy/Pama-Lodge/infras/otel/mocks"
	bookingMocks "github.com/margav-energy/Pama-Lodge/internal/domains/booking/mocks"
	"github.com/margav-energy/Pama-Lodge/internal/domains/booking/model"
	"github.com/margav-energy/Pama-Lodge/internal/domains/booking/model/dto"
	"github.com/margav-energy/Pama-Lodge/internal/domains/booking/service"
	roomMocks "github.com/margav-energy/Pama-Lodge/internal/domains/room/mocks"
	roomModel "github.com/margav-energy/Pama-Lodge/internal/domains/room/model"
	cacheMocks "github.com/margav-energy/Pama-Lodge/shared/cache/mocks"
	"github.com/margav-energy/Pama-Lodge/shared/constant"
	gDto "github.com/margav-energy/Pama-Lodge/shared/dto"
	"github.com/margav-energy/Pama-Lodge/shared/failure"
	gModel "github.com/margav-energy/Pama-Lodge/shared/model"
	"github.com/margav-energy/Pama-Lodge/shared/timezone"
)

type fixture struct {
	repo     *bookingMocks.MockBooking
	roomRepo *roomMocks.MockRoom
	cache    *cacheMocks.MockRedisCache
	svc      service.Booking
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	repo := bookingMocks.NewMockBooking(ctrl)
	roomRepo := roomMocks.NewMockRoom(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	// Cache is best effort in every path under test.
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Booking.RestoreWindowDays = 30

	return fixture{
		repo:     repo,
		roomRepo: roomRepo,
		cache:    mockCache,
		svc:      service.New(repo, roomRepo, cfg, mockCache, mocks.NewOtel()),
	}
}

func managerCtx() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUsername, "ama")
	ctx = context.WithValue(ctx, constant.ContextKeyFullName, "Ama Mensah")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleManager)
}

func receptionistCtx() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUsername, "kofi")
	ctx = context.WithValue(ctx, constant.ContextKeyFullName, "Kofi Boateng")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleReceptionist)
}

func cashRequest() dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		Name:          "Yaw Owusu",
		IDOrTelephone: "0244123456",
		RoomNo:        "101",
		CheckInDate:   "2026-09-01",
		CheckInTime:   "14:30",
		PaymentMethod: model.PaymentMethodCash,
		AmountGHS:     250,
		CashAmount:    250,
	}
}

func storedBooking() model.Booking {
	now := timezone.Now().Add(-time.Hour)
	booking := model.Booking{
		ID:            "booking-1",
		Name:          "Yaw Owusu",
		IDOrTelephone: "0244123456",
		RoomNo:        "101",
		CheckInDate:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		CheckInTime:   "14:30",
		PaymentMethod: model.PaymentMethodCash,
		AmountGHS:     250,
		CashAmount:    250,
		IsOriginal:    true,
		VersionNumber: 1,
		BookedBy:      "kofi",
		LastEditedBy:  "kofi",
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  "kofi",
			ModifiedBy: "kofi",
		},
	}
	booking.SetStatus(model.StatusPending)

	return booking
}

func TestBookingService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := receptionistCtx()

	f.roomRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(roomModel.Room{ID: "room-1", RoomNumber: "101"}, nil)

	f.roomRepo.EXPECT().
		ActiveStays(gomock.Any(), "101", "").
		Return(nil, nil)

	var createdBooking model.Booking
	var createdVersion model.BookingVersion

	f.repo.EXPECT().
		CreateWithVersion(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, booking model.Booking, version model.BookingVersion) error {
			createdBooking = booking
			createdVersion = version

			return nil
		})

	res, err := f.svc.Create(ctx, cashRequest())
	require.NoError(t, err)

	assert.True(t, createdBooking.IsOriginal)
	assert.Equal(t, 1, createdBooking.VersionNumber)
	assert.Equal(t, model.StatusPending, createdBooking.Status)
	assert.False(t, createdBooking.IsAuthorized)
	assert.Equal(t, "kofi", createdBooking.BookedBy)
	require.NotNil(t, createdBooking.RoomID)
	assert.Equal(t, "room-1", *createdBooking.RoomID)

	var snapshot map[string]any
	require.NoError(t, json.Unmarshal(createdVersion.VersionData, &snapshot))
	assert.Equal(t, "250.00", snapshot["amount_ghs"])
	assert.Equal(t, "kofi", snapshot["booked_by_name"])
	assert.Equal(t, "2026-09-01", snapshot["check_in_date"])

	assert.Equal(t, model.StatusPending, res.Status)
}

func TestBookingService_Create_UnknownRoomStillBooks(t *testing.T) {
	f := newFixture(t)

	f.roomRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(roomModel.Room{}, nil)

	f.roomRepo.EXPECT().
		ActiveStays(gomock.Any(), "101", "").
		Return(nil, nil)

	var createdBooking model.Booking

	f.repo.EXPECT().
		CreateWithVersion(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, booking model.Booking, _ model.BookingVersion) error {
			createdBooking = booking

			return nil
		})

	_, err := f.svc.Create(receptionistCtx(), cashRequest())
	require.NoError(t, err)
	assert.Nil(t, createdBooking.RoomID)
}

func TestBookingService_Create_PaymentValidation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(req *dto.CreateBookingRequest)
		wantField string
	}{
		{
			name: "split payment covering the total is accepted",
			mutate: func(req *dto.CreateBookingRequest) {
				req.PaymentMethod = model.PaymentMethodBoth
				req.AmountGHS = 100
				req.CashAmount = 60
				req.MomoAmount = 40
				req.MomoNetwork = strPtr(model.MomoNetworkMTN)
				req.MomoNumber = strPtr("0551234567")
			},
		},
		{
			name: "momo method with cash amount is rejected",
			mutate: func(req *dto.CreateBookingRequest) {
				req.PaymentMethod = model.PaymentMethodMomo
				req.AmountGHS = 100
				req.CashAmount = 100
				req.MomoAmount = 0
				req.MomoNetwork = strPtr(model.MomoNetworkMTN)
				req.MomoNumber = strPtr("0551234567")
			},
			wantField: model.FieldCashAmount,
		},
		{
			name: "split amounts must add up to the total",
			mutate: func(req *dto.CreateBookingRequest) {
				req.PaymentMethod = model.PaymentMethodBoth
				req.AmountGHS = 100
				req.CashAmount = 60
				req.MomoAmount = 30
				req.MomoNetwork = strPtr(model.MomoNetworkMTN)
				req.MomoNumber = strPtr("0551234567")
			},
			wantField: model.FieldAmountGHS,
		},
		{
			name: "momo payment requires network and number",
			mutate: func(req *dto.CreateBookingRequest) {
				req.PaymentMethod = model.PaymentMethodMomo
				req.AmountGHS = 100
				req.CashAmount = 0
				req.MomoAmount = 100
			},
			wantField: model.FieldMomoNetwork,
		},
		{
			name: "momo number must have ten digits",
			mutate: func(req *dto.CreateBookingRequest) {
				req.PaymentMethod = model.PaymentMethodBoth
				req.AmountGHS = 100
				req.CashAmount = 50
				req.MomoAmount = 50
				req.MomoNetwork = strPtr(model.MomoNetworkVodafone)
				req.MomoNumber = strPtr("055-123-456")
			},
			wantField: model.FieldMomoNumber,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			req := cashRequest()
			tt.mutate(&req)

			if tt.wantField == "" {
				f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomModel.Room{ID: "room-1"}, nil)
				f.roomRepo.EXPECT().ActiveStays(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
				f.repo.EXPECT().CreateWithVersion(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			} else {
				f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomModel.Room{ID: "room-1"}, nil)
			}

			_, err := f.svc.Create(receptionistCtx(), req)

			if tt.wantField == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Contains(t, failure.GetFields(err), tt.wantField)
		})
	}
}

func TestBookingService_Create_GuestRules(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(req *dto.CreateBookingRequest)
		wantField string
	}{
		{
			name:   "adult guest is accepted",
			mutate: func(req *dto.CreateBookingRequest) { req.Age = intPtr(18) },
		},
		{
			name:      "underage guest is rejected",
			mutate:    func(req *dto.CreateBookingRequest) { req.Age = intPtr(17) },
			wantField: model.FieldAge,
		},
		{
			name:      "check-in before 14:00 is rejected",
			mutate:    func(req *dto.CreateBookingRequest) { req.CheckInTime = "13:00" },
			wantField: model.FieldCheckInTime,
		},
		{
			name: "check-out after noon is rejected",
			mutate: func(req *dto.CreateBookingRequest) {
				req.CheckOutDate = strPtr("2026-09-03")
				req.CheckOutTime = strPtr("13:30")
			},
			wantField: model.FieldCheckOutTime,
		},
		{
			name:      "numeric telephone must have ten digits",
			mutate:    func(req *dto.CreateBookingRequest) { req.IDOrTelephone = "02441234" },
			wantField: model.FieldIDOrTelephone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			req := cashRequest()
			tt.mutate(&req)

			f.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomModel.Room{ID: "room-1"}, nil)

			if tt.wantField == "" {
				f.roomRepo.EXPECT().ActiveStays(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
				f.repo.EXPECT().CreateWithVersion(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			}

			_, err := f.svc.Create(receptionistCtx(), req)

			if tt.wantField == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Contains(t, failure.GetFields(err), tt.wantField)
		})
	}
}

func TestBookingService_Update_ManagerEditIncrementsVersion(t *testing.T) {
	f := newFixture(t)
	current := storedBooking()

	f.repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(current, nil).
		Times(2)

	var fields map[string]any
	var version model.BookingVersion

	f.repo.EXPECT().
		UpdateWithSnapshot(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, mod map[string]any, _ any, ver model.BookingVersion) error {
			fields = mod
			version = ver

			return nil
		})

	req := dto.UpdateBookingRequest{Name: strPtr("Yaw K. Owusu")}

	_, err := f.svc.Update(managerCtx(), current.ID, req)
	require.NoError(t, err)

	assert.Equal(t, current.VersionNumber+1, fields[model.FieldVersionNumber])
	assert.Equal(t, "ama", fields[model.FieldLastEditedBy])
	assert.True(t, version.IsManagerEdit)

	// The ledger row freezes the pre-edit state.
	var snapshot map[string]any
	require.NoError(t, json.Unmarshal(version.VersionData, &snapshot))
	assert.Equal(t, "Yaw Owusu", snapshot["name"])
}

func TestBookingService_Update_ReceptionistKeepsVersionNumber(t *testing.T) {
	f := newFixture(t)
	current := storedBooking()

	f.repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(current, nil).
		Times(2)

	var fields map[string]any
	var version model.BookingVersion

	f.repo.EXPECT().
		UpdateWithSnapshot(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, mod map[string]any, _ any, ver model.BookingVersion) error {
			fields = mod
			version = ver

			return nil
		})

	req := dto.UpdateBookingRequest{AddressLocation: strPtr("Tamale")}

	_, err := f.svc.Update(receptionistCtx(), current.ID, req)
	require.NoError(t, err)

	assert.NotContains(t, fields, model.FieldVersionNumber)
	assert.False(t, version.IsManagerEdit)
}

func TestBookingService_Update_InvalidMergedStateRejected(t *testing.T) {
	f := newFixture(t)
	current := storedBooking()

	f.repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(current, nil)

	// Switching to momo without momo details must fail on the merged state.
	req := dto.UpdateBookingRequest{
		PaymentMethod: strPtr(model.PaymentMethodMomo),
		CashAmount:    float64Ptr(0),
		MomoAmount:    float64Ptr(250),
	}

	_, err := f.svc.Update(managerCtx(), current.ID, req)
	require.Error(t, err)
	assert.Contains(t, failure.GetFields(err), model.FieldMomoNetwork)
}

func TestBookingService_Authorize(t *testing.T) {
	t.Run("defaults the authorizer to the actor full name", func(t *testing.T) {
		f := newFixture(t)
		current := storedBooking()

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(current, nil).
			Times(2)

		var fields map[string]any

		f.repo.EXPECT().
			TransitionStatus(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, mod map[string]any, _ any) (int64, error) {
				fields = mod

				return 1, nil
			})

		_, err := f.svc.Authorize(managerCtx(), current.ID, dto.AuthorizeBookingRequest{})
		require.NoError(t, err)

		assert.Equal(t, model.StatusAuthorized, fields[model.FieldStatus])
		assert.Equal(t, true, fields[model.FieldIsAuthorized])
		assert.Equal(t, "Ama Mensah", fields[model.FieldAuthorizedBy])
	})

	t.Run("already authorized is a no-op", func(t *testing.T) {
		f := newFixture(t)
		current := storedBooking()
		current.SetStatus(model.StatusAuthorized)

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(current, nil)

		res, err := f.svc.Authorize(managerCtx(), current.ID, dto.AuthorizeBookingRequest{})
		require.NoError(t, err)
		assert.Equal(t, model.StatusAuthorized, res.Status)
	})

	t.Run("stale read conflicts", func(t *testing.T) {
		f := newFixture(t)
		current := storedBooking()

		f.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(current, nil)

		f.repo.EXPECT().
			TransitionStatus(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(int64(0), nil)

		_, err := f.svc.Authorize(managerCtx(), current.ID, dto.AuthorizeBookingRequest{})
		require.Error(t, err)
		assert.Equal(t, 409, failure.GetCode(err))
	})
}

func TestBookingService_Reject(t *testing.T) {
	f := newFixture(t)
	current := storedBooking()

	f.repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(current, nil).
		Times(2)

	var fields map[string]any

	f.repo.EXPECT().
		TransitionStatus(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, mod map[string]any, _ any) (int64, error) {
			fields = mod

			return 1, nil
		})

	_, err := f.svc.Reject(managerCtx(), current.ID, dto.RejectBookingRequest{Reason: "duplicate entry"})
	require.NoError(t, err)

	assert.Equal(t, model.StatusRejected, fields[model.FieldStatus])
	assert.Equal(t, false, fields[model.FieldIsAuthorized])
	assert.Equal(t, "duplicate entry", fields[model.FieldRejectionReason])
}

func TestBookingService_Delete_AlreadyDeletedIsNoOp(t *testing.T) {
	f := newFixture(t)
	current := storedBooking()
	deletedAt := timezone.Now().Add(-time.Hour)
	current.DeletedAt = &deletedAt

	f.repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(current, nil)

	assert.NoError(t, f.svc.Delete(managerCtx(), current.ID))
}

func TestBookingService_Restore(t *testing.T) {
	tests := []struct {
		name       string
		deletedAgo time.Duration
		notDeleted bool
		wantErr    bool
	}{
		{name: "restore within the window", deletedAgo: 29 * 24 * time.Hour},
		{name: "restore outside the window", deletedAgo: 31 * 24 * time.Hour, wantErr: true},
		{name: "restore of a live booking", notDeleted: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			current := storedBooking()

			if !tt.notDeleted {
				deletedAt := timezone.Now().Add(-tt.deletedAgo)
				deletedBy := "ama"
				current.DeletedAt = &deletedAt
				current.DeletedBy = &deletedBy
			}

			if tt.wantErr {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(current, nil)
			} else {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(current, nil).
					Times(2)

				f.repo.EXPECT().
					TransitionStatus(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(int64(1), nil)
			}

			_, err := f.svc.Restore(managerCtx(), current.ID)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, 409, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestBookingService_GetAll_RoleShaping(t *testing.T) {
	t.Run("receptionist only sees live authorized bookings", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				where, args := filter.GetWhereClause()
				assert.Contains(t, where, "bookings.status = :visibility_status")
				assert.Contains(t, where, "bookings.deleted_at IS NULL")
				assert.Equal(t, model.StatusAuthorized, args["visibility_status"])

				return 1, nil
			})

		f.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Booking{storedBooking()}, nil)

		res, err := f.svc.GetAll(receptionistCtx(), gDto.QueryParams{Limit: 10}, gDto.FilterGroup{}, false)
		require.NoError(t, err)
		assert.Len(t, res.Bookings, 1)
	})

	t.Run("manager sees deleted rows only on request", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				where, _ := filter.GetWhereClause()
				assert.NotContains(t, where, "deleted_at IS NULL")
				assert.NotContains(t, where, "status")

				return 0, nil
			})

		f.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, nil)

		_, err := f.svc.GetAll(managerCtx(), gDto.QueryParams{Limit: 10}, gDto.FilterGroup{}, true)
		assert.NoError(t, err)
	})
}

func TestBookingService_DailyTotals(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
			where, args := filter.GetWhereClause()
			assert.Contains(t, where, "bookings.is_original = :is_original")
			assert.Contains(t, where, "bookings.deleted_at IS NULL")
			assert.Equal(t, "2026-09-01", args["check_in_date"])

			return 3, nil
		})

	f.repo.EXPECT().
		SumAmount(gomock.Any(), gomock.Any()).
		Return(750.0, nil)

	res, err := f.svc.DailyTotals(managerCtx(), "2026-09-01")
	require.NoError(t, err)

	assert.Equal(t, "2026-09-01", res.Date)
	assert.Equal(t, 3, res.TotalBookings)
	assert.Equal(t, 750.0, res.TotalAmountGHS)
}

func strPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

func float64Ptr(f float64) *float64 {
	return &f
}
