package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/margav-energy/Pama-Lodge/config"
	"github.com/margav-energy/Pama-Lodge/infras/otel/mocks"
	roomMocks "github.com/margav-energy/Pama-Lodge/internal/domains/room/mocks"
	"github.com/margav-energy/Pama-Lodge/internal/domains/room/model"
	"github.com/margav-energy/Pama-Lodge/internal/domains/room/model/dto"
	"github.com/margav-energy/Pama-Lodge/internal/domains/room/service"
	cacheMocks "github.com/margav-energy/Pama-Lodge/shared/cache/mocks"
	"github.com/margav-energy/Pama-Lodge/shared/constant"
	"github.com/margav-energy/Pama-Lodge/shared/failure"
)

func newService(t *testing.T) (*roomMocks.MockRoom, service.Room) {
	t.Helper()

	ctrl := gomock.NewController(t)

	repo := roomMocks.NewMockRoom(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	// Cache is best effort in every path under test.
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return repo, service.New(repo, &config.Config{}, mockCache, mocks.NewOtel())
}

func actorCtx() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUsername, "kofi")
}

func standardRoom(number string) model.Room {
	return model.Room{
		ID:            "room-" + number,
		RoomNumber:    number,
		RoomType:      model.RoomTypeStandardFan,
		PricePerNight: 150,
		IsAvailable:   true,
	}
}

func date(day int) time.Time {
	return time.Date(2026, 9, day, 0, 0, 0, 0, time.UTC)
}

func TestService_Create(t *testing.T) {
	t.Run("creates a room stamped with the actor", func(t *testing.T) {
		repo, svc := newService(t)

		var inserted model.Room

		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
		repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, room model.Room) error {
				inserted = room

				return nil
			})

		err := svc.Create(actorCtx(), dto.CreateRoomRequest{
			RoomNumber:    "101",
			RoomType:      model.RoomTypeStandardFan,
			PricePerNight: 150,
		})
		require.NoError(t, err)

		assert.NotEmpty(t, inserted.ID)
		assert.Equal(t, "101", inserted.RoomNumber)
		assert.True(t, inserted.IsAvailable)
		assert.Equal(t, "kofi", inserted.CreatedBy)
	})

	t.Run("rejects a duplicate room number", func(t *testing.T) {
		repo, svc := newService(t)

		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		err := svc.Create(actorCtx(), dto.CreateRoomRequest{
			RoomNumber:    "101",
			RoomType:      model.RoomTypeStandardFan,
			PricePerNight: 150,
		})
		require.Error(t, err)
		assert.Equal(t, 409, failure.GetCode(err))
	})
}

func TestService_Update(t *testing.T) {
	t.Run("rejects an empty update", func(t *testing.T) {
		_, svc := newService(t)

		err := svc.Update(actorCtx(), dto.UpdateRoomRequest{}, "room-101")
		require.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("returns not found for an unknown room", func(t *testing.T) {
		repo, svc := newService(t)

		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		price := 200.0

		err := svc.Update(actorCtx(), dto.UpdateRoomRequest{PricePerNight: &price}, "missing")
		require.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})

	t.Run("applies only the provided fields", func(t *testing.T) {
		repo, svc := newService(t)

		var fields map[string]any

		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req map[string]any, _ any) error {
				fields = req

				return nil
			})

		price := 200.0

		err := svc.Update(actorCtx(), dto.UpdateRoomRequest{PricePerNight: &price}, "room-101")
		require.NoError(t, err)

		assert.Equal(t, 200.0, fields[model.FieldPricePerNight])
		assert.Equal(t, "kofi", fields[constant.FieldModifiedBy])
		assert.NotContains(t, fields, model.FieldRoomType)
	})
}

func TestService_Available(t *testing.T) {
	t.Run("rejects an interval that ends before it starts", func(t *testing.T) {
		_, svc := newService(t)

		checkOut := date(1)

		_, err := svc.Available(actorCtx(), date(5), &checkOut, "")
		require.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("excludes rooms with overlapping stays", func(t *testing.T) {
		repo, svc := newService(t)

		free := standardRoom("101")
		occupied := standardRoom("102")

		repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Room{free, occupied}, nil)
		repo.EXPECT().ActiveStays(gomock.Any(), "101", "").Return(nil, nil)

		checkOutStay := date(8)
		repo.EXPECT().ActiveStays(gomock.Any(), "102", "").Return([]model.StayRecord{
			{GuestName: "Abena Sarpong", CheckInDate: date(3), CheckOutDate: &checkOutStay},
		}, nil)

		checkOut := date(6)

		res, err := svc.Available(actorCtx(), date(4), &checkOut, "")
		require.NoError(t, err)

		require.Len(t, res.Rooms, 1)
		assert.Equal(t, "101", res.Rooms[0].RoomNumber)
		assert.Equal(t, "2026-09-04", res.CheckInDate)
	})

	t.Run("treats an open ended stay as blocking", func(t *testing.T) {
		repo, svc := newService(t)

		room := standardRoom("103")

		repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Room{room}, nil)
		repo.EXPECT().ActiveStays(gomock.Any(), "103", "").Return([]model.StayRecord{
			{GuestName: "Esi Nyarko", CheckInDate: date(1)},
		}, nil)

		res, err := svc.Available(actorCtx(), date(20), nil, "")
		require.NoError(t, err)
		assert.Empty(t, res.Rooms)
	})
}

func TestService_StatusForDate(t *testing.T) {
	repo, svc := newService(t)

	free := standardRoom("101")
	occupied := standardRoom("102")

	repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Room{free, occupied}, nil)
	repo.EXPECT().ActiveStays(gomock.Any(), "101", "").Return(nil, nil)

	checkOut := date(8)
	repo.EXPECT().ActiveStays(gomock.Any(), "102", "").Return([]model.StayRecord{
		{GuestName: "Abena Sarpong", CheckInDate: date(3), CheckOutDate: &checkOut},
	}, nil)

	res, err := svc.StatusForDate(actorCtx(), date(5))
	require.NoError(t, err)

	assert.Equal(t, "2026-09-05", res.Date)
	require.Len(t, res.Rooms, 2)

	assert.False(t, res.Rooms[0].IsBooked)
	assert.Nil(t, res.Rooms[0].CurrentBooking)

	require.True(t, res.Rooms[1].IsBooked)
	require.NotNil(t, res.Rooms[1].CurrentBooking)
	assert.Equal(t, "Abena Sarpong", res.Rooms[1].CurrentBooking.GuestName)
	assert.Equal(t, "2026-09-03", res.Rooms[1].CurrentBooking.CheckIn)
}
