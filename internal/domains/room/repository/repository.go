package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/margav-energy/Pama-Lodge/infras/otel"
	"github.com/margav-energy/Pama-Lodge/infras/postgres"
	"github.com/margav-energy/Pama-Lodge/internal/domains/room/model"
	"github.com/margav-energy/Pama-Lodge/shared/constant"
	gDto "github.com/margav-energy/Pama-Lodge/shared/dto"
	"github.com/margav-energy/Pama-Lodge/shared/logger"
	gRepo "github.com/margav-energy/Pama-Lodge/shared/repository"
)

type Room interface {
	Insert(ctx context.Context, model model.Room) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Room, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	ActiveStays(ctx context.Context, roomNumber string, excludeBookingID string) ([]model.StayRecord, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// ActiveStays returns the booking intervals currently blocking a room: live
// original bookings on that room number, optionally excluding the booking
// under edit.
func (repo *repositoryImpl) ActiveStays(ctx context.Context, roomNumber string, excludeBookingID string) ([]model.StayRecord, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.ActiveStays")
	defer scope.End()

	query := `SELECT name, check_in_date, check_out_date
		FROM bookings
		WHERE room_no = $1 AND is_original = TRUE AND deleted_at IS NULL
		AND ($2 = '' OR id::text != $2)
		ORDER BY check_in_date`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var records []model.StayRecord

	err := repo.db.Read.SelectContext(ctx, &records, query, roomNumber, excludeBookingID)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get active stays (%s): %w", model.EntityName, err)
	}

	return records, nil
}
