package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/margav-energy/Pama-Lodge/infras/otel"
	"github.com/margav-energy/Pama-Lodge/infras/postgres"
	"github.com/margav-energy/Pama-Lodge/internal/domains/booking/model"
	"github.com/margav-energy/Pama-Lodge/shared/constant"
	gDto "github.com/margav-energy/Pama-Lodge/shared/dto"
	"github.com/margav-energy/Pama-Lodge/shared/logger"
	gRepo "github.com/margav-energy/Pama-Lodge/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Booking interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	CreateWithVersion(ctx context.Context, booking model.Booking, version model.BookingVersion) error
	UpdateWithSnapshot(ctx context.Context, fields map[string]any, filter gDto.FilterGroup, version model.BookingVersion) error
	TransitionStatus(ctx context.Context, fields map[string]any, filter gDto.FilterGroup) (int64, error)
	Versions(ctx context.Context, bookingID string) ([]model.BookingVersion, error)
	SumAmount(ctx context.Context, filter gDto.FilterGroup) (float64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	versions gRepo.Repository[model.BookingVersion]
	db       *postgres.Connection
	otel     otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		versions:   gRepo.NewRepository[model.BookingVersion](model.VersionEntityName, model.VersionTableName, model.VersionFieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *repositoryImpl) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin transaction (%s): %w", model.EntityName, err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.ErrorWithStack(rbErr)
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit transaction (%s): %w", model.EntityName, err)
	}

	return nil
}

// CreateWithVersion inserts the booking and its initial ledger row in one
// transaction, so neither can exist without the other.
func (repo *repositoryImpl) CreateWithVersion(ctx context.Context, booking model.Booking, version model.BookingVersion) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.CreateWithVersion")
	defer scope.End()

	return repo.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := repo.InsertTx(ctx, tx, booking); err != nil {
			scope.TraceError(err)

			return err
		}

		if err := repo.versions.InsertTx(ctx, tx, version); err != nil {
			scope.TraceError(err)

			return err
		}

		return nil
	})
}

// UpdateWithSnapshot appends the pre-edit ledger row and applies the update
// in one transaction.
func (repo *repositoryImpl) UpdateWithSnapshot(ctx context.Context, fields map[string]any, filter gDto.FilterGroup, version model.BookingVersion) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.UpdateWithSnapshot")
	defer scope.End()

	return repo.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := repo.versions.InsertTx(ctx, tx, version); err != nil {
			scope.TraceError(err)

			return err
		}

		if err := repo.UpdateTx(ctx, tx, fields, filter); err != nil {
			scope.TraceError(err)

			return err
		}

		return nil
	})
}

// TransitionStatus applies a guarded update and reports how many rows
// matched. Callers put the previously read modified_at in the filter; zero
// rows means the booking changed underneath them.
func (repo *repositoryImpl) TransitionStatus(ctx context.Context, fields map[string]any, filter gDto.FilterGroup) (int64, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.TransitionStatus")
	defer scope.End()

	affected, err := repo.UpdateGuarded(ctx, fields, filter)
	if err != nil {
		scope.TraceError(err)

		return 0, err
	}

	return affected, nil
}

// Versions returns the ledger rows for a booking, newest first.
func (repo *repositoryImpl) Versions(ctx context.Context, bookingID string) ([]model.BookingVersion, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Versions")
	defer scope.End()

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.VersionFieldBookingID,
				Operator: gDto.FilterOperatorEq,
				Value:    bookingID,
				Table:    model.VersionTableName,
			},
		},
	}

	params := gDto.QueryParams{SortBy: model.VersionFieldEditedAt, SortDir: gDto.SortDirDesc}

	records, err := repo.versions.GetAll(ctx, params, filter)
	if err != nil {
		scope.TraceError(err)

		return nil, err
	}

	return records, nil
}

// SumAmount totals amount_ghs over the filtered bookings.
func (repo *repositoryImpl) SumAmount(ctx context.Context, filter gDto.FilterGroup) (float64, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.SumAmount")
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)

	query := fmt.Sprintf("SELECT COALESCE(SUM(%s.%s), 0) FROM %s %s", model.TableName, model.FieldAmountGHS, model.TableName, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var total float64

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to prepare statement (%s): %w", model.EntityName, err)
	}
	defer prepare.Close()

	err = prepare.GetContext(ctx, &total, args)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to sum booking amounts: %w", err)
	}

	return total, nil
}
