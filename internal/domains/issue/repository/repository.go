package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/margav-energy/Pama-Lodge/infras/otel"
	"github.com/margav-energy/Pama-Lodge/infras/postgres"
	"github.com/margav-energy/Pama-Lodge/internal/domains/issue/model"
	"github.com/margav-energy/Pama-Lodge/shared/constant"
	gDto "github.com/margav-energy/Pama-Lodge/shared/dto"
	"github.com/margav-energy/Pama-Lodge/shared/logger"
	gRepo "github.com/margav-energy/Pama-Lodge/shared/repository"
)

type Issue interface {
	Insert(ctx context.Context, model model.Issue) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Issue, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Issue, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Tally(ctx context.Context) ([]model.TallyRow, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Issue]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Issue {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Issue](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Tally groups the issues by status and type in one pass so the summary
// endpoint stays a single query.
func (repo *repositoryImpl) Tally(ctx context.Context) ([]model.TallyRow, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".issue.Tally")
	defer scope.End()

	query := `SELECT status, issue_type, COUNT(*) AS count
		FROM room_issues
		GROUP BY status, issue_type`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var rows []model.TallyRow

	err := repo.db.Read.SelectContext(ctx, &rows, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to tally issues: %w", err)
	}

	return rows, nil
}
