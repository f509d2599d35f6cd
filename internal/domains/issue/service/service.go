package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/margav-energy/Pama-Lodge/config"
	"github.com/margav-energy/Pama-Lodge/infras/otel"
	"github.com/margav-energy/Pama-Lodge/internal/domains/issue/model"
	"github.com/margav-energy/Pama-Lodge/internal/domains/issue/model/dto"
	"github.com/margav-energy/Pama-Lodge/internal/domains/issue/repository"
	"github.com/margav-energy/Pama-Lodge/shared"
	"github.com/margav-energy/Pama-Lodge/shared/cache"
	"github.com/margav-energy/Pama-Lodge/shared/constant"
	gDto "github.com/margav-energy/Pama-Lodge/shared/dto"
	"github.com/margav-energy/Pama-Lodge/shared/failure"
	"github.com/margav-energy/Pama-Lodge/shared/timezone"
)

const (
	cacheGetIssue     = "issue:get"
	cacheGetAllIssue  = "issue:gets"
	cacheCountIssue   = "issue:count"
	cacheSummaryIssue = "issue:summary"
)

type Issue interface {
	Create(ctx context.Context, req dto.CreateIssueRequest) (dto.IssueResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetIssuesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.IssueResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateIssueRequest) (dto.IssueResponse, error)
	MarkFixed(ctx context.Context, id string, req dto.MarkFixedRequest) (dto.IssueResponse, error)
	MarkInProgress(ctx context.Context, id string) (dto.IssueResponse, error)
	ByRoom(ctx context.Context, roomID string) (dto.GetIssuesResponse, error)
	Summary(ctx context.Context) (dto.SummaryResponse, error)
}

type serviceImpl struct {
	repo  repository.Issue
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Issue, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Issue {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateIssueRequest) (res dto.IssueResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".issue.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	issue := req.ToModel(actorUsername(ctx))

	if err = s.repo.Insert(ctx, issue); err != nil {
		log.Error().Err(err).Msg("failed to create issue")

		return res, fmt.Errorf("failed to create issue: %w", err)
	}

	s.invalidateCaches(ctx)

	res.FromModel(issue)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetIssuesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".issue.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllIssue, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for issues")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count issues")

		return res, fmt.Errorf("failed to count issues: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get issues")

		return res, fmt.Errorf("failed to get issues: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save issues to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".issue.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountIssue, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for issue count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count issues")

		return res, fmt.Errorf("failed to count issues: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save issue count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.IssueResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".issue.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetIssue, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for issue")

		return res, nil
	}

	issue, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(issue)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save issue to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateIssueRequest) (res dto.IssueResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".issue.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	issue, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	fields := shared.TransformFields(req, actorUsername(ctx))

	// Moving into a resolved status through a plain update stamps the fixer
	// the same way mark-fixed does.
	if req.Status != nil && model.ResolvedStatus(*req.Status) && !issue.IsResolved() {
		fields[model.FieldFixedBy] = actorUsername(ctx)
		fields[model.FieldFixedAt] = timezone.Now()
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update issue")

		return res, fmt.Errorf("failed to update issue: %w", err)
	}

	s.invalidateCaches(ctx)

	return s.freshResponse(ctx, id)
}

// MarkFixed stamps the issue fixed. Calling it again refreshes the stamp and
// notes rather than failing.
func (s *serviceImpl) MarkFixed(ctx context.Context, id string, req dto.MarkFixedRequest) (res dto.IssueResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".issue.MarkFixed")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err = s.find(ctx, id); err != nil {
		return res, err
	}

	actor := actorUsername(ctx)

	fields := map[string]any{
		model.FieldStatus:        model.StatusFixed,
		model.FieldFixedBy:       actor,
		model.FieldFixedAt:       timezone.Now(),
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor,
	}

	if req.Notes != constant.Empty {
		fields[model.FieldResolutionNotes] = req.Notes
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to mark issue fixed")

		return res, fmt.Errorf("failed to mark issue fixed: %w", err)
	}

	s.invalidateCaches(ctx)

	return s.freshResponse(ctx, id)
}

func (s *serviceImpl) MarkInProgress(ctx context.Context, id string) (res dto.IssueResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".issue.MarkInProgress")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err = s.find(ctx, id); err != nil {
		return res, err
	}

	actor := actorUsername(ctx)

	fields := map[string]any{
		model.FieldStatus:        model.StatusInProgress,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: actor,
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to mark issue in progress")

		return res, fmt.Errorf("failed to mark issue in progress: %w", err)
	}

	s.invalidateCaches(ctx)

	return s.freshResponse(ctx, id)
}

func (s *serviceImpl) ByRoom(ctx context.Context, roomID string) (res dto.GetIssuesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".issue.ByRoom")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldRoomID,
				Value:    roomID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}

	params := gDto.QueryParams{SortBy: model.FieldReportedAt, SortDir: gDto.SortDirDesc}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get issues by room")

		return res, fmt.Errorf("failed to get issues by room: %w", err)
	}

	res.FromModels(models, len(models), 0)

	return res, nil
}

func (s *serviceImpl) Summary(ctx context.Context) (res dto.SummaryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".issue.Summary")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheSummaryIssue, "all")

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for issue summary")

		return res, nil
	}

	rows, err := s.repo.Tally(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to build issue summary")

		return res, fmt.Errorf("failed to build issue summary: %w", err)
	}

	res.ByStatus = map[string]int{}
	res.ByType = map[string]dto.TypeSummary{}

	for _, row := range rows {
		res.TotalIssues += row.Count
		res.ByStatus[row.Status] += row.Count

		bucket := res.ByType[row.IssueType]
		bucket.Total += row.Count

		if model.ResolvedStatus(row.Status) {
			res.Resolved += row.Count
		} else {
			res.Unresolved += row.Count
			bucket.Unresolved += row.Count
		}

		res.ByType[row.IssueType] = bucket
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save issue summary to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Issue, error) {
	issue, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get issue")

		return issue, fmt.Errorf("failed to get issue: %w", err)
	}

	if issue.ID == constant.Empty {
		return issue, failure.NotFound("issue not found")
	}

	return issue, nil
}

func (s *serviceImpl) freshResponse(ctx context.Context, id string) (res dto.IssueResponse, err error) {
	issue, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(issue)

	return res, nil
}

func (s *serviceImpl) invalidateCaches(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetIssue)
		shared.InvalidateCaches(c, s.cache, cacheGetAllIssue)
		shared.InvalidateCaches(c, s.cache, cacheCountIssue)
		shared.InvalidateCaches(c, s.cache, cacheSummaryIssue)
	}()
}

func actorUsername(ctx context.Context) string {
	if username, ok := ctx.Value(constant.ContextKeyUsername).(string); ok && username != constant.Empty {
		return username
	}

	return constant.ContextSystem
}
