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
	issueMocks "github.com/margav-energy/Pama-Lodge/internal/domains/issue/mocks"
	"github.com/margav-energy/Pama-Lodge/internal/domains/issue/model"
	"github.com/margav-energy/Pama-Lodge/internal/domains/issue/model/dto"
	"github.com/margav-energy/Pama-Lodge/internal/domains/issue/service"
	cacheMocks "github.com/margav-energy/Pama-Lodge/shared/cache/mocks"
	"github.com/margav-energy/Pama-Lodge/shared/constant"
	gModel "github.com/margav-energy/Pama-Lodge/shared/model"
	"github.com/margav-energy/Pama-Lodge/shared/timezone"
)

func newService(t *testing.T) (*issueMocks.MockIssue, service.Issue) {
	t.Helper()

	ctrl := gomock.NewController(t)

	repo := issueMocks.NewMockIssue(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return repo, service.New(repo, &config.Config{}, mockCache, mocks.NewOtel())
}

func actorCtx() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUsername, "kofi")
}

func reportedIssue() model.Issue {
	now := timezone.Now().Add(-time.Hour)

	return model.Issue{
		ID:         "issue-1",
		RoomID:     "room-1",
		IssueType:  model.TypeFault,
		Title:      "AC not cooling",
		Status:     model.StatusReported,
		Priority:   model.PriorityHigh,
		ReportedBy: "kofi",
		ReportedAt: now,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  "kofi",
			ModifiedBy: "kofi",
		},
	}
}

func TestIssueService_Create(t *testing.T) {
	repo, svc := newService(t)

	var created model.Issue

	repo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, issue model.Issue) error {
			created = issue

			return nil
		})

	req := dto.CreateIssueRequest{
		RoomID:    "room-1",
		IssueType: model.TypeMissingInventory,
		Title:     "Missing towels",
	}

	res, err := svc.Create(actorCtx(), req)
	require.NoError(t, err)

	assert.Equal(t, model.StatusReported, created.Status)
	assert.Equal(t, model.PriorityMedium, created.Priority)
	assert.Equal(t, "kofi", created.ReportedBy)
	assert.Equal(t, model.StatusReported, res.Status)
}

func TestIssueService_MarkFixed(t *testing.T) {
	t.Run("stamps fixer and notes", func(t *testing.T) {
		repo, svc := newService(t)
		issue := reportedIssue()

		repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(issue, nil).
			Times(2)

		var fields map[string]any

		repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, mod map[string]any, _ any) error {
				fields = mod

				return nil
			})

		_, err := svc.MarkFixed(actorCtx(), issue.ID, dto.MarkFixedRequest{Notes: "replaced compressor"})
		require.NoError(t, err)

		assert.Equal(t, model.StatusFixed, fields[model.FieldStatus])
		assert.Equal(t, "kofi", fields[model.FieldFixedBy])
		assert.Equal(t, "replaced compressor", fields[model.FieldResolutionNotes])
		assert.NotNil(t, fields[model.FieldFixedAt])
	})

	t.Run("marking an already fixed issue restamps it", func(t *testing.T) {
		repo, svc := newService(t)
		issue := reportedIssue()
		issue.Status = model.StatusFixed
		fixedBy := "ama"
		fixedAt := timezone.Now().Add(-24 * time.Hour)
		issue.FixedBy = &fixedBy
		issue.FixedAt = &fixedAt

		repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(issue, nil).
			Times(2)

		var fields map[string]any

		repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, mod map[string]any, _ any) error {
				fields = mod

				return nil
			})

		_, err := svc.MarkFixed(actorCtx(), issue.ID, dto.MarkFixedRequest{})
		require.NoError(t, err)

		assert.Equal(t, model.StatusFixed, fields[model.FieldStatus])
		assert.Equal(t, "kofi", fields[model.FieldFixedBy])

		stamped, ok := fields[model.FieldFixedAt].(time.Time)
		require.True(t, ok)
		assert.True(t, stamped.After(fixedAt))
	})
}

func TestIssueService_MarkInProgress(t *testing.T) {
	repo, svc := newService(t)
	issue := reportedIssue()

	repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(issue, nil).
		Times(2)

	var fields map[string]any

	repo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, mod map[string]any, _ any) error {
			fields = mod

			return nil
		})

	_, err := svc.MarkInProgress(actorCtx(), issue.ID)
	require.NoError(t, err)

	assert.Equal(t, model.StatusInProgress, fields[model.FieldStatus])
	assert.NotContains(t, fields, model.FieldFixedBy)
}

func TestIssueService_Update_ResolvingStampsFixer(t *testing.T) {
	repo, svc := newService(t)
	issue := reportedIssue()

	repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(issue, nil).
		Times(2)

	var fields map[string]any

	repo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, mod map[string]any, _ any) error {
			fields = mod

			return nil
		})

	status := model.StatusResolved
	_, err := svc.Update(actorCtx(), issue.ID, dto.UpdateIssueRequest{Status: &status})
	require.NoError(t, err)

	assert.Equal(t, "kofi", fields[model.FieldFixedBy])
	assert.NotNil(t, fields[model.FieldFixedAt])
}

func TestIssueService_Summary(t *testing.T) {
	repo, svc := newService(t)

	repo.EXPECT().
		Tally(gomock.Any()).
		Return([]model.TallyRow{
			{Status: model.StatusReported, IssueType: model.TypeFault, Count: 3},
			{Status: model.StatusInProgress, IssueType: model.TypeFault, Count: 1},
			{Status: model.StatusFixed, IssueType: model.TypeFault, Count: 2},
			{Status: model.StatusResolved, IssueType: model.TypeMaintenance, Count: 4},
			{Status: model.StatusReported, IssueType: model.TypeMissingInventory, Count: 5},
		}, nil)

	res, err := svc.Summary(actorCtx())
	require.NoError(t, err)

	assert.Equal(t, 15, res.TotalIssues)
	assert.Equal(t, 6, res.Resolved)
	assert.Equal(t, 9, res.Unresolved)
	assert.Equal(t, 8, res.ByStatus[model.StatusReported])
	assert.Equal(t, dto.TypeSummary{Total: 6, Unresolved: 4}, res.ByType[model.TypeFault])
	assert.Equal(t, dto.TypeSummary{Total: 4, Unresolved: 0}, res.ByType[model.TypeMaintenance])
	assert.Equal(t, dto.TypeSummary{Total: 5, Unresolved: 5}, res.ByType[model.TypeMissingInventory])
}

func TestIssueService_Get_NotFound(t *testing.T) {
	repo, svc := newService(t)

	repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(model.Issue{}, nil)

	_, err := svc.Get(actorCtx(), "missing")
	assert.Error(t, err)
}
