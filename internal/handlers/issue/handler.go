package issue

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/margav-energy/Pama-Lodge/infras/otel"
	"github.com/margav-energy/Pama-Lodge/internal/domains/issue/model"
	"github.com/margav-energy/Pama-Lodge/internal/domains/issue/model/dto"
	"github.com/margav-energy/Pama-Lodge/internal/domains/issue/service"
	"github.com/margav-energy/Pama-Lodge/shared/constant"
	gDto "github.com/margav-energy/Pama-Lodge/shared/dto"
	"github.com/margav-energy/Pama-Lodge/shared/validator"
	"github.com/margav-energy/Pama-Lodge/transport/http/response"
)

type Handler struct {
	service service.Issue
	otel    otel.Otel
}

func New(service service.Issue, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/room-issues", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateIssue)
		routerGroup.Get("/", handler.GetIssues)
		routerGroup.Get("/summary", handler.GetSummary)
		routerGroup.Get("/by-room/{roomId}", handler.GetIssuesByRoom)
		routerGroup.Get("/{id}", handler.GetIssueByID)
		routerGroup.Patch("/{id}", handler.UpdateIssue)
		routerGroup.Post("/{id}/mark-fixed", handler.MarkIssueFixed)
		routerGroup.Post("/{id}/mark-in-progress", handler.MarkIssueInProgress)
	})
}

// CreateIssue reports a new room issue.
// @Summary Report a room issue
// @Description Report an issue on a room (missing inventory, fault, maintenance, other).
// @Tags RoomIssue
// @Accept json
// @Produce json
// @Param request body dto.CreateIssueRequest true "Create Issue Request"
// @Success 201 {object} response.Data[dto.IssueResponse] "Reported issue"
// @Failure 400 {object} response.Error
// @Router /v1/room-issues [post]
// @Security BearerAuth
func (handler *Handler) CreateIssue(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateIssue")
	defer scope.End()

	req := dto.CreateIssueRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	issue, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create issue")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusCreated, issue)
}

// GetIssues retrieves room issues based on query parameters.
// @Summary Get room issues
// @Description Retrieve room issues with optional room, status, type, and unresolved filtering.
// @Tags RoomIssue
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param room_id query string false "Filter by room ID"
// @Param status query string false "Filter by status (reported, in_progress, fixed, resolved)"
// @Param issue_type query string false "Filter by type"
// @Param unresolved query boolean false "Only unresolved issues"
// @Success 200 {object} response.Data[dto.GetIssuesResponse] "List of issues"
// @Failure 500 {object} response.Error
// @Router /v1/room-issues [get]
// @Security BearerAuth
func (handler *Handler) GetIssues(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetIssues")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	query := request.URL.Query()

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if roomID := query.Get(model.FieldRoomID); roomID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldRoomID,
			Operator: gDto.FilterOperatorEq,
			Value:    roomID,
			Table:    model.TableName,
		})
	}

	if status := query.Get(model.FieldStatus); status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	if issueType := query.Get(model.FieldIssueType); issueType != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldIssueType,
			Operator: gDto.FilterOperatorEq,
			Value:    issueType,
			Table:    model.TableName,
		})
	}

	if unresolved, _ := strconv.ParseBool(query.Get("unresolved")); unresolved {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			ArgName:  "unresolved_statuses",
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorIn,
			Value:    []string{model.StatusReported, model.StatusInProgress},
			Table:    model.TableName,
		})
	}

	issues, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get issues")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, issues)
}

// GetSummary returns aggregate counts over all issues.
// @Summary Get issue summary
// @Description Retrieve total, resolved, and unresolved counts grouped by status and type.
// @Tags RoomIssue
// @Produce json
// @Success 200 {object} response.Data[dto.SummaryResponse] "Issue summary"
// @Failure 500 {object} response.Error
// @Router /v1/room-issues/summary [get]
// @Security BearerAuth
func (handler *Handler) GetSummary(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSummary")
	defer scope.End()

	summary, err := handler.service.Summary(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get issue summary")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, summary)
}

// GetIssuesByRoom retrieves every issue reported on a room.
// @Summary Get issues by room
// @Description Retrieve all issues for a room, newest first.
// @Tags RoomIssue
// @Produce json
// @Param roomId path string true "Room ID"
// @Success 200 {object} response.Data[dto.GetIssuesResponse] "Issues for the room"
// @Failure 500 {object} response.Error
// @Router /v1/room-issues/by-room/{roomId} [get]
// @Security BearerAuth
func (handler *Handler) GetIssuesByRoom(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetIssuesByRoom")
	defer scope.End()

	roomID := chi.URLParam(request, constant.RequestParamRoomID)

	issues, err := handler.service.ByRoom(ctx, roomID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get issues by room")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, issues)
}

// GetIssueByID retrieves a single issue.
// @Summary Get issue by ID
// @Description Retrieve a room issue by its ID.
// @Tags RoomIssue
// @Produce json
// @Param id path string true "Issue ID"
// @Success 200 {object} response.Data[dto.IssueResponse] "Issue"
// @Failure 404 {object} response.Error
// @Router /v1/room-issues/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetIssueByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetIssueByID")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	issue, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get issue")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, issue)
}

// UpdateIssue applies a partial edit to an issue.
// @Summary Update an issue
// @Description Update an issue's type, title, description, status, priority, or notes.
// @Tags RoomIssue
// @Accept json
// @Produce json
// @Param id path string true "Issue ID"
// @Param request body dto.UpdateIssueRequest true "Update Issue Request"
// @Success 200 {object} response.Data[dto.IssueResponse] "Updated issue"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/room-issues/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateIssue(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateIssue")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	req := dto.UpdateIssueRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	issue, err := handler.service.Update(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update issue")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, issue)
}

// MarkIssueFixed stamps an issue as fixed.
// @Summary Mark issue fixed
// @Description Mark an issue fixed with optional resolution notes. Repeated calls refresh the stamp.
// @Tags RoomIssue
// @Accept json
// @Produce json
// @Param id path string true "Issue ID"
// @Param request body dto.MarkFixedRequest false "Mark Fixed Request"
// @Success 200 {object} response.Data[dto.IssueResponse] "Fixed issue"
// @Failure 404 {object} response.Error
// @Router /v1/room-issues/{id}/mark-fixed [post]
// @Security BearerAuth
func (handler *Handler) MarkIssueFixed(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".MarkIssueFixed")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	req := dto.MarkFixedRequest{}

	if request.ContentLength > 0 {
		if err := validator.Validate(request.Body, &req); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Msg("failed to validate request body")

			response.WithError(writer, err)

			return
		}
	}

	issue, err := handler.service.MarkFixed(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to mark issue fixed")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, issue)
}

// MarkIssueInProgress moves an issue to in progress.
// @Summary Mark issue in progress
// @Description Move an issue to the in_progress status.
// @Tags RoomIssue
// @Produce json
// @Param id path string true "Issue ID"
// @Success 200 {object} response.Data[dto.IssueResponse] "Issue in progress"
// @Failure 404 {object} response.Error
// @Router /v1/room-issues/{id}/mark-in-progress [post]
// @Security BearerAuth
func (handler *Handler) MarkIssueInProgress(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".MarkIssueInProgress")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	issue, err := handler.service.MarkInProgress(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to mark issue in progress")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, issue)
}
