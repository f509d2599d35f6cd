package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/margav-energy/Pama-Lodge/config"
	"github.com/margav-energy/Pama-Lodge/infras/otel"
	"github.com/margav-energy/Pama-Lodge/internal/domains/booking/model"
	"github.com/margav-energy/Pama-Lodge/internal/domains/booking/model/dto"
	"github.com/margav-energy/Pama-Lodge/internal/domains/booking/repository"
	"github.com/margav-energy/Pama-Lodge/internal/domains/room/availability"
	roomModel "github.com/margav-energy/Pama-Lodge/internal/domains/room/model"
	roomRepository "github.com/margav-energy/Pama-Lodge/internal/domains/room/repository"
	"github.com/margav-energy/Pama-Lodge/shared"
	"github.com/margav-energy/Pama-Lodge/shared/cache"
	"github.com/margav-energy/Pama-Lodge/shared/constant"
	gDto "github.com/margav-energy/Pama-Lodge/shared/dto"
	"github.com/margav-energy/Pama-Lodge/shared/failure"
	"github.com/margav-energy/Pama-Lodge/shared/timezone"
)

const (
	cacheGetBooking     = "booking:get"
	cacheGetAllBooking  = "booking:gets"
	cacheCountBooking   = "booking:count"
	cacheBookingVersion = "booking:versions"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup, includeDeleted bool) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateBookingRequest) (dto.BookingResponse, error)
	Authorize(ctx context.Context, id string, req dto.AuthorizeBookingRequest) (dto.BookingResponse, error)
	Reject(ctx context.Context, id string, req dto.RejectBookingRequest) (dto.BookingResponse, error)
	Delete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) (dto.BookingResponse, error)
	Versions(ctx context.Context, id string) (dto.GetVersionsResponse, error)
	DailyTotals(ctx context.Context, date string) (dto.DailyTotalsResponse, error)
	Export(ctx context.Context, filter gDto.FilterGroup) ([]byte, string, error)
}

type serviceImpl struct {
	repo     repository.Booking
	roomRepo roomRepository.Room
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(repo repository.Booking, roomRepo roomRepository.Room, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Booking {
	return &serviceImpl{
		repo:     repo,
		roomRepo: roomRepo,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := req.ToModel(actorUsername(ctx), s.resolveRoomID(ctx, req.RoomNo))
	if err != nil {
		return res, failure.BadRequest(err)
	}

	if err = validateBooking(booking); err != nil {
		return res, err
	}

	// Advisory only: the front desk can still take a walk-in even when the
	// stays overlap on paper.
	s.warnIfUnavailable(ctx, booking)

	version, err := model.NewVersion(booking, booking.BookedBy, false, booking.CreatedAt)
	if err != nil {
		log.Error().Err(err).Msg("failed to build booking version")

		return res, fmt.Errorf("failed to build booking version: %w", err)
	}

	if err = s.repo.CreateWithVersion(ctx, booking, version); err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	s.invalidateCaches(ctx)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup, includeDeleted bool) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter = s.visibilityFilter(ctx, filter, includeDeleted)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	current, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	merged, err := req.ApplyTo(current)
	if err != nil {
		return res, failure.BadRequest(err)
	}

	if err = validateBooking(merged); err != nil {
		return res, err
	}

	editor := actorUsername(ctx)
	isManagerEdit := actorRole(ctx) == constant.RoleManager

	// The ledger row freezes the state as it was before this edit.
	version, err := model.NewVersion(current, editor, isManagerEdit, timezone.Now())
	if err != nil {
		log.Error().Err(err).Msg("failed to build booking version")

		return res, fmt.Errorf("failed to build booking version: %w", err)
	}

	fields := shared.TransformFields(req, editor)
	fields[model.FieldLastEditedBy] = editor

	if merged.RoomNo != current.RoomNo {
		fields[model.FieldRoomID] = s.resolveRoomID(ctx, merged.RoomNo)
	}

	if isManagerEdit {
		fields[model.FieldVersionNumber] = current.VersionNumber + 1
	}

	if err = s.repo.UpdateWithSnapshot(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName), version); err != nil {
		log.Error().Err(err).Msg("failed to update booking")

		return res, fmt.Errorf("failed to update booking: %w", err)
	}

	s.invalidateCaches(ctx)

	return s.freshResponse(ctx, id)
}

func (s *serviceImpl) Authorize(ctx context.Context, id string, req dto.AuthorizeBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Authorize")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if booking.Status == model.StatusAuthorized {
		res.FromModel(booking)

		return res, nil
	}

	authorizedBy := req.AuthorizedBy
	if authorizedBy == constant.Empty {
		authorizedBy = actorDisplayName(ctx)
	}

	fields := model.StatusFields(model.StatusAuthorized)
	fields[model.FieldAuthorizedBy] = authorizedBy

	if err = s.transition(ctx, booking, fields); err != nil {
		return res, err
	}

	return s.freshResponse(ctx, id)
}

func (s *serviceImpl) Reject(ctx context.Context, id string, req dto.RejectBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Reject")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	fields := model.StatusFields(model.StatusRejected)
	fields[model.FieldRejectedBy] = actorDisplayName(ctx)
	fields[model.FieldRejectionReason] = req.Reason

	if err = s.transition(ctx, booking, fields); err != nil {
		return res, err
	}

	return s.freshResponse(ctx, id)
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if booking.IsDeleted() {
		return nil
	}

	fields := map[string]any{
		model.FieldDeletedAt: timezone.Now(),
		model.FieldDeletedBy: actorUsername(ctx),
	}

	return s.transition(ctx, booking, fields)
}

func (s *serviceImpl) Restore(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Restore")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if !booking.IsDeleted() {
		return res, failure.Conflict("booking is not deleted")
	}

	window := time.Duration(s.cfg.Booking.RestoreWindowDays) * 24 * time.Hour
	if timezone.Now().Sub(*booking.DeletedAt) >= window {
		return res, failure.Conflict("booking can no longer be restored")
	}

	fields := map[string]any{
		model.FieldDeletedAt: nil,
		model.FieldDeletedBy: nil,
	}

	if err = s.transition(ctx, booking, fields); err != nil {
		return res, err
	}

	return s.freshResponse(ctx, id)
}

func (s *serviceImpl) Versions(ctx context.Context, id string) (res dto.GetVersionsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Versions")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheBookingVersion, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking versions")

		return res, nil
	}

	if _, err = s.find(ctx, id); err != nil {
		return res, err
	}

	versions, err := s.repo.Versions(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking versions")

		return res, fmt.Errorf("failed to get booking versions: %w", err)
	}

	res.FromModels(versions)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking versions to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) DailyTotals(ctx context.Context, date string) (res dto.DailyTotalsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.DailyTotals")
	defer scope.End()
	defer scope.TraceIfError(err)

	target := timezone.Now()

	if date != constant.Empty {
		target, err = timezone.Parse(constant.DateFormat, date)
		if err != nil {
			return res, failure.BadRequestFromString("invalid date parameter")
		}
	}

	filter := dailyTotalsFilter(target)

	count, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count daily bookings")

		return res, fmt.Errorf("failed to count daily bookings: %w", err)
	}

	total, err := s.repo.SumAmount(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to sum daily booking amounts")

		return res, fmt.Errorf("failed to sum daily booking amounts: %w", err)
	}

	res.Date = target.Format(constant.DateFormat)
	res.TotalBookings = count
	res.TotalAmountGHS = total

	return res, nil
}

// find fetches a booking by id, including soft-deleted rows.
func (s *serviceImpl) find(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found")
	}

	return booking, nil
}

// transition applies a guarded status/soft-delete update keyed on the
// modified_at the caller just read. Zero matched rows means someone else got
// there first.
func (s *serviceImpl) transition(ctx context.Context, booking model.Booking, fields map[string]any) error {
	fields[constant.FieldModifiedAt] = timezone.Now()
	fields[constant.FieldModifiedBy] = actorUsername(ctx)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Value:    booking.ID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "guard_modified_at",
				Field:    constant.FieldModifiedAt,
				Value:    booking.ModifiedAt,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}

	affected, err := s.repo.TransitionStatus(ctx, fields, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to transition booking")

		return fmt.Errorf("failed to transition booking: %w", err)
	}

	if affected == 0 {
		return failure.Conflict("booking was modified by another request")
	}

	s.invalidateCaches(ctx)

	return nil
}

func (s *serviceImpl) freshResponse(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	booking, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	return res, nil
}

// visibilityFilter shapes the listing by role: receptionists only see live
// authorized bookings, managers see soft-deleted rows only on request.
func (s *serviceImpl) visibilityFilter(ctx context.Context, filter gDto.FilterGroup, includeDeleted bool) gDto.FilterGroup {
	if filter.Operator == constant.Empty {
		filter.Operator = gDto.FilterGroupOperatorAnd
	}

	if actorRole(ctx) != constant.RoleManager {
		filter.Filters = append(filter.Filters,
			gDto.Filter{
				ArgName:  "visibility_status",
				Field:    model.FieldStatus,
				Value:    model.StatusAuthorized,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldDeletedAt,
				Operator: gDto.FilterIsNull,
				Table:    model.TableName,
			},
		)

		return filter
	}

	if !includeDeleted {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldDeletedAt,
			Operator: gDto.FilterIsNull,
			Table:    model.TableName,
		})
	}

	return filter
}

// resolveRoomID looks up the room by number. Bookings keep working when the
// number doesn't match a catalog entry, the reference is just left empty.
func (s *serviceImpl) resolveRoomID(ctx context.Context, roomNo string) *string {
	if roomNo == constant.Empty {
		return nil
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    roomModel.FieldRoomNumber,
				Value:    roomNo,
				Operator: gDto.FilterOperatorEq,
				Table:    roomModel.TableName,
			},
		},
	}

	room, err := s.roomRepo.Get(ctx, filter)
	if err != nil || room.ID == constant.Empty {
		log.Warn().Str("roomNo", roomNo).Msg("booking references unknown room number")

		return nil
	}

	return &room.ID
}

func (s *serviceImpl) warnIfUnavailable(ctx context.Context, booking model.Booking) {
	records, err := s.roomRepo.ActiveStays(ctx, booking.RoomNo, constant.Empty)
	if err != nil {
		log.Error().Err(err).Str("roomNo", booking.RoomNo).Msg("failed to check room stays")

		return
	}

	stays := make([]availability.Stay, len(records))
	for i, record := range records {
		stays[i] = availability.Stay{CheckIn: record.CheckInDate, CheckOut: record.CheckOutDate}
	}

	if !availability.IsAvailable(true, stays, booking.CheckInDate, booking.CheckOutDate) {
		log.Warn().
			Str("roomNo", booking.RoomNo).
			Str("checkInDate", booking.CheckInDate.Format(constant.DateFormat)).
			Msg("booking overlaps an existing stay")
	}
}

func (s *serviceImpl) invalidateCaches(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetBooking)
		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
		shared.InvalidateCaches(c, s.cache, cacheBookingVersion)
	}()
}

func dailyTotalsFilter(target time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldIsOriginal,
				Value:    true,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldCheckInDate,
				Value:    target.Format(constant.DateFormat),
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldDeletedAt,
				Operator: gDto.FilterIsNull,
				Table:    model.TableName,
			},
		},
	}
}

func actorUsername(ctx context.Context) string {
	if username, ok := ctx.Value(constant.ContextKeyUsername).(string); ok && username != constant.Empty {
		return username
	}

	return constant.ContextSystem
}

func actorRole(ctx context.Context) string {
	if role, ok := ctx.Value(constant.ContextKeyUserRole).(string); ok {
		return role
	}

	return constant.ContextGuest
}

// actorDisplayName prefers the full name claim, falling back to the username.
func actorDisplayName(ctx context.Context) string {
	if fullName, ok := ctx.Value(constant.ContextKeyFullName).(string); ok && fullName != constant.Empty {
		return fullName
	}

	return actorUsername(ctx)
}
