//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/margav-energy/Pama-Lodge/config"
	"github.com/margav-energy/Pama-Lodge/infras/jwt"
	"github.com/margav-energy/Pama-Lodge/infras/otel"
	"github.com/margav-energy/Pama-Lodge/infras/postgres"
	"github.com/margav-energy/Pama-Lodge/infras/redis"
	"github.com/margav-energy/Pama-Lodge/permissions"
	"github.com/margav-energy/Pama-Lodge/shared/cache"
	"github.com/margav-energy/Pama-Lodge/transport/http"
	"github.com/margav-energy/Pama-Lodge/transport/http/middleware"
	"github.com/margav-energy/Pama-Lodge/transport/http/router"

	authService "github.com/margav-energy/Pama-Lodge/internal/domains/auth/service"
	bookingRepository "github.com/margav-energy/Pama-Lodge/internal/domains/booking/repository"
	bookingService "github.com/margav-energy/Pama-Lodge/internal/domains/booking/service"
	issueRepository "github.com/margav-energy/Pama-Lodge/internal/domains/issue/repository"
	issueService "github.com/margav-energy/Pama-Lodge/internal/domains/issue/service"
	roomRepository "github.com/margav-energy/Pama-Lodge/internal/domains/room/repository"
	roomService "github.com/margav-energy/Pama-Lodge/internal/domains/room/service"
	userRepository "github.com/margav-energy/Pama-Lodge/internal/domains/user/repository"
	userService "github.com/margav-energy/Pama-Lodge/internal/domains/user/service"

	authHandler "github.com/margav-energy/Pama-Lodge/internal/handlers/auth"
	bookingHandler "github.com/margav-energy/Pama-Lodge/internal/handlers/booking"
	issueHandler "github.com/margav-energy/Pama-Lodge/internal/handlers/issue"
	roomHandler "github.com/margav-energy/Pama-Lodge/internal/handlers/room"
	userHandler "github.com/margav-energy/Pama-Lodge/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
)

var middlewares = wire.NewSet(
	permissions.Get,
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var authDomain = wire.NewSet(
	userRepository.New,
	userService.New,
	authService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var issueDomain = wire.NewSet(
	issueRepository.New,
	issueService.New,
)

var domains = wire.NewSet(
	authDomain,
	roomDomain,
	bookingDomain,
	issueDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	roomHandler.New,
	bookingHandler.New,
	issueHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
