package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/margav-energy/Pama-Lodge/internal/handlers/auth"
	"github.com/margav-energy/Pama-Lodge/internal/handlers/booking"
	"github.com/margav-energy/Pama-Lodge/internal/handlers/issue"
	"github.com/margav-energy/Pama-Lodge/internal/handlers/room"
	"github.com/margav-energy/Pama-Lodge/internal/handlers/user"
)

type DomainHandlers struct {
	Auth    auth.Handler
	User    user.Handler
	Room    room.Handler
	Booking booking.Handler
	Issue   issue.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Room.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Issue.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
