package router

import (
	"todoapi/internal/handlers/attachment"
	"todoapi/internal/handlers/todo"
	"todoapi/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Todo       todo.Handler
	Attachment attachment.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	Middleware     middleware.AppMiddleware
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Group(func(routerGroup chi.Router) {
		routerGroup.Use(r.Middleware.RateLimit)

		r.DomainHandlers.Todo.Router(routerGroup)
		r.DomainHandlers.Attachment.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, middleware middleware.AppMiddleware) Router {
	return Router{
		DomainHandlers: domainHandlers,
		Middleware:     middleware,
	}
}
