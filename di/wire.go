//go:build wireinject
// +build wireinject

package di

import (
	"todoapi/config"
	"todoapi/infras/database"
	"todoapi/infras/otel"
	"todoapi/infras/redis"
	"todoapi/infras/storage"
	attachmentHandler "todoapi/internal/handlers/attachment"
	todoHandler "todoapi/internal/handlers/todo"
	"todoapi/shared/cache"
	"todoapi/shared/event"
	"todoapi/shared/idgen"
	"todoapi/transport/http"
	"todoapi/transport/http/middleware"
	"todoapi/transport/http/router"

	attachmentRepository "todoapi/internal/domains/attachment/repository"
	attachmentService "todoapi/internal/domains/attachment/service"
	todoRepository "todoapi/internal/domains/todo/repository"
	todoService "todoapi/internal/domains/todo/service"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	database.New,
	wire.Bind(new(database.Transactor), new(*database.Connection)),
	otel.New,
	redis.New,
	storage.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	event.NewPublisher,
	idgen.New,
)

var todoDomain = wire.NewSet(
	todoRepository.New,
	todoService.New,
)

var attachmentDomain = wire.NewSet(
	attachmentRepository.New,
	attachmentService.New,
)

var domains = wire.NewSet(
	todoDomain,
	attachmentDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	todoHandler.New,
	attachmentHandler.New,
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
