package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Todo=MockTodoService

import (
	"context"
	"fmt"
	"time"

	"todoapi/infras/database"
	"todoapi/infras/otel"
	attachmentService "todoapi/internal/domains/attachment/service"
	"todoapi/internal/domains/todo/model"
	"todoapi/internal/domains/todo/model/dto"
	"todoapi/internal/domains/todo/repository"
	"todoapi/shared"
	"todoapi/shared/constant"
	gDto "todoapi/shared/dto"
	"todoapi/shared/event"
	"todoapi/shared/failure"
	"todoapi/shared/idgen"
	"todoapi/shared/timezone"

	"github.com/rs/zerolog/log"
)

type Todo interface {
	Create(ctx context.Context, req dto.CreateTodoRequest) (dto.TodoResponse, error)
	GetAll(ctx context.Context) ([]dto.TodoResponse, error)
	Get(ctx context.Context, id string) (dto.TodoResponse, error)
	Update(ctx context.Context, req dto.UpdateTodoRequest, id string) (dto.TodoResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo        repository.Todo
	attachments attachmentService.Attachment
	tx          database.Transactor
	ids         idgen.Generator
	events      event.Publisher
	otel        otel.Otel
}

func New(
	repo repository.Todo,
	attachments attachmentService.Attachment,
	tx database.Transactor,
	ids idgen.Generator,
	events event.Publisher,
	otel otel.Otel,
) Todo {
	return &serviceImpl{
		repo:        repo,
		attachments: attachments,
		tx:          tx,
		ids:         ids,
		events:      events,
		otel:        otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateTodoRequest) (res dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".todo.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	todo := req.ToModel(s.ids.NewID(), timezone.Now().UTC())

	if err = todo.Validate().Err(); err != nil {
		return res, err //nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, todo); err != nil {
		log.Error().Err(err).Msg("failed to create todo")

		return res, fmt.Errorf("failed to create todo: %w", err)
	}

	scope.SetAttribute("todo.id", todo.ID)

	res.FromModel(todo)
	s.publish(ctx, event.New(event.TodoCreated, todo.ID, todo.ID, res))

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context) (res []dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".todo.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	models, err := s.repo.GetAll(ctx, gDto.InsertionOrder(), gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get todos")

		return nil, fmt.Errorf("failed to get todos: %w", err)
	}

	scope.SetAttribute("todo.count", len(models))

	return dto.FromModels(models), nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".todo.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	todo, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(todo)

	return res, nil
}

// Update applies the keys present in req. A body with no known keys leaves
// the todo untouched and returns it as stored.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateTodoRequest, id string) (res dto.TodoResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".todo.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	todo, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if err = req.Validate().Err(); err != nil {
		return res, err //nolint:wrapcheck
	}

	if req.IsEmpty() {
		res.FromModel(todo)

		return res, nil
	}

	fields := shared.Touch(req.ToFields())

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update todo")

		return res, fmt.Errorf("failed to update todo: %w", err)
	}

	todo = req.Apply(todo)
	if modifiedAt, ok := fields[constant.FieldModifiedAt].(time.Time); ok {
		todo.ModifiedAt = modifiedAt
	}

	res.FromModel(todo)
	s.publish(ctx, event.New(event.TodoUpdated, todo.ID, todo.ID, res))

	return res, nil
}

// Delete removes the todo together with its attachments in one unit of
// work. Attachment files go once it commits.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".todo.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if todo exists")

		return fmt.Errorf("failed to check if todo exists: %w", err)
	}

	if !exist {
		return failure.NotFound("todo not found") //nolint:wrapcheck
	}

	var removed int

	err = s.tx.Transact(ctx, func(ctx context.Context) error {
		var txErr error

		removed, txErr = s.attachments.DeleteByTodo(ctx, id)
		if txErr != nil {
			return fmt.Errorf("failed to delete todo attachments: %w", txErr)
		}

		if txErr = s.repo.Delete(ctx, filter); txErr != nil {
			log.Error().Err(txErr).Msg("failed to delete todo")

			return fmt.Errorf("failed to delete todo: %w", txErr)
		}

		return nil
	})
	if err != nil {
		return err //nolint:wrapcheck
	}

	scope.SetAttribute("attachment.count", removed)
	s.publish(ctx, event.New(event.TodoDeleted, id, id, nil))

	return nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Todo, error) {
	todo, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get todo")

		return todo, fmt.Errorf("failed to get todo: %w", err)
	}

	if !todo.Exists() {
		return todo, failure.NotFound("todo not found") //nolint:wrapcheck
	}

	return todo, nil
}

func (s *serviceImpl) publish(ctx context.Context, events ...event.Event) {
	if err := s.events.Publish(context.WithoutCancel(ctx), events...); err != nil {
		log.Error().Err(err).Msg("failed to publish todo events")
	}
}
