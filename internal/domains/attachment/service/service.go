package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Attachment=MockAttachmentService

import (
	"context"
	"fmt"

	"todoapi/infras/database"
	"todoapi/infras/otel"
	"todoapi/infras/storage"
	"todoapi/internal/domains/attachment/model"
	"todoapi/internal/domains/attachment/model/dto"
	"todoapi/internal/domains/attachment/repository"
	todoModel "todoapi/internal/domains/todo/model"
	todoRepository "todoapi/internal/domains/todo/repository"
	"todoapi/shared"
	"todoapi/shared/constant"
	gDto "todoapi/shared/dto"
	"todoapi/shared/event"
	"todoapi/shared/failure"
	"todoapi/shared/idgen"
	gModel "todoapi/shared/model"
	"todoapi/shared/timezone"
	"todoapi/shared/validator"

	"github.com/rs/zerolog/log"
)

type Attachment interface {
	Upload(ctx context.Context, todoID string, file dto.UploadFile) (dto.AttachmentResponse, error)
	GetAll(ctx context.Context, todoID string) ([]dto.AttachmentResponse, error)
	Get(ctx context.Context, todoID, id string) (dto.AttachmentResponse, error)
	Delete(ctx context.Context, todoID, id string) error
	// DeleteByTodo removes every attachment of todoID and returns how many were
	// removed. Inside a unit of work, files and events wait for its commit.
	DeleteByTodo(ctx context.Context, todoID string) (int, error)
}

type serviceImpl struct {
	repo     repository.Attachment
	todoRepo todoRepository.Todo
	storage  storage.Storage
	ids      idgen.Generator
	events   event.Publisher
	otel     otel.Otel
}

func New(repo repository.Attachment, todoRepo todoRepository.Todo, storage storage.Storage, ids idgen.Generator, events event.Publisher, otel otel.Otel) Attachment {
	return &serviceImpl{
		repo:     repo,
		todoRepo: todoRepo,
		storage:  storage,
		ids:      ids,
		events:   events,
		otel:     otel,
	}
}

func byTodo(todoID string) gDto.FilterGroup {
	return shared.FilterByID(todoID, model.FieldTodoID, model.TableName)
}

func byTodoAndID(todoID, id string) gDto.FilterGroup {
	return shared.FilterByFields(model.TableName, map[string]any{
		model.FieldID:     id,
		model.FieldTodoID: todoID,
	})
}

func (s *serviceImpl) Upload(ctx context.Context, todoID string, file dto.UploadFile) (res dto.AttachmentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".attachment.Upload")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	exist, err := s.todoRepo.Exist(ctx, shared.FilterByID(todoID, todoModel.FieldID, todoModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if todo exists")

		return res, fmt.Errorf("failed to check if todo exists: %w", err)
	}

	if !exist {
		return res, failure.NotFound("todo not found") //nolint:wrapcheck
	}

	check := validator.Result{}
	check.RequireString("name", file.Name)

	if err = check.Err(); err != nil {
		return res, err //nolint:wrapcheck
	}

	id := s.ids.NewID()

	obj, err := s.storage.Save(ctx, todoID, id+"-"+file.Name, file.ContentType, file.Content)
	if err != nil {
		log.Error().Err(err).Str("todo_id", todoID).Msg("failed to store attachment file")

		return res, fmt.Errorf("failed to store attachment file: %w", err)
	}

	attachment := model.Attachment{
		ID:          id,
		TodoID:      todoID,
		Name:        file.Name,
		Size:        obj.Size,
		StoragePath: obj.Path,
		Metadata:    gModel.NewMetadata(timezone.Now().UTC()),
	}

	if err = attachment.Validate().Err(); err == nil {
		err = s.repo.Insert(ctx, attachment)
	}

	if err != nil {
		log.Error().Err(err).Str("todo_id", todoID).Msg("failed to create attachment")
		s.removeFile(ctx, obj.Path)

		return res, fmt.Errorf("failed to create attachment: %w", err)
	}

	scope.SetAttributes(map[string]any{
		"attachment.id":   attachment.ID,
		"attachment.size": attachment.Size,
	})

	res.FromModel(attachment)
	s.publish(ctx, event.New(event.AttachmentCreated, todoID, attachment.ID, res))

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, todoID string) (res []dto.AttachmentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".attachment.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	models, err := s.repo.GetAll(ctx, gDto.InsertionOrder(), byTodo(todoID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get attachments")

		return nil, fmt.Errorf("failed to get attachments: %w", err)
	}

	return dto.FromModels(models), nil
}

func (s *serviceImpl) Get(ctx context.Context, todoID, id string) (res dto.AttachmentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".attachment.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	attachment, err := s.repo.Get(ctx, byTodoAndID(todoID, id))
	if err != nil {
		log.Error().Err(err).Msg("failed to get attachment")

		return res, fmt.Errorf("failed to get attachment: %w", err)
	}

	if !attachment.Exists() {
		return res, failure.NotFound("attachment not found") //nolint:wrapcheck
	}

	res.FromModel(attachment)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, todoID, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".attachment.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := byTodoAndID(todoID, id)

	attachment, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get attachment")

		return fmt.Errorf("failed to get attachment: %w", err)
	}

	if !attachment.Exists() {
		return failure.NotFound("attachment not found") //nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete attachment")

		return fmt.Errorf("failed to delete attachment: %w", err)
	}

	s.removeFile(ctx, attachment.StoragePath)
	s.publish(ctx, event.New(event.AttachmentDeleted, todoID, id, nil))

	return nil
}

func (s *serviceImpl) DeleteByTodo(ctx context.Context, todoID string) (count int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".attachment.DeleteByTodo")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := byTodo(todoID)

	attachments, err := s.repo.GetAll(ctx, gDto.InsertionOrder(), filter, model.FieldID, model.FieldStoragePath)
	if err != nil {
		log.Error().Err(err).Msg("failed to get attachments")

		return 0, fmt.Errorf("failed to get attachments: %w", err)
	}

	if len(attachments) == 0 {
		return 0, nil
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete attachments")

		return 0, fmt.Errorf("failed to delete attachments: %w", err)
	}

	database.AfterCommit(ctx, func(ctx context.Context) {
		events := make([]event.Event, len(attachments))
		for i, attachment := range attachments {
			s.removeFile(ctx, attachment.StoragePath)
			events[i] = event.New(event.AttachmentDeleted, todoID, attachment.ID, nil)
		}

		s.publish(ctx, events...)
	})

	scope.SetAttribute("attachment.count", len(attachments))

	return len(attachments), nil
}

// removeFile deletes stored content without failing the request; the
// document is already gone or was never written.
func (s *serviceImpl) removeFile(ctx context.Context, path string) {
	if path == "" {
		return
	}

	if err := s.storage.Delete(context.WithoutCancel(ctx), path); err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to remove attachment file")
	}
}

func (s *serviceImpl) publish(ctx context.Context, events ...event.Event) {
	if err := s.events.Publish(context.WithoutCancel(ctx), events...); err != nil {
		log.Error().Err(err).Msg("failed to publish attachment events")
	}
}
