package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"todoapi/infras/database"
	"todoapi/infras/otel"
	"todoapi/internal/domains/attachment/model"
	"todoapi/shared/constant"
	gDto "todoapi/shared/dto"
	gRepo "todoapi/shared/repository"
)

type Attachment interface {
	Insert(ctx context.Context, model model.Attachment) error
	InsertBulk(ctx context.Context, models []model.Attachment) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Attachment, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Attachment, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Store[model.Attachment]
}

func New(db *database.Connection, otel otel.Otel) Attachment {
	return &repositoryImpl{
		Store: gRepo.NewStore[model.Attachment](model.EntityName, model.TableName, model.FieldID, db, otel,
			gRepo.Index{Fields: []string{model.FieldTodoID, constant.FieldCreatedAt, model.FieldID}},
		),
	}
}
