package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"todoapi/infras/database"
	"todoapi/infras/otel"
	"todoapi/internal/domains/todo/model"
	"todoapi/shared/constant"
	gDto "todoapi/shared/dto"
	gRepo "todoapi/shared/repository"
)

type Todo interface {
	Insert(ctx context.Context, model model.Todo) error
	InsertBulk(ctx context.Context, models []model.Todo) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Todo, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Todo, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Store[model.Todo]
}

func New(db *database.Connection, otel otel.Otel) Todo {
	return &repositoryImpl{
		Store: gRepo.NewStore[model.Todo](model.EntityName, model.TableName, model.FieldID, db, otel,
			gRepo.Index{Fields: []string{constant.FieldCreatedAt, model.FieldID}},
		),
	}
}
