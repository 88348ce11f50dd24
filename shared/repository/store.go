package repository

import (
	"context"

	"todoapi/infras/database"
	"todoapi/infras/otel"
	"todoapi/shared/dto"
)

// Store is the method set shared by the SQL and Mongo repositories. Get
// returns the zero value of T when nothing matches.
type Store[T any] interface {
	Insert(ctx context.Context, model T) error
	InsertBulk(ctx context.Context, models []T) error
	Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error)
	GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error)
	Exist(ctx context.Context, filter dto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter dto.FilterGroup) (int, error)
	Update(ctx context.Context, mod map[string]any, filter dto.FilterGroup) error
	Delete(ctx context.Context, filter dto.FilterGroup) error
}

var (
	_ Store[struct{}] = (*Repository[struct{}])(nil)
	_ Store[struct{}] = (*Mongo[struct{}])(nil)
)

// NewStore picks the repository matching the driver of dbConnection.
func NewStore[T any](entitasName, tableName, primaryColumn string, dbConnection *database.Connection, otl otel.Otel, indexes ...Index) Store[T] {
	if dbConnection.IsSQL() {
		repo := NewRepository[T](entitasName, tableName, primaryColumn, dbConnection, otl)

		return &repo
	}

	repo := NewMongo[T](entitasName, tableName, primaryColumn, dbConnection, otl, indexes...)

	return &repo
}
