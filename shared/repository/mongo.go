package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"todoapi/infras/database"
	"todoapi/infras/otel"
	"todoapi/shared/constant"
	"todoapi/shared/dto"
	"todoapi/shared/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoIDField       = "_id"
	indexEnsureTimeout = 10 * time.Second
)

// Index describes a secondary index. SQL drivers get theirs from migrations.
type Index struct {
	Fields []string
}

// Mongo is the MongoDB implementation of Store. Filters and sort keys use the
// same field names as the SQL repository; the primary column maps to _id.
type Mongo[T any] struct {
	collection    *mongo.Collection
	otel          otel.Otel
	entitas       string
	primaryColumn string
}

func NewMongo[T any](entitasName, collectionName, primaryColumn string, dbConnection *database.Connection, otl otel.Otel, indexes ...Index) Mongo[T] {
	repo := Mongo[T]{
		collection:    dbConnection.Mongo.Collection(collectionName),
		otel:          otl,
		entitas:       entitasName,
		primaryColumn: primaryColumn,
	}

	if len(indexes) > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), indexEnsureTimeout)
		defer cancel()

		if err := repo.EnsureIndexes(ctx, indexes...); err != nil {
			logger.ErrorWithStack(err)
		}
	}

	return repo
}

func (repo *Mongo[T]) field(name string) string {
	if name == repo.primaryColumn {
		return mongoIDField
	}

	return name
}

func (repo *Mongo[T]) query(filter dto.FilterGroup) (bson.M, error) {
	query, err := filter.ToBSON(repo.field)
	if err != nil {
		return nil, fmt.Errorf("failed to build query (%s): %w", repo.entitas, err)
	}

	return query, nil
}

func (repo *Mongo[T]) projection(columns []string) bson.M {
	if len(columns) == 0 {
		return nil
	}

	projection := bson.M{}
	for _, col := range columns {
		projection[repo.field(col)] = 1
	}

	return projection
}

func (repo *Mongo[T]) EnsureIndexes(ctx context.Context, indexes ...Index) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.EnsureIndexes", constant.OtelRepositoryScopeName, repo.entitas))
	defer scope.End()

	models := make([]mongo.IndexModel, 0, len(indexes))

	for _, index := range indexes {
		keys := bson.D{}
		for _, field := range index.Fields {
			keys = append(keys, bson.E{Key: repo.field(field), Value: 1})
		}

		models = append(models, mongo.IndexModel{
			Keys:    keys,
			Options: options.Index().SetName(fmt.Sprintf("idx_%s_%s", repo.collection.Name(), strings.Join(index.Fields, "_"))),
		})
	}

	_, err := repo.collection.Indexes().CreateMany(ctx, models)
	if err != nil {
		scope.TraceError(err)

		return fmt.Errorf("failed to ensure indexes (%s): %w", repo.entitas, err)
	}

	return nil
}

func (repo *Mongo[T]) Insert(ctx context.Context, model T) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.Insert", constant.OtelRepositoryScopeName, repo.entitas))
	defer scope.End()

	_, err := repo.collection.InsertOne(ctx, model)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to insert data (%s): %w", repo.entitas, err)
	}

	return nil
}

func (repo *Mongo[T]) InsertBulk(ctx context.Context, models []T) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.InsertBulk", constant.OtelRepositoryScopeName, repo.entitas))
	defer scope.End()

	if len(models) == 0 {
		return nil
	}

	docs := make([]any, len(models))
	for i, model := range models {
		docs[i] = model
	}

	_, err := repo.collection.InsertMany(ctx, docs)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to bulk insert data (%s): %w", repo.entitas, err)
	}

	return nil
}

func (repo *Mongo[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.Get", constant.OtelRepositoryScopeName, repo.entitas))
	defer scope.End()

	var model T

	opts := options.FindOne()
	if projection := repo.projection(columns); projection != nil {
		opts.SetProjection(projection)
	}

	query, err := repo.query(filter)
	if err != nil {
		scope.TraceError(err)

		return model, err
	}

	err = repo.collection.FindOne(ctx, query, opts).Decode(&model)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return model, fmt.Errorf("failed to get data (%s): %w", repo.entitas, err)
	}

	return model, nil
}

func (repo *Mongo[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.GetAll", constant.OtelRepositoryScopeName, repo.entitas))
	defer scope.End()

	opts := options.Find()

	if params.SortBy != "" && params.SortDir != "" {
		dir := 1
		if strings.EqualFold(params.SortDir, dto.SortDirDesc) {
			dir = -1
		}

		opts.SetSort(bson.D{
			{Key: repo.field(params.SortBy), Value: dir},
			{Key: mongoIDField, Value: dir},
		})
	}

	if params.Limit > 0 {
		opts.SetLimit(int64(params.Limit))

		if params.Page > 0 {
			opts.SetSkip(int64((params.Page - 1) * params.Limit))
		}
	}

	if projection := repo.projection(columns); projection != nil {
		opts.SetProjection(projection)
	}

	models := []T{}

	query, err := repo.query(filter)
	if err != nil {
		scope.TraceError(err)

		return models, err
	}

	cursor, err := repo.collection.Find(ctx, query, opts)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return models, fmt.Errorf("failed to get all data (%s): %w", repo.entitas, err)
	}

	err = cursor.All(ctx, &models)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return models, fmt.Errorf("failed to decode data (%s): %w", repo.entitas, err)
	}

	return models, nil
}

func (repo *Mongo[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.Exist", constant.OtelRepositoryScopeName, repo.entitas))
	defer scope.End()

	query, err := repo.query(filter)
	if err != nil {
		scope.TraceError(err)

		return false, err
	}

	if len(query) == 0 {
		return false, errRequiredFilter
	}

	count, err := repo.collection.CountDocuments(ctx, query, options.Count().SetLimit(1))
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to check exist data (%s): %w", repo.entitas, err)
	}

	return count > 0, nil
}

func (repo *Mongo[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.Count", constant.OtelRepositoryScopeName, repo.entitas))
	defer scope.End()

	query, err := repo.query(filter)
	if err != nil {
		scope.TraceError(err)

		return 0, err
	}

	count, err := repo.collection.CountDocuments(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to count data (%s): %w", repo.entitas, err)
	}

	return int(count), nil
}

func (repo *Mongo[T]) Update(ctx context.Context, mod map[string]any, filter dto.FilterGroup) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.Update", constant.OtelRepositoryScopeName, repo.entitas))
	defer scope.End()

	if len(mod) == 0 {
		return errRequiredFields
	}

	query, err := repo.query(filter)
	if err != nil {
		scope.TraceError(err)

		return err
	}

	if len(query) == 0 {
		return errRequiredFilter
	}

	set := bson.M{}
	for col, val := range mod {
		set[repo.field(col)] = val
	}

	_, err = repo.collection.UpdateMany(ctx, query, bson.M{"$set": set})
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to update data (%s): %w", repo.entitas, err)
	}

	return nil
}

func (repo *Mongo[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.Delete", constant.OtelRepositoryScopeName, repo.entitas))
	defer scope.End()

	query, err := repo.query(filter)
	if err != nil {
		scope.TraceError(err)

		return err
	}

	if len(query) == 0 {
		return errRequiredFilter
	}

	_, err = repo.collection.DeleteMany(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to delete data (%s): %w", repo.entitas, err)
	}

	return nil
}
