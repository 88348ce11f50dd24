package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"todoapi/infras/otel/mocks"
	attachmentMocks "todoapi/internal/domains/attachment/mocks"
	todoMocks "todoapi/internal/domains/todo/mocks"
	"todoapi/internal/domains/todo/model"
	"todoapi/internal/domains/todo/model/dto"
	"todoapi/internal/domains/todo/service"
	"todoapi/shared/constant"
	gDto "todoapi/shared/dto"
	"todoapi/shared/event"
	eventMocks "todoapi/shared/event/mocks"
	"todoapi/shared/failure"
	gModel "todoapi/shared/model"
)

type fixture struct {
	repo        *todoMocks.MockTodo
	attachments *attachmentMocks.MockAttachmentService
	events      *eventMocks.MockPublisher
	tx          *unitOfWork
	svc         service.Todo
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:        todoMocks.NewMockTodo(ctrl),
		attachments: attachmentMocks.NewMockAttachmentService(ctrl),
		events:      eventMocks.NewMockPublisher(ctrl),
		tx:          &unitOfWork{},
	}

	f.svc = service.New(f.repo, f.attachments, f.tx, sequence{}, f.events, mocks.NewOtel())

	return f
}

type txMarker struct{}

// unitOfWork marks the context it hands to fn and keeps the outcome.
type unitOfWork struct {
	runs   int
	result error
}

func (u *unitOfWork) Transact(ctx context.Context, fn func(ctx context.Context) error) error {
	u.runs++
	u.result = fn(context.WithValue(ctx, txMarker{}, true))

	return u.result
}

func inTx(ctx context.Context) bool {
	marked, _ := ctx.Value(txMarker{}).(bool)

	return marked
}

type sequence struct{}

func (sequence) NewID() string { return "todo-1" }

func strPtr(s string) *string { return &s }

func storedTodo() model.Todo {
	created := time.Date(2026, 2, 19, 8, 0, 0, 0, time.UTC)

	return model.Todo{
		ID:          "todo-1",
		Title:       "Buy milk",
		Description: strPtr("2 litres"),
		Metadata:    gModel.NewMetadata(created),
	}
}

func TestTodoService_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, todo model.Todo) error {
				assert.Equal(t, "todo-1", todo.ID)
				assert.Equal(t, "Buy milk", todo.Title)
				assert.Equal(t, time.UTC, todo.CreatedAt.Location())
				assert.Equal(t, todo.CreatedAt, todo.ModifiedAt)

				return nil
			})
		f.events.EXPECT().
			Publish(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, events ...event.Event) error {
				assert.Equal(t, event.TodoCreated, events[0].Type)
				assert.Equal(t, "todo-1", events[0].ResourceID)

				return nil
			})

		res, err := f.svc.Create(context.Background(), dto.CreateTodoRequest{Title: "Buy milk"})
		require.NoError(t, err)

		assert.Equal(t, "todo-1", res.ID)
		assert.Nil(t, res.Description)
		assert.NotEmpty(t, res.CreatedAt)
	})

	t.Run("publish failure is not fatal", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
		f.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

		_, err := f.svc.Create(context.Background(), dto.CreateTodoRequest{Title: "Buy milk"})
		assert.NoError(t, err)
	})

	t.Run("blank title", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(context.Background(), dto.CreateTodoRequest{Title: "  "})
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("repository failure", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		_, err := f.svc.Create(context.Background(), dto.CreateTodoRequest{Title: "Buy milk"})
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestTodoService_GetAll(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().
		GetAll(gomock.Any(), gDto.InsertionOrder(), gDto.FilterGroup{}).
		Return(nil, nil)

	res, err := f.svc.GetAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Empty(t, res)

	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Todo{storedTodo()}, nil)

	res, err = f.svc.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Buy milk", res[0].Title)

	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	_, err = f.svc.GetAll(context.Background())
	assert.Error(t, err)
}

func TestTodoService_Get(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedTodo(), nil)

	res, err := f.svc.Get(context.Background(), "todo-1")
	require.NoError(t, err)
	assert.Equal(t, "2 litres", *res.Description)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Todo{}, nil)

	_, err = f.svc.Get(context.Background(), "missing")
	assert.True(t, failure.IsNotFound(err))

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Todo{}, errors.New("db down"))

	_, err = f.svc.Get(context.Background(), "todo-1")
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
}

func TestTodoService_TracesReturnedErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := todoMocks.NewMockTodo(ctrl)
	recorder := mocks.NewRecorder()
	svc := service.New(repo, attachmentMocks.NewMockAttachmentService(ctrl), &unitOfWork{}, sequence{}, eventMocks.NewMockPublisher(ctrl), recorder)

	repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Todo{}, errors.New("db down"))

	_, err := svc.Get(context.Background(), "todo-1")
	require.Error(t, err)

	traced := recorder.Errors("service.todo.Get")
	require.Len(t, traced, 1)
	assert.ErrorIs(t, err, traced[0])

	repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedTodo(), nil)

	_, err = svc.Get(context.Background(), "todo-1")
	require.NoError(t, err)
	assert.Len(t, recorder.Errors("service.todo.Get"), 1)
}

func TestTodoService_Update(t *testing.T) {
	t.Run("applies present keys", func(t *testing.T) {
		f := newFixture(t)

		req := dto.UpdateTodoRequest{
			Title:       gDto.OptionalString{Set: true, Value: strPtr("Buy oat milk")},
			Description: gDto.OptionalString{Set: true},
		}

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedTodo(), nil)
		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, "Buy oat milk", fields[model.FieldTitle])
				assert.Contains(t, fields, model.FieldDescription)
				assert.Nil(t, fields[model.FieldDescription])
				assert.NotContains(t, fields, model.FieldDueAt)
				assert.Contains(t, fields, constant.FieldModifiedAt)

				return nil
			})
		f.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.Update(context.Background(), req, "todo-1")
		require.NoError(t, err)

		assert.Equal(t, "Buy oat milk", res.Title)
		assert.Nil(t, res.Description)
		assert.NotEqual(t, res.CreatedAt, res.ModifiedAt)
	})

	t.Run("empty body returns stored todo", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedTodo(), nil)

		res, err := f.svc.Update(context.Background(), dto.UpdateTodoRequest{}, "todo-1")
		require.NoError(t, err)
		assert.Equal(t, "Buy milk", res.Title)
		assert.Equal(t, res.CreatedAt, res.ModifiedAt)
	})

	t.Run("null title", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedTodo(), nil)

		_, err := f.svc.Update(context.Background(), dto.UpdateTodoRequest{Title: gDto.OptionalString{Set: true}}, "todo-1")
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Todo{}, nil)

		_, err := f.svc.Update(context.Background(), dto.UpdateTodoRequest{}, "missing")
		assert.True(t, failure.IsNotFound(err))
	})

	t.Run("repository failure", func(t *testing.T) {
		f := newFixture(t)

		req := dto.UpdateTodoRequest{Title: gDto.OptionalString{Set: true, Value: strPtr("x")}}

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(storedTodo(), nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		_, err := f.svc.Update(context.Background(), req, "todo-1")
		assert.Error(t, err)
	})
}

func TestTodoService_Delete(t *testing.T) {
	t.Run("cascades to attachments", func(t *testing.T) {
		f := newFixture(t)

		gomock.InOrder(
			f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil),
			f.attachments.EXPECT().
				DeleteByTodo(gomock.Any(), "todo-1").
				DoAndReturn(func(ctx context.Context, _ string) (int, error) {
					assert.True(t, inTx(ctx))

					return 2, nil
				}),
			f.repo.EXPECT().
				Delete(gomock.Any(), gomock.Any()).
				DoAndReturn(func(ctx context.Context, _ gDto.FilterGroup) error {
					assert.True(t, inTx(ctx))

					return nil
				}),
			f.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil),
		)

		assert.NoError(t, f.svc.Delete(context.Background(), "todo-1"))
		assert.Equal(t, 1, f.tx.runs)
		assert.NoError(t, f.tx.result)
	})

	t.Run("todo delete failure fails the unit of work", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.attachments.EXPECT().DeleteByTodo(gomock.Any(), "todo-1").Return(2, nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		err := f.svc.Delete(context.Background(), "todo-1")
		require.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
		assert.ErrorIs(t, f.tx.result, err)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		assert.True(t, failure.IsNotFound(f.svc.Delete(context.Background(), "missing")))
	})

	t.Run("attachment failure keeps todo", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.attachments.EXPECT().DeleteByTodo(gomock.Any(), gomock.Any()).Return(0, errors.New("db down"))

		assert.Error(t, f.svc.Delete(context.Background(), "todo-1"))
		assert.Error(t, f.tx.result)
	})
}
