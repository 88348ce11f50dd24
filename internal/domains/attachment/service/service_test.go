package service_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"todoapi/config"
	"todoapi/infras/database"
	otelMocks "todoapi/infras/otel/mocks"
	"todoapi/infras/storage"
	storageMocks "todoapi/infras/storage/mocks"
	attachmentMocks "todoapi/internal/domains/attachment/mocks"
	"todoapi/internal/domains/attachment/model"
	"todoapi/internal/domains/attachment/model/dto"
	"todoapi/internal/domains/attachment/service"
	todoMocks "todoapi/internal/domains/todo/mocks"
	"todoapi/shared/event"
	eventMocks "todoapi/shared/event/mocks"
	"todoapi/shared/failure"
	idgenMocks "todoapi/shared/idgen/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	repo     *attachmentMocks.MockAttachment
	todoRepo *todoMocks.MockTodo
	storage  *storageMocks.MockStorage
	events   *eventMocks.MockPublisher
	svc      service.Attachment
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:     attachmentMocks.NewMockAttachment(ctrl),
		todoRepo: todoMocks.NewMockTodo(ctrl),
		storage:  storageMocks.NewMockStorage(ctrl),
		events:   eventMocks.NewMockPublisher(ctrl),
	}

	f.svc = service.New(f.repo, f.todoRepo, f.storage, idgenMocks.NewSequence("att"), f.events, otelMocks.NewOtel())

	return f
}

func TestAttachmentService_Upload(t *testing.T) {
	t.Run("stores file then document", func(t *testing.T) {
		f := newFixture(t)
		content := strings.NewReader("hello")

		f.todoRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.storage.EXPECT().
			Save(gomock.Any(), "t-1", "att-000001-hello.txt", "text/plain", content).
			Return(storage.Object{Path: "uploads/t-1/att-000001-hello.txt", Size: 5}, nil)
		f.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, m model.Attachment) error {
				assert.Equal(t, "att-000001", m.ID)
				assert.Equal(t, "t-1", m.TodoID)
				assert.Equal(t, "hello.txt", m.Name)
				assert.Equal(t, int64(5), m.Size)
				assert.Equal(t, "uploads/t-1/att-000001-hello.txt", m.StoragePath)
				assert.False(t, m.CreatedAt.IsZero())

				return nil
			})
		f.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.Upload(context.Background(), "t-1", dto.UploadFile{Name: "hello.txt", ContentType: "text/plain", Content: content})
		require.NoError(t, err)

		assert.Equal(t, "att-000001", res.ID)
		assert.Equal(t, int64(5), res.Size)
		assert.Equal(t, "t-1", res.TodoID)
	})

	t.Run("todo missing", func(t *testing.T) {
		f := newFixture(t)

		f.todoRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		_, err := f.svc.Upload(context.Background(), "t-404", dto.UploadFile{Name: "a.txt", Content: strings.NewReader("a")})
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("blank file name", func(t *testing.T) {
		f := newFixture(t)

		f.todoRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)

		_, err := f.svc.Upload(context.Background(), "t-1", dto.UploadFile{Name: " ", Content: strings.NewReader("a")})
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("storage failure", func(t *testing.T) {
		f := newFixture(t)

		f.todoRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.storage.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(storage.Object{}, errors.New("disk full"))

		_, err := f.svc.Upload(context.Background(), "t-1", dto.UploadFile{Name: "a.txt", Content: strings.NewReader("a")})
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})

	t.Run("document failure removes stored file", func(t *testing.T) {
		f := newFixture(t)

		f.todoRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.storage.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(storage.Object{Path: "uploads/t-1/x", Size: 1}, nil)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("write conflict"))
		f.storage.EXPECT().Delete(gomock.Any(), "uploads/t-1/x").Return(nil)

		_, err := f.svc.Upload(context.Background(), "t-1", dto.UploadFile{Name: "a.txt", Content: strings.NewReader("a")})
		assert.Error(t, err)
	})

	t.Run("exist check failure", func(t *testing.T) {
		f := newFixture(t)

		f.todoRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, errors.New("timeout"))

		_, err := f.svc.Upload(context.Background(), "t-1", dto.UploadFile{Name: "a.txt", Content: strings.NewReader("a")})
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestAttachmentService_GetAll(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	res, err := f.svc.GetAll(context.Background(), "t-1")
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Empty(t, res)

	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Attachment{{ID: "a-1", TodoID: "t-1"}, {ID: "a-2", TodoID: "t-1"}}, nil)

	res, err = f.svc.GetAll(context.Background(), "t-1")
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "a-1", res[0].ID)

	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))

	_, err = f.svc.GetAll(context.Background(), "t-1")
	assert.Error(t, err)
}

func TestAttachmentService_Get(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Attachment{ID: "a-1", TodoID: "t-1", Name: "a.txt"}, nil)

	res, err := f.svc.Get(context.Background(), "t-1", "a-1")
	require.NoError(t, err)
	assert.Equal(t, "a.txt", res.Name)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Attachment{}, nil)

	_, err = f.svc.Get(context.Background(), "t-1", "a-404")
	assert.True(t, failure.IsNotFound(err))
}

func TestAttachmentService_Delete(t *testing.T) {
	t.Run("removes document then file", func(t *testing.T) {
		f := newFixture(t)

		gomock.InOrder(
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Attachment{ID: "a-1", TodoID: "t-1", StoragePath: "uploads/t-1/a-1-x"}, nil),
			f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil),
			f.storage.EXPECT().Delete(gomock.Any(), "uploads/t-1/a-1-x").Return(errors.New("already gone")),
		)
		f.events.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

		assert.NoError(t, f.svc.Delete(context.Background(), "t-1", "a-1"))
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Attachment{}, nil)

		err := f.svc.Delete(context.Background(), "t-1", "a-404")
		assert.True(t, failure.IsNotFound(err))
	})

	t.Run("delete failure keeps file", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Attachment{ID: "a-1", StoragePath: "p"}, nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(errors.New("boom"))

		assert.Error(t, f.svc.Delete(context.Background(), "t-1", "a-1"))
	})
}

func TestAttachmentService_DeleteByTodo(t *testing.T) {
	t.Run("cascade", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any(), model.FieldID, model.FieldStoragePath).
			Return([]model.Attachment{{ID: "a-1", StoragePath: "p1"}, {ID: "a-2", StoragePath: "p2"}}, nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
		f.storage.EXPECT().Delete(gomock.Any(), "p1").Return(nil)
		f.storage.EXPECT().Delete(gomock.Any(), "p2").Return(nil)
		f.events.EXPECT().
			Publish(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, events ...event.Event) error {
				assert.Equal(t, event.AttachmentDeleted, events[0].Type)
				assert.Equal(t, "a-2", events[1].ResourceID)

				return errors.New("broker down")
			})

		count, err := f.svc.DeleteByTodo(context.Background(), "t-1")
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("files wait for the unit of work", func(t *testing.T) {
		f := newFixture(t)
		conn := &database.Connection{Driver: config.DBDriverMongo}

		f.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Attachment{{ID: "a-1", StoragePath: "p1"}}, nil).
			Times(2)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).Times(2)

		err := conn.Transact(context.Background(), func(ctx context.Context) error {
			count, err := f.svc.DeleteByTodo(ctx, "t-1")
			require.NoError(t, err)
			assert.Equal(t, 1, count)

			return errors.New("todo delete failed")
		})
		require.Error(t, err)

		var committed bool

		f.storage.EXPECT().Delete(gomock.Any(), "p1").Return(nil)
		f.events.EXPECT().
			Publish(gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, ...event.Event) error {
				assert.True(t, committed)

				return nil
			})

		err = conn.Transact(context.Background(), func(ctx context.Context) error {
			_, err := f.svc.DeleteByTodo(ctx, "t-1")
			committed = true

			return err
		})
		require.NoError(t, err)
	})

	t.Run("nothing to delete", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

		count, err := f.svc.DeleteByTodo(context.Background(), "t-1")
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}
