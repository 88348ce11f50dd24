// Package testharness runs the real router against a throwaway SQLite
// database and a local storage root, for end to end handler tests.
package testharness

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"todoapi/config"
	"todoapi/helper"
	"todoapi/infras/database"
	otelMocks "todoapi/infras/otel/mocks"
	"todoapi/infras/redis"
	"todoapi/infras/storage"
	attachmentModel "todoapi/internal/domains/attachment/model"
	attachmentRepository "todoapi/internal/domains/attachment/repository"
	attachmentService "todoapi/internal/domains/attachment/service"
	todoModel "todoapi/internal/domains/todo/model"
	todoRepository "todoapi/internal/domains/todo/repository"
	todoService "todoapi/internal/domains/todo/service"
	attachmentHandler "todoapi/internal/handlers/attachment"
	todoHandler "todoapi/internal/handlers/todo"
	"todoapi/shared/cache"
	gDto "todoapi/shared/dto"
	"todoapi/shared/event"
	"todoapi/shared/idgen"
	gModel "todoapi/shared/model"
	"todoapi/shared/timezone"
	transport "todoapi/transport/http"
	"todoapi/transport/http/middleware"
	"todoapi/transport/http/router"

	"github.com/stretchr/testify/require"
)

type Harness struct {
	t *testing.T

	Config      *config.Config
	DB          *database.Connection
	Server      *httptest.Server
	Todos       todoRepository.Todo
	Attachments attachmentRepository.Attachment
	StorageRoot string

	ids idgen.Generator
}

type Option func(cfg *config.Config)

// WithMaxUploadSizeMB caps multipart request bodies.
func WithMaxUploadSizeMB(size int64) Option {
	return func(cfg *config.Config) {
		cfg.App.MaxUploadSizeMB = size
	}
}

func New(t *testing.T, opts ...Option) *Harness {
	t.Helper()

	dir := t.TempDir()

	cfg := &config.Config{}
	cfg.App.Name = "todoapi-test"
	cfg.App.MaxUploadSizeMB = 8
	cfg.DB.Driver = config.DBDriverSQLite
	cfg.DB.SQLite.Path = filepath.Join(dir, "todos.db")
	cfg.DB.MigrationTable = "schema_migrations"
	cfg.Storage.Driver = config.StorageDriverLocal
	cfg.Storage.Local.Root = filepath.Join(dir, "uploads")

	for _, opt := range opts {
		opt(cfg)
	}

	require.NoError(t, helper.Up(cfg))

	conn, err := database.OpenSQLite(cfg.DB.SQLite.Path)
	require.NoError(t, err)

	ot := otelMocks.NewOtel()
	events := event.NewNoop()
	ids := idgen.UUIDv7{}

	todos := todoRepository.New(conn, ot)
	attachments := attachmentRepository.New(conn, ot)

	attachmentSvc := attachmentService.New(attachments, todos, storage.NewLocal(cfg.Storage.Local.Root, ot), ids, events, ot)
	todoSvc := todoService.New(todos, attachmentSvc, conn, ids, events, ot)

	mw := middleware.NewAppMiddleware(ot, cfg, cache.NewRedisCache(redis.New(cfg), ot))
	routes := router.New(router.DomainHandlers{
		Todo:       todoHandler.New(todoSvc, ot),
		Attachment: attachmentHandler.New(attachmentSvc, cfg, ot),
	}, mw)

	app := transport.New(cfg, routes, mw, conn, ot, events)
	server := httptest.NewServer(app.Handler())

	t.Cleanup(func() {
		server.Close()
		app.Close(context.Background())
	})

	return &Harness{
		t:           t,
		Config:      cfg,
		DB:          conn,
		Server:      server,
		Todos:       todos,
		Attachments: attachments,
		StorageRoot: cfg.Storage.Local.Root,
		ids:         ids,
	}
}

// Reset empties both collections.
func (h *Harness) Reset() {
	h.t.Helper()

	for _, table := range []string{attachmentModel.TableName, todoModel.TableName} {
		_, err := h.DB.Write.Exec("DELETE FROM " + table)
		require.NoError(h.t, err)
	}
}

// SeedTodos inserts one todo per title, in order.
func (h *Harness) SeedTodos(titles ...string) []todoModel.Todo {
	h.t.Helper()

	todos := make([]todoModel.Todo, len(titles))

	for i, title := range titles {
		todos[i] = todoModel.Todo{
			ID:       h.ids.NewID(),
			Title:    title,
			Metadata: gModel.NewMetadata(timezone.Now().UTC()),
		}
	}

	require.NoError(h.t, h.Todos.InsertBulk(context.Background(), todos))

	return todos
}

// SeedAttachments inserts attachment documents for todoID without storing any content.
func (h *Harness) SeedAttachments(todoID string, names ...string) []attachmentModel.Attachment {
	h.t.Helper()

	attachments := make([]attachmentModel.Attachment, len(names))

	for i, name := range names {
		id := h.ids.NewID()
		attachments[i] = attachmentModel.Attachment{
			ID:          id,
			TodoID:      todoID,
			Name:        name,
			Size:        int64(len(name)),
			StoragePath: filepath.Join(h.StorageRoot, todoID, id+"-"+name),
			Metadata:    gModel.NewMetadata(timezone.Now().UTC()),
		}
	}

	require.NoError(h.t, h.Attachments.InsertBulk(context.Background(), attachments))

	return attachments
}

func (h *Harness) CountTodos() int {
	h.t.Helper()

	count, err := h.Todos.Count(context.Background(), gDto.FilterGroup{})
	require.NoError(h.t, err)

	return count
}

func (h *Harness) CountAttachments() int {
	h.t.Helper()

	count, err := h.Attachments.Count(context.Background(), gDto.FilterGroup{})
	require.NoError(h.t, err)

	return count
}

// Do sends a request to the running server and returns the status and body.
func (h *Harness) Do(method, path string, body io.Reader, contentType string) (int, []byte) {
	h.t.Helper()

	request, err := http.NewRequestWithContext(context.Background(), method, h.Server.URL+path, body)
	require.NoError(h.t, err)

	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}

	res, err := h.Server.Client().Do(request)
	require.NoError(h.t, err)

	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	require.NoError(h.t, err)

	return res.StatusCode, data
}

// JSON sends payload encoded as JSON. A nil payload sends no body.
func (h *Harness) JSON(method, path string, payload any) (int, []byte) {
	h.t.Helper()

	if payload == nil {
		return h.Do(method, path, nil, "")
	}

	data, err := json.Marshal(payload)
	require.NoError(h.t, err)

	return h.Do(method, path, bytes.NewReader(data), "application/json")
}

// Upload posts content as the multipart field "file" of todoID.
func (h *Harness) Upload(todoID, fileName string, content []byte) (int, []byte) {
	h.t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", fileName)
	require.NoError(h.t, err)

	_, err = part.Write(content)
	require.NoError(h.t, err)
	require.NoError(h.t, writer.Close())

	return h.Do(http.MethodPost, "/todos/"+todoID+"/attachments", body, writer.FormDataContentType())
}

// Decode unmarshals a response body into T.
func Decode[T any](t *testing.T, data []byte) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(data, &out), string(data))

	return out
}
