package attachment_test

import (
	"bytes"
	"net/http"
	"os"
	"strings"
	"testing"

	"todoapi/internal/domains/attachment/model/dto"
	"todoapi/internal/testharness"
	"todoapi/transport/http/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadAttachment(t *testing.T) {
	h := testharness.New(t, testharness.WithMaxUploadSizeMB(1))
	todo := h.SeedTodos("With files")[0]

	t.Run("size matches uploaded bytes", func(t *testing.T) {
		content := bytes.Repeat([]byte("a"), 4096)

		code, body := h.Upload(todo.ID, "report.pdf", content)
		require.Equal(t, http.StatusCreated, code, string(body))

		created := testharness.Decode[dto.AttachmentResponse](t, body)
		assert.Equal(t, todo.ID, created.TodoID)
		assert.Equal(t, "report.pdf", created.Name)
		assert.Equal(t, int64(len(content)), created.Size)

		stored, err := os.ReadFile(created.StoragePath)
		require.NoError(t, err)
		assert.Equal(t, content, stored)
	})

	t.Run("empty file", func(t *testing.T) {
		code, body := h.Upload(todo.ID, "empty.txt", nil)
		require.Equal(t, http.StatusCreated, code, string(body))
		assert.Zero(t, testharness.Decode[dto.AttachmentResponse](t, body).Size)
	})

	t.Run("long file name", func(t *testing.T) {
		name := strings.Repeat("a", 240) + ".txt"

		code, body := h.Upload(todo.ID, name, []byte("hello"))
		require.Equal(t, http.StatusCreated, code, string(body))

		created := testharness.Decode[dto.AttachmentResponse](t, body)
		assert.Equal(t, name, created.Name)
		assert.Equal(t, int64(5), created.Size)

		stored, err := os.ReadFile(created.StoragePath)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(stored))
	})

	t.Run("unknown todo", func(t *testing.T) {
		count := h.CountAttachments()

		code, _ := h.Upload("does-not-exist", "a.txt", []byte("a"))
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, count, h.CountAttachments())
	})

	t.Run("not a multipart form", func(t *testing.T) {
		code, body := h.Do(http.MethodPost, "/todos/"+todo.ID+"/attachments", strings.NewReader(`{}`), "application/json")
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "request must be a multipart form", testharness.Decode[response.Error](t, body).Error)
	})

	t.Run("missing file field", func(t *testing.T) {
		body := "--xyz\r\nContent-Disposition: form-data; name=\"other\"\r\n\r\nvalue\r\n--xyz--\r\n"

		code, res := h.Do(http.MethodPost, "/todos/"+todo.ID+"/attachments", strings.NewReader(body), "multipart/form-data; boundary=xyz")
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "file is required", testharness.Decode[response.Error](t, res).Error)
	})

	t.Run("body over the limit", func(t *testing.T) {
		count := h.CountAttachments()

		code, _ := h.Upload(todo.ID, "big.bin", bytes.Repeat([]byte("b"), (1<<20)+4096))
		assert.Equal(t, http.StatusRequestEntityTooLarge, code)
		assert.Equal(t, count, h.CountAttachments())
	})
}

func TestGetAttachments(t *testing.T) {
	h := testharness.New(t)
	todos := h.SeedTodos("X", "Y")

	code, body := h.JSON(http.MethodGet, "/todos/"+todos[0].ID+"/attachments", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(body))

	h.SeedAttachments(todos[0].ID, "one.txt", "two.txt")
	h.SeedAttachments(todos[1].ID, "three.txt")

	code, body = h.JSON(http.MethodGet, "/todos/"+todos[0].ID+"/attachments", nil)
	require.Equal(t, http.StatusOK, code)

	list := testharness.Decode[[]dto.AttachmentResponse](t, body)
	require.Len(t, list, 2)
	assert.Equal(t, "one.txt", list[0].Name)
	assert.Equal(t, "two.txt", list[1].Name)

	for _, attachment := range list {
		assert.Equal(t, todos[0].ID, attachment.TodoID)
	}
}

func TestGetAttachmentByID(t *testing.T) {
	h := testharness.New(t)
	todos := h.SeedTodos("X", "Y")
	attachment := h.SeedAttachments(todos[0].ID, "one.txt")[0]

	code, body := h.JSON(http.MethodGet, "/todos/"+todos[0].ID+"/attachments/"+attachment.ID, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, attachment.ID, testharness.Decode[dto.AttachmentResponse](t, body).ID)

	code, _ = h.JSON(http.MethodGet, "/todos/"+todos[1].ID+"/attachments/"+attachment.ID, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = h.JSON(http.MethodGet, "/todos/"+todos[0].ID+"/attachments/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestDeleteAttachment(t *testing.T) {
	h := testharness.New(t)
	todos := h.SeedTodos("X", "Y")

	code, body := h.Upload(todos[0].ID, "notes.txt", []byte("hello"))
	require.Equal(t, http.StatusCreated, code, string(body))

	uploaded := testharness.Decode[dto.AttachmentResponse](t, body)

	h.SeedAttachments(todos[0].ID, "two.txt")
	h.SeedAttachments(todos[1].ID, "three.txt")

	todoCount := h.CountTodos()
	attachmentCount := h.CountAttachments()

	code, body = h.JSON(http.MethodDelete, "/todos/"+todos[0].ID+"/attachments/"+uploaded.ID, nil)
	require.Equal(t, http.StatusNoContent, code)
	assert.Empty(t, body)

	assert.Equal(t, attachmentCount-1, h.CountAttachments())
	assert.Equal(t, todoCount, h.CountTodos())

	_, err := os.Stat(uploaded.StoragePath)
	assert.True(t, os.IsNotExist(err))

	code, _ = h.JSON(http.MethodDelete, "/todos/"+todos[0].ID+"/attachments/"+uploaded.ID, nil)
	assert.Equal(t, http.StatusNotFound, code)
}
