package attachment

import (
	"errors"
	"fmt"
	"net/http"

	"todoapi/config"
	"todoapi/infras/otel"
	"todoapi/internal/domains/attachment/model/dto"
	"todoapi/internal/domains/attachment/service"
	"todoapi/shared/constant"
	"todoapi/shared/failure"
	"todoapi/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Attachment
	config  *config.Config
	otel    otel.Otel
}

func New(service service.Attachment, config *config.Config, otel otel.Otel) Handler {
	return Handler{
		service: service,
		config:  config,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/todos/{todoId}/attachments", handler.UploadAttachment)
	router.Get("/todos/{todoId}/attachments", handler.GetAttachments)
	router.Get("/todos/{todoId}/attachments/{id}", handler.GetAttachmentByID)
	router.Delete("/todos/{todoId}/attachments/{id}", handler.DeleteAttachment)
}

// UploadAttachment stores a file against a todo.
// @Summary Upload an attachment
// @Description Store the multipart field "file" and record it against the todo.
// @Tags Attachment
// @Accept multipart/form-data
// @Produce json
// @Param todoId path string true "Todo ID"
// @Param file formData file true "File to upload"
// @Success 201 {object} dto.AttachmentResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 413 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /todos/{todoId}/attachments [post]
func (handler *Handler) UploadAttachment(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadAttachment")
	defer scope.End()

	todoID := chi.URLParam(request, constant.RequestParamTodoID)
	maxBytes := handler.config.App.MaxUploadSizeMB * constant.BytesPerMegabyte

	request.Body = http.MaxBytesReader(writer, request.Body, maxBytes)

	if err := request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		err = handler.formError(err, maxBytes)
		scope.TraceError(err)
		log.Warn().Err(err).Str("todo_id", todoID).Msg("invalid upload request")

		response.WithError(writer, err)

		return
	}

	defer func() {
		if err := request.MultipartForm.RemoveAll(); err != nil {
			log.Warn().Err(err).Msg("failed to remove multipart temp files")
		}
	}()

	file, header, err := request.FormFile(constant.FormFile)
	if err != nil {
		err = handler.formError(err, maxBytes)
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}
	defer file.Close()

	attachment, err := handler.service.Upload(ctx, todoID, dto.UploadFile{
		Name:        header.Filename,
		ContentType: header.Header.Get(constant.RequestHeaderContentType),
		Content:     file,
	})
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Attachment uploaded")

	response.WithJSON(writer, http.StatusCreated, attachment)
}

func (handler *Handler) formError(err error, maxBytes int64) error {
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &tooLarge):
		return failure.RequestTooLarge(fmt.Sprintf("request body must not exceed %d bytes", maxBytes)) //nolint:wrapcheck
	case errors.Is(err, http.ErrMissingFile):
		return failure.MissingFormFile
	default:
		return failure.InvalidMultipartForm
	}
}

// GetAttachments lists the attachments of a todo.
// @Summary Get the attachments of a todo
// @Tags Attachment
// @Produce json
// @Param todoId path string true "Todo ID"
// @Success 200 {array} dto.AttachmentResponse
// @Failure 500 {object} response.Error
// @Router /todos/{todoId}/attachments [get]
func (handler *Handler) GetAttachments(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAttachments")
	defer scope.End()

	attachments, err := handler.service.GetAll(ctx, chi.URLParam(request, constant.RequestParamTodoID))
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, attachments)
}

// GetAttachmentByID retrieves one attachment of a todo.
// @Summary Get an attachment by ID
// @Tags Attachment
// @Produce json
// @Param todoId path string true "Todo ID"
// @Param id path string true "Attachment ID"
// @Success 200 {object} dto.AttachmentResponse
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /todos/{todoId}/attachments/{id} [get]
func (handler *Handler) GetAttachmentByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAttachmentByID")
	defer scope.End()

	todoID := chi.URLParam(request, constant.RequestParamTodoID)
	id := chi.URLParam(request, constant.RequestParamID)

	attachment, err := handler.service.Get(ctx, todoID, id)
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, attachment)
}

// DeleteAttachment removes an attachment and its stored file.
// @Summary Delete an attachment by ID
// @Tags Attachment
// @Param todoId path string true "Todo ID"
// @Param id path string true "Attachment ID"
// @Success 204
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /todos/{todoId}/attachments/{id} [delete]
func (handler *Handler) DeleteAttachment(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteAttachment")
	defer scope.End()

	todoID := chi.URLParam(request, constant.RequestParamTodoID)
	id := chi.URLParam(request, constant.RequestParamID)

	if err := handler.service.Delete(ctx, todoID, id); err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Attachment deleted")

	response.WithNoContent(writer)
}
