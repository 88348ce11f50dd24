package dto

import (
	"io"

	"todoapi/internal/domains/attachment/model"
	gDto "todoapi/shared/dto"
)

// UploadFile is a file received from a multipart form.
type UploadFile struct {
	Name        string
	ContentType string
	Content     io.Reader
}

type AttachmentResponse struct {
	ID          string `json:"id"`
	TodoID      string `json:"todoId"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	StoragePath string `json:"storagePath"`
	gDto.Metadata
}

func (r *AttachmentResponse) FromModel(model model.Attachment) {
	r.ID = model.ID
	r.TodoID = model.TodoID
	r.Name = model.Name
	r.Size = model.Size
	r.StoragePath = model.StoragePath
	r.Metadata.FromModel(model.Metadata)
}

func FromModels(models []model.Attachment) []AttachmentResponse {
	res := make([]AttachmentResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res
}
