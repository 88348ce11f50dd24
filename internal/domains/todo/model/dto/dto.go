package dto

import (
	"time"

	"todoapi/internal/domains/todo/model"
	gDto "todoapi/shared/dto"
	gModel "todoapi/shared/model"
	"todoapi/shared/validator"
)

type CreateTodoRequest struct {
	Title       string            `json:"title"       validate:"required,notblank"`
	Description *string           `json:"description"`
	DueAt       gDto.OptionalTime `json:"dueAt"       swaggertype:"string" example:"2026-03-01T09:00:00Z"`
}

func (c *CreateTodoRequest) ToModel(id string, now time.Time) model.Todo {
	return model.Todo{
		ID:          id,
		Title:       c.Title,
		Description: c.Description,
		DueAt:       c.DueAt.Ptr(),
		Metadata:    gModel.NewMetadata(now),
	}
}

// UpdateTodoRequest carries only the keys present in the body. A null
// description or dueAt clears it.
type UpdateTodoRequest struct {
	Title       gDto.OptionalString `json:"title"       swaggertype:"string"`
	Description gDto.OptionalString `json:"description" swaggertype:"string"`
	DueAt       gDto.OptionalTime   `json:"dueAt"       swaggertype:"string" example:"2026-03-01T09:00:00Z"`
}

func (u *UpdateTodoRequest) IsEmpty() bool {
	return !u.Title.Set && !u.Description.Set && !u.DueAt.Set
}

func (u *UpdateTodoRequest) Validate() validator.Result {
	res := validator.Result{}

	if u.Title.Set {
		title := ""
		if u.Title.Value != nil {
			title = *u.Title.Value
		}

		res.RequireString(model.FieldTitle, title)
	}

	return res
}

// ToFields maps the present keys to store columns.
func (u *UpdateTodoRequest) ToFields() map[string]any {
	fields := map[string]any{}

	if u.Title.Set && u.Title.Value != nil {
		fields[model.FieldTitle] = *u.Title.Value
	}

	if u.Description.Set {
		fields[model.FieldDescription] = u.Description.Ptr()
	}

	if u.DueAt.Set {
		fields[model.FieldDueAt] = u.DueAt.Ptr()
	}

	return fields
}

// Apply returns todo with the present keys of the request applied.
func (u *UpdateTodoRequest) Apply(todo model.Todo) model.Todo {
	if u.Title.Set && u.Title.Value != nil {
		todo.Title = *u.Title.Value
	}

	if u.Description.Set {
		todo.Description = u.Description.Ptr()
	}

	if u.DueAt.Set {
		todo.DueAt = u.DueAt.Ptr()
	}

	return todo
}

type TodoResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	DueAt       *string `json:"dueAt,omitempty"`
	gDto.Metadata
}

func (r *TodoResponse) FromModel(model model.Todo) {
	r.ID = model.ID
	r.Title = model.Title
	r.Description = model.Description
	r.DueAt = gDto.FormatTimestamp(model.DueAt)
	r.Metadata.FromModel(model.Metadata)
}

func FromModels(models []model.Todo) []TodoResponse {
	res := make([]TodoResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res
}
