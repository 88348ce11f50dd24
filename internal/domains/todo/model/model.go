package model

import (
	"time"

	"todoapi/shared/model"
	"todoapi/shared/validator"
)

const (
	TableName  = "todos"
	EntityName = "todo"

	FieldID          = "id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldDueAt       = "due_at"
)

type Todo struct {
	ID             string     `db:"id"          bson:"_id"`
	Title          string     `db:"title"       bson:"title"`
	Description    *string    `db:"description" bson:"description,omitempty"`
	DueAt          *time.Time `db:"due_at"      bson:"due_at,omitempty"`
	model.Metadata `bson:",inline"`
}

// Exists reports whether the value was loaded from the store.
func (t Todo) Exists() bool {
	return t.ID != ""
}

// Validate checks the fields the store requires before a write.
func (t Todo) Validate() validator.Result {
	res := validator.Result{}
	res.RequireString(FieldID, t.ID)
	res.RequireString(FieldTitle, t.Title)

	return res
}
