package model

import (
	"todoapi/shared/model"
	"todoapi/shared/validator"
)

const (
	TableName  = "attachments"
	EntityName = "attachment"

	FieldID          = "id"
	FieldTodoID      = "todo_id"
	FieldName        = "name"
	FieldSize        = "size"
	FieldStoragePath = "storage_path"
)

// Attachment is a stored file that belongs to exactly one todo.
type Attachment struct {
	ID             string `db:"id"           bson:"_id"`
	TodoID         string `db:"todo_id"      bson:"todo_id"`
	Name           string `db:"name"         bson:"name"`
	Size           int64  `db:"size"         bson:"size"`
	StoragePath    string `db:"storage_path" bson:"storage_path"`
	model.Metadata `bson:",inline"`
}

func (a Attachment) Exists() bool {
	return a.ID != ""
}

func (a Attachment) Validate() validator.Result {
	res := validator.Result{}
	res.RequireString("id", a.ID)
	res.RequireString("todoId", a.TodoID)
	res.RequireString("name", a.Name)
	res.RequireNonNegative("size", a.Size)
	res.RequireString("storagePath", a.StoragePath)

	return res
}
