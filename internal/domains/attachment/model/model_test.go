package model_test

import (
	"testing"

	"todoapi/internal/domains/attachment/model"

	"github.com/stretchr/testify/assert"
)

func TestAttachment_Validate(t *testing.T) {
	valid := model.Attachment{ID: "a-1", TodoID: "t-1", Name: "report.pdf", Size: 0, StoragePath: "uploads/t-1/a-1-report.pdf"}
	assert.True(t, valid.Validate().Valid())
	assert.True(t, valid.Exists())

	res := model.Attachment{Size: -1}.Validate()
	assert.False(t, res.Valid())

	fields := make([]string, len(res.Fields))
	for i, f := range res.Fields {
		fields[i] = f.Field
	}

	assert.Equal(t, []string{"id", "todoId", "name", "size", "storagePath"}, fields)
	assert.False(t, model.Attachment{}.Exists())
}
