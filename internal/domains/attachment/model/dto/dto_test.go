package dto_test

import (
	"encoding/json"
	"testing"
	"time"

	"todoapi/internal/domains/attachment/model"
	"todoapi/internal/domains/attachment/model/dto"
	gModel "todoapi/shared/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachmentResponse_JSON(t *testing.T) {
	now := time.Date(2026, 2, 19, 8, 0, 0, 0, time.UTC)

	res := dto.FromModels([]model.Attachment{{
		ID:          "a-1",
		TodoID:      "t-1",
		Name:        "notes.txt",
		Size:        12,
		StoragePath: "uploads/t-1/a-1-notes.txt",
		Metadata:    gModel.NewMetadata(now),
	}})

	raw, err := json.Marshal(res)
	require.NoError(t, err)

	assert.JSONEq(t, `[{
		"id":"a-1","todoId":"t-1","name":"notes.txt","size":12,
		"storagePath":"uploads/t-1/a-1-notes.txt",
		"createdAt":"2026-02-19T08:00:00Z","modifiedAt":"2026-02-19T08:00:00Z"
	}]`, string(raw))
}
