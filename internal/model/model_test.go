package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriority(t *testing.T) {
	assert.True(t, PriorityHigh.Valid())
	assert.False(t, Priority("urgent").Valid())
	assert.Less(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	assert.Less(t, PriorityMedium.Rank(), PriorityLow.Rank())
}

func TestCategoryAndStatus(t *testing.T) {
	assert.True(t, CategoryLetters.Valid())
	assert.False(t, Category("misc").Valid())
	assert.True(t, StatusArchived.Valid())
	assert.False(t, TaskStatus("deleted").Valid())
}

func TestAttachment_MarshalJSON(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("task owner", func(t *testing.T) {
		b, err := json.Marshal(Attachment{
			ID: "a1", OwnerKind: OwnerTask, OwnerID: "t1", FileName: "x.pdf",
			FileSize: 12, ContentType: "application/pdf", StorageKey: "secret/key", CreatedAt: created,
		})
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(b, &got))
		assert.Equal(t, "t1", got["taskId"])
		assert.NotContains(t, got, "docId")
		assert.NotContains(t, got, "StorageKey")
		assert.Equal(t, float64(12), got["fileSize"])
	})

	t.Run("document owner", func(t *testing.T) {
		b, err := json.Marshal(Attachment{ID: "a2", OwnerKind: OwnerDocument, OwnerID: "d1"})
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(b, &got))
		assert.Equal(t, "d1", got["docId"])
		assert.NotContains(t, got, "taskId")
	})
}

func TestUser_HidesPasswordHash(t *testing.T) {
	b, err := json.Marshal(User{ID: "u1", Email: "a@b.c", Name: "A", PasswordHash: "h"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u1","email":"a@b.c","name":"A"}`, string(b))
}
