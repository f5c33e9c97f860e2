package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/taskmanager/internal/model"
)

func TestNewRecordRepository(t *testing.T) {
	db := &Connection{}
	repo := NewRecordRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestEncodeTasks(t *testing.T) {
	tests := []struct {
		name  string
		tasks []model.Task
		want  string
	}{
		{name: "nil list", tasks: nil, want: `[]`},
		{name: "empty list", tasks: []model.Task{}, want: `[]`},
		{
			name:  "single task",
			tasks: []model.Task{{ID: "a", Text: "buy milk", Completed: true}},
			want:  `[{"id":"a","task":"buy milk","completed":true}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encodeTasks(tt.tasks)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestDecodeTasks(t *testing.T) {
	t.Run("empty column", func(t *testing.T) {
		tasks, err := decodeTasks(nil)
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})

	t.Run("entries without ids", func(t *testing.T) {
		tasks, err := decodeTasks([]byte(`[{"task":"old","completed":false}]`))
		require.NoError(t, err)
		assert.Equal(t, []model.Task{{Text: "old"}}, tasks)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := decodeTasks([]byte(`{"task":"x"}`))
		assert.Error(t, err)
	})
}

func TestReplaceTasksQuery(t *testing.T) {
	repo := NewRecordRepository(&Connection{})
	id := uuid.New()
	tasks := []model.Task{{ID: "a", Text: "buy milk"}}

	t.Run("guarded by version", func(t *testing.T) {
		query, args, err := repo.replaceTasksQuery(id, tasks, 4)
		require.NoError(t, err)

		assert.Contains(t, query, "UPDATE user_records SET tasks = $1::jsonb, version = version + 1, updated_at = NOW()")
		assert.Contains(t, query, "WHERE user_id = $2 AND version = $3")
		assert.Contains(t, query, recordReturning)
		require.Len(t, args, 3)
		assert.JSONEq(t, `[{"id":"a","task":"buy milk","completed":false}]`, string(args[0].([]byte)))
		assert.Equal(t, []any{id.String(), int64(4)}, args[1:])
	})

	t.Run("any version", func(t *testing.T) {
		query, args, err := repo.replaceTasksQuery(id, tasks, model.AnyVersion)
		require.NoError(t, err)

		assert.Contains(t, query, "WHERE user_id = $2")
		assert.NotContains(t, query, "version = $")
		require.Len(t, args, 2)
		assert.Equal(t, id.String(), args[1])
	})
}
