package task

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaveeshanethruwan/taskhive/internal/infrastructure/persistence/memory"
)

type fakeArchive struct {
	key  string
	data []byte
	err  error
}

func (f *fakeArchive) Put(_ context.Context, key string, body []byte, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.key = key
	f.data = body
	return "https://archive.test/" + key, nil
}

func TestCSVImport_MixedRows(t *testing.T) {
	store := memory.NewTaskStore()
	archive := &fakeArchive{}
	imp := NewCSVImporter(store, archive, zerolog.Nop())

	csvData := []byte(`title,description,status,due_date
Buy milk,groceries,pending,2026-09-01T10:00:00Z
,missing title,pending,
Ship release,,done,
Bad status,x,unknown_status,
Bad date,x,pending,not-a-date
Plain row,,,
`)
	result, err := imp.Execute(context.Background(), 7, "tasks.csv", csvData)
	require.NoError(t, err)

	assert.Equal(t, 6, result.TotalRows)
	assert.Equal(t, 3, result.SuccessCount)
	assert.Equal(t, 3, result.FailureCount)
	require.Len(t, result.Errors, 3)
	// Header is row 1; first data row is 2.
	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Equal(t, 5, result.Errors[1].Row)
	assert.Equal(t, 6, result.Errors[2].Row)
	assert.Equal(t, "https://archive.test/"+archive.key, result.ArchiveURL)
	assert.Equal(t, csvData, archive.data)

	items, total, err := store.List(context.Background(), 7, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	for _, item := range items {
		assert.Equal(t, int64(7), item.UserID)
	}
}

func TestCSVImport_ArchiveFailureAborts(t *testing.T) {
	store := memory.NewTaskStore()
	imp := NewCSVImporter(store, &fakeArchive{err: errors.New("bucket down")}, zerolog.Nop())

	_, err := imp.Execute(context.Background(), 1, "tasks.csv", []byte("title\nA\n"))
	require.Error(t, err)

	_, total, err := store.List(context.Background(), 1, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total, "no rows imported when archival fails")
}

func TestCSVImport_DefaultsAndHeaderOrder(t *testing.T) {
	store := memory.NewTaskStore()
	imp := NewCSVImporter(store, &fakeArchive{}, zerolog.Nop())

	// Columns in a different order; status omitted per row defaults to pending.
	csvData := []byte("status,title\n,First\ndone,Second\n")
	result, err := imp.Execute(context.Background(), 2, "t.csv", csvData)
	require.NoError(t, err)
	assert.Equal(t, 2, result.SuccessCount)

	items, _, err := store.List(context.Background(), 2, 10, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "First", items[0].Title)
	assert.Equal(t, "pending", items[0].Status.String())
	assert.Equal(t, "done", items[1].Status.String())
}
