package contact

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileRepo(t *testing.T) (*FileRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "contacts.json")
	repo, err := NewFileRepository(path)
	require.NoError(t, err)
	return repo, path
}

func strPtr(s string) *string { return &s }

func TestFileRepositorySeedsEmptyArray(t *testing.T) {
	repo, path := newFileRepo(t)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))

	contacts, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, contacts)
}

func TestFileRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo, path := newFileRepo(t)

	c := &Contact{Name: "Ann Lee", Email: "ann@example.com", Phone: "555-0100"}
	require.NoError(t, repo.Create(ctx, c))
	require.NotEmpty(t, c.ID)

	got, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", got.Name)

	updated, err := repo.Update(ctx, c.ID, Patch{Phone: strPtr("555-0199")})
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", updated.Name)
	assert.Equal(t, "ann@example.com", updated.Email)
	assert.Equal(t, "555-0199", updated.Phone)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"phone": "555-0199"`)
	assert.Contains(t, string(data), `"favorite": false`)

	require.NoError(t, repo.Delete(ctx, c.ID))
	_, err = repo.Get(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, c.ID), ErrNotFound)
}

func TestFileRepositoryUpdateUnknownLeavesFileUnchanged(t *testing.T) {
	ctx := context.Background()
	repo, path := newFileRepo(t)
	require.NoError(t, repo.Create(ctx, &Contact{Name: "Bob", Email: "bob@example.com", Phone: "1"}))

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = repo.Update(ctx, "nope", Patch{Name: strPtr("Eve")})
	assert.ErrorIs(t, err, ErrNotFound)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestFileRepositoryReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"1","name":"Ann","email":"a@b.com","phone":"1"}]`), 0o644))

	repo, err := NewFileRepository(path)
	require.NoError(t, err)
	contacts, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "1", contacts[0].ID)
	assert.False(t, contacts[0].Favorite)
}
