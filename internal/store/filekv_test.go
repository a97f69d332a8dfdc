package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileKV_PutGetRoundTrip(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, kv.Put(ctx, "resume_data_user_anonymous_1.json", []byte(`{"a":1}`)))

	data, err := kv.Get(ctx, "resume_data_user_anonymous_1.json")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))
}

func TestFileKV_GetMissingKey(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	require.NoError(t, err)

	_, err = kv.Get(context.Background(), "missing.json")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing.json", notFound.Key)
}

func TestFileKV_RejectsPathTraversalKeys(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"", ".", "..", "a/b", `a\b`, "../escape"} {
		assert.Error(t, kv.Put(ctx, key, []byte("x")), "key %q", key)
	}
}

func TestFileKV_DeleteIdempotent(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, kv.Put(ctx, "k.json", []byte("v")))
	require.NoError(t, kv.Delete(ctx, "k.json"))
	require.NoError(t, kv.Delete(ctx, "k.json"))
}

func TestFileKV_ListByPrefix(t *testing.T) {
	dir := t.TempDir()
	kv, err := NewFileKV(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, kv.Put(ctx, "resume_data_user_a_2.json", []byte("x")))
	require.NoError(t, kv.Put(ctx, "resume_data_user_a_1.json", []byte("x")))
	require.NoError(t, kv.Put(ctx, "resume_export_g.txt", []byte("x")))

	// Subdirectories and dot-files in the data dir are not keys.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "resume_data_user_a_nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0o644))

	keys, err := kv.ListByPrefix(ctx, "resume_data_user_a_")
	require.NoError(t, err)
	assert.Equal(t, []string{"resume_data_user_a_1.json", "resume_data_user_a_2.json"}, keys)
}

func TestNewFileKV_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	_, err := NewFileKV(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
