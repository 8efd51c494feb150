package api

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSave(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	path, err := store.Save("eagle.jpg", []byte("image bytes"))
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, "_eagle.jpg"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("image bytes"), data)
}

func TestStoreSaveUniquePaths(t *testing.T) {
	t.Parallel()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	first, err := store.Save("bird.png", []byte("a"))
	require.NoError(t, err)
	second, err := store.Save("bird.png", []byte("b"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestNewStoreCreatesDirectory(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	store, err := NewStore(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain name", "eagle.jpg", "eagle.jpg"},
		{"path traversal", "../../etc/passwd", "passwd"},
		{"absolute path", "/tmp/bird.png", "bird.png"},
		{"unsafe characters", "my bird photo!.jpg", "my_bird_photo_.jpg"},
		{"empty", "", "upload"},
		{"dot only", ".", "upload"},
		{"symbols only", "...", "upload"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizeFilename(tt.input))
		})
	}
}
