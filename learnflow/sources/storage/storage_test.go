package storage

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStoreSave(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir)
	require.NoError(t, err)

	url, err := store.Save(context.Background(), "notes.pdf", "application/pdf", strings.NewReader("pdf-bytes"), 9)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^/uploads/\d+-notes\.pdf$`), url)

	name := strings.TrimPrefix(url, "/uploads/")
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "pdf-bytes", string(data))
}

func TestDiskStoreStripsClientPath(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir)
	require.NoError(t, err)

	url, err := store.Save(context.Background(), "../../etc/passwd", "text/plain", strings.NewReader("x"), 1)
	require.NoError(t, err)
	assert.NotContains(t, url, "..")
	assert.Regexp(t, regexp.MustCompile(`^/uploads/\d+-passwd$`), url)
}
