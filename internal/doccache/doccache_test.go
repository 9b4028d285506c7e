package doccache

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notjosh/rangy/htmldom"
)

func newCountingCache(t *testing.T) (*Cache, *int) {
	t.Helper()
	loads := 0
	load := func(path string) (*htmldom.Document, error) {
		loads++
		return FileLoader(htmldom.Options{})(path)
	}
	return New(time.Minute, load, nil), &loads
}

func writeHTML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGet_LoadsOnce(t *testing.T) {
	c, loads := newCountingCache(t)
	path := writeHTML(t, "<p>One</p>")

	first, err := c.Get(path)
	require.NoError(t, err)
	second, err := c.Get(path)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, *loads)
	assert.Equal(t, 1, c.Len())
}

func TestInvalidate_ForcesReload(t *testing.T) {
	c, loads := newCountingCache(t)
	path := writeHTML(t, "<p>One</p>")

	first, err := c.Get(path)
	require.NoError(t, err)
	c.Invalidate(path)
	second, err := c.Get(path)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, 2, *loads)
}

func TestGet_PropagatesLoadErrors(t *testing.T) {
	c, _ := newCountingCache(t)
	_, err := c.Get(filepath.Join(t.TempDir(), "missing.html"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Equal(t, 0, c.Len())
}

func TestFlush(t *testing.T) {
	c, _ := newCountingCache(t)
	_, err := c.Get(writeHTML(t, "<p>One</p>"))
	require.NoError(t, err)
	c.Flush()
	assert.Equal(t, 0, c.Len())
}
