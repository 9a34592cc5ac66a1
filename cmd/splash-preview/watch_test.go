package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsConfigChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	path := filepath.Join(dir, "splash.yaml")
	require.NoError(t, os.WriteFile(path, []byte("screens: []\n"), 0o644))

	select {
	case name := <-w.Events:
		assert.Equal(t, path, name)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatchedExtensions(t *testing.T) {
	assert.True(t, isConfigFile("a/splash.YML"))
	assert.True(t, isAssetFile("logo.png"))
	assert.True(t, isAssetFile("FiraSans-Bold.TTF"))
	assert.False(t, isAssetFile("notes.txt"))
	assert.False(t, isConfigFile("splash.json"))
}

func TestWatcherMissingDir(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
