package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssps-place/place-backend/internal/model"
)

func TestStoreCanvasRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	snapshot := model.CanvasSnapshot{
		"5,5":    "#FFFFFF",
		"0,107":  "#000000",
		"191,42": "#2450A4",
	}
	store.SaveCanvas(snapshot)

	// A fresh store over the same directory sees the same mapping.
	restored := NewStore(filepath.Dir(store.CanvasPath())).LoadCanvas()
	assert.Equal(t, snapshot, restored)
}

func TestStoreTimelapseRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	events := []model.PlacementEvent{
		{ID: "e0", X: 5, Y: 5, Color: "#FFFFFF", Timestamp: 1700000000000, IP: "192.168.0.83", Hostname: "laptop.local"},
		{ID: "e1", X: 6, Y: 6, Color: "#000000", Timestamp: 1700000010000, IP: "__1"},
	}
	store.SaveTimelapse(events)

	restored := store.LoadTimelapse()
	assert.Equal(t, events, restored)
}

func TestStoreLoadMissingFiles(t *testing.T) {
	store := NewStore(t.TempDir())

	assert.Empty(t, store.LoadCanvas())
	assert.Empty(t, store.LoadTimelapse())
}

func TestStoreLoadMalformedFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	require.NoError(t, os.WriteFile(store.CanvasPath(), []byte("{not json"), 0o644))
	require.NoError(t, os.WriteFile(store.TimelapsePath(), []byte("[broken"), 0o644))

	// Malformed content is logged, never fatal: start empty.
	assert.Empty(t, store.LoadCanvas())
	assert.Empty(t, store.LoadTimelapse())
}

func TestStoreSaveOverwritesWholeFile(t *testing.T) {
	store := NewStore(t.TempDir())

	store.SaveCanvas(model.CanvasSnapshot{"1,1": "#FFFFFF", "2,2": "#000000"})
	store.SaveCanvas(model.CanvasSnapshot{"3,3": "#FF4500"})

	restored := store.LoadCanvas()
	assert.Len(t, restored, 1)
	assert.Equal(t, "#FF4500", restored["3,3"])
}
