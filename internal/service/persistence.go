package service

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/ssps-place/place-backend/internal/metrics"
	"github.com/ssps-place/place-backend/internal/model"
)

// Persisted file names, kept compatible with the previous deployment so an
// existing data directory restores as-is.
const (
	canvasFileName    = "canvas-data.json"
	timelapseFileName = "timelapse-data.json"
)

// Store persists the canvas snapshot and the timelapse log as two
// independent JSON files, overwritten wholesale on every save. Persistence
// is best-effort durability: failures are logged and swallowed, the
// in-memory state stays authoritative for the running process.
type Store struct {
	dataDir string
	log     *logrus.Entry
}

func NewStore(dataDir string) *Store {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		logrus.WithError(err).WithField("dir", dataDir).Error("failed to create data directory")
	}
	return &Store{
		dataDir: dataDir,
		log:     logrus.WithField("component", "persistence"),
	}
}

// CanvasPath returns the durable canvas file location, for the download
// endpoint.
func (s *Store) CanvasPath() string {
	return filepath.Join(s.dataDir, canvasFileName)
}

// TimelapsePath returns the durable timelapse file location.
func (s *Store) TimelapsePath() string {
	return filepath.Join(s.dataDir, timelapseFileName)
}

// SaveCanvas overwrites the canvas file with the given snapshot.
func (s *Store) SaveCanvas(snapshot model.CanvasSnapshot) {
	if err := s.writeJSON(s.CanvasPath(), snapshot); err != nil {
		metrics.RecordPersistenceFailure("save_canvas")
		s.log.WithError(err).Error("error saving canvas data")
		return
	}
	s.log.WithField("pixels", len(snapshot)).Debug("canvas data saved")
}

// SaveTimelapse overwrites the timelapse file with the given event sequence.
func (s *Store) SaveTimelapse(events []model.PlacementEvent) {
	if err := s.writeJSON(s.TimelapsePath(), events); err != nil {
		metrics.RecordPersistenceFailure("save_timelapse")
		s.log.WithError(err).Error("error saving timelapse data")
		return
	}
	s.log.WithField("events", len(events)).Debug("timelapse data saved")
}

// LoadCanvas reads the persisted snapshot. A missing or malformed file is
// never fatal: the server boots with a blank canvas instead.
func (s *Store) LoadCanvas() model.CanvasSnapshot {
	snapshot := make(model.CanvasSnapshot)
	if !s.readJSON(s.CanvasPath(), "load_canvas", &snapshot) {
		return make(model.CanvasSnapshot)
	}
	s.log.WithField("pixels", len(snapshot)).Info("canvas data loaded")
	return snapshot
}

// LoadTimelapse reads the persisted event log, or an empty log.
func (s *Store) LoadTimelapse() []model.PlacementEvent {
	events := make([]model.PlacementEvent, 0)
	if !s.readJSON(s.TimelapsePath(), "load_timelapse", &events) {
		return make([]model.PlacementEvent, 0)
	}
	s.log.WithField("events", len(events)).Info("timelapse data loaded")
	return events
}

func (s *Store) writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// readJSON reports whether v was populated from the file at path.
func (s *Store) readJSON(path, op string, v interface{}) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.log.WithField("file", filepath.Base(path)).Info("no saved data found, starting fresh")
		} else {
			metrics.RecordPersistenceFailure(op)
			s.log.WithError(err).Error("error reading saved data")
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		metrics.RecordPersistenceFailure(op)
		s.log.WithError(err).WithField("file", filepath.Base(path)).Error("error parsing saved data")
		return false
	}
	return true
}
