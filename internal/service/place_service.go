package service

import (
	"github.com/ssps-place/place-backend/internal/model"
	"github.com/ssps-place/place-backend/internal/ws"
)

// PlaceService is the thin facade the controllers talk to; the manager owns
// all state.
type PlaceService struct {
	manager *CanvasManager
	store   *Store
}

func NewPlaceService(manager *CanvasManager, store *Store) *PlaceService {
	return &PlaceService{
		manager: manager,
		store:   store,
	}
}

func (ps *PlaceService) HandleConnect(key string, conn ws.Conn) {
	ps.manager.HandleConnect(key, conn)
}

func (ps *PlaceService) HandleDisconnect(key string, conn ws.Conn) {
	ps.manager.HandleDisconnect(key, conn)
}

func (ps *PlaceService) HandleMessage(key string, conn ws.Conn, raw []byte) {
	ps.manager.HandleMessage(key, conn, raw)
}

func (ps *PlaceService) CanvasSnapshot() model.CanvasSnapshot {
	return ps.manager.Snapshot()
}

func (ps *PlaceService) TimelapseEvents() []model.PlacementEvent {
	return ps.manager.Events()
}

func (ps *PlaceService) CanvasFilePath() string {
	return ps.store.CanvasPath()
}

func (ps *PlaceService) TimelapseFilePath() string {
	return ps.store.TimelapsePath()
}
