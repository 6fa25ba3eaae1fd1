package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ssps-place/place-backend/internal/metrics"
	"github.com/ssps-place/place-backend/internal/model"
	"github.com/ssps-place/place-backend/internal/ws"
)

// Client-facing rejection texts. The frontend matches on these.
const (
	msgInvalidFormat = "Invalid message format"
	msgInvalidPixel  = "Invalid pixel data"
	msgInvalidColor  = "Invalid color"
	msgCooldownWait  = "You must wait before placing another pixel"
)

// session wraps one registered connection with a write lock. Broadcasts and
// sender replies originate from different read-loop goroutines, and the
// underlying websocket connection forbids concurrent writers.
type session struct {
	mu   sync.Mutex
	conn ws.Conn
}

func (s *session) writeJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(v)
}

// sessionRegistry tracks the live connections broadcasts fan out to.
type sessionRegistry struct {
	mu       sync.RWMutex
	sessions map[ws.Conn]*session
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{
		sessions: make(map[ws.Conn]*session),
	}
}

func (r *sessionRegistry) add(conn ws.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[conn] = &session{conn: conn}
}

func (r *sessionRegistry) remove(conn ws.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, conn)
}

func (r *sessionRegistry) lookup(conn ws.Conn) *session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[conn]
}

func (r *sessionRegistry) snapshot() []*session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}

func (r *sessionRegistry) size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CanvasManager is the session coordinator: it owns the canvas, the cooldown
// tracker and the timelapse behind a single mutex, gates every placement
// intent, and fans accepted placements out to every live session. Rejections
// go only to the originating session.
type CanvasManager struct {
	mu        sync.Mutex // serializes the admission -> mutate -> append pipeline
	canvas    *model.Canvas
	cooldowns *model.CooldownTracker
	timelapse *model.Timelapse

	store    *Store
	resolver *HostnameResolver
	sessions *sessionRegistry

	now func() time.Time
	log *logrus.Entry
}

func NewCanvasManager(store *Store, resolver *HostnameResolver, cooldowns *model.CooldownTracker) *CanvasManager {
	return &CanvasManager{
		canvas:    model.NewCanvas(),
		cooldowns: cooldowns,
		timelapse: model.NewTimelapse(),
		store:     store,
		resolver:  resolver,
		sessions:  newSessionRegistry(),
		now:       time.Now,
		log:       logrus.WithField("component", "coordinator"),
	}
}

// Restore loads the persisted canvas and timelapse. Missing or broken files
// leave the corresponding structure empty; the server boots regardless.
func (m *CanvasManager) Restore() {
	m.canvas.Replace(m.store.LoadCanvas())
	m.timelapse.Replace(m.store.LoadTimelapse())
}

// StartBackground launches the autosave and cooldown-sweep tickers. They run
// for the life of the process; there is no flush on shutdown, the autosave
// interval bounds the loss window.
func (m *CanvasManager) StartBackground(autosaveInterval, sweepInterval time.Duration) {
	go m.autosaveLoop(autosaveInterval)
	go m.sweepLoop(sweepInterval)
}

func (m *CanvasManager) autosaveLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		m.Flush()
	}
}

func (m *CanvasManager) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		if dropped := m.cooldowns.Sweep(m.now()); dropped > 0 {
			m.log.WithField("dropped", dropped).Debug("swept expired cooldowns")
		}
	}
}

// Flush saves both durable files from the current in-memory state. It is
// idempotent and safe to invoke concurrently with itself; the last writer
// wins on each file. Empty state is skipped, not written: a canvas whose
// only pixels came from the restored snapshot is already on disk, and every
// accepted placement triggers its own save.
func (m *CanvasManager) Flush() {
	if snapshot := m.canvas.Snapshot(); len(snapshot) > 0 {
		m.store.SaveCanvas(snapshot)
	}
	if events := m.timelapse.Events(); len(events) > 0 {
		m.store.SaveTimelapse(events)
	}
}

// HandleConnect registers a new session. A client reconnecting while its
// cooldown is still running is told immediately so it can render the timer
// without first attempting a placement.
func (m *CanvasManager) HandleConnect(key string, conn ws.Conn) {
	m.sessions.add(conn)
	metrics.ConnectionOpened()
	m.log.WithFields(logrus.Fields{"client": key, "sessions": m.sessions.size()}).Info("client connected")

	status := m.cooldowns.Check(key, m.now())
	if !status.Allowed {
		m.writeTo(conn, ws.NewCooldownStatus(false, status.Remaining.Milliseconds()))
	}
}

// HandleDisconnect drops the session from the broadcast set. Cooldowns and
// canvas state are keyed by address and coordinate, not by connection, so
// nothing else needs cleaning up.
func (m *CanvasManager) HandleDisconnect(key string, conn ws.Conn) {
	m.sessions.remove(conn)
	metrics.ConnectionClosed()
	m.log.WithField("client", key).Info("client disconnected")
}

// HandleMessage decodes one inbound frame and dispatches on its declared
// type. An unparsable frame gets a generic error reply and the connection
// stays open; an unrecognized type is logged and ignored.
func (m *CanvasManager) HandleMessage(key string, conn ws.Conn, raw []byte) {
	env, err := ws.DecodeEnvelope(raw)
	if err != nil {
		m.log.WithError(err).WithField("client", key).Warn("unparsable message")
		m.writeTo(conn, ws.NewError(msgInvalidFormat))
		return
	}

	switch env.Type {
	case ws.MessageTypePixel:
		req, err := ws.DecodePixelRequest(raw)
		if err != nil {
			metrics.RecordPlacement(metrics.StatusRejectedMalformed)
			m.log.WithError(err).WithField("client", key).Warn("invalid pixel data")
			m.writeTo(conn, ws.NewError(msgInvalidPixel))
			return
		}
		m.HandlePlacement(key, conn, req)

	case ws.MessageTypeRequestCanvas:
		m.writeTo(conn, ws.NewCanvasState(m.canvas.Snapshot()))

	case ws.MessageTypeCheckCooldown:
		status := m.cooldowns.Check(key, m.now())
		m.writeTo(conn, ws.NewCooldownStatus(status.Allowed, status.Remaining.Milliseconds()))

	default:
		m.log.WithFields(logrus.Fields{"client": key, "type": env.Type}).Warn("unknown message type")
	}
}

// HandlePlacement runs the accept pipeline for one placement intent:
// validate, palette gate, cooldown gate, then mutate canvas, append to the
// timelapse, schedule persistence and fan out. A rejected placement never
// touches canvas, timelapse or the client's existing cooldown.
func (m *CanvasManager) HandlePlacement(key string, conn ws.Conn, req ws.PixelRequest) {
	if !model.InBounds(req.X, req.Y) {
		metrics.RecordPlacement(metrics.StatusRejectedMalformed)
		m.log.WithFields(logrus.Fields{"client": key, "x": req.X, "y": req.Y}).Warn("invalid pixel data")
		m.writeTo(conn, ws.NewError(msgInvalidPixel))
		return
	}

	if !model.IsAllowedColor(req.Color) {
		metrics.RecordPlacement(metrics.StatusRejectedColor)
		m.log.WithFields(logrus.Fields{"client": key, "color": req.Color}).Warn("disallowed color")
		m.writeTo(conn, ws.NewError(msgInvalidColor))
		return
	}

	m.mu.Lock()
	now := m.now()
	status := m.cooldowns.Check(key, now)
	if !status.Allowed {
		m.mu.Unlock()
		metrics.RecordPlacement(metrics.StatusRejectedCooldown)
		m.writeTo(conn, ws.NewCooldownError(msgCooldownWait, status.Remaining.Milliseconds(), req.X, req.Y, req.PreviousColor))
		return
	}

	deadline := m.cooldowns.Record(key, now)
	m.canvas.Set(req.X, req.Y, req.Color)
	event := model.PlacementEvent{
		ID:        uuid.New().String(),
		X:         req.X,
		Y:         req.Y,
		Color:     req.Color,
		Timestamp: now.UnixMilli(),
		IP:        model.AnonymizeIP(key),
	}
	m.timelapse.Append(event)

	// Persistence and hostname enrichment never block the accept path.
	go m.store.SaveCanvas(m.canvas.Snapshot())
	go m.enrich(event.ID, key)

	// Fan-out and the sender's deadline reply stay inside the serialized
	// section so every session observes placements in acceptance order.
	m.broadcast(ws.NewPixelBroadcast(req.X, req.Y, req.Color, now.UnixMilli()))
	m.writeTo(conn, ws.NewCooldownStarted(deadline.UnixMilli()))
	m.mu.Unlock()

	metrics.RecordPlacement(metrics.StatusAccepted)

	m.log.WithFields(logrus.Fields{
		"client": key,
		"x":      req.X,
		"y":      req.Y,
		"color":  req.Color,
	}).Info("pixel placed")
}

// enrich resolves the provenance label for an appended event and persists
// the updated timelapse.
func (m *CanvasManager) enrich(eventID, key string) {
	hostname := m.resolver.Resolve(key)
	if !m.timelapse.SetHostname(eventID, hostname) {
		return
	}
	m.store.SaveTimelapse(m.timelapse.Events())
}

// broadcast writes one frame to every live session, the sender included.
// Sessions that fail the write are dropped from the registry.
func (m *CanvasManager) broadcast(frame interface{}) {
	written := 0
	for _, s := range m.sessions.snapshot() {
		if err := s.writeJSON(frame); err != nil {
			m.log.WithError(err).Warn("failed to write frame, dropping session")
			m.sessions.remove(s.conn)
			continue
		}
		written++
	}
	metrics.RecordBroadcastFrames(written)
}

// writeTo sends one frame to a single connection, through its session write
// lock when it is registered.
func (m *CanvasManager) writeTo(conn ws.Conn, frame interface{}) error {
	var err error
	if s := m.sessions.lookup(conn); s != nil {
		err = s.writeJSON(frame)
	} else {
		err = conn.WriteJSON(frame)
	}
	if err != nil {
		m.log.WithError(err).Warn("failed to write frame")
	}
	return err
}

// CheckCooldown reports the current admission status for key.
func (m *CanvasManager) CheckCooldown(key string) model.CooldownStatus {
	return m.cooldowns.Check(key, m.now())
}

// Snapshot returns the full current canvas mapping.
func (m *CanvasManager) Snapshot() model.CanvasSnapshot {
	return m.canvas.Snapshot()
}

// Events returns the ordered timelapse history.
func (m *CanvasManager) Events() []model.PlacementEvent {
	return m.timelapse.Events()
}
