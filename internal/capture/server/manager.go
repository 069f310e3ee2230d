// Package server implements the capture relay server: it accepts framed
// HPACK byte blocks from capture agents, decodes each with a
// session-scoped hpack.Decoder, and fans the decoded header sets out to
// subscribed viewers. Sessions use the same generate-id /
// map-of-live-sessions / periodic-stale-sweep shape as a connection-group
// manager, applied to decode sessions instead of live connections.
package server

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"go.uber.org/zap"

	"loom/internal/capture"
	"loom/internal/shared/compression/hpack"
	"loom/internal/shared/constants"
)

// DecodedHeader is one header field decoded from an agent's stream, tagged
// with the table generation it was decoded under.
type DecodedHeader struct {
	Name       string `json:"name"`
	Value      string `json:"value"`
	NeverIndex bool   `json:"never_index"`
	Generation uint64 `json:"generation"`
}

// Viewer receives decoded header sets for the sessions it subscribes to.
type Viewer struct {
	ID      string
	Outbox  chan []DecodedHeader
	session string
}

// Session owns one agent's decoder state. Sessions never share a
// hpack.Decoder, matching the codec's single-owner contract.
type Session struct {
	ID      string
	decoder *hpack.Decoder

	mu       sync.Mutex
	viewers  map[string]*Viewer
	lastSeen time.Time
}

// GenerateSessionID produces a random session identifier, mirroring the
// teacher's GenerateTunnelID.
func GenerateSessionID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func newSession(id string, tableSize, hardMax uint32) *Session {
	return &Session{
		ID:       id,
		decoder:  hpack.NewDecoder(tableSize, hardMax),
		viewers:  make(map[string]*Viewer),
		lastSeen: time.Now(),
	}
}

// Subscribe registers a viewer for this session's decoded output.
func (s *Session) Subscribe(v *Viewer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v.session = s.ID
	s.viewers[v.ID] = v
}

// Unsubscribe removes a viewer.
func (s *Session) Unsubscribe(viewerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.viewers, viewerID)
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Session) isStale(timeout time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastSeen) > timeout
}

func (s *Session) broadcast(headers []DecodedHeader) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.viewers {
		select {
		case v.Outbox <- headers:
		default:
			// A slow viewer does not get to back-pressure the decoder; it
			// simply misses this publish.
		}
	}
}

// HandleData decodes every header representation in payload, in order, and
// fans the resulting header set out to this session's viewers. A decode
// error stops at the first bad representation and is returned to the
// caller, who is expected to close the session; headers successfully
// decoded earlier in the same payload are still published.
func (s *Session) HandleData(payload []byte) error {
	s.touch()

	var decoded []DecodedHeader
	out := make([]byte, 0, 512)
	pos := 0
	for pos < len(payload) {
		field, consumed, written, err := s.decoder.Decode(payload[pos:], out)
		if err != nil {
			if len(decoded) > 0 {
				s.broadcast(decoded)
			}
			return err
		}
		line := out[:written]
		name := string(line[:field.NameLen])
		value := string(line[field.NameLen+2 : field.NameLen+2+field.ValueLen])
		decoded = append(decoded, DecodedHeader{
			Name:       name,
			Value:      value,
			NeverIndex: field.NeverIndex,
			Generation: s.decoder.TableGeneration(),
		})
		pos += consumed
	}

	if len(decoded) > 0 {
		s.broadcast(decoded)
	}
	return nil
}

// Manager tracks every live capture session and periodically sweeps ones
// that have gone quiet.
type Manager struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	logger   *zap.Logger

	cleanupInterval time.Duration
	staleTimeout    time.Duration
	stopCh          chan struct{}
	closeOnce       sync.Once
}

// NewManager creates a session manager and starts its background sweep.
func NewManager(logger *zap.Logger) *Manager {
	m := &Manager{
		sessions:        make(map[string]*Session),
		logger:          logger,
		cleanupInterval: 30 * time.Second,
		staleTimeout:    2 * capture.HeartbeatInterval,
		stopCh:          make(chan struct{}),
	}
	go m.cleanupLoop()
	return m
}

// CreateSession starts a new decode session with its own dynamic table.
func (m *Manager) CreateSession(tableSize, hardMax uint32) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := GenerateSessionID()
	s := newSession(id, tableSize, hardMax)
	m.sessions[id] = s
	return s
}

// GetSession looks up a live session by id.
func (m *Manager) GetSession(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// RemoveSession drops a session, e.g. after a decode error or a closed
// agent connection.
func (m *Manager) RemoveSession(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

func (m *Manager) cleanupLoop() {
	ticker := time.NewTicker(m.cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.sweepStale()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Manager) sweepStale() {
	m.mu.Lock()
	var staleIDs []string
	for id, s := range m.sessions {
		if s.isStale(m.staleTimeout) {
			staleIDs = append(staleIDs, id)
		}
	}
	for _, id := range staleIDs {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, id := range staleIDs {
		m.logger.Warn("capture session timed out",
			zap.String("code", constants.ErrCodeTimeout), zap.String("session_id", id))
	}
}

// Close stops the background sweep.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.stopCh)
	})
}
