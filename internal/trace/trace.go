// Package trace implements spec §6's "Observable state / trace": an
// optional listener receiving every performed event in order, plus a
// recorder that can serialize the stream for reproducible replay and
// testing, grounded on the teacher's Replay type (gob+gzip snapshot
// persistence) generalized from whole-state snapshots to an append-only
// event log, and a websocket broadcaster grounded on the teacher's
// gorilla/websocket-based notification path.
package trace

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/cardforge/rulesforge/internal/kernel/events"
)

// Recorder appends every performed event to an in-memory, append-only
// log, grounded on the teacher's Replay.RecordState but recording one
// event at a time instead of a full state snapshot per step (spec §6:
// "the trace stream is append-only").
type Recorder struct {
	mu     sync.Mutex
	events []events.Event
}

// NewRecorder returns an empty recorder. Listen is meant to be passed to
// events.Bus.Subscribe.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Listen is an events.Listener that appends every event to the trace.
func (r *Recorder) Listen(e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded trace so far.
func (r *Recorder) Events() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.Event(nil), r.events...)
}

// SaveToFile persists the trace as a gob-encoded, gzip-compressed file,
// grounded on the teacher's Replay.SaveToFile.
func (r *Recorder) SaveToFile(path string) error {
	r.mu.Lock()
	snapshot := append([]events.Event(nil), r.events...)
	r.mu.Unlock()

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("trace: create %s: %w", path, err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	if err := gob.NewEncoder(gzipWriter).Encode(snapshot); err != nil {
		return fmt.Errorf("trace: encode: %w", err)
	}
	return nil
}

// LoadFromFile reads a trace previously written by SaveToFile.
func LoadFromFile(path string) ([]events.Event, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("trace: open %s: %w", path, err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("trace: gzip reader: %w", err)
	}
	defer gzipReader.Close()

	var out []events.Event
	if err := gob.NewDecoder(gzipReader).Decode(&out); err != nil {
		return nil, fmt.Errorf("trace: decode: %w", err)
	}
	return out, nil
}

// Broadcaster fans out every performed event to connected websocket
// clients, grounded on the teacher's notification-handler/websocket
// wiring in the server package (one handler per game). Sends run on the
// goroutine that publishes the event and no write deadline is set, so a
// slow reader delays that caller until its write returns.
type Broadcaster struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewBroadcaster returns an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{clients: make(map[*websocket.Conn]bool)}
}

// Add registers a client connection to receive future events.
func (b *Broadcaster) Add(conn *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clients[conn] = true
}

// Remove unregisters a client connection (on disconnect).
func (b *Broadcaster) Remove(conn *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.clients, conn)
	conn.Close()
}

// Listen is an events.Listener that writes each event to every connected
// client as JSON, in the caller's goroutine, dropping (and unregistering)
// any client whose write returns an error.
func (b *Broadcaster) Listen(e events.Event) {
	b.mu.Lock()
	clients := make([]*websocket.Conn, 0, len(b.clients))
	for c := range b.clients {
		clients = append(clients, c)
	}
	b.mu.Unlock()

	for _, c := range clients {
		if err := c.WriteJSON(e); err != nil {
			b.Remove(c)
		}
	}
}
