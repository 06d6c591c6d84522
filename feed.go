package main

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/sasha-s/go-deadlock"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufSize    = 16
	maxSpectators  = 32
)

// DroneFrame is one own drone as shown to spectators
type DroneFrame struct {
	ID        int    `msgpack:"id"`
	Pos       Point  `msgpack:"p"`
	Battery   int    `msgpack:"b"`
	Target    int    `msgpack:"t"`
	Direction string `msgpack:"q,omitempty"`
	History   []int  `msgpack:"h,omitempty"`
	Directive string `msgpack:"cmd"`
}

// CreatureFrame is one creature as shown to spectators
type CreatureFrame struct {
	ID      int   `msgpack:"id"`
	Pos     Point `msgpack:"p"`
	Scanned bool  `msgpack:"s"`
	Visible bool  `msgpack:"v"`
}

// Frame is the msgpack payload broadcast after each turn
type Frame struct {
	Turn      int             `msgpack:"turn"`
	MyScore   int             `msgpack:"ms"`
	FoeScore  int             `msgpack:"fs"`
	Drones    []DroneFrame    `msgpack:"d"`
	Foes      []Point         `msgpack:"f"`
	Creatures []CreatureFrame `msgpack:"c"`
}

// BuildFrame captures the agent's state after a turn
func BuildFrame(a *Agent, dirs []Directive) Frame {
	mine, foe := a.Scores()
	fr := Frame{Turn: a.TurnNumber(), MyScore: mine, FoeScore: foe}

	cmds := make(map[int]string, len(dirs))
	for _, d := range dirs {
		cmds[d.DroneID] = d.String()
	}
	for _, d := range a.OwnDrones().All() {
		df := DroneFrame{
			ID:        d.ID,
			Pos:       d.Pos,
			Battery:   d.Battery,
			Target:    d.Target,
			History:   d.History,
			Directive: cmds[d.ID],
		}
		if d.HasTarget() {
			df.Direction = d.Direction.String()
		}
		fr.Drones = append(fr.Drones, df)
	}
	for _, d := range a.FoeDrones().All() {
		fr.Foes = append(fr.Foes, d.Pos)
	}
	creatures := a.Creatures()
	for _, c := range creatures.All() {
		fr.Creatures = append(fr.Creatures, CreatureFrame{
			ID:      c.ID,
			Pos:     c.Pos,
			Scanned: c.Scanned,
			Visible: creatures.Visible(c.ID),
		})
	}
	return fr
}

// Feed fans turn frames out to websocket spectators. Publishing never blocks
// the turn loop: slow spectators miss frames.
type Feed struct {
	mu      deadlock.RWMutex
	clients map[*Spectator]bool
	last    []byte
}

// NewFeed creates an empty Feed
func NewFeed() *Feed {
	return &Feed{clients: make(map[*Spectator]bool)}
}

// ObserveTurn publishes the frame of the turn just decided
func (f *Feed) ObserveTurn(a *Agent, _ TurnSnapshot, dirs []Directive) {
	f.Publish(BuildFrame(a, dirs))
}

// Publish encodes fr once and queues it for every spectator
func (f *Feed) Publish(fr Frame) {
	data, err := msgpack.Marshal(&fr)
	if err != nil {
		log.Warn("feed: encode frame", "err", err)
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = data
	for s := range f.clients {
		select {
		case s.send <- data:
		default:
		}
	}
}

// Count returns the number of connected spectators
func (f *Feed) Count() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.clients)
}

// add registers s and primes it with the latest frame. It fails when the
// feed is full.
func (f *Feed) add(s *Spectator) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.clients) >= maxSpectators {
		return false
	}
	f.clients[s] = true
	if f.last != nil {
		s.send <- f.last
	}
	return true
}

func (f *Feed) remove(s *Spectator) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.clients[s]; ok {
		delete(f.clients, s)
		close(s.send)
	}
}

// Spectator is one websocket connection on the feed
type Spectator struct {
	feed *Feed
	conn *websocket.Conn
	send chan []byte
}

func newSpectator(feed *Feed, conn *websocket.Conn) *Spectator {
	return &Spectator{
		feed: feed,
		conn: conn,
		send: make(chan []byte, sendBufSize),
	}
}

// readPump discards inbound messages and keeps the pong deadline fresh
func (s *Spectator) readPump() {
	defer func() {
		s.feed.remove(s)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug("feed: read", "err", err)
			}
			return
		}
	}
}

// writePump sends queued frames as binary messages
func (s *Spectator) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
