package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/safal938/iso-clinic-v2-sub000/sim"
	"github.com/safal938/iso-clinic-v2-sub000/sim/comparison"
)

// Control message types accepted on the websocket.
const (
	controlStart = "start"
	controlPause = "pause"
	controlReset = "reset"
)

// controlMsg is a client command.
type controlMsg struct {
	Type string `json:"type"`
}

// frameMsg is the snapshot pushed to every client after each frame.
type frameMsg struct {
	Type       string                            `json:"type"` // always "frame"
	Running    bool                              `json:"running"`
	Arms       map[comparison.ArmID]sim.Snapshot `json:"arms"`
	Comparison comparison.Comparison             `json:"comparison"`
}

// bootstrapMsg describes the static floor plans of both arms.
type bootstrapMsg struct {
	Arms map[comparison.ArmID]*sim.Topology `json:"arms"`
}

// LiveServer drives a comparative run from a wall-clock ticker and streams
// snapshots to websocket clients. The simulation is owned by the Run
// goroutine; clients only see encoded frames.
type LiveServer struct {
	run         *comparison.ComparativeRun
	controllers []*sim.Controller
	commands    chan string

	upgrader websocket.Upgrader

	mu      sync.Mutex
	latest  []byte
	clients map[chan []byte]struct{}
}

// NewLiveServer wraps run in a paused live server.
func NewLiveServer(run *comparison.ComparativeRun) *LiveServer {
	s := &LiveServer{
		run:      run,
		commands: make(chan string, 16),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
		clients: make(map[chan []byte]struct{}),
	}
	for _, a := range run.Arms() {
		s.controllers = append(s.controllers, sim.NewController(a.Simulator()))
	}
	s.publish()
	return s
}

// Handler serves /ws and /bootstrap.
func (s *LiveServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/bootstrap", s.handleBootstrap)
	return mux
}

// Run advances the arms once per frame interval until ctx is cancelled.
// Elapsed wall time is measured between frames; paused frames discard it.
func (s *LiveServer) Run(ctx context.Context, frame time.Duration) {
	ticker := time.NewTicker(frame)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-s.commands:
			s.apply(cmd)
			s.publish()
		case now := <-ticker.C:
			elapsed := float64(now.Sub(last)) / float64(time.Millisecond)
			last = now
			if s.frame(elapsed) > 0 {
				s.publish()
			}
		}
	}
}

// apply executes one control command.
func (s *LiveServer) apply(cmd string) {
	for _, c := range s.controllers {
		switch cmd {
		case controlStart:
			c.Start()
		case controlPause:
			c.Pause()
		case controlReset:
			c.Reset()
		}
	}
	logrus.Infof("live: %s", cmd)
}

// frame advances every running arm and returns the ticks executed.
func (s *LiveServer) frame(elapsedRealMs float64) int {
	ran := 0
	for _, c := range s.controllers {
		ran += c.Frame(elapsedRealMs)
	}
	return ran
}

func (s *LiveServer) running() bool {
	return len(s.controllers) > 0 && s.controllers[0].Running()
}

// publish encodes the current state and offers it to every client. Slow
// clients miss frames instead of stalling the simulation.
func (s *LiveServer) publish() {
	snap := s.run.Snapshot()
	b, err := json.Marshal(frameMsg{
		Type:       "frame",
		Running:    s.running(),
		Arms:       snap.Arms,
		Comparison: s.run.Compare(),
	})
	if err != nil {
		logrus.Errorf("live: encoding frame: %v", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = b
	for ch := range s.clients {
		select {
		case ch <- b:
		default:
		}
	}
}

func (s *LiveServer) subscribe() (chan []byte, []byte) {
	ch := make(chan []byte, 4)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[ch] = struct{}{}
	return ch, s.latest
}

func (s *LiveServer) unsubscribe(ch chan []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, ch)
}

func (s *LiveServer) handleBootstrap(rw http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		rw.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	resp := bootstrapMsg{Arms: make(map[comparison.ArmID]*sim.Topology)}
	for _, a := range s.run.Arms() {
		resp.Arms[a.ID()] = a.Simulator().Topology()
	}
	rw.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(rw).Encode(resp)
}

func (s *LiveServer) handleWS(rw http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	out, first := s.subscribe()
	defer s.unsubscribe(out)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Writer goroutine.
	writeErr := make(chan error, 1)
	go func() {
		if first != nil {
			_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, first); err != nil {
				writeErr <- err
				return
			}
		}
		for {
			select {
			case <-ctx.Done():
				writeErr <- ctx.Err()
				return
			case b := <-out:
				_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					writeErr <- err
					return
				}
			}
		}
	}()

	// Reader loop: control messages.
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var ctl controlMsg
		if err := json.Unmarshal(msg, &ctl); err != nil {
			continue
		}
		switch ctl.Type {
		case controlStart, controlPause, controlReset:
		default:
			logrus.Debugf("live: ignoring control %q", ctl.Type)
			continue
		}
		select {
		case s.commands <- ctl.Type:
		default:
			// Drop under load; the client may resend.
		}
	}

	cancel()
	// Best-effort wait for the writer to stop so it doesn't outlive conn.
	select {
	case <-writeErr:
	case <-time.After(500 * time.Millisecond):
	}
}
