// Package debugsurface is the read-only chi-routed HTTP/WS introspection
// surface named in §2.2/§6.2: a human (or a dashboard) can see the
// Supervisor's current state, the Timer Service's live timer count, and
// the Task Handler's in-flight task count, and can watch state
// transitions stream over a websocket as they happen. It never drives any
// wire operation — it only reads snapshots and subscribes to the event
// bus, so it can be left off entirely without changing RoboOne's
// behaviour (§5 notes it isn't on the critical path of any wire
// operation).
package debugsurface

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"roboone/internal/eventbus"
	"roboone/internal/logging"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

// StateNamer reports the Supervisor's currently active state name.
type StateNamer interface {
	StateName() string
}

// Counter reports a live count (timers armed, tasks in flight).
type Counter interface {
	Len() int
}

// Server is the debug surface's HTTP side.
type Server struct {
	router *chi.Mux
	http   *http.Server

	supervisor StateNamer
	timers     Counter
	tasks      Counter
	bus        *eventbus.Bus
}

// StateTransitionEvent is the event bus type name the Supervisor publishes
// on every transition; the /ws/state handler subscribes to exactly this.
const StateTransitionEvent = "supervisor.state_transition"

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// New builds a debug surface bound to the given snapshot providers and
// event bus. Any of supervisor/timers/tasks may be nil, in which case its
// endpoint reports "unavailable" rather than panicking — a server that
// hasn't started yet shouldn't crash the introspection surface for the
// ones that have.
func New(supervisor StateNamer, timers, tasks Counter, bus *eventbus.Bus) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		supervisor: supervisor,
		timers:     timers,
		tasks:      tasks,
		bus:        bus,
	}
	s.router.Get("/state", s.handleState)
	s.router.Get("/timers", s.handleTimers)
	s.router.Get("/tasks", s.handleTasks)
	s.router.Get("/ws/state", s.handleWSState)
	return s
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if s.supervisor == nil {
		http.Error(w, "supervisor not attached", http.StatusServiceUnavailable)
		return
	}
	sendJSON(w, map[string]string{"state": s.supervisor.StateName()})
}

func (s *Server) handleTimers(w http.ResponseWriter, r *http.Request) {
	if s.timers == nil {
		http.Error(w, "timer service not attached", http.StatusServiceUnavailable)
		return
	}
	sendJSON(w, map[string]int{"armed": s.timers.Len()})
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	if s.tasks == nil {
		http.Error(w, "task handler not attached", http.StatusServiceUnavailable)
		return
	}
	sendJSON(w, map[string]int{"inFlight": s.tasks.Len()})
}

// handleWSState upgrades to a websocket and pushes one JSON frame per
// Supervisor state transition, for as long as the client stays connected.
func (s *Server) handleWSState(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Errorf("debug surface: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	sub := s.bus.Subscribe(StateTransitionEvent, func(e eventbus.Event) {
		name, _ := e.Data().(string)
		_ = conn.WriteJSON(map[string]string{"state": name})
	})
	defer s.bus.Unsubscribe(StateTransitionEvent, sub)

	// A read loop with no consumer is still needed to notice the peer
	// closing the connection (gorilla/websocket requires reads to detect
	// close frames and keep the connection's deadlines serviced).
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func sendJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Errorf("debug surface: encoding response: %v", err)
	}
}

// Run serves the debug surface on addr until ctx is cancelled, matching
// the teacher's context-driven HTTP server shutdown pattern.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.http = &http.Server{Addr: addr, Handler: s.router}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.http.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}
