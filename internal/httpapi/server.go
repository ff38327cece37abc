// Package httpapi is the network-reachable boundary component
// SPEC_FULL.md §6.6 adds: a control plane for firing the same commands
// internal/terminal accepts from stdin, a snapshot endpoint, and a
// WebSocket stream of SET_DOT/MOVE_DOT events for external renderers that
// want a network boundary instead of an in-process one.
package httpapi

import (
	"net/http"

	"github.com/golang/glog"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/rs/cors"

	"github.com/latticevm/latticevm/internal/chem"
	"github.com/latticevm/latticevm/internal/dump"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// commandRequest is the POST /command body.
type commandRequest struct {
	Cmd  string `json:"cmd"`
	File string `json:"file"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// jobQueueSize bounds the backlog of HTTP-originated work waiting for the
// core's tick thread to drain it, mirroring internal/terminal's bounded
// command channel.
const jobQueueSize = 64

// Server wraps a *chem.Core behind the three §6.6 HTTP routes. Every
// request handler is one of two shapes: a pure function of the request (no
// core access at all), or a closure submitted to jobs and run by drain on
// whatever goroutine calls Core.Step — never on the request goroutine
// itself. This preserves SPEC_FULL §5's single-mutator invariant: core
// state and the event bus are touched by exactly one goroutine, the same
// way internal/terminal's Attach hook drains stdin commands.
type Server struct {
	router *httprouter.Router
	jobs   chan func(*chem.Core)
}

// New builds a Server over core and registers its OnTick drain hook. Call
// ListenAndServe to actually bind; New by itself lets tests exercise the
// router with httptest, as long as something also drives core.Step (a test
// calling core.Step() directly is enough — drain runs synchronously inside
// it).
func New(core *chem.Core) *Server {
	s := &Server{
		router: httprouter.New(),
		jobs:   make(chan func(*chem.Core), jobQueueSize),
	}
	core.OnTick(s.drain)
	s.router.POST("/command", s.handleCommand)
	s.router.GET("/snapshot", s.handleSnapshot)
	s.router.GET("/events", s.handleEvents)
	return s
}

// drain runs every queued job against the live core, on the core's own
// tick goroutine. It never blocks: a full queue means submit has already
// rejected new work with 503.
func (s *Server) drain(c *chem.Core) {
	for {
		select {
		case job := <-s.jobs:
			job(c)
		default:
			return
		}
	}
}

// submit enqueues job for the next tick. It reports whether the queue had
// room; callers translate a false return into 503.
func (s *Server) submit(job func(*chem.Core)) bool {
	select {
	case s.jobs <- job:
		return true
	default:
		return false
	}
}

// ListenAndServe binds addr with a permissive CORS policy, suitable for a
// local monitoring dashboard and nothing more hardened.
func (s *Server) ListenAndServe(addr string) error {
	handler := cors.AllowAll().Handler(s.router)
	glog.Infof("httpapi: serving on %s", addr)
	return http.ListenAndServe(addr, handler)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, errors.Wrap(err, "decode command").Error(), http.StatusBadRequest)
		return
	}

	var job func(*chem.Core)
	switch req.Cmd {
	case "run":
		job = func(c *chem.Core) { c.FireRun() }
	case "quit":
		job = func(c *chem.Core) { c.FireQuit() }
	case "load":
		job = func(c *chem.Core) { c.FireLoadDump(req.File) }
	case "save":
		job = func(c *chem.Core) { c.FireSaveDump(req.File) }
	default:
		http.Error(w, "unknown cmd "+req.Cmd, http.StatusBadRequest)
		return
	}

	if !s.submit(job) {
		http.Error(w, "command queue full", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	result := make(chan dump.Dump, 1)
	if !s.submit(func(c *chem.Core) { result <- c.Snapshot() }) {
		http.Error(w, "command queue full", http.StatusServiceUnavailable)
		return
	}

	var d dump.Dump
	select {
	case d = <-result:
	case <-r.Context().Done():
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(d); err != nil {
		glog.Errorf("httpapi: encoding snapshot: %v", err)
	}
}

// wsEvent is the newline-delimited JSON frame pushed to each /events
// client.
type wsEvent struct {
	Event string    `json:"event"`
	Offs0 chem.Offs `json:"offs0"`
	Offs1 chem.Offs `json:"offs1,omitempty"`
	Atom  uint16    `json:"atom"`
}

// subscription carries the two bus subscription ids back from the core
// thread, so the request goroutine knows what to unsubscribe on close.
type subscription struct {
	setID, moveID int
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		glog.Errorf("httpapi: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	out := make(chan wsEvent, 64)
	subs := make(chan subscription, 1)
	if !s.submit(func(c *chem.Core) {
		setID := c.Subscribe(chem.EventSetDot, func(p chem.EventParam) {
			select {
			case out <- wsEvent{Event: "set_dot", Offs0: p.Offs0, Atom: uint16(p.Atom)}:
			default:
			}
		})
		moveID := c.Subscribe(chem.EventMoveDot, func(p chem.EventParam) {
			select {
			case out <- wsEvent{Event: "move_dot", Offs0: p.Offs0, Offs1: p.Offs1, Atom: uint16(p.Atom)}:
			default:
			}
		})
		subs <- subscription{setID: setID, moveID: moveID}
	}) {
		glog.Errorf("httpapi: command queue full, dropping /events client")
		return
	}
	sub := <-subs

	defer func() {
		done := make(chan struct{})
		if s.submit(func(c *chem.Core) {
			c.Unsubscribe(chem.EventSetDot, sub.setID)
			c.Unsubscribe(chem.EventMoveDot, sub.moveID)
			close(done)
		}) {
			<-done
		}
	}()

	for ev := range out {
		if err := conn.WriteJSON(ev); err != nil {
			return
		}
	}
}
