package supervisor

import (
	"context"
	"sync"

	"roboone/internal/batterymanager"
	"roboone/internal/hardware"
	"roboone/internal/logging"
	"roboone/internal/taskhandler"
)

// TransitionFunc is notified every time Dispatch moves the Supervisor into
// a new state; it is how the debug HTTP/WS surface (§2.2) learns the
// current state name without polling.
type TransitionFunc func(stateName string)

// Context is the Supervisor's private data: the active State plus the
// façade clients its entry actions drive. One Context exists per process;
// Dispatch serialises all access, matching §5's single-threaded-per-server
// model.
type Context struct {
	mu    sync.Mutex
	state State

	hardware *hardware.Client
	battery  *batterymanager.Client
	tasks    *taskhandler.Client

	// pendingTask carries a TasksAvailable event's payload from the
	// handler that decided the transition (e.g. Init, BatteryIdle, Docked)
	// through to Mobile's entry action, which is what actually dispatches
	// it (§4.4's "dispatch the task that caused the transition").
	pendingTask *TasksAvailableReq

	onTransition TransitionFunc

	// listenPort is this Supervisor's own state-event port (§6.2); never a
	// valid destination for TASK_HANDLER_TASK_IND, since that port's
	// catalog assigns overlapping type codes to the Supervisor's own
	// events (see taskIndPort).
	listenPort uint16

	// taskIndPort is the dedicated listener where this Supervisor itself
	// receives TASK_HANDLER_TASK_IND for tasks it originated (§4.5, §8
	// scenario 5) — handed to the Task Handler as the task's header port
	// whenever the triggering TasksAvailableReq carries none of its own.
	taskIndPort uint16
}

// NewContext builds a Supervisor Context wired against its three façade
// clients, starting in Init. listenPort is this server's own state-event
// port; taskIndPort is where it listens for TASK_HANDLER_TASK_IND.
func NewContext(hw *hardware.Client, battery *batterymanager.Client, tasks *taskhandler.Client, listenPort, taskIndPort uint16) *Context {
	ctx := &Context{
		hardware:    hw,
		battery:     battery,
		tasks:       tasks,
		listenPort:  listenPort,
		taskIndPort: taskIndPort,
	}
	ctx.state = stateInit
	return ctx
}

// OnTransition installs a callback invoked after every state change, while
// Dispatch still holds the Context's lock. Passing nil disables
// notification.
func (c *Context) OnTransition(fn TransitionFunc) {
	c.mu.Lock()
	c.onTransition = fn
	c.mu.Unlock()
}

// StateName reports the currently active state's name (§4.4's 24-character
// bound), safe for concurrent use by the debug surface.
func (c *Context) StateName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return truncateStateName(c.state.Name())
}

func truncateStateName(name string) string {
	if len(name) <= maxStateNameLen {
		return name
	}
	return name[:maxStateNameLen]
}

func (c *Context) bg() context.Context { return context.Background() }

// dispatchInitFailure is how a failing entry action posts InitFailure to
// itself (§4.4), re-entering Dispatch's transition logic rather than
// special-casing a self-call.
func (c *Context) dispatchInitFailure() {
	c.transition(c.state.OnInitFailure(c))
}

// dispatchTask forwards a task to the Task Handler. Per §4.5 the resulting
// TASK_HANDLER_TASK_IND must go to the task's own originator, named in
// req.Header when present; when it isn't, this Supervisor is the
// originator itself, so the indication is routed to taskIndPort — its
// dedicated task-indication listener, never listenPort (§ DESIGN.md).
func (c *Context) dispatchTask(req *TasksAvailableReq) {
	port, ip := c.taskIndPort, ""
	if req.HeaderPresent {
		port = req.Header.SourceServerPort
		if req.Header.IPPresent {
			ip = req.Header.IP
		}
	}
	if ok := c.tasks.NewTaskTo(c.bg(), req.Protocol, req.Command, port, ip); !ok {
		logging.Errorf("supervisor: dispatching task to task handler failed")
	}
}

// transition moves to next if it differs from the current state (pointer
// identity, since states are singletons), running its entry actions and
// notification hook. A nil next means "no transition" and is a no-op —
// callers that need "stay and rerun nothing" behaviour get that for free.
// Called with c.mu held; must never re-lock it, so the notified name is
// taken from next directly rather than through StateName.
func (c *Context) transition(next State) {
	if next == nil {
		return
	}
	changed := next != c.state
	c.state = next
	if !changed {
		return
	}
	next.OnEntry(c)
	if fn := c.onTransition; fn != nil {
		fn(truncateStateName(next.Name()))
	}
}

// Dispatch handles one event to completion: look up the current state's
// handler, apply any transition, and log unhandled events without ever
// propagating a process-ending error (§4.4).
func (c *Context) Dispatch(event Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var next State
	switch e := event.(type) {
	case eventInit:
		next = c.state.OnInit(c)
	case eventInitFailure:
		next = c.state.OnInitFailure(c)
	case eventTimerExpiry:
		next = c.state.OnTimerExpiry(c)
	case eventTasksAvailable:
		next = c.state.OnTasksAvailable(c, e.req)
	case eventNoTasksAvailable:
		next = c.state.OnNoTasksAvailable(c)
	case eventMainsPowerAvailable:
		next = c.state.OnMainsPowerAvailable(c)
	case eventInsufficientPower:
		next = c.state.OnInsufficientPower(c)
	case eventFullyCharged:
		next = c.state.OnFullyCharged(c)
	case eventShutdown:
		next = c.state.OnShutdown(c)
	default:
		logging.Errorf("supervisor: unknown event %T", event)
		return
	}

	if next == nil {
		logging.Debugf("supervisor: event %T unhandled in state %s, dropped", event, c.state.Name())
		return
	}
	c.transition(next)
}

// Event is the sum type Dispatch accepts, one case per §4.4 event. Only
// eventTasksAvailable carries a payload.
type Event interface{ isEvent() }

type (
	eventInit                struct{}
	eventInitFailure         struct{}
	eventTimerExpiry         struct{}
	eventTasksAvailable      struct{ req *TasksAvailableReq }
	eventNoTasksAvailable    struct{}
	eventMainsPowerAvailable struct{}
	eventInsufficientPower   struct{}
	eventFullyCharged        struct{}
	eventShutdown            struct{}
)

func (eventInit) isEvent()                {}
func (eventInitFailure) isEvent()         {}
func (eventTimerExpiry) isEvent()         {}
func (eventTasksAvailable) isEvent()      {}
func (eventNoTasksAvailable) isEvent()    {}
func (eventMainsPowerAvailable) isEvent() {}
func (eventInsufficientPower) isEvent()   {}
func (eventFullyCharged) isEvent()        {}
func (eventShutdown) isEvent()            {}
