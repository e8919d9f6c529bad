package supervisor

import (
	"context"
	"strconv"
	"sync"

	"roboone/internal/batterymanager"
	"roboone/internal/catalog"
	"roboone/internal/fabric"
	"roboone/internal/hardware"
	"roboone/internal/logging"
	"roboone/internal/taskhandler"
	"roboone/internal/wire"
)

// Server is the Supervisor's fabric-facing side: decode a message,
// translate it to an Event, and dispatch it to the Context. §4.4's single
// event fully processed before the next rule falls straight out of the
// Messaging Fabric's one-request-at-a-time connection handling (§5).
type Server struct {
	ctx *Context
}

func NewServer(ctx *Context) *Server {
	return &Server{ctx: ctx}
}

func (s *Server) Handle(received []byte) ([]byte, fabric.ReturnCode) {
	if len(received) == 0 {
		return nil, fabric.ExitNormally
	}

	msg, err := wire.DecodeBody(received)
	if err != nil {
		logging.Errorf("supervisor: %v", err)
		return nil, fabric.ErrMessageIncompleteOrTooLong
	}

	entry, ok := Catalog.Lookup(uint8(msg.Type))
	if !ok {
		logging.Errorf("supervisor: unknown type code %d", msg.Type)
		return nil, fabric.KeepRunning
	}

	switch entry.Code {
	case MsgServerStart, MsgServerStop:
		return respond(msg.Type, &catalog.Empty{})
	case MsgEventInit:
		s.ctx.Dispatch(eventInit{})
	case MsgEventInitFailure:
		s.ctx.Dispatch(eventInitFailure{})
	case MsgEventTimerExpiry:
		s.ctx.Dispatch(eventTimerExpiry{})
	case MsgEventTasksAvailable:
		req := &TasksAvailableReq{}
		if err := req.UnmarshalBinary(msg.Body); err != nil {
			logging.Errorf("supervisor: decoding EVENT_TASKS_AVAILABLE: %v", err)
			return respond(msg.Type, &catalog.Empty{})
		}
		s.ctx.Dispatch(eventTasksAvailable{req: req})
	case MsgEventNoTasksAvailable:
		s.ctx.Dispatch(eventNoTasksAvailable{})
	case MsgEventMainsPowerAvailable:
		s.ctx.Dispatch(eventMainsPowerAvailable{})
	case MsgEventInsufficientPower:
		// §4.4's deviation from the original source: routed to this
		// state's own InsufficientPower handler, not MainsPowerAvailable's.
		s.ctx.Dispatch(eventInsufficientPower{})
	case MsgEventFullyCharged:
		s.ctx.Dispatch(eventFullyCharged{})
	case MsgEventShutdown:
		s.ctx.Dispatch(eventShutdown{})
	default:
		return nil, fabric.KeepRunning
	}
	return respond(msg.Type, &catalog.Empty{})
}

func respond(msgType wire.MsgType, cnf catalog.Body) ([]byte, fabric.ReturnCode) {
	out, err := catalog.EncodeResponse(uint8(msgType), cnf)
	if err != nil {
		logging.Errorf("supervisor: marshalling confirmation: %v", err)
		return nil, fabric.ErrFailedToGetMemoryForResponse
	}
	return out, fabric.KeepRunning
}

// HandleTaskInd decodes an incoming TASK_HANDLER_TASK_IND, delivered by the
// Task Handler when this Supervisor is itself a task's originator (§4.5,
// §8 scenario 5), and records its outcome. It is decoded against the Task
// Handler's own catalog, never this server's: the two catalogs assign
// overlapping type codes (TASK_HANDLER_TASK_IND and MsgEventTimerExpiry
// both code 4), so this listener must run on its own port, separate from
// Handle's (see taskIndPort, ports.StateMachineTaskIndPort). Completion
// drives no Supervisor transition — §4.4's event table names none for it.
func (s *Server) HandleTaskInd(received []byte) ([]byte, fabric.ReturnCode) {
	if len(received) == 0 {
		return nil, fabric.ExitNormally
	}

	msg, err := wire.DecodeBody(received)
	if err != nil {
		logging.Errorf("supervisor: task indication: %v", err)
		return nil, fabric.ErrMessageIncompleteOrTooLong
	}
	if msg.Type != wire.MsgType(taskhandler.MsgTaskHandlerTaskInd) {
		logging.Errorf("supervisor: task indication listener got unexpected type code %d", msg.Type)
		return nil, fabric.KeepRunning
	}

	ind := &taskhandler.TaskInd{}
	if err := ind.UnmarshalBinary(msg.Body); err != nil {
		logging.Errorf("supervisor: decoding TASK_HANDLER_TASK_IND: %v", err)
		return nil, fabric.KeepRunning
	}

	switch ind.Protocol {
	case taskhandler.ProtocolHindbrainDirect:
		logging.Debugf("supervisor: task %d completed: hdResult=%v response=%q", ind.Handle, ind.HDResult, ind.Response)
	case taskhandler.ProtocolMotion:
		logging.Debugf("supervisor: task %d completed: motion=%v", ind.Handle, ind.Motion)
	}
	return nil, fabric.KeepRunning
}

// Run wires a Context against its façade clients and serves both the
// Supervisor's state-event port and its task-indication listener, blocking
// until shutdown. Entrypoint for cmd/statemachineserver.
func Run(ctx context.Context, port, taskIndPort string, hw *hardware.Client, battery *batterymanager.Client, tasks *taskhandler.Client) fabric.ReturnCode {
	listenPort, err := strconv.Atoi(port)
	if err != nil {
		logging.Errorf("supervisor: invalid port %q: %v", port, err)
		return fabric.ErrGeneralFailure
	}
	indPort, err := strconv.Atoi(taskIndPort)
	if err != nil {
		logging.Errorf("supervisor: invalid task indication port %q: %v", taskIndPort, err)
		return fabric.ErrGeneralFailure
	}

	svcCtx := NewContext(hw, battery, tasks, uint16(listenPort), uint16(indPort))
	srv := NewServer(svcCtx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if rc := fabric.RunServer(ctx, taskIndPort, srv.HandleTaskInd); rc != fabric.ExitNormally {
			logging.Errorf("supervisor: task indication listener exited with %s", rc)
		}
	}()

	rc := fabric.RunServer(ctx, port, srv.Handle)
	wg.Wait()
	return rc
}
