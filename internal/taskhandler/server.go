package taskhandler

import (
	"context"
	"strconv"

	"roboone/internal/catalog"
	"roboone/internal/fabric"
	"roboone/internal/hardware"
	"roboone/internal/logging"
	"roboone/internal/wire"
)

// Server accepts tasks, dispatches them by protocol, and reports progress
// back to each task's originator (§4.5).
type Server struct {
	registry     *Registry
	hardware     *hardware.Client
	motionHandle func(context.Context, []byte) MotionResult
}

// NewServer wires a Task Handler against a Hardware façade client. motion
// may be nil, in which case Motion tasks always report
// MotionResultGeneralFailure, matching §4.5's "not specified here beyond
// this contract" stub.
func NewServer(hw *hardware.Client, motion func(context.Context, []byte) MotionResult) *Server {
	if motion == nil {
		motion = func(context.Context, []byte) MotionResult { return MotionResultGeneralFailure }
	}
	return &Server{registry: NewRegistry(), hardware: hw, motionHandle: motion}
}

// Registry exposes the in-flight task table for the debug surface's task
// counter (§2.2).
func (s *Server) Registry() *Registry { return s.registry }

func (s *Server) Handle(received []byte) ([]byte, fabric.ReturnCode) {
	return s.handle(context.Background(), received)
}

func (s *Server) handle(ctx context.Context, received []byte) ([]byte, fabric.ReturnCode) {
	if len(received) == 0 {
		return nil, fabric.ExitNormally
	}

	msg, err := wire.DecodeBody(received)
	if err != nil {
		logging.Errorf("task handler: %v", err)
		return nil, fabric.ErrMessageIncompleteOrTooLong
	}

	entry, ok := Catalog.Lookup(uint8(msg.Type))
	if !ok {
		logging.Errorf("task handler: unknown type code %d", msg.Type)
		return nil, fabric.KeepRunning
	}

	switch entry.Code {
	case MsgTaskHandlerServerStart, MsgTaskHandlerServerStop:
		return respond(msg.Type, &catalog.Empty{})

	case MsgTaskHandlerTick:
		// Idempotent housekeeping poke (§4.5): nothing to reconcile today,
		// but tick is accepted and acknowledged regardless of rate.
		return respond(msg.Type, &catalog.SuccessCnf{Success: true})

	case MsgTaskHandlerNewTask:
		req := &NewTaskReq{}
		if err := req.UnmarshalBinary(msg.Body); err != nil {
			logging.Errorf("task handler: decoding TASK_HANDLER_NEW_TASK: %v", err)
			return respond(msg.Type, &catalog.SuccessCnf{Success: false})
		}
		handle := s.registry.Accept(req)
		go s.dispatch(ctx, handle, req)
		return respond(msg.Type, &catalog.SuccessCnf{Success: true})

	default:
		return nil, fabric.KeepRunning
	}
}

// dispatch runs a task to completion and, if the originator asked for one,
// delivers the resulting TASK_HANDLER_TASK_IND.
func (s *Server) dispatch(ctx context.Context, handle uint32, req *NewTaskReq) {
	ind := &TaskInd{Handle: handle, Protocol: req.Protocol}

	switch req.Protocol {
	case ProtocolHindbrainDirect:
		ok, response := s.hardware.SendOString(ctx, req.Command, true)
		switch {
		case !ok:
			ind.HDResult = HDResultSendFailure
		default:
			ind.HDResult = HDResultSuccess
			ind.Response = response
		}
	case ProtocolMotion:
		ind.Motion = s.motionHandle(ctx, req.MotionBody)
	}

	port, ip, notify := s.registry.Complete(handle)
	if !notify {
		return
	}
	s.notify(ctx, port, ip, ind)
}

func (s *Server) notify(ctx context.Context, port uint16, ip string, ind *TaskInd) {
	body, err := ind.MarshalBinary()
	if err != nil {
		logging.Errorf("task handler: marshalling TASK_HANDLER_TASK_IND: %v", err)
		return
	}
	frame, err := (wire.Message{Type: wire.MsgType(MsgTaskHandlerTaskInd), Body: body}).Encode()
	if err != nil {
		logging.Errorf("task handler: encoding TASK_HANDLER_TASK_IND: %v", err)
		return
	}
	_, rc := fabric.RunClient(ctx, ip, strconv.Itoa(int(port)), frame, false)
	if rc != fabric.ClientSuccess {
		logging.Errorf("task handler: delivering TASK_HANDLER_TASK_IND to %s:%d: %s", ip, port, rc)
	}
}

func respond(msgType wire.MsgType, cnf catalog.Body) ([]byte, fabric.ReturnCode) {
	out, err := catalog.EncodeResponse(uint8(msgType), cnf)
	if err != nil {
		logging.Errorf("task handler: marshalling confirmation: %v", err)
		return nil, fabric.ErrFailedToGetMemoryForResponse
	}
	return out, fabric.KeepRunning
}

// Run serves the Task Handler, blocking until shutdown. Entrypoint for
// cmd/taskhandlerserver.
func Run(ctx context.Context, port string, hw *hardware.Client) fabric.ReturnCode {
	srv := NewServer(hw, nil)
	return fabric.RunServer(ctx, port, srv.Handle)
}
