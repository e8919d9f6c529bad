package timerservice

import (
	"context"

	"roboone/internal/catalog"
	"roboone/internal/fabric"
	"roboone/internal/logging"
	"roboone/internal/wire"
)

// Server wires the Timer Service's Catalog to the Messaging Fabric: it is
// the serverHandleMsg side of §4.1. Handle's return value is a complete
// response body (type byte plus marshalled confirmation), ready for the
// fabric layer to length-prefix and write.
type Server struct {
	svc *Service
}

func NewServer(svc *Service) *Server {
	return &Server{svc: svc}
}

func (s *Server) Handle(received []byte) ([]byte, fabric.ReturnCode) {
	if len(received) == 0 {
		return nil, fabric.ExitNormally
	}

	msg, err := wire.DecodeBody(received)
	if err != nil {
		logging.Errorf("timer server: %v", err)
		return nil, fabric.ErrMessageIncompleteOrTooLong
	}

	entry, ok := Catalog.Lookup(uint8(msg.Type))
	if !ok {
		logging.Errorf("timer server: unknown type code %d", msg.Type)
		return nil, fabric.KeepRunning
	}

	switch entry.Code {
	case MsgTimerServerStart, MsgTimerServerStop:
		return respond(msg.Type, &catalog.Empty{})

	case MsgTimerStart:
		req := &TimerStartReq{}
		if err := req.UnmarshalBinary(msg.Body); err != nil {
			logging.Errorf("timer server: decoding TIMER_START_REQ: %v", err)
			return respond(msg.Type, &catalog.SuccessCnf{Success: false})
		}
		s.svc.Arm(Key{ID: req.ID, SourcePort: req.SourcePort}, req.ExpiryDeciSeconds, req.ExpiryMsg)
		return respond(msg.Type, &catalog.SuccessCnf{Success: true})

	case MsgTimerStop:
		req := &TimerStopReq{}
		if err := req.UnmarshalBinary(msg.Body); err != nil {
			logging.Errorf("timer server: decoding TIMER_STOP_REQ: %v", err)
			return respond(msg.Type, &catalog.SuccessCnf{Success: false})
		}
		s.svc.Cancel(Key{ID: req.ID, SourcePort: req.SourcePort})
		return respond(msg.Type, &catalog.SuccessCnf{Success: true})

	default:
		return nil, fabric.KeepRunning
	}
}

func respond(msgType wire.MsgType, cnf catalog.Body) ([]byte, fabric.ReturnCode) {
	out, err := catalog.EncodeResponse(uint8(msgType), cnf)
	if err != nil {
		logging.Errorf("timer server: marshalling confirmation: %v", err)
		return nil, fabric.ErrFailedToGetMemoryForResponse
	}
	return out, fabric.KeepRunning
}

// Run starts the scheduler and serves the fabric server, blocking until
// shutdown or the L=0 stop signal. It is the entrypoint used by
// cmd/timerserver.
func Run(ctx context.Context, port string) fabric.ReturnCode {
	svc := NewService()
	go svc.Run(ctx)

	srv := NewServer(svc)
	return fabric.RunServer(ctx, port, srv.Handle)
}
