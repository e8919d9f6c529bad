package onewire

import (
	"context"
	"sync"

	"roboone/internal/catalog"
	"roboone/internal/fabric"
	"roboone/internal/logging"
	"roboone/internal/wire"
)

type deviceKey struct {
	port   uint32
	serial SerialNumber
}

// Server simulates DS2408/DS2438 chip state keyed by (portNumber,
// serialNumber), in lieu of the real 1-Wire bus driver (§1's non-goal).
type Server struct {
	mu       sync.Mutex
	pioState map[deviceKey]uint8
}

func NewServer() *Server {
	return &Server{pioState: make(map[deviceKey]uint8)}
}

func (s *Server) Handle(received []byte) ([]byte, fabric.ReturnCode) {
	if len(received) == 0 {
		return nil, fabric.ExitNormally
	}

	msg, err := wire.DecodeBody(received)
	if err != nil {
		logging.Errorf("onewire server: %v", err)
		return nil, fabric.ErrMessageIncompleteOrTooLong
	}

	entry, ok := Catalog.Lookup(uint8(msg.Type))
	if !ok {
		logging.Errorf("onewire server: unknown type code %d", msg.Type)
		return nil, fabric.KeepRunning
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch entry.Code {
	case MsgPioRead:
		req := &PioReadReq{}
		if err := req.UnmarshalBinary(msg.Body); err != nil {
			return respond(msg.Type, &PioReadCnf{Success: false})
		}
		key := deviceKey{port: req.PortNumber, serial: req.SerialNumber}
		return respond(msg.Type, &PioReadCnf{Success: true, State: s.pioState[key]})

	case MsgPioWrite:
		req := &PioWriteReq{}
		if err := req.UnmarshalBinary(msg.Body); err != nil {
			return respond(msg.Type, &catalog.SuccessCnf{Success: false})
		}
		key := deviceKey{port: req.PortNumber, serial: req.SerialNumber}
		s.pioState[key] = req.State
		return respond(msg.Type, &catalog.SuccessCnf{Success: true})

	case MsgBatteryRead:
		req := &BatteryReadReq{}
		if err := req.UnmarshalBinary(msg.Body); err != nil {
			return respond(msg.Type, &BatteryReadCnf{Success: false})
		}
		return respond(msg.Type, &BatteryReadCnf{Success: true, Voltage: 12000, Current: 0, Temperature: 25})

	default:
		return nil, fabric.KeepRunning
	}
}

func respond(msgType wire.MsgType, cnf catalog.Body) ([]byte, fabric.ReturnCode) {
	out, err := catalog.EncodeResponse(uint8(msgType), cnf)
	if err != nil {
		logging.Errorf("onewire server: marshalling confirmation: %v", err)
		return nil, fabric.ErrFailedToGetMemoryForResponse
	}
	return out, fabric.KeepRunning
}

// Run serves the OneWire façade, blocking until shutdown. Entrypoint for
// cmd/onewireserver.
func Run(ctx context.Context, port string) fabric.ReturnCode {
	srv := NewServer()
	return fabric.RunServer(ctx, port, srv.Handle)
}
