package hardware

import (
	"context"
	"sync"

	"roboone/internal/catalog"
	"roboone/internal/fabric"
	"roboone/internal/logging"
	"roboone/internal/wire"
)

// Server simulates the Hardware façade. It tracks just enough state
// (relay banks, rail sources, Hindbrain power, chargers) to make entry
// actions and end-to-end scenarios observable in logs and tests; nothing
// here talks to real GPIO, 1-Wire, or UART hardware (§1's non-goal).
type Server struct {
	mu sync.Mutex

	relaysEnabled   map[RelayBank]bool
	powerSource     map[Rail]Source
	hindbrainOn     bool
	chargersEnabled map[uint8]bool
}

func NewServer() *Server {
	return &Server{
		relaysEnabled:   make(map[RelayBank]bool),
		powerSource:     make(map[Rail]Source),
		chargersEnabled: make(map[uint8]bool),
	}
}

func (s *Server) Handle(received []byte) ([]byte, fabric.ReturnCode) {
	if len(received) == 0 {
		return nil, fabric.ExitNormally
	}

	msg, err := wire.DecodeBody(received)
	if err != nil {
		logging.Errorf("hardware server: %v", err)
		return nil, fabric.ErrMessageIncompleteOrTooLong
	}

	entry, ok := Catalog.Lookup(uint8(msg.Type))
	if !ok {
		logging.Errorf("hardware server: unknown type code %d", msg.Type)
		return nil, fabric.KeepRunning
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch entry.Code {
	case MsgEnableRelays:
		req := &RelayReq{}
		_ = req.UnmarshalBinary(msg.Body)
		s.relaysEnabled[req.Bank] = true
		logging.Debugf("hardware: relay bank %d enabled", req.Bank)
		return respond(msg.Type, &catalog.SuccessCnf{Success: true})

	case MsgDisableRelays:
		req := &RelayReq{}
		_ = req.UnmarshalBinary(msg.Body)
		s.relaysEnabled[req.Bank] = false
		logging.Debugf("hardware: relay bank %d disabled", req.Bank)
		return respond(msg.Type, &catalog.SuccessCnf{Success: true})

	case MsgSetPowerSource:
		req := &PowerSourceReq{}
		_ = req.UnmarshalBinary(msg.Body)
		s.powerSource[req.Rail] = req.Source
		logging.Debugf("hardware: rail %d switched to source %d", req.Rail, req.Source)
		return respond(msg.Type, &catalog.SuccessCnf{Success: true})

	case MsgHindbrainPower:
		req := &HindbrainPowerReq{}
		_ = req.UnmarshalBinary(msg.Body)
		s.hindbrainOn = req.On
		logging.Debugf("hardware: hindbrain power = %v", req.On)
		return respond(msg.Type, &catalog.SuccessCnf{Success: true})

	case MsgChargerControl:
		req := &ChargerReq{}
		_ = req.UnmarshalBinary(msg.Body)
		s.chargersEnabled[req.Charger] = req.On
		logging.Debugf("hardware: charger %d = %v", req.Charger, req.On)
		return respond(msg.Type, &catalog.SuccessCnf{Success: true})

	case MsgSendOString:
		req := &SendOStringReq{}
		if err := req.UnmarshalBinary(msg.Body); err != nil {
			return respond(msg.Type, &SendOStringCnf{Success: false})
		}
		if !s.hindbrainOn {
			logging.Debugf("hardware: send-O-string with hindbrain powered off")
			return respond(msg.Type, &SendOStringCnf{Success: false})
		}
		logging.Debugf("hardware: sent to hindbrain: %q", req.String)
		reply := ""
		if req.WaitForResponse {
			reply = "OK\n"
		}
		return respond(msg.Type, &SendOStringCnf{Success: true, String: reply})

	case MsgBatterySwapReset:
		logging.Debugf("hardware: battery swap reset")
		return respond(msg.Type, &catalog.SuccessCnf{Success: true})

	default:
		return nil, fabric.KeepRunning
	}
}

func respond(msgType wire.MsgType, cnf catalog.Body) ([]byte, fabric.ReturnCode) {
	out, err := catalog.EncodeResponse(uint8(msgType), cnf)
	if err != nil {
		logging.Errorf("hardware server: marshalling confirmation: %v", err)
		return nil, fabric.ErrFailedToGetMemoryForResponse
	}
	return out, fabric.KeepRunning
}

// Run serves the façade, blocking until shutdown. Entrypoint for
// cmd/hardwareserver.
func Run(ctx context.Context, port string) fabric.ReturnCode {
	srv := NewServer()
	return fabric.RunServer(ctx, port, srv.Handle)
}
