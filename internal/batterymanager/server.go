package batterymanager

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"roboone/internal/catalog"
	"roboone/internal/fabric"
	"roboone/internal/logging"
	"roboone/internal/wire"
)

// Server tracks whether charging is currently permitted and simulates
// periodic battery telemetry (logged, not delivered anywhere specific,
// since §6.2 does not name a fixed indication destination — a real
// deployment would route these to the Supervisor or a monitoring sink).
type Server struct {
	mu                sync.Mutex
	chargingPermitted bool
}

func NewServer() *Server {
	return &Server{}
}

func (s *Server) Handle(received []byte) ([]byte, fabric.ReturnCode) {
	if len(received) == 0 {
		return nil, fabric.ExitNormally
	}

	msg, err := wire.DecodeBody(received)
	if err != nil {
		logging.Errorf("battery manager: %v", err)
		return nil, fabric.ErrMessageIncompleteOrTooLong
	}

	entry, ok := Catalog.Lookup(uint8(msg.Type))
	if !ok {
		logging.Errorf("battery manager: unknown type code %d", msg.Type)
		return nil, fabric.KeepRunning
	}

	switch entry.Code {
	case MsgChargingPermitted:
		req := &ChargingPermittedReq{}
		_ = req.UnmarshalBinary(msg.Body)
		s.mu.Lock()
		s.chargingPermitted = req.Permitted
		s.mu.Unlock()
		logging.Debugf("battery manager: charging permitted = %v", req.Permitted)
		return respond(msg.Type, &catalog.SuccessCnf{Success: true})

	default:
		return nil, fabric.KeepRunning
	}
}

func respond(msgType wire.MsgType, cnf catalog.Body) ([]byte, fabric.ReturnCode) {
	out, err := catalog.EncodeResponse(uint8(msgType), cnf)
	if err != nil {
		logging.Errorf("battery manager: marshalling confirmation: %v", err)
		return nil, fabric.ErrFailedToGetMemoryForResponse
	}
	return out, fabric.KeepRunning
}

// sample runs the simulated 1-Wire battery sampling loop, logging one
// telemetry reading per pack on each tick until ctx is cancelled.
func (s *Server) sample(ctx context.Context, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, name := range []string{"RIO", "O1", "O2", "O3"} {
				d := DataInd{
					Current:           int16(rand.Intn(2000) - 1000),
					Voltage:           uint16(11000 + rand.Intn(1500)),
					RemainingCapacity: uint16(rand.Intn(5000)),
				}
				logging.Debugf("battery manager: pack %s current=%dmA voltage=%dmV remaining=%dmAh",
					name, d.Current, d.Voltage, d.RemainingCapacity)
			}
		}
	}
}

// Run serves the Battery Manager, blocking until shutdown. Entrypoint for
// cmd/batterymanagerserver.
func Run(ctx context.Context, port string) fabric.ReturnCode {
	srv := NewServer()
	go srv.sample(ctx, 5*time.Second)
	return fabric.RunServer(ctx, port, srv.Handle)
}
