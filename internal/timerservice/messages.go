// Package timerservice implements the Software Timer Service (§4.3): arm,
// cancel, and fire one-shot timers that deliver a caller-supplied ShortMsg
// to a caller-specified port.
package timerservice

import (
	"encoding/binary"

	"roboone/internal/catalog"
	"roboone/internal/errs"
	"roboone/internal/wire"
)

// TimerStartReq arms a one-shot timer expiring expiryDeciSeconds*100ms from
// now; if a timer already exists for (id, sourcePort) it is replaced.
type TimerStartReq struct {
	ExpiryDeciSeconds uint32
	ID                uint16
	SourcePort        uint16
	ExpiryMsg         wire.ShortMsg
}

func (r *TimerStartReq) MarshalBinary() ([]byte, error) {
	short, err := r.ExpiryMsg.Encode()
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(short))
	binary.LittleEndian.PutUint32(out[0:4], r.ExpiryDeciSeconds)
	binary.LittleEndian.PutUint16(out[4:6], r.ID)
	binary.LittleEndian.PutUint16(out[6:8], r.SourcePort)
	copy(out[8:], short)
	return out, nil
}

func (r *TimerStartReq) UnmarshalBinary(b []byte) error {
	if len(b) < 8 {
		return errs.ErrIncompleteOrTooLong
	}
	r.ExpiryDeciSeconds = binary.LittleEndian.Uint32(b[0:4])
	r.ID = binary.LittleEndian.Uint16(b[4:6])
	r.SourcePort = binary.LittleEndian.Uint16(b[6:8])
	short, err := wire.DecodeShortMsg(b[8:])
	if err != nil {
		return err
	}
	r.ExpiryMsg = short
	return nil
}

// TimerStopReq cancels the timer matching (ID, SourcePort), silently if
// absent.
type TimerStopReq struct {
	ID         uint16
	SourcePort uint16
}

func (r *TimerStopReq) MarshalBinary() ([]byte, error) {
	out := make([]byte, 4)
	binary.LittleEndian.PutUint16(out[0:2], r.ID)
	binary.LittleEndian.PutUint16(out[2:4], r.SourcePort)
	return out, nil
}

func (r *TimerStopReq) UnmarshalBinary(b []byte) error {
	if len(b) < 4 {
		return errs.ErrIncompleteOrTooLong
	}
	r.ID = binary.LittleEndian.Uint16(b[0:2])
	r.SourcePort = binary.LittleEndian.Uint16(b[2:4])
	return nil
}

// Type codes, assigned by catalog.Build in declaration order.
const (
	MsgTimerServerStart uint8 = iota
	MsgTimerServerStop
	MsgTimerStart
	MsgTimerStop
)

// Catalog is the Timer Service's single source of truth for its message
// set (§4.2); everything else (enum, name table, body constructors) is
// derived from it.
var Catalog = catalog.MustBuild([]catalog.Spec{
	{Member: "TimerServerStart", Req: &catalog.Empty{}, Cnf: &catalog.Empty{}},
	{Member: "TimerServerStop", Req: &catalog.Empty{}, Cnf: &catalog.Empty{}},
	{Member: "TimerStart", Req: &TimerStartReq{}, Cnf: &catalog.SuccessCnf{}},
	{Member: "TimerStop", Req: &TimerStopReq{}, Cnf: &catalog.SuccessCnf{}},
})
