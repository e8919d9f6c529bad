// Package hardware implements the Hardware façade named in §6.2: the
// per-rail power switching, charger control, Hindbrain UART dialogue, and
// battery-swap reset surface that the Supervisor and Task Handler drive.
// The real GPIO/1-Wire/UART plumbing behind it is explicitly out of scope
// (§1); this façade keeps just enough simulated state to make the
// end-to-end scenarios in §8 exercisable without real hardware attached.
package hardware

import (
	"roboone/internal/catalog"
	"roboone/internal/errs"
)

// Rail identifies a power rail the façade can switch.
type Rail uint8

const (
	RailPi Rail = iota
	RailHindbrain
)

// Source identifies what a rail is drawing from.
type Source uint8

const (
	SourceBattery Source = iota
	SourceMains12V
)

// RelayBank identifies one of the two relay banks named in §4.4's entry
// actions (all relays vs. external relays).
type RelayBank uint8

const (
	RelayBankAll RelayBank = iota
	RelayBankExternal
)

const maxHindbrainString = 80

// RelayReq carries a relay bank to enable or disable.
type RelayReq struct {
	Bank RelayBank
}

func (r *RelayReq) MarshalBinary() ([]byte, error) { return []byte{byte(r.Bank)}, nil }
func (r *RelayReq) UnmarshalBinary(b []byte) error {
	if len(b) < 1 {
		return errs.ErrIncompleteOrTooLong
	}
	r.Bank = RelayBank(b[0])
	return nil
}

// PowerSourceReq switches a rail between battery and mains.
type PowerSourceReq struct {
	Rail   Rail
	Source Source
}

func (r *PowerSourceReq) MarshalBinary() ([]byte, error) {
	return []byte{byte(r.Rail), byte(r.Source)}, nil
}
func (r *PowerSourceReq) UnmarshalBinary(b []byte) error {
	if len(b) < 2 {
		return errs.ErrIncompleteOrTooLong
	}
	r.Rail, r.Source = Rail(b[0]), Source(b[1])
	return nil
}

// HindbrainPowerReq switches the Hindbrain co-processor's supply on or off.
type HindbrainPowerReq struct {
	On bool
}

func (r *HindbrainPowerReq) MarshalBinary() ([]byte, error) {
	if r.On {
		return []byte{1}, nil
	}
	return []byte{0}, nil
}
func (r *HindbrainPowerReq) UnmarshalBinary(b []byte) error {
	r.On = len(b) > 0 && b[0] != 0
	return nil
}

// ChargerReq enables or disables one of the RIO/O1/O2/O3 chargers.
type ChargerReq struct {
	Charger uint8
	On      bool
}

func (r *ChargerReq) MarshalBinary() ([]byte, error) {
	on := byte(0)
	if r.On {
		on = 1
	}
	return []byte{r.Charger, on}, nil
}
func (r *ChargerReq) UnmarshalBinary(b []byte) error {
	if len(b) < 2 {
		return errs.ErrIncompleteOrTooLong
	}
	r.Charger, r.On = b[0], b[1] != 0
	return nil
}

// SendOStringReq carries a command string for the Hindbrain UART dialogue
// (up to maxHindbrainString bytes) and whether the caller expects a reply.
type SendOStringReq struct {
	String          string
	WaitForResponse bool
}

func (r *SendOStringReq) MarshalBinary() ([]byte, error) {
	s := truncate(r.String, maxHindbrainString)
	out := make([]byte, 2+len(s))
	out[0] = byte(len(s))
	copy(out[1:], s)
	if r.WaitForResponse {
		out[len(out)-1] = 1
	} else {
		out[len(out)-1] = 0
	}
	return out, nil
}

func (r *SendOStringReq) UnmarshalBinary(b []byte) error {
	if len(b) < 2 {
		return errs.ErrIncompleteOrTooLong
	}
	l := int(b[0])
	if 1+l+1 > len(b) {
		return errs.ErrIncompleteOrTooLong
	}
	r.String = string(b[1 : 1+l])
	r.WaitForResponse = b[1+l] != 0
	return nil
}

// SendOStringCnf carries the Hindbrain's response string, truncated to fit
// the same buffer the request used (§4.5's truncation rule).
type SendOStringCnf struct {
	Success bool
	String  string
}

func (c *SendOStringCnf) MarshalBinary() ([]byte, error) {
	s := truncate(c.String, maxHindbrainString)
	out := make([]byte, 2+len(s))
	if c.Success {
		out[0] = 1
	}
	out[1] = byte(len(s))
	copy(out[2:], s)
	return out, nil
}

func (c *SendOStringCnf) UnmarshalBinary(b []byte) error {
	if len(b) < 2 {
		return errs.ErrIncompleteOrTooLong
	}
	c.Success = b[0] != 0
	l := int(b[1])
	if 2+l > len(b) {
		return errs.ErrIncompleteOrTooLong
	}
	c.String = string(b[2 : 2+l])
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// Type codes, assigned by catalog.Build in declaration order.
const (
	MsgEnableRelays uint8 = iota
	MsgDisableRelays
	MsgSetPowerSource
	MsgHindbrainPower
	MsgChargerControl
	MsgSendOString
	MsgBatterySwapReset
)

// Catalog is the Hardware façade's single source of truth for its message
// set (§4.2, §6.2).
var Catalog = catalog.MustBuild([]catalog.Spec{
	{Member: "EnableRelays", Req: &RelayReq{}, Cnf: &catalog.SuccessCnf{}},
	{Member: "DisableRelays", Req: &RelayReq{}, Cnf: &catalog.SuccessCnf{}},
	{Member: "SetPowerSource", Req: &PowerSourceReq{}, Cnf: &catalog.SuccessCnf{}},
	{Member: "HindbrainPower", Req: &HindbrainPowerReq{}, Cnf: &catalog.SuccessCnf{}},
	{Member: "ChargerControl", Req: &ChargerReq{}, Cnf: &catalog.SuccessCnf{}},
	{Member: "SendOString", Req: &SendOStringReq{}, Cnf: &SendOStringCnf{}},
	{Member: "BatterySwapReset", Req: &catalog.Empty{}, Cnf: &catalog.SuccessCnf{}},
})
