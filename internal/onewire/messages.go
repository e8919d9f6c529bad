// Package onewire implements the OneWire server named in §6.2: operations
// against DS2408 (PIO) and DS2438 (battery monitor) chips addressed by
// {portNumber, serialNumber}. The physical 1-Wire bus driver is explicitly
// out of scope (§1); this package simulates chip state in memory so the
// rest of the system can be exercised without real hardware.
package onewire

import (
	"encoding/binary"

	"roboone/internal/catalog"
	"roboone/internal/errs"
)

// SerialNumber is a DS2408/DS2438's 8-byte 1-Wire ROM id.
type SerialNumber [8]byte

// deviceHeader is prepended to every request (§6.2): {portNumber,
// serialNumber}. It is not itself a catalog kind — op-specific bodies embed
// it — which mirrors the state-machine/1-Wire "mandatory header" case
// named in §4.2.
type deviceHeader struct {
	PortNumber   uint32
	SerialNumber SerialNumber
}

func (h deviceHeader) marshal() []byte {
	out := make([]byte, 12)
	binary.LittleEndian.PutUint32(out[0:4], h.PortNumber)
	copy(out[4:12], h.SerialNumber[:])
	return out
}

func (h *deviceHeader) unmarshal(b []byte) error {
	if len(b) < 12 {
		return errs.ErrIncompleteOrTooLong
	}
	h.PortNumber = binary.LittleEndian.Uint32(b[0:4])
	copy(h.SerialNumber[:], b[4:12])
	return nil
}

// PioReadReq reads the 8-bit PIO state of a DS2408.
type PioReadReq struct {
	deviceHeader
}

func (r *PioReadReq) MarshalBinary() ([]byte, error) { return r.marshal(), nil }
func (r *PioReadReq) UnmarshalBinary(b []byte) error { return r.unmarshal(b) }

// PioReadCnf returns the PIO state read.
type PioReadCnf struct {
	Success bool
	State   uint8
}

func (c *PioReadCnf) MarshalBinary() ([]byte, error) {
	s := byte(0)
	if c.Success {
		s = 1
	}
	return []byte{s, c.State}, nil
}
func (c *PioReadCnf) UnmarshalBinary(b []byte) error {
	if len(b) < 2 {
		return errs.ErrIncompleteOrTooLong
	}
	c.Success, c.State = b[0] != 0, b[1]
	return nil
}

// PioWriteReq sets the 8-bit PIO state of a DS2408.
type PioWriteReq struct {
	deviceHeader
	State uint8
}

func (r *PioWriteReq) MarshalBinary() ([]byte, error) {
	return append(r.marshal(), r.State), nil
}
func (r *PioWriteReq) UnmarshalBinary(b []byte) error {
	if err := r.unmarshal(b); err != nil {
		return err
	}
	if len(b) < 13 {
		return errs.ErrIncompleteOrTooLong
	}
	r.State = b[12]
	return nil
}

// BatteryReadReq reads a DS2438's instantaneous voltage/current/temperature.
type BatteryReadReq struct {
	deviceHeader
}

func (r *BatteryReadReq) MarshalBinary() ([]byte, error) { return r.marshal(), nil }
func (r *BatteryReadReq) UnmarshalBinary(b []byte) error { return r.unmarshal(b) }

// BatteryReadCnf carries one DS2438 sample.
type BatteryReadCnf struct {
	Success     bool
	Voltage     uint16
	Current     int16
	Temperature int16
}

func (c *BatteryReadCnf) MarshalBinary() ([]byte, error) {
	out := make([]byte, 7)
	if c.Success {
		out[0] = 1
	}
	binary.LittleEndian.PutUint16(out[1:3], c.Voltage)
	binary.LittleEndian.PutUint16(out[3:5], uint16(c.Current))
	binary.LittleEndian.PutUint16(out[5:7], uint16(c.Temperature))
	return out, nil
}
func (c *BatteryReadCnf) UnmarshalBinary(b []byte) error {
	if len(b) < 7 {
		return errs.ErrIncompleteOrTooLong
	}
	c.Success = b[0] != 0
	c.Voltage = binary.LittleEndian.Uint16(b[1:3])
	c.Current = int16(binary.LittleEndian.Uint16(b[3:5]))
	c.Temperature = int16(binary.LittleEndian.Uint16(b[5:7]))
	return nil
}

// Type codes, assigned by catalog.Build in declaration order.
const (
	MsgPioRead uint8 = iota
	MsgPioWrite
	MsgBatteryRead
)

// Catalog is the OneWire server's single source of truth for its message
// set (§4.2, §6.2).
var Catalog = catalog.MustBuild([]catalog.Spec{
	{Member: "PioRead", Req: &PioReadReq{}, Cnf: &PioReadCnf{}},
	{Member: "PioWrite", Req: &PioWriteReq{}, Cnf: &catalog.SuccessCnf{}},
	{Member: "BatteryRead", Req: &BatteryReadReq{}, Cnf: &BatteryReadCnf{}},
})
