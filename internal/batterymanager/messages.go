// Package batterymanager implements the Battery Manager server named in
// §6.2: it accepts CHARGING_PERMITTED control requests from the Supervisor
// and, in the real system, emits unsolicited BATTERY_MANAGER_DATA_* battery
// telemetry indications. The 1-Wire sampling loop that would feed those
// indications is explicitly out of scope (§1); this package simulates it
// well enough to exercise the wire contract end to end.
package batterymanager

import (
	"encoding/binary"

	"roboone/internal/catalog"
	"roboone/internal/errs"
)

// ChargingPermittedReq tells the Battery Manager whether it may enable its
// chargers (sent by the Supervisor's Docked/Shutdown entry actions).
type ChargingPermittedReq struct {
	Permitted bool
}

func (r *ChargingPermittedReq) MarshalBinary() ([]byte, error) {
	if r.Permitted {
		return []byte{1}, nil
	}
	return []byte{0}, nil
}
func (r *ChargingPermittedReq) UnmarshalBinary(b []byte) error {
	r.Permitted = len(b) > 0 && b[0] != 0
	return nil
}

// DataInd carries one pack's telemetry sample (§6.2).
type DataInd struct {
	Current           int16
	Voltage           uint16
	RemainingCapacity uint16
	ChargeAh          uint32
	DischargeAh       uint32
}

func (d *DataInd) MarshalBinary() ([]byte, error) {
	out := make([]byte, 14)
	binary.LittleEndian.PutUint16(out[0:2], uint16(d.Current))
	binary.LittleEndian.PutUint16(out[2:4], d.Voltage)
	binary.LittleEndian.PutUint16(out[4:6], d.RemainingCapacity)
	binary.LittleEndian.PutUint32(out[6:10], d.ChargeAh)
	binary.LittleEndian.PutUint32(out[10:14], d.DischargeAh)
	return out, nil
}

func (d *DataInd) UnmarshalBinary(b []byte) error {
	if len(b) < 14 {
		return errs.ErrIncompleteOrTooLong
	}
	d.Current = int16(binary.LittleEndian.Uint16(b[0:2]))
	d.Voltage = binary.LittleEndian.Uint16(b[2:4])
	d.RemainingCapacity = binary.LittleEndian.Uint16(b[4:6])
	d.ChargeAh = binary.LittleEndian.Uint32(b[6:10])
	d.DischargeAh = binary.LittleEndian.Uint32(b[10:14])
	return nil
}

// Pack identifies one of the four battery packs named in the glossary.
type Pack uint8

const (
	PackRIO Pack = iota
	PackO1
	PackO2
	PackO3
)

// Type codes, assigned by catalog.Build in declaration order.
const (
	MsgChargingPermitted uint8 = iota
	MsgDataRIO
	MsgDataO1
	MsgDataO2
	MsgDataO3
)

// Catalog is the Battery Manager's single source of truth for its message
// set (§4.2, §6.2).
var Catalog = catalog.MustBuild([]catalog.Spec{
	{Member: "ChargingPermitted", Req: &ChargingPermittedReq{}, Cnf: &catalog.SuccessCnf{}},
	{Member: "DataRIO", Req: &catalog.Empty{}, Cnf: &catalog.Empty{}, Ind: &DataInd{}},
	{Member: "DataO1", Req: &catalog.Empty{}, Cnf: &catalog.Empty{}, Ind: &DataInd{}},
	{Member: "DataO2", Req: &catalog.Empty{}, Cnf: &catalog.Empty{}, Ind: &DataInd{}},
	{Member: "DataO3", Req: &catalog.Empty{}, Cnf: &catalog.Empty{}, Ind: &DataInd{}},
})
