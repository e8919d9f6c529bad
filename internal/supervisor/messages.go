// Package supervisor implements the Supervisor State Machine (§4.4): the
// robot's power/charging/activity lifecycle, driven by nine events that
// arrive as messages and dispatched through a per-state handler set.
package supervisor

import (
	"roboone/internal/catalog"
	"roboone/internal/errs"
	"roboone/internal/taskhandler"
)

// TasksAvailableReq is the one event body with a payload: the task that
// triggered it, forwarded untouched to the Task Handler on transition into
// Mobile (§4.4's Mobile entry action, §8 scenario 5).
type TasksAvailableReq struct {
	Protocol      taskhandler.Protocol
	Command       string
	HeaderPresent bool
	Header        taskhandler.Header
}

func (r *TasksAvailableReq) MarshalBinary() ([]byte, error) {
	out := []byte{byte(r.Protocol)}
	cmd := r.Command
	out = append(out, byte(len(cmd)))
	out = append(out, cmd...)
	if r.HeaderPresent {
		out = append(out, 1)
		out = append(out, r.Header.Marshal()...)
	} else {
		out = append(out, 0)
	}
	return out, nil
}

func (r *TasksAvailableReq) UnmarshalBinary(b []byte) error {
	if len(b) < 2 {
		return errs.ErrIncompleteOrTooLong
	}
	r.Protocol = taskhandler.Protocol(b[0])
	l := int(b[1])
	if 2+l+1 > len(b) {
		return errs.ErrIncompleteOrTooLong
	}
	r.Command = string(b[2 : 2+l])
	i := 2 + l
	r.HeaderPresent = b[i] != 0
	if r.HeaderPresent {
		if _, err := r.Header.Unmarshal(b[i+1:]); err != nil {
			return err
		}
	}
	return nil
}

// Type codes, assigned by catalog.Build in declaration order — one per
// event named in §4.4's transition table, plus server start/stop.
const (
	MsgServerStart uint8 = iota
	MsgServerStop
	MsgEventInit
	MsgEventInitFailure
	MsgEventTimerExpiry
	MsgEventTasksAvailable
	MsgEventNoTasksAvailable
	MsgEventMainsPowerAvailable
	MsgEventInsufficientPower
	MsgEventFullyCharged
	MsgEventShutdown
)

// Catalog is the Supervisor's single source of truth for its message set
// (§4.2, §6.2): one REQ per event name, all with an empty CNF.
var Catalog = catalog.MustBuild([]catalog.Spec{
	{Member: "ServerStart", Req: &catalog.Empty{}, Cnf: &catalog.Empty{}},
	{Member: "ServerStop", Req: &catalog.Empty{}, Cnf: &catalog.Empty{}},
	{Member: "EventInit", Req: &catalog.Empty{}, Cnf: &catalog.Empty{}},
	{Member: "EventInitFailure", Req: &catalog.Empty{}, Cnf: &catalog.Empty{}},
	{Member: "EventTimerExpiry", Req: &catalog.Empty{}, Cnf: &catalog.Empty{}},
	{Member: "EventTasksAvailable", Req: &TasksAvailableReq{}, Cnf: &catalog.Empty{}},
	{Member: "EventNoTasksAvailable", Req: &catalog.Empty{}, Cnf: &catalog.Empty{}},
	{Member: "EventMainsPowerAvailable", Req: &catalog.Empty{}, Cnf: &catalog.Empty{}},
	{Member: "EventInsufficientPower", Req: &catalog.Empty{}, Cnf: &catalog.Empty{}},
	{Member: "EventFullyCharged", Req: &catalog.Empty{}, Cnf: &catalog.Empty{}},
	{Member: "EventShutdown", Req: &catalog.Empty{}, Cnf: &catalog.Empty{}},
})
