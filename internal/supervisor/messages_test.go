package supervisor

import (
	"testing"

	"roboone/internal/taskhandler"
)

func TestTasksAvailableReqRoundTripWithHeader(t *testing.T) {
	req := &TasksAvailableReq{
		Protocol:      taskhandler.ProtocolHindbrainDirect,
		Command:       "FORWARD 10",
		HeaderPresent: true,
		Header:        taskhandler.Header{SourceServerPort: 5236, IPPresent: true, IP: "10.0.0.2"},
	}
	b, err := req.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}

	got := &TasksAvailableReq{}
	if err := got.UnmarshalBinary(b); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if got.Protocol != req.Protocol || got.Command != req.Command {
		t.Fatalf("got = %+v, want %+v", got, req)
	}
	if got.HeaderPresent != req.HeaderPresent || got.Header != req.Header {
		t.Fatalf("header = %+v, want %+v", got.Header, req.Header)
	}
}

func TestTasksAvailableReqRoundTripWithoutHeader(t *testing.T) {
	req := &TasksAvailableReq{Protocol: taskhandler.ProtocolMotion, Command: "SPIN"}
	b, err := req.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}

	got := &TasksAvailableReq{HeaderPresent: true}
	if err := got.UnmarshalBinary(b); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if got.HeaderPresent {
		t.Fatal("HeaderPresent = true, want false")
	}
	if got.Protocol != req.Protocol || got.Command != req.Command {
		t.Fatalf("got = %+v, want %+v", got, req)
	}
}

func TestTasksAvailableReqTruncatedFails(t *testing.T) {
	req := &TasksAvailableReq{}
	if err := req.UnmarshalBinary([]byte{0}); err == nil {
		t.Fatal("UnmarshalBinary with 1 byte returned nil error")
	}
}

func TestEventCatalogCoversEveryEvent(t *testing.T) {
	codes := []uint8{
		MsgServerStart, MsgServerStop,
		MsgEventInit, MsgEventInitFailure, MsgEventTimerExpiry,
		MsgEventTasksAvailable, MsgEventNoTasksAvailable,
		MsgEventMainsPowerAvailable, MsgEventInsufficientPower,
		MsgEventFullyCharged, MsgEventShutdown,
	}
	for _, code := range codes {
		if _, ok := Catalog.Lookup(code); !ok {
			t.Fatalf("Catalog missing entry for code %d", code)
		}
	}
}
