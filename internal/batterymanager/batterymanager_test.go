package batterymanager

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"roboone/internal/fabric"
)

func freePort(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserving ephemeral port: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()
	return strconv.Itoa(port)
}

func TestClientChargingPermittedRoundTrip(t *testing.T) {
	port := freePort(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Run(ctx, port)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", "127.0.0.1:"+port, 50*time.Millisecond)
		if err == nil {
			conn.Close()
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	c := NewClient(port)
	if ok := c.ChargingPermitted(context.Background(), true); !ok {
		t.Fatal("ChargingPermitted(true) returned false")
	}
	if ok := c.ChargingPermitted(context.Background(), false); !ok {
		t.Fatal("ChargingPermitted(false) returned false")
	}
}

func TestDataIndRoundTrip(t *testing.T) {
	d := &DataInd{Current: -150, Voltage: 12400, RemainingCapacity: 3000, ChargeAh: 1500, DischargeAh: 1200}
	b, err := d.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	got := &DataInd{}
	if err := got.UnmarshalBinary(b); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if *got != *d {
		t.Fatalf("got = %+v, want %+v", got, d)
	}
}

func TestHandleUnknownTypeCodeKeepsRunning(t *testing.T) {
	s := NewServer()
	_, rc := s.Handle([]byte{200, 1})
	if rc != fabric.KeepRunning {
		t.Fatalf("rc = %v, want KeepRunning", rc)
	}
}

func TestHandleZeroLengthExitsNormally(t *testing.T) {
	s := NewServer()
	_, rc := s.Handle(nil)
	if rc != fabric.ExitNormally {
		t.Fatalf("rc = %v, want ExitNormally", rc)
	}
}
