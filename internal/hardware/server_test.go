package hardware

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

func startServer(t *testing.T) (ctx context.Context, port string) {
	t.Helper()
	port = freePort(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	go Run(ctx, port)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", "127.0.0.1:"+port, 50*time.Millisecond)
		if err == nil {
			conn.Close()
			return ctx, port
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("hardware server never started listening")
	return nil, ""
}

func TestClientEnableRelaysAndHindbrainPower(t *testing.T) {
	_, port := startServer(t)
	c := NewClient(port)

	if ok := c.EnableRelays(context.Background(), RelayBankAll); !ok {
		t.Fatal("EnableRelays returned false")
	}
	if ok := c.HindbrainPower(context.Background(), true); !ok {
		t.Fatal("HindbrainPower(true) returned false")
	}
}

func TestSendOStringFailsWhenHindbrainOff(t *testing.T) {
	_, port := startServer(t)
	c := NewClient(port)

	ok, resp := c.SendOString(context.Background(), "PING", false)
	if ok {
		t.Fatalf("SendOString succeeded with hindbrain powered off, resp=%q", resp)
	}
}

func TestSendOStringSucceedsWhenHindbrainOn(t *testing.T) {
	_, port := startServer(t)
	c := NewClient(port)

	if ok := c.HindbrainPower(context.Background(), true); !ok {
		t.Fatal("HindbrainPower(true) returned false")
	}

	ok, resp := c.SendOString(context.Background(), "PING", true)
	if !ok {
		t.Fatal("SendOString returned false after powering hindbrain on")
	}
	if resp != "OK\n" {
		t.Fatalf("response = %q, want %q", resp, "OK\n")
	}
}

func TestBatterySwapReset(t *testing.T) {
	_, port := startServer(t)
	c := NewClient(port)
	if ok := c.BatterySwapReset(context.Background()); !ok {
		t.Fatal("BatterySwapReset returned false")
	}
}

func TestHandleUnknownTypeCodeKeepsRunning(t *testing.T) {
	s := NewServer()
	_, rc := s.Handle([]byte{200, 1, 2, 3})
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
