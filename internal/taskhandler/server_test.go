package taskhandler

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"roboone/internal/fabric"
	"roboone/internal/hardware"
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

func waitUntilListening(t *testing.T, port string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", "127.0.0.1:"+port, 50*time.Millisecond)
		if err == nil {
			conn.Close()
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("nothing listening on port %s", port)
}

func TestTickAlwaysSucceeds(t *testing.T) {
	hwPort := freePort(t)
	thPort := freePort(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go hardware.Run(ctx, hwPort)
	waitUntilListening(t, hwPort)

	hw := hardware.NewClient(hwPort)
	go Run(ctx, thPort, hw)
	waitUntilListening(t, thPort)

	c := NewClient(thPort)
	if ok := c.Tick(context.Background()); !ok {
		t.Fatal("Tick returned false")
	}
}

func TestNewTaskHindbrainDirectNotifiesOriginator(t *testing.T) {
	hwPort := freePort(t)
	thPort := freePort(t)
	originatorPort := freePort(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go hardware.Run(ctx, hwPort)
	waitUntilListening(t, hwPort)

	hw := hardware.NewClient(hwPort)
	go Run(ctx, thPort, hw)
	waitUntilListening(t, thPort)

	if ok := hw.HindbrainPower(context.Background(), true); !ok {
		t.Fatal("HindbrainPower(true) returned false")
	}

	received := make(chan []byte, 1)
	originatorPortNum, err := strconv.Atoi(originatorPort)
	if err != nil {
		t.Fatalf("Atoi: %v", err)
	}
	go fabric.RunServer(ctx, originatorPort, func(body []byte) ([]byte, fabric.ReturnCode) {
		received <- append([]byte(nil), body...)
		return nil, fabric.KeepRunning
	})
	waitUntilListening(t, originatorPort)

	c := NewClient(thPort)
	if ok := c.NewTask(context.Background(), ProtocolHindbrainDirect, "PING", uint16(originatorPortNum)); !ok {
		t.Fatal("NewTask returned false")
	}

	select {
	case body := <-received:
		ind := &TaskInd{}
		if err := ind.UnmarshalBinary(body[1:]); err != nil {
			t.Fatalf("decoding TASK_HANDLER_TASK_IND: %v", err)
		}
		if ind.HDResult != HDResultSuccess {
			t.Fatalf("HDResult = %v, want HDResultSuccess", ind.HDResult)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("originator never received TASK_HANDLER_TASK_IND")
	}
}

func TestHandleZeroLengthExitsNormally(t *testing.T) {
	s := NewServer(hardware.NewClient("0"), nil)
	_, rc := s.Handle(nil)
	if rc != fabric.ExitNormally {
		t.Fatalf("rc = %v, want ExitNormally", rc)
	}
}
