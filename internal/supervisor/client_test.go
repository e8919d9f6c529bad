package supervisor

import (
	"context"
	"testing"

	"roboone/internal/fabric"
)

func TestClientInitThenTimerExpiryDrivesServerToBatteryIdle(t *testing.T) {
	svcCtx := newTestContext(t)
	srv := NewServer(svcCtx)

	port := freePort(t)
	bgCtx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go fabric.RunServer(bgCtx, port, srv.Handle)
	waitUntilListening(t, port)

	c := NewClient(port)
	if ok := c.Init(context.Background()); !ok {
		t.Fatal("Init returned false")
	}
	if ok := c.TimerExpiry(context.Background()); !ok {
		t.Fatal("TimerExpiry returned false")
	}
	if svcCtx.StateName() != "BatteryIdle" {
		t.Fatalf("state = %s, want BatteryIdle", svcCtx.StateName())
	}
}
