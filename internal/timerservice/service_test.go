package timerservice

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"roboone/internal/wire"
)

func freePort(t *testing.T) uint16 {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserving ephemeral port: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()
	return uint16(port)
}

// recvOneFrame listens on port and returns a channel that receives the
// type byte of the first frame delivered to it.
func recvOneFrame(t *testing.T, port uint16) <-chan byte {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:"+strconv.Itoa(int(port)))
	if err != nil {
		t.Fatalf("listening: %v", err)
	}
	out := make(chan byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		defer ln.Close()
		var hdr [2]byte
		if _, err := conn.Read(hdr[:]); err != nil {
			return
		}
		out <- hdr[1]
	}()
	return out
}

func TestArmDeliversPayloadOnExpiry(t *testing.T) {
	port := freePort(t)
	received := recvOneFrame(t, port)

	svc := NewService()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go svc.Run(ctx)

	key := Key{ID: 1, SourcePort: port}
	svc.Arm(key, 1, wire.ShortMsg{Type: 42, Body: []byte("x")}) // 1 decisecond

	select {
	case typ := <-received:
		if typ != 42 {
			t.Fatalf("delivered type = %d, want 42", typ)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timer never delivered")
	}
}

func TestCancelPreventsDelivery(t *testing.T) {
	port := freePort(t)
	received := recvOneFrame(t, port)

	svc := NewService()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go svc.Run(ctx)

	key := Key{ID: 2, SourcePort: port}
	svc.Arm(key, 3, wire.ShortMsg{Type: 1, Body: nil})
	svc.Cancel(key)

	select {
	case <-received:
		t.Fatal("cancelled timer still delivered")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestArmReplacesExistingTimerForSameKey(t *testing.T) {
	svc := NewService()
	key := Key{ID: 5, SourcePort: 9999}

	svc.Arm(key, 1000, wire.ShortMsg{Type: 1, Body: nil})
	if svc.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", svc.Len())
	}

	svc.Arm(key, 1000, wire.ShortMsg{Type: 2, Body: nil}) // same key, replaces
	if svc.Len() != 1 {
		t.Fatalf("Len() after re-arm = %d, want 1 (replace-on-rearm)", svc.Len())
	}
}

func TestCancelAbsentTimerIsSilent(t *testing.T) {
	svc := NewService()
	svc.Cancel(Key{ID: 99, SourcePort: 99}) // must not panic
	if svc.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", svc.Len())
	}
}

func TestLenTracksMultipleTimers(t *testing.T) {
	svc := NewService()
	svc.Arm(Key{ID: 1, SourcePort: 1}, 1000, wire.ShortMsg{Type: 1})
	svc.Arm(Key{ID: 2, SourcePort: 1}, 1000, wire.ShortMsg{Type: 1})
	svc.Arm(Key{ID: 3, SourcePort: 2}, 1000, wire.ShortMsg{Type: 1})
	if svc.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", svc.Len())
	}
}
