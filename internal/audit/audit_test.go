package audit

import (
	"context"
	"testing"
)

func TestRecordOnNilSinkIsNoOp(t *testing.T) {
	var s *Sink
	// Must not panic despite the nil receiver; audit is never on the
	// critical path of a wire operation.
	s.Record(context.Background(), "test", "subject", "detail")
}

func TestCloseOnNilSinkIsNoOp(t *testing.T) {
	var s *Sink
	s.Close(context.Background())
}

func TestCloseOnSinkWithNilClientIsNoOp(t *testing.T) {
	s := &Sink{}
	s.Close(context.Background())
}
