package wire

import (
	"bytes"
	"testing"

	"roboone/internal/errs"
)

func TestMessageEncodeDecodeRoundTrip(t *testing.T) {
	m := Message{Type: 7, Body: []byte("hello")}
	enc, err := m.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if enc[0] != 6 {
		t.Fatalf("length byte = %d, want 6", enc[0])
	}

	got, err := DecodeBody(enc[1:])
	if err != nil {
		t.Fatalf("DecodeBody: %v", err)
	}
	if got.Type != m.Type || !bytes.Equal(got.Body, m.Body) {
		t.Fatalf("DecodeBody = %+v, want %+v", got, m)
	}
}

func TestMessageEncodeTooLarge(t *testing.T) {
	m := Message{Type: 1, Body: make([]byte, MaxMsgBodyLength+1)}
	if _, err := m.Encode(); err != errs.ErrBodyTooLarge {
		t.Fatalf("Encode error = %v, want ErrBodyTooLarge", err)
	}
}

func TestDecodeBodyEmpty(t *testing.T) {
	if _, err := DecodeBody(nil); err != errs.ErrIncompleteOrTooLong {
		t.Fatalf("DecodeBody(nil) error = %v, want ErrIncompleteOrTooLong", err)
	}
}

func TestShortMsgEncodeDecodeRoundTrip(t *testing.T) {
	s := ShortMsg{Type: 3, Body: []byte("tick")}
	enc, err := s.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := DecodeShortMsg(enc)
	if err != nil {
		t.Fatalf("DecodeShortMsg: %v", err)
	}
	if got.Type != s.Type || !bytes.Equal(got.Body, s.Body) {
		t.Fatalf("DecodeShortMsg = %+v, want %+v", got, s)
	}
}

func TestShortMsgEncodeTooLarge(t *testing.T) {
	s := ShortMsg{Type: 1, Body: make([]byte, MaxShortMsgBodyLength+1)}
	if _, err := s.Encode(); err != errs.ErrBodyTooLarge {
		t.Fatalf("Encode error = %v, want ErrBodyTooLarge", err)
	}
}

func TestDecodeShortMsgTruncated(t *testing.T) {
	if _, err := DecodeShortMsg([]byte{5, 1}); err != errs.ErrIncompleteOrTooLong {
		t.Fatalf("DecodeShortMsg error = %v, want ErrIncompleteOrTooLong", err)
	}
}

func TestShortMsgToMessage(t *testing.T) {
	s := ShortMsg{Type: 9, Body: []byte("x")}
	m := s.ToMessage()
	if m.Type != s.Type || !bytes.Equal(m.Body, s.Body) {
		t.Fatalf("ToMessage = %+v, want Type=%v Body=%v", m, s.Type, s.Body)
	}
}
