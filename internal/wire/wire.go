// Package wire defines the length-prefixed message frame shared by every
// RoboOne server (§3, §6.1) and the smaller ShortMsg variant nested inside
// timer-expiry payloads. Multi-byte fields inside a body are always
// little-endian; callers use encoding/binary.LittleEndian directly rather
// than relying on struct layout.
package wire

import "roboone/internal/errs"

const (
	// MaxMsgLength is the largest legal value of the length-prefix byte.
	MaxMsgLength = 255
	// MaxMsgBodyLength is MaxMsgLength minus the length byte and the
	// type-code byte.
	MaxMsgBodyLength = 253
	// MinMsgLength is the smallest legal non-shutdown length-prefix value.
	MinMsgLength = 1

	// MaxShortMsgBodyLength follows the original's ShortMsg sizing: the
	// regular body budget minus headroom for the envelope it is nested in.
	MaxShortMsgBodyLength = MaxMsgBodyLength - 40
)

// Message is the wire unit: a type code plus its body. Length is derived,
// never stored redundantly, so it cannot drift from len(Body)+1.
type Message struct {
	Type MsgType
	Body []byte
}

// MsgType is the first byte of a message body, interpreted against the
// catalog of the receiving server.
type MsgType uint8

// Length returns the length-prefix byte this message would carry on the wire.
func (m Message) Length() (uint8, error) {
	if len(m.Body) > MaxMsgBodyLength {
		return 0, errs.ErrBodyTooLarge
	}
	total := 1 + len(m.Body)
	if total > MaxMsgLength {
		return 0, errs.ErrBodyTooLarge
	}
	return uint8(total), nil
}

// Encode renders the message as length-byte + type-byte + body, ready to
// write to a socket.
func (m Message) Encode() ([]byte, error) {
	l, err := m.Length()
	if err != nil {
		return nil, err
	}
	out := make([]byte, 1+int(l))
	out[0] = l
	out[1] = byte(m.Type)
	copy(out[2:], m.Body)
	return out, nil
}

// DecodeBody splits a raw body (post length-prefix) into its type code and
// payload. body must be non-empty; a zero-length message (shutdown signal)
// is handled by the fabric layer before DecodeBody is ever called.
func DecodeBody(body []byte) (Message, error) {
	if len(body) < MinMsgLength {
		return Message{}, errs.ErrIncompleteOrTooLong
	}
	return Message{Type: MsgType(body[0]), Body: body[1:]}, nil
}

// ShortMsg is a message variant small enough to be carried as the opaque
// payload of another message (used by timer expiries, §4.3).
type ShortMsg struct {
	Type MsgType
	Body []byte
}

// Encode renders the ShortMsg the same way as Message, bounded to the
// smaller short-message body budget.
func (s ShortMsg) Encode() ([]byte, error) {
	if len(s.Body) > MaxShortMsgBodyLength {
		return nil, errs.ErrBodyTooLarge
	}
	out := make([]byte, 2+len(s.Body))
	out[0] = uint8(1 + len(s.Body))
	out[1] = byte(s.Type)
	copy(out[2:], s.Body)
	return out, nil
}

// ToMessage widens a ShortMsg into a full Message for delivery through the
// Messaging Fabric (the two share layout rules, differing only in maximum
// body size).
func (s ShortMsg) ToMessage() Message {
	return Message{Type: s.Type, Body: s.Body}
}

// DecodeShortMsg parses a raw ShortMsg encoding (length byte included).
func DecodeShortMsg(raw []byte) (ShortMsg, error) {
	if len(raw) < 2 {
		return ShortMsg{}, errs.ErrIncompleteOrTooLong
	}
	l := int(raw[0])
	if l < MinMsgLength || 1+l > len(raw) {
		return ShortMsg{}, errs.ErrIncompleteOrTooLong
	}
	body := raw[2 : 1+l]
	if len(body) > MaxShortMsgBodyLength {
		return ShortMsg{}, errs.ErrBodyTooLarge
	}
	return ShortMsg{Type: MsgType(raw[1]), Body: body}, nil
}
