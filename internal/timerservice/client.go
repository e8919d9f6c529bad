package timerservice

import (
	"context"

	"roboone/internal/catalog"
	"roboone/internal/fabric"
	"roboone/internal/wire"
)

// Client is a thin convenience wrapper other servers use to arm/cancel
// timers through the Messaging Fabric, rather than hand-building frames at
// every call site.
type Client struct {
	Port string
}

func NewClient(port string) *Client {
	return &Client{Port: port}
}

// Start arms a timer; see TimerStartReq for field semantics.
func (c *Client) Start(ctx context.Context, id, sourcePort uint16, expiryDeciSeconds uint32, expiryMsg wire.ShortMsg) (bool, error) {
	req := &TimerStartReq{ExpiryDeciSeconds: expiryDeciSeconds, ID: id, SourcePort: sourcePort, ExpiryMsg: expiryMsg}
	body, err := req.MarshalBinary()
	if err != nil {
		return false, err
	}
	frame, err := (wire.Message{Type: wire.MsgType(MsgTimerStart), Body: body}).Encode()
	if err != nil {
		return false, err
	}
	resp, rc := fabric.RunClient(ctx, "127.0.0.1", c.Port, frame, true)
	if rc != fabric.ClientSuccess {
		return false, nil
	}
	return decodeSuccess(resp)
}

// Stop cancels a timer; silent if absent.
func (c *Client) Stop(ctx context.Context, id, sourcePort uint16) (bool, error) {
	req := &TimerStopReq{ID: id, SourcePort: sourcePort}
	body, err := req.MarshalBinary()
	if err != nil {
		return false, err
	}
	frame, err := (wire.Message{Type: wire.MsgType(MsgTimerStop), Body: body}).Encode()
	if err != nil {
		return false, err
	}
	resp, rc := fabric.RunClient(ctx, "127.0.0.1", c.Port, frame, true)
	if rc != fabric.ClientSuccess {
		return false, nil
	}
	return decodeSuccess(resp)
}

func decodeSuccess(resp []byte) (bool, error) {
	if len(resp) < 2 {
		return false, nil
	}
	cnf := &catalog.SuccessCnf{}
	if err := cnf.UnmarshalBinary(resp[1:]); err != nil {
		return false, err
	}
	return cnf.Success, nil
}
