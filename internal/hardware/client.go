package hardware

import (
	"context"

	"roboone/internal/catalog"
	"roboone/internal/fabric"
	"roboone/internal/wire"
)

// Client is the Supervisor's and Task Handler's view of the Hardware
// façade: one method per REQ kind, each a synchronous request/response
// round trip through the Messaging Fabric.
type Client struct {
	Port string
}

func NewClient(port string) *Client {
	return &Client{Port: port}
}

func (c *Client) EnableRelays(ctx context.Context, bank RelayBank) bool {
	return c.call(ctx, MsgEnableRelays, &RelayReq{Bank: bank})
}

func (c *Client) DisableRelays(ctx context.Context, bank RelayBank) bool {
	return c.call(ctx, MsgDisableRelays, &RelayReq{Bank: bank})
}

func (c *Client) SetPowerSource(ctx context.Context, rail Rail, source Source) bool {
	return c.call(ctx, MsgSetPowerSource, &PowerSourceReq{Rail: rail, Source: source})
}

func (c *Client) HindbrainPower(ctx context.Context, on bool) bool {
	return c.call(ctx, MsgHindbrainPower, &HindbrainPowerReq{On: on})
}

func (c *Client) ChargerControl(ctx context.Context, charger uint8, on bool) bool {
	return c.call(ctx, MsgChargerControl, &ChargerReq{Charger: charger, On: on})
}

func (c *Client) BatterySwapReset(ctx context.Context) bool {
	return c.call(ctx, MsgBatterySwapReset, &catalog.Empty{})
}

// SendOString forwards a Hindbrain UART command and returns (success,
// response string).
func (c *Client) SendOString(ctx context.Context, command string, waitForResponse bool) (bool, string) {
	req := &SendOStringReq{String: command, WaitForResponse: waitForResponse}
	body, err := req.MarshalBinary()
	if err != nil {
		return false, ""
	}
	resp, ok := c.roundTrip(ctx, MsgSendOString, body)
	if !ok {
		return false, ""
	}
	cnf := &SendOStringCnf{}
	if err := cnf.UnmarshalBinary(resp); err != nil {
		return false, ""
	}
	return cnf.Success, cnf.String
}

func (c *Client) call(ctx context.Context, msgType uint8, req catalog.Body) bool {
	body, err := req.MarshalBinary()
	if err != nil {
		return false
	}
	resp, ok := c.roundTrip(ctx, msgType, body)
	if !ok {
		return false
	}
	cnf := &catalog.SuccessCnf{}
	if err := cnf.UnmarshalBinary(resp); err != nil {
		return false
	}
	return cnf.Success
}

// roundTrip sends a request and returns the confirmation body (type byte
// stripped).
func (c *Client) roundTrip(ctx context.Context, msgType uint8, body []byte) ([]byte, bool) {
	frame, err := (wire.Message{Type: wire.MsgType(msgType), Body: body}).Encode()
	if err != nil {
		return nil, false
	}
	resp, rc := fabric.RunClient(ctx, "127.0.0.1", c.Port, frame, true)
	if rc != fabric.ClientSuccess || len(resp) < 1 {
		return nil, false
	}
	return resp[1:], true
}
