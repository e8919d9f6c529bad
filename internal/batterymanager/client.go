package batterymanager

import (
	"context"

	"roboone/internal/catalog"
	"roboone/internal/fabric"
	"roboone/internal/wire"
)

// Client is the Supervisor's view of the Battery Manager server.
type Client struct {
	Port string
}

func NewClient(port string) *Client {
	return &Client{Port: port}
}

// ChargingPermitted notifies the Battery Manager whether it may charge
// (§4.4's Docked/Shutdown entry actions).
func (c *Client) ChargingPermitted(ctx context.Context, permitted bool) bool {
	req := &ChargingPermittedReq{Permitted: permitted}
	body, err := req.MarshalBinary()
	if err != nil {
		return false
	}
	frame, err := (wire.Message{Type: wire.MsgType(MsgChargingPermitted), Body: body}).Encode()
	if err != nil {
		return false
	}
	resp, rc := fabric.RunClient(ctx, "127.0.0.1", c.Port, frame, true)
	if rc != fabric.ClientSuccess || len(resp) < 2 {
		return false
	}
	cnf := &catalog.SuccessCnf{}
	if err := cnf.UnmarshalBinary(resp[1:]); err != nil {
		return false
	}
	return cnf.Success
}
