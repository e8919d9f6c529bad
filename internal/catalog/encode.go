package catalog

// EncodeResponse marshals a confirmation/indication body and prefixes it
// with its type code, producing the response bytes the Messaging Fabric
// length-prefixes and writes back (§6.1). Every server's Handle uses this
// instead of hand-rolling the same two lines.
func EncodeResponse(msgType uint8, body Body) ([]byte, error) {
	b, err := body.MarshalBinary()
	if err != nil {
		return nil, err
	}
	out := make([]byte, 1+len(b))
	out[0] = msgType
	copy(out[1:], b)
	return out, nil
}
