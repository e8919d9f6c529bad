package taskhandler

import "testing"

func TestHeaderMarshalUnmarshalRoundTrip(t *testing.T) {
	h := Header{SourceServerPort: 5236, IPPresent: true, IP: "192.168.1.5"}
	b := h.Marshal()

	var got Header
	n, err := got.Unmarshal(b)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if n != len(b) {
		t.Fatalf("consumed %d bytes, want %d", n, len(b))
	}
	if got != h {
		t.Fatalf("got = %+v, want %+v", got, h)
	}
}

func TestNewTaskReqHindbrainDirectRoundTrip(t *testing.T) {
	req := &NewTaskReq{
		HeaderPresent: true,
		Header:        Header{SourceServerPort: 1234, IPPresent: false},
		Protocol:      ProtocolHindbrainDirect,
		Command:       "FORWARD 10",
	}
	b, err := req.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}

	got := &NewTaskReq{}
	if err := got.UnmarshalBinary(b); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if got.HeaderPresent != req.HeaderPresent || got.Header != req.Header {
		t.Fatalf("header = %+v, want %+v", got.Header, req.Header)
	}
	if got.Protocol != req.Protocol || got.Command != req.Command {
		t.Fatalf("got = %+v, want %+v", got, req)
	}
}

func TestNewTaskReqMotionRoundTrip(t *testing.T) {
	req := &NewTaskReq{Protocol: ProtocolMotion, MotionBody: []byte{1, 2, 3}}
	b, err := req.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}

	got := &NewTaskReq{}
	if err := got.UnmarshalBinary(b); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if got.HeaderPresent {
		t.Fatal("HeaderPresent = true, want false")
	}
	if string(got.MotionBody) != string(req.MotionBody) {
		t.Fatalf("MotionBody = %v, want %v", got.MotionBody, req.MotionBody)
	}
}

func TestTaskIndHindbrainDirectRoundTrip(t *testing.T) {
	ind := &TaskInd{Handle: 4242, Protocol: ProtocolHindbrainDirect, HDResult: HDResultSuccess, Response: "OK"}
	b, err := ind.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}

	got := &TaskInd{}
	if err := got.UnmarshalBinary(b); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if got.Handle != ind.Handle || got.HDResult != ind.HDResult || got.Response != ind.Response {
		t.Fatalf("got = %+v, want %+v", got, ind)
	}
}

func TestTaskIndMotionRoundTrip(t *testing.T) {
	ind := &TaskInd{Handle: 1, Protocol: ProtocolMotion, Motion: MotionResultGeneralFailure}
	b, err := ind.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}

	got := &TaskInd{}
	if err := got.UnmarshalBinary(b); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if got.Handle != ind.Handle || got.Motion != ind.Motion {
		t.Fatalf("got = %+v, want %+v", got, ind)
	}
}

func TestNewTaskReqUnknownProtocolFails(t *testing.T) {
	req := &NewTaskReq{}
	b, _ := req.MarshalBinary()
	b[len(b)-2] = 99 // overwrite the protocol byte with an unknown value

	got := &NewTaskReq{}
	if err := got.UnmarshalBinary(b); err == nil {
		t.Fatal("UnmarshalBinary with unknown protocol returned nil error")
	}
}
