package hardware

import "testing"

func TestRelayReqRoundTrip(t *testing.T) {
	req := &RelayReq{Bank: RelayBankExternal}
	b, err := req.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	got := &RelayReq{}
	if err := got.UnmarshalBinary(b); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if got.Bank != req.Bank {
		t.Fatalf("Bank = %v, want %v", got.Bank, req.Bank)
	}
}

func TestPowerSourceReqRoundTrip(t *testing.T) {
	req := &PowerSourceReq{Rail: RailHindbrain, Source: SourceMains12V}
	b, err := req.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	got := &PowerSourceReq{}
	if err := got.UnmarshalBinary(b); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if got.Rail != req.Rail || got.Source != req.Source {
		t.Fatalf("got = %+v, want %+v", got, req)
	}
}

func TestSendOStringReqTruncatesOverlongCommand(t *testing.T) {
	req := &SendOStringReq{WaitForResponse: true}
	long := ""
	for i := 0; i < 200; i++ {
		long += "x"
	}
	req.String = long

	b, err := req.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}

	got := &SendOStringReq{}
	if err := got.UnmarshalBinary(b); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if len(got.String) != maxHindbrainString {
		t.Fatalf("len(String) = %d, want %d", len(got.String), maxHindbrainString)
	}
	if !got.WaitForResponse {
		t.Fatal("WaitForResponse = false, want true")
	}
}

func TestSendOStringCnfRoundTrip(t *testing.T) {
	cnf := &SendOStringCnf{Success: true, String: "OK\n"}
	b, err := cnf.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	got := &SendOStringCnf{}
	if err := got.UnmarshalBinary(b); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if got.Success != cnf.Success || got.String != cnf.String {
		t.Fatalf("got = %+v, want %+v", got, cnf)
	}
}

func TestChargerReqRoundTrip(t *testing.T) {
	req := &ChargerReq{Charger: 2, On: true}
	b, err := req.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	got := &ChargerReq{}
	if err := got.UnmarshalBinary(b); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if got.Charger != req.Charger || got.On != req.On {
		t.Fatalf("got = %+v, want %+v", got, req)
	}
}
