package domain

import "testing"

func TestDecodeFrameObjectPayload(t *testing.T) {
	ev := DecodeFrame(Frame{Kind: "claim_group", RawPayload: `{"claim_id":"a"}`})
	obj := ev.Object()
	if obj == nil || obj["claim_id"] != "a" {
		t.Fatalf("object = %v", obj)
	}
}

func TestDecodeFrameMalformedFallsBackToString(t *testing.T) {
	ev := DecodeFrame(Frame{Kind: "message", RawPayload: "plain text, not JSON"})
	if ev.Data != "plain text, not JSON" {
		t.Fatalf("data = %v, want the raw string", ev.Data)
	}
	if ev.Object() != nil {
		t.Error("raw string payload has no object form")
	}
}

func TestDecodeFrameNonObjectJSON(t *testing.T) {
	for _, payload := range []string{`"quoted"`, `[1,2]`, `42`, `true`, `null`} {
		ev := DecodeFrame(Frame{Kind: "message", RawPayload: payload})
		if ev.Object() != nil {
			t.Errorf("payload %s: Object() must be nil for non-object JSON", payload)
		}
	}
}

func TestDecodeFrameKeepsKind(t *testing.T) {
	ev := DecodeFrame(Frame{Kind: "credit_usage", RawPayload: `{}`})
	if ev.Kind != "credit_usage" {
		t.Fatalf("kind = %q", ev.Kind)
	}
}
