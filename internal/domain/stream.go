package domain

import "encoding/json"

// DefaultEventKind is assumed when a frame carries no event: line.
const DefaultEventKind = "message"

// Frame is one complete SSE event unit as parsed from the wire, before any
// JSON decoding of its payload.
type Frame struct {
	Kind       string
	RawPayload string
}

// ParsedEvent is a frame whose payload has been opportunistically JSON-decoded.
// When the payload is not valid JSON, Data holds the original string.
type ParsedEvent struct {
	Kind string `json:"eventKind"`
	Data any    `json:"data"`
}

// Object returns the event's data as a JSON object, or nil when the payload
// was a raw string or a non-object JSON value.
func (e ParsedEvent) Object() map[string]any {
	obj, _ := e.Data.(map[string]any)
	return obj
}

// DecodeFrame converts a Frame into a ParsedEvent. Malformed JSON payloads
// fall back to the raw string and never produce an error.
func DecodeFrame(f Frame) ParsedEvent {
	var v any
	if err := json.Unmarshal([]byte(f.RawPayload), &v); err != nil {
		return ParsedEvent{Kind: f.Kind, Data: f.RawPayload}
	}
	return ParsedEvent{Kind: f.Kind, Data: v}
}

// OutcomeKind tags how a stream's final result was obtained.
type OutcomeKind int

const (
	// OutcomeFinal: an explicit terminal event carried the authoritative result.
	OutcomeFinal OutcomeKind = iota
	// OutcomeAccumulated: the result was assembled from incremental events
	// (full snapshot or synthesized from claim_group events).
	OutcomeAccumulated
	// OutcomeUnresolved: no result could be reconstructed; Events holds the
	// raw ordered event list for diagnostic rendering.
	OutcomeUnresolved
)

// Outcome is the reconstruction result for one verification stream.
// Result is non-nil for Final and Accumulated; Events is populated for
// Unresolved.
type Outcome struct {
	Kind   OutcomeKind
	Result *VerifyResult
	Events []ParsedEvent
}
