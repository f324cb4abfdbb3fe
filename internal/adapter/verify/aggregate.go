package verify

import (
	"encoding/json"

	"factlens/internal/domain"
)

// terminalKinds are event kinds that signal stream completion with an
// authoritative payload.
var terminalKinds = map[string]bool{
	"complete": true,
	"result":   true,
	"done":     true,
}

// Reconstruct assembles one coherent verification result from the ordered
// event sequence of a stream. It is a pure function so the precedence rules
// stay testable in isolation from I/O.
//
// Precedence:
//  1. The last terminal event ("complete", "result", "done") whose data is a
//     JSON object wins outright; no accumulation is performed.
//  2. Otherwise events are folded in arrival order: claim_group objects are
//     appended (no dedup by claim_id), credit_usage and thread_id keep the
//     most recently seen value, and any object carrying a claim_groups field
//     is a full snapshot that replaces the result candidate (last snapshot
//     wins).
//  3. With claim groups but no snapshot, a result is synthesized with
//     totalResults equal to the sum of the groups' citation counts.
//  4. With neither, the raw ordered event list is returned for diagnostic
//     rendering.
func Reconstruct(events []domain.ParsedEvent) domain.Outcome {
	if result := lastTerminalResult(events); result != nil {
		return domain.Outcome{Kind: domain.OutcomeFinal, Result: result}
	}

	var (
		groups      []domain.ClaimGroup
		snapshot    *domain.VerifyResult
		threadID    string
		creditUsage json.RawMessage
	)

	for _, ev := range events {
		obj := ev.Object()
		if obj == nil {
			continue
		}

		if tid, ok := obj["thread_id"].(string); ok {
			threadID = tid
		}
		if ev.Kind == "credit_usage" {
			creditUsage = remarshal(obj)
		}

		if _, ok := obj["claim_groups"]; ok {
			// Full snapshot: replaces the result candidate regardless of
			// arrival position relative to claim_group events.
			if vr := decodeResult(obj); vr != nil {
				snapshot = vr
			}
			continue
		}

		if ev.Kind == "claim_group" {
			var g domain.ClaimGroup
			if err := json.Unmarshal(remarshal(obj), &g); err == nil {
				groups = append(groups, g)
			}
		}
	}

	switch {
	case snapshot != nil:
		if snapshot.ThreadID == "" {
			snapshot.ThreadID = threadID
		}
		if snapshot.CreditUsage == nil {
			snapshot.CreditUsage = creditUsage
		}
		return domain.Outcome{Kind: domain.OutcomeAccumulated, Result: snapshot}
	case len(groups) > 0:
		total := 0
		for _, g := range groups {
			total += g.CitationCount
		}
		return domain.Outcome{Kind: domain.OutcomeAccumulated, Result: &domain.VerifyResult{
			ClaimGroups:  groups,
			TotalResults: total,
			ThreadID:     threadID,
			CreditUsage:  creditUsage,
		}}
	default:
		return domain.Outcome{Kind: domain.OutcomeUnresolved, Events: events}
	}
}

// lastTerminalResult scans for the last terminal event whose data is a
// structured object and decodes it as the authoritative result.
func lastTerminalResult(events []domain.ParsedEvent) *domain.VerifyResult {
	for i := len(events) - 1; i >= 0; i-- {
		ev := events[i]
		if !terminalKinds[ev.Kind] {
			continue
		}
		obj := ev.Object()
		if obj == nil {
			continue
		}
		if vr := decodeResult(obj); vr != nil {
			return vr
		}
	}
	return nil
}

// decodeResult converts a generic JSON object into a VerifyResult.
func decodeResult(obj map[string]any) *domain.VerifyResult {
	var vr domain.VerifyResult
	if err := json.Unmarshal(remarshal(obj), &vr); err != nil {
		return nil
	}
	return &vr
}

// remarshal round-trips a decoded object back to raw JSON. Marshaling a
// value that came out of json.Unmarshal cannot fail.
func remarshal(obj map[string]any) json.RawMessage {
	data, _ := json.Marshal(obj)
	return data
}
