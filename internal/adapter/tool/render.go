package tool

import (
	"encoding/json"
	"fmt"
	"strings"

	"factlens/internal/domain"
)

// RenderOutcome converts a stream outcome to markdown for the calling agent.
// Unresolved outcomes render the raw ordered event list as a diagnostic
// section instead of a structured result.
func RenderOutcome(o *domain.Outcome) string {
	if o.Kind == domain.OutcomeUnresolved {
		return renderEvents(o.Events)
	}
	return RenderResult(o.Result)
}

// RenderResult formats a structured verification result as markdown.
func RenderResult(r *domain.VerifyResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Verification result\n\n")
	if r.ThreadID != "" {
		fmt.Fprintf(&sb, "Thread: `%s`\n", r.ThreadID)
	}
	fmt.Fprintf(&sb, "Sources consulted: %d\n\n", r.TotalResults)

	if len(r.ClaimGroups) == 0 {
		sb.WriteString("No claims could be evaluated.\n")
	}
	for _, g := range r.ClaimGroups {
		renderClaimGroup(&sb, g)
	}

	if len(r.CreditUsage) > 0 {
		fmt.Fprintf(&sb, "\nCredit usage: `%s`\n", string(r.CreditUsage))
	}
	return sb.String()
}

func renderClaimGroup(sb *strings.Builder, g domain.ClaimGroup) {
	fmt.Fprintf(sb, "## Claim %d: %s\n\n", g.ClaimIndex+1, g.Claim)
	fmt.Fprintf(sb, "Stance: **%s** (%d citations)\n\n", g.StanceSummary, g.CitationCount)

	if g.Verdict != nil {
		v := g.Verdict
		fmt.Fprintf(sb, "Verdict: **%s** (confidence %.2f)\n\n%s\n\n", v.Result, v.Confidence, v.Summary)
		for _, f := range v.KeyFindings {
			fmt.Fprintf(sb, "- %s\n", f)
		}
		for _, c := range v.Corrections {
			fmt.Fprintf(sb, "- Correction: %s\n", c)
		}
		for _, u := range v.UnverifiedClaims {
			fmt.Fprintf(sb, "- Unverified: %s\n", u)
		}
		if len(v.KeyFindings)+len(v.Corrections)+len(v.UnverifiedClaims) > 0 {
			sb.WriteString("\n")
		}
	}

	for i, c := range g.Citations {
		fmt.Fprintf(sb, "%d. [%s](%s)", i+1, c.Title, c.URL)
		if c.Stance != "" {
			fmt.Fprintf(sb, " — %s", c.Stance)
		}
		sb.WriteString("\n")
		if c.Snippet != "" {
			fmt.Fprintf(sb, "   > %s\n", c.Snippet)
		}
	}
	if len(g.Citations) > 0 {
		sb.WriteString("\n")
	}
}

// renderEvents produces the diagnostic fallback: the raw ordered event list.
func renderEvents(events []domain.ParsedEvent) string {
	var sb strings.Builder
	sb.WriteString("# Verification stream (unresolved)\n\n")
	sb.WriteString("The service closed the stream without a reconstructable result. Raw events:\n\n")
	for i, ev := range events {
		data, err := json.Marshal(ev.Data)
		if err != nil {
			data = []byte(fmt.Sprintf("%v", ev.Data))
		}
		fmt.Fprintf(&sb, "%d. `%s`: `%s`\n", i+1, ev.Kind, string(data))
	}
	if len(events) == 0 {
		sb.WriteString("(no events received)\n")
	}
	return sb.String()
}
