// Package remediation turns non-compliant records into actionable advice.
package remediation

import (
	"fmt"

	"africonnect/internal/compliance/models"
)

// Suggest returns one suggestion per non-compliant record, in record order.
// The first missing requirement wins over prohibited terms; records without
// structured findings, such as manual reviewer entries, get general advice
// echoing their detail.
func Suggest(records []models.Record) []models.Suggestion {
	out := make([]models.Suggestion, 0)
	for _, r := range records {
		if r.Verdict != models.VerdictNonCompliant {
			continue
		}
		out = append(out, suggest(r))
	}
	return out
}

func suggest(r models.Record) models.Suggestion {
	if f, ok := firstFinding(r.Findings, models.FindingMissingRequirement); ok {
		return models.Suggestion{
			Type:         models.SuggestAddClause,
			Jurisdiction: r.Jurisdiction,
			Requirement:  f.Requirement,
			Suggestion:   fmt.Sprintf("Add a clause addressing %q to comply with regulations in %s.", f.Requirement, r.Jurisdiction),
		}
	}
	if f, ok := firstFinding(r.Findings, models.FindingProhibitedTerm); ok {
		return models.Suggestion{
			Type:         models.SuggestRemoveTerm,
			Jurisdiction: r.Jurisdiction,
			Term:         f.Term,
			Suggestion:   fmt.Sprintf("Remove the prohibited term %q to comply with regulations in %s.", f.Term, r.Jurisdiction),
		}
	}
	return models.Suggestion{
		Type:         models.SuggestGeneral,
		Jurisdiction: r.Jurisdiction,
		Suggestion:   fmt.Sprintf("Review contract terms to address compliance issues in %s: %s", r.Jurisdiction, r.Detail),
	}
}

func firstFinding(findings []models.Finding, kind models.FindingKind) (models.Finding, bool) {
	for _, f := range findings {
		if f.Kind == kind {
			return f, true
		}
	}
	return models.Finding{}, false
}
