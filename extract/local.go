package extract

import (
	"context"
	"strings"

	"github.com/claimdesk/claimflow/claim"
)

// RuleBased parses explicit "label: value" lines without calling a
// model. It covers the labeled input shape deterministically and acts
// as the offline fallback behind the tool-based oracle.
type RuleBased struct{}

func NewRuleBased() *RuleBased {
	return &RuleBased{}
}

var labelAliases = map[string]claim.Field{
	"claimant name":       claim.FieldClaimantName,
	"claimant":            claim.FieldClaimantName,
	"name":                claim.FieldClaimantName,
	"policy number":       claim.FieldPolicyNumber,
	"policy":              claim.FieldPolicyNumber,
	"claim type":          claim.FieldClaimType,
	"type":                claim.FieldClaimType,
	"incident date":       claim.FieldIncidentDate,
	"date of incident":    claim.FieldIncidentDate,
	"date":                claim.FieldIncidentDate,
	"incident location":   claim.FieldIncidentLocation,
	"location":            claim.FieldIncidentLocation,
	"claim amount":        claim.FieldClaimAmount,
	"amount":              claim.FieldClaimAmount,
	"service provider":    claim.FieldServiceProvider,
	"provider":            claim.FieldServiceProvider,
	"description of loss": claim.FieldLossDescription,
	"loss description":    claim.FieldLossDescription,
	"description":         claim.FieldLossDescription,
}

func (e *RuleBased) Extract(ctx context.Context, text string, defaults Defaults) (*claim.Record, error) {
	rec := parseLabeledLines(text)
	return ApplyDefaults(rec, defaults), nil
}

func (e *RuleBased) FillMissing(ctx context.Context, current *claim.Record, missing []claim.Field, text string) (*claim.Record, error) {
	parsed := parseLabeledLines(text)
	out := current.Clone()
	filled := false
	for _, f := range missing {
		if v := parsed.Value(f); v != nil {
			s := *v
			out.SetValue(f, &s)
			filled = true
		}
	}
	// A bare answer with no label fills the single remaining gap.
	if !filled && len(missing) == 1 {
		if line := strings.TrimSpace(text); line != "" && !strings.Contains(line, ":") {
			out.SetValue(missing[0], &line)
		}
	}
	return out, nil
}

func parseLabeledLines(text string) *claim.Record {
	rec := claim.NewRecord()
	for _, line := range strings.Split(text, "\n") {
		label, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(label))
		key = strings.ReplaceAll(key, "_", " ")
		f, known := labelAliases[key]
		if !known {
			continue
		}
		v := strings.TrimSpace(value)
		if v == "" {
			continue
		}
		rec.SetValue(f, &v)
	}
	return rec
}
