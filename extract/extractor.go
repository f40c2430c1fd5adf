// Package extract adapts the language model into an extraction oracle
// with a strict output contract: every call yields a full eight-key
// claim record, value-or-null per field. The merge rules here are the
// only place oracle output is allowed to touch a claim draft.
package extract

import (
	"context"
	"log/slog"
	"strings"

	"github.com/bytedance/sonic"
	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/claimdesk/claimflow/claim"
)

// Defaults are known-good values derived from session context. They
// always win over oracle output.
type Defaults struct {
	ClaimantName string `json:"claimant_name,omitempty"`
	PolicyNumber string `json:"policy_number,omitempty"`
}

// Extractor is the oracle contract. Implementations must tolerate
// malformed model output and surface it as an error; callers degrade a
// failed call to "no new information" for that turn.
type Extractor interface {
	// Extract maps free text to a best-effort full record.
	Extract(ctx context.Context, text string, defaults Defaults) (*claim.Record, error)

	// FillMissing returns an updated full record given the current
	// draft and the fields still missing. Implementations are asked to
	// change only missing fields; MergeGapFill enforces that regardless
	// of compliance.
	FillMissing(ctx context.Context, current *claim.Record, missing []claim.Field, text string) (*claim.Record, error)
}

// DefaultsOnly builds the record an initial extraction degrades to when
// the oracle fails.
func DefaultsOnly(d Defaults) *claim.Record {
	rec := claim.NewRecord()
	if d.ClaimantName != "" {
		name := d.ClaimantName
		rec.ClaimantName = &name
	}
	if d.PolicyNumber != "" {
		num := d.PolicyNumber
		rec.PolicyNumber = &num
	}
	return rec
}

// ApplyDefaults overlays the defaults onto a record as an RFC 7386
// merge patch, so a supplied default can never be clobbered by oracle
// noise. Defaults carry no nulls, so the patch never deletes.
func ApplyDefaults(rec *claim.Record, d Defaults) *claim.Record {
	if d.ClaimantName == "" && d.PolicyNumber == "" {
		return rec
	}
	merged, err := mergePatchDefaults(rec, d)
	if err == nil {
		return merged
	}
	// Merge-patch failure must never lose the defaults-win rule.
	slog.Warn("defaults merge patch failed, overlaying directly", "err", err)
	out := rec.Clone()
	if d.ClaimantName != "" {
		name := d.ClaimantName
		out.ClaimantName = &name
	}
	if d.PolicyNumber != "" {
		num := d.PolicyNumber
		out.PolicyNumber = &num
	}
	return out
}

func mergePatchDefaults(rec *claim.Record, d Defaults) (*claim.Record, error) {
	doc, err := sonic.Marshal(rec)
	if err != nil {
		return nil, err
	}
	patch, err := sonic.Marshal(d)
	if err != nil {
		return nil, err
	}
	merged, err := jsonpatch.MergePatch(doc, patch)
	if err != nil {
		return nil, err
	}
	out := claim.NewRecord()
	if err := sonic.Unmarshal(merged, out); err != nil {
		return nil, err
	}
	return out, nil
}

// MergeGapFill absorbs a gap-fill oracle response into the prior draft.
// The merge is monotone: for each field the result is the update's
// value only when the update is non-null and non-empty, otherwise the
// prior value is retained unchanged. A field, once set, can never be
// cleared by the oracle.
func MergeGapFill(prior, update *claim.Record) *claim.Record {
	out := prior.Clone()
	if update == nil {
		return out
	}
	for _, f := range claim.RequiredFields {
		v := update.Value(f)
		if v == nil || strings.TrimSpace(*v) == "" {
			continue
		}
		s := *v
		out.SetValue(f, &s)
	}
	return out
}

// Failover chains extractors, returning the first successful result.
type Failover struct {
	extractors []Extractor
}

func NewFailover(extractors ...Extractor) *Failover {
	return &Failover{extractors: extractors}
}

func (e *Failover) Extract(ctx context.Context, text string, defaults Defaults) (*claim.Record, error) {
	var lastErr error
	for _, ex := range e.extractors {
		rec, err := ex.Extract(ctx, text, defaults)
		if err == nil {
			return rec, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func (e *Failover) FillMissing(ctx context.Context, current *claim.Record, missing []claim.Field, text string) (*claim.Record, error) {
	var lastErr error
	for _, ex := range e.extractors {
		rec, err := ex.FillMissing(ctx, current, missing, text)
		if err == nil {
			return rec, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
