package extract

import (
	"testing"

	"github.com/claimdesk/claimflow/claim"
)

func strPtr(s string) *string { return &s }

func TestMergeGapFillIsMonotone(t *testing.T) {
	prior := claim.NewRecord()
	prior.ClaimantName = strPtr("John Doe")
	prior.ClaimType = strPtr("accident")

	update := claim.NewRecord()
	update.ClaimantName = nil // oracle tried to clear a filled field
	update.ClaimType = strPtr("theft")
	update.IncidentLocation = strPtr("Springfield")
	update.ServiceProvider = strPtr("   ")

	out := MergeGapFill(prior, update)

	if out.ClaimantName == nil || *out.ClaimantName != "John Doe" {
		t.Errorf("null oracle value must not clear a filled field, got %v", out.ClaimantName)
	}
	if out.ClaimType == nil || *out.ClaimType != "theft" {
		t.Errorf("fresh non-null value should overwrite, got %v", out.ClaimType)
	}
	if out.IncidentLocation == nil || *out.IncidentLocation != "Springfield" {
		t.Errorf("new field should be absorbed, got %v", out.IncidentLocation)
	}
	if out.ServiceProvider != nil {
		t.Errorf("whitespace-only value should count as null, got %q", *out.ServiceProvider)
	}
}

func TestMergeGapFillNilUpdate(t *testing.T) {
	prior := claim.NewRecord()
	prior.ClaimantName = strPtr("John Doe")

	out := MergeGapFill(prior, nil)
	if out.ClaimantName == nil || *out.ClaimantName != "John Doe" {
		t.Errorf("nil update must leave the draft unchanged")
	}
}

func TestMergeGapFillDoesNotMutatePrior(t *testing.T) {
	prior := claim.NewRecord()
	prior.ClaimantName = strPtr("John Doe")

	update := claim.NewRecord()
	update.ClaimType = strPtr("fire")

	_ = MergeGapFill(prior, update)
	if prior.ClaimType != nil {
		t.Error("merge mutated the prior draft")
	}
}

func TestApplyDefaultsAlwaysWin(t *testing.T) {
	rec := claim.NewRecord()
	rec.ClaimantName = strPtr("Hallucinated Name")
	rec.PolicyNumber = strPtr("WRONG-1")
	rec.ClaimType = strPtr("accident")

	out := ApplyDefaults(rec, Defaults{ClaimantName: "John Doe", PolicyNumber: "POL2"})

	if out.ClaimantName == nil || *out.ClaimantName != "John Doe" {
		t.Errorf("claimant default must win over oracle output, got %v", out.ClaimantName)
	}
	if out.PolicyNumber == nil || *out.PolicyNumber != "POL2" {
		t.Errorf("policy default must win over oracle output, got %v", out.PolicyNumber)
	}
	if out.ClaimType == nil || *out.ClaimType != "accident" {
		t.Errorf("unrelated oracle fields must survive, got %v", out.ClaimType)
	}
}

func TestApplyDefaultsEmptyNoop(t *testing.T) {
	rec := claim.NewRecord()
	rec.ClaimantName = strPtr("Jane Roe")
	out := ApplyDefaults(rec, Defaults{})
	if out.ClaimantName == nil || *out.ClaimantName != "Jane Roe" {
		t.Errorf("empty defaults must change nothing, got %v", out.ClaimantName)
	}
}

func TestDefaultsOnly(t *testing.T) {
	rec := DefaultsOnly(Defaults{ClaimantName: "John Doe", PolicyNumber: "POL2"})
	if rec.ClaimantName == nil || *rec.ClaimantName != "John Doe" {
		t.Errorf("claimant_name = %v", rec.ClaimantName)
	}
	if rec.PolicyNumber == nil || *rec.PolicyNumber != "POL2" {
		t.Errorf("policy_number = %v", rec.PolicyNumber)
	}
	for _, f := range []claim.Field{claim.FieldClaimType, claim.FieldIncidentDate, claim.FieldClaimAmount} {
		if rec.Value(f) != nil {
			t.Errorf("%s should be null in the defaults-only skeleton", f)
		}
	}
}
