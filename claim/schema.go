// Package claim defines the required claim field set, the in-progress
// claim record, and the validator that decides missingness and semantic
// rejections.
package claim

import (
	"fmt"
	"strconv"

	"github.com/bytedance/sonic"
)

// Field identifies one of the required claim fields.
type Field string

const (
	FieldClaimantName     Field = "claimant_name"
	FieldPolicyNumber     Field = "policy_number"
	FieldClaimType        Field = "claim_type"
	FieldIncidentDate     Field = "incident_date"
	FieldIncidentLocation Field = "incident_location"
	FieldClaimAmount      Field = "claim_amount"
	FieldServiceProvider  Field = "service_provider"
	FieldLossDescription  Field = "description_of_loss"
)

// RequiredFields is the fixed field set for a complete claim. The order
// drives prompt rendering and missing-field reporting.
var RequiredFields = []Field{
	FieldClaimantName,
	FieldPolicyNumber,
	FieldClaimType,
	FieldIncidentDate,
	FieldIncidentLocation,
	FieldClaimAmount,
	FieldServiceProvider,
	FieldLossDescription,
}

var displayNames = map[Field]string{
	FieldClaimantName:     "claimant name",
	FieldPolicyNumber:     "policy number",
	FieldClaimType:        "claim type",
	FieldIncidentDate:     "incident date",
	FieldIncidentLocation: "incident location",
	FieldClaimAmount:      "claim amount",
	FieldServiceProvider:  "service provider",
	FieldLossDescription:  "description of loss",
}

func (f Field) DisplayName() string {
	if name, ok := displayNames[f]; ok {
		return name
	}
	return string(f)
}

// Record is a claim draft: every required field mapped to a value or
// null. The extraction oracle is asked to always emit all eight keys.
type Record struct {
	ClaimantName     *string `json:"claimant_name" jsonschema:"description=Full name of the person filing the claim"`
	PolicyNumber     *string `json:"policy_number" jsonschema:"description=Insurance policy number"`
	ClaimType        *string `json:"claim_type" jsonschema:"description=Kind of claim such as accident or theft or medical or fire or water damage"`
	IncidentDate     *string `json:"incident_date" jsonschema:"description=Date of the incident in YYYY-MM-DD format"`
	IncidentLocation *string `json:"incident_location" jsonschema:"description=Where the incident happened"`
	ClaimAmount      *string `json:"claim_amount" jsonschema:"description=Claimed amount as a plain number string without currency symbols"`
	ServiceProvider  *string `json:"service_provider" jsonschema:"description=Repair shop or hospital or other service provider involved"`
	LossDescription  *string `json:"description_of_loss" jsonschema:"description=Short description of the loss or damage"`
}

// NewRecord returns a record with every field null.
func NewRecord() *Record {
	return &Record{}
}

// Value returns the raw value for a field, or nil when unset.
func (r *Record) Value(f Field) *string {
	switch f {
	case FieldClaimantName:
		return r.ClaimantName
	case FieldPolicyNumber:
		return r.PolicyNumber
	case FieldClaimType:
		return r.ClaimType
	case FieldIncidentDate:
		return r.IncidentDate
	case FieldIncidentLocation:
		return r.IncidentLocation
	case FieldClaimAmount:
		return r.ClaimAmount
	case FieldServiceProvider:
		return r.ServiceProvider
	case FieldLossDescription:
		return r.LossDescription
	}
	return nil
}

// SetValue sets a field; a nil value clears it.
func (r *Record) SetValue(f Field, v *string) {
	switch f {
	case FieldClaimantName:
		r.ClaimantName = v
	case FieldPolicyNumber:
		r.PolicyNumber = v
	case FieldClaimType:
		r.ClaimType = v
	case FieldIncidentDate:
		r.IncidentDate = v
	case FieldIncidentLocation:
		r.IncidentLocation = v
	case FieldClaimAmount:
		r.ClaimAmount = v
	case FieldServiceProvider:
		r.ServiceProvider = v
	case FieldLossDescription:
		r.LossDescription = v
	}
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	out := NewRecord()
	for _, f := range RequiredFields {
		if v := r.Value(f); v != nil {
			s := *v
			out.SetValue(f, &s)
		}
	}
	return out
}

// UnmarshalJSON coerces a claim_amount emitted as a JSON number into
// its string form, so the oracle's output shape is normalized at the
// boundary instead of trusted at every call site.
func (r *Record) UnmarshalJSON(data []byte) error {
	type recordAlias Record
	var aux struct {
		recordAlias
		RawAmount any `json:"claim_amount"`
	}
	if err := sonic.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("decode claim record: %w", err)
	}
	*r = Record(aux.recordAlias)
	switch v := aux.RawAmount.(type) {
	case nil:
		r.ClaimAmount = nil
	case string:
		r.ClaimAmount = &v
	case float64:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		r.ClaimAmount = &s
	default:
		s := fmt.Sprintf("%v", v)
		r.ClaimAmount = &s
	}
	return nil
}
