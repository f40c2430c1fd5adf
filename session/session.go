// Package session holds the per-conversation state machine that drives
// the claim intake protocol: policy verification, claim-detail
// extraction, missing-field remediation, and claim persistence.
package session

import (
	"github.com/claimdesk/claimflow/claim"
	"github.com/claimdesk/claimflow/directory"
)

// State is the current position in the intake protocol. Exactly one
// state is active per session at a time.
type State string

const (
	// StateAwaitingPolicyNumber is the initial state; input is treated
	// as a policy number.
	StateAwaitingPolicyNumber State = "awaiting_policy_number"
	// StateConfirmNewClaim asks yes/no after a successful policy lookup.
	StateConfirmNewClaim State = "confirm_new_claim"
	// StateAwaitingClaimDetails expects the first free-text description.
	StateAwaitingClaimDetails State = "awaiting_claim_details"
	// StateAwaitingMissing loops until every required field is present.
	StateAwaitingMissing State = "awaiting_missing"
	// StateAwaitingClaimID is the read-only claim lookup side channel.
	StateAwaitingClaimID State = "awaiting_claim_id"
	// StateDone is terminal: a claim was filed from this session.
	StateDone State = "done"
	// StateDoneNoClaim is terminal: the user declined or the policy was
	// invalid or expired.
	StateDoneNoClaim State = "done_no_claim"
)

// Session is one conversation's intake state. Turns within a session
// are expected to arrive sequentially; concurrent turns on the same
// handle race last-writer-wins, an accepted limitation.
type Session struct {
	ID           string
	State        State
	PolicyNumber string
	// Policy is the snapshot taken at verification time. It defaults
	// claimant fields and is never re-validated against the directory.
	Policy      *directory.Policy
	Draft       *claim.Record
	Missing     []claim.Field
	LastClaimID string
}

// Reset returns the session to its initial values, keeping only the
// handle. Used by the restart command.
func (s *Session) Reset() {
	s.State = StateAwaitingPolicyNumber
	s.PolicyNumber = ""
	s.Policy = nil
	s.Draft = claim.NewRecord()
	s.Missing = nil
	s.LastClaimID = ""
}
