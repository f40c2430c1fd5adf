package session

import (
	"fmt"
	"strings"

	"github.com/claimdesk/claimflow/claim"
	"github.com/claimdesk/claimflow/directory"
	"github.com/claimdesk/claimflow/store"
)

const (
	replyGreeting = "Welcome to claim intake. Please enter your policy number to get started, or type \"look up claim\" to check an existing claim."

	replyClaimDetailsInstructions = "Great, let's file your claim. Describe what happened in your own words, or list the details line by line (for example \"incident date: 2024-05-17\"). I'll need the claim type, incident date and location, claim amount, service provider, and a description of the loss."

	replyDeclined = "No problem, no claim will be filed. Type \"restart\" if you change your mind."

	replyConfirmReprompt = "Sorry, I didn't catch that. Would you like to file a new claim? Please answer yes or no."

	replyAskClaimID = "Claim lookup: please enter a claim ID (for example CLM-1001). Type \"restart\" to go back."

	replyTerminal = "This conversation is finished. Type \"restart\" to start over, or \"look up claim\" after restarting to check an existing claim."

	replyUnknownState = "Something went wrong with this conversation. Please type \"restart\" to start over."

	replyRetryTurn = "Sorry, something went wrong on my end just now. Please try that again."
)

func renderPolicyFound(p *directory.Policy) string {
	var b strings.Builder
	b.WriteString("I found your policy:\n")
	fmt.Fprintf(&b, "- Policy number: %s\n", p.PolicyNumber)
	fmt.Fprintf(&b, "- Holder name: %s\n", p.Name)
	fmt.Fprintf(&b, "- Policy type: %s\n", p.PolicyType)
	fmt.Fprintf(&b, "- Valid till: %s\n", p.ValidTill)
	if p.CoverageAmount > 0 {
		fmt.Fprintf(&b, "- Coverage amount: %.2f\n", p.CoverageAmount)
	}
	b.WriteString("\nWould you like to file a new claim? (yes/no)")
	return b.String()
}

func renderPolicyNotFound(input string) string {
	return fmt.Sprintf("I couldn't find a policy matching %q. Please check the number and try again.", input)
}

func renderPolicyExpired(p *directory.Policy) string {
	return fmt.Sprintf("Policy %s expired on %s, so no new claims can be filed against it. Type \"restart\" to try a different policy.", p.PolicyNumber, p.ValidTill)
}

func renderMissingFields(missing []claim.Field) string {
	names := make([]string, 0, len(missing))
	for _, f := range missing {
		names = append(names, f.DisplayName())
	}
	return fmt.Sprintf("Thanks, I've noted that. I still need the following: %s. Please provide them.", strings.Join(names, ", "))
}

func renderDraftSummary(rec *claim.Record) string {
	var b strings.Builder
	for _, f := range claim.RequiredFields {
		v := rec.Value(f)
		val := ""
		if v != nil {
			val = *v
		}
		fmt.Fprintf(&b, "- %s: %s\n", f.DisplayName(), val)
	}
	return b.String()
}

func renderClaimFiled(rec *claim.Record, claimID string) string {
	var b strings.Builder
	b.WriteString("Here's what I've recorded:\n")
	b.WriteString(renderDraftSummary(rec))
	fmt.Fprintf(&b, "\nYour claim has been filed. Your claim ID is %s — keep it for future reference.", claimID)
	return b.String()
}

func renderClaimDetail(c *store.Claim) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Claim %s:\n", c.ClaimID)
	fmt.Fprintf(&b, "- Claimant name: %s\n", c.ClaimantName)
	fmt.Fprintf(&b, "- Policy number: %s\n", c.PolicyNumber)
	fmt.Fprintf(&b, "- Claim type: %s\n", c.ClaimType)
	fmt.Fprintf(&b, "- Incident date: %s\n", c.IncidentDate)
	fmt.Fprintf(&b, "- Incident location: %s\n", c.IncidentLocation)
	fmt.Fprintf(&b, "- Claim amount: %.2f\n", c.ClaimAmount)
	fmt.Fprintf(&b, "- Service provider: %s\n", c.ServiceProvider)
	fmt.Fprintf(&b, "- Description of loss: %s\n", c.LossDescription)
	fmt.Fprintf(&b, "- Filed at: %s\n", c.CreatedAt.Format("2006-01-02 15:04"))
	b.WriteString("\nEnter another claim ID to look up, or type \"restart\".")
	return b.String()
}

func renderClaimNotFound(id string) string {
	return fmt.Sprintf("No claim found with ID %q. Please check the ID and try again, or type \"restart\".", id)
}

func renderClaimsByPolicy(policyNumber string, claims []store.Claim) string {
	if len(claims) == 0 {
		return fmt.Sprintf("No claims on record for policy %s.", policyNumber)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Claims on record for policy %s:\n", policyNumber)
	for _, c := range claims {
		fmt.Fprintf(&b, "- %s: %s, %.2f, filed %s\n", c.ClaimID, c.ClaimType, c.ClaimAmount, c.CreatedAt.Format("2006-01-02"))
	}
	return b.String()
}
