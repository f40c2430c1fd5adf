package session

import "strings"

// Intent is a command tag recognized at the text level, ahead of any
// state-specific processing.
type Intent string

const (
	IntentNone     Intent = "none"
	IntentRestart  Intent = "restart"
	IntentLookup   Intent = "lookup"
	IntentNewClaim Intent = "new_claim"
	IntentMyClaims Intent = "my_claims"
	IntentYes      Intent = "yes"
	IntentNo       Intent = "no"
)

// Classify maps raw text to a global command tag. It is pure; the
// state machine decides in which states each tag is meaningful.
func Classify(text string) Intent {
	t := strings.ToLower(strings.TrimSpace(text))
	switch t {
	case "restart", "reset", "start over":
		return IntentRestart
	case "lookup", "look up", "look up claim", "claim status", "check claim", "check claim status":
		return IntentLookup
	}
	switch {
	case strings.Contains(t, "look up") && strings.Contains(t, "claim"):
		return IntentLookup
	case strings.Contains(t, "claim status"):
		return IntentLookup
	case strings.Contains(t, "my claims"):
		return IntentMyClaims
	case strings.Contains(t, "new claim") || strings.Contains(t, "file a claim"):
		return IntentNewClaim
	}
	return IntentNone
}

// ClassifyConfirmation maps a yes/no answer by its leading token:
// anything starting with "y" is affirmative, with "n" negative,
// everything else asks again.
func ClassifyConfirmation(text string) Intent {
	t := strings.ToLower(strings.TrimSpace(text))
	switch {
	case strings.HasPrefix(t, "y"):
		return IntentYes
	case strings.HasPrefix(t, "n"):
		return IntentNo
	}
	return IntentNone
}
