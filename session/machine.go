package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/claimdesk/claimflow/claim"
	"github.com/claimdesk/claimflow/directory"
	"github.com/claimdesk/claimflow/extract"
	"github.com/claimdesk/claimflow/store"
)

// Flow drives the intake protocol. It is the sole owner of when claim
// data is considered final and persisted. Oracle and store failures
// degrade to a corrective reply for that turn only; a turn never
// crashes the session.
type Flow struct {
	sessions  *Repo
	dir       directory.Directory
	claims    store.Store
	extractor extract.Extractor
	validator *claim.Validator
	now       func() time.Time
}

type Option func(*Flow)

// WithClock injects the clock used for date validation and persisted
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(f *Flow) {
		f.now = now
		f.validator.Now = now
	}
}

// WithStrictDates makes unparseable incident dates a hard rejection
// requiring ISO format.
func WithStrictDates(strict bool) Option {
	return func(f *Flow) {
		f.validator.StrictDates = strict
	}
}

func NewFlow(sessions *Repo, dir directory.Directory, claims store.Store, extractor extract.Extractor, opts ...Option) *Flow {
	f := &Flow{
		sessions:  sessions,
		dir:       dir,
		claims:    claims,
		extractor: extractor,
		validator: claim.NewValidator(false),
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// HandleMessage is the single inbound entry point. When sessionID is
// empty or unknown a new session is minted; the returned handle must be
// echoed back on subsequent turns.
func (f *Flow) HandleMessage(ctx context.Context, sessionID, message string) (string, string) {
	sess := f.sessions.GetOrCreate(sessionID)
	reply := f.handleTurn(ctx, sess, message)
	return sess.ID, reply
}

func (f *Flow) handleTurn(ctx context.Context, sess *Session, message string) string {
	intent := Classify(message)
	slog.Debug("handling turn", "session", sess.ID, "state", sess.State, "intent", intent)

	// Global commands beat state-specific processing.
	if intent == IntentRestart {
		sess.Reset()
		return replyGreeting
	}
	if intent == IntentLookup && sess.State == StateAwaitingPolicyNumber {
		sess.State = StateAwaitingClaimID
		return replyAskClaimID
	}

	switch sess.State {
	case StateAwaitingPolicyNumber:
		return f.handlePolicyNumber(ctx, sess, message)
	case StateConfirmNewClaim:
		return f.handleConfirm(sess, message)
	case StateAwaitingClaimDetails:
		return f.handleClaimDetails(ctx, sess, message)
	case StateAwaitingMissing:
		return f.handleMissing(ctx, sess, message)
	case StateAwaitingClaimID:
		return f.handleClaimID(ctx, sess, message)
	case StateDone, StateDoneNoClaim:
		return f.handleTerminal(ctx, sess, intent)
	default:
		slog.Warn("session in unrecognized state", "session", sess.ID, "state", sess.State)
		return replyUnknownState
	}
}

func (f *Flow) handlePolicyNumber(ctx context.Context, sess *Session, message string) string {
	input := strings.TrimSpace(message)
	if input == "" {
		return replyGreeting
	}
	number := directory.NormalizeNumber(input)
	policy, err := f.dir.Lookup(ctx, number)
	if errors.Is(err, directory.ErrNotFound) {
		return renderPolicyNotFound(input)
	}
	if err != nil {
		slog.Error("policy lookup failed", "session", sess.ID, "err", err)
		return replyRetryTurn
	}
	if policy.Expired(f.now()) {
		sess.State = StateDoneNoClaim
		return renderPolicyExpired(policy)
	}
	sess.PolicyNumber = directory.NormalizeNumber(policy.PolicyNumber)
	sess.Policy = policy
	sess.State = StateConfirmNewClaim
	return renderPolicyFound(policy)
}

func (f *Flow) handleConfirm(sess *Session, message string) string {
	switch ClassifyConfirmation(message) {
	case IntentYes:
		sess.State = StateAwaitingClaimDetails
		return replyClaimDetailsInstructions
	case IntentNo:
		sess.State = StateDoneNoClaim
		return replyDeclined
	}
	return replyConfirmReprompt
}

func (f *Flow) handleClaimDetails(ctx context.Context, sess *Session, message string) string {
	defaults := f.sessionDefaults(sess)
	rec, err := f.extractor.Extract(ctx, message, defaults)
	if err != nil {
		slog.Warn("initial extraction degraded to defaults only", "session", sess.ID, "err", err)
		rec = extract.DefaultsOnly(defaults)
	}
	// Defaults are reapplied on top so oracle noise can never clobber
	// verified session data.
	sess.Draft = extract.ApplyDefaults(rec, defaults)
	return f.finishIntakeTurn(ctx, sess)
}

func (f *Flow) handleMissing(ctx context.Context, sess *Session, message string) string {
	rec, err := f.extractor.FillMissing(ctx, sess.Draft, sess.Missing, message)
	if err != nil {
		slog.Warn("gap-fill extraction degraded to no-op", "session", sess.ID, "err", err)
		rec = sess.Draft
	}
	sess.Draft = extract.MergeGapFill(sess.Draft, rec)
	return f.finishIntakeTurn(ctx, sess)
}

// finishIntakeTurn runs validation after a merge and either rejects,
// re-prompts for the remaining gaps, or persists the completed claim.
func (f *Flow) finishIntakeTurn(ctx context.Context, sess *Session) string {
	issues := f.validator.Check(sess.Draft)
	sess.Missing = f.validator.Missing(sess.Draft)
	if len(issues) > 0 {
		sess.State = StateAwaitingMissing
		return issues[0].Message
	}
	if len(sess.Missing) > 0 {
		sess.State = StateAwaitingMissing
		return renderMissingFields(sess.Missing)
	}
	return f.persistClaim(ctx, sess)
}

func (f *Flow) persistClaim(ctx context.Context, sess *Session) string {
	existing, err := f.claims.Load(ctx)
	if err != nil {
		slog.Error("claim store load failed", "session", sess.ID, "err", err)
		sess.State = StateAwaitingMissing
		return replyRetryTurn
	}
	claimID := store.NextClaimID(len(existing))
	amount, _ := f.validator.Amount(sess.Draft)
	record := store.Claim{
		ClaimID:          claimID,
		ClaimantName:     deref(sess.Draft.ClaimantName),
		PolicyNumber:     deref(sess.Draft.PolicyNumber),
		ClaimType:        deref(sess.Draft.ClaimType),
		IncidentDate:     deref(sess.Draft.IncidentDate),
		IncidentLocation: deref(sess.Draft.IncidentLocation),
		ClaimAmount:      amount,
		ServiceProvider:  deref(sess.Draft.ServiceProvider),
		LossDescription:  deref(sess.Draft.LossDescription),
		CreatedAt:        f.now(),
	}
	if err := f.claims.Append(ctx, record); err != nil {
		slog.Error("claim append failed", "session", sess.ID, "err", err)
		sess.State = StateAwaitingMissing
		return replyRetryTurn
	}
	sess.LastClaimID = claimID
	sess.State = StateDone
	slog.Info("claim filed", "session", sess.ID, "claim_id", claimID, "policy", record.PolicyNumber)
	return renderClaimFiled(sess.Draft, claimID)
}

func (f *Flow) handleClaimID(ctx context.Context, sess *Session, message string) string {
	id := strings.ToUpper(strings.TrimSpace(message))
	c, err := f.claims.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return renderClaimNotFound(strings.TrimSpace(message))
	}
	if err != nil {
		slog.Error("claim lookup failed", "session", sess.ID, "err", err)
		return replyRetryTurn
	}
	return renderClaimDetail(c)
}

func (f *Flow) handleTerminal(ctx context.Context, sess *Session, intent Intent) string {
	switch intent {
	case IntentNewClaim:
		sess.Reset()
		return replyGreeting
	case IntentMyClaims:
		if sess.PolicyNumber == "" {
			return replyTerminal
		}
		claims, err := f.claims.FindByPolicyNumber(ctx, sess.PolicyNumber)
		if err != nil {
			slog.Error("claims-by-policy lookup failed", "session", sess.ID, "err", err)
			return replyRetryTurn
		}
		return renderClaimsByPolicy(sess.PolicyNumber, claims)
	}
	return replyTerminal
}

func (f *Flow) sessionDefaults(sess *Session) extract.Defaults {
	d := extract.Defaults{PolicyNumber: sess.PolicyNumber}
	if sess.Policy != nil {
		d.ClaimantName = sess.Policy.Name
	}
	return d
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
