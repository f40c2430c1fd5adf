// Package store persists completed claims. The collection is
// append-only and queryable by claim ID and by policy number.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// ErrNotFound is returned when no claim matches the given ID.
var ErrNotFound = errors.New("claim not found")

// Claim is a persisted claim record, immutable once written.
type Claim struct {
	ClaimID          string    `json:"claim_id"`
	ClaimantName     string    `json:"claimant_name"`
	PolicyNumber     string    `json:"policy_number"`
	ClaimType        string    `json:"claim_type"`
	IncidentDate     string    `json:"incident_date"`
	IncidentLocation string    `json:"incident_location"`
	ClaimAmount      float64   `json:"claim_amount"`
	ServiceProvider  string    `json:"service_provider"`
	LossDescription  string    `json:"description_of_loss"`
	CreatedAt        time.Time `json:"created_at"`
}

// Store is the claim collection contract.
type Store interface {
	Load(ctx context.Context) ([]Claim, error)
	Append(ctx context.Context, c Claim) error
	FindByID(ctx context.Context, id string) (*Claim, error)
	FindByPolicyNumber(ctx context.Context, policyNumber string) ([]Claim, error)
}

// NextClaimID derives a sequential claim ID from the current persisted
// claim count. Two sessions completing at the same moment can observe
// the same count and mint the same ID; that collision is a documented
// limitation, not a guarantee this function can repair.
func NextClaimID(count int) string {
	return fmt.Sprintf("CLM-%d", 1000+count)
}

// MemoryStore is an in-memory claim collection for tests.
type MemoryStore struct {
	mu     sync.RWMutex
	claims []Claim
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) ([]Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Claim, len(s.claims))
	copy(out, s.claims)
	return out, nil
}

func (s *MemoryStore) Append(ctx context.Context, c Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claims = append(s.claims, c)
	return nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id string) (*Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findByID(s.claims, id)
}

func (s *MemoryStore) FindByPolicyNumber(ctx context.Context, policyNumber string) ([]Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findByPolicyNumber(s.claims, policyNumber), nil
}

func findByID(claims []Claim, id string) (*Claim, error) {
	want := strings.ToUpper(strings.TrimSpace(id))
	for i := range claims {
		if strings.ToUpper(claims[i].ClaimID) == want {
			out := claims[i]
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func findByPolicyNumber(claims []Claim, policyNumber string) []Claim {
	want := strings.ToUpper(strings.TrimSpace(policyNumber))
	var out []Claim
	for i := range claims {
		if strings.ToUpper(claims[i].PolicyNumber) == want {
			out = append(out, claims[i])
		}
	}
	return out
}
