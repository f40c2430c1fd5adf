// Package directory provides keyed lookup from policy number to policy
// attributes. The directory is an external collaborator of the intake
// flow; the flow snapshots a policy at verification time and never
// re-validates it afterwards.
package directory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/claimdesk/claimflow/claim"
)

// ErrNotFound is returned when a policy number has no entry.
var ErrNotFound = errors.New("policy not found")

// Policy is a policy record as stored in the directory.
type Policy struct {
	PolicyNumber   string  `json:"policy_number"`
	Name           string  `json:"name"`
	PolicyType     string  `json:"policy_type"`
	ValidTill      string  `json:"valid_till"`
	CoverageAmount float64 `json:"coverage_amount,omitempty"`
}

// Expired reports whether the policy's validity window ended before
// the given time, at day granularity. An unparseable validity date is
// treated as not expired.
func (p *Policy) Expired(now time.Time) bool {
	end, ok := claim.ParseDate(p.ValidTill)
	if !ok {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return endDay.Before(today)
}

// Directory looks up policies by case-normalized policy number.
type Directory interface {
	Lookup(ctx context.Context, policyNumber string) (*Policy, error)
}

// NormalizeNumber upper-cases and trims a policy number key.
func NormalizeNumber(n string) string {
	return strings.ToUpper(strings.TrimSpace(n))
}

// MemoryDirectory is a map-backed directory for tests and seeding.
type MemoryDirectory struct {
	policies map[string]*Policy
}

func NewMemoryDirectory(policies ...*Policy) *MemoryDirectory {
	d := &MemoryDirectory{policies: make(map[string]*Policy, len(policies))}
	for _, p := range policies {
		d.policies[NormalizeNumber(p.PolicyNumber)] = p
	}
	return d
}

func (d *MemoryDirectory) Lookup(ctx context.Context, policyNumber string) (*Policy, error) {
	p, ok := d.policies[NormalizeNumber(policyNumber)]
	if !ok {
		return nil, ErrNotFound
	}
	out := *p
	return &out, nil
}

// FileDirectory serves lookups from a JSON file holding an array of
// policies, loaded once at construction.
type FileDirectory struct {
	mem *MemoryDirectory
}

func NewFileDirectory(path string) (*FileDirectory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy directory: %w", err)
	}
	var policies []*Policy
	if err := sonic.Unmarshal(data, &policies); err != nil {
		return nil, fmt.Errorf("decode policy directory: %w", err)
	}
	return &FileDirectory{mem: NewMemoryDirectory(policies...)}, nil
}

func (d *FileDirectory) Lookup(ctx context.Context, policyNumber string) (*Policy, error) {
	return d.mem.Lookup(ctx, policyNumber)
}
