package directory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestMemoryDirectoryLookupNormalizes(t *testing.T) {
	ctx := context.Background()
	dir := NewMemoryDirectory(&Policy{
		PolicyNumber: "POL2",
		Name:         "John Doe",
		PolicyType:   "auto",
		ValidTill:    "2030-01-01",
	})

	p, err := dir.Lookup(ctx, "  pol2 ")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if p.Name != "John Doe" {
		t.Errorf("name = %q", p.Name)
	}

	if _, err := dir.Lookup(ctx, "POL1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown policy should return ErrNotFound, got %v", err)
	}
}

func TestPolicyExpired(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	cases := []struct {
		validTill string
		want      bool
	}{
		{"2024-05-31", true},
		{"2024-06-01", false}, // expires end of today, still valid today
		{"2030-01-01", false},
		{"not a date", false},
	}
	for _, tc := range cases {
		p := &Policy{ValidTill: tc.validTill}
		if got := p.Expired(now); got != tc.want {
			t.Errorf("Expired(validTill=%q) = %v, want %v", tc.validTill, got, tc.want)
		}
	}
}

func TestFileDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policies.json")
	data := `[{"policy_number":"POL2","name":"John Doe","policy_type":"auto","valid_till":"2030-01-01","coverage_amount":50000}]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	dir, err := NewFileDirectory(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	p, err := dir.Lookup(context.Background(), "pol2")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if p.CoverageAmount != 50000 {
		t.Errorf("coverage = %v", p.CoverageAmount)
	}
}

func TestFileDirectoryMissingFile(t *testing.T) {
	if _, err := NewFileDirectory(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("missing file should error")
	}
}
