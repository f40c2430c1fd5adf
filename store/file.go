package store

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/bytedance/sonic"
)

// FileStore keeps the whole collection in one JSON file. Every append
// loads the entire array, appends, and rewrites the file. The
// read-modify-write cycle is guarded against other goroutines in this
// process but NOT against concurrent writer processes: two of those can
// observe the same count and lose an append. Known limitation.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(ctx context.Context) ([]Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileStore) load() ([]Claim, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read claim store: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var claims []Claim
	if err := sonic.Unmarshal(data, &claims); err != nil {
		return nil, fmt.Errorf("decode claim store: %w", err)
	}
	return claims, nil
}

func (s *FileStore) Append(ctx context.Context, c Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	claims, err := s.load()
	if err != nil {
		return err
	}
	claims = append(claims, c)
	data, err := sonic.MarshalIndent(claims, "", "  ")
	if err != nil {
		return fmt.Errorf("encode claim store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write claim store: %w", err)
	}
	return nil
}

func (s *FileStore) FindByID(ctx context.Context, id string) (*Claim, error) {
	claims, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return findByID(claims, id)
}

func (s *FileStore) FindByPolicyNumber(ctx context.Context, policyNumber string) ([]Claim, error) {
	claims, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return findByPolicyNumber(claims, policyNumber), nil
}
