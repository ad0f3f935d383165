package memory

import (
	"context"
	"sync"

	"github.com/mcoot/crazyroad-go/internal/model"
	"github.com/mcoot/crazyroad-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	accounts map[string]*model.Account
	rankings []*model.RankingRecord
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		accounts: make(map[string]*model.Account),
	}
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

func (s *Storage) LoadAccounts(ctx context.Context) (map[string]*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	accounts := make(map[string]*model.Account, len(s.accounts))
	for username, account := range s.accounts {
		copied := *account
		accounts[username] = &copied
	}
	return accounts, nil
}

func (s *Storage) SaveAccounts(ctx context.Context, accounts map[string]*model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = make(map[string]*model.Account, len(accounts))
	for username, account := range accounts {
		copied := *account
		s.accounts[username] = &copied
	}
	return nil
}

func (s *Storage) LoadRankings(ctx context.Context) ([]*model.RankingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]*model.RankingRecord, 0, len(s.rankings))
	for _, record := range s.rankings {
		copied := *record
		records = append(records, &copied)
	}
	return records, nil
}

func (s *Storage) SaveRankings(ctx context.Context, records []*model.RankingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rankings = make([]*model.RankingRecord, 0, len(records))
	for _, record := range records {
		copied := *record
		s.rankings = append(s.rankings, &copied)
	}
	return nil
}
