package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/crazyroad-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	dir     string
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.dir = s.T().TempDir()

	storage, err := New(s.dir)
	s.Require().NoError(err)
	s.storage = storage
	s.ctx = context.Background()
}

func (s *StorageSuite) TestNewCreatesDataDir() {
	nested := filepath.Join(s.dir, "a", "b")
	_, err := New(nested)
	s.Require().NoError(err)

	info, err := os.Stat(nested)
	s.Require().NoError(err)
	s.True(info.IsDir())
}

// Account tests

func (s *StorageSuite) TestAccountsRoundTrip() {
	accounts := map[string]*model.Account{
		"alice": {PasswordHash: "hash-a", DisplayName: "Alice", CreatedAt: 1000},
		"bob":   {PasswordHash: "hash-b", DisplayName: "Bob", CreatedAt: 2000},
	}

	s.Require().NoError(s.storage.SaveAccounts(s.ctx, accounts))

	loaded, err := s.storage.LoadAccounts(s.ctx)
	s.Require().NoError(err)
	s.Equal(accounts, loaded)
}

func (s *StorageSuite) TestLoadAccountsMissingFileIsEmpty() {
	loaded, err := s.storage.LoadAccounts(s.ctx)
	s.Require().NoError(err)
	s.Empty(loaded)
}

func (s *StorageSuite) TestLoadAccountsCorruptFileReturnsErrorAndEmptyMap() {
	path := filepath.Join(s.dir, "users.json")
	s.Require().NoError(os.WriteFile(path, []byte("{not json"), 0o644))

	loaded, err := s.storage.LoadAccounts(s.ctx)
	s.Error(err)
	s.NotNil(loaded)
	s.Empty(loaded)
}

func (s *StorageSuite) TestSaveAccountsOverwritesWholeDocument() {
	s.Require().NoError(s.storage.SaveAccounts(s.ctx, map[string]*model.Account{
		"alice": {PasswordHash: "h"},
		"bob":   {PasswordHash: "h"},
	}))
	s.Require().NoError(s.storage.SaveAccounts(s.ctx, map[string]*model.Account{
		"cleo": {PasswordHash: "h"},
	}))

	loaded, err := s.storage.LoadAccounts(s.ctx)
	s.Require().NoError(err)
	s.Len(loaded, 1)
	s.Contains(loaded, "cleo")
}

// Ranking tests

func (s *StorageSuite) TestRankingsRoundTripKeepsOrder() {
	records := []*model.RankingRecord{
		{UserID: "bob", Name: "Bob", BestTimeMs: 300, BestTimeAt: 10, Wins: 2},
		{UserID: "alice", Name: "Alice", BestTimeMs: 300, BestTimeAt: 20, Wins: 1},
		{UserID: "cleo", Name: "Cleo", BestTimeMs: 900, BestTimeAt: 30, Wins: 1},
	}

	s.Require().NoError(s.storage.SaveRankings(s.ctx, records))

	loaded, err := s.storage.LoadRankings(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(loaded, 3)
	// Document key order, not alphabetical order.
	s.Equal(model.UserID("bob"), loaded[0].UserID)
	s.Equal(model.UserID("alice"), loaded[1].UserID)
	s.Equal(model.UserID("cleo"), loaded[2].UserID)
	s.Equal(records[0], loaded[0])
}

func (s *StorageSuite) TestLoadRankingsMissingFileIsEmpty() {
	loaded, err := s.storage.LoadRankings(s.ctx)
	s.Require().NoError(err)
	s.Empty(loaded)
}

func (s *StorageSuite) TestSaveRankingsEmpty() {
	s.Require().NoError(s.storage.SaveRankings(s.ctx, nil))

	loaded, err := s.storage.LoadRankings(s.ctx)
	s.Require().NoError(err)
	s.Empty(loaded)
}

func (s *StorageSuite) TestLoadRankingsFillsUserIDFromKey() {
	path := filepath.Join(s.dir, "best-times.json")
	doc := `{"alice": {"name": "Alice", "bestTimeMs": 500, "bestTimeAt": 10, "wins": 1}}`
	s.Require().NoError(os.WriteFile(path, []byte(doc), 0o644))

	loaded, err := s.storage.LoadRankings(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(loaded, 1)
	s.Equal(model.UserID("alice"), loaded[0].UserID)
	s.Equal(int64(500), loaded[0].BestTimeMs)
}
