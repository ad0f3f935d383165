package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/crazyroad-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) TestAccountsRoundTrip() {
	accounts := map[string]*model.Account{
		"alice": {PasswordHash: "hash-a", DisplayName: "Alice", CreatedAt: 1000},
	}
	s.Require().NoError(s.storage.SaveAccounts(s.ctx, accounts))

	loaded, err := s.storage.LoadAccounts(s.ctx)
	s.Require().NoError(err)
	s.Equal(accounts, loaded)
}

func (s *StorageSuite) TestLoadAccountsEmpty() {
	loaded, err := s.storage.LoadAccounts(s.ctx)
	s.Require().NoError(err)
	s.Empty(loaded)
}

func (s *StorageSuite) TestAccountsAreCopied() {
	accounts := map[string]*model.Account{
		"alice": {PasswordHash: "original"},
	}
	s.Require().NoError(s.storage.SaveAccounts(s.ctx, accounts))

	// Mutating either side must not leak into the stored copy.
	accounts["alice"].PasswordHash = "mutated"
	loaded, err := s.storage.LoadAccounts(s.ctx)
	s.Require().NoError(err)
	s.Equal("original", loaded["alice"].PasswordHash)

	loaded["alice"].PasswordHash = "mutated-again"
	reloaded, err := s.storage.LoadAccounts(s.ctx)
	s.Require().NoError(err)
	s.Equal("original", reloaded["alice"].PasswordHash)
}

func (s *StorageSuite) TestRankingsRoundTripKeepsOrder() {
	records := []*model.RankingRecord{
		{UserID: "bob", BestTimeMs: 300},
		{UserID: "alice", BestTimeMs: 300},
		{UserID: "cleo", BestTimeMs: 900},
	}
	s.Require().NoError(s.storage.SaveRankings(s.ctx, records))

	loaded, err := s.storage.LoadRankings(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(loaded, 3)
	s.Equal(model.UserID("bob"), loaded[0].UserID)
	s.Equal(model.UserID("alice"), loaded[1].UserID)
	s.Equal(model.UserID("cleo"), loaded[2].UserID)
}

func (s *StorageSuite) TestRankingsAreCopied() {
	records := []*model.RankingRecord{{UserID: "alice", BestTimeMs: 500}}
	s.Require().NoError(s.storage.SaveRankings(s.ctx, records))

	records[0].BestTimeMs = 1
	loaded, err := s.storage.LoadRankings(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(500), loaded[0].BestTimeMs)
}

func (s *StorageSuite) TestLoadRankingsEmpty() {
	loaded, err := s.storage.LoadRankings(s.ctx)
	s.Require().NoError(err)
	s.Empty(loaded)
}
