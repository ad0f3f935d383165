package storage

import (
	"context"

	"github.com/mcoot/crazyroad-go/internal/model"
)

// Store defines the interface for the two persisted documents: the
// username-keyed account mapping and the user-id-keyed ranking mapping.
// Each document is read once at startup and rewritten wholesale after every
// mutation.
//
// LoadRankings returns records in document order; SaveRankings must preserve
// the given order so that leaderboard tie-breaks survive a process restart.
type Store interface {
	LoadAccounts(ctx context.Context) (map[string]*model.Account, error)
	SaveAccounts(ctx context.Context, accounts map[string]*model.Account) error

	LoadRankings(ctx context.Context) ([]*model.RankingRecord, error)
	SaveRankings(ctx context.Context, records []*model.RankingRecord) error
}
