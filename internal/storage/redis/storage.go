package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/crazyroad-go/internal/model"
	"github.com/mcoot/crazyroad-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface. The two
// documents are stored whole under fixed keys; rankings are kept as a JSON
// array so that record order survives the round trip.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

func (s *Storage) accountsKey() string {
	return s.cfg.KeyPrefix + ":users"
}

func (s *Storage) rankingsKey() string {
	return s.cfg.KeyPrefix + ":best-times"
}

func (s *Storage) LoadAccounts(ctx context.Context) (map[string]*model.Account, error) {
	accounts := make(map[string]*model.Account)

	data, err := s.client.Get(ctx, s.accountsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return accounts, nil
		}
		return accounts, err
	}

	if err := json.Unmarshal(data, &accounts); err != nil {
		return make(map[string]*model.Account), err
	}
	return accounts, nil
}

func (s *Storage) SaveAccounts(ctx context.Context, accounts map[string]*model.Account) error {
	data, err := json.Marshal(accounts)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.accountsKey(), data, 0).Err()
}

func (s *Storage) LoadRankings(ctx context.Context) ([]*model.RankingRecord, error) {
	data, err := s.client.Get(ctx, s.rankingsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var records []*model.RankingRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Storage) SaveRankings(ctx context.Context, records []*model.RankingRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.rankingsKey(), data, 0).Err()
}
