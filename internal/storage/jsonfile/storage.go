package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mcoot/crazyroad-go/internal/model"
	"github.com/mcoot/crazyroad-go/internal/storage"
)

// File names match the documents the game has always written.
const (
	accountsFile = "users.json"
	rankingsFile = "best-times.json"
)

// Storage persists the account and ranking documents as two JSON files in a
// data directory. Writes replace the whole file; there is no incremental
// format and no schema version field.
type Storage struct {
	accountsPath string
	rankingsPath string
}

// New creates a jsonfile storage rooted at dataDir, creating the directory if
// needed.
func New(dataDir string) (*Storage, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Storage{
		accountsPath: filepath.Join(dataDir, accountsFile),
		rankingsPath: filepath.Join(dataDir, rankingsFile),
	}, nil
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

func (s *Storage) LoadAccounts(ctx context.Context) (map[string]*model.Account, error) {
	accounts := make(map[string]*model.Account)

	data, err := os.ReadFile(s.accountsPath)
	if os.IsNotExist(err) {
		return accounts, nil
	}
	if err != nil {
		return accounts, fmt.Errorf("read accounts: %w", err)
	}

	if err := json.Unmarshal(data, &accounts); err != nil {
		return make(map[string]*model.Account), fmt.Errorf("parse accounts: %w", err)
	}
	return accounts, nil
}

func (s *Storage) SaveAccounts(ctx context.Context, accounts map[string]*model.Account) error {
	data, err := json.MarshalIndent(accounts, "", "  ")
	if err != nil {
		return fmt.Errorf("encode accounts: %w", err)
	}
	if err := os.WriteFile(s.accountsPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write accounts: %w", err)
	}
	return nil
}

func (s *Storage) LoadRankings(ctx context.Context) ([]*model.RankingRecord, error) {
	data, err := os.ReadFile(s.rankingsPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read rankings: %w", err)
	}

	records, err := decodeRankings(data)
	if err != nil {
		return nil, fmt.Errorf("parse rankings: %w", err)
	}
	return records, nil
}

func (s *Storage) SaveRankings(ctx context.Context, records []*model.RankingRecord) error {
	data, err := encodeRankings(records)
	if err != nil {
		return fmt.Errorf("encode rankings: %w", err)
	}
	if err := os.WriteFile(s.rankingsPath, data, 0o644); err != nil {
		return fmt.Errorf("write rankings: %w", err)
	}
	return nil
}

// encodeRankings writes the user-id-keyed mapping with keys in record order.
// encoding/json would sort map keys, losing the insertion order the
// leaderboard tie-break depends on.
func encodeRankings(records []*model.RankingRecord) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, r := range records {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  ")
		key, err := json.Marshal(string(r.UserID))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteString(": ")
		val, err := json.Marshal(r)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteString("\n}\n")
	return buf.Bytes(), nil
}

// decodeRankings reads the mapping in document key order.
func decodeRankings(data []byte) ([]*model.RankingRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var records []*model.RankingRecord
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %v", keyTok)
		}

		var record model.RankingRecord
		if err := dec.Decode(&record); err != nil {
			return nil, err
		}
		if record.UserID == "" {
			record.UserID = model.UserID(key)
		}
		records = append(records, &record)
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return records, nil
}
