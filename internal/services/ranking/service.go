package ranking

import (
	"context"
	"log/slog"
	"sort"

	"github.com/mcoot/crazyroad-go/internal/dependencies/clock"
	"github.com/mcoot/crazyroad-go/internal/model"
	"github.com/mcoot/crazyroad-go/internal/storage"
)

// LeaderboardSize is the number of entries exposed on the leaderboard.
const LeaderboardSize = 10

// TierCount is how many leaderboard ranks receive a crown tier.
const TierCount = 4

// Service owns the persistent best-time records. Records keep their creation
// order so equal times rank by who set the time first; the stable sort in
// Leaderboard relies on that.
//
// Not safe for concurrent use; the game controller serializes all access.
type Service struct {
	store  storage.Store
	clock  clock.Clock
	logger *slog.Logger

	records []*model.RankingRecord
	index   map[model.UserID]*model.RankingRecord
}

// New creates a ranking service with no records. Call Load before serving
// traffic.
func New(store storage.Store, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		clock:  clk,
		logger: logger.With(slog.String("component", "ranking")),
		index:  make(map[model.UserID]*model.RankingRecord),
	}
}

// Load reads the persisted ranking document. A read failure leaves the
// service running with no records.
func (s *Service) Load(ctx context.Context) {
	records, err := s.store.LoadRankings(ctx)
	if err != nil {
		s.logger.Error("failed to load rankings, starting empty",
			slog.String("error", err.Error()))
		records = nil
	}
	s.records = records
	s.index = make(map[model.UserID]*model.RankingRecord, len(records))
	for _, record := range records {
		s.index[record.UserID] = record
	}
	s.logger.Info("rankings loaded", slog.Int("count", len(s.records)))
}

// RegisterWin records a completed run for the player. A strictly better time
// replaces the stored time and timestamp; any win increments the win counter.
// The full ranking document is persisted afterward; a write failure is logged
// and the in-memory mutation kept.
func (s *Service) RegisterWin(ctx context.Context, player *model.Player) {
	now := s.clock.Now().UnixMilli()
	joinTime := player.JoinTime
	if joinTime == 0 {
		joinTime = now
	}
	runTimeMs := now - joinTime

	userID := player.UserID
	if userID == "" {
		userID = model.UserID(player.ID)
	}

	existing := s.index[userID]
	switch {
	case existing == nil:
		record := &model.RankingRecord{
			UserID:     userID,
			Name:       player.Name,
			BestTimeMs: runTimeMs,
			BestTimeAt: now,
			Wins:       1,
		}
		s.records = append(s.records, record)
		s.index[userID] = record
	case runTimeMs < existing.BestTimeMs:
		existing.Name = player.Name
		existing.BestTimeMs = runTimeMs
		existing.BestTimeAt = now
		existing.Wins++
	default:
		existing.Wins++
	}

	if err := s.store.SaveRankings(ctx, s.records); err != nil {
		s.logger.Error("failed to persist rankings",
			slog.String("user_id", string(userID)),
			slog.String("error", err.Error()))
	}

	s.logger.Info("win registered",
		slog.String("user_id", string(userID)),
		slog.Int64("run_time_ms", runTimeMs))
}

// Leaderboard returns up to LeaderboardSize records sorted ascending by best
// time. Ties keep record creation order. The returned records are copies.
func (s *Service) Leaderboard() []*model.RankingRecord {
	list := make([]*model.RankingRecord, 0, len(s.records))
	for _, record := range s.records {
		copied := *record
		list = append(list, &copied)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].BestTimeMs < list[j].BestTimeMs
	})
	if len(list) > LeaderboardSize {
		list = list[:LeaderboardSize]
	}
	return list
}

// TierMap assigns crown tiers 1..TierCount to the top leaderboard ranks.
// Users outside the top ranks are absent from the map (tier 0, no crown).
func (s *Service) TierMap() map[model.UserID]int {
	tiers := make(map[model.UserID]int)
	for i, entry := range s.Leaderboard() {
		pos := i + 1
		if pos > TierCount {
			break
		}
		if entry.UserID == "" {
			continue
		}
		tiers[entry.UserID] = pos
	}
	return tiers
}
