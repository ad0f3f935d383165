package auth

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/crazyroad-go/internal/dependencies/clock"
	"github.com/mcoot/crazyroad-go/internal/model"
	"github.com/mcoot/crazyroad-go/internal/storage"
)

// MaxDisplayNameLen caps display names at registration time.
const MaxDisplayNameLen = 16

// DefaultDisplayName is used when neither a display name nor a username
// survives trimming.
const DefaultDisplayName = "Jugador"

// Service owns the account store: it verifies credentials on join and
// registers accounts on first sight of a username. Accounts are held in
// memory and written through to storage after every registration.
//
// Not safe for concurrent use; the game controller serializes all access.
type Service struct {
	store  storage.Store
	clock  clock.Clock
	logger *slog.Logger

	accounts map[string]*model.Account
}

// New creates a new auth service with an empty account map. Call Load before
// serving traffic.
func New(store storage.Store, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		clock:    clk,
		logger:   logger.With(slog.String("component", "auth")),
		accounts: make(map[string]*model.Account),
	}
}

// Load reads the persisted account document. A read failure leaves the
// service running on an empty map.
func (s *Service) Load(ctx context.Context) {
	accounts, err := s.store.LoadAccounts(ctx)
	if err != nil {
		s.logger.Error("failed to load accounts, starting empty",
			slog.String("error", err.Error()))
	}
	s.accounts = accounts
	s.logger.Info("accounts loaded", slog.Int("count", len(s.accounts)))
}

// NormalizeUsername lowercases and trims a username for use as the account key.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Authenticate verifies credentials for an existing account or registers a
// new one. It returns the user id and the fixed display name on success.
// Registration persists the account document; a write failure is logged and
// the in-memory registration kept.
func (s *Service) Authenticate(ctx context.Context, username, password, displayName string) (model.UserID, string, error) {
	normUser := NormalizeUsername(username)
	pwd := strings.TrimSpace(password)

	if normUser == "" || pwd == "" {
		return "", "", model.ErrMissingCredentials
	}

	if existing, ok := s.accounts[normUser]; ok {
		if err := bcrypt.CompareHashAndPassword([]byte(existing.PasswordHash), []byte(pwd)); err != nil {
			s.logger.Info("failed login attempt", slog.String("username", normUser))
			return "", "", model.ErrWrongPassword
		}
		// The display name stays fixed at whatever registration stored.
		return model.UserID(normUser), existing.DisplayName, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}

	account := &model.Account{
		PasswordHash: string(hash),
		DisplayName:  resolveDisplayName(displayName, normUser),
		CreatedAt:    s.clock.Now().UnixMilli(),
	}
	s.accounts[normUser] = account

	if err := s.store.SaveAccounts(ctx, s.accounts); err != nil {
		s.logger.Error("failed to persist accounts",
			slog.String("username", normUser),
			slog.String("error", err.Error()))
	}

	s.logger.Info("new user registered", slog.String("username", normUser))
	return model.UserID(normUser), account.DisplayName, nil
}

// AccountCount returns the number of registered accounts.
func (s *Service) AccountCount() int {
	return len(s.accounts)
}

// resolveDisplayName picks the display name for a new account: the provided
// name, falling back to the normalized username, then a generic default,
// trimmed and truncated.
func resolveDisplayName(displayName, normUser string) string {
	name := strings.TrimSpace(displayName)
	if name == "" {
		name = normUser
	}
	if name == "" {
		name = DefaultDisplayName
	}
	runes := []rune(name)
	if len(runes) > MaxDisplayNameLen {
		name = string(runes[:MaxDisplayNameLen])
	}
	return name
}
