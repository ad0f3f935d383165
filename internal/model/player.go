package model

// UserID uniquely identifies a registered account. It is the normalized
// (lowercased, trimmed) username.
type UserID string

// ConnID identifies a single live connection. A user joining twice holds two
// distinct ConnIDs.
type ConnID string

// SystemSenderID tags chat messages emitted by the server itself.
const SystemSenderID = "system"

// SystemSenderName is the display name for server-emitted chat messages.
const SystemSenderName = "Sistema"

// Player is the session-scoped state for one connected participant.
// Timestamps are unix milliseconds to match the wire and persistence formats.
type Player struct {
	ID         ConnID  `json:"id"`
	UserID     UserID  `json:"userId"`
	Name       string  `json:"name"`
	AvatarData string  `json:"avatarData"`
	WorldX     float64 `json:"worldX"`
	WorldY     float64 `json:"worldY"`
	Score      float64 `json:"score"`
	Level      int     `json:"level"`
	JoinTime   int64   `json:"joinTime"`
}

// Account is a registered credential record, keyed by normalized username.
// The display name is fixed at registration.
type Account struct {
	PasswordHash string `json:"passwordHash"`
	DisplayName  string `json:"displayName"`
	CreatedAt    int64  `json:"createdAt"`
}

// RankingRecord is a user's persistent best-run record. BestTimeMs only ever
// decreases; Wins only ever increases.
type RankingRecord struct {
	UserID     UserID `json:"userId"`
	Name       string `json:"name"`
	BestTimeMs int64  `json:"bestTimeMs"`
	BestTimeAt int64  `json:"bestTimeAt"`
	Wins       int    `json:"wins"`
}

// ScoreEntry is one row of the live score board. Score is rounded to two
// decimals for display; internal scores stay unrounded.
type ScoreEntry struct {
	ID    ConnID  `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
	Level int     `json:"level"`
}
