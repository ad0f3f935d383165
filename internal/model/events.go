package model

// Event names on the real-time channel. Client-to-server events carry a
// request payload; server-to-client events are broadcast unless noted.
const (
	// Client -> server
	EventJoinGame    = "joinGame"
	EventPlayerMove  = "playerMove"
	EventChatMessage = "chatMessage"
	EventRestartGame = "restartGame"

	// Server -> client
	EventJoinResult         = "joinResult" // unicast ack for joinGame
	EventWorldConfig        = "worldConfig"
	EventCurrentPlayers     = "currentPlayers"
	EventNewPlayer          = "newPlayer"
	EventCarsUpdate         = "carsUpdate"
	EventCoinsUpdate        = "coinsUpdate"
	EventBestTimesUpdate    = "bestTimesUpdate"
	EventSkinTiersUpdate    = "skinTiersUpdate"
	EventScoreBoard         = "scoreBoard"
	EventPlayerMoved        = "playerMoved"
	EventPlayerHit          = "playerHit" // unicast to the victim
	EventGameOver           = "gameOver"
	EventGameRestarted      = "gameRestarted"
	EventPlayerDisconnected = "playerDisconnected"
)

// JoinRequest is the joinGame payload.
type JoinRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	AvatarData  string `json:"avatarData"`
}

// JoinResult acknowledges a joinGame request.
type JoinResult struct {
	OK          bool   `json:"ok"`
	UserID      UserID `json:"userId,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Error       string `json:"error,omitempty"`
}

// MoveRequest is the playerMove payload.
type MoveRequest struct {
	WorldX float64 `json:"worldX"`
	WorldY float64 `json:"worldY"`
}

// WorldConfig is sent once to each joining connection.
type WorldConfig struct {
	BlockHeight float64 `json:"blockHeight"`
	WorldHeight float64 `json:"worldHeight"`
	CheckpointY float64 `json:"checkpointY"`
}

// ChatMessage is broadcast for both player and system chat lines.
type ChatMessage struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Text string `json:"text"`
	Time int64  `json:"time"`
}

// PlayerPosition reports a player's authoritative position. Used for both
// playerMoved and playerHit events.
type PlayerPosition struct {
	ID     ConnID  `json:"id"`
	WorldX float64 `json:"worldX"`
	WorldY float64 `json:"worldY"`
}

// GameOver announces the winner of the current epoch.
type GameOver struct {
	WinnerID   ConnID           `json:"winnerId"`
	WinnerName string           `json:"winnerName"`
	Level      int              `json:"level"`
	Score      float64          `json:"score"`
	MaxLevel   int              `json:"maxLevel"`
	BestTimes  []*RankingRecord `json:"bestTimes"`
}

// GameRestarted announces an epoch restart.
type GameRestarted struct {
	Message string `json:"message"`
}
