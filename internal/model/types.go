package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Identity & Credentials
// -----------------------------------------------------------------------------

// Identity is the authenticated player as reported by the server.
type Identity struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// Credential holds the token pair and identity for one authenticated session.
// A non-nil Identity always implies a non-empty AccessToken: both are set and
// cleared together.
type Credential struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	Identity     *Identity `json:"identity"`
}

// -----------------------------------------------------------------------------
// Connection
// -----------------------------------------------------------------------------

// ConnectionStatus is the lifecycle state of the push channel.
type ConnectionStatus string

const (
	StatusDisconnected ConnectionStatus = "disconnected"
	StatusConnecting   ConnectionStatus = "connecting"
	StatusConnected    ConnectionStatus = "connected"
	StatusError        ConnectionStatus = "error"
)

// -----------------------------------------------------------------------------
// Game & Trading State
// -----------------------------------------------------------------------------

// GamePhase is one segment of a round's lifecycle.
type GamePhase string

const (
	PhaseLobby  GamePhase = "lobby"
	PhaseLive   GamePhase = "live"
	PhaseClosed GamePhase = "closed"
)

// PositionType is the direction of a trade.
type PositionType string

const (
	PositionLong  PositionType = "long"
	PositionShort PositionType = "short"
)

// PricePoint is one bucket-aligned candle in the mirrored price series.
type PricePoint struct {
	Time   int64   `json:"time"` // Bucket timestamp (Unix seconds)
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Bucket returns the UTC calendar day this point belongs to.
func (p PricePoint) Bucket() time.Time {
	t := time.Unix(p.Time, 0).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Position is an open trade. At most one exists per player at any time.
type Position struct {
	Type          PositionType `json:"type"`
	EntryPrice    float64      `json:"entryPrice"`
	EntryTime     time.Time    `json:"entryTime"`
	Quantity      float64      `json:"quantity"`
	Pnl           float64      `json:"pnl"`
	PnlPercentage float64      `json:"pnlPercentage"`
}

// ClosedPosition is a settled trade. Immutable once created.
type ClosedPosition struct {
	Position
	ExitPrice float64   `json:"exitPrice"`
	ExitTime  time.Time `json:"exitTime"`
}

// RoundState is the full mirrored snapshot of one round. It is replaced
// wholesale on round transitions and patched incrementally otherwise.
type RoundState struct {
	RoundID            string           `json:"roundId"`
	PriceSeries        []PricePoint     `json:"priceSeries"`
	Phase              GamePhase        `json:"phase"`
	EndTime            time.Time        `json:"endTime"` // Expected next phase transition
	Balance            float64          `json:"balance"`
	ActivePosition     *Position        `json:"activePosition"`
	ClosedPositions    []ClosedPosition `json:"closedPositions"`
	TotalRealizedPnl   float64          `json:"totalRealizedPnl"`
	TotalUnrealizedPnl float64          `json:"totalUnrealizedPnl"`
	LongCount          int              `json:"longCount"`
	ShortCount         int              `json:"shortCount"`
	TotalPlayers       int              `json:"totalPlayers"`
}

// LeaderboardEntry is one row of the leaderboard snapshot. Ordering by
// balance is a presentation concern.
type LeaderboardEntry struct {
	PlayerID uuid.UUID `json:"playerId"`
	Username string    `json:"username"`
	Balance  float64   `json:"balance"`
}

// -----------------------------------------------------------------------------
// Push-Channel Protocol
// -----------------------------------------------------------------------------

// Message type constants pushed by the server.
const (
	MsgTypePriceUpdate       = "price_update"
	MsgTypePnlUpdate         = "pnl_update"
	MsgTypePhaseUpdate       = "phase_update"
	MsgTypeCountUpdate       = "count_update"
	MsgTypeGameStateSync     = "game_state_sync"
	MsgTypeNewRound          = "new_round"
	MsgTypeLeaderboardUpdate = "leaderboard_update"
)

// Envelope is the wire frame for every push-channel message.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// PriceUpdate carries one incoming tick. UpdateLast signals an in-place
// amendment of the series tail rather than a merge/append.
type PriceUpdate struct {
	PriceData  PricePoint `json:"priceData"`
	UpdateLast bool       `json:"updateLast"`
}

// PnlUpdate carries the player's running profit figures.
type PnlUpdate struct {
	Balance            float64 `json:"balance"`
	TotalRealizedPnl   float64 `json:"totalRealizedPnl"`
	TotalUnrealizedPnl float64 `json:"totalUnrealizedPnl"`
	PnlPercentage      float64 `json:"pnlPercentage"`
}

// PhaseUpdate announces a phase transition.
type PhaseUpdate struct {
	Phase   GamePhase `json:"phase"`
	EndTime string    `json:"endTime"` // ISO 8601 instant
}

// CountUpdate carries aggregate position counts across all players.
type CountUpdate struct {
	LongCount    int `json:"longCount"`
	ShortCount   int `json:"shortCount"`
	TotalPlayers int `json:"totalPlayers"`
}

// LeaderboardUpdate replaces the leaderboard snapshot.
type LeaderboardUpdate struct {
	Entries []LeaderboardEntry `json:"entries"`
}
