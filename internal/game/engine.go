package game

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/tradeoff/gameclient/internal/model"
)

// Engine is the State Reconciliation Engine. It exclusively owns the mirrored
// RoundState and the leaderboard cache; all other components read through
// Snapshot and Leaderboard.
type Engine struct {
	trader Trader
	logger *slog.Logger

	mu          sync.RWMutex
	state       model.RoundState
	leaderboard []model.LeaderboardEntry

	applied int64
	badData int64
	unknown int64

	notify chan struct{}
}

// EngineStats counts message-processing outcomes.
type EngineStats struct {
	Applied          int64 // Messages applied to state
	MalformedPayload int64 // Payloads that failed to decode
	UnknownTypes     int64 // Message types with no reducer
}

// NewEngine creates an engine with empty round state.
func NewEngine(trader Trader, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		trader: trader,
		logger: logger,
		state: model.RoundState{
			Phase: model.PhaseLobby,
		},
		notify: make(chan struct{}, 1),
	}
}

// HandleMessage applies one server-pushed message. Messages are applied in
// the order the transport delivers them; the caller (the connection manager's
// single read loop) never reorders or batches.
func (e *Engine) HandleMessage(env model.Envelope) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch env.Type {
	case model.MsgTypePriceUpdate:
		var pu model.PriceUpdate
		if !e.decode(env, &pu) {
			return
		}
		e.applyPriceUpdate(pu)

	case model.MsgTypePnlUpdate:
		var pu model.PnlUpdate
		if !e.decode(env, &pu) {
			return
		}
		e.state.Balance = pu.Balance
		e.state.TotalRealizedPnl = pu.TotalRealizedPnl
		e.state.TotalUnrealizedPnl = pu.TotalUnrealizedPnl
		if e.state.ActivePosition != nil {
			e.state.ActivePosition.Pnl = pu.TotalUnrealizedPnl
			e.state.ActivePosition.PnlPercentage = pu.PnlPercentage
		}

	case model.MsgTypePhaseUpdate:
		var pu model.PhaseUpdate
		if !e.decode(env, &pu) {
			return
		}
		endTime, err := time.Parse(time.RFC3339, pu.EndTime)
		if err != nil {
			e.dropMalformed(env.Type, err)
			return
		}
		e.state.Phase = pu.Phase
		e.state.EndTime = endTime

	case model.MsgTypeCountUpdate:
		var cu model.CountUpdate
		if !e.decode(env, &cu) {
			return
		}
		e.state.LongCount = cu.LongCount
		e.state.ShortCount = cu.ShortCount
		e.state.TotalPlayers = cu.TotalPlayers

	case model.MsgTypeGameStateSync, model.MsgTypeNewRound:
		var rs model.RoundState
		if !e.decode(env, &rs) {
			return
		}
		// Wholesale replace: the consistent baseline after any delivery gap
		// or round rollover. No merging with prior round data.
		e.state = rs

	case model.MsgTypeLeaderboardUpdate:
		var lu model.LeaderboardUpdate
		if !e.decode(env, &lu) {
			return
		}
		e.leaderboard = lu.Entries

	default:
		// Ignorable anomaly: server/client version skew is expected.
		e.unknown++
		e.logger.Warn("unrecognized message type", "type", env.Type)
		return
	}

	e.applied++
	e.signalLocked()
}

// applyPriceUpdate amends or extends the mirrored price series.
func (e *Engine) applyPriceUpdate(pu model.PriceUpdate) {
	if pu.UpdateLast && len(e.state.PriceSeries) > 0 {
		e.state.PriceSeries[len(e.state.PriceSeries)-1] = pu.PriceData
		return
	}
	e.state.PriceSeries = mergeTick(e.state.PriceSeries, pu.PriceData)
}

// decode unmarshals a payload, recording a malformed-payload anomaly on
// failure. Callers must hold e.mu.
func (e *Engine) decode(env model.Envelope, out any) bool {
	if err := json.Unmarshal(env.Data, out); err != nil {
		e.dropMalformed(env.Type, err)
		return false
	}
	return true
}

func (e *Engine) dropMalformed(msgType string, err error) {
	e.badData++
	e.logger.Warn("malformed payload dropped", "type", msgType, "error", err)
}

// Snapshot returns a deep copy of the mirrored round state.
func (e *Engine) Snapshot() model.RoundState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return copyState(e.state)
}

// Leaderboard returns a copy of the current leaderboard snapshot.
func (e *Engine) Leaderboard() []model.LeaderboardEntry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]model.LeaderboardEntry, len(e.leaderboard))
	copy(out, e.leaderboard)
	return out
}

// Subscribe returns a coalescing channel signaled after every state change.
// Consumers read a fresh Snapshot when signaled.
func (e *Engine) Subscribe() <-chan struct{} {
	return e.notify
}

// Stats returns message-processing counters.
func (e *Engine) Stats() EngineStats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return EngineStats{
		Applied:          e.applied,
		MalformedPayload: e.badData,
		UnknownTypes:     e.unknown,
	}
}

func (e *Engine) signalLocked() {
	select {
	case e.notify <- struct{}{}:
	default:
	}
}

func copyState(s model.RoundState) model.RoundState {
	out := s

	if s.PriceSeries != nil {
		out.PriceSeries = make([]model.PricePoint, len(s.PriceSeries))
		copy(out.PriceSeries, s.PriceSeries)
	}
	if s.ClosedPositions != nil {
		out.ClosedPositions = make([]model.ClosedPosition, len(s.ClosedPositions))
		copy(out.ClosedPositions, s.ClosedPositions)
	}
	if s.ActivePosition != nil {
		pos := *s.ActivePosition
		out.ActivePosition = &pos
	}

	return out
}
