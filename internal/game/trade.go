package game

import (
	"context"
	"errors"

	"github.com/tradeoff/gameclient/internal/model"
)

// Errors
var (
	ErrNotLive      = errors.New("round is not live")
	ErrPositionOpen = errors.New("a position is already open")
	ErrNoPosition   = errors.New("no active position")
)

// Trader is the subset of the command client the engine needs for trade
// intents.
type Trader interface {
	OpenPosition(ctx context.Context, posType model.PositionType) (model.Position, error)
	ClosePosition(ctx context.Context) error
}

// OpenPosition opens a long or short position. Rejected locally when the
// round is not live or a position is already open. The entry price is
// server-determined, so state changes only on confirmation.
func (e *Engine) OpenPosition(ctx context.Context, posType model.PositionType) (model.Position, error) {
	e.mu.RLock()
	phase := e.state.Phase
	hasActive := e.state.ActivePosition != nil
	e.mu.RUnlock()

	if phase != model.PhaseLive {
		return model.Position{}, ErrNotLive
	}
	if hasActive {
		return model.Position{}, ErrPositionOpen
	}

	pos, err := e.trader.OpenPosition(ctx, posType)
	if err != nil {
		// State untouched; the typed command failure goes to the caller.
		return model.Position{}, err
	}

	e.mu.Lock()
	p := pos
	e.state.ActivePosition = &p
	e.signalLocked()
	e.mu.Unlock()

	return pos, nil
}

// ClosePosition closes the active position. Rejected locally when none is
// open. On confirmation the active position is cleared; realized totals and
// balance arrive via the next pnl_update push.
func (e *Engine) ClosePosition(ctx context.Context) error {
	e.mu.RLock()
	hasActive := e.state.ActivePosition != nil
	e.mu.RUnlock()

	if !hasActive {
		return ErrNoPosition
	}

	if err := e.trader.ClosePosition(ctx); err != nil {
		return err
	}

	e.mu.Lock()
	e.state.ActivePosition = nil
	e.signalLocked()
	e.mu.Unlock()

	return nil
}
