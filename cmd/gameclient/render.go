package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/tradeoff/gameclient/internal/connection"
	"github.com/tradeoff/gameclient/internal/game"
	"github.com/tradeoff/gameclient/internal/model"
)

// renderLoop redraws the round view whenever the engine signals an update,
// plus once a second for the countdown. Returns when ctx is done.
func renderLoop(ctx context.Context, engine *game.Engine, mgr *connection.Manager) {
	updates := engine.Subscribe()
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			render(engine, mgr)
		case <-ticker.C:
			render(engine, mgr)
		}
	}
}

func render(engine *game.Engine, mgr *connection.Manager) {
	state := engine.Snapshot()

	fmt.Printf("\n[%s] round=%s phase=%s balance=%.2f pnl=%.2f/%.2f players=%d (L:%d S:%d)\n",
		mgr.Status(), state.RoundID, state.Phase,
		state.Balance, state.TotalUnrealizedPnl, state.TotalRealizedPnl,
		state.TotalPlayers, state.LongCount, state.ShortCount,
	)

	if state.Phase == model.PhaseLive && !state.EndTime.IsZero() {
		remaining := time.Until(state.EndTime).Truncate(time.Second)
		if remaining < 0 {
			remaining = 0
		}
		fmt.Printf("  ends in %s\n", remaining)
	}

	if n := len(state.PriceSeries); n > 0 {
		last := state.PriceSeries[n-1]
		fmt.Printf("  price O:%.2f H:%.2f L:%.2f C:%.2f V:%.0f (%d candles)\n",
			last.Open, last.High, last.Low, last.Close, last.Volume, n)
	}

	if pos := state.ActivePosition; pos != nil {
		fmt.Printf("  position %s entry=%.2f qty=%.2f pnl=%.2f (%.2f%%)\n",
			pos.Type, pos.EntryPrice, pos.Quantity, pos.Pnl, pos.PnlPercentage)
	}

	if state.Phase == model.PhaseClosed {
		printLeaderboard(engine.Leaderboard())
	}
}

func printLeaderboard(entries []model.LeaderboardEntry) {
	if len(entries) == 0 {
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("#", "Player", "Balance")
	for i, entry := range entries {
		table.Append(
			fmt.Sprintf("%d", i+1),
			entry.Username,
			fmt.Sprintf("%.2f", entry.Balance),
		)
	}
	table.Render()
}
