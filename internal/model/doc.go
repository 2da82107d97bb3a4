// Package model defines shared data types used across the game client.
//
// Conventions:
//   - Prices / balances: float64 in game currency
//   - Candle timestamps: int64 Unix seconds, aligned to the bucket start
//   - Instants (entry/exit/end times): time.Time, ISO 8601 on the wire
//   - Player IDs: uuid.UUID
package model
