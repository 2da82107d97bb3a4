// Package game implements the State Reconciliation Engine: the sole owner of
// the mirrored round state.
//
// Server-pushed messages are applied through HandleMessage, one reducer per
// message type; each reducer replaces only the fields it names. Unrecognized
// types and malformed payloads are counted and logged, never fatal, because
// client and server versions drift during rollout. game_state_sync and
// new_round wholesale-replace the state, providing the recovery baseline
// after any gap in delivery.
//
// Trade intents (OpenPosition, ClosePosition) check the server's invariants
// locally before issuing a command and never mutate state optimistically:
// local state changes only on server confirmation.
package game
