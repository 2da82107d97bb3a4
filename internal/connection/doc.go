// Package connection implements the push-channel client and the Connection
// Manager.
//
// The Connection Manager:
//   - Owns exactly one channel instance and its lifecycle status
//     (disconnected → connecting → connected, error from either)
//   - Resolves a credential before dialing, refreshing it when expired
//   - Parses inbound JSON frames and forwards them to the reconciliation
//     engine, dropping unparseable frames
//   - Optionally keeps the channel alive with exponential-backoff reconnects
package connection
