// Package api implements the Command Client: a stateless request/response
// wrapper for the game server's HTTP commands (login, refresh, open-position,
// close-position).
//
// Rejected commands surface as *CommandError naming the operation and HTTP
// status. Auth calls retry transient failures with jittered backoff; trade
// intents never retry.
package api
