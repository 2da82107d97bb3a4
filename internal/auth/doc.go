// Package auth implements the Credential Store: the single owner of the
// access token, refresh token, and authenticated identity.
//
// The store answers expiry queries by decoding the access token's exp claim
// locally, performs the refresh exchange through the command client, and
// persists the credential under a single named keychain record so sessions
// survive restarts. All failures fail closed: the credential is cleared in
// full, never partially.
package auth
