// Package auth checks the single demo credential and issues HS256
// session tokens.
//
// # Model
//
// The system is single-user: one email/password pair from the config,
// hashed with bcrypt at startup. A successful login returns a signed
// JWT whose subject is the configured user id, and Verify recovers
// that id from a presented token. The user id is what scopes the
// remote profile record; nothing else in the system is per-user.
//
// # Errors
//
// Login failures collapse to ErrInvalidCredentials so callers cannot
// distinguish a wrong email from a wrong password. Verify separates
// ErrExpiredToken from ErrInvalidToken so clients know when a fresh
// login would help.
package auth
