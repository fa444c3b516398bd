// Package api exposes the stores over HTTP and streams change events
// to connected WebSocket clients.
//
// # Routing
//
// All routes live under /api. The health and login endpoints are open;
// everything else requires a bearer token issued by the auth service.
// CORS is applied at the outermost layer so browser clients on other
// origins can reach the API.
//
// # Status mapping
//
// Store semantics map onto HTTP statuses uniformly: a store that has
// not finished loading answers 503, rejected input answers 422, the
// status-floor refusal answers 409, and mutations that silently do
// nothing (a missing board, column, or card) answer 204 just like the
// ones that succeed.
//
// # Live updates
//
// The Hub fans out change events to subscribers after each successful
// mutation. The stream is outbound only; inbound frames are ignored.
// Slow subscribers are dropped rather than allowed to stall the rest.
package api
