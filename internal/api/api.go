// ABOUTME: HTTP API server wiring routes, CORS, auth middleware, and JSON helpers
// ABOUTME: Maps store semantics onto status codes (not-ready, validation, no-op)

package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"github.com/Lz027/palette/internal/auth"
	"github.com/Lz027/palette/internal/boards"
	"github.com/Lz027/palette/internal/features"
	"github.com/Lz027/palette/internal/focus"
	"github.com/Lz027/palette/internal/remote"
)

// Server exposes the stores over HTTP and pushes change events to
// WebSocket clients.
type Server struct {
	boards   *boards.Store
	focus    *focus.Store
	notes    *features.NoteStore
	snippets *features.SnippetStore
	statuses *features.StatusStore
	auth     *auth.Service
	remote   *remote.Client
	hub      *Hub
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// Deps collects the stores and collaborators the server operates on.
type Deps struct {
	Boards   *boards.Store
	Focus    *focus.Store
	Notes    *features.NoteStore
	Snippets *features.SnippetStore
	Statuses *features.StatusStore
	Auth     *auth.Service
	Remote   *remote.Client
	Hub      *Hub
}

// New creates an API server over the given dependencies.
func New(deps Deps) *Server {
	return &Server{
		boards:   deps.Boards,
		focus:    deps.Focus,
		notes:    deps.Notes,
		snippets: deps.Snippets,
		statuses: deps.Statuses,
		auth:     deps.Auth,
		remote:   deps.Remote,
		hub:      deps.Hub,
		logger:   slog.Default().With("component", "api"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Router builds the HTTP handler, including CORS for the given origins.
func (s *Server) Router(allowedOrigins []string) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/health", s.handleHealth).Methods("GET")
	r.HandleFunc("/api/auth/login", s.handleLogin).Methods("POST")

	authed := r.PathPrefix("/api").Subrouter()
	authed.Use(s.requireAuth)

	authed.HandleFunc("/boards", s.handleBoardsList).Methods("GET")
	authed.HandleFunc("/boards", s.handleBoardCreate).Methods("POST")
	authed.HandleFunc("/boards/{id}", s.handleBoardGet).Methods("GET")
	authed.HandleFunc("/boards/{id}", s.handleBoardUpdate).Methods("PATCH")
	authed.HandleFunc("/boards/{id}", s.handleBoardDelete).Methods("DELETE")
	authed.HandleFunc("/boards/{id}/favorite", s.handleBoardFavorite).Methods("POST")
	authed.HandleFunc("/boards/{id}/columns", s.handleColumnCreate).Methods("POST")
	authed.HandleFunc("/boards/{id}/columns/{columnId}", s.handleColumnUpdate).Methods("PATCH")
	authed.HandleFunc("/boards/{id}/columns/{columnId}", s.handleColumnDelete).Methods("DELETE")
	authed.HandleFunc("/boards/{id}/columns/{columnId}/cards", s.handleCardCreate).Methods("POST")
	authed.HandleFunc("/boards/{id}/columns/{columnId}/cards/{cardId}", s.handleCardUpdate).Methods("PATCH")
	authed.HandleFunc("/boards/{id}/columns/{columnId}/cards/{cardId}", s.handleCardDelete).Methods("DELETE")
	authed.HandleFunc("/boards/{id}/cards/{cardId}/move", s.handleCardMove).Methods("POST")

	authed.HandleFunc("/notes", s.handleNotesList).Methods("GET")
	authed.HandleFunc("/notes", s.handleNoteCreate).Methods("POST")
	authed.HandleFunc("/notes/{id}", s.handleNoteUpdate).Methods("PATCH")
	authed.HandleFunc("/notes/{id}", s.handleNoteDelete).Methods("DELETE")

	authed.HandleFunc("/snippets", s.handleSnippetsList).Methods("GET")
	authed.HandleFunc("/snippets", s.handleSnippetCreate).Methods("POST")
	authed.HandleFunc("/snippets/{id}", s.handleSnippetUpdate).Methods("PATCH")
	authed.HandleFunc("/snippets/{id}", s.handleSnippetDelete).Methods("DELETE")

	authed.HandleFunc("/statuses", s.handleStatusesList).Methods("GET")
	authed.HandleFunc("/statuses", s.handleStatusCreate).Methods("POST")
	authed.HandleFunc("/statuses/{id}", s.handleStatusDelete).Methods("DELETE")
	authed.HandleFunc("/statuses/{id}/select", s.handleStatusSelect).Methods("POST")

	authed.HandleFunc("/focus", s.handleFocusGet).Methods("GET")
	authed.HandleFunc("/focus", s.handleFocusSet).Methods("POST")
	authed.HandleFunc("/focus/commit", s.handleFocusCommit).Methods("POST")

	authed.HandleFunc("/profile", s.handleProfileGet).Methods("GET")
	authed.HandleFunc("/profile", s.handleProfilePut).Methods("PUT")
	authed.HandleFunc("/profile/images/{kind}", s.handleImageUpload).Methods("POST")
	authed.HandleFunc("/files", s.handleFileUpload).Methods("POST")

	authed.HandleFunc("/markdown/preview", s.handleMarkdownPreview).Methods("POST")

	authed.HandleFunc("/ws", s.handleWS)

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}

type contextKey string

const userIDKey contextKey = "userID"

// requireAuth verifies the bearer token and rejects the request when it
// is missing or invalid. The verified user id is stored on the request
// context for handlers that need it.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			s.writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		userID, err := s.auth.Verify(token)
		if err != nil {
			s.writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userID returns the authenticated user id placed on the context by
// requireAuth.
func userID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

// bearerToken extracts the token from the Authorization header, falling
// back to the "token" query parameter for WebSocket upgrades where
// browsers cannot set headers.
func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return r.URL.Query().Get("token")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"boardsReady": s.boards.Ready(),
	})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	c := &client{hub: s.hub, conn: conn, send: make(chan []byte, 16)}
	if !s.hub.add(c) {
		_ = conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}

// respond writes a JSON body with the given status.
func (s *Server) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			s.logger.Warn("encoding response failed", "error", err)
		}
	}
}

// writeError writes a JSON error body.
func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.respond(w, status, map[string]string{"error": msg})
}

// storeError maps store errors onto HTTP statuses: not-ready is 503,
// rejected input is 422, the status floor is 409. Anything else is an
// internal error.
func (s *Server) storeError(w http.ResponseWriter, err error) {
	var bverr *boards.ValidationError
	var fverr *features.ValidationError
	switch {
	case errors.Is(err, boards.ErrNotReady), errors.Is(err, features.ErrNotReady):
		s.writeError(w, http.StatusServiceUnavailable, "store is still loading")
	case errors.As(err, &bverr):
		s.writeError(w, http.StatusUnprocessableEntity, bverr.Error())
	case errors.As(err, &fverr):
		s.writeError(w, http.StatusUnprocessableEntity, fverr.Error())
	case errors.Is(err, features.ErrLastStatus):
		s.writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Error("store operation failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decode reads a JSON request body into out.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
