// ABOUTME: JSON request handlers for boards, notes, snippets, statuses, and focus mode
// ABOUTME: Successful mutations broadcast change events to WebSocket subscribers

package api

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/yuin/goldmark"

	"github.com/Lz027/palette/internal/boards"
	"github.com/Lz027/palette/internal/focus"
	"github.com/Lz027/palette/internal/remote"
)

// maxUploadBytes caps image and file uploads at 10 MiB.
const maxUploadBytes = 10 << 20

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	token, err := s.auth.Login(req.Email, req.Password)
	if err != nil {
		s.writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"token": token})
}

// --- Boards ---

func (s *Server) handleBoardsList(w http.ResponseWriter, r *http.Request) {
	list, err := s.boards.Boards()
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, list)
}

func (s *Server) handleBoardGet(w http.ResponseWriter, r *http.Request) {
	b, err := s.boards.Board(mux.Vars(r)["id"])
	if err != nil {
		s.storeError(w, err)
		return
	}
	if b == nil {
		s.writeError(w, http.StatusNotFound, "board not found")
		return
	}
	s.respond(w, http.StatusOK, b)
}

func (s *Server) handleBoardCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Color    string `json:"color"`
		Template string `json:"template"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	b, err := s.boards.CreateBoard(r.Context(), req.Name, req.Color, req.Template)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.hub.Broadcast(Event{Type: "boards.changed"})
	s.respond(w, http.StatusCreated, b)
}

func (s *Server) handleBoardUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Color       *string `json:"color"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	patch := boards.BoardPatch{Name: req.Name, Description: req.Description, Color: req.Color}
	if err := s.boards.UpdateBoard(r.Context(), mux.Vars(r)["id"], patch); err != nil {
		s.storeError(w, err)
		return
	}
	s.hub.Broadcast(Event{Type: "boards.changed"})
	s.respond(w, http.StatusNoContent, nil)
}

func (s *Server) handleBoardDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.boards.DeleteBoard(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.storeError(w, err)
		return
	}
	s.hub.Broadcast(Event{Type: "boards.changed"})
	s.respond(w, http.StatusNoContent, nil)
}

func (s *Server) handleBoardFavorite(w http.ResponseWriter, r *http.Request) {
	if err := s.boards.ToggleFavorite(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.storeError(w, err)
		return
	}
	s.hub.Broadcast(Event{Type: "boards.changed"})
	s.respond(w, http.StatusNoContent, nil)
}

// --- Columns ---

func (s *Server) handleColumnCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Kind string `json:"kind"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	col, err := s.boards.AddColumn(r.Context(), mux.Vars(r)["id"], req.Name, req.Kind)
	if err != nil {
		s.storeError(w, err)
		return
	}
	// A missing board is a silent no-op in the store; nothing was created.
	if col == nil {
		s.respond(w, http.StatusNoContent, nil)
		return
	}
	s.hub.Broadcast(Event{Type: "boards.changed"})
	s.respond(w, http.StatusCreated, col)
}

func (s *Server) handleColumnUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	vars := mux.Vars(r)
	if err := s.boards.UpdateColumnName(r.Context(), vars["id"], vars["columnId"], req.Name); err != nil {
		s.storeError(w, err)
		return
	}
	s.hub.Broadcast(Event{Type: "boards.changed"})
	s.respond(w, http.StatusNoContent, nil)
}

func (s *Server) handleColumnDelete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := s.boards.DeleteColumn(r.Context(), vars["id"], vars["columnId"]); err != nil {
		s.storeError(w, err)
		return
	}
	s.hub.Broadcast(Event{Type: "boards.changed"})
	s.respond(w, http.StatusNoContent, nil)
}

// --- Cards ---

type cardRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
}

func (r cardRequest) fields() boards.CardFields {
	return boards.CardFields{Title: r.Title, Description: r.Description, DueDate: r.DueDate}
}

func (s *Server) handleCardCreate(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if !s.decode(w, r, &req) {
		return
	}
	vars := mux.Vars(r)
	card, err := s.boards.AddCard(r.Context(), vars["id"], vars["columnId"], req.fields())
	if err != nil {
		s.storeError(w, err)
		return
	}
	// A missing board or column is a silent no-op in the store.
	if card == nil {
		s.respond(w, http.StatusNoContent, nil)
		return
	}
	s.hub.Broadcast(Event{Type: "boards.changed"})
	s.respond(w, http.StatusCreated, card)
}

func (s *Server) handleCardUpdate(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if !s.decode(w, r, &req) {
		return
	}
	vars := mux.Vars(r)
	if err := s.boards.UpdateCard(r.Context(), vars["id"], vars["columnId"], vars["cardId"], req.fields()); err != nil {
		s.storeError(w, err)
		return
	}
	s.hub.Broadcast(Event{Type: "boards.changed"})
	s.respond(w, http.StatusNoContent, nil)
}

func (s *Server) handleCardDelete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := s.boards.DeleteCard(r.Context(), vars["id"], vars["columnId"], vars["cardId"]); err != nil {
		s.storeError(w, err)
		return
	}
	s.hub.Broadcast(Event{Type: "boards.changed"})
	s.respond(w, http.StatusNoContent, nil)
}

func (s *Server) handleCardMove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FromColumnID string `json:"fromColumnId"`
		ToColumnID   string `json:"toColumnId"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	vars := mux.Vars(r)
	if err := s.boards.MoveCard(r.Context(), vars["id"], req.FromColumnID, req.ToColumnID, vars["cardId"]); err != nil {
		s.storeError(w, err)
		return
	}
	s.hub.Broadcast(Event{Type: "boards.changed"})
	s.respond(w, http.StatusNoContent, nil)
}

// --- Notes ---

func (s *Server) handleNotesList(w http.ResponseWriter, r *http.Request) {
	list, err := s.notes.Notes()
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, list)
}

func (s *Server) handleNoteCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	n, err := s.notes.Create(r.Context(), req.Title, req.Body)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.hub.Broadcast(Event{Type: "notes.changed"})
	s.respond(w, http.StatusCreated, n)
}

func (s *Server) handleNoteUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.notes.Update(r.Context(), mux.Vars(r)["id"], req.Title, req.Body); err != nil {
		s.storeError(w, err)
		return
	}
	s.hub.Broadcast(Event{Type: "notes.changed"})
	s.respond(w, http.StatusNoContent, nil)
}

func (s *Server) handleNoteDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.notes.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.storeError(w, err)
		return
	}
	s.hub.Broadcast(Event{Type: "notes.changed"})
	s.respond(w, http.StatusNoContent, nil)
}

// --- Snippets ---

func (s *Server) handleSnippetsList(w http.ResponseWriter, r *http.Request) {
	list, err := s.snippets.Snippets()
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, list)
}

func (s *Server) handleSnippetCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title    string `json:"title"`
		Language string `json:"language"`
		Code     string `json:"code"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	sn, err := s.snippets.Create(r.Context(), req.Title, req.Language, req.Code)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.hub.Broadcast(Event{Type: "snippets.changed"})
	s.respond(w, http.StatusCreated, sn)
}

func (s *Server) handleSnippetUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title    string `json:"title"`
		Language string `json:"language"`
		Code     string `json:"code"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.snippets.Update(r.Context(), mux.Vars(r)["id"], req.Title, req.Language, req.Code); err != nil {
		s.storeError(w, err)
		return
	}
	s.hub.Broadcast(Event{Type: "snippets.changed"})
	s.respond(w, http.StatusNoContent, nil)
}

func (s *Server) handleSnippetDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.snippets.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.storeError(w, err)
		return
	}
	s.hub.Broadcast(Event{Type: "snippets.changed"})
	s.respond(w, http.StatusNoContent, nil)
}

// --- Statuses ---

func (s *Server) handleStatusesList(w http.ResponseWriter, r *http.Request) {
	list, err := s.statuses.Statuses()
	if err != nil {
		s.storeError(w, err)
		return
	}
	selected, err := s.statuses.Selected()
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]any{
		"statuses": list,
		"selected": selected,
	})
}

func (s *Server) handleStatusCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	st, err := s.statuses.Create(r.Context(), req.Name, req.Color)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.hub.Broadcast(Event{Type: "statuses.changed"})
	s.respond(w, http.StatusCreated, st)
}

func (s *Server) handleStatusDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.statuses.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.storeError(w, err)
		return
	}
	s.hub.Broadcast(Event{Type: "statuses.changed"})
	s.respond(w, http.StatusNoContent, nil)
}

func (s *Server) handleStatusSelect(w http.ResponseWriter, r *http.Request) {
	if err := s.statuses.Select(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.storeError(w, err)
		return
	}
	s.hub.Broadcast(Event{Type: "statuses.changed"})
	s.respond(w, http.StatusNoContent, nil)
}

// --- Focus mode ---

func (s *Server) focusState() map[string]any {
	state := map[string]any{
		"mode":    s.focus.Mode(),
		"palette": s.focus.Palette(),
	}
	if pending, ok := s.focus.Pending(); ok {
		state["pending"] = pending
	}
	return state
}

func (s *Server) handleFocusGet(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, s.focusState())
}

func (s *Server) handleFocusSet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode string `json:"mode"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.focus.Set(focus.Mode(req.Mode)); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.hub.Broadcast(Event{Type: "focus.changed", Data: s.focusState()})
	s.respond(w, http.StatusOK, s.focusState())
}

func (s *Server) handleFocusCommit(w http.ResponseWriter, r *http.Request) {
	s.focus.Commit(r.Context())
	s.hub.Broadcast(Event{Type: "focus.changed", Data: s.focusState()})
	s.respond(w, http.StatusOK, s.focusState())
}

// --- Profile and uploads ---

func (s *Server) handleProfileGet(w http.ResponseWriter, r *http.Request) {
	p, err := s.remote.Profile(r.Context(), userID(r))
	if err != nil {
		if err == remote.ErrNotFound {
			s.writeError(w, http.StatusNotFound, "profile not found")
			return
		}
		s.writeError(w, http.StatusBadGateway, "profile service unavailable")
		return
	}
	s.respond(w, http.StatusOK, p)
}

func (s *Server) handleProfilePut(w http.ResponseWriter, r *http.Request) {
	var p remote.Profile
	if !s.decode(w, r, &p) {
		return
	}
	p.UserID = userID(r)
	if err := s.remote.SaveProfile(r.Context(), &p); err != nil {
		s.writeError(w, http.StatusBadGateway, "profile service unavailable")
		return
	}
	s.respond(w, http.StatusOK, &p)
}

func (s *Server) handleImageUpload(w http.ResponseWriter, r *http.Request) {
	kind := remote.ImageKind(mux.Vars(r)["kind"])
	if kind != remote.ImageAvatar && kind != remote.ImageBanner {
		s.writeError(w, http.StatusUnprocessableEntity, "unknown image kind")
		return
	}
	body := http.MaxBytesReader(w, r.Body, maxUploadBytes)
	url, err := s.remote.UploadImage(r.Context(), userID(r), kind, body, r.Header.Get("Content-Type"))
	if err != nil {
		s.logger.Warn("image upload failed", "kind", kind, "error", err)
		s.writeError(w, http.StatusBadGateway, "upload failed")
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"url": url})
}

func (s *Server) handleFileUpload(w http.ResponseWriter, r *http.Request) {
	filename := r.URL.Query().Get("filename")
	if filename == "" {
		s.writeError(w, http.StatusUnprocessableEntity, "filename is required")
		return
	}
	body := http.MaxBytesReader(w, r.Body, maxUploadBytes)
	uploaded, err := s.remote.UploadFile(r.Context(), userID(r), filename, body)
	if err != nil {
		s.logger.Warn("file upload failed", "filename", filename, "error", err)
		s.writeError(w, http.StatusBadGateway, "upload failed")
		return
	}
	s.respond(w, http.StatusOK, uploaded)
}

// --- Markdown ---

func (s *Server) handleMarkdownPreview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Markdown string `json:"markdown"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(req.Markdown), &buf); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, "markdown conversion failed")
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"html": buf.String()})
}
