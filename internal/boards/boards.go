// ABOUTME: Board store owning the board/column/card collection for the session
// ABOUTME: Serializes all mutations and persists the full collection on every change

package boards

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Lz027/palette/internal/kv"
)

// storageKey is the durable-storage key holding the board collection.
const storageKey = "palette.boards"

// Length caps applied to user-supplied fields.
const (
	MaxNameLen        = 120
	MaxDescriptionLen = 2000
)

// ErrNotReady is returned while the store has not finished loading.
// Callers must defer rendering until Ready reports true; this prevents a
// write-before-read race that would clobber durable storage with an
// empty collection.
var ErrNotReady = errors.New("board store not loaded")

// ValidationError reports a rejected user-supplied field. It crosses the
// store boundary so callers can show the message; referential misses, by
// contrast, are benign no-ops and produce no error at all.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Board colors form a fixed palette.
const (
	ColorCoral    = "coral"
	ColorSky      = "sky"
	ColorMint     = "mint"
	ColorLavender = "lavender"
	ColorAmber    = "amber"
	ColorSlate    = "slate"
)

// Colors lists the fixed board color palette.
var Colors = []string{ColorCoral, ColorSky, ColorMint, ColorLavender, ColorAmber, ColorSlate}

// Board templates determine the default column layout. The template is
// fixed after creation.
const (
	TemplateKanban = "kanban"
	TemplateBasic  = "basic"
)

// Column kinds declare the value type a column's inputs render as. The
// kind is advisory: stored values are not coerced or enforced.
const (
	KindText   = "text"
	KindNumber = "number"
	KindDate   = "date"
	KindFile   = "file"
	KindLink   = "link"
	KindStatus = "status"
)

// Kinds lists the declared column value types.
var Kinds = []string{KindText, KindNumber, KindDate, KindFile, KindLink, KindStatus}

// Board is a named workspace containing an ordered set of columns.
type Board struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color"`
	Template    string    `json:"template"`
	Columns     []*Column `json:"columns"`
	IsFavorite  bool      `json:"isFavorite"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Column is a named, typed container of cards within a board. Position
// is represented by sequence order, not an explicit field.
type Column struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Kind  string  `json:"kind,omitempty"`
	Cards []*Card `json:"cards"`
}

// Card is a single task within a column. A card belongs to exactly one
// column at a time.
type Card struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// CardFields carries the user-supplied fields of a card.
type CardFields struct {
	Title       string
	Description string
	DueDate     *time.Time
}

// BoardPatch carries optional board field updates. Nil fields are left
// unchanged. The template cannot be patched; it is fixed at creation.
type BoardPatch struct {
	Name        *string
	Description *string
	Color       *string
}

// State tracks store initialization. Operations are refused until the
// persisted collection has been read, so an early write can never
// overwrite existing data with an empty collection.
type State int

const (
	StateUnloaded State = iota
	StateLoading
	StateReady
)

// Store is the single authority over the board collection for the
// lifetime of the session. All access goes through its operations; the
// collection itself is never shared. Every mutation rewrites the full
// collection to durable storage before returning.
type Store struct {
	mu     sync.Mutex
	kv     *kv.Store
	logger *slog.Logger
	state  State
	boards []*Board
}

// NewStore creates an unloaded board store backed by the given medium.
func NewStore(store *kv.Store) *Store {
	return &Store{
		kv:     store,
		logger: slog.Default().With("component", "boards"),
	}
}

// Load reads the persisted collection. Malformed or absent data falls
// back to the built-in default board set. Calling Load on a ready store
// is a no-op.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateReady {
		return
	}
	s.state = StateLoading

	var loaded []*Board
	if s.kv.Load(ctx, storageKey, collectionSchema(), &loaded) {
		s.boards = loaded
	} else {
		s.boards = defaultBoards()
		s.persist(ctx)
		s.logger.Info("seeded default boards", "count", len(s.boards))
	}
	s.state = StateReady
}

// Ready reports whether the store may be used as a data source.
func (s *Store) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateReady
}

// Boards returns a snapshot copy of the collection, most recent first.
func (s *Store) Boards() ([]*Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return nil, ErrNotReady
	}
	out := make([]*Board, len(s.boards))
	for i, b := range s.boards {
		out[i] = b.clone()
	}
	return out, nil
}

// Board returns a snapshot copy of one board, or nil if absent.
func (s *Store) Board(id string) (*Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return nil, ErrNotReady
	}
	if b := s.find(id); b != nil {
		return b.clone(), nil
	}
	return nil, nil
}

// CreateBoard adds a new board to the front of the collection. The
// template picks the default column set: "kanban" yields To Do /
// In Progress / Done, anything else yields a single Tasks column.
func (s *Store) CreateBoard(ctx context.Context, name, color, template string) (*Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return nil, ErrNotReady
	}

	name, err := validName("name", name)
	if err != nil {
		return nil, err
	}
	if !validColor(color) {
		return nil, &ValidationError{Field: "color", Reason: "not in the board palette"}
	}
	if template == "" {
		template = TemplateBasic
	}

	b := &Board{
		ID:        uuid.New().String(),
		Name:      name,
		Color:     color,
		Template:  template,
		Columns:   templateColumns(template),
		CreatedAt: time.Now().UTC(),
	}

	// Most-recent-first ordering.
	s.boards = append([]*Board{b}, s.boards...)
	s.persist(ctx)
	return b.clone(), nil
}

// UpdateBoard merges the patch into the board matching id. A missing
// board is a benign no-op.
func (s *Store) UpdateBoard(ctx context.Context, id string, patch BoardPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return ErrNotReady
	}

	b := s.find(id)
	if b == nil {
		return nil
	}

	if patch.Name != nil {
		name, err := validName("name", *patch.Name)
		if err != nil {
			return err
		}
		b.Name = name
	}
	if patch.Description != nil {
		if len(*patch.Description) > MaxDescriptionLen {
			return &ValidationError{Field: "description", Reason: "too long"}
		}
		b.Description = *patch.Description
	}
	if patch.Color != nil {
		if !validColor(*patch.Color) {
			return &ValidationError{Field: "color", Reason: "not in the board palette"}
		}
		b.Color = *patch.Color
	}

	s.persist(ctx)
	return nil
}

// DeleteBoard removes the board matching id. Columns and cards are
// nested inside the board record, so removal cascades totally and no
// orphan references remain in durable storage.
func (s *Store) DeleteBoard(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return ErrNotReady
	}

	for i, b := range s.boards {
		if b.ID == id {
			s.boards = append(s.boards[:i], s.boards[i+1:]...)
			s.persist(ctx)
			return nil
		}
	}
	return nil
}

// ToggleFavorite flips the favorite flag on the board matching id.
func (s *Store) ToggleFavorite(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return ErrNotReady
	}

	if b := s.find(id); b != nil {
		b.IsFavorite = !b.IsFavorite
		s.persist(ctx)
	}
	return nil
}

// AddColumn appends a column to the named board.
func (s *Store) AddColumn(ctx context.Context, boardID, name, kind string) (*Column, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return nil, ErrNotReady
	}

	name, err := validName("name", name)
	if err != nil {
		return nil, err
	}
	if kind != "" && !validKind(kind) {
		return nil, &ValidationError{Field: "kind", Reason: "unknown column kind"}
	}

	b := s.find(boardID)
	if b == nil {
		return nil, nil
	}

	col := &Column{ID: uuid.New().String(), Name: name, Kind: kind, Cards: []*Card{}}
	b.Columns = append(b.Columns, col)
	s.persist(ctx)
	return col.clone(), nil
}

// UpdateColumnName renames the named column.
func (s *Store) UpdateColumnName(ctx context.Context, boardID, columnID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return ErrNotReady
	}

	name, err := validName("name", name)
	if err != nil {
		return err
	}

	if col := s.findColumn(boardID, columnID); col != nil {
		col.Name = name
		s.persist(ctx)
	}
	return nil
}

// DeleteColumn removes the named column and its cards. Deleting the last
// column of a board is permitted.
func (s *Store) DeleteColumn(ctx context.Context, boardID, columnID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return ErrNotReady
	}

	b := s.find(boardID)
	if b == nil {
		return nil
	}
	for i, col := range b.Columns {
		if col.ID == columnID {
			b.Columns = append(b.Columns[:i], b.Columns[i+1:]...)
			s.persist(ctx)
			return nil
		}
	}
	return nil
}

// AddCard appends a new card to the named column. A missing board or
// column is a benign no-op returning a nil card.
func (s *Store) AddCard(ctx context.Context, boardID, columnID string, fields CardFields) (*Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return nil, ErrNotReady
	}

	title, err := validName("title", fields.Title)
	if err != nil {
		return nil, err
	}
	if len(fields.Description) > MaxDescriptionLen {
		return nil, &ValidationError{Field: "description", Reason: "too long"}
	}

	col := s.findColumn(boardID, columnID)
	if col == nil {
		return nil, nil
	}

	card := &Card{
		ID:          uuid.New().String(),
		Title:       title,
		Description: fields.Description,
		DueDate:     fields.DueDate,
	}
	col.Cards = append(col.Cards, card)
	s.persist(ctx)
	return card.clone(), nil
}

// UpdateCard replaces the user-supplied fields of the named card.
func (s *Store) UpdateCard(ctx context.Context, boardID, columnID, cardID string, fields CardFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return ErrNotReady
	}

	title, err := validName("title", fields.Title)
	if err != nil {
		return err
	}
	if len(fields.Description) > MaxDescriptionLen {
		return &ValidationError{Field: "description", Reason: "too long"}
	}

	col := s.findColumn(boardID, columnID)
	if col == nil {
		return nil
	}
	for _, card := range col.Cards {
		if card.ID == cardID {
			card.Title = title
			card.Description = fields.Description
			card.DueDate = fields.DueDate
			s.persist(ctx)
			return nil
		}
	}
	return nil
}

// DeleteCard removes the named card from its column.
func (s *Store) DeleteCard(ctx context.Context, boardID, columnID, cardID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return ErrNotReady
	}

	col := s.findColumn(boardID, columnID)
	if col == nil {
		return nil
	}
	for i, card := range col.Cards {
		if card.ID == cardID {
			col.Cards = append(col.Cards[:i], col.Cards[i+1:]...)
			s.persist(ctx)
			return nil
		}
	}
	return nil
}

// MoveCard removes the card from the source column and appends it to the
// destination column as one combined update: no reader can observe the
// card in both or neither column. If the card is not in the source
// column, or either column is missing, the move is abandoned untouched.
func (s *Store) MoveCard(ctx context.Context, boardID, fromColumnID, toColumnID, cardID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return ErrNotReady
	}

	b := s.find(boardID)
	if b == nil {
		return nil
	}

	var from, to *Column
	for _, col := range b.Columns {
		switch col.ID {
		case fromColumnID:
			from = col
		case toColumnID:
			to = col
		}
	}
	if from == nil || to == nil {
		return nil
	}

	for i, card := range from.Cards {
		if card.ID == cardID {
			from.Cards = append(from.Cards[:i], from.Cards[i+1:]...)
			to.Cards = append(to.Cards, card)
			s.persist(ctx)
			return nil
		}
	}
	return nil
}

// persist rewrites the full collection. Callers hold the mutex.
func (s *Store) persist(ctx context.Context) {
	s.kv.Save(ctx, storageKey, s.boards)
}

// find returns the live board matching id, or nil. Callers hold the mutex.
func (s *Store) find(id string) *Board {
	for _, b := range s.boards {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// findColumn returns the live column matching the ids, or nil.
func (s *Store) findColumn(boardID, columnID string) *Column {
	b := s.find(boardID)
	if b == nil {
		return nil
	}
	for _, col := range b.Columns {
		if col.ID == columnID {
			return col
		}
	}
	return nil
}

func validName(field, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &ValidationError{Field: field, Reason: "must not be empty"}
	}
	if len(name) > MaxNameLen {
		return "", &ValidationError{Field: field, Reason: "too long"}
	}
	return name, nil
}

func validColor(color string) bool {
	for _, c := range Colors {
		if color == c {
			return true
		}
	}
	return false
}

func validKind(kind string) bool {
	for _, k := range Kinds {
		if kind == k {
			return true
		}
	}
	return false
}

func (b *Board) clone() *Board {
	out := *b
	out.Columns = make([]*Column, len(b.Columns))
	for i, col := range b.Columns {
		out.Columns[i] = col.clone()
	}
	return &out
}

func (c *Column) clone() *Column {
	out := *c
	out.Cards = make([]*Card, len(c.Cards))
	for i, card := range c.Cards {
		out.Cards[i] = card.clone()
	}
	return &out
}

func (c *Card) clone() *Card {
	out := *c
	if c.DueDate != nil {
		d := *c.DueDate
		out.DueDate = &d
	}
	return &out
}
