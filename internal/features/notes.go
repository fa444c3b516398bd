// ABOUTME: Note store: flat records persisted as one array under a dedicated key
// ABOUTME: Full-collection rewrite on every mutation, schema-validated on load

package features

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Lz027/palette/internal/kv"
	"github.com/Lz027/palette/internal/schema"
)

const notesKey = "palette.notes"

// Note is a short titled text record, independent of any board.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NoteStore owns the note collection for the session.
type NoteStore struct {
	mu     sync.Mutex
	kv     *kv.Store
	logger *slog.Logger
	ready  bool
	notes  []*Note
}

// NewNoteStore creates an unloaded note store.
func NewNoteStore(store *kv.Store) *NoteStore {
	return &NoteStore{
		kv:     store,
		logger: slog.Default().With("component", "notes"),
	}
}

// Load reads the persisted collection; anything unusable starts empty.
func (s *NoteStore) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return
	}
	var loaded []*Note
	if s.kv.Load(ctx, notesKey, noteSchema(), &loaded) {
		s.notes = loaded
	} else {
		s.notes = []*Note{}
	}
	s.ready = true
}

// Notes returns a snapshot copy, most recent first.
func (s *NoteStore) Notes() ([]*Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil, ErrNotReady
	}
	out := make([]*Note, len(s.notes))
	for i, n := range s.notes {
		c := *n
		out[i] = &c
	}
	return out, nil
}

// Create adds a note to the front of the collection.
func (s *NoteStore) Create(ctx context.Context, title, body string) (*Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil, ErrNotReady
	}
	title, err := validTitle("title", title)
	if err != nil {
		return nil, err
	}
	if err := validBody("body", body); err != nil {
		return nil, err
	}

	n := &Note{
		ID:        uuid.New().String(),
		Title:     title,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	s.notes = append([]*Note{n}, s.notes...)
	s.kv.Save(ctx, notesKey, s.notes)
	c := *n
	return &c, nil
}

// Update replaces the note's title and body. A missing note is a benign
// no-op.
func (s *NoteStore) Update(ctx context.Context, id, title, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return ErrNotReady
	}
	title, err := validTitle("title", title)
	if err != nil {
		return err
	}
	if err := validBody("body", body); err != nil {
		return err
	}

	for _, n := range s.notes {
		if n.ID == id {
			n.Title = title
			n.Body = body
			s.kv.Save(ctx, notesKey, s.notes)
			return nil
		}
	}
	return nil
}

// Delete removes the note matching id.
func (s *NoteStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return ErrNotReady
	}
	for i, n := range s.notes {
		if n.ID == id {
			s.notes = append(s.notes[:i], s.notes[i+1:]...)
			s.kv.Save(ctx, notesKey, s.notes)
			return nil
		}
	}
	return nil
}

func noteSchema() schema.Schema {
	return schema.Array(schema.Object(
		schema.Field{Name: "id", Schema: schema.String(64)},
		schema.Field{Name: "title", Schema: schema.String(MaxTitleLen)},
		schema.Field{Name: "body", Schema: schema.String(MaxBodyLen), Optional: true},
		schema.Field{Name: "createdAt", Schema: schema.TimeString()},
	))
}
