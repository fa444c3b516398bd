// ABOUTME: Snippet store: saved code fragments with a language tag
// ABOUTME: Same load-validate-rewrite pattern as the other feature stores

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

const snippetsKey = "palette.snippets"

// Snippet is a saved code fragment.
type Snippet struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Language  string    `json:"language,omitempty"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"createdAt"`
}

// SnippetStore owns the snippet collection for the session.
type SnippetStore struct {
	mu       sync.Mutex
	kv       *kv.Store
	logger   *slog.Logger
	ready    bool
	snippets []*Snippet
}

// NewSnippetStore creates an unloaded snippet store.
func NewSnippetStore(store *kv.Store) *SnippetStore {
	return &SnippetStore{
		kv:     store,
		logger: slog.Default().With("component", "snippets"),
	}
}

// Load reads the persisted collection; anything unusable starts empty.
func (s *SnippetStore) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return
	}
	var loaded []*Snippet
	if s.kv.Load(ctx, snippetsKey, snippetSchema(), &loaded) {
		s.snippets = loaded
	} else {
		s.snippets = []*Snippet{}
	}
	s.ready = true
}

// Snippets returns a snapshot copy, most recent first.
func (s *SnippetStore) Snippets() ([]*Snippet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil, ErrNotReady
	}
	out := make([]*Snippet, len(s.snippets))
	for i, sn := range s.snippets {
		c := *sn
		out[i] = &c
	}
	return out, nil
}

// Create adds a snippet to the front of the collection.
func (s *SnippetStore) Create(ctx context.Context, title, language, code string) (*Snippet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil, ErrNotReady
	}
	title, err := validTitle("title", title)
	if err != nil {
		return nil, err
	}
	if err := validBody("code", code); err != nil {
		return nil, err
	}

	sn := &Snippet{
		ID:        uuid.New().String(),
		Title:     title,
		Language:  language,
		Code:      code,
		CreatedAt: time.Now().UTC(),
	}
	s.snippets = append([]*Snippet{sn}, s.snippets...)
	s.kv.Save(ctx, snippetsKey, s.snippets)
	c := *sn
	return &c, nil
}

// Update replaces the snippet's fields. A missing snippet is a benign
// no-op.
func (s *SnippetStore) Update(ctx context.Context, id, title, language, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return ErrNotReady
	}
	title, err := validTitle("title", title)
	if err != nil {
		return err
	}
	if err := validBody("code", code); err != nil {
		return err
	}

	for _, sn := range s.snippets {
		if sn.ID == id {
			sn.Title = title
			sn.Language = language
			sn.Code = code
			s.kv.Save(ctx, snippetsKey, s.snippets)
			return nil
		}
	}
	return nil
}

// Delete removes the snippet matching id.
func (s *SnippetStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return ErrNotReady
	}
	for i, sn := range s.snippets {
		if sn.ID == id {
			s.snippets = append(s.snippets[:i], s.snippets[i+1:]...)
			s.kv.Save(ctx, snippetsKey, s.snippets)
			return nil
		}
	}
	return nil
}

func snippetSchema() schema.Schema {
	return schema.Array(schema.Object(
		schema.Field{Name: "id", Schema: schema.String(64)},
		schema.Field{Name: "title", Schema: schema.String(MaxTitleLen)},
		schema.Field{Name: "language", Schema: schema.String(64), Optional: true},
		schema.Field{Name: "code", Schema: schema.String(MaxBodyLen)},
		schema.Field{Name: "createdAt", Schema: schema.TimeString()},
	))
}
