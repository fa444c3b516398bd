// ABOUTME: Status store: workflow tags with a floor invariant and a current selection
// ABOUTME: Deletion is refused when it would empty the collection

package features

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/Lz027/palette/internal/kv"
	"github.com/Lz027/palette/internal/schema"
)

const (
	statusesKey        = "palette.statuses"
	statusSelectionKey = "palette.statuses_selected"
)

// Status colors form the same fixed palette as boards.
var statusColors = []string{"coral", "sky", "mint", "lavender", "amber", "slate"}

// Status is a workflow tag applicable to cards and spreadsheet rows.
type Status struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// StatusStore owns the status collection and the current selection. The
// collection never drops below one entry: deleting the last status is
// refused with ErrLastStatus, and deleting the selected status moves the
// selection to the new first entry.
type StatusStore struct {
	mu       sync.Mutex
	kv       *kv.Store
	logger   *slog.Logger
	ready    bool
	statuses []*Status
	selected string
}

// NewStatusStore creates an unloaded status store.
func NewStatusStore(store *kv.Store) *StatusStore {
	return &StatusStore{
		kv:     store,
		logger: slog.Default().With("component", "statuses"),
	}
}

// Load reads the persisted collection and selection. Anything unusable
// is replaced with the built-in defaults.
func (s *StatusStore) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return
	}

	var loaded []*Status
	if s.kv.Load(ctx, statusesKey, statusSchema(), &loaded) && len(loaded) > 0 {
		s.statuses = loaded
	} else {
		s.statuses = defaultStatuses()
		s.kv.Save(ctx, statusesKey, s.statuses)
		s.logger.Info("seeded default statuses", "count", len(s.statuses))
	}

	var selected string
	if s.kv.Load(ctx, statusSelectionKey, schema.String(64), &selected) && s.findLocked(selected) != nil {
		s.selected = selected
	} else {
		s.selected = s.statuses[0].ID
	}
	s.ready = true
}

// Statuses returns a snapshot copy of the collection.
func (s *StatusStore) Statuses() ([]*Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil, ErrNotReady
	}
	out := make([]*Status, len(s.statuses))
	for i, st := range s.statuses {
		c := *st
		out[i] = &c
	}
	return out, nil
}

// Selected returns the id of the currently selected status.
func (s *StatusStore) Selected() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return "", ErrNotReady
	}
	return s.selected, nil
}

// Create appends a new status.
func (s *StatusStore) Create(ctx context.Context, name, color string) (*Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil, ErrNotReady
	}
	name, err := validTitle("name", name)
	if err != nil {
		return nil, err
	}
	if !validStatusColor(color) {
		return nil, &ValidationError{Field: "color", Reason: "not in the status palette"}
	}

	st := &Status{ID: uuid.New().String(), Name: name, Color: color}
	s.statuses = append(s.statuses, st)
	s.kv.Save(ctx, statusesKey, s.statuses)
	c := *st
	return &c, nil
}

// Delete removes the status matching id. Removing the last remaining
// status is refused. Deleting the selected status moves the selection to
// the first remaining entry.
func (s *StatusStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return ErrNotReady
	}
	if s.findLocked(id) == nil {
		return nil
	}
	if len(s.statuses) <= 1 {
		return ErrLastStatus
	}

	for i, st := range s.statuses {
		if st.ID == id {
			s.statuses = append(s.statuses[:i], s.statuses[i+1:]...)
			break
		}
	}
	s.kv.Save(ctx, statusesKey, s.statuses)

	if s.selected == id {
		s.selected = s.statuses[0].ID
		s.kv.Save(ctx, statusSelectionKey, s.selected)
	}
	return nil
}

// Select marks the status matching id as current. A missing id is a
// benign no-op.
func (s *StatusStore) Select(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return ErrNotReady
	}
	if s.findLocked(id) == nil {
		return nil
	}
	s.selected = id
	s.kv.Save(ctx, statusSelectionKey, s.selected)
	return nil
}

func (s *StatusStore) findLocked(id string) *Status {
	for _, st := range s.statuses {
		if st.ID == id {
			return st
		}
	}
	return nil
}

func defaultStatuses() []*Status {
	return []*Status{
		{ID: uuid.New().String(), Name: "Backlog", Color: "slate"},
		{ID: uuid.New().String(), Name: "Active", Color: "mint"},
		{ID: uuid.New().String(), Name: "Blocked", Color: "coral"},
	}
}

func validStatusColor(color string) bool {
	for _, c := range statusColors {
		if color == c {
			return true
		}
	}
	return false
}

func statusSchema() schema.Schema {
	return schema.Array(schema.Object(
		schema.Field{Name: "id", Schema: schema.String(64)},
		schema.Field{Name: "name", Schema: schema.String(MaxTitleLen)},
		schema.Field{Name: "color", Schema: schema.Enum(statusColors...)},
	))
}
