// ABOUTME: Default column layouts per board template and the seeded default boards
// ABOUTME: Applied at board creation and when durable storage is empty or corrupt

package boards

import (
	"time"

	"github.com/google/uuid"

	"github.com/Lz027/palette/internal/schema"
)

// templateColumns returns the default column set for a template. The
// kanban template yields the classic three-stage flow; every other
// template yields a single Tasks column.
func templateColumns(template string) []*Column {
	switch template {
	case TemplateKanban:
		return []*Column{
			{ID: uuid.New().String(), Name: "To Do", Cards: []*Card{}},
			{ID: uuid.New().String(), Name: "In Progress", Cards: []*Card{}},
			{ID: uuid.New().String(), Name: "Done", Cards: []*Card{}},
		}
	default:
		return []*Column{
			{ID: uuid.New().String(), Name: "Tasks", Cards: []*Card{}},
		}
	}
}

// defaultBoards is the built-in collection substituted when durable
// storage holds nothing usable.
func defaultBoards() []*Board {
	b := &Board{
		ID:        uuid.New().String(),
		Name:      "Getting Started",
		Color:     ColorSky,
		Template:  TemplateKanban,
		Columns:   templateColumns(TemplateKanban),
		CreatedAt: time.Now().UTC(),
	}
	b.Columns[0].Cards = append(b.Columns[0].Cards, &Card{
		ID:          uuid.New().String(),
		Title:       "Create your first board",
		Description: "Boards hold columns, columns hold cards. Drag cards between columns as work progresses.",
	})
	return []*Board{b}
}

// collectionSchema describes the persisted board collection shape.
// Loaded blobs failing it are discarded and replaced with defaults.
func collectionSchema() schema.Schema {
	card := schema.Object(
		schema.Field{Name: "id", Schema: schema.String(64)},
		schema.Field{Name: "title", Schema: schema.String(MaxNameLen)},
		schema.Field{Name: "description", Schema: schema.String(MaxDescriptionLen), Optional: true},
		schema.Field{Name: "dueDate", Schema: schema.TimeString(), Optional: true},
	)
	column := schema.Object(
		schema.Field{Name: "id", Schema: schema.String(64)},
		schema.Field{Name: "name", Schema: schema.String(MaxNameLen)},
		schema.Field{Name: "kind", Schema: schema.Enum(Kinds...), Optional: true},
		schema.Field{Name: "cards", Schema: schema.Array(card)},
	)
	board := schema.Object(
		schema.Field{Name: "id", Schema: schema.String(64)},
		schema.Field{Name: "name", Schema: schema.String(MaxNameLen)},
		schema.Field{Name: "description", Schema: schema.String(MaxDescriptionLen), Optional: true},
		schema.Field{Name: "color", Schema: schema.Enum(Colors...)},
		schema.Field{Name: "template", Schema: schema.String(64)},
		schema.Field{Name: "columns", Schema: schema.Array(column)},
		schema.Field{Name: "isFavorite", Schema: schema.Bool()},
		schema.Field{Name: "createdAt", Schema: schema.TimeString()},
	)
	return schema.Array(board)
}
