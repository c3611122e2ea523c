package filesystem

import (
	"os"
	"strings"

	"github.com/boardsync/core/internal/config"
	"gopkg.in/yaml.v3"
)

// banner is the leading "do not edit manually" comment required on the
// order file (spec §6, grounded in the teacher's auto-generated tasks.yaml
// convention).
const banner = "# Auto-generated - do not edit manually\n"

// BoardOrder is a mapping from column id to an ordered list of task ids,
// plus a dedicated Archived list. Every id appears in at most one list.
type BoardOrder struct {
	Columns  map[string][]string `yaml:"columns"`
	Archived []string            `yaml:"archived,omitempty"`
}

// NewBoardOrder builds an empty order with one list per configured column.
func NewBoardOrder(cfg config.BoardConfig) *BoardOrder {
	o := &BoardOrder{Columns: map[string][]string{}}
	for _, id := range cfg.ColumnIDs() {
		o.EnsureColumn(id)
	}
	return o
}

// EnsureColumn guarantees a (possibly empty) list exists for id.
func (o *BoardOrder) EnsureColumn(id string) {
	if id == "archived" {
		return
	}
	if o.Columns == nil {
		o.Columns = map[string][]string{}
	}
	if _, ok := o.Columns[id]; !ok {
		o.Columns[id] = []string{}
	}
}

// list returns the slice backing column id (or Archived), by reference.
func (o *BoardOrder) list(column string) []string {
	if column == "archived" {
		return o.Archived
	}
	return o.Columns[column]
}

func (o *BoardOrder) setList(column string, ids []string) {
	if column == "archived" {
		o.Archived = ids
		return
	}
	if o.Columns == nil {
		o.Columns = map[string][]string{}
	}
	o.Columns[column] = ids
}

// ColumnOf returns the column id currently holding id, or "" if absent.
func (o *BoardOrder) ColumnOf(id string) string {
	for col, ids := range o.Columns {
		for _, x := range ids {
			if x == id {
				return col
			}
		}
	}
	for _, x := range o.Archived {
		if x == id {
			return "archived"
		}
	}
	return ""
}

// RemoveTask removes id from whichever list currently holds it.
func (o *BoardOrder) RemoveTask(id string) {
	current := o.ColumnOf(id)
	if current == "" {
		return
	}
	list := o.list(current)
	out := make([]string, 0, len(list))
	for _, x := range list {
		if x != id {
			out = append(out, x)
		}
	}
	o.setList(current, out)
}

// AddTask places id at the end of column's list, moving it there if it was
// previously in a different column.
func (o *BoardOrder) AddTask(id, column string) {
	if o.ColumnOf(id) == column {
		return
	}
	o.RemoveTask(id)
	o.setList(column, append(o.list(column), id))
}

// RenameTask replaces oldID with newID in place, preserving position.
func (o *BoardOrder) RenameTask(oldID, newID string) {
	col := o.ColumnOf(oldID)
	if col == "" {
		return
	}
	list := o.list(col)
	for i, x := range list {
		if x == oldID {
			list[i] = newID
			break
		}
	}
	o.setList(col, list)
}

// SwapAdjacent exchanges id with its neighbor at delta (+1 or -1) within
// its own column. Returns false without mutating at a boundary.
func (o *BoardOrder) SwapAdjacent(id string, delta int) bool {
	col := o.ColumnOf(id)
	if col == "" {
		return false
	}
	list := o.list(col)
	idx := -1
	for i, x := range list {
		if x == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false
	}
	j := idx + delta
	if j < 0 || j >= len(list) {
		return false
	}
	list[idx], list[j] = list[j], list[idx]
	o.setList(col, list)
	return true
}

// AllIDs returns every id referenced by the order file, across all columns
// and Archived.
func (o *BoardOrder) AllIDs() map[string]bool {
	out := map[string]bool{}
	for _, ids := range o.Columns {
		for _, id := range ids {
			out[id] = true
		}
	}
	for _, id := range o.Archived {
		out[id] = true
	}
	return out
}

func loadBoardOrder(path string, cfg config.BoardConfig) (*BoardOrder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewBoardOrder(cfg), nil
		}
		return nil, err
	}
	var o BoardOrder
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, err
	}
	if o.Columns == nil {
		o.Columns = map[string][]string{}
	}
	for _, id := range cfg.ColumnIDs() {
		o.EnsureColumn(id)
	}
	return &o, nil
}

func saveBoardOrder(path string, o *BoardOrder) error {
	data, err := yaml.Marshal(o)
	if err != nil {
		return err
	}
	var buf strings.Builder
	buf.WriteString(banner)
	buf.Write(data)
	return os.WriteFile(path, []byte(buf.String()), 0o644)
}
