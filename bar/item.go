package bar

import (
	"html/template"
	"net/url"
)

// Title is an item label: either plain text or pre-rendered markup.
//
// The zero value is an empty text title.
type Title struct {
	text   string
	markup template.HTML
	raw    bool
}

// Text returns a plain-text title. It is escaped at render time.
func Text(s string) Title { return Title{text: s} }

// Markup returns a pre-rendered title. It is sanitized at render time.
func Markup(h template.HTML) Title { return Title{markup: h, raw: true} }

// IsMarkup reports whether t carries markup.
func (t Title) IsMarkup() bool { return t.raw }

// IsEmpty reports whether t renders to nothing.
func (t Title) IsEmpty() bool {
	if t.raw {
		return t.markup == ""
	}
	return t.text == ""
}

// String returns the text, or the raw markup source for a Markup title.
func (t Title) String() string {
	if t.raw {
		return string(t.markup)
	}
	return t.text
}

// Item is one entry of the bar.
type Item struct {
	ID         string
	Title      Title
	URL        string
	IconPath   string
	Attributes map[string]string
	// Query is merged into URL's query string.
	Query  url.Values
	Weight int
	// Access false drops the item before rendering.
	Access bool
}

// Items is an insertion-ordered map of items keyed by id.
//
// It is not safe for concurrent use; an Items value belongs to one response.
type Items struct {
	order []string
	m     map[string]*Item
}

// NewItems creates an empty set.
func NewItems() *Items { return &Items{m: make(map[string]*Item)} }

// Set stores item under id. Replacing an existing id keeps its position.
func (s *Items) Set(id string, item Item) {
	item.ID = id
	if p, ok := s.m[id]; ok {
		*p = item
		return
	}
	s.order = append(s.order, id)
	s.m[id] = &item
}

// Get returns the stored item for in-place mutation.
func (s *Items) Get(id string) (*Item, bool) {
	p, ok := s.m[id]
	return p, ok
}

// Delete removes id. Missing ids are ignored.
func (s *Items) Delete(id string) {
	if _, ok := s.m[id]; !ok {
		return
	}
	delete(s.m, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of items.
func (s *Items) Len() int { return len(s.order) }

// IDs returns the ids in insertion order.
func (s *Items) IDs() []string { return append([]string(nil), s.order...) }

// List returns copies of the items in insertion order.
func (s *Items) List() []Item {
	out := make([]Item, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.m[id])
	}
	return out
}

// Alter mutates the item set before it is sorted and filtered.
type Alter func(env *Env, items *Items)
