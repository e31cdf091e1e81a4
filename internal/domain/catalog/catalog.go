// Package catalog holds the fixed item catalog and the segment and context
// enumerations that partition the ratings.
package catalog

import (
	"fmt"
	"strings"

	"github.com/okian/gamemash/internal/errs"
)

// KeySeparator joins a segment code and a context code in persisted keys.
// Tag codes may not contain it.
const KeySeparator = "__"

// Item identifies one entry of the catalog, e.g. a game title.
type Item string

// Segment is an audience-type code.
type Segment string

// Context is a comparison-question code.
type Context string

// Tag is an enumerated code with its human readable label.
type Tag struct {
	Code  string `json:"code" yaml:"code"`
	Label string `json:"label" yaml:"label"`
}

// Catalog is the immutable set of items, segments and contexts.
type Catalog struct {
	items    []Item
	index    map[Item]int
	segments []Tag
	contexts []Tag
	segLabel map[Segment]string
	ctxLabel map[Context]string
}

// New validates the enumerations and returns a catalog. Order is preserved
// and is the tie-break order for rankings.
func New(items []Item, segments, contexts []Tag) (*Catalog, error) {
	const op = "catalog.new"

	c := &Catalog{
		items:    make([]Item, 0, len(items)),
		index:    make(map[Item]int, len(items)),
		segments: make([]Tag, 0, len(segments)),
		contexts: make([]Tag, 0, len(contexts)),
		segLabel: make(map[Segment]string, len(segments)),
		ctxLabel: make(map[Context]string, len(contexts)),
	}

	for _, it := range items {
		if strings.TrimSpace(string(it)) == "" {
			return nil, errs.Invalid(op, "item name must not be empty")
		}
		if _, dup := c.index[it]; dup {
			return nil, errs.Invalid(op, fmt.Sprintf("duplicate item %q", it))
		}
		c.index[it] = len(c.items)
		c.items = append(c.items, it)
	}

	if len(segments) == 0 {
		return nil, errs.Invalid(op, "at least one segment is required")
	}
	if len(contexts) == 0 {
		return nil, errs.Invalid(op, "at least one context is required")
	}

	for _, t := range segments {
		if err := checkCode(op, "segment", t.Code); err != nil {
			return nil, err
		}
		if _, dup := c.segLabel[Segment(t.Code)]; dup {
			return nil, errs.Invalid(op, fmt.Sprintf("duplicate segment %q", t.Code))
		}
		c.segLabel[Segment(t.Code)] = labelOr(t)
		c.segments = append(c.segments, Tag{Code: t.Code, Label: labelOr(t)})
	}
	for _, t := range contexts {
		if err := checkCode(op, "context", t.Code); err != nil {
			return nil, err
		}
		if _, dup := c.ctxLabel[Context(t.Code)]; dup {
			return nil, errs.Invalid(op, fmt.Sprintf("duplicate context %q", t.Code))
		}
		c.ctxLabel[Context(t.Code)] = labelOr(t)
		c.contexts = append(c.contexts, Tag{Code: t.Code, Label: labelOr(t)})
	}

	return c, nil
}

func checkCode(op, kind, code string) error {
	switch {
	case strings.TrimSpace(code) == "":
		return errs.Invalid(op, kind+" code must not be empty")
	case strings.Contains(code, KeySeparator):
		return errs.Invalid(op, fmt.Sprintf("%s code %q contains separator %q", kind, code, KeySeparator))
	case strings.HasPrefix(code, "_") || strings.HasSuffix(code, "_"):
		// "A_" + "__" + "B" would read back as "A" and "_B".
		return errs.Invalid(op, fmt.Sprintf("%s code %q must not start or end with '_'", kind, code))
	}
	return nil
}

func labelOr(t Tag) string {
	if t.Label == "" {
		return t.Code
	}
	return t.Label
}

// Items returns a copy of the items in catalog order.
func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of items.
func (c *Catalog) Len() int { return len(c.items) }

// Index returns the catalog position of item.
func (c *Catalog) Index(item Item) (int, bool) {
	i, ok := c.index[item]
	return i, ok
}

// Contains reports whether item belongs to the catalog.
func (c *Catalog) Contains(item Item) bool {
	_, ok := c.index[item]
	return ok
}

// Segments returns the segment tags in declaration order.
func (c *Catalog) Segments() []Tag {
	out := make([]Tag, len(c.segments))
	copy(out, c.segments)
	return out
}

// Contexts returns the context tags in declaration order.
func (c *Catalog) Contexts() []Tag {
	out := make([]Tag, len(c.contexts))
	copy(out, c.contexts)
	return out
}

// HasSegment reports whether s was enumerated.
func (c *Catalog) HasSegment(s Segment) bool {
	_, ok := c.segLabel[s]
	return ok
}

// HasContext reports whether x was enumerated.
func (c *Catalog) HasContext(x Context) bool {
	_, ok := c.ctxLabel[x]
	return ok
}

// SegmentLabel returns the label of s, or its code when unknown.
func (c *Catalog) SegmentLabel(s Segment) string {
	if l, ok := c.segLabel[s]; ok {
		return l
	}
	return string(s)
}

// ContextLabel returns the label of x, or its code when unknown.
func (c *Catalog) ContextLabel(x Context) string {
	if l, ok := c.ctxLabel[x]; ok {
		return l
	}
	return string(x)
}
