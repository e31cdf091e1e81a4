// Package model contains domain models passed between layers.
package model

import (
	"strings"

	"github.com/okian/gamemash/internal/domain/catalog"
	"github.com/okian/gamemash/internal/errs"
)

// Key identifies one rating partition. It is comparable and used directly
// as a map key; the string form exists only for persisted blobs.
type Key struct {
	Segment catalog.Segment
	Context catalog.Context
}

// NewKey builds a Key from raw codes.
func NewKey(segment, context string) Key {
	return Key{Segment: catalog.Segment(segment), Context: catalog.Context(context)}
}

// String renders the key as "<segment>__<context>".
func (k Key) String() string {
	return string(k.Segment) + catalog.KeySeparator + string(k.Context)
}

// ParseKey reverses Key.String.
func ParseKey(s string) (Key, error) {
	const op = "model.parse_key"
	seg, ctx, ok := strings.Cut(s, catalog.KeySeparator)
	if !ok || seg == "" || ctx == "" || strings.Contains(ctx, catalog.KeySeparator) {
		return Key{}, errs.Invalid(op, "malformed partition key "+s)
	}
	return NewKey(seg, ctx), nil
}
