package catalog

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/okian/gamemash/internal/errs"
	"gopkg.in/yaml.v3"
)

// document is the on-disk catalog shape:
//
//	items: ["Minecraft", "Elden Ring"]
//	segments: [{code: C, label: Casual}]
//	contexts: [{code: D, label: "Which is more fun?"}]
type document struct {
	Items    []string `yaml:"items"`
	Segments []Tag    `yaml:"segments"`
	Contexts []Tag    `yaml:"contexts"`
}

// Load reads a catalog from a YAML file. An empty path returns Default().
func Load(_ context.Context, path string) (*Catalog, error) {
	const op = "catalog.load"
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(op, fmt.Errorf("read %s: %w", path, err))
	}
	return Parse(raw)
}

// Parse decodes a YAML catalog document. Unknown fields are rejected.
func Parse(raw []byte) (*Catalog, error) {
	const op = "catalog.parse"

	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, errs.WrapKind(op, errs.ErrInvalidInput, err)
	}

	items := make([]Item, len(doc.Items))
	for i, s := range doc.Items {
		items[i] = Item(s)
	}
	return New(items, doc.Segments, doc.Contexts)
}
