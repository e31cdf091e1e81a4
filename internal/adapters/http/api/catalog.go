package api

import (
	"net/http"

	"github.com/okian/gamemash/internal/domain/catalog"
)

// CatalogDependencies exposes the immutable catalog.
type CatalogDependencies interface {
	Catalog() *catalog.Catalog
}

// CatalogHandler handles catalog requests.
type CatalogHandler struct {
	deps CatalogDependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps CatalogDependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

type catalogResponse struct {
	Items    []catalog.Item `json:"items"`
	Segments []catalog.Tag  `json:"segments"`
	Contexts []catalog.Tag  `json:"contexts"`
}

// HandleGetCatalog handles GET /catalog requests.
func (h *CatalogHandler) HandleGetCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	c := h.deps.Catalog()
	writeJSON(w, http.StatusOK, catalogResponse{
		Items:    c.Items(),
		Segments: c.Segments(),
		Contexts: c.Contexts(),
	})
}
