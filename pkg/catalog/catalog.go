package catalog

import (
	"context"
)

// Node is one resolved catalog entity. Products carry title, handle and an
// image; variant and discount nodes only confirm existence.
type Node struct {
	ID       string
	Title    string
	Handle   string
	ImageURL string
}

// Catalog is the upstream system of record for product and discount data.
// Lookups are batched; an ID absent from the result means the entity no
// longer exists upstream. Absence is data, never an error.
type Catalog interface {
	ResolveNodes(ctx context.Context, ids []string) (map[string]Node, error)
}
