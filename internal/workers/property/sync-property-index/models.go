// internal/workers/property/sync-property-index/models.go
package syncpropertyindex

import (
	"context"

	"livest/internal/common/search"
)

// Input is shared by the property-created and application-decided processes;
// only propertyId is read.
type Input struct {
	PropertyID string `json:"propertyId"`
}

type Output struct {
	IndexStatus string `json:"indexStatus"` // "indexed", "deleted"
	LeaseCount  int    `json:"leaseCount"`
	IndexedAt   string `json:"indexedAt"` // ISO 8601
}

const (
	StatusIndexed = "indexed"
	StatusDeleted = "deleted"
)

// Indexer is the part of search.Indexer the worker needs.
type Indexer interface {
	Index(ctx context.Context, doc search.Document) error
	Delete(ctx context.Context, id string) error
}
