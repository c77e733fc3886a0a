// Package repomanager wires repository implementations to a concrete backend
// and exposes the schema bootstrap hook for it.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/blogs"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/posts"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to one storage backend.
type RepositoryManager interface {
	// Bootstrap prepares the backend schema: goose migrations for Postgres,
	// table creation for DynamoDB, a no-op for the in-memory backend.
	Bootstrap(ctx context.Context) error
	Users() users.Repository
	Blogs() blogs.Repository
	Posts() posts.Repository
	Close() error
}
