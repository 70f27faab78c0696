// Package store implements the persistence adapter for content entities.
// Two interchangeable backends are provided: a relational SQLite store and an
// embedded Badger key-value store. The generation pipeline is agnostic to
// which backend is active.
//
// Guarantees common to both backends:
//   - Save is atomic per entity: a metadata bundle is never partially
//     written.
//   - Load after a successful Save returns the just-written value
//     (read-after-write consistency within a process).
//
// Concurrent saves of the same entity from two callers are last-write-wins;
// there is no optimistic lock or version check. Accepted limitation.
package store

import (
	"context"
	"errors"

	"github.com/techiral/go-content-backend/internal/domain"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("entity not found")

// Store is the persistence contract consumed by services and handlers.
// Lists are ordered newest-first.
type Store interface {
	LoadVideo(ctx context.Context, id string) (*domain.Video, error)
	SaveVideo(ctx context.Context, v *domain.Video) error
	DeleteVideo(ctx context.Context, id string) error
	ListVideos(ctx context.Context) ([]domain.Video, error)

	LoadBlog(ctx context.Context, id string) (*domain.Blog, error)
	SaveBlog(ctx context.Context, b *domain.Blog) error
	DeleteBlog(ctx context.Context, id string) error
	ListBlogs(ctx context.Context) ([]domain.Blog, error)

	Close() error
}
