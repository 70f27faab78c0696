package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/techiral/go-content-backend/internal/domain"
)

const (
	videoPrefix = "video:"
	blogPrefix  = "blog:"
)

// Badger is the embedded key-value backend. Each entity is one JSON value
// under "video:<id>" or "blog:<id>"; writes go through a single transaction
// so a bundle is stored whole or not at all.
type Badger struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a Badger database rooted at dir.
func OpenBadger(dir string, log zerolog.Logger) (*Badger, error) {
	if dir == "" {
		return nil, errors.New("badger: path is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("badger: create directory %s: %w", dir, err)
	}
	opts := badger.DefaultOptions(dir).
		WithSyncWrites(true).
		WithNumVersionsToKeep(1).
		WithLogger(badgerLogger{log: log})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open: %w", err)
	}
	return &Badger{db: db}, nil
}

// OpenBadgerInMemory opens a non-persistent instance. Test use only.
func OpenBadgerInMemory() (*Badger, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Badger{db: db}, nil
}

// badgerLogger adapts zerolog to Badger's Logger interface.
type badgerLogger struct {
	log zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{})   { l.log.Error().Msgf(format, args...) }
func (l badgerLogger) Warningf(format string, args ...interface{}) { l.log.Warn().Msgf(format, args...) }
func (l badgerLogger) Infof(format string, args ...interface{})    { l.log.Debug().Msgf(format, args...) }
func (l badgerLogger) Debugf(format string, args ...interface{})   { l.log.Debug().Msgf(format, args...) }

func (s *Badger) LoadVideo(ctx context.Context, id string) (*domain.Video, error) {
	var v domain.Video
	if err := s.load(ctx, videoPrefix+id, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Badger) SaveVideo(ctx context.Context, v *domain.Video) error {
	now := time.Now().UTC()
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
	v.UpdatedAt = now
	return s.save(ctx, videoPrefix+v.ID, v)
}

func (s *Badger) DeleteVideo(ctx context.Context, id string) error {
	return s.delete(ctx, videoPrefix+id)
}

func (s *Badger) ListVideos(ctx context.Context) ([]domain.Video, error) {
	var out []domain.Video
	err := s.list(ctx, videoPrefix, func(val []byte) error {
		var v domain.Video
		if err := json.Unmarshal(val, &v); err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Badger) LoadBlog(ctx context.Context, id string) (*domain.Blog, error) {
	var b domain.Blog
	if err := s.load(ctx, blogPrefix+id, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Badger) SaveBlog(ctx context.Context, b *domain.Blog) error {
	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	return s.save(ctx, blogPrefix+b.ID, b)
}

func (s *Badger) DeleteBlog(ctx context.Context, id string) error {
	return s.delete(ctx, blogPrefix+id)
}

func (s *Badger) ListBlogs(ctx context.Context) ([]domain.Blog, error) {
	var out []domain.Blog
	err := s.list(ctx, blogPrefix, func(val []byte) error {
		var b domain.Blog
		if err := json.Unmarshal(val, &b); err != nil {
			return err
		}
		out = append(out, b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Badger) Close() error { return s.db.Close() }

func (s *Badger) load(ctx context.Context, key string, dst any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dst)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *Badger) save(ctx context.Context, key string, src any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), raw)
	})
}

func (s *Badger) delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		// Get first so deleting an absent key reports not-found.
		if _, err := txn.Get([]byte(key)); err != nil {
			return err
		}
		return txn.Delete([]byte(key))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *Badger) list(ctx context.Context, prefix string, fn func(val []byte) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			if err := it.Item().Value(fn); err != nil {
				return err
			}
		}
		return nil
	})
}
