package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/techiral/go-content-backend/internal/domain"
)

// SQLite is the relational backend. Videos and blogs live in their own
// tables; metadata bundles are serialized JSON columns (see domain tags).
type SQLite struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) a SQLite database, applies PRAGMAs and
// migrations, and returns the store.
func OpenSQLite(path string) (*SQLite, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&domain.Video{}, &domain.Blog{}); err != nil {
		return nil, err
	}

	return &SQLite{db: db}, nil
}

// openSQLiteDSN is the test hook: it accepts a raw DSN (e.g. an in-memory
// shared-cache database) and skips the parent-directory check.
func openSQLiteDSN(dsn string) (*SQLite, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&domain.Video{}, &domain.Blog{}); err != nil {
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) LoadVideo(ctx context.Context, id string) (*domain.Video, error) {
	var v domain.Video
	err := s.db.WithContext(ctx).First(&v, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// SaveVideo upserts the full row in one statement, so a bundle is either
// written whole or not at all.
func (s *SQLite) SaveVideo(ctx context.Context, v *domain.Video) error {
	now := time.Now().UTC()
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
	v.UpdatedAt = now
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(v).Error
}

func (s *SQLite) DeleteVideo(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&domain.Video{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) ListVideos(ctx context.Context) ([]domain.Video, error) {
	var out []domain.Video
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (s *SQLite) LoadBlog(ctx context.Context, id string) (*domain.Blog, error) {
	var b domain.Blog
	err := s.db.WithContext(ctx).First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *SQLite) SaveBlog(ctx context.Context, b *domain.Blog) error {
	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(b).Error
}

func (s *SQLite) DeleteBlog(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&domain.Blog{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLite) ListBlogs(ctx context.Context) ([]domain.Blog, error) {
	var out []domain.Blog
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
