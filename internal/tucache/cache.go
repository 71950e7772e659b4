// Package tucache is a small local build cache keyed by translation-unit
// content hash, letting a driver (cmd/ccore) skip reprocessing a file whose
// bytes haven't changed since the last run. It is ambient build-driver
// infrastructure, not part of the compiler core (spec.md §6.3 keeps AST
// serialization itself external); nothing in internal/sema or
// internal/parser imports this package.
//
// Grounded on the teacher's db/sqlite.go Connect/Migrate pair: gorm.Open
// over a pure-Go sqlite dialector, AutoMigrate for schema setup. Unlike the
// teacher, there is no remote libsql endpoint and no encryption-at-rest
// layer to wire -- the cached payload is a content hash and a timestamp,
// not the transform history the teacher protects (see DESIGN.md's Dropped
// teacher modules section for why those two deps don't carry over).
package tucache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Cache wraps a *gorm.DB connection to the build-cache database.
type Cache struct {
	db *gorm.DB
}

// Open connects to (creating if absent) the sqlite database at path and
// ensures its schema is current.
func Open(path string, debug bool) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating tucache directory: %w", err)
		}
	}

	config := &gorm.Config{}
	if debug {
		config.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(sqlite.Open(path), config)
	if err != nil {
		return nil, fmt.Errorf("opening tucache database: %w", err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrating tucache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// HashContent returns the cache key for a translation unit's bytes.
func HashContent(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Fresh reports whether path's last recorded content hash in the cache
// matches hash -- true means the driver can skip reprocessing that file.
func (c *Cache) Fresh(path, hash string) (bool, error) {
	var e Entry
	err := c.db.Where("path = ?", path).First(&e).Error
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("looking up tucache entry for %s: %w", path, err)
	}
	return e.Hash == hash, nil
}

// Record upserts path's current content hash, stamping UpdatedAt to now.
// A plain Save won't do here: gorm's Save only updates an existing row by
// primary key, silently affecting zero rows (and losing the write) the
// first time a given path is recorded -- OnConflict/UpdateAll makes this
// an actual upsert.
func (c *Cache) Record(path, hash string) error {
	e := Entry{Path: path, Hash: hash, UpdatedAt: timeNow()}
	return c.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&e).Error
}

// timeNow is its own function (rather than an inline time.Now() call at
// each Record site) so a future test can substitute a fixed clock without
// touching Cache's call sites.
func timeNow() time.Time { return time.Now() }

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
