package tucache

import "time"

// Entry records one translation unit's last successfully processed content
// hash, so a driver invocation can skip reprocessing a file whose bytes
// haven't changed since. This is the CLI driver's build cache (spec.md
// §6.3 keeps AST/Type/Decl serialization itself an external concern, out
// of scope for the core) -- Entry stores the two columns a cache-hit check
// needs (path and hash) plus an update timestamp, grounded on the teacher's models.Stage/Apply
// gorm-tag style (models/models.go) stripped down to this narrower shape.
type Entry struct {
	Path      string    `gorm:"primaryKey;type:text"`
	Hash      string    `gorm:"type:varchar(64);not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Entry) TableName() string { return "tu_cache_entries" }
