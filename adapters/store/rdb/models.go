package rdb

import "time"

// SnapshotRecord is the RDB row for one snapshot. The full snapshot is
// kept as its versioned JSON document so the stored form stays identical
// to the file store's and remains readable by external rollback tooling.
type SnapshotRecord struct {
	ID        string    `gorm:"primaryKey"`
	Zone      string    `gorm:"index"`
	CreatedAt time.Time `gorm:"index"`
	Document  []byte
}

func (SnapshotRecord) TableName() string { return "snapshots" }
