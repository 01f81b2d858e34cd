// Package db stores enriched channel records in a sqlite3 database file.
package db

import (
	_ "embed"
	"fmt"

	"github.com/purplemusic/channels/data"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// DB represents our sqlite3 database file.
type DB struct{ *gorm.DB }

//go:embed schema.sql
var schema string

// channel is the channels table row shape.
type channel struct {
	MBID        string `gorm:"primaryKey;column:mbid"`
	Name        string
	CountryCode string
	CountryName string
	YouTubeURL  string `gorm:"column:youtube_url"`
	ChannelID   string
}

func (channel) TableName() string { return "channels" }

// Open returns a connection to a migrated sqlite3 database file on disk,
// creating the file and running migrations if necessary.
func Open(filename string) (*DB, error) {
	gdb, err := gorm.Open(sqlite.Open(filename), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening db file at '%s': %w", filename, err)
	}

	db := &DB{gdb}

	if err := db.Exec(schema).Error; err != nil {
		return nil, fmt.Errorf("error migrating db at '%s': %w", filename, err)
	}

	return db, nil
}

func (db *DB) Close() error {
	pool, err := db.DB.DB()
	if err != nil {
		return err
	}
	return pool.Close()
}

// InsertChannel inserts one enriched record, doing nothing if the MBID is
// already present. Re-running a batch over unchanged input leaves the table
// unchanged.
func (db *DB) InsertChannel(rec *data.EnrichedRecord) error {
	if rec.MBID == "" {
		return fmt.Errorf("no mbid")
	}
	if err := db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&channel{
			MBID:        rec.MBID,
			Name:        rec.Name,
			CountryCode: rec.CountryCode,
			CountryName: rec.CountryName,
			YouTubeURL:  rec.YouTubeURL,
			ChannelID:   rec.ChannelID,
		}).
		Error; err != nil {
		return fmt.Errorf("error inserting channel for '%s': %w", rec.MBID, err)
	}
	return nil
}

// CountChannels returns the number of stored channel records.
func (db *DB) CountChannels() (int, error) {
	var count int64
	if err := db.
		Table("channels").
		Count(&count).
		Error; err != nil {
		return 0, fmt.Errorf("error counting channels: %w", err)
	}
	return int(count), nil
}

// A CountryCount is the number of stored channels for one country.
type CountryCount struct {
	CountryCode string
	CountryName string
	Channels    int
}

// CountByCountry returns per-country channel counts, largest first.
func (db *DB) CountByCountry() ([]CountryCount, error) {
	var counts []CountryCount
	if err := db.
		Table("channels").
		Select("country_code, country_name, count(*) as channels").
		Group("country_code").
		Order("channels desc, country_code asc").
		Scan(&counts).
		Error; err != nil {
		return nil, fmt.Errorf("error counting channels by country: %w", err)
	}
	return counts, nil
}
