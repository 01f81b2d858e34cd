// Package sink persists enriched records. A batch can write to any
// combination of a CSV file, a local sqlite database, and a hosted Supabase
// table.
package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/purplemusic/channels/data"
	"github.com/purplemusic/channels/db"
)

// A Sink accepts enriched records one at a time. Writes for different
// records are independent: one failed write never poisons the sink.
type Sink interface {
	Name() string
	Write(ctx context.Context, rec *data.EnrichedRecord) error
	Close() error
}

// csvHeader is the fixed output file header.
var csvHeader = []string{"mbid", "name", "country_code", "country_name", "youtube_url", "channel_id"}

// NewCSV creates (truncating) the output file and writes the header row.
func NewCSV(path string) (Sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("error creating output file '%s': %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("error writing csv header: %w", err)
	}

	return &csvSink{file: f, w: w}, nil
}

type csvSink struct {
	file *os.File
	w    *csv.Writer
}

func (s *csvSink) Name() string { return "csv" }

func (s *csvSink) Write(ctx context.Context, rec *data.EnrichedRecord) error {
	return s.w.Write([]string{
		rec.MBID,
		rec.Name,
		rec.CountryCode,
		rec.CountryName,
		rec.YouTubeURL,
		rec.ChannelID,
	})
}

func (s *csvSink) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		s.file.Close()
		return fmt.Errorf("error flushing csv: %w", err)
	}
	return s.file.Close()
}

// NewSQLite wraps an open database as a sink. The sink owns the connection
// and closes it.
func NewSQLite(conn *db.DB) Sink {
	return &sqliteSink{conn: conn}
}

type sqliteSink struct {
	conn *db.DB
}

func (s *sqliteSink) Name() string { return "sqlite" }

func (s *sqliteSink) Write(ctx context.Context, rec *data.EnrichedRecord) error {
	return s.conn.InsertChannel(rec)
}

func (s *sqliteSink) Close() error { return s.conn.Close() }
