package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gofrs/flock"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/purplemusic/channels/cache"
	"github.com/purplemusic/channels/config"
	"github.com/purplemusic/channels/db"
	"github.com/purplemusic/channels/enrich"
	"github.com/purplemusic/channels/errlog"
	"github.com/purplemusic/channels/musicbrainz"
	"github.com/purplemusic/channels/resolve"
	"github.com/purplemusic/channels/sink"
	"github.com/purplemusic/channels/source"
	"github.com/purplemusic/channels/subcmd"
)

func runBatch(ctx context.Context, args []string) error {
	sc := subcmd.New("run", "load artist files, look up youtube channels, write every configured sink")
	configPath := sc.String("config", "", "path to channels.toml")
	folder := sc.String("folder", "", "input folder, overriding the config file")
	if err := sc.Parse(args); err != nil {
		return fmt.Errorf("flag parsing err: %w", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *folder != "" {
		cfg.Paths.InputFolder = *folder
	}

	// one run at a time per output file
	lock := flock.New(cfg.Paths.OutputFile + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("error taking run lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another run is already writing '%s'", cfg.Paths.OutputFile)
	}
	defer lock.Unlock()

	errs := errlog.Open(cfg.Paths.ErrorLog)
	defer errs.Close()

	records, err := source.Load(cfg.Paths.InputFolder, errs)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		log.Printf("no artist records in '%s'", cfg.Paths.InputFolder)
		return nil
	}

	var responses *cache.Cache
	if cfg.Paths.CacheDir != "" {
		responses = cache.New(cfg.Paths.CacheDir)
	}
	client := musicbrainz.New(musicbrainz.Config{
		BaseURL:      cfg.MusicBrainz.BaseURL,
		UserAgent:    cfg.MusicBrainz.UserAgent,
		Timeout:      cfg.MusicBrainz.Timeout(),
		MaxAttempts:  cfg.MusicBrainz.MaxAttempts,
		RequestDelay: cfg.MusicBrainz.RequestDelay(),
		BusyBackoff:  cfg.MusicBrainz.BusyBackoff(),
		ErrorBackoff: cfg.MusicBrainz.ErrorBackoff(),
	}, responses, errs)

	var resolver *resolve.Resolver
	if cfg.Resolver.Enabled {
		resolver = resolve.New(cfg.MusicBrainz.UserAgent, cfg.MusicBrainz.Timeout())
	}

	pool := &enrich.Pool{
		Workers:  cfg.Fetch.Workers,
		Enricher: enrich.New(client, resolver),
	}
	results, err := pool.Run(ctx, records)
	if err != nil {
		return err
	}

	sinks, err := openSinks(cfg)
	if err != nil {
		return err
	}
	for i := range results {
		for _, s := range sinks {
			if err := s.Write(ctx, &results[i]); err != nil {
				errs.Printf("%s sink, %s: %v", s.Name(), results[i].MBID, err)
			}
		}
	}
	for _, s := range sinks {
		if err := s.Close(); err != nil {
			errs.Printf("%s sink: %v", s.Name(), err)
		}
	}

	p := message.NewPrinter(language.English)
	p.Printf("done: %d of %d artists have a youtube channel\n", len(results), len(records))
	return nil
}

func openSinks(cfg config.Config) ([]sink.Sink, error) {
	csvSink, err := sink.NewCSV(cfg.Paths.OutputFile)
	if err != nil {
		return nil, err
	}
	sinks := []sink.Sink{csvSink}

	if cfg.Paths.Database != "" {
		conn, err := db.Open(cfg.Paths.Database)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sink.NewSQLite(conn))
	}

	sinks = append(sinks, sink.NewSupabase(
		cfg.Supabase.URL, cfg.Supabase.ServiceKey, cfg.Supabase.Table, cfg.Supabase.Timeout()))

	return sinks, nil
}
