// Package enrich pairs artist records with their YouTube channel ids.
package enrich

import (
	"context"
	"log"
	"sync"
	"sync/atomic"

	"github.com/purplemusic/channels/data"
	"github.com/purplemusic/channels/extract"
	"github.com/purplemusic/channels/musicbrainz"
	"github.com/purplemusic/channels/resolve"
	"golang.org/x/sync/errgroup"
)

// New creates an Enricher. resolver may be nil; then handle/user URLs are
// simply rejected, which is the default behavior.
func New(client *musicbrainz.Client, resolver *resolve.Resolver) *Enricher {
	return &Enricher{client: client, resolver: resolver}
}

type Enricher struct {
	client   *musicbrainz.Client
	resolver *resolve.Resolver
}

// Enrich looks up one artist and returns the enriched record, or nil when
// the artist has no usable channel. "No channel" is a normal outcome, not a
// failure; the only possible error is context cancellation.
func (e *Enricher) Enrich(ctx context.Context, rec data.ArtistRecord) (*data.EnrichedRecord, error) {
	rels, err := e.client.LookupRelations(ctx, rec.MBID)
	if err != nil {
		return nil, err
	}

	youtubeURL := musicbrainz.FirstYouTubeURL(rels)
	if youtubeURL == "" {
		return nil, nil
	}

	channelID := extract.ChannelID(youtubeURL)
	if channelID == "" && e.resolver != nil && resolve.Resolvable(youtubeURL) {
		channelID = e.resolver.ChannelID(ctx, youtubeURL)
	}
	if channelID == "" {
		return nil, nil
	}

	return &data.EnrichedRecord{
		ArtistRecord: rec,
		YouTubeURL:   youtubeURL,
		ChannelID:    channelID,
	}, nil
}

// Pool fans enrichment out over a fixed number of workers.
type Pool struct {
	Workers  int
	Enricher *Enricher
}

// Run enriches every record and returns the ones that have a channel, in
// completion order. Once dispatched, each record runs to completion (or its
// own retry exhaustion); the only abort path is ctx.
func (p *Pool) Run(ctx context.Context, records []data.ArtistRecord) ([]data.EnrichedRecord, error) {
	workers := p.Workers
	if workers < 1 {
		workers = 1
	}

	var (
		mu      sync.Mutex
		results []data.EnrichedRecord
		done    atomic.Int64
	)

	g := new(errgroup.Group)
	g.SetLimit(workers)

	total := len(records)
	for _, rec := range records {
		rec := rec
		g.Go(func() error {
			enriched, err := p.Enricher.Enrich(ctx, rec)
			if err != nil {
				return err
			}

			n := done.Add(1)
			if enriched == nil {
				log.Printf("[%d/%d] - %s (no youtube channel)", n, total, rec.Name)
				return nil
			}

			log.Printf("[%d/%d] + %s | %s | %s", n, total, rec.Name, rec.CountryCode, enriched.ChannelID)
			mu.Lock()
			results = append(results, *enriched)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
