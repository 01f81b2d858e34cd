package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/purplemusic/channels/config"
	"github.com/purplemusic/channels/extract"
	"github.com/purplemusic/channels/musicbrainz"
	"github.com/purplemusic/channels/subcmd"
)

// check looks up a single artist and shows what the batch would make of it.
func check(ctx context.Context, args []string) error {
	sc := subcmd.New("check", "look up one artist and print its url relations and extracted channel id").
		RequireArg("mbid", "the artist's MusicBrainz id")
	configPath := sc.String("config", "", "path to channels.toml")
	if err := sc.Parse(args); err != nil {
		return fmt.Errorf("flag parsing err: %w", err)
	}

	mbid := sc.Arg0()
	// save the API call when the argument can't be an mbid
	if _, err := uuid.Parse(mbid); err != nil {
		return fmt.Errorf("'%s' is not a MusicBrainz id: %w", mbid, err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	client := musicbrainz.New(musicbrainz.Config{
		BaseURL:      cfg.MusicBrainz.BaseURL,
		UserAgent:    cfg.MusicBrainz.UserAgent,
		Timeout:      cfg.MusicBrainz.Timeout(),
		MaxAttempts:  cfg.MusicBrainz.MaxAttempts,
		RequestDelay: cfg.MusicBrainz.RequestDelay(),
		BusyBackoff:  cfg.MusicBrainz.BusyBackoff(),
		ErrorBackoff: cfg.MusicBrainz.ErrorBackoff(),
	}, nil, nil)

	rels, err := client.LookupRelations(ctx, mbid)
	if err != nil {
		return err
	}
	if len(rels) == 0 {
		fmt.Println("no url relations")
		return nil
	}

	for _, rel := range rels {
		fmt.Printf("%-16s %s\n", rel.Type, rel.URL.Resource)
	}

	youtubeURL := musicbrainz.FirstYouTubeURL(rels)
	if youtubeURL == "" {
		fmt.Println("\nno youtube relation")
		return nil
	}
	if id := extract.ChannelID(youtubeURL); id != "" {
		fmt.Printf("\nchannel id: %s\n", id)
	} else {
		fmt.Printf("\nyoutube url '%s' has no extractable channel id\n", youtubeURL)
	}
	return nil
}
