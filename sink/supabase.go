package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/purplemusic/channels/data"
	"github.com/purplemusic/channels/request"
)

// NewSupabase returns a sink that upserts into a hosted Supabase table,
// keyed on mbid, ignoring duplicates. When the URL or service key is
// missing the sink still works but every write is a no-op: the rest of the
// pipeline (and the file output) must not care.
func NewSupabase(baseURL, serviceKey, table string, timeout time.Duration) Sink {
	if baseURL == "" || serviceKey == "" {
		log.Printf("supabase url or service key not set; hosted sink disabled")
		return &supabaseSink{}
	}
	return &supabaseSink{
		endpoint: fmt.Sprintf("%s/rest/v1/%s?on_conflict=mbid", baseURL, table),
		key:      serviceKey,
		http:     &http.Client{Timeout: timeout},
	}
}

type supabaseSink struct {
	endpoint string
	key      string
	http     *http.Client
}

// supabaseRow matches the hosted youtube_channels table columns.
type supabaseRow struct {
	MBID             string `json:"mbid"`
	Name             string `json:"name"`
	YouTubeChannelID string `json:"youtube_channel_id"`
	CountryCode      string `json:"country_code"`
	CountryName      string `json:"country_name"`
}

func (s *supabaseSink) Name() string { return "supabase" }

func (s *supabaseSink) Write(ctx context.Context, rec *data.EnrichedRecord) error {
	if s.endpoint == "" {
		return nil
	}

	body, err := json.Marshal(supabaseRow{
		MBID:             rec.MBID,
		Name:             rec.Name,
		YouTubeChannelID: rec.ChannelID,
		CountryCode:      rec.CountryCode,
		CountryName:      rec.CountryName,
	})
	if err != nil {
		return fmt.Errorf("error encoding row for '%s': %w", rec.MBID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("request error: %w", err)
	}
	req.Header.Set("apikey", s.key)
	req.Header.Set("Authorization", "Bearer "+s.key)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "resolution=ignore-duplicates")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("error upserting '%s': %w", rec.MBID, err)
	}
	defer resp.Body.Close()

	if err := request.Error(resp); err != nil {
		return fmt.Errorf("error upserting '%s': %w", rec.MBID, err)
	}
	return nil
}

func (s *supabaseSink) Close() error { return nil }
