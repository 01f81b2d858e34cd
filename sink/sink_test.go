package sink_test

import (
	"context"
	"encoding/csv"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/purplemusic/channels/data"
	"github.com/purplemusic/channels/db"
	"github.com/purplemusic/channels/sink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRecord = &data.EnrichedRecord{
	ArtistRecord: data.ArtistRecord{
		MBID:        "a1b2c3d4e5",
		Name:        "X",
		CountryCode: "US",
		CountryName: "United States of America",
	},
	YouTubeURL: "https://youtube.com/channel/UCaaaaaaaaaaaaaaaaaaaaaa",
	ChannelID:  "UCaaaaaaaaaaaaaaaaaaaaaa",
}

func TestCSVSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channels.csv")

	s, err := sink.NewCSV(path)
	require.NoError(t, err)
	require.NoError(t, s.Write(context.Background(), testRecord))
	require.NoError(t, s.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, []string{"mbid", "name", "country_code", "country_name", "youtube_url", "channel_id"}, rows[0])
	assert.Equal(t, []string{
		"a1b2c3d4e5", "X", "US", "United States of America",
		"https://youtube.com/channel/UCaaaaaaaaaaaaaaaaaaaaaa",
		"UCaaaaaaaaaaaaaaaaaaaaaa",
	}, rows[1])
}

func TestSQLiteSink(t *testing.T) {
	conn, err := db.Open(filepath.Join(t.TempDir(), "channels.db"))
	require.NoError(t, err)

	s := sink.NewSQLite(conn)
	require.NoError(t, s.Write(context.Background(), testRecord))
	require.NoError(t, s.Write(context.Background(), testRecord))

	count, err := conn.CountChannels()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, s.Close())
}

func TestSupabaseSinkUpserts(t *testing.T) {
	var gotPath, gotQuery, gotKey, gotAuth, gotPrefer, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		gotPrefer = r.Header.Get("Prefer")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	s := sink.NewSupabase(server.URL, "secret-key", "youtube_channels", time.Second)
	require.NoError(t, s.Write(context.Background(), testRecord))

	assert.Equal(t, "/rest/v1/youtube_channels", gotPath)
	assert.Equal(t, "on_conflict=mbid", gotQuery)
	assert.Equal(t, "secret-key", gotKey)
	assert.Equal(t, "Bearer secret-key", gotAuth)
	assert.Equal(t, "resolution=ignore-duplicates", gotPrefer)
	assert.JSONEq(t, `{
		"mbid": "a1b2c3d4e5",
		"name": "X",
		"youtube_channel_id": "UCaaaaaaaaaaaaaaaaaaaaaa",
		"country_code": "US",
		"country_name": "United States of America"
	}`, gotBody)
}

func TestSupabaseSinkReportsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	s := sink.NewSupabase(server.URL, "bad-key", "youtube_channels", time.Second)
	assert.Error(t, s.Write(context.Background(), testRecord))
}

func TestSupabaseSinkWithoutSecretsIsNoop(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	s := sink.NewSupabase("", "", "youtube_channels", time.Second)
	assert.NoError(t, s.Write(context.Background(), testRecord))
	assert.NoError(t, s.Close())
	assert.EqualValues(t, 0, calls.Load())
}
