// Package musicbrainz looks up artist url relations from the MusicBrainz
// web service.
package musicbrainz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/purplemusic/channels/cache"
	"github.com/purplemusic/channels/errlog"
	"github.com/purplemusic/channels/request"
	"github.com/purplemusic/channels/retry"
)

const DefaultBaseURL = "https://musicbrainz.org/ws/2/artist"

// Config carries everything the client needs; it is built once in main and
// passed in.
type Config struct {
	BaseURL   string
	UserAgent string

	// Timeout bounds each individual request.
	Timeout time.Duration

	// MaxAttempts is the total number of tries per lookup.
	MaxAttempts int

	// RequestDelay is the unconditional pause after every attempt,
	// independent of any retry backoff. MusicBrainz asks for roughly one
	// request per second from anonymous clients.
	RequestDelay time.Duration

	// BusyBackoff is the per-attempt backoff base after a 503.
	BusyBackoff time.Duration

	// ErrorBackoff is the per-attempt backoff base after any other failure.
	ErrorBackoff time.Duration
}

// New creates a MusicBrainz client. responses may be nil to disable the
// response cache.
func New(cfg Config, responses *cache.Cache, errs *errlog.Log) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 3
	}
	return &Client{
		cfg:       cfg,
		responses: responses,
		errs:      errs,
		http:      &http.Client{Timeout: cfg.Timeout},
	}
}

type Client struct {
	// mu serializes requests: ten workers can want a lookup at once, but
	// MusicBrainz gets them one at a time.
	mu sync.Mutex

	cfg       Config
	responses *cache.Cache
	errs      *errlog.Log
	http      *http.Client

	nextReqAt time.Time
}

// A Relation is one entry of an artist's url-rels list. Only the resource
// URL matters to us.
type Relation struct {
	Type string `json:"type"`
	URL  struct {
		Resource string `json:"resource"`
	} `json:"url"`
}

type relationsResponse struct {
	Relations []Relation `json:"relations"`
}

// LookupRelations fetches the url relations for one artist MBID. Transient
// failures are retried up to the attempt cap; when attempts run out the
// lookup degrades to (nil, nil) -- "nothing found" -- rather than an error.
// Only context cancellation surfaces as an error.
func (c *Client) LookupRelations(ctx context.Context, mbid string) ([]Relation, error) {
	if c.responses != nil {
		if body, err := c.responses.Get(mbid); err == nil {
			defer body.Close()
			rels, err := decodeRelations(body)
			if err == nil {
				return rels, nil
			}
			// a corrupt cache file falls through to the network
		}
	}

	var rels []Relation
	policy := retry.Policy{
		MaxAttempts: c.cfg.MaxAttempts,
		Backoff:     c.backoff,
	}
	err := policy.Do(ctx, func() error {
		var err error
		rels, err = c.fetchRelations(ctx, mbid)
		if err != nil {
			c.errs.Printf("%s: %v", mbid, err)
		}
		return err
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		// attempts exhausted: absence, not failure
		return nil, nil
	}

	return rels, nil
}

// backoff waits longer on each attempt, and much longer when the service
// says it is busy.
func (c *Client) backoff(attempt int, err error) time.Duration {
	var statusErr *request.StatusError
	if errors.As(err, &statusErr) && statusErr.Code == http.StatusServiceUnavailable {
		return time.Duration(attempt) * c.cfg.BusyBackoff
	}
	return time.Duration(attempt) * c.cfg.ErrorBackoff
}

func (c *Client) fetchRelations(ctx context.Context, mbid string) ([]Relation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.nextReqAt.IsZero() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Until(c.nextReqAt)):
		}
	}

	query := url.Values{}
	query.Set("fmt", "json")
	query.Set("inc", "url-rels")
	lookupURL := fmt.Sprintf("%s/%s?%s", c.cfg.BaseURL, url.PathEscape(mbid), query.Encode())

	resp, err := request.Get(ctx, c.http, lookupURL, c.cfg.UserAgent)
	if err != nil {
		c.delay(0)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusServiceUnavailable {
		c.delay(retryAfter(resp))
	} else {
		c.delay(0)
	}
	if err := request.Error(resp); err != nil {
		return nil, fmt.Errorf("lookup error for '%s': %w", mbid, err)
	}

	body := io.ReadCloser(resp.Body)
	if c.responses != nil {
		cached, err := c.responses.Set(mbid, body)
		if err != nil {
			return nil, fmt.Errorf("error caching response for '%s': %w", mbid, err)
		}
		body = cached
	}

	return decodeRelations(body)
}

// delay pushes the next request out by the inter-request delay, or by the
// server-supplied Retry-After when that is longer.
func (c *Client) delay(retryAfter time.Duration) {
	wait := c.cfg.RequestDelay
	if retryAfter > wait {
		wait = retryAfter
	}
	c.nextReqAt = time.Now().Add(wait)
}

func retryAfter(resp *http.Response) time.Duration {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}
	seconds, err := strconv.ParseInt(header, 10, 64)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

func decodeRelations(body io.Reader) ([]Relation, error) {
	var result relationsResponse
	dec := json.NewDecoder(body)
	if err := dec.Decode(&result); err != nil {
		return nil, fmt.Errorf("relations decode error: %w", err)
	}
	return result.Relations, nil
}

// FirstYouTubeURL returns the resource URL of the first relation pointing at
// YouTube, in list order, or "" when there is none. First match wins; we
// never keep scanning for a "better" link.
func FirstYouTubeURL(rels []Relation) string {
	for _, rel := range rels {
		resource := rel.URL.Resource
		if resource == "" {
			continue
		}
		low := strings.ToLower(resource)
		if strings.Contains(low, "youtube.com") || strings.Contains(low, "youtu.be") {
			return resource
		}
	}
	return ""
}
