// Package resolve turns handle- and user-style YouTube URLs into channel
// ids by reading the canonical link off the channel page itself.
//
// This is a best-effort extra step: the strict extractor rejects those URL
// shapes because they carry no id, and resolving them costs a page fetch
// per artist. It is off by default and failures are just "no channel".
package resolve

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/purplemusic/channels/extract"
	"github.com/purplemusic/channels/request"
)

func New(userAgent string, timeout time.Duration) *Resolver {
	return &Resolver{
		userAgent: userAgent,
		http:      &http.Client{Timeout: timeout},
	}
}

type Resolver struct {
	userAgent string
	http      *http.Client
}

// Resolvable reports whether rawURL is a YouTube page worth fetching: a
// /user/... or /@handle path on a YouTube host. Anything else either already
// yields an id through the extractor or can't produce one at all.
func Resolvable(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if !strings.Contains(strings.ToLower(parsed.Host), "youtube.com") {
		return false
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return false
	}
	return strings.EqualFold(parts[0], "user") || strings.HasPrefix(parts[0], "@")
}

// ChannelID fetches the page at rawURL and extracts the channel id from its
// canonical link. Callers decide which URLs are worth the fetch (see
// Resolvable); any failure yields "".
func (r *Resolver) ChannelID(ctx context.Context, rawURL string) string {
	doc, err := request.FetchHTML(ctx, r.http, rawURL, r.userAgent)
	if err != nil {
		return ""
	}

	if href, ok := doc.Find(`link[rel="canonical"]`).Attr("href"); ok {
		if id := extract.ChannelID(href); id != "" {
			return id
		}
	}
	if content, ok := doc.Find(`meta[property="og:url"]`).Attr("content"); ok {
		if id := extract.ChannelID(content); id != "" {
			return id
		}
	}
	return ""
}
